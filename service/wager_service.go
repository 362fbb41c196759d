package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"wagerbot/events"
	"wagerbot/models"
)

const (
	maxCreateAttempts = 3
	maxReasonLength   = 500
)

// Largest stake that fits NUMERIC(12,2)
var maxStake = decimal.RequireFromString("9999999999.99")

type wagerService struct {
	uowFactory     UnitOfWorkFactory
	idGenerator    *WagerIDGenerator
	commissionRate decimal.Decimal
}

// NewWagerService creates a new wager service
func NewWagerService(uowFactory UnitOfWorkFactory, idGenerator *WagerIDGenerator, commissionRate decimal.Decimal) WagerService {
	return &wagerService{
		uowFactory:     uowFactory,
		idGenerator:    idGenerator,
		commissionRate: commissionRate,
	}
}

// CreateWager validates the request and stores the wager with both payment legs
func (s *wagerService) CreateWager(ctx context.Context, req CreateWagerRequest) (*models.Wager, error) {
	wager, err := s.buildWager(req)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		err = s.insertWager(ctx, wager)
		if !errors.Is(err, ErrWagerIDTaken) {
			break
		}
		log.WithFields(log.Fields{
			"wagerID": wager.ID,
			"attempt": attempt,
		}).Warn("Wager ID taken by a concurrent insert, drawing a new one")
	}
	if errors.Is(err, ErrWagerIDTaken) {
		return nil, storeError("failed to allocate wager id", err)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"wagerID":    wager.ID,
		"player1":    wager.Player1ID,
		"player2":    wager.Player2ID,
		"stake":      wager.StakeAmount.StringFixed(models.CurrencyPrecision),
		"supervised": wager.Supervised,
	}).Info("Wager created")

	return wager, nil
}

func (s *wagerService) buildWager(req CreateWagerRequest) (*models.Wager, error) {
	if err := validateStake(req.Stake); err != nil {
		return nil, err
	}

	wager := &models.Wager{
		HostID:      req.Actor.ID,
		StakeAmount: req.Stake.Round(models.CurrencyPrecision),
		Supervised:  req.Supervised,
		VODRequired: req.VODRequired,
		Status:      models.WagerStatusPending,
	}
	if link := strings.TrimSpace(req.PaymentLink); link != "" {
		wager.PaymentLink = &link
	}

	if req.Supervised {
		if !req.Actor.IsModerator {
			return nil, newLedgerError(KindUnauthorized, "only moderators can create supervised wagers")
		}
		wager.Player1ID = req.Player1ID
		wager.Player2ID = req.Player2ID
		moderatorID := req.Actor.ID
		wager.ModeratorID = &moderatorID
		// Fixed at creation and reused verbatim at resolution
		wager.Commission = decimal.NewNullDecimal(models.CalculateCommission(wager.StakeAmount, s.commissionRate))
	} else {
		if req.Actor.IsSystem {
			return nil, newLedgerError(KindUnauthorized, "wagers must be created by a player")
		}
		wager.Player1ID = req.Actor.ID
		wager.Player2ID = req.OpponentID
	}

	if wager.Player1ID == 0 || wager.Player2ID == 0 {
		return nil, newLedgerError(KindValidation, "both players are required")
	}
	if wager.Player1ID == wager.Player2ID {
		return nil, newLedgerError(KindValidation, "a wager needs two different players")
	}

	return wager, nil
}

func validateStake(stake decimal.Decimal) error {
	if !stake.IsPositive() {
		return newLedgerError(KindValidation, "stake must be positive, got %s", stake.String())
	}
	if !stake.Equal(stake.Round(models.CurrencyPrecision)) {
		return newLedgerError(KindValidation, "stake %s has more than %d decimal places", stake.String(), models.CurrencyPrecision)
	}
	if stake.GreaterThan(maxStake) {
		return newLedgerError(KindValidation, "stake %s is too large", stake.String())
	}
	return nil
}

func (s *wagerService) insertWager(ctx context.Context, wager *models.Wager) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	id, err := s.idGenerator.Generate(ctx, uow.WagerRepository().Exists)
	if err != nil {
		return err
	}
	wager.ID = id

	if err := uow.WagerRepository().Create(ctx, wager); err != nil {
		if errors.Is(err, ErrWagerIDTaken) {
			return err
		}
		return storeError("failed to create wager", err)
	}

	event := events.WagerCreatedEvent{
		WagerID:     wager.ID,
		HostID:      wager.HostID,
		Player1ID:   wager.Player1ID,
		Player2ID:   wager.Player2ID,
		Stake:       wager.StakeAmount,
		Supervised:  wager.Supervised,
		VODRequired: wager.VODRequired,
		ModeratorID: wager.ModeratorID,
	}
	if wager.PaymentLink != nil {
		event.PaymentLink = *wager.PaymentLink
	}
	if wager.Commission.Valid {
		commission := wager.Commission.Decimal
		event.Commission = &commission
	}
	uow.EventBus().Publish(event)

	if err := uow.Commit(); err != nil {
		return storeError("failed to commit transaction", err)
	}
	return nil
}

// GetFundingStatus returns the wager and the state of both payment legs
func (s *wagerService) GetFundingStatus(ctx context.Context, wagerID string) (*models.FundingStatus, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	wager, err := uow.WagerRepository().GetByID(ctx, wagerID)
	if err != nil {
		return nil, storeError("failed to get wager", err)
	}
	if wager == nil {
		return nil, newLedgerError(KindNotFound, "wager %s not found", wagerID)
	}

	payments, err := uow.PaymentRepository().GetByWager(ctx, wagerID)
	if err != nil {
		return nil, storeError("failed to get payments", err)
	}

	return &models.FundingStatus{Wager: wager, Payments: payments}, nil
}

// Dispute records a dispute without changing the wager's status
func (s *wagerService) Dispute(ctx context.Context, wagerID string, actor models.Actor, reason string) (*models.Dispute, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLength {
		return nil, newLedgerError(KindValidation, "reason must be at most %d characters", maxReasonLength)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	wager, err := uow.WagerRepository().GetByID(ctx, wagerID)
	if err != nil {
		return nil, storeError("failed to get wager", err)
	}
	if wager == nil {
		return nil, newLedgerError(KindNotFound, "wager %s not found", wagerID)
	}
	if !wager.IsParticipant(actor.ID) && !actor.IsModerator {
		return nil, newLedgerError(KindUnauthorized, "only players or moderators can dispute wager %s", wagerID)
	}

	dispute := &models.Dispute{
		WagerID:  wagerID,
		RaisedBy: actor.ID,
		Reason:   reason,
	}
	if err := uow.DisputeRepository().Create(ctx, dispute); err != nil {
		return nil, storeError("failed to record dispute", err)
	}

	uow.EventBus().Publish(events.DisputeFlaggedEvent{
		DisputeID: dispute.ID,
		WagerID:   wagerID,
		RaisedBy:  actor.ID,
		Reason:    reason,
	})

	if err := uow.Commit(); err != nil {
		return nil, storeError("failed to commit transaction", err)
	}

	log.WithFields(log.Fields{
		"wagerID":  wagerID,
		"raisedBy": actor.ID,
		"status":   wager.Status,
	}).Info("Wager disputed")

	return dispute, nil
}

// ListUnderfundedPendingWagers returns pending wagers with at least one unpaid leg
func (s *wagerService) ListUnderfundedPendingWagers(ctx context.Context) ([]*models.UnderfundedWager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	wagers, err := uow.WagerRepository().ListUnderfundedPending(ctx)
	if err != nil {
		return nil, storeError("failed to list underfunded wagers", err)
	}
	return wagers, nil
}
