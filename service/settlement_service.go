package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"wagerbot/events"
	"wagerbot/models"
)

const maxScoreLength = 64

type settlementService struct {
	uowFactory     UnitOfWorkFactory
	commissionRate decimal.Decimal
}

// NewSettlementService creates a new settlement service.
// commissionRate applies only to unsupervised wagers that have no stored commission.
func NewSettlementService(uowFactory UnitOfWorkFactory, commissionRate decimal.Decimal) SettlementService {
	return &settlementService{
		uowFactory:     uowFactory,
		commissionRate: commissionRate,
	}
}

// Resolve settles a funded wager exactly once and updates both players' stats
func (s *settlementService) Resolve(ctx context.Context, wagerID string, winnerID int64, score string, actor models.Actor) (*models.ResolutionResult, error) {
	score = strings.TrimSpace(score)
	if len(score) > maxScoreLength {
		return nil, newLedgerError(KindValidation, "score must be at most %d characters", maxScoreLength)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	wager, err := uow.WagerRepository().GetByIDForUpdate(ctx, wagerID)
	if err != nil {
		return nil, storeError("failed to get wager", err)
	}
	if wager == nil {
		return nil, newLedgerError(KindNotFound, "wager %s not found", wagerID)
	}

	switch wager.Status {
	case models.WagerStatusFunded:
	case models.WagerStatusResolved:
		return nil, newLedgerError(KindInvalidState, "wager %s is already resolved", wagerID)
	default:
		return nil, newLedgerError(KindInvalidState, "wager %s is %s, only funded wagers can be resolved", wagerID, wager.Status)
	}

	if wager.Supervised {
		if !actor.IsModerator {
			return nil, newLedgerError(KindUnauthorized, "supervised wager %s must be resolved by a moderator", wagerID)
		}
	} else if !wager.IsParticipant(actor.ID) && !actor.IsModerator {
		return nil, newLedgerError(KindUnauthorized, "only players or moderators can resolve wager %s", wagerID)
	}

	if !wager.IsParticipant(winnerID) {
		return nil, newLedgerError(KindInvalidWinner, "user %d is not a player in wager %s", winnerID, wagerID)
	}
	loserID := wager.GetOpponent(winnerID)

	commission := s.commissionFor(wager)
	settlement := models.NewSettlement(wager.StakeAmount, commission)

	resolved, err := uow.WagerRepository().MarkResolved(ctx, wagerID, winnerID, score, settlement.Commission)
	if err != nil {
		return nil, storeError("failed to mark wager resolved", err)
	}
	if !resolved {
		return nil, newLedgerError(KindInvalidState, "wager %s is no longer funded", wagerID)
	}

	if err := uow.UserStatsRepository().RecordWin(ctx, winnerID, wager.StakeAmount); err != nil {
		return nil, storeError("failed to record win", err)
	}
	if err := uow.UserStatsRepository().RecordLoss(ctx, loserID); err != nil {
		return nil, storeError("failed to record loss", err)
	}

	uow.EventBus().Publish(events.WagerResolvedEvent{
		WagerID:    wagerID,
		WinnerID:   winnerID,
		LoserID:    loserID,
		Score:      score,
		Supervised: wager.Supervised,
		Stake:      wager.StakeAmount,
		Pot:        settlement.Pot,
		Commission: settlement.Commission,
		Payout:     settlement.Payout,
		ResolvedBy: actor.ID,
	})

	if err := uow.Commit(); err != nil {
		return nil, storeError("failed to commit transaction", err)
	}

	wager.Status = models.WagerStatusResolved
	wager.WinnerID = &winnerID
	wager.Score = &score
	wager.Commission = decimal.NewNullDecimal(settlement.Commission)

	log.WithFields(log.Fields{
		"wagerID":    wagerID,
		"winnerID":   winnerID,
		"loserID":    loserID,
		"pot":        settlement.Pot.StringFixed(models.CurrencyPrecision),
		"commission": settlement.Commission.StringFixed(models.CurrencyPrecision),
		"payout":     settlement.Payout.StringFixed(models.CurrencyPrecision),
		"supervised": wager.Supervised,
	}).Info("Wager resolved")

	return &models.ResolutionResult{
		Wager:      wager,
		WinnerID:   winnerID,
		LoserID:    loserID,
		Score:      score,
		Settlement: settlement,
	}, nil
}

// commissionFor returns the stored commission when there is one.
// Supervised wagers always carry the commission fixed at creation; unsupervised
// wagers are charged at the current rate when they are resolved.
func (s *settlementService) commissionFor(wager *models.Wager) decimal.Decimal {
	if wager.Commission.Valid {
		return wager.Commission.Decimal
	}
	if wager.Supervised {
		log.WithField("wagerID", wager.ID).Warn("Supervised wager has no stored commission, charging current rate")
	}
	return models.CalculateCommission(wager.StakeAmount, s.commissionRate)
}
