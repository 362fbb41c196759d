package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"wagerbot/events"
	"wagerbot/models"
)

// Confirmation sources, used in events and metrics
const (
	SourceWebhook   = "webhook"
	SourceModerator = "moderator"
	SourcePlayer    = "player"
)

type paymentService struct {
	uowFactory UnitOfWorkFactory
}

// NewPaymentService creates a new payment confirmation service
func NewPaymentService(uowFactory UnitOfWorkFactory) PaymentService {
	return &paymentService{uowFactory: uowFactory}
}

// ConfirmationSource names who confirmed a payment
func ConfirmationSource(actor models.Actor) string {
	switch {
	case actor.IsSystem:
		return SourceWebhook
	case actor.IsModerator:
		return SourceModerator
	default:
		return SourcePlayer
	}
}

// ConfirmPayment marks a payment leg paid. Confirming a paid leg is a no-op.
// The wager row stays locked from the status check until commit, so when both legs
// are confirmed concurrently exactly one call observes two paid legs and flips the wager.
func (s *paymentService) ConfirmPayment(ctx context.Context, wagerID string, userID int64, actor models.Actor) (*models.PaymentConfirmation, error) {
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
	if wager.Status != models.WagerStatusPending {
		return nil, newLedgerError(KindInvalidState, "wager %s is %s, payments can only be confirmed while pending", wagerID, wager.Status)
	}
	if !wager.IsParticipant(userID) {
		return nil, newLedgerError(KindValidation, "user %d is not a player in wager %s", userID, wagerID)
	}
	if !actor.HasModeratorAuthority() {
		if wager.Supervised {
			return nil, newLedgerError(KindUnauthorized, "payments for supervised wager %s are confirmed by a moderator", wagerID)
		}
		if actor.ID != userID {
			return nil, newLedgerError(KindUnauthorized, "players can only confirm their own payment")
		}
	}

	changed, err := uow.PaymentRepository().MarkPaid(ctx, wagerID, userID)
	if err != nil {
		return nil, storeError("failed to mark payment paid", err)
	}

	paidCount, err := uow.PaymentRepository().CountPaid(ctx, wagerID)
	if err != nil {
		return nil, storeError("failed to count paid legs", err)
	}

	result := &models.PaymentConfirmation{
		WagerID:   wagerID,
		UserID:    userID,
		Changed:   changed,
		PaidCount: paidCount,
	}

	if !changed {
		log.WithFields(log.Fields{
			"wagerID": wagerID,
			"userID":  userID,
		}).Debug("Payment leg already confirmed")
		return result, nil
	}

	uow.EventBus().Publish(events.PaymentConfirmedEvent{
		WagerID:   wagerID,
		UserID:    userID,
		ActorID:   actor.ID,
		Source:    ConfirmationSource(actor),
		PaidCount: paidCount,
	})

	if paidCount == len(wager.Players()) {
		funded, err := uow.WagerRepository().MarkFunded(ctx, wagerID)
		if err != nil {
			return nil, storeError("failed to mark wager funded", err)
		}
		if funded {
			result.Funded = true
			uow.EventBus().Publish(events.WagerFundedEvent{
				WagerID:     wagerID,
				Player1ID:   wager.Player1ID,
				Player2ID:   wager.Player2ID,
				Stake:       wager.StakeAmount,
				Supervised:  wager.Supervised,
				ModeratorID: wager.ModeratorID,
			})
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("failed to commit transaction", err)
	}

	log.WithFields(log.Fields{
		"wagerID":   wagerID,
		"userID":    userID,
		"source":    ConfirmationSource(actor),
		"paidCount": paidCount,
		"funded":    result.Funded,
	}).Info("Payment confirmed")

	return result, nil
}
