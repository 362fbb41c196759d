package application

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"wagerbot/models"
	"wagerbot/service"
)

// PaymentStatusCompleted is the only gateway status that confirms a payment
const PaymentStatusCompleted = "completed"

// PaymentEvent is a payment-gateway notification for one player's leg
type PaymentEvent struct {
	WagerID string
	UserID  int64
	Status  string
}

// IsCompleted reports whether the gateway reported the payment as completed
func (e PaymentEvent) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), PaymentStatusCompleted)
}

// PaymentEventHandler confirms payment legs reported by the gateway
type PaymentEventHandler struct {
	paymentService service.PaymentService
}

// NewPaymentEventHandler creates a new PaymentEventHandler
func NewPaymentEventHandler(paymentService service.PaymentService) *PaymentEventHandler {
	return &PaymentEventHandler{paymentService: paymentService}
}

// HandlePaymentEvent confirms the leg as the system actor when the payment completed.
// Incomplete payments and malformed events are ignored.
func (h *PaymentEventHandler) HandlePaymentEvent(ctx context.Context, event PaymentEvent) (*models.PaymentConfirmation, error) {
	fields := log.Fields{
		"wager_id": event.WagerID,
		"user_id":  event.UserID,
		"status":   event.Status,
	}

	if !event.IsCompleted() {
		log.WithFields(fields).Debug("Ignoring payment event that is not completed")
		return nil, nil
	}
	if event.WagerID == "" || event.UserID == 0 {
		log.WithFields(fields).Warn("Ignoring payment event without wager or user")
		return nil, nil
	}

	confirmation, err := h.paymentService.ConfirmPayment(ctx, event.WagerID, event.UserID, models.SystemActor())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidState) || errors.Is(err, service.ErrValidation) {
			log.WithFields(fields).Warnf("Payment event rejected: %v", err)
		} else {
			log.WithFields(fields).Errorf("Failed to confirm payment from webhook: %v", err)
		}
		return nil, err
	}

	log.WithFields(fields).WithFields(log.Fields{
		"changed":    confirmation.Changed,
		"funded":     confirmation.Funded,
		"paid_count": confirmation.PaidCount,
	}).Info("Payment confirmed from webhook")

	return confirmation, nil
}
