package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wagerbot/models"
	"wagerbot/service"
)

func TestPaymentEvent_IsCompleted(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"Completed", true},
		{"completed", true},
		{" COMPLETED ", true},
		{"Pending", false},
		{"Refunded", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentEvent{Status: tt.status}.IsCompleted())
		})
	}
}

func TestPaymentEventHandler_ConfirmsAsSystemActor(t *testing.T) {
	payments := new(MockPaymentService)
	handler := NewPaymentEventHandler(payments)

	expected := &models.PaymentConfirmation{WagerID: "WGR-ABC123", UserID: 42, Changed: true, PaidCount: 1}
	payments.On("ConfirmPayment", mock.Anything, "WGR-ABC123", int64(42), models.SystemActor()).Return(expected, nil).Once()

	got, err := handler.HandlePaymentEvent(t.Context(), PaymentEvent{WagerID: "WGR-ABC123", UserID: 42, Status: "Completed"})

	require.NoError(t, err)
	assert.Equal(t, expected, got)
	payments.AssertExpectations(t)
}

func TestPaymentEventHandler_IgnoresIncompletePayments(t *testing.T) {
	payments := new(MockPaymentService)
	handler := NewPaymentEventHandler(payments)

	got, err := handler.HandlePaymentEvent(t.Context(), PaymentEvent{WagerID: "WGR-ABC123", UserID: 42, Status: "Pending"})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = handler.HandlePaymentEvent(t.Context(), PaymentEvent{WagerID: "", UserID: 42, Status: "Completed"})
	require.NoError(t, err)
	assert.Nil(t, got)

	payments.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentEventHandler_ReturnsLedgerErrors(t *testing.T) {
	payments := new(MockPaymentService)
	handler := NewPaymentEventHandler(payments)

	payments.On("ConfirmPayment", mock.Anything, "WGR-NOPE00", int64(42), models.SystemActor()).
		Return(nil, &service.LedgerError{Kind: service.KindNotFound, Message: "wager WGR-NOPE00 not found"}).Once()

	_, err := handler.HandlePaymentEvent(t.Context(), PaymentEvent{WagerID: "WGR-NOPE00", UserID: 42, Status: "completed"})

	assert.ErrorIs(t, err, service.ErrNotFound)
}
