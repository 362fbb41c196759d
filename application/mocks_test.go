package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wagerbot/models"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, target Target, kind NotificationKind, payload any) error {
	args := m.Called(ctx, target, kind, payload)
	return args.Error(0)
}

type MockRankService struct {
	mock.Mock
}

func (m *MockRankService) ApplyTransition(ctx context.Context, claim models.RankClaim) (*models.RankTransition, error) {
	args := m.Called(ctx, claim)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RankTransition), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, wagerID string, userID int64, actor models.Actor) (*models.PaymentConfirmation, error) {
	args := m.Called(ctx, wagerID, userID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentConfirmation), args.Error(1)
}
