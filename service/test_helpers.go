package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"wagerbot/models"
)

// Test IDs
const (
	TestPlayer1ID   int64 = 111111
	TestPlayer2ID   int64 = 222222
	TestOutsiderID  int64 = 333333
	TestModeratorID int64 = 999999
	TestWagerID           = "WGR-TEST01"
)

// TestMocks holds all mock repositories for easy access
type TestMocks struct {
	Factory        *MockUnitOfWorkFactory
	UoW            *MockUnitOfWork
	WagerRepo      *MockWagerRepository
	PaymentRepo    *MockPaymentRepository
	UserStatsRepo  *MockUserStatsRepository
	RankRepo       *MockRankStateRepository
	DisputeRepo    *MockDisputeRepository
	EventPublisher *MockEventPublisher
}

// NewTestMocks creates a new set of mocks with the unit of work wired to them
func NewTestMocks() *TestMocks {
	m := &TestMocks{
		Factory:        new(MockUnitOfWorkFactory),
		UoW:            new(MockUnitOfWork),
		WagerRepo:      new(MockWagerRepository),
		PaymentRepo:    new(MockPaymentRepository),
		UserStatsRepo:  new(MockUserStatsRepository),
		RankRepo:       new(MockRankStateRepository),
		DisputeRepo:    new(MockDisputeRepository),
		EventPublisher: new(MockEventPublisher),
	}
	m.UoW.SetRepositories(m)
	m.Factory.On("Create").Return(m.UoW)
	return m
}

// ExpectTransaction sets up Begin and Rollback, plus Commit when commit is true
func (m *TestMocks) ExpectTransaction(ctx context.Context, commit bool) {
	m.UoW.On("Begin", ctx).Return(nil)
	m.UoW.On("Rollback").Return(nil)
	if commit {
		m.UoW.On("Commit").Return(nil)
	}
}

// AssertAllExpectations asserts all mock expectations
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.Factory.AssertExpectations(t)
	m.UoW.AssertExpectations(t)
	m.WagerRepo.AssertExpectations(t)
	m.PaymentRepo.AssertExpectations(t)
	m.UserStatsRepo.AssertExpectations(t)
	m.RankRepo.AssertExpectations(t)
	m.DisputeRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// NewTestWager builds an unsupervised wager between the two test players
func NewTestWager(status models.WagerStatus, stake string) *models.Wager {
	return &models.Wager{
		ID:          TestWagerID,
		HostID:      TestPlayer1ID,
		Player1ID:   TestPlayer1ID,
		Player2ID:   TestPlayer2ID,
		StakeAmount: decimal.RequireFromString(stake),
		Status:      status,
	}
}

// NewTestSupervisedWager builds a supervised wager with its commission fixed at the given value
func NewTestSupervisedWager(status models.WagerStatus, stake, commission string) *models.Wager {
	w := NewTestWager(status, stake)
	moderatorID := TestModeratorID
	w.HostID = TestModeratorID
	w.Supervised = true
	w.ModeratorID = &moderatorID
	w.Commission = decimal.NewNullDecimal(decimal.RequireFromString(commission))
	return w
}

// PlayerActor returns a non-moderator actor
func PlayerActor(id int64) models.Actor {
	return models.Actor{ID: id}
}

// ModeratorActor returns the test moderator
func ModeratorActor() models.Actor {
	return models.Actor{ID: TestModeratorID, IsModerator: true}
}

// decimalEq matches a decimal argument by value rather than representation
func decimalEq(expected string) interface{} {
	want := decimal.RequireFromString(expected)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
