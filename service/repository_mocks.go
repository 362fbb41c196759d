package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"wagerbot/events"
	"wagerbot/models"
)

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWagerRepository) GetByID(ctx context.Context, id string) (*models.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) MarkFunded(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWagerRepository) MarkResolved(ctx context.Context, id string, winnerID int64, score string, commission decimal.Decimal) (bool, error) {
	args := m.Called(ctx, id, winnerID, score, commission)
	return args.Bool(0), args.Error(1)
}

func (m *MockWagerRepository) ListUnderfundedPending(ctx context.Context) ([]*models.UnderfundedWager, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UnderfundedWager), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetByWager(ctx context.Context, wagerID string) ([]*models.Payment, error) {
	args := m.Called(ctx, wagerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, wagerID string, userID int64) (bool, error) {
	args := m.Called(ctx, wagerID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) CountPaid(ctx context.Context, wagerID string) (int, error) {
	args := m.Called(ctx, wagerID)
	return args.Int(0), args.Error(1)
}

// MockUserStatsRepository is a mock implementation of UserStatsRepository
type MockUserStatsRepository struct {
	mock.Mock
}

func (m *MockUserStatsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockUserStatsRepository) RecordWin(ctx context.Context, userID int64, coins decimal.Decimal) error {
	args := m.Called(ctx, userID, coins)
	return args.Error(0)
}

func (m *MockUserStatsRepository) RecordLoss(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserStatsRepository) GetTopByCoins(ctx context.Context, limit int) ([]*models.UserStats, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserStats), args.Error(1)
}

// MockRankStateRepository is a mock implementation of RankStateRepository
type MockRankStateRepository struct {
	mock.Mock
}

func (m *MockRankStateRepository) GetForUpdate(ctx context.Context, userID int64) (*models.RankState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RankState), args.Error(1)
}

func (m *MockRankStateRepository) GetByUserID(ctx context.Context, userID int64) (*models.RankState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RankState), args.Error(1)
}

func (m *MockRankStateRepository) CompareAndSwap(ctx context.Context, oldRank models.Rank, oldTier models.Tier, next *models.RankState) (bool, error) {
	args := m.Called(ctx, oldRank, oldTier, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockRankStateRepository) GetTop(ctx context.Context, limit int) ([]*models.RankState, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RankState), args.Error(1)
}

// MockDisputeRepository is a mock implementation of DisputeRepository
type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockRoleStore is a mock implementation of RoleStore
type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) ApplyRoleDiff(ctx context.Context, userID int64, remove, add []string) error {
	args := m.Called(ctx, userID, remove, add)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork.
// Repository getters return the repositories set with SetRepositories.
type MockUnitOfWork struct {
	mock.Mock
	wagerRepo     WagerRepository
	paymentRepo   PaymentRepository
	userStatsRepo UserStatsRepository
	rankRepo      RankStateRepository
	disputeRepo   DisputeRepository
	eventBus      EventPublisher
}

// SetRepositories configures the repositories handed out by the unit of work
func (m *MockUnitOfWork) SetRepositories(mocks *TestMocks) {
	m.wagerRepo = mocks.WagerRepo
	m.paymentRepo = mocks.PaymentRepo
	m.userStatsRepo = mocks.UserStatsRepo
	m.rankRepo = mocks.RankRepo
	m.disputeRepo = mocks.DisputeRepo
	m.eventBus = mocks.EventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) WagerRepository() WagerRepository         { return m.wagerRepo }
func (m *MockUnitOfWork) PaymentRepository() PaymentRepository     { return m.paymentRepo }
func (m *MockUnitOfWork) UserStatsRepository() UserStatsRepository { return m.userStatsRepo }
func (m *MockUnitOfWork) RankStateRepository() RankStateRepository { return m.rankRepo }
func (m *MockUnitOfWork) DisputeRepository() DisputeRepository     { return m.disputeRepo }
func (m *MockUnitOfWork) EventBus() EventPublisher                 { return m.eventBus }

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
