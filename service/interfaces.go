package service

import (
	"context"

	"github.com/shopspring/decimal"

	"wagerbot/events"
	"wagerbot/models"
)

// WagerRepository defines the interface for wager data access
type WagerRepository interface {
	// Create inserts the wager together with one unpaid payment leg per player
	Create(ctx context.Context, wager *models.Wager) error

	// Exists reports whether a wager with the given ID is stored
	Exists(ctx context.Context, id string) (bool, error)

	// GetByID retrieves a wager by its ID, nil if not found
	GetByID(ctx context.Context, id string) (*models.Wager, error)

	// GetByIDForUpdate retrieves a wager and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id string) (*models.Wager, error)

	// MarkFunded moves a pending wager to funded. Returns false if the wager was not pending.
	MarkFunded(ctx context.Context, id string) (bool, error)

	// MarkResolved moves a funded wager to resolved. Returns false if the wager was not funded.
	MarkResolved(ctx context.Context, id string, winnerID int64, score string, commission decimal.Decimal) (bool, error)

	// ListUnderfundedPending returns pending wagers with at least one unpaid leg
	ListUnderfundedPending(ctx context.Context) ([]*models.UnderfundedWager, error)
}

// PaymentRepository defines the interface for payment leg data access
type PaymentRepository interface {
	// GetByWager returns both legs of a wager ordered by user
	GetByWager(ctx context.Context, wagerID string) ([]*models.Payment, error)

	// MarkPaid sets a leg paid. Returns false if the leg was already paid.
	MarkPaid(ctx context.Context, wagerID string, userID int64) (bool, error)

	// CountPaid returns the number of paid legs for a wager
	CountPaid(ctx context.Context, wagerID string) (int, error)
}

// UserStatsRepository defines the interface for player statistics
type UserStatsRepository interface {
	// GetByUserID retrieves stats for a user, nil if the user has none yet
	GetByUserID(ctx context.Context, userID int64) (*models.UserStats, error)

	// RecordWin adds one win and the given coins, creating the row if needed
	RecordWin(ctx context.Context, userID int64, coins decimal.Decimal) error

	// RecordLoss adds one loss, creating the row if needed
	RecordLoss(ctx context.Context, userID int64) error

	// GetTopByCoins returns users ordered by coins descending
	GetTopByCoins(ctx context.Context, limit int) ([]*models.UserStats, error)
}

// RankStateRepository defines the interface for stored role ranks
type RankStateRepository interface {
	// GetForUpdate locks and returns the user's rank state, the default state if none is stored
	GetForUpdate(ctx context.Context, userID int64) (*models.RankState, error)

	// GetByUserID returns the user's rank state, nil if none is stored
	GetByUserID(ctx context.Context, userID int64) (*models.RankState, error)

	// CompareAndSwap stores next only if the stored state is still oldRank/oldTier
	CompareAndSwap(ctx context.Context, oldRank models.Rank, oldTier models.Tier, next *models.RankState) (bool, error)

	// GetTop returns ranked users ordered by rank number then tier
	GetTop(ctx context.Context, limit int) ([]*models.RankState, error)
}

// DisputeRepository defines the interface for dispute records
type DisputeRepository interface {
	// Create stores a dispute and fills its ID and timestamp
	Create(ctx context.Context, dispute *models.Dispute) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// RoleStore applies external role changes for a user
type RoleStore interface {
	ApplyRoleDiff(ctx context.Context, userID int64, remove, add []string) error
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction and drops queued events
	Rollback() error

	// Repository getters
	WagerRepository() WagerRepository
	PaymentRepository() PaymentRepository
	UserStatsRepository() UserStatsRepository
	RankStateRepository() RankStateRepository
	DisputeRepository() DisputeRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// CreateWagerRequest carries the inputs of a new wager
type CreateWagerRequest struct {
	Actor       models.Actor
	OpponentID  int64
	Stake       decimal.Decimal
	Supervised  bool
	VODRequired bool
	PaymentLink string
	// Player1ID and Player2ID are used for supervised wagers, which a moderator sets up between two players
	Player1ID int64
	Player2ID int64
}

// WagerService defines wager lifecycle operations outside payment and settlement
type WagerService interface {
	// CreateWager stores a new pending wager with both payment legs
	CreateWager(ctx context.Context, req CreateWagerRequest) (*models.Wager, error)

	// GetFundingStatus returns the wager with its payment legs
	GetFundingStatus(ctx context.Context, wagerID string) (*models.FundingStatus, error)

	// Dispute flags a wager for moderator review
	Dispute(ctx context.Context, wagerID string, actor models.Actor, reason string) (*models.Dispute, error)

	// ListUnderfundedPendingWagers returns pending wagers still waiting on a payment
	ListUnderfundedPendingWagers(ctx context.Context) ([]*models.UnderfundedWager, error)
}

// PaymentService confirms payment legs
type PaymentService interface {
	// ConfirmPayment marks the user's leg paid and funds the wager when both legs are paid
	ConfirmPayment(ctx context.Context, wagerID string, userID int64, actor models.Actor) (*models.PaymentConfirmation, error)
}

// SettlementService resolves funded wagers
type SettlementService interface {
	// Resolve settles a funded wager in favour of winnerID
	Resolve(ctx context.Context, wagerID string, winnerID int64, score string, actor models.Actor) (*models.ResolutionResult, error)
}

// RankService validates and applies rank transitions
type RankService interface {
	// ApplyTransition stores the claim's new rank if the claimed current rank matches the stored one
	ApplyTransition(ctx context.Context, claim models.RankClaim) (*models.RankTransition, error)
}

// StatsService defines the interface for statistics operations
type StatsService interface {
	// GetProfile returns a user's stats and role rank
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)

	// GetLeaderboard returns the leaderboard of the given kind
	GetLeaderboard(ctx context.Context, kind models.LeaderboardKind) (*models.Leaderboard, error)
}
