package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"wagerbot/database"
	"wagerbot/models"
)

// UserStatsRepository implements player statistics data access
type UserStatsRepository struct {
	q Queryable
}

// NewUserStatsRepository creates a new user stats repository
func NewUserStatsRepository(db *database.DB) *UserStatsRepository {
	return &UserStatsRepository{q: db.Pool}
}

func newUserStatsRepositoryWithTx(tx Queryable) *UserStatsRepository {
	return &UserStatsRepository{q: tx}
}

// GetByUserID retrieves a user's stats, nil if the user has never been settled
func (r *UserStatsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserStats, error) {
	query := `
		SELECT user_id, wins, losses, coins, created_at, updated_at
		FROM user_stats
		WHERE user_id = $1
	`

	var s models.UserStats
	err := r.q.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.Wins, &s.Losses, &s.Coins, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for user %d: %w", userID, err)
	}
	return &s, nil
}

// RecordWin adds a win and coins, creating the stats row on first reference
func (r *UserStatsRepository) RecordWin(ctx context.Context, userID int64, coins decimal.Decimal) error {
	query := `
		INSERT INTO user_stats (user_id, wins, coins)
		VALUES ($1, 1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET wins = user_stats.wins + 1,
		    coins = user_stats.coins + EXCLUDED.coins,
		    updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, userID, coins); err != nil {
		return fmt.Errorf("failed to record win for user %d: %w", userID, err)
	}
	return nil
}

// RecordLoss adds a loss, creating the stats row on first reference
func (r *UserStatsRepository) RecordLoss(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO user_stats (user_id, losses)
		VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE
		SET losses = user_stats.losses + 1,
		    updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to record loss for user %d: %w", userID, err)
	}
	return nil
}

// GetTopByCoins returns users with the most coins, ties broken by wins
func (r *UserStatsRepository) GetTopByCoins(ctx context.Context, limit int) ([]*models.UserStats, error) {
	query := `
		SELECT user_id, wins, losses, coins, created_at, updated_at
		FROM user_stats
		ORDER BY coins DESC, wins DESC, user_id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	defer rows.Close()

	var result []*models.UserStats
	for rows.Next() {
		var s models.UserStats
		if err := rows.Scan(&s.UserID, &s.Wins, &s.Losses, &s.Coins, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user stats: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user stats: %w", err)
	}

	return result, nil
}
