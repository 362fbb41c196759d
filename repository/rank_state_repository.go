package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wagerbot/database"
	"wagerbot/models"
)

// RankStateRepository implements stored rank data access
type RankStateRepository struct {
	q Queryable
}

// NewRankStateRepository creates a new rank state repository
func NewRankStateRepository(db *database.DB) *RankStateRepository {
	return &RankStateRepository{q: db.Pool}
}

func newRankStateRepositoryWithTx(tx Queryable) *RankStateRepository {
	return &RankStateRepository{q: tx}
}

// GetForUpdate locks the user's stored rank row. A user with no row gets the default
// state back and nothing is written; CompareAndSwap settles races on the first insert.
func (r *RankStateRepository) GetForUpdate(ctx context.Context, userID int64) (*models.RankState, error) {
	query := `
		SELECT user_id, rank, tier, updated_at
		FROM user_ranks
		WHERE user_id = $1
		FOR UPDATE
	`

	var s models.RankState
	err := r.q.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.Rank, &s.Tier, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewRankState(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock rank for user %d: %w", userID, err)
	}
	return &s, nil
}

// CompareAndSwap stores next only if the user's stored rank is still oldRank/oldTier.
// A missing row counts as the default state and is inserted. Returns false when the stored state differs.
func (r *RankStateRepository) CompareAndSwap(ctx context.Context, oldRank models.Rank, oldTier models.Tier, next *models.RankState) (bool, error) {
	query := `
		INSERT INTO user_ranks (user_id, rank, tier, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET rank = EXCLUDED.rank, tier = EXCLUDED.tier, updated_at = NOW()
		WHERE user_ranks.rank = $4 AND user_ranks.tier = $5
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, next.UserID, string(next.Rank), string(next.Tier), string(oldRank), string(oldTier)).
		Scan(&next.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to swap rank for user %d: %w", next.UserID, err)
	}
	return true, nil
}

// GetByUserID returns the stored rank, nil if the user has none
func (r *RankStateRepository) GetByUserID(ctx context.Context, userID int64) (*models.RankState, error) {
	query := `
		SELECT user_id, rank, tier, updated_at
		FROM user_ranks
		WHERE user_id = $1
	`

	var s models.RankState
	err := r.q.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.Rank, &s.Tier, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rank for user %d: %w", userID, err)
	}
	return &s, nil
}

// Upsert stores the user's rank and tier
func (r *RankStateRepository) Upsert(ctx context.Context, state *models.RankState) error {
	query := `
		INSERT INTO user_ranks (user_id, rank, tier, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET rank = EXCLUDED.rank, tier = EXCLUDED.tier, updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, state.UserID, string(state.Rank), string(state.Tier)).Scan(&state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to store rank for user %d: %w", state.UserID, err)
	}
	return nil
}

// GetTop returns ranked users, highest rank number first, then highest tier
func (r *RankStateRepository) GetTop(ctx context.Context, limit int) ([]*models.RankState, error) {
	query := `
		SELECT user_id, rank, tier, updated_at
		FROM user_ranks
		WHERE rank <> 'N/A'
		ORDER BY CAST(SUBSTRING(rank FROM 2) AS INTEGER) DESC,
		         CASE tier WHEN 'high' THEN 3 WHEN 'mid' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC,
		         updated_at
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top ranks: %w", err)
	}
	defer rows.Close()

	var result []*models.RankState
	for rows.Next() {
		var s models.RankState
		if err := rows.Scan(&s.UserID, &s.Rank, &s.Tier, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rank: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ranks: %w", err)
	}

	return result, nil
}
