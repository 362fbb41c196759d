package repository

import (
	"context"
	"fmt"

	"wagerbot/models"
)

// DisputeRepository implements dispute data access
type DisputeRepository struct {
	q Queryable
}

func newDisputeRepositoryWithTx(tx Queryable) *DisputeRepository {
	return &DisputeRepository{q: tx}
}

// Create stores a dispute
func (r *DisputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	query := `
		INSERT INTO disputes (wager_id, raised_by, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, dispute.WagerID, dispute.RaisedBy, dispute.Reason).Scan(&dispute.ID, &dispute.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dispute for wager %s: %w", dispute.WagerID, err)
	}
	return nil
}
