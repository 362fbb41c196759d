package repository

import (
	"context"
	"fmt"

	"wagerbot/database"
	"wagerbot/models"
)

// PaymentRepository implements payment leg data access
type PaymentRepository struct {
	q Queryable
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

func newPaymentRepositoryWithTx(tx Queryable) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// GetByWager returns the payment legs of a wager
func (r *PaymentRepository) GetByWager(ctx context.Context, wagerID string) ([]*models.Payment, error) {
	query := `
		SELECT wager_id, user_id, paid, paid_at
		FROM payments
		WHERE wager_id = $1
		ORDER BY user_id
	`

	rows, err := r.q.Query(ctx, query, wagerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments for wager %s: %w", wagerID, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.WagerID, &p.UserID, &p.Paid, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// MarkPaid sets the leg paid; false when it was already paid or does not exist
func (r *PaymentRepository) MarkPaid(ctx context.Context, wagerID string, userID int64) (bool, error) {
	query := `
		UPDATE payments
		SET paid = TRUE, paid_at = NOW()
		WHERE wager_id = $1 AND user_id = $2 AND paid = FALSE
	`

	tag, err := r.q.Exec(ctx, query, wagerID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment paid for wager %s user %d: %w", wagerID, userID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountPaid returns how many legs of the wager are paid
func (r *PaymentRepository) CountPaid(ctx context.Context, wagerID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE wager_id = $1 AND paid`, wagerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count paid legs for wager %s: %w", wagerID, err)
	}
	return count, nil
}
