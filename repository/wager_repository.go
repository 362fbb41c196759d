package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"wagerbot/database"
	"wagerbot/models"
	"wagerbot/service"
)

const wagerColumns = `
	wager_id, host_id, p1_id, p2_id, amount, is_supervised, vod_required, mod_id,
	status, payment_link, commission, winner_id, score, created_at, funded_at, resolved_at`

// WagerRepository implements wager data access
type WagerRepository struct {
	q Queryable
}

// NewWagerRepository creates a new wager repository
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{q: db.Pool}
}

func newWagerRepositoryWithTx(tx Queryable) *WagerRepository {
	return &WagerRepository{q: tx}
}

// Create inserts the wager and its two payment legs in one statement
func (r *WagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	query := `
		WITH new_wager AS (
			INSERT INTO wagers (
				wager_id, host_id, p1_id, p2_id, amount, is_supervised, vod_required,
				mod_id, status, payment_link, commission
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING wager_id, p1_id, p2_id, created_at
		), legs AS (
			INSERT INTO payments (wager_id, user_id)
			SELECT wager_id, p1_id FROM new_wager
			UNION ALL
			SELECT wager_id, p2_id FROM new_wager
		)
		SELECT created_at FROM new_wager
	`

	err := r.q.QueryRow(ctx, query,
		wager.ID,
		wager.HostID,
		wager.Player1ID,
		wager.Player2ID,
		wager.StakeAmount,
		wager.Supervised,
		wager.VODRequired,
		wager.ModeratorID,
		wager.Status,
		wager.PaymentLink,
		wager.Commission,
	).Scan(&wager.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "wagers_pkey") {
			return fmt.Errorf("failed to create wager %s: %w", wager.ID, service.ErrWagerIDTaken)
		}
		return fmt.Errorf("failed to create wager: %w", err)
	}

	return nil
}

// Exists reports whether a wager ID is already used
func (r *WagerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM wagers WHERE wager_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wager %s: %w", id, err)
	}
	return exists, nil
}

// GetByID retrieves a wager by its ID
func (r *WagerRepository) GetByID(ctx context.Context, id string) (*models.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE wager_id = $1`

	wager, err := scanWager(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager by ID %s: %w", id, err)
	}
	return wager, nil
}

// GetByIDForUpdate retrieves a wager and holds a row lock until the transaction ends
func (r *WagerRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE wager_id = $1 FOR UPDATE`

	wager, err := scanWager(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock wager %s: %w", id, err)
	}
	return wager, nil
}

// MarkFunded flips a pending wager to funded; false means it was not pending
func (r *WagerRepository) MarkFunded(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE wagers
		SET status = 'funded', funded_at = NOW()
		WHERE wager_id = $1 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark wager %s funded: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkResolved flips a funded wager to resolved; false means it was not funded
func (r *WagerRepository) MarkResolved(ctx context.Context, id string, winnerID int64, score string, commission decimal.Decimal) (bool, error) {
	query := `
		UPDATE wagers
		SET status = 'resolved', winner_id = $2, score = NULLIF($3, ''), commission = $4, resolved_at = NOW()
		WHERE wager_id = $1 AND status = 'funded'
	`

	tag, err := r.q.Exec(ctx, query, id, winnerID, score, commission)
	if err != nil {
		return false, fmt.Errorf("failed to mark wager %s resolved: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListUnderfundedPending returns pending wagers with their unpaid players, oldest first
func (r *WagerRepository) ListUnderfundedPending(ctx context.Context) ([]*models.UnderfundedWager, error) {
	query := `
		SELECT ` + prefixColumns("w") + `,
			array_agg(p.user_id ORDER BY p.user_id) FILTER (WHERE NOT p.paid) AS unpaid
		FROM wagers w
		JOIN payments p ON p.wager_id = w.wager_id
		WHERE w.status = 'pending'
		GROUP BY w.wager_id
		HAVING bool_or(NOT p.paid)
		ORDER BY w.created_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list underfunded wagers: %w", err)
	}
	defer rows.Close()

	var result []*models.UnderfundedWager
	for rows.Next() {
		var wager models.Wager
		var unpaid []int64
		if err := rows.Scan(append(wagerScanTargets(&wager), &unpaid)...); err != nil {
			return nil, fmt.Errorf("failed to scan underfunded wager: %w", err)
		}
		result = append(result, &models.UnderfundedWager{Wager: &wager, UnpaidUserIDs: unpaid})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate underfunded wagers: %w", err)
	}

	return result, nil
}

func wagerScanTargets(w *models.Wager) []any {
	return []any{
		&w.ID,
		&w.HostID,
		&w.Player1ID,
		&w.Player2ID,
		&w.StakeAmount,
		&w.Supervised,
		&w.VODRequired,
		&w.ModeratorID,
		&w.Status,
		&w.PaymentLink,
		&w.Commission,
		&w.WinnerID,
		&w.Score,
		&w.CreatedAt,
		&w.FundedAt,
		&w.ResolvedAt,
	}
}

func scanWager(row pgx.Row) (*models.Wager, error) {
	var wager models.Wager
	if err := row.Scan(wagerScanTargets(&wager)...); err != nil {
		return nil, err
	}
	return &wager, nil
}

func prefixColumns(alias string) string {
	return alias + ".wager_id, " + alias + ".host_id, " + alias + ".p1_id, " + alias + ".p2_id, " +
		alias + ".amount, " + alias + ".is_supervised, " + alias + ".vod_required, " + alias + ".mod_id, " +
		alias + ".status, " + alias + ".payment_link, " + alias + ".commission, " + alias + ".winner_id, " +
		alias + ".score, " + alias + ".created_at, " + alias + ".funded_at, " + alias + ".resolved_at"
}
