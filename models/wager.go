package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WagerStatus represents the lifecycle state of a wager
type WagerStatus string

const (
	WagerStatusPending  WagerStatus = "pending"
	WagerStatusFunded   WagerStatus = "funded"
	WagerStatusResolved WagerStatus = "resolved"
)

// CanTransitionTo reports whether next is the single permitted successor of s.
// The lifecycle is pending -> funded -> resolved with no skips or reversals.
func (s WagerStatus) CanTransitionTo(next WagerStatus) bool {
	switch s {
	case WagerStatusPending:
		return next == WagerStatusFunded
	case WagerStatusFunded:
		return next == WagerStatusResolved
	default:
		return false
	}
}

// Wager represents a two-party staked contest
type Wager struct {
	ID          string              `db:"wager_id"`
	HostID      int64               `db:"host_id"`
	Player1ID   int64               `db:"p1_id"`
	Player2ID   int64               `db:"p2_id"`
	StakeAmount decimal.Decimal     `db:"amount"`
	Supervised  bool                `db:"is_supervised"`
	VODRequired bool                `db:"vod_required"`
	ModeratorID *int64              `db:"mod_id"`
	Status      WagerStatus         `db:"status"`
	PaymentLink *string             `db:"payment_link"`
	Commission  decimal.NullDecimal `db:"commission"`
	WinnerID    *int64              `db:"winner_id"`
	Score       *string             `db:"score"`
	CreatedAt   time.Time           `db:"created_at"`
	FundedAt    *time.Time          `db:"funded_at"`
	ResolvedAt  *time.Time          `db:"resolved_at"`
}

// IsParticipant checks if a user is one of the two players
func (w *Wager) IsParticipant(discordID int64) bool {
	return w.Player1ID == discordID || w.Player2ID == discordID
}

// GetOpponent returns the other player's discord ID for a given participant
func (w *Wager) GetOpponent(discordID int64) int64 {
	if w.Player1ID == discordID {
		return w.Player2ID
	}
	if w.Player2ID == discordID {
		return w.Player1ID
	}
	return 0 // Not a participant
}

// Players returns both player IDs in leg order
func (w *Wager) Players() [2]int64 {
	return [2]int64{w.Player1ID, w.Player2ID}
}

// Pot returns the total staked by both players
func (w *Wager) Pot() decimal.Decimal {
	return w.StakeAmount.Mul(decimal.NewFromInt(2))
}

// TypeLabel returns "supervised" or "risk" for logging and metrics
func (w *Wager) TypeLabel() string {
	if w.Supervised {
		return "supervised"
	}
	return "risk"
}
