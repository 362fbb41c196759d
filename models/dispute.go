package models

import "time"

// Dispute is a request for moderator review of a wager
type Dispute struct {
	ID        int64     `db:"id"`
	WagerID   string    `db:"wager_id"`
	RaisedBy  int64     `db:"raised_by"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}
