package models

import "time"

// Payment is one player's funding leg within a wager
type Payment struct {
	WagerID string     `db:"wager_id"`
	UserID  int64      `db:"user_id"`
	Paid    bool       `db:"paid"`
	PaidAt  *time.Time `db:"paid_at"`
}

// FundingStatus is a wager together with its payment legs
type FundingStatus struct {
	Wager    *Wager
	Payments []*Payment
}

// PaidCount returns the number of legs marked paid
func (f *FundingStatus) PaidCount() int {
	count := 0
	for _, p := range f.Payments {
		if p.Paid {
			count++
		}
	}
	return count
}

// UnderfundedWager is a pending wager that still has unpaid legs
type UnderfundedWager struct {
	Wager         *Wager
	UnpaidUserIDs []int64
}

// PaymentConfirmation describes the outcome of marking a payment leg paid
type PaymentConfirmation struct {
	WagerID string
	UserID  int64
	// Changed is false when the leg was already paid
	Changed bool
	// Funded is true only for the call that flipped the wager to funded
	Funded    bool
	PaidCount int
}
