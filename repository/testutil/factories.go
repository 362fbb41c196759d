package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"wagerbot/models"
)

var wagerSeq atomic.Int64

// NextWagerID returns a unique wager ID for tests
func NextWagerID() string {
	return fmt.Sprintf("WGR-T%05d", wagerSeq.Add(1))
}

// CreateTestWager builds a pending unsupervised wager between two players
func CreateTestWager(player1, player2 int64, stake string) *models.Wager {
	return &models.Wager{
		ID:          NextWagerID(),
		HostID:      player1,
		Player1ID:   player1,
		Player2ID:   player2,
		StakeAmount: decimal.RequireFromString(stake),
		Status:      models.WagerStatusPending,
	}
}

// CreateTestSupervisedWager builds a pending supervised wager with its commission fixed
func CreateTestSupervisedWager(moderator, player1, player2 int64, stake string) *models.Wager {
	w := CreateTestWager(player1, player2, stake)
	w.HostID = moderator
	w.Supervised = true
	w.ModeratorID = &moderator
	w.Commission = decimal.NewNullDecimal(models.CalculateCommission(w.StakeAmount, models.DefaultCommissionRate))
	return w
}
