package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatsRank(t *testing.T) {
	tests := []struct {
		wins     int
		coins    int64
		expected StatsRank
	}{
		{25, 10000, StatsRankLegend},
		{24, 10000, StatsRankHighRoller},
		{25, 9999, StatsRankHighRoller},
		{0, 5000, StatsRankHighRoller},
		{10, 4999, StatsRankHustler},
		{9, 4999, StatsRankRookie},
		{0, 0, StatsRankRookie},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DeriveStatsRank(tt.wins, decimal.NewFromInt(tt.coins)), "wins=%d coins=%d", tt.wins, tt.coins)
	}
}

func TestUserStats_RankRecomputedOnRead(t *testing.T) {
	s := NewUserStats(1)
	assert.Equal(t, StatsRankRookie, s.Rank())

	s.Wins = 10
	assert.Equal(t, StatsRankHustler, s.Rank())
}
