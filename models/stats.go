package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsRank is a classification derived from wins and coins
type StatsRank string

const (
	StatsRankLegend     StatsRank = "Legend"
	StatsRankHighRoller StatsRank = "High Roller"
	StatsRankHustler    StatsRank = "Hustler"
	StatsRankRookie     StatsRank = "Rookie"
)

var (
	legendCoins     = decimal.NewFromInt(10000)
	highRollerCoins = decimal.NewFromInt(5000)
)

// DeriveStatsRank computes the stats rank from wins and coins
func DeriveStatsRank(wins int, coins decimal.Decimal) StatsRank {
	if wins >= 25 && coins.GreaterThanOrEqual(legendCoins) {
		return StatsRankLegend
	}
	if coins.GreaterThanOrEqual(highRollerCoins) {
		return StatsRankHighRoller
	}
	if wins >= 10 {
		return StatsRankHustler
	}
	return StatsRankRookie
}

// UserStats holds a player's settled win/loss record
type UserStats struct {
	UserID    int64           `db:"user_id"`
	Wins      int             `db:"wins"`
	Losses    int             `db:"losses"`
	Coins     decimal.Decimal `db:"coins"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// NewUserStats returns the zero-valued stats for a user never seen before
func NewUserStats(userID int64) *UserStats {
	return &UserStats{UserID: userID, Coins: decimal.Zero}
}

// Rank returns the stats rank, recomputed on every call
func (s *UserStats) Rank() StatsRank {
	return DeriveStatsRank(s.Wins, s.Coins)
}

// Profile combines a user's stats with their role rank
type Profile struct {
	UserID    int64
	Stats     *UserStats
	StatsRank StatsRank
	RankState *RankState
}

// LeaderboardKind selects which leaderboard to build
type LeaderboardKind string

const (
	LeaderboardKindRole  LeaderboardKind = "role"
	LeaderboardKindStats LeaderboardKind = "stats"
)

// LeaderboardEntry is one row of a leaderboard
type LeaderboardEntry struct {
	Position  int
	UserID    int64
	Rank      Rank
	Tier      Tier
	Wins      int
	Coins     decimal.Decimal
	StatsRank StatsRank
}

// Leaderboard is an ordered list of entries of one kind
type Leaderboard struct {
	Kind    LeaderboardKind
	Entries []*LeaderboardEntry
}
