package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagerbot/models"
)

func TestBuildProfileEmbed(t *testing.T) {
	stats := &models.UserStats{UserID: 1, Wins: 12, Losses: 3, Coins: decimal.RequireFromString("5200")}
	profile := &models.Profile{
		UserID:    1,
		Stats:     stats,
		StatsRank: stats.Rank(),
		RankState: &models.RankState{UserID: 1, Rank: "R4", Tier: models.TierLow},
	}

	embed := BuildProfileEmbed(profile, "Ace", "")

	assert.Equal(t, "Ace's Profile", embed.Title)
	assert.Nil(t, embed.Thumbnail)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "R4 Low", embed.Fields[0].Value)
	assert.Equal(t, "High Roller", embed.Fields[1].Value)
	assert.Equal(t, "$5,200.00", embed.Fields[4].Value)
}

func TestBuildLeaderboardEmbed(t *testing.T) {
	role := BuildLeaderboardEmbed(&models.Leaderboard{
		Kind: models.LeaderboardKindRole,
		Entries: []*models.LeaderboardEntry{
			{Position: 1, UserID: 7, Rank: "R10", Tier: models.TierHigh},
			{Position: 2, UserID: 8, Rank: "R2", Tier: models.TierNone},
		},
	})
	assert.Equal(t, "🏅 Role Leaderboard", role.Title)
	require.Len(t, role.Fields, 2)
	assert.Equal(t, "<@7> R10 High", role.Fields[0].Value)
	assert.Equal(t, "<@8> R2", role.Fields[1].Value)

	statsBoard := BuildLeaderboardEmbed(&models.Leaderboard{
		Kind: models.LeaderboardKindStats,
		Entries: []*models.LeaderboardEntry{
			{Position: 1, UserID: 9, Wins: 30, Coins: decimal.NewFromInt(12000), StatsRank: models.StatsRankLegend},
		},
	})
	assert.Equal(t, "🏆 Stats Leaderboard", statsBoard.Title)
	assert.Equal(t, "<@9> $12,000.00, 30 wins (Legend)", statsBoard.Fields[0].Value)

	empty := BuildLeaderboardEmbed(&models.Leaderboard{Kind: models.LeaderboardKindStats})
	assert.Equal(t, "No players yet.", empty.Description)
}
