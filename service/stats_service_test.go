package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagerbot/models"
)

func TestStatsService_GetProfile_DefaultsForNewUser(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)

	mocks.UserStatsRepo.On("GetByUserID", ctx, TestPlayer1ID).Return(nil, nil)
	mocks.RankRepo.On("GetByUserID", ctx, TestPlayer1ID).Return(nil, nil)

	svc := NewStatsService(mocks.Factory)
	profile, err := svc.GetProfile(ctx, TestPlayer1ID)

	require.NoError(t, err)
	assert.Equal(t, 0, profile.Stats.Wins)
	assert.True(t, profile.Stats.Coins.IsZero())
	assert.Equal(t, models.StatsRankRookie, profile.StatsRank)
	assert.Equal(t, models.RankNone, profile.RankState.Rank)
	assert.Equal(t, models.TierNone, profile.RankState.Tier)
	mocks.AssertAllExpectations(t)
}

func TestStatsService_GetProfile_DerivesRank(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)

	mocks.UserStatsRepo.On("GetByUserID", ctx, TestPlayer1ID).Return(&models.UserStats{
		UserID: TestPlayer1ID, Wins: 30, Losses: 4, Coins: decimal.NewFromInt(12000),
	}, nil)
	mocks.RankRepo.On("GetByUserID", ctx, TestPlayer1ID).Return(&models.RankState{
		UserID: TestPlayer1ID, Rank: "R7", Tier: models.TierHigh,
	}, nil)

	svc := NewStatsService(mocks.Factory)
	profile, err := svc.GetProfile(ctx, TestPlayer1ID)

	require.NoError(t, err)
	assert.Equal(t, models.StatsRankLegend, profile.StatsRank)
	assert.Equal(t, models.Rank("R7"), profile.RankState.Rank)
}

func TestStatsService_GetLeaderboard_Role(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)

	mocks.RankRepo.On("GetTop", ctx, roleLeaderboardSize).Return([]*models.RankState{
		{UserID: 1, Rank: "R9", Tier: models.TierHigh},
		{UserID: 2, Rank: "R9", Tier: models.TierLow},
	}, nil)

	svc := NewStatsService(mocks.Factory)
	board, err := svc.GetLeaderboard(ctx, models.LeaderboardKindRole)

	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, 1, board.Entries[0].Position)
	assert.Equal(t, int64(2), board.Entries[1].UserID)
	mocks.UserStatsRepo.AssertNotCalled(t, "GetTopByCoins")
}

func TestStatsService_GetLeaderboard_Stats(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)

	mocks.UserStatsRepo.On("GetTopByCoins", ctx, statsLeaderboardSize).Return([]*models.UserStats{
		{UserID: 5, Wins: 3, Coins: decimal.NewFromInt(6000)},
	}, nil)

	svc := NewStatsService(mocks.Factory)
	board, err := svc.GetLeaderboard(ctx, models.LeaderboardKindStats)

	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, models.StatsRankHighRoller, board.Entries[0].StatsRank)
}

func TestStatsService_GetLeaderboard_UnknownKind(t *testing.T) {
	mocks := NewTestMocks()
	svc := NewStatsService(mocks.Factory)

	_, err := svc.GetLeaderboard(context.Background(), models.LeaderboardKind("weekly"))

	assert.True(t, errors.Is(err, ErrValidation))
	mocks.Factory.AssertNotCalled(t, "Create")
}
