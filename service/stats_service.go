package service

import (
	"context"

	"wagerbot/models"
)

const (
	roleLeaderboardSize  = 5
	statsLeaderboardSize = 10
)

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{uowFactory: uowFactory}
}

// GetProfile returns the user's stats, defaulting to zero for users never settled
func (s *statsService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	if userID == 0 {
		return nil, newLedgerError(KindValidation, "user is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	stats, err := uow.UserStatsRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("failed to get user stats", err)
	}
	if stats == nil {
		stats = models.NewUserStats(userID)
	}

	rank, err := uow.RankStateRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("failed to get rank state", err)
	}
	if rank == nil {
		rank = models.NewRankState(userID)
	}

	return &models.Profile{
		UserID:    userID,
		Stats:     stats,
		StatsRank: stats.Rank(),
		RankState: rank,
	}, nil
}

// GetLeaderboard returns the top role ranks or the top coin holders
func (s *statsService) GetLeaderboard(ctx context.Context, kind models.LeaderboardKind) (*models.Leaderboard, error) {
	if kind != models.LeaderboardKindRole && kind != models.LeaderboardKindStats {
		return nil, newLedgerError(KindValidation, "unknown leaderboard %q", kind)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	board := &models.Leaderboard{Kind: kind}

	if kind == models.LeaderboardKindRole {
		ranks, err := uow.RankStateRepository().GetTop(ctx, roleLeaderboardSize)
		if err != nil {
			return nil, storeError("failed to get top ranks", err)
		}
		for i, r := range ranks {
			board.Entries = append(board.Entries, &models.LeaderboardEntry{
				Position: i + 1,
				UserID:   r.UserID,
				Rank:     r.Rank,
				Tier:     r.Tier,
			})
		}
		return board, nil
	}

	top, err := uow.UserStatsRepository().GetTopByCoins(ctx, statsLeaderboardSize)
	if err != nil {
		return nil, storeError("failed to get top users", err)
	}
	for i, st := range top {
		board.Entries = append(board.Entries, &models.LeaderboardEntry{
			Position:  i + 1,
			UserID:    st.UserID,
			Wins:      st.Wins,
			Coins:     st.Coins,
			StatsRank: st.Rank(),
		})
	}
	return board, nil
}
