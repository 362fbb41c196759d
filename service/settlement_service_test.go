package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wagerbot/events"
	"wagerbot/models"
)

func TestSettlementService_Resolve_Unsupervised(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	wager := NewTestWager(models.WagerStatusFunded, "100.00")
	mocks.WagerRepo.On("GetByIDForUpdate", ctx, TestWagerID).Return(wager, nil)
	mocks.WagerRepo.On("MarkResolved", ctx, TestWagerID, TestPlayer1ID, "3-1", decimalEq("10.00")).Return(true, nil).Once()
	mocks.UserStatsRepo.On("RecordWin", ctx, TestPlayer1ID, decimalEq("100.00")).Return(nil).Once()
	mocks.UserStatsRepo.On("RecordLoss", ctx, TestPlayer2ID).Return(nil).Once()
	mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.WagerResolvedEvent) bool {
		return e.WinnerID == TestPlayer1ID && e.LoserID == TestPlayer2ID && e.Payout.Equal(decimal.RequireFromString("190"))
	})).Return().Once()

	svc := NewSettlementService(mocks.Factory, models.DefaultCommissionRate)
	result, err := svc.Resolve(ctx, TestWagerID, TestPlayer1ID, " 3-1 ", PlayerActor(TestPlayer2ID))

	require.NoError(t, err)
	assert.Equal(t, "200.00", result.Settlement.Pot.StringFixed(2))
	assert.Equal(t, "10.00", result.Settlement.Commission.StringFixed(2))
	assert.Equal(t, "190.00", result.Settlement.Payout.StringFixed(2))
	assert.Equal(t, TestPlayer2ID, result.LoserID)
	assert.Equal(t, "3-1", result.Score)
	assert.Equal(t, models.WagerStatusResolved, result.Wager.Status)
	assert.True(t, result.Wager.Commission.Valid)
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_SupervisedReusesStoredCommission(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	// Commission was fixed at 10.00 when the rate was 5%; the service now runs at 20%
	wager := NewTestSupervisedWager(models.WagerStatusFunded, "100.00", "10.00")
	mocks.WagerRepo.On("GetByIDForUpdate", ctx, TestWagerID).Return(wager, nil)
	mocks.WagerRepo.On("MarkResolved", ctx, TestWagerID, TestPlayer2ID, "", decimalEq("10.00")).Return(true, nil)
	mocks.UserStatsRepo.On("RecordWin", ctx, TestPlayer2ID, decimalEq("100.00")).Return(nil)
	mocks.UserStatsRepo.On("RecordLoss", ctx, TestPlayer1ID).Return(nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.WagerResolvedEvent")).Return()

	svc := NewSettlementService(mocks.Factory, decimal.RequireFromString("0.20"))
	result, err := svc.Resolve(ctx, TestWagerID, TestPlayer2ID, "", ModeratorActor())

	require.NoError(t, err)
	assert.Equal(t, "10.00", result.Settlement.Commission.StringFixed(2))
	assert.Equal(t, "190.00", result.Settlement.Payout.StringFixed(2))
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_UnsupervisedUsesCurrentRate(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	wager := NewTestWager(models.WagerStatusFunded, "12.35")
	mocks.WagerRepo.On("GetByIDForUpdate", ctx, TestWagerID).Return(wager, nil)
	// 24.70 * 0.05 = 1.235, rounded half away from zero
	mocks.WagerRepo.On("MarkResolved", ctx, TestWagerID, TestPlayer1ID, "", decimalEq("1.24")).Return(true, nil)
	mocks.UserStatsRepo.On("RecordWin", ctx, TestPlayer1ID, decimalEq("12.35")).Return(nil)
	mocks.UserStatsRepo.On("RecordLoss", ctx, TestPlayer2ID).Return(nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.WagerResolvedEvent")).Return()

	svc := NewSettlementService(mocks.Factory, models.DefaultCommissionRate)
	result, err := svc.Resolve(ctx, TestWagerID, TestPlayer1ID, "", ModeratorActor())

	require.NoError(t, err)
	assert.Equal(t, "24.70", result.Settlement.Pot.StringFixed(2))
	assert.Equal(t, "23.46", result.Settlement.Payout.StringFixed(2))
	mocks.AssertAllExpectations(t)
}

func TestSettlementService_Resolve_LostRaceReturnsInvalidState(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)

	wager := NewTestWager(models.WagerStatusFunded, "100.00")
	mocks.WagerRepo.On("GetByIDForUpdate", ctx, TestWagerID).Return(wager, nil)
	mocks.WagerRepo.On("MarkResolved", ctx, TestWagerID, TestPlayer1ID, "", mock.Anything).Return(false, nil)

	svc := NewSettlementService(mocks.Factory, models.DefaultCommissionRate)
	_, err := svc.Resolve(ctx, TestWagerID, TestPlayer1ID, "", PlayerActor(TestPlayer1ID))

	assert.True(t, errors.Is(err, ErrInvalidState))
	mocks.UserStatsRepo.AssertNotCalled(t, "RecordWin", mock.Anything, mock.Anything, mock.Anything)
	mocks.UserStatsRepo.AssertNotCalled(t, "RecordLoss", mock.Anything, mock.Anything)
	mocks.EventPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestSettlementService_Resolve_Errors(t *testing.T) {
	tests := []struct {
		name     string
		wager    *models.Wager
		winnerID int64
		actor    models.Actor
		expected error
	}{
		{
			name:     "unknown wager",
			winnerID: TestPlayer1ID,
			actor:    ModeratorActor(),
			expected: ErrNotFound,
		},
		{
			name:     "pending wager",
			wager:    NewTestWager(models.WagerStatusPending, "100.00"),
			winnerID: TestPlayer1ID,
			actor:    PlayerActor(TestPlayer1ID),
			expected: ErrInvalidState,
		},
		{
			name:     "already resolved",
			wager:    NewTestWager(models.WagerStatusResolved, "100.00"),
			winnerID: TestPlayer1ID,
			actor:    ModeratorActor(),
			expected: ErrInvalidState,
		},
		{
			name:     "supervised wager resolved by a player",
			wager:    NewTestSupervisedWager(models.WagerStatusFunded, "100.00", "10.00"),
			winnerID: TestPlayer1ID,
			actor:    PlayerActor(TestPlayer1ID),
			expected: ErrUnauthorized,
		},
		{
			name:     "unsupervised wager resolved by an outsider",
			wager:    NewTestWager(models.WagerStatusFunded, "100.00"),
			winnerID: TestPlayer1ID,
			actor:    PlayerActor(TestOutsiderID),
			expected: ErrUnauthorized,
		},
		{
			name:     "winner is not a player",
			wager:    NewTestWager(models.WagerStatusFunded, "100.00"),
			winnerID: TestOutsiderID,
			actor:    ModeratorActor(),
			expected: ErrInvalidWinner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mocks := NewTestMocks()
			mocks.ExpectTransaction(ctx, false)
			if tt.wager == nil {
				mocks.WagerRepo.On("GetByIDForUpdate", ctx, TestWagerID).Return(nil, nil)
			} else {
				mocks.WagerRepo.On("GetByIDForUpdate", ctx, TestWagerID).Return(tt.wager, nil)
			}

			svc := NewSettlementService(mocks.Factory, models.DefaultCommissionRate)
			result, err := svc.Resolve(ctx, TestWagerID, tt.winnerID, "", tt.actor)

			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			mocks.WagerRepo.AssertNotCalled(t, "MarkResolved", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mocks.UserStatsRepo.AssertNotCalled(t, "RecordWin", mock.Anything, mock.Anything, mock.Anything)
			mocks.UoW.AssertNotCalled(t, "Commit")
		})
	}
}

func TestSettlementService_Resolve_ScoreTooLong(t *testing.T) {
	mocks := NewTestMocks()
	svc := NewSettlementService(mocks.Factory, models.DefaultCommissionRate)

	long := make([]byte, maxScoreLength+1)
	for i := range long {
		long[i] = '1'
	}
	_, err := svc.Resolve(context.Background(), TestWagerID, TestPlayer1ID, string(long), ModeratorActor())

	assert.True(t, errors.Is(err, ErrValidation))
	mocks.Factory.AssertNotCalled(t, "Create")
}
