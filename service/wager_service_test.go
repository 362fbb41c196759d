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

func newTestWagerService(mocks *TestMocks) WagerService {
	return NewWagerService(mocks.Factory, NewWagerIDGenerator("WGR-", 6), models.DefaultCommissionRate)
}

func TestWagerService_CreateWager_Unsupervised(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	mocks.WagerRepo.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	mocks.WagerRepo.On("Create", ctx, mock.MatchedBy(func(w *models.Wager) bool {
		return w.Player1ID == TestPlayer1ID && w.Player2ID == TestPlayer2ID && w.HostID == TestPlayer1ID
	})).Return(nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.WagerCreatedEvent")).Return()

	svc := newTestWagerService(mocks)
	wager, err := svc.CreateWager(ctx, CreateWagerRequest{
		Actor:       PlayerActor(TestPlayer1ID),
		OpponentID:  TestPlayer2ID,
		Stake:       decimal.RequireFromString("25.50"),
		PaymentLink: " https://pay.example/abc ",
	})

	require.NoError(t, err)
	assert.Regexp(t, `^WGR-[A-Z0-9]{6}$`, wager.ID)
	assert.Equal(t, models.WagerStatusPending, wager.Status)
	assert.False(t, wager.Commission.Valid, "unsupervised commission is computed at resolution")
	assert.Nil(t, wager.ModeratorID)
	require.NotNil(t, wager.PaymentLink)
	assert.Equal(t, "https://pay.example/abc", *wager.PaymentLink)
	mocks.AssertAllExpectations(t)
}

func TestWagerService_CreateWager_SupervisedStampsCommission(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	mocks.WagerRepo.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	mocks.WagerRepo.On("Create", ctx, mock.AnythingOfType("*models.Wager")).Return(nil)
	mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.WagerCreatedEvent) bool {
		return e.Supervised && e.ModeratorID != nil && *e.ModeratorID == TestModeratorID
	})).Return()

	svc := newTestWagerService(mocks)
	wager, err := svc.CreateWager(ctx, CreateWagerRequest{
		Actor:      ModeratorActor(),
		Player1ID:  TestPlayer1ID,
		Player2ID:  TestPlayer2ID,
		Stake:      decimal.RequireFromString("100"),
		Supervised: true,
	})

	require.NoError(t, err)
	require.True(t, wager.Commission.Valid)
	assert.Equal(t, "10.00", wager.Commission.Decimal.StringFixed(2))
	assert.Equal(t, TestModeratorID, wager.HostID)
	mocks.AssertAllExpectations(t)
}

func TestWagerService_CreateWager_RedrawsTakenID(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	mocks.WagerRepo.On("Exists", ctx, mock.AnythingOfType("string")).Return(true, nil).Twice()
	mocks.WagerRepo.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	mocks.WagerRepo.On("Create", ctx, mock.AnythingOfType("*models.Wager")).Return(nil)
	mocks.EventPublisher.On("Publish", mock.Anything).Return()

	svc := newTestWagerService(mocks)
	_, err := svc.CreateWager(ctx, CreateWagerRequest{
		Actor:      PlayerActor(TestPlayer1ID),
		OpponentID: TestPlayer2ID,
		Stake:      decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	mocks.WagerRepo.AssertNumberOfCalls(t, "Exists", 3)
}

func TestWagerService_CreateWager_RetriesInsertConflict(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	mocks.WagerRepo.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	mocks.WagerRepo.On("Create", ctx, mock.AnythingOfType("*models.Wager")).Return(ErrWagerIDTaken).Once()
	mocks.WagerRepo.On("Create", ctx, mock.AnythingOfType("*models.Wager")).Return(nil).Once()
	mocks.EventPublisher.On("Publish", mock.Anything).Return().Once()

	svc := newTestWagerService(mocks)
	_, err := svc.CreateWager(ctx, CreateWagerRequest{
		Actor:      PlayerActor(TestPlayer1ID),
		OpponentID: TestPlayer2ID,
		Stake:      decimal.NewFromInt(10),
	})

	require.NoError(t, err)
	mocks.Factory.AssertNumberOfCalls(t, "Create", 2)
	mocks.UoW.AssertNumberOfCalls(t, "Commit", 1)
}

func TestWagerService_CreateWager_Validation(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateWagerRequest
		expected error
	}{
		{
			name:     "zero stake",
			req:      CreateWagerRequest{Actor: PlayerActor(TestPlayer1ID), OpponentID: TestPlayer2ID, Stake: decimal.Zero},
			expected: ErrValidation,
		},
		{
			name:     "negative stake",
			req:      CreateWagerRequest{Actor: PlayerActor(TestPlayer1ID), OpponentID: TestPlayer2ID, Stake: decimal.NewFromInt(-5)},
			expected: ErrValidation,
		},
		{
			name:     "sub-cent stake",
			req:      CreateWagerRequest{Actor: PlayerActor(TestPlayer1ID), OpponentID: TestPlayer2ID, Stake: decimal.RequireFromString("1.005")},
			expected: ErrValidation,
		},
		{
			name:     "wager against yourself",
			req:      CreateWagerRequest{Actor: PlayerActor(TestPlayer1ID), OpponentID: TestPlayer1ID, Stake: decimal.NewFromInt(5)},
			expected: ErrValidation,
		},
		{
			name:     "missing opponent",
			req:      CreateWagerRequest{Actor: PlayerActor(TestPlayer1ID), Stake: decimal.NewFromInt(5)},
			expected: ErrValidation,
		},
		{
			name: "supervised by a player",
			req: CreateWagerRequest{
				Actor: PlayerActor(TestPlayer1ID), Player1ID: TestPlayer1ID, Player2ID: TestPlayer2ID,
				Stake: decimal.NewFromInt(5), Supervised: true,
			},
			expected: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			svc := newTestWagerService(mocks)

			_, err := svc.CreateWager(context.Background(), tt.req)

			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			mocks.Factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestWagerService_GetFundingStatus(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)

	wager := NewTestWager(models.WagerStatusPending, "50.00")
	mocks.WagerRepo.On("GetByID", ctx, TestWagerID).Return(wager, nil)
	mocks.PaymentRepo.On("GetByWager", ctx, TestWagerID).Return([]*models.Payment{
		{WagerID: TestWagerID, UserID: TestPlayer1ID, Paid: true},
		{WagerID: TestWagerID, UserID: TestPlayer2ID},
	}, nil)

	svc := newTestWagerService(mocks)
	status, err := svc.GetFundingStatus(ctx, TestWagerID)

	require.NoError(t, err)
	assert.Equal(t, 1, status.PaidCount())
	mocks.UoW.AssertNotCalled(t, "Commit")
	mocks.AssertAllExpectations(t)
}

func TestWagerService_GetFundingStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)
	mocks.WagerRepo.On("GetByID", ctx, "WGR-NOPE00").Return(nil, nil)

	svc := newTestWagerService(mocks)
	_, err := svc.GetFundingStatus(ctx, "WGR-NOPE00")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWagerService_Dispute(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, true)

	wager := NewTestWager(models.WagerStatusFunded, "50.00")
	mocks.WagerRepo.On("GetByID", ctx, TestWagerID).Return(wager, nil)
	mocks.DisputeRepo.On("Create", ctx, mock.AnythingOfType("*models.Dispute")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Dispute).ID = 7
	}).Return(nil)
	mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.DisputeFlaggedEvent) bool {
		return e.DisputeID == 7 && e.RaisedBy == TestPlayer2ID && e.Reason == "opponent used a smurf"
	})).Return()

	svc := newTestWagerService(mocks)
	dispute, err := svc.Dispute(ctx, TestWagerID, PlayerActor(TestPlayer2ID), "  opponent used a smurf ")

	require.NoError(t, err)
	assert.Equal(t, int64(7), dispute.ID)
	mocks.WagerRepo.AssertNotCalled(t, "MarkFunded", mock.Anything, mock.Anything)
	mocks.WagerRepo.AssertNotCalled(t, "MarkResolved", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mocks.AssertAllExpectations(t)
}

func TestWagerService_Dispute_Outsider(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)
	mocks.WagerRepo.On("GetByID", ctx, TestWagerID).Return(NewTestWager(models.WagerStatusFunded, "50.00"), nil)

	svc := newTestWagerService(mocks)
	_, err := svc.Dispute(ctx, TestWagerID, PlayerActor(TestOutsiderID), "")

	assert.True(t, errors.Is(err, ErrUnauthorized))
	mocks.DisputeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWagerService_ListUnderfundedPendingWagers(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	mocks.ExpectTransaction(ctx, false)

	expected := []*models.UnderfundedWager{
		{Wager: NewTestWager(models.WagerStatusPending, "10.00"), UnpaidUserIDs: []int64{TestPlayer2ID}},
	}
	mocks.WagerRepo.On("ListUnderfundedPending", ctx).Return(expected, nil)

	svc := newTestWagerService(mocks)
	wagers, err := svc.ListUnderfundedPendingWagers(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, wagers)
}
