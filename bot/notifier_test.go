package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagerbot/application"
	"wagerbot/events"
	"wagerbot/models"
)

func TestRenderNotification_InviteCarriesAcceptButton(t *testing.T) {
	msg, err := renderNotification(application.NotificationWagerInvite, events.WagerCreatedEvent{
		WagerID:   "WGR-ABC123",
		Player1ID: 1,
		Player2ID: 2,
		Stake:     decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "Risk Wager Invite", msg.Embeds[0].Title)

	require.Len(t, msg.Components, 1)
	row, ok := msg.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	button, ok := row.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, "wager_accept_WGR-ABC123", button.CustomID)
}

func TestRenderNotification_Reminder(t *testing.T) {
	msg, err := renderNotification(application.NotificationPaymentReminder, &models.Wager{
		ID:          "WGR-ABC123",
		StakeAmount: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Reminder: complete payment of $12.50 for wager WGR-ABC123", msg.Content)
}

func TestRenderNotification_RankReplies(t *testing.T) {
	claim := models.RankClaim{UserID: 42, OldRank: "R3", OldTier: models.TierMid, NewRank: "R4", NewTier: models.TierLow}

	msg, err := renderNotification(application.NotificationRankUpdated, application.RankLogReply{
		Claim:      claim,
		Transition: &models.RankTransition{UserID: 42},
	})
	require.NoError(t, err)
	assert.Equal(t, "✅ Updated <@42> to R4 low.", msg.Content)

	msg, err = renderNotification(application.NotificationRankUpdated, application.RankLogReply{
		Claim:      claim,
		Transition: &models.RankTransition{UserID: 42, RoleSyncErr: errors.New("missing permissions")},
	})
	require.NoError(t, err)
	assert.Contains(t, msg.Content, "Roles could not be updated")

	msg, err = renderNotification(application.NotificationRankRejected, application.RankLogReply{
		Claim:  claim,
		Reason: "<@42> has R2 none, not R3 mid",
	})
	require.NoError(t, err)
	assert.Equal(t, "❌ <@42> has R2 none, not R3 mid.", msg.Content)
}

func TestRenderNotification_UnknownPayload(t *testing.T) {
	_, err := renderNotification(application.NotificationWagerFunded, "not an event")
	assert.Error(t, err)
}
