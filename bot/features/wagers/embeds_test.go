package wagers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagerbot/events"
	"wagerbot/models"
)

func fieldValue(t *testing.T, fields map[string]string, name string) string {
	t.Helper()
	v, ok := fields[name]
	require.True(t, ok, "missing field %q", name)
	return v
}

func TestBuildWagerCreatedEmbed_Supervised(t *testing.T) {
	commission := decimal.RequireFromString("2.50")
	embed := BuildWagerCreatedEmbed(events.WagerCreatedEvent{
		WagerID:     "WGR-ABC123",
		Player1ID:   1,
		Player2ID:   2,
		Stake:       decimal.RequireFromString("25"),
		Supervised:  true,
		VODRequired: true,
		PaymentLink: "https://paypal.me/house",
		Commission:  &commission,
	})

	fields := make(map[string]string)
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}

	assert.Equal(t, "$50.00", fieldValue(t, fields, "Total Pot"))
	assert.Equal(t, "$2.50", fieldValue(t, fields, "Commission"))
	assert.Equal(t, "Yes", fieldValue(t, fields, "VOD Required"))
	assert.Equal(t, "<@1> vs <@2>", fieldValue(t, fields, "Players"))
}

func TestBuildResolvedEmbed(t *testing.T) {
	embed := BuildResolvedEmbed(events.WagerResolvedEvent{
		WagerID:    "WGR-ABC123",
		WinnerID:   2,
		Pot:        decimal.RequireFromString("20"),
		Commission: decimal.RequireFromString("1"),
		Payout:     decimal.RequireFromString("19"),
	})

	fields := make(map[string]string)
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}

	assert.Equal(t, "📜 Wager Resolved", embed.Title)
	assert.Equal(t, "<@2>", fieldValue(t, fields, "Winner"))
	assert.Equal(t, "-", fieldValue(t, fields, "Score"))
	assert.Equal(t, "$19.00", fieldValue(t, fields, "Payout"))
}

func TestBuildFundingStatusEmbed(t *testing.T) {
	status := &models.FundingStatus{
		Wager: &models.Wager{ID: "WGR-ABC123", Status: models.WagerStatusPending, StakeAmount: decimal.NewFromInt(10)},
		Payments: []*models.Payment{
			{WagerID: "WGR-ABC123", UserID: 1, Paid: true},
			{WagerID: "WGR-ABC123", UserID: 2},
		},
	}

	embed := BuildFundingStatusEmbed(status)

	fields := make(map[string]string)
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, "1/2", fieldValue(t, fields, "Paid"))
	assert.Equal(t, "risk", fieldValue(t, fields, "Type"))
	assert.Contains(t, fieldValue(t, fields, "Payments"), "<@2>: ⏳ unpaid")
}

func TestBuildDisputeMessage(t *testing.T) {
	assert.Equal(t, "⚠️ Dispute opened for WGR-ABC123 by <@7>",
		BuildDisputeMessage(events.DisputeFlaggedEvent{WagerID: "WGR-ABC123", RaisedBy: 7}))
	assert.Equal(t, "⚠️ Dispute opened for WGR-ABC123 by <@7>: wrong score",
		BuildDisputeMessage(events.DisputeFlaggedEvent{WagerID: "WGR-ABC123", RaisedBy: 7, Reason: " wrong score "}))
}

func TestConfirmationMessage(t *testing.T) {
	assert.Equal(t, "<@5> confirmed (1/2).",
		confirmationMessage(&models.PaymentConfirmation{WagerID: "WGR-ABC123", UserID: 5, Changed: true, PaidCount: 1}))
	assert.Equal(t, "<@5> had already paid (2/2).",
		confirmationMessage(&models.PaymentConfirmation{WagerID: "WGR-ABC123", UserID: 5, PaidCount: 2}))
	assert.Equal(t, "<@5> confirmed. Wager **WGR-ABC123** is funded!",
		confirmationMessage(&models.PaymentConfirmation{WagerID: "WGR-ABC123", UserID: 5, Changed: true, Funded: true, PaidCount: 2}))
}

func TestNormalizeWagerID(t *testing.T) {
	assert.Equal(t, "WGR-ABC123", normalizeWagerID("  wgr-abc123 "))
}
