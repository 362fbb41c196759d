package wagers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"wagerbot/bot/common"
	"wagerbot/events"
	"wagerbot/models"
)

const (
	colorInvite     = 0x5865F2
	colorSupervised = 0xE67E22
	colorFunded     = 0x2ECC71
	colorResolved   = 0xF1C40F
	colorModResult  = 0x1F8B4C
	colorDispute    = 0xE74C3C
	colorPending    = 0x95A5A6
)

// BuildInviteEmbed creates the risk wager invite sent to the opponent
func BuildInviteEmbed(e events.WagerCreatedEvent) *discordgo.MessageEmbed {
	link := e.PaymentLink
	if link == "" {
		link = "-"
	}
	return &discordgo.MessageEmbed{
		Title: "Risk Wager Invite",
		Color: colorInvite,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager ID", Value: e.WagerID, Inline: true},
			{Name: "Challenger", Value: common.FormatMention(e.Player1ID), Inline: true},
			{Name: "Opponent", Value: common.FormatMention(e.Player2ID), Inline: true},
			{Name: "Amount (USD)", Value: common.FormatMoney(e.Stake), Inline: true},
			{Name: "Game Link", Value: link, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Press Accept to confirm your side of the wager."},
	}
}

// BuildWagerCreatedEmbed creates the post announcing a new wager
func BuildWagerCreatedEmbed(e events.WagerCreatedEvent) *discordgo.MessageEmbed {
	pot := e.Stake.Add(e.Stake)
	if !e.Supervised {
		return &discordgo.MessageEmbed{
			Title: "🎲 Risk Wager Created",
			Color: colorInvite,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Wager ID", Value: e.WagerID, Inline: false},
				{Name: "Players", Value: fmt.Sprintf("%s vs %s", common.FormatMention(e.Player1ID), common.FormatMention(e.Player2ID)), Inline: false},
				{Name: "Amount (each)", Value: common.FormatMoney(e.Stake), Inline: true},
				{Name: "Total Pot", Value: common.FormatMoney(pot), Inline: true},
			},
		}
	}

	link := e.PaymentLink
	if link == "" {
		link = "-"
	}
	commission := "-"
	if e.Commission != nil {
		commission = common.FormatMoney(*e.Commission)
	}
	return &discordgo.MessageEmbed{
		Title: "🕵️ Supervised Wager Created",
		Color: colorSupervised,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager ID", Value: e.WagerID, Inline: false},
			{Name: "Players", Value: fmt.Sprintf("%s vs %s", common.FormatMention(e.Player1ID), common.FormatMention(e.Player2ID)), Inline: false},
			{Name: "Amount (each)", Value: common.FormatMoney(e.Stake), Inline: true},
			{Name: "Total Pot", Value: common.FormatMoney(pot), Inline: true},
			{Name: "Commission", Value: commission, Inline: true},
			{Name: "VOD Required", Value: common.FormatYesNo(e.VODRequired), Inline: false},
			{Name: "PayPal Link", Value: link, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Moderator must confirm payments to start match."},
	}
}

// BuildFundedMessage creates the announcement for a wager whose both legs are paid
func BuildFundedMessage(e events.WagerFundedEvent) string {
	if e.Supervised {
		return fmt.Sprintf("💵 Wager %s funded! %s vs %s, match on.", e.WagerID,
			common.FormatMention(e.Player1ID), common.FormatMention(e.Player2ID))
	}
	return fmt.Sprintf("💵 Risk wager %s funded! %s vs %s, match on.", e.WagerID,
		common.FormatMention(e.Player1ID), common.FormatMention(e.Player2ID))
}

// BuildResolvedEmbed creates the settlement summary of a resolved wager
func BuildResolvedEmbed(e events.WagerResolvedEvent) *discordgo.MessageEmbed {
	title, color := "📜 Wager Resolved", colorResolved
	if e.Supervised {
		title, color = "🎯 Supervised Wager Resolved", colorModResult
	}

	score := e.Score
	if score == "" {
		score = "-"
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager ID", Value: e.WagerID, Inline: false},
			{Name: "Winner", Value: common.FormatMention(e.WinnerID), Inline: true},
			{Name: "Score", Value: score, Inline: true},
			{Name: "Total Pot", Value: common.FormatMoney(e.Pot), Inline: false},
			{Name: "Commission", Value: common.FormatMoney(e.Commission), Inline: false},
			{Name: "Payout", Value: common.FormatMoney(e.Payout), Inline: false},
		},
	}
}

// BuildDisputeMessage creates the moderator alert for a disputed wager
func BuildDisputeMessage(e events.DisputeFlaggedEvent) string {
	msg := fmt.Sprintf("⚠️ Dispute opened for %s by %s", e.WagerID, common.FormatMention(e.RaisedBy))
	if reason := strings.TrimSpace(e.Reason); reason != "" {
		msg += ": " + reason
	}
	return msg
}

// BuildReminderMessage creates the payment reminder sent to an unpaid player
func BuildReminderMessage(w *models.Wager) string {
	return fmt.Sprintf("Reminder: complete payment of %s for wager %s", common.FormatMoney(w.StakeAmount), w.ID)
}

// BuildFundingStatusEmbed shows which legs of a wager are paid
func BuildFundingStatusEmbed(status *models.FundingStatus) *discordgo.MessageEmbed {
	w := status.Wager

	var legs strings.Builder
	for _, p := range status.Payments {
		mark := "⏳ unpaid"
		if p.Paid {
			mark = "✅ paid"
		}
		legs.WriteString(fmt.Sprintf("%s: %s\n", common.FormatMention(p.UserID), mark))
	}

	color := colorPending
	switch w.Status {
	case models.WagerStatusFunded:
		color = colorFunded
	case models.WagerStatusResolved:
		color = colorResolved
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Type", Value: w.TypeLabel(), Inline: true},
		{Name: "Status", Value: string(w.Status), Inline: true},
		{Name: "Paid", Value: fmt.Sprintf("%d/2", status.PaidCount()), Inline: true},
		{Name: "Amount (each)", Value: common.FormatMoney(w.StakeAmount), Inline: true},
		{Name: "Payments", Value: legs.String(), Inline: false},
	}
	if !w.CreatedAt.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Created", Value: common.FormatDiscordTimestamp(w.CreatedAt, "R"), Inline: true,
		})
	}
	if w.FundedAt != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Funded", Value: common.FormatDiscordTimestamp(*w.FundedAt, "R"), Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Wager %s", w.ID),
		Color:  color,
		Fields: fields,
	}
}
