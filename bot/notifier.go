package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"wagerbot/application"
	"wagerbot/bot/features/stats"
	"wagerbot/bot/features/wagers"
	"wagerbot/events"
	"wagerbot/models"
)

// Notifier delivers ledger notifications as Discord channel messages or direct messages
type Notifier struct {
	session *discordgo.Session
}

// NewNotifier creates a Discord notifier
func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{session: session}
}

// Notify renders the notification and sends it to the target
func (n *Notifier) Notify(ctx context.Context, target application.Target, kind application.NotificationKind, payload any) error {
	msg, err := renderNotification(kind, payload)
	if err != nil {
		return err
	}

	channelID := target.ChannelID
	if channelID == "" {
		if target.UserID == 0 {
			return fmt.Errorf("notification %s has no target", kind)
		}
		dm, err := n.session.UserChannelCreate(strconv.FormatInt(target.UserID, 10), discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to open DM with user %d: %w", target.UserID, err)
		}
		channelID = dm.ID
	}

	if _, err := n.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send %s notification to channel %s: %w", kind, channelID, err)
	}
	return nil
}

// renderNotification builds the Discord message for a notification kind and its payload
func renderNotification(kind application.NotificationKind, payload any) (*discordgo.MessageSend, error) {
	switch p := payload.(type) {
	case events.WagerCreatedEvent:
		if kind == application.NotificationWagerInvite {
			return &discordgo.MessageSend{
				Embeds:     []*discordgo.MessageEmbed{wagers.BuildInviteEmbed(p)},
				Components: wagers.BuildInviteComponents(p.WagerID),
			}, nil
		}
		return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{wagers.BuildWagerCreatedEmbed(p)}}, nil

	case events.WagerFundedEvent:
		return &discordgo.MessageSend{Content: wagers.BuildFundedMessage(p)}, nil

	case events.WagerResolvedEvent:
		return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{wagers.BuildResolvedEmbed(p)}}, nil

	case events.DisputeFlaggedEvent:
		return &discordgo.MessageSend{Content: wagers.BuildDisputeMessage(p)}, nil

	case *models.Leaderboard:
		return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{stats.BuildLeaderboardEmbed(p)}}, nil

	case *models.Wager:
		if kind == application.NotificationPaymentReminder {
			return &discordgo.MessageSend{Content: wagers.BuildReminderMessage(p)}, nil
		}

	case application.RankLogReply:
		return &discordgo.MessageSend{Content: rankLogReplyMessage(kind, p)}, nil
	}

	return nil, fmt.Errorf("no renderer for notification %s with payload %T", kind, payload)
}

func rankLogReplyMessage(kind application.NotificationKind, reply application.RankLogReply) string {
	if kind == application.NotificationRankRejected {
		return fmt.Sprintf("❌ %s.", reply.Reason)
	}

	msg := fmt.Sprintf("✅ Updated <@%d> to %s %s.", reply.Claim.UserID, reply.Claim.NewRank, reply.Claim.NewTier)
	if reply.Transition != nil && reply.Transition.RoleSyncErr != nil {
		msg += " Roles could not be updated, a moderator needs to fix them."
	}
	return msg
}
