package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"wagerbot/bot/features/stats"
	"wagerbot/bot/features/wagers"
)

var moderatorPermission int64 = discordgo.PermissionManageGuild

// commandDefinitions returns every slash command the bot registers
func commandDefinitions() []*discordgo.ApplicationCommand {
	minStake := 0.01
	wagerIDOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "wager_id",
		Description: "Wager ID, e.g. WGR-ABC123",
		Required:    true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        wagers.CommandWager,
			Description: "Start a risk wager",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "opponent",
					Description: "Opponent",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "amount",
					Description: "USD amount each player stakes",
					Required:    true,
					MinValue:    &minStake,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "link",
					Description: "Game link",
					Required:    false,
				},
			},
		},
		{
			Name:                     wagers.CommandWagerMod,
			Description:              "Create a supervised wager (mod only) with a single PayPal link",
			DefaultMemberPermissions: &moderatorPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "player1",
					Description: "First player",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "player2",
					Description: "Second player",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "amount",
					Description: "USD amount each player stakes",
					Required:    true,
					MinValue:    &minStake,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "vod",
					Description: "VOD required?",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "yes", Value: "yes"},
						{Name: "no", Value: "no"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "paypal_link",
					Description: "PayPal link for both players",
					Required:    true,
				},
			},
		},
		{
			Name:        wagers.CommandConfirmWager,
			Description: "Check a wager's funding",
			Options:     []*discordgo.ApplicationCommandOption{wagerIDOption},
		},
		{
			Name:        wagers.CommandConfirmPayment,
			Description: "Confirm a player's payment",
			Options: []*discordgo.ApplicationCommandOption{
				wagerIDOption,
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "player",
					Description: "Player whose payment is confirmed",
					Required:    true,
				},
			},
		},
		{
			Name:        wagers.CommandResolve,
			Description: "Resolve a risk wager",
			Options:     resolveOptions(wagerIDOption),
		},
		{
			Name:                     wagers.CommandResolveMod,
			Description:              "Resolve a supervised wager (mod only)",
			DefaultMemberPermissions: &moderatorPermission,
			Options:                  resolveOptions(wagerIDOption),
		},
		{
			Name:        wagers.CommandDispute,
			Description: "Flag a wager for review",
			Options: []*discordgo.ApplicationCommandOption{
				wagerIDOption,
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "What went wrong",
					Required:    false,
					MaxLength:   500,
				},
			},
		},
		{
			Name:        stats.CommandProfile,
			Description: "View a user's profile",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to view (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        stats.CommandLeaderboard,
			Description: "Post the role or stats leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "type",
					Description: "Leaderboard type",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "role", Value: "role"},
						{Name: "stats", Value: "stats"},
					},
				},
			},
		},
	}
}

func resolveOptions(wagerIDOption *discordgo.ApplicationCommandOption) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		wagerIDOption,
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "winner",
			Description: "Winner",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "score",
			Description: "Final score",
			Required:    false,
			MaxLength:   64,
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd); err != nil {
			return fmt.Errorf("cannot create '%v' command: %w", cmd.Name, err)
		}
	}
	return nil
}
