package wagers

import (
	"github.com/bwmarrin/discordgo"
)

const acceptButtonPrefix = "wager_accept_"

// BuildInviteComponents creates the accept button sent with a risk wager invite
func BuildInviteComponents(wagerID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "✅ Accept",
					Style:    discordgo.SuccessButton,
					CustomID: acceptButtonPrefix + wagerID,
				},
			},
		},
	}
}
