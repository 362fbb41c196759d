package stats

import (
	"github.com/bwmarrin/discordgo"

	"wagerbot/application"
	"wagerbot/bot/common"
	"wagerbot/service"
)

// Command names handled by this feature
const (
	CommandProfile     = "profile"
	CommandLeaderboard = "leaderboard"
)

// Feature represents the profile and leaderboard feature
type Feature struct {
	statsService         service.StatsService
	notifier             application.Notifier
	leaderboardChannelID string
}

// NewFeature creates a new stats feature instance
func NewFeature(statsService service.StatsService, notifier application.Notifier, leaderboardChannelID string) *Feature {
	return &Feature{
		statsService:         statsService,
		notifier:             notifier,
		leaderboardChannelID: leaderboardChannelID,
	}
}

// Handles reports whether the feature owns the command
func (f *Feature) Handles(name string) bool {
	return name == CommandProfile || name == CommandLeaderboard
}

// HandleCommand handles /profile and /leaderboard
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case CommandProfile:
		f.handleProfile(s, i)
	case CommandLeaderboard:
		f.handleLeaderboard(s, i)
	default:
		common.RespondWithError(s, i, "Unknown command")
	}
}
