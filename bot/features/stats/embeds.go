package stats

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"wagerbot/bot/common"
	"wagerbot/models"
)

const (
	colorProfile     = 0x3498DB
	colorLeaderboard = 0xF1C40F
)

// BuildProfileEmbed creates the /profile embed
func BuildProfileEmbed(profile *models.Profile, displayName, avatarURL string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's Profile", displayName),
		Color: colorProfile,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Role Rank", Value: common.FormatRankState(profile.RankState), Inline: true},
			{Name: "Stats Rank", Value: string(profile.StatsRank), Inline: true},
			{Name: "Wins", Value: strconv.Itoa(profile.Stats.Wins), Inline: true},
			{Name: "Losses", Value: strconv.Itoa(profile.Stats.Losses), Inline: true},
			{Name: "Coins", Value: common.FormatMoney(profile.Stats.Coins), Inline: true},
		},
	}
	if avatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatarURL}
	}
	return embed
}

// BuildLeaderboardEmbed creates the leaderboard posted to the leaderboard channel
func BuildLeaderboardEmbed(board *models.Leaderboard) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Color: colorLeaderboard}

	switch board.Kind {
	case models.LeaderboardKindRole:
		embed.Title = "🏅 Role Leaderboard"
	default:
		embed.Title = "🏆 Stats Leaderboard"
	}

	if len(board.Entries) == 0 {
		embed.Description = "No players yet."
		return embed
	}

	for _, e := range board.Entries {
		var value string
		if board.Kind == models.LeaderboardKindRole {
			value = fmt.Sprintf("%s %s", common.FormatMention(e.UserID),
				common.FormatRankState(&models.RankState{Rank: e.Rank, Tier: e.Tier}))
		} else {
			value = fmt.Sprintf("%s %s, %d wins (%s)", common.FormatMention(e.UserID),
				common.FormatMoney(e.Coins), e.Wins, e.StatsRank)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%d.", e.Position),
			Value:  value,
			Inline: false,
		})
	}
	return embed
}
