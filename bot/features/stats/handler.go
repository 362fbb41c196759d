package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wagerbot/application"
	"wagerbot/bot/common"
	"wagerbot/models"
)

// handleProfile shows a user's stats and role rank
func (f *Feature) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)

	user := common.InteractionUser(i)
	if opt, ok := opts["user"]; ok {
		user = opt.UserValue(s)
	}
	if user == nil {
		common.RespondWithError(s, i, "Invalid user specified")
		return
	}

	userID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid user ID")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	profile, err := f.statsService.GetProfile(context.Background(), userID)
	if err != nil {
		common.HandleLedgerError(s, i, CommandProfile, err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, userID)
	embed := BuildProfileEmbed(profile, displayName, user.AvatarURL("128"))
	common.FollowUpWithEmbed(s, i, embed, false)
}

// handleLeaderboard posts the role or stats leaderboard to the leaderboard channel
func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)

	kind := models.LeaderboardKindStats
	if opt, ok := opts["type"]; ok {
		kind = models.LeaderboardKind(strings.ToLower(strings.TrimSpace(opt.StringValue())))
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	board, err := f.statsService.GetLeaderboard(context.Background(), kind)
	if err != nil {
		common.HandleLedgerError(s, i, CommandLeaderboard, err)
		return
	}

	target := application.Target{ChannelID: f.leaderboardChannelID}
	if target.ChannelID == "" {
		target.ChannelID = i.ChannelID
	}
	if err := f.notifier.Notify(context.Background(), target, application.NotificationLeaderboardPosted, board); err != nil {
		log.WithField("kind", kind).Errorf("Failed to post leaderboard: %v", err)
		common.FollowUpWithError(s, i, "Unable to post the leaderboard. Please try again.")
		return
	}

	name := string(kind)
	common.FollowUpWithSuccess(s, i, fmt.Sprintf("%s leaderboard posted.", strings.ToUpper(name[:1])+name[1:]), true)
}
