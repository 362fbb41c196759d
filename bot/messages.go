package bot

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wagerbot/application"
)

// handleMessageCreate feeds messages from the rank-logs channel to the rank log handler
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}

	if !b.isRankLogChannel(s, m.ChannelID) {
		return
	}

	authorID, _ := strconv.ParseInt(m.Author.ID, 10, 64)
	msg := application.RankLogMessage{
		MessageID: m.ID,
		ChannelID: m.ChannelID,
		AuthorID:  authorID,
		AuthorBot: m.Author.Bot,
		Content:   m.Content,
	}

	if err := b.rankLogHandler.HandleMessage(context.Background(), msg); err != nil {
		log.WithFields(log.Fields{
			"message_id": m.ID,
			"channel_id": m.ChannelID,
		}).Errorf("Failed to process rank log entry: %v", err)
	}
}

func (b *Bot) isRankLogChannel(s *discordgo.Session, channelID string) bool {
	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
		if err != nil {
			log.WithField("channel_id", channelID).Debugf("Failed to look up channel: %v", err)
			return false
		}
	}
	return channel.Name == b.config.RankLogChannel
}
