package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the member's server nickname, falling back to the username
func GetDisplayName(s *discordgo.Session, guildID string, userID int64) string {
	id := strconv.FormatInt(userID, 10)

	if guildID != "" {
		if member, err := s.GuildMember(guildID, id); err == nil && member != nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				return member.User.Username
			}
		}
	}

	if user, err := s.User(id); err == nil && user != nil {
		if user.GlobalName != "" {
			return user.GlobalName
		}
		return user.Username
	}
	return FormatMention(userID)
}
