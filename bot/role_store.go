package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wagerbot/bot/common"
)

// RoleStore applies rank role changes to guild members by role name
type RoleStore struct {
	session *discordgo.Session
	guildID string
}

// NewRoleStore creates a role store for one guild
func NewRoleStore(session *discordgo.Session, guildID string) *RoleStore {
	return &RoleStore{
		session: session,
		guildID: guildID,
	}
}

// ApplyRoleDiff removes and adds the named roles. Names without a matching guild role are skipped.
func (r *RoleStore) ApplyRoleDiff(ctx context.Context, userID int64, remove, add []string) error {
	roles, err := common.GuildRoles(r.session, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild roles: %w", err)
	}

	memberID := strconv.FormatInt(userID, 10)
	removeIDs, missingRemove := resolveRoleIDs(roles, remove)
	addIDs, missingAdd := resolveRoleIDs(roles, add)

	if len(missingRemove)+len(missingAdd) > 0 {
		log.WithFields(log.Fields{
			"user_id":        userID,
			"missing_remove": missingRemove,
			"missing_add":    missingAdd,
		}).Warn("Rank roles not found in guild")
	}

	for _, roleID := range removeIDs {
		if err := r.session.GuildMemberRoleRemove(r.guildID, memberID, roleID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to remove role %s from user %d: %w", roleID, userID, err)
		}
	}
	for _, roleID := range addIDs {
		if err := r.session.GuildMemberRoleAdd(r.guildID, memberID, roleID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to add role %s to user %d: %w", roleID, userID, err)
		}
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"removed": remove,
		"added":   add,
	}).Info("Applied rank roles")
	return nil
}

// resolveRoleIDs maps role names to guild role IDs, returning the names that have no role
func resolveRoleIDs(roles []*discordgo.Role, names []string) (ids []string, missing []string) {
	for _, name := range names {
		if id := common.RoleIDByName(roles, name); id != "" {
			ids = append(ids, id)
		} else {
			missing = append(missing, name)
		}
	}
	return ids, missing
}
