package common

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"

	"wagerbot/models"
)

// ActorResolver builds the ledger actor for an interaction.
// Members holding the moderator role or the Manage Server permission are moderators.
type ActorResolver struct {
	moderatorRoleName string

	mu      sync.Mutex
	roleIDs map[string]string // guild ID -> moderator role ID
}

// NewActorResolver creates a resolver for the named moderator role
func NewActorResolver(moderatorRoleName string) *ActorResolver {
	return &ActorResolver{
		moderatorRoleName: moderatorRoleName,
		roleIDs:           make(map[string]string),
	}
}

// Resolve returns the actor behind an interaction
func (r *ActorResolver) Resolve(s *discordgo.Session, i *discordgo.InteractionCreate) (models.Actor, error) {
	user := InteractionUser(i)
	if user == nil {
		return models.Actor{}, fmt.Errorf("interaction has no user")
	}

	userID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid user ID %q: %w", user.ID, err)
	}

	actor := models.Actor{ID: userID}
	if i.Member == nil {
		// Direct messages carry no guild roles
		return actor, nil
	}

	roleID := r.moderatorRoleID(s, i.GuildID)
	actor.IsModerator = isModerator(i.Member.Roles, i.Member.Permissions, roleID)
	return actor, nil
}

func (r *ActorResolver) moderatorRoleID(s *discordgo.Session, guildID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.roleIDs[guildID]; ok {
		return id
	}

	roles, err := GuildRoles(s, guildID)
	if err != nil {
		return ""
	}
	id := RoleIDByName(roles, r.moderatorRoleName)
	if id != "" {
		r.roleIDs[guildID] = id
	}
	return id
}

// GuildRoles returns the guild's roles from the state cache, falling back to the API
func GuildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if s.State != nil {
		if g, err := s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
			return g.Roles, nil
		}
	}
	return s.GuildRoles(guildID)
}

// RoleIDByName returns the ID of the first role with the given name
func RoleIDByName(roles []*discordgo.Role, name string) string {
	for _, role := range roles {
		if role.Name == name {
			return role.ID
		}
	}
	return ""
}

func isModerator(memberRoles []string, permissions int64, moderatorRoleID string) bool {
	if permissions&discordgo.PermissionManageGuild != 0 || permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return moderatorRoleID != "" && slices.Contains(memberRoles, moderatorRoleID)
}
