package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wagerbot/bot/features/stats"
	"wagerbot/bot/features/wagers"
)

func TestCommandDefinitions_AreRoutedToAFeature(t *testing.T) {
	w := wagers.NewFeature(nil, nil, nil, nil)
	s := stats.NewFeature(nil, nil, "")

	seen := make(map[string]bool)
	for _, cmd := range commandDefinitions() {
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true
		assert.True(t, w.Handles(cmd.Name) || s.Handles(cmd.Name), "command %s has no handler", cmd.Name)
	}
	assert.Len(t, seen, 9)
}

func TestCommandDefinitions_ModeratorCommandsAreRestricted(t *testing.T) {
	for _, cmd := range commandDefinitions() {
		switch cmd.Name {
		case wagers.CommandWagerMod, wagers.CommandResolveMod:
			if assert.NotNil(t, cmd.DefaultMemberPermissions, cmd.Name) {
				assert.Equal(t, moderatorPermission, *cmd.DefaultMemberPermissions)
			}
		default:
			assert.Nil(t, cmd.DefaultMemberPermissions, cmd.Name)
		}
	}
}
