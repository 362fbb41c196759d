package common

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wagerbot/service"
)

// LedgerErrorMessage turns a ledger error into text for the user
func LedgerErrorMessage(err error) string {
	var ledgerErr *service.LedgerError
	if !errors.As(err, &ledgerErr) || ledgerErr.Kind == service.KindStoreUnavailable {
		return "Something went wrong. Please try again later."
	}

	switch ledgerErr.Kind {
	case service.KindUnauthorized:
		return "You are not allowed to do that. " + ledgerErr.Message
	case service.KindInvalidWinner:
		return "The winner must be one of the two players."
	default:
		return ledgerErr.Message
	}
}

// HandleLedgerError logs a failed command and sends the user a follow-up explaining it
func HandleLedgerError(s *discordgo.Session, i *discordgo.InteractionCreate, command string, err error) {
	fields := log.Fields{
		"command": command,
		"kind":    service.KindOf(err),
		"error":   err.Error(),
	}
	if u := InteractionUser(i); u != nil {
		fields["user_id"] = u.ID
	}

	if service.IsRetryable(err) {
		log.WithFields(fields).Error("Ledger operation failed")
	} else {
		log.WithFields(fields).Info("Ledger operation rejected")
	}

	FollowUpWithError(s, i, LedgerErrorMessage(err))
}

// InteractionUser returns the invoking user for guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
