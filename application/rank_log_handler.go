package application

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"wagerbot/models"
	"wagerbot/service"
)

// RankLogMessage is a message posted in the rank-logs channel
type RankLogMessage struct {
	MessageID string
	ChannelID string
	AuthorID  int64
	AuthorBot bool
	Content   string
}

// RankLogReply is the payload of rank_updated and rank_rejected notifications
type RankLogReply struct {
	Claim      models.RankClaim
	Transition *models.RankTransition
	Reason     string
}

// RankLogHandler applies rank transitions announced in the rank-logs channel
type RankLogHandler struct {
	rankService service.RankService
	notifier    Notifier
}

// NewRankLogHandler creates a new RankLogHandler
func NewRankLogHandler(rankService service.RankService, notifier Notifier) *RankLogHandler {
	return &RankLogHandler{
		rankService: rankService,
		notifier:    notifier,
	}
}

// HandleMessage parses a rank-log message and applies the transition it describes.
// Messages that are not rank log entries are ignored.
func (h *RankLogHandler) HandleMessage(ctx context.Context, msg RankLogMessage) error {
	if msg.AuthorBot {
		return nil
	}

	claim, ok := parseRankLog(msg.Content)
	if !ok {
		log.WithField("message_id", msg.MessageID).Debug("Message is not a rank log entry")
		return nil
	}

	log.WithFields(log.Fields{
		"message_id": msg.MessageID,
		"user_id":    claim.UserID,
		"old":        string(claim.OldRank) + " " + string(claim.OldTier),
		"new":        string(claim.NewRank) + " " + string(claim.NewTier),
	}).Info("Processing rank log entry")

	target := Target{ChannelID: msg.ChannelID}

	transition, err := h.rankService.ApplyTransition(ctx, claim)
	if err != nil {
		var ledgerErr *service.LedgerError
		if errors.Is(err, service.ErrInvalidState) && errors.As(err, &ledgerErr) {
			h.reply(ctx, target, NotificationRankRejected, RankLogReply{Claim: claim, Reason: ledgerErr.Message})
			return nil
		}
		return err
	}

	h.reply(ctx, target, NotificationRankUpdated, RankLogReply{Claim: claim, Transition: transition})
	return nil
}

func (h *RankLogHandler) reply(ctx context.Context, target Target, kind NotificationKind, payload RankLogReply) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Notify(ctx, target, kind, payload); err != nil {
		log.WithFields(log.Fields{
			"kind":       kind,
			"channel_id": target.ChannelID,
		}).Errorf("Failed to reply to rank log entry: %v", err)
	}
}
