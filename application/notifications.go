package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"wagerbot/events"
)

// NotificationKind names the message template a Notifier renders
type NotificationKind string

const (
	NotificationWagerInvite             NotificationKind = "wager_invite"
	NotificationWagerCreated            NotificationKind = "wager_created"
	NotificationWagerFunded             NotificationKind = "wager_funded"
	NotificationWagerResolved           NotificationKind = "wager_resolved"
	NotificationWagerResolvedSupervised NotificationKind = "wager_resolved_supervised"
	NotificationDisputeFlagged          NotificationKind = "dispute_flagged"
	NotificationRankUpdated             NotificationKind = "rank_updated"
	NotificationRankRejected            NotificationKind = "rank_rejected"
	NotificationLeaderboardPosted       NotificationKind = "leaderboard_posted"
	NotificationPaymentReminder         NotificationKind = "payment_reminder"
)

// Target is where a notification is delivered: a channel, or a user's direct messages when ChannelID is empty
type Target struct {
	ChannelID string
	UserID    int64
}

// Notifier delivers user-facing messages. Delivery failures never affect ledger state.
type Notifier interface {
	Notify(ctx context.Context, target Target, kind NotificationKind, payload any) error
}

// NotificationChannels holds the channel IDs notifications are posted to
type NotificationChannels struct {
	LogChannelID        string
	ModResultsChannelID string
	ConfirmChannelID    string
}

// NotificationDispatcher turns committed ledger events into notifications
type NotificationDispatcher struct {
	notifier Notifier
	channels NotificationChannels
}

// NewNotificationDispatcher creates a dispatcher posting through notifier
func NewNotificationDispatcher(notifier Notifier, channels NotificationChannels) *NotificationDispatcher {
	return &NotificationDispatcher{
		notifier: notifier,
		channels: channels,
	}
}

// Register subscribes the dispatcher to the wager lifecycle events
func (d *NotificationDispatcher) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeWagerCreated, d.handle)
	bus.Subscribe(events.EventTypeWagerFunded, d.handle)
	bus.Subscribe(events.EventTypeWagerResolved, d.handle)
	bus.Subscribe(events.EventTypeDisputeFlagged, d.handle)
}

func (d *NotificationDispatcher) handle(ctx context.Context, event events.Event) {
	switch e := event.(type) {
	case events.WagerCreatedEvent:
		if e.Supervised {
			d.send(ctx, Target{ChannelID: d.channels.ConfirmChannelID}, NotificationWagerCreated, e)
			return
		}
		// The opponent accepts from the invite; the host only sees the log entry
		d.send(ctx, Target{UserID: e.Player2ID}, NotificationWagerInvite, e)
		d.send(ctx, Target{ChannelID: d.channels.LogChannelID}, NotificationWagerCreated, e)

	case events.WagerFundedEvent:
		d.send(ctx, Target{ChannelID: d.channels.ConfirmChannelID}, NotificationWagerFunded, e)

	case events.WagerResolvedEvent:
		if e.Supervised {
			d.send(ctx, Target{ChannelID: d.channels.ModResultsChannelID}, NotificationWagerResolvedSupervised, e)
			return
		}
		d.send(ctx, Target{ChannelID: d.channels.LogChannelID}, NotificationWagerResolved, e)

	case events.DisputeFlaggedEvent:
		d.send(ctx, Target{ChannelID: d.channels.ModResultsChannelID}, NotificationDisputeFlagged, e)

	default:
		log.WithField("eventType", event.Type()).Warn("No notification mapped for event")
	}
}

func (d *NotificationDispatcher) send(ctx context.Context, target Target, kind NotificationKind, payload any) {
	if target.ChannelID == "" && target.UserID == 0 {
		log.WithField("kind", kind).Debug("Notification target not configured, skipping")
		return
	}

	if err := d.notifier.Notify(ctx, target, kind, payload); err != nil {
		log.WithFields(log.Fields{
			"kind":       kind,
			"channel_id": target.ChannelID,
			"user_id":    target.UserID,
			"error":      err,
		}).Error("Failed to deliver notification")
	}
}
