package events

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeWagerCreated     EventType = "wager_created"
	EventTypePaymentConfirmed EventType = "payment_confirmed"
	EventTypeWagerFunded      EventType = "wager_funded"
	EventTypeWagerResolved    EventType = "wager_resolved"
	EventTypeDisputeFlagged   EventType = "dispute_flagged"
	EventTypeRankUpdated      EventType = "rank_updated"
	EventTypeRankRejected     EventType = "rank_rejected"
)

// AllEventTypes lists every event type published by the ledger
var AllEventTypes = []EventType{
	EventTypeWagerCreated,
	EventTypePaymentConfirmed,
	EventTypeWagerFunded,
	EventTypeWagerResolved,
	EventTypeDisputeFlagged,
	EventTypeRankUpdated,
	EventTypeRankRejected,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// WagerCreatedEvent is published once a wager and both payment legs are stored
type WagerCreatedEvent struct {
	WagerID     string           `json:"wager_id"`
	HostID      int64            `json:"host_id"`
	Player1ID   int64            `json:"player1_id"`
	Player2ID   int64            `json:"player2_id"`
	Stake       decimal.Decimal  `json:"stake"`
	Supervised  bool             `json:"supervised"`
	VODRequired bool             `json:"vod_required"`
	ModeratorID *int64           `json:"moderator_id,omitempty"`
	PaymentLink string           `json:"payment_link,omitempty"`
	Commission  *decimal.Decimal `json:"commission,omitempty"`
}

func (e WagerCreatedEvent) Type() EventType {
	return EventTypeWagerCreated
}

// PaymentConfirmedEvent is published when a payment leg changes from unpaid to paid
type PaymentConfirmedEvent struct {
	WagerID   string `json:"wager_id"`
	UserID    int64  `json:"user_id"`
	ActorID   int64  `json:"actor_id"`
	Source    string `json:"source"`
	PaidCount int    `json:"paid_count"`
}

func (e PaymentConfirmedEvent) Type() EventType {
	return EventTypePaymentConfirmed
}

// WagerFundedEvent is published exactly once per wager, by the confirmation that paid the last leg
type WagerFundedEvent struct {
	WagerID     string          `json:"wager_id"`
	Player1ID   int64           `json:"player1_id"`
	Player2ID   int64           `json:"player2_id"`
	Stake       decimal.Decimal `json:"stake"`
	Supervised  bool            `json:"supervised"`
	ModeratorID *int64          `json:"moderator_id,omitempty"`
}

func (e WagerFundedEvent) Type() EventType {
	return EventTypeWagerFunded
}

// WagerResolvedEvent represents a wager that was settled
type WagerResolvedEvent struct {
	WagerID    string          `json:"wager_id"`
	WinnerID   int64           `json:"winner_id"`
	LoserID    int64           `json:"loser_id"`
	Score      string          `json:"score"`
	Supervised bool            `json:"supervised"`
	Stake      decimal.Decimal `json:"stake"`
	Pot        decimal.Decimal `json:"pot"`
	Commission decimal.Decimal `json:"commission"`
	Payout     decimal.Decimal `json:"payout"`
	ResolvedBy int64           `json:"resolved_by"`
}

func (e WagerResolvedEvent) Type() EventType {
	return EventTypeWagerResolved
}

// DisputeFlaggedEvent is published when a participant or moderator disputes a wager
type DisputeFlaggedEvent struct {
	DisputeID int64  `json:"dispute_id"`
	WagerID   string `json:"wager_id"`
	RaisedBy  int64  `json:"raised_by"`
	Reason    string `json:"reason"`
}

func (e DisputeFlaggedEvent) Type() EventType {
	return EventTypeDisputeFlagged
}

// RankUpdatedEvent is published after an accepted rank transition is stored
type RankUpdatedEvent struct {
	UserID       int64    `json:"user_id"`
	OldRank      string   `json:"old_rank"`
	OldTier      string   `json:"old_tier"`
	NewRank      string   `json:"new_rank"`
	NewTier      string   `json:"new_tier"`
	RolesRemoved []string `json:"roles_removed"`
	RolesAdded   []string `json:"roles_added"`
}

func (e RankUpdatedEvent) Type() EventType {
	return EventTypeRankUpdated
}

// RankRejectedEvent is published when a claimed current rank does not match the stored one
type RankRejectedEvent struct {
	UserID      int64  `json:"user_id"`
	ClaimedRank string `json:"claimed_rank"`
	ClaimedTier string `json:"claimed_tier"`
	StoredRank  string `json:"stored_rank"`
	StoredTier  string `json:"stored_tier"`
}

func (e RankRejectedEvent) Type() EventType {
	return EventTypeRankRejected
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// SubscribeAll adds a handler for every ledger event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines and a panicking handler does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started by Emit has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the events queued so far
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// Flush emits pending events to the main bus; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	// Handlers outlive the request, so they get a context that is not cancelled with it
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
