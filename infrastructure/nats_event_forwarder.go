package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wagerbot/events"
)

const (
	// EventStreamName is the JetStream stream holding mirrored ledger events
	EventStreamName = "wagerbot_events"

	eventSubjectPrefix = "wagerbot.events."
	sourceService      = "wagerbot"
)

// MessagePublisher publishes raw messages to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// PublishRecorder counts mirrored events
type PublishRecorder interface {
	RecordNATSMessagePublished(eventType string)
}

// EventEnvelope wraps a ledger event for the message bus
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// SubjectForEvent returns the subject an event type is published to
func SubjectForEvent(eventType events.EventType) string {
	return eventSubjectPrefix + string(eventType)
}

// AllEventSubjects lists every subject the forwarder publishes to
func AllEventSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, t := range events.AllEventTypes {
		subjects = append(subjects, SubjectForEvent(t))
	}
	return subjects
}

// NATSEventForwarder mirrors committed ledger events to NATS.
// Forwarding failures are logged and never affect the ledger.
type NATSEventForwarder struct {
	publisher MessagePublisher
	recorder  PublishRecorder
	now       func() time.Time
}

// NewNATSEventForwarder creates a forwarder. recorder may be nil.
func NewNATSEventForwarder(publisher MessagePublisher, recorder PublishRecorder) *NATSEventForwarder {
	return &NATSEventForwarder{
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Register subscribes the forwarder to every ledger event
func (f *NATSEventForwarder) Register(bus *events.Bus) {
	bus.SubscribeAll(f.forward)
}

// NewEnvelope serializes an event into its envelope
func (f *NATSEventForwarder) NewEnvelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

func (f *NATSEventForwarder) forward(ctx context.Context, event events.Event) {
	data, err := f.NewEnvelope(event)
	if err != nil {
		log.WithField("eventType", event.Type()).Errorf("Failed to build event envelope: %v", err)
		return
	}

	subject := SubjectForEvent(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"subject":   subject,
			"error":     err,
		}).Error("Failed to forward event to NATS")
		return
	}

	if f.recorder != nil {
		f.recorder.RecordNATSMessagePublished(string(event.Type()))
	}
}
