package observability

// Metric name prefixes
const (
	MetricPrefix = "wagerbot"
)

// Metric names
const (
	// Wager metrics
	WagersCreatedTotal  = MetricPrefix + ".wagers.created_total"
	WagersFundedTotal   = MetricPrefix + ".wagers.funded_total"
	WagersResolvedTotal = MetricPrefix + ".wagers.resolved_total"

	// Payment metrics
	PaymentsConfirmedTotal = MetricPrefix + ".payments.confirmed_total"

	// Rank metrics
	RankTransitionsTotal = MetricPrefix + ".ranks.transitions_total"

	// Webhook metrics
	WebhookEventsTotal = MetricPrefix + ".webhook.events_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelSource    = "source"
	LabelResult    = "result"
	LabelStatus    = "status"
	LabelEventType = "event_type"
)

// Rank transition results
const (
	RankResultAccepted = "accepted"
	RankResultRejected = "rejected"
)
