package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"wagerbot/config"
	"wagerbot/events"
	"wagerbot/models"
)

// MetricsProvider manages OpenTelemetry metrics for the ledger
type MetricsProvider struct {
	config        *config.Config
	reader        sdkmetric.Reader
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	wagersCreatedCounter     metric.Int64Counter
	wagersFundedCounter      metric.Int64Counter
	wagersResolvedCounter    metric.Int64Counter
	paymentsConfirmedCounter metric.Int64Counter
	rankTransitionsCounter   metric.Int64Counter
	webhookEventsCounter     metric.Int64Counter
	natsPublishedCounter     metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// NewMetricsProviderWithReader creates a provider that collects into reader instead of an exporter
func NewMetricsProviderWithReader(cfg *config.Config, reader sdkmetric.Reader) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
		reader: reader,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := newResource(mp.config)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	reader := mp.reader
	if reader == nil {
		var exporter sdkmetric.Exporter
		switch mp.config.OTelExporterType {
		case "console":
			exporter, err = stdoutmetric.New()
			if err != nil {
				return fmt.Errorf("failed to create console exporter: %w", err)
			}
			log.Info("Using console metric exporter")

		case "otlp":
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			exporter, err = otlpmetricgrpc.New(ctx,
				otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
				otlpmetricgrpc.WithInsecure(),
			)
			if err != nil {
				return fmt.Errorf("failed to create OTLP exporter: %w", err)
			}
			log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

		case "none":
			log.Info("Metrics export disabled (exporter_type='none')")
			mp.initialized = true
			return nil

		default:
			return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
		}

		reader = sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
		)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("wagerbot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.wagersCreatedCounter, err = mp.meter.Int64Counter(
		WagersCreatedTotal,
		metric.WithDescription("Total number of wagers created"),
		metric.WithUnit("{wager}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers created counter: %w", err)
	}

	mp.wagersFundedCounter, err = mp.meter.Int64Counter(
		WagersFundedTotal,
		metric.WithDescription("Total number of wagers that became funded"),
		metric.WithUnit("{wager}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers funded counter: %w", err)
	}

	mp.wagersResolvedCounter, err = mp.meter.Int64Counter(
		WagersResolvedTotal,
		metric.WithDescription("Total number of wagers resolved"),
		metric.WithUnit("{wager}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers resolved counter: %w", err)
	}

	mp.paymentsConfirmedCounter, err = mp.meter.Int64Counter(
		PaymentsConfirmedTotal,
		metric.WithDescription("Total number of payment legs confirmed"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create payments confirmed counter: %w", err)
	}

	mp.rankTransitionsCounter, err = mp.meter.Int64Counter(
		RankTransitionsTotal,
		metric.WithDescription("Total number of rank transitions by result"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rank transitions counter: %w", err)
	}

	mp.webhookEventsCounter, err = mp.meter.Int64Counter(
		WebhookEventsTotal,
		metric.WithDescription("Total number of payment webhook requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook events counter: %w", err)
	}

	mp.natsPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of events mirrored to NATS"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS published counter: %w", err)
	}

	return nil
}

// newResource describes this service on top of the SDK defaults.
// The service attributes carry no schema URL so they merge with whatever schema the SDK default uses.
func newResource(cfg *config.Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.OTelServiceName),
			attribute.String("environment", cfg.Environment),
		),
	)
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RegisterEventMetrics counts committed ledger events
func (mp *MetricsProvider) RegisterEventMetrics(bus *events.Bus) {
	bus.SubscribeAll(mp.handleEvent)
}

func (mp *MetricsProvider) handleEvent(ctx context.Context, event events.Event) {
	if !mp.isEnabled() {
		return
	}

	switch e := event.(type) {
	case events.WagerCreatedEvent:
		mp.wagersCreatedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelType, wagerType(e.Supervised)),
		))
	case events.WagerFundedEvent:
		mp.wagersFundedCounter.Add(ctx, 1)
	case events.WagerResolvedEvent:
		mp.wagersResolvedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelType, wagerType(e.Supervised)),
		))
	case events.PaymentConfirmedEvent:
		mp.paymentsConfirmedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelSource, e.Source),
		))
	case events.RankUpdatedEvent:
		mp.rankTransitionsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelResult, RankResultAccepted),
		))
	case events.RankRejectedEvent:
		mp.rankTransitionsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(LabelResult, RankResultRejected),
		))
	}
}

// RecordWebhookEvent records a payment webhook request outcome
func (mp *MetricsProvider) RecordWebhookEvent(ctx context.Context, outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.webhookEventsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(LabelStatus, outcome),
	))
}

// RecordNATSMessagePublished records an event mirrored to NATS
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(LabelEventType, eventType),
	))
}

// isEnabled checks if metrics are enabled and instruments exist
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

func wagerType(supervised bool) string {
	w := models.Wager{Supervised: supervised}
	return w.TypeLabel()
}
