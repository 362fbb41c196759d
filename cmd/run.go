package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"wagerbot/application"
	"wagerbot/bot"
	"wagerbot/config"
	"wagerbot/database"
	"wagerbot/events"
	"wagerbot/infrastructure"
	"wagerbot/infrastructure/observability"
	"wagerbot/repository"
	"wagerbot/service"
	"wagerbot/webhook"
)

// ConfigureLogging applies LOG_LEVEL and switches to JSON output in production
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.Info("Starting wagerbot...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Info("Initializing services...")
	idGenerator := service.NewWagerIDGenerator(cfg.WagerIDPrefix, cfg.WagerIDLength)
	wagerService := service.NewWagerService(uowFactory, idGenerator, cfg.CommissionRate)
	paymentService := service.NewPaymentService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory, cfg.CommissionRate)
	statsService := service.NewStatsService(uowFactory)

	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	roleStore := bot.NewRoleStore(session, cfg.GuildID)
	rankService := service.NewRankService(uowFactory, roleStore)
	log.Info("Services initialized successfully")

	// Route committed events to Discord
	notifier := bot.NewNotifier(session)
	dispatcher := application.NewNotificationDispatcher(notifier, application.NotificationChannels{
		LogChannelID:        cfg.LogChannelID,
		ModResultsChannelID: cfg.ModResultsChannelID,
		ConfirmChannelID:    cfg.ConfirmChannelID,
	})
	dispatcher.Register(eventBus)

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	} else {
		metrics.RegisterEventMetrics(eventBus)
	}

	// Mirror events to NATS when configured
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := natsClient.EnsureStream(infrastructure.EventStreamName, infrastructure.AllEventSubjects()); err != nil {
			natsClient.Close()
			return fmt.Errorf("failed to ensure NATS stream: %w", err)
		}
		infrastructure.NewNATSEventForwarder(natsClient, metrics).Register(eventBus)
		log.Info("Event mirroring to NATS enabled")
	}

	// Start payment webhook
	webhookServer := webhook.NewServer(cfg.WebhookAddr, application.NewPaymentEventHandler(paymentService), metrics).
		WithSecret(cfg.WebhookSecret)
	if cfg.WebhookSecret == "" {
		log.Warn("WEBHOOK_SECRET is not set, payment webhook accepts unauthenticated requests")
	}
	webhookErr := make(chan error, 1)
	go func() {
		webhookErr <- webhookServer.Start()
	}()

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:                cfg.DiscordToken,
		GuildID:              cfg.GuildID,
		ModeratorRoleName:    cfg.ModeratorRoleName,
		RankLogChannel:       cfg.RankLogChannel,
		LeaderboardChannelID: cfg.LeaderboardChannelID,
		ReminderInterval:     cfg.ReminderInterval,
	}
	discordBot, err := bot.New(botConfig, session, bot.Services{
		Wagers:     wagerService,
		Payments:   paymentService,
		Settlement: settlementService,
		Stats:      statsService,
		Ranks:      rankService,
	}, notifier)
	if err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = webhookServer.Shutdown(shutdownCtx)
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation or a webhook failure
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-webhookErr:
	}

	// Cleanup resources
	log.Info("Shutting down bot...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := webhookServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down payment webhook")
	}

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	// Let in-flight event handlers finish before closing their sinks
	eventBus.Wait()

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return runErr
}
