package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"wagerbot/database"
	"wagerbot/models"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken      string `env:"DISCORD_TOKEN"`
	GuildID           string `env:"GUILD_ID"`
	ModeratorRoleName string `env:"MODERATOR_ROLE_NAME" envDefault:"Moderator"`

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Ledger configuration
	CommissionRate decimal.Decimal `env:"COMMISSION_RATE" envDefault:"0.05"`
	WagerIDPrefix  string          `env:"WAGER_ID_PREFIX" envDefault:"WGR-"`
	WagerIDLength  int             `env:"WAGER_ID_LENGTH" envDefault:"6"`

	// Channels
	LogChannelID         string `env:"LOG_CHANNEL_ID"`
	ModResultsChannelID  string `env:"MOD_RESULTS_CHANNEL_ID"`
	ConfirmChannelID     string `env:"CONFIRM_CHANNEL_ID"`
	LeaderboardChannelID string `env:"LEADERBOARD_CHANNEL_ID"`
	RankLogChannel       string `env:"RANK_LOG_CHANNEL" envDefault:"rank-logs"`

	// Payment webhook
	WebhookAddr   string `env:"WEBHOOK_ADDR" envDefault:":8080"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// Reminder worker
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"30m"`

	// NATS configuration, empty disables event mirroring
	NATSServers string `env:"NATS_SERVERS"`

	// Observability
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"`
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"wagerbot"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"30000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the bot runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load parses configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and ledger parameters
func (c *Config) Validate() error {
	if c.CommissionRate.IsNegative() || c.CommissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %s", c.CommissionRate)
	}
	if c.WagerIDLength < 4 {
		return fmt.Errorf("WAGER_ID_LENGTH must be at least 4, got %d", c.WagerIDLength)
	}
	if c.ReminderInterval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL must be positive")
	}

	if c.Environment == "test" {
		return nil
	}
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		DiscordToken:      "test-token",
		ModeratorRoleName: "Moderator",
		CommissionRate:    models.DefaultCommissionRate,
		WagerIDPrefix:     "WGR-",
		WagerIDLength:     6,
		RankLogChannel:    "rank-logs",
		WebhookAddr:       ":8080",
		ReminderInterval:  30 * time.Minute,
		OTelExporterType:  "none",
		OTelServiceName:   "wagerbot-test",
		LogLevel:          "debug",
		Environment:       "test",
	}
}
