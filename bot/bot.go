package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"wagerbot/application"
	"wagerbot/bot/common"
	"wagerbot/bot/features/stats"
	"wagerbot/bot/features/wagers"
	"wagerbot/service"
)

// Config holds bot configuration
type Config struct {
	Token                string
	GuildID              string
	ModeratorRoleName    string
	RankLogChannel       string
	LeaderboardChannelID string
	ReminderInterval     time.Duration
}

// Services are the ledger operations the bot exposes as commands
type Services struct {
	Wagers     service.WagerService
	Payments   service.PaymentService
	Settlement service.SettlementService
	Stats      service.StatsService
	Ranks      service.RankService
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config         Config
	session        *discordgo.Session
	wagerService   service.WagerService
	notifier       application.Notifier
	rankLogHandler *application.RankLogHandler

	// Feature modules
	wagers *wagers.Feature
	stats  *stats.Feature

	// Worker cleanup functions
	stopReminderWorker func()
}

// NewSession creates the Discord session shared by the bot, the notifier and the role store
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	return dg, nil
}

// New wires the features to the session, opens the connection and registers commands
func New(config Config, session *discordgo.Session, services Services, notifier application.Notifier) (*Bot, error) {
	actors := common.NewActorResolver(config.ModeratorRoleName)

	bot := &Bot{
		config:         config,
		session:        session,
		wagerService:   services.Wagers,
		notifier:       notifier,
		rankLogHandler: application.NewRankLogHandler(services.Ranks, notifier),
		wagers:         wagers.NewFeature(services.Wagers, services.Payments, services.Settlement, actors),
		stats:          stats.NewFeature(services.Stats, notifier, config.LeaderboardChannelID),
	}

	session.AddHandler(bot.handleCommands)
	session.AddHandler(bot.handleInteractions)
	session.AddHandler(bot.handleMessageCreate)

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		session.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.ReminderInterval > 0 {
		bot.stopReminderWorker = bot.StartReminderWorker(context.Background(), config.ReminderInterval)
	}
	log.Info("Background workers started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopReminderWorker != nil {
		b.stopReminderWorker()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

// handleCommands routes slash commands to the feature that owns them
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	switch {
	case b.wagers.Handles(name):
		b.wagers.HandleCommand(s, i)
	case b.stats.Handles(name):
		b.stats.HandleCommand(s, i)
	default:
		log.WithField("command", name).Warn("Unknown command")
	}
}

// handleInteractions routes component interactions to the feature that owns them
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "wager_"):
		b.wagers.HandleInteraction(s, i)
	}
}
