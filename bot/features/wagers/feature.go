package wagers

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"wagerbot/bot/common"
	"wagerbot/service"
)

// Command names handled by this feature
const (
	CommandWager          = "wager"
	CommandWagerMod       = "wagermod"
	CommandConfirmWager   = "confirmwager"
	CommandConfirmPayment = "confirmpayment"
	CommandResolve        = "resolve"
	CommandResolveMod     = "resolvemod"
	CommandDispute        = "dispute"
)

// Feature handles wager creation, funding, settlement and disputes
type Feature struct {
	wagerService      service.WagerService
	paymentService    service.PaymentService
	settlementService service.SettlementService
	actors            *common.ActorResolver
}

// NewFeature creates a new wagers feature instance
func NewFeature(
	wagerService service.WagerService,
	paymentService service.PaymentService,
	settlementService service.SettlementService,
	actors *common.ActorResolver,
) *Feature {
	return &Feature{
		wagerService:      wagerService,
		paymentService:    paymentService,
		settlementService: settlementService,
		actors:            actors,
	}
}

// Handles reports whether the feature owns the command
func (f *Feature) Handles(name string) bool {
	switch name {
	case CommandWager, CommandWagerMod, CommandConfirmWager, CommandConfirmPayment,
		CommandResolve, CommandResolveMod, CommandDispute:
		return true
	}
	return false
}

// HandleCommand routes wager slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case CommandWager:
		f.handleWager(s, i)
	case CommandWagerMod:
		f.handleWagerMod(s, i)
	case CommandConfirmWager:
		f.handleConfirmWager(s, i)
	case CommandConfirmPayment:
		f.handleConfirmPayment(s, i)
	case CommandResolve:
		f.handleResolve(s, i, false)
	case CommandResolveMod:
		f.handleResolve(s, i, true)
	case CommandDispute:
		f.handleDispute(s, i)
	default:
		common.RespondWithError(s, i, "Unknown command")
	}
}

// HandleInteraction handles wager button clicks
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if wagerID, ok := strings.CutPrefix(customID, acceptButtonPrefix); ok {
		f.handleAccept(s, i, wagerID)
	}
}
