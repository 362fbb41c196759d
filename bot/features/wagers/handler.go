package wagers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"wagerbot/bot/common"
	"wagerbot/models"
	"wagerbot/service"
)

// handleWager handles /wager: a risk wager between the caller and an opponent
func (f *Feature) handleWager(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	opponent := userOption(s, opts, "opponent")
	amount, ok := opts["amount"]
	if opponent == nil || !ok {
		common.RespondWithError(s, i, "Please specify an opponent and amount")
		return
	}

	opponentID, err := strconv.ParseInt(opponent.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid opponent")
		return
	}

	actor, ok := f.resolveActor(s, i)
	if !ok {
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	wager, err := f.wagerService.CreateWager(context.Background(), service.CreateWagerRequest{
		Actor:       actor,
		OpponentID:  opponentID,
		Stake:       decimal.NewFromFloat(amount.FloatValue()),
		PaymentLink: stringOption(opts, "link"),
	})
	if err != nil {
		common.HandleLedgerError(s, i, CommandWager, err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Invite for wager **%s** sent! Awaiting confirmation.", wager.ID), true)
}

// handleWagerMod handles /wagermod: a supervised wager set up by a moderator
func (f *Feature) handleWagerMod(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	player1 := userOption(s, opts, "player1")
	player2 := userOption(s, opts, "player2")
	amount, ok := opts["amount"]
	if player1 == nil || player2 == nil || !ok {
		common.RespondWithError(s, i, "Please specify both players and an amount")
		return
	}

	p1, err1 := strconv.ParseInt(player1.ID, 10, 64)
	p2, err2 := strconv.ParseInt(player2.ID, 10, 64)
	if err1 != nil || err2 != nil {
		common.RespondWithError(s, i, "Invalid player")
		return
	}

	actor, ok := f.resolveActor(s, i)
	if !ok {
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	wager, err := f.wagerService.CreateWager(context.Background(), service.CreateWagerRequest{
		Actor:       actor,
		Player1ID:   p1,
		Player2ID:   p2,
		Stake:       decimal.NewFromFloat(amount.FloatValue()),
		Supervised:  true,
		VODRequired: strings.EqualFold(stringOption(opts, "vod"), "yes"),
		PaymentLink: stringOption(opts, "paypal_link"),
	})
	if err != nil {
		common.HandleLedgerError(s, i, CommandWagerMod, err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Wager **%s** created and posted.", wager.ID), true)
}

// handleConfirmWager handles /confirmwager: shows funding progress without changing anything
func (f *Feature) handleConfirmWager(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	wagerID := normalizeWagerID(stringOption(opts, "wager_id"))

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	status, err := f.wagerService.GetFundingStatus(context.Background(), wagerID)
	if err != nil {
		common.HandleLedgerError(s, i, CommandConfirmWager, err)
		return
	}

	common.FollowUpWithEmbed(s, i, BuildFundingStatusEmbed(status), true)
}

// handleConfirmPayment handles /confirmpayment: marks a player's leg paid
func (f *Feature) handleConfirmPayment(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	wagerID := normalizeWagerID(stringOption(opts, "wager_id"))
	player := userOption(s, opts, "player")
	if wagerID == "" || player == nil {
		common.RespondWithError(s, i, "Please specify a wager ID and player")
		return
	}

	playerID, err := strconv.ParseInt(player.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid player")
		return
	}

	actor, ok := f.resolveActor(s, i)
	if !ok {
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	confirmation, err := f.paymentService.ConfirmPayment(context.Background(), wagerID, playerID, actor)
	if err != nil {
		common.HandleLedgerError(s, i, CommandConfirmPayment, err)
		return
	}

	common.FollowUpWithSuccess(s, i, confirmationMessage(confirmation), true)
}

// handleAccept handles the Accept button of a risk wager invite
func (f *Feature) handleAccept(s *discordgo.Session, i *discordgo.InteractionCreate, wagerID string) {
	actor, ok := f.resolveActor(s, i)
	if !ok {
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	confirmation, err := f.paymentService.ConfirmPayment(context.Background(), wagerID, actor.ID, actor)
	if err != nil {
		common.HandleLedgerError(s, i, "accept", err)
		return
	}

	if confirmation.Funded {
		common.FollowUpWithSuccess(s, i, fmt.Sprintf("Accepted. Wager **%s** is funded, match on!", wagerID), true)
		return
	}
	common.FollowUpWithSuccess(s, i, "Accepted. Use /confirmwager to check funding.", true)
}

// handleResolve handles /resolve and /resolvemod
func (f *Feature) handleResolve(s *discordgo.Session, i *discordgo.InteractionCreate, supervised bool) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	wagerID := normalizeWagerID(stringOption(opts, "wager_id"))
	winner := userOption(s, opts, "winner")
	if wagerID == "" || winner == nil {
		common.RespondWithError(s, i, "Please specify a wager ID and winner")
		return
	}

	winnerID, err := strconv.ParseInt(winner.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid winner")
		return
	}

	actor, ok := f.resolveActor(s, i)
	if !ok {
		return
	}
	if supervised && !actor.IsModerator {
		common.RespondWithError(s, i, "Only moderators can resolve supervised wagers")
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	ctx := context.Background()
	status, err := f.wagerService.GetFundingStatus(ctx, wagerID)
	if err != nil {
		common.HandleLedgerError(s, i, CommandResolve, err)
		return
	}
	if status.Wager.Supervised != supervised {
		if supervised {
			common.FollowUpWithError(s, i, "Invalid supervised wager ID. Use /resolve for risk wagers.")
		} else {
			common.FollowUpWithError(s, i, "Invalid risk wager ID. Use /resolvemod for supervised wagers.")
		}
		return
	}

	result, err := f.settlementService.Resolve(ctx, wagerID, winnerID, stringOption(opts, "score"), actor)
	if err != nil {
		common.HandleLedgerError(s, i, CommandResolve, err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Wager **%s** resolved. Payout %s to %s.",
		result.Wager.ID, common.FormatMoney(result.Settlement.Payout), common.FormatMention(result.WinnerID)), true)
}

// handleDispute handles /dispute
func (f *Feature) handleDispute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	wagerID := normalizeWagerID(stringOption(opts, "wager_id"))
	if wagerID == "" {
		common.RespondWithError(s, i, "Please specify a wager ID")
		return
	}

	actor, ok := f.resolveActor(s, i)
	if !ok {
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring interaction: %v", err)
		return
	}

	if _, err := f.wagerService.Dispute(context.Background(), wagerID, actor, stringOption(opts, "reason")); err != nil {
		common.HandleLedgerError(s, i, CommandDispute, err)
		return
	}

	common.FollowUpWithSuccess(s, i, "Dispute flagged.", true)
}

func (f *Feature) resolveActor(s *discordgo.Session, i *discordgo.InteractionCreate) (models.Actor, bool) {
	actor, err := f.actors.Resolve(s, i)
	if err != nil {
		log.Errorf("Failed to resolve actor: %v", err)
		common.RespondWithError(s, i, "Could not identify you")
		return models.Actor{}, false
	}
	return actor, true
}

func confirmationMessage(c *models.PaymentConfirmation) string {
	switch {
	case c.Funded:
		return fmt.Sprintf("%s confirmed. Wager **%s** is funded!", common.FormatMention(c.UserID), c.WagerID)
	case !c.Changed:
		return fmt.Sprintf("%s had already paid (%d/2).", common.FormatMention(c.UserID), c.PaidCount)
	default:
		return fmt.Sprintf("%s confirmed (%d/2).", common.FormatMention(c.UserID), c.PaidCount)
	}
}

// normalizeWagerID trims and upper-cases a wager ID typed by a user
func normalizeWagerID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func userOption(s *discordgo.Session, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	if opt, ok := opts[name]; ok {
		return opt.UserValue(s)
	}
	return nil
}
