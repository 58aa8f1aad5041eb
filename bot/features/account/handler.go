package account

import (
	"context"
	"fmt"
	"strconv"

	"qbank/bot/common"
	"qbank/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// recentTransactionLimit is how many entries /transactions shows
const recentTransactionLimit = 5

func (f *Feature) handleCreateAccount(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	discordID, err := common.InvokerID(i)
	if err != nil {
		log.WithError(err).Error("Error reading invoker")
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	// Mojang lookups can exceed the interaction deadline
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring response")
		return
	}

	account, err := f.ledger.CreateAccount(ctx, common.StringOption(options, "player"), discordID, models.Amount{})
	if err != nil {
		common.FollowUpWithError(s, i, "createaccount", err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Created a new account for **%s**", account.PlayerName))
}

func (f *Feature) handleCreateAccountWithBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	if _, err := common.RequireManager(i, f.managerID); err != nil {
		message, _ := common.UserMessage(err)
		common.RespondWithError(s, i, message)
		return
	}

	user := options["user"].UserValue(nil)
	discordID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		log.WithError(err).Errorf("Error parsing Discord ID %s", user.ID)
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	balance, err := common.AmountOption(options, "amount")
	if err != nil {
		message, _ := common.UserMessage(err)
		common.RespondWithError(s, i, message)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring response")
		return
	}

	account, err := f.ledger.CreateAccount(ctx, common.StringOption(options, "player"), discordID, balance)
	if err != nil {
		common.FollowUpWithError(s, i, "createaccountwithbalance", err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Created a new account for **%s** with %s",
		account.PlayerName, common.FormatAmount(account.Balance)))
}

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := common.InvokerID(i)
	if err != nil {
		log.WithError(err).Error("Error reading invoker")
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	account, err := f.ledger.GetAccountByDiscordID(ctx, discordID)
	if err != nil {
		message, expected := common.UserMessage(err)
		if !expected {
			log.WithError(err).Errorf("Error getting account for %d", discordID)
		}
		common.RespondWithError(s, i, message)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's balance", account.PlayerName),
		Description: common.FormatBalance(account.Balance),
		Color:       0x4E5D94,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Interest", Value: optInLabel(account.OptedIntoInterest), Inline: true},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.WithError(err).Error("Error responding to balance command")
	}
}

func (f *Feature) handleTransactions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := common.InvokerID(i)
	if err != nil {
		log.WithError(err).Error("Error reading invoker")
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	account, err := f.ledger.GetAccountByDiscordID(ctx, discordID)
	if err != nil {
		message, expected := common.UserMessage(err)
		if !expected {
			log.WithError(err).Errorf("Error getting account for %d", discordID)
		}
		common.RespondWithError(s, i, message)
		return
	}

	txs, err := f.ledger.RecentTransactions(ctx, discordID, recentTransactionLimit)
	if err != nil {
		log.WithError(err).Errorf("Error listing transactions for %d", discordID)
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Recent transactions for %s", account.PlayerName),
		Description: common.FormatTransactionHistory(txs, account.ID),
		Color:       0x4E5D94,
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.WithError(err).Error("Error responding to transactions command")
	}
}

func (f *Feature) handleInterest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	discordID, err := common.InvokerID(i)
	if err != nil {
		log.WithError(err).Error("Error reading invoker")
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	optIn := options["enabled"].BoolValue()
	account, err := f.ledger.SetInterestOptIn(ctx, discordID, optIn)
	if err != nil {
		message, expected := common.UserMessage(err)
		if !expected {
			log.WithError(err).Errorf("Error updating interest opt-in for %d", discordID)
		}
		common.RespondWithError(s, i, message)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Interest is now **%s** for **%s**",
		optInLabel(account.OptedIntoInterest), account.PlayerName), true)
}

func optInLabel(optedIn bool) string {
	if optedIn {
		return "enabled"
	}
	return "disabled"
}
