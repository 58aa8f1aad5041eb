package requests

import (
	"context"
	"fmt"

	"qbank/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleRequest(s *discordgo.Session, i *discordgo.InteractionCreate, kind string) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	discordID, err := common.InvokerID(i)
	if err != nil {
		log.WithError(err).Error("Error reading invoker")
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	amount, err := common.AmountOption(options, "amount")
	if err != nil {
		message, _ := common.UserMessage(err)
		common.RespondWithError(s, i, message)
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

	if f.managerID == 0 {
		common.RespondWithError(s, i, "❌ No bank manager is configured.")
		return
	}

	message := requestMessage(account.PlayerName, kind, amount.String())
	if err := common.SendDirectMessage(s, f.managerID, message); err != nil {
		log.WithFields(log.Fields{
			"manager": f.managerID,
			"kind":    kind,
			"error":   err,
		}).Error("Failed to forward request to manager")
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	log.WithFields(log.Fields{
		"player": account.PlayerName,
		"kind":   kind,
		"amount": amount.String(),
	}).Info("Forwarded request to manager")
	common.RespondWithMessage(s, i, "Your request has been sent to the bank manager.", true)
}

func (f *Feature) handleCurrencyHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	common.RespondWithMessage(s, i, common.CurrencyHelp, true)
}

func requestMessage(playerName, kind, amount string) string {
	return fmt.Sprintf("**%s** requested a **%s** of ```%s```", playerName, kind, amount)
}
