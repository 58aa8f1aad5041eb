package transfer

import (
	"context"
	"fmt"

	"qbank/bot/common"
	"qbank/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	senderID, err := common.InvokerID(i)
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

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring response")
		return
	}

	result, err := f.ledger.Pay(ctx, senderID, common.StringOption(options, "player"), amount)
	if err != nil {
		common.FollowUpWithError(s, i, "pay", err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("%s has been transferred from your account to **%s**'s account",
		common.FormatAmount(amount), result.Recipient.PlayerName))
}

func (f *Feature) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	if _, err := common.RequireManager(i, f.managerID); err != nil {
		message, _ := common.UserMessage(err)
		common.RespondWithError(s, i, message)
		return
	}

	amount, err := common.AmountOption(options, "amount")
	if err != nil {
		message, _ := common.UserMessage(err)
		common.RespondWithError(s, i, message)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring response")
		return
	}

	result, err := f.ledger.Transfer(ctx, common.StringOption(options, "from"), common.StringOption(options, "to"), amount)
	if err != nil {
		common.FollowUpWithError(s, i, "transfer", err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("%s has been transferred from **%s**'s account to **%s**'s account",
		common.FormatAmount(amount), result.Sender.PlayerName, result.Recipient.PlayerName))
}

func (f *Feature) notifyRecipient(transfer events.TransferCompletedEvent) error {
	if transfer.RecipientDiscordID == 0 {
		return nil
	}
	message := fmt.Sprintf("**%s** has paid you %s!", transfer.SenderName, common.FormatAmount(transfer.Amount))
	return common.SendDirectMessage(f.session, transfer.RecipientDiscordID, message)
}
