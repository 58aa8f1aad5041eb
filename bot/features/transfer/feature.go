package transfer

import (
	"context"

	"qbank/events"
	"qbank/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type Feature struct {
	session   *discordgo.Session
	ledger    service.LedgerService
	managerID int64
}

func New(session *discordgo.Session, ledger service.LedgerService, managerID int64) *Feature {
	return &Feature{
		session:   session,
		ledger:    ledger,
		managerID: managerID,
	}
}

// HandleCommand routes pay and transfer
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "pay":
		f.handlePay(s, i)
	case "transfer":
		f.handleTransfer(s, i)
	}
}

// SubscribeToEvents DMs payment recipients once a transfer has committed
func (f *Feature) SubscribeToEvents(bus *events.Bus) {
	bus.Subscribe(events.EventTypeTransferCompleted, func(ctx context.Context, event events.Event) {
		transfer, ok := event.(events.TransferCompletedEvent)
		if !ok {
			return
		}
		if err := f.notifyRecipient(transfer); err != nil {
			log.WithFields(log.Fields{
				"transactionID": transfer.TransactionID,
				"recipient":     transfer.RecipientDiscordID,
				"error":         err,
			}).Warn("Failed to notify payment recipient")
		}
	})
}
