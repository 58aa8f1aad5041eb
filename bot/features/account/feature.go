package account

import (
	"qbank/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles account registration and self-service lookups
type Feature struct {
	ledger    service.LedgerService
	managerID int64
}

func New(ledger service.LedgerService, managerID int64) *Feature {
	return &Feature{
		ledger:    ledger,
		managerID: managerID,
	}
}

// HandleCommand routes account commands to their handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "createaccount":
		f.handleCreateAccount(s, i)
	case "createaccountwithbalance":
		f.handleCreateAccountWithBalance(s, i)
	case "balance":
		f.handleBalance(s, i)
	case "transactions":
		f.handleTransactions(s, i)
	case "interest":
		f.handleInterest(s, i)
	}
}
