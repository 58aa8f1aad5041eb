package requests

import (
	"qbank/service"

	"github.com/bwmarrin/discordgo"
)

// Feature forwards deposit and withdrawal requests to the bank manager
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

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "requestdeposit":
		f.handleRequest(s, i, "DEPOSIT")
	case "requestwithdrawal":
		f.handleRequest(s, i, "WITHDRAWAL")
	case "currencyhelp":
		f.handleCurrencyHelp(s, i)
	}
}
