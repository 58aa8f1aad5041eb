package manager

import (
	"qbank/bot/common"
	"qbank/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the bank manager's cash desk commands
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

// HandleCommand checks permission once and routes the command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if _, err := common.RequireManager(i, f.managerID); err != nil {
		message, _ := common.UserMessage(err)
		common.RespondWithError(s, i, message)
		return
	}

	switch i.ApplicationCommandData().Name {
	case "deposit":
		f.handleDeposit(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	case "loan":
		f.handleLoan(s, i)
	case "loanable":
		f.handleLoanable(s, i)
	}
}
