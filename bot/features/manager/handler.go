package manager

import (
	"context"
	"fmt"

	"qbank/bot/common"
	"qbank/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// playerAmountCommand parses the player and amount options and defers the response.
// ok is false when a response has already been sent.
func playerAmountCommand(s *discordgo.Session, i *discordgo.InteractionCreate) (player string, amount models.Amount, ok bool) {
	options := common.OptionMap(i.ApplicationCommandData().Options)

	amount, err := common.AmountOption(options, "amount")
	if err != nil {
		message, _ := common.UserMessage(err)
		common.RespondWithError(s, i, message)
		return "", models.Amount{}, false
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Error deferring response")
		return "", models.Amount{}, false
	}

	return common.StringOption(options, "player"), amount, true
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	player, amount, ok := playerAmountCommand(s, i)
	if !ok {
		return
	}

	result, err := f.ledger.Deposit(context.Background(), player, amount)
	if err != nil {
		common.FollowUpWithError(s, i, "deposit", err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Deposited %s into the account belonging to **%s**. New balance: %s",
		common.FormatAmount(amount), result.Account.PlayerName, common.FormatAmount(result.NewBalance)))
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	player, amount, ok := playerAmountCommand(s, i)
	if !ok {
		return
	}

	result, err := f.ledger.Withdraw(context.Background(), player, amount)
	if err != nil {
		common.FollowUpWithError(s, i, "withdraw", err)
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Withdrew %s from the account belonging to **%s**. New balance: %s",
		common.FormatAmount(amount), result.Account.PlayerName, common.FormatAmount(result.NewBalance)))
}

func (f *Feature) handleLoan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	player, amount, ok := playerAmountCommand(s, i)
	if !ok {
		return
	}

	loan, err := f.ledger.Loan(context.Background(), player, amount)
	if err != nil {
		common.FollowUpWithError(s, i, "loan", err)
		return
	}
	if loan == nil {
		common.FollowUpWithMessage(s, i, "Nothing to lend: the amount is empty.")
		return
	}

	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Lent %s to **%s** (loan #%d). Interest: %s, to repay: %s",
		common.FormatAmount(loan.Principal), loan.LoaneeName, loan.ID,
		common.FormatAmount(loan.Interest), common.FormatAmount(loan.Outstanding)))
}

func (f *Feature) handleLoanable(s *discordgo.Session, i *discordgo.InteractionCreate) {
	available, err := f.ledger.LoanableAmount(context.Background())
	if err != nil {
		log.WithError(err).Error("Error computing loanable amount")
		common.RespondWithError(s, i, common.GenericFailure)
		return
	}

	common.RespondWithMessage(s, i, "Available to lend:\n"+common.FormatBalance(available), true)
}
