package common

import (
	"errors"

	"qbank/models"
	"qbank/service"
)

// GenericFailure is shown for infrastructure errors
const GenericFailure = "Something went wrong. Please try again later."

// UserMessage maps ledger errors to the text shown in Discord.
// The second result is false for errors that are not the user's fault and should be logged.
func UserMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		return "❌ Insufficient funds for this operation.", true
	case errors.Is(err, service.ErrAccountNotFound):
		return "❌ No account found. Use /createaccount first.", true
	case errors.Is(err, service.ErrDuplicateAccount):
		return "❌ An account already exists for that player or Discord user.", true
	case errors.Is(err, service.ErrInvalidPlayer):
		return "❌ That is not a valid Minecraft player.", true
	case errors.Is(err, service.ErrSelfTransfer):
		return "❌ You cannot transfer money to the same account.", true
	case errors.Is(err, service.ErrNotPermitted):
		return "❌ Only the bank manager can use this command.", true
	case errors.Is(err, models.ErrInvalidAmount):
		return "❌ Invalid amount. See /currencyhelp for the format.", true
	}
	return "❌ " + GenericFailure, false
}
