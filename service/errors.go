package service

import (
	"errors"

	"qbank/models"
)

// Domain errors returned by ledger operations. Callers match them with errors.Is.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidPlayer     = errors.New("invalid player")
	ErrSelfTransfer      = errors.New("cannot transfer to the same account")
	ErrNotPermitted      = errors.New("not permitted")
)

// IsDomainError reports whether err is one of the recoverable ledger errors
// rather than an infrastructure failure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrAccountNotFound,
		ErrDuplicateAccount,
		ErrInsufficientFunds,
		ErrInvalidPlayer,
		ErrSelfTransfer,
		ErrNotPermitted,
		models.ErrInvalidAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
