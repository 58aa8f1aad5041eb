package models

import (
	"time"
)

// TransactionType represents the kind of ledger operation that produced a transaction
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeInterest   TransactionType = "interest"
)

// Transaction is an append-only ledger log entry.
// Amount is the delta that was requested, not re-normalized.
type Transaction struct {
	ID                 int64           `db:"transaction_id"`
	Type               TransactionType `db:"transaction_type"`
	SenderAccountID    *int64          `db:"sender_account_id"`
	RecipientAccountID *int64          `db:"recipient_account_id"`
	Amount             Amount          `db:"-"`
	CreatedAt          time.Time       `db:"created_at"`
}

// Involves checks whether the account is the sender or recipient
func (t *Transaction) Involves(accountID int64) bool {
	return (t.SenderAccountID != nil && *t.SenderAccountID == accountID) ||
		(t.RecipientAccountID != nil && *t.RecipientAccountID == accountID)
}

// Direction describes the transaction from the perspective of the given account
func (t *Transaction) Direction(accountID int64) string {
	switch {
	case t.SenderAccountID != nil && *t.SenderAccountID == accountID:
		return "out"
	case t.RecipientAccountID != nil && *t.RecipientAccountID == accountID:
		return "in"
	default:
		return ""
	}
}

// LedgerResult is returned by balance-mutating operations
type LedgerResult struct {
	Account     *Account
	NewBalance  Amount
	Transaction *Transaction
}

// TransferResult is returned by transfers between two accounts
type TransferResult struct {
	Sender              *Account
	Recipient           *Account
	SenderNewBalance    Amount
	RecipientNewBalance Amount
	Transaction         *Transaction
}
