package models

import (
	"time"
)

// Loan is money lent by the bank to an account
type Loan struct {
	ID          int64     `db:"loan_id"`
	LoaneeID    int64     `db:"loanee_id"`
	LoaneeName  string    `db:"loanee_name"`
	Principal   Amount    `db:"-"`
	Interest    Amount    `db:"-"`
	Outstanding Amount    `db:"-"`
	Paid        bool      `db:"paid"`
	CreatedAt   time.Time `db:"created_at"`
}
