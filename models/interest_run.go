package models

import (
	"time"
)

// InterestRun represents a daily balance interest accrual run
type InterestRun struct {
	ID               int64                  `db:"id"`
	RunDate          time.Time              `db:"run_date"`
	TotalInterest    Amount                 `db:"-"`
	AccountsAffected int                    `db:"accounts_affected"`
	ExecutionSummary map[string]interface{} `db:"execution_summary"`
	CreatedAt        time.Time              `db:"created_at"`
}
