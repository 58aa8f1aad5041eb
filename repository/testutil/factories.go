package testutil

import (
	"time"

	"qbank/models"

	"github.com/google/uuid"
)

// CreateTestPlayer returns a player with a random UUID
func CreateTestPlayer(name string) models.Player {
	return models.Player{UUID: uuid.New(), Name: name}
}

// CreateTestLoan builds an unpaid loan whose outstanding amount is principal plus interest
func CreateTestLoan(loaneeID int64, loaneeName string, principal, interest, outstanding models.Amount) *models.Loan {
	return &models.Loan{
		LoaneeID:    loaneeID,
		LoaneeName:  loaneeName,
		Principal:   principal,
		Interest:    interest,
		Outstanding: outstanding,
	}
}

// CreateTestInterestRun creates a test interest run
func CreateTestInterestRun(runDate time.Time) *models.InterestRun {
	return CreateTestInterestRunWithDetails(runDate, models.Amount{NetheriteScrap: 3, Diamonds: 2}, 10)
}

// CreateTestInterestRunWithDetails creates a test interest run with specific totals
func CreateTestInterestRunWithDetails(runDate time.Time, total models.Amount, accountsAffected int) *models.InterestRun {
	return &models.InterestRun{
		RunDate:          runDate,
		TotalInterest:    total,
		AccountsAffected: accountsAffected,
		ExecutionSummary: map[string]interface{}{
			"accounts_checked":  accountsAffected,
			"accounts_credited": accountsAffected,
			"total_interest":    total.String(),
		},
	}
}
