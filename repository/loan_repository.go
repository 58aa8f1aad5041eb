package repository

import (
	"context"
	"errors"
	"fmt"

	"qbank/database"
	"qbank/models"

	"github.com/jackc/pgx/v5"
)

const loanColumns = `
	loan_id, loanee_id, loanee_name,
	loaned_nb, loaned_ni, loaned_ns, loaned_db, loaned_d,
	interest_nb, interest_ni, interest_ns, interest_db, interest_d,
	outstanding_nb, outstanding_ni, outstanding_ns, outstanding_db, outstanding_d,
	paid, created_at`

// LoanRepository implements the LoanRepository interface
type LoanRepository struct {
	q queryable
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *database.DB) *LoanRepository {
	return &LoanRepository{q: db.Pool}
}

// newLoanRepositoryWithTx creates a new loan repository with a transaction
func newLoanRepositoryWithTx(tx queryable) *LoanRepository {
	return &LoanRepository{q: tx}
}

// Create inserts the loan and fills in its id and timestamp
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (
			loanee_id, loanee_name,
			loaned_nb, loaned_ni, loaned_ns, loaned_db, loaned_d,
			interest_nb, interest_ni, interest_ns, interest_db, interest_d,
			outstanding_nb, outstanding_ni, outstanding_ns, outstanding_db, outstanding_d,
			paid
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING loan_id, created_at
	`

	args := []any{loan.LoaneeID, loan.LoaneeName}
	for _, a := range []models.Amount{loan.Principal, loan.Interest, loan.Outstanding} {
		for _, c := range a.Components() {
			args = append(args, c)
		}
	}
	args = append(args, loan.Paid)

	if err := r.q.QueryRow(ctx, query, args...).Scan(&loan.ID, &loan.CreatedAt); err != nil {
		return fmt.Errorf("failed to create loan for account %d: %w", loan.LoaneeID, err)
	}
	return nil
}

// GetByID retrieves a loan by its id
func (r *LoanRepository) GetByID(ctx context.Context, loanID int64) (*models.Loan, error) {
	loan, err := scanLoan(r.q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE loan_id = $1`, loanID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	return loan, nil
}

// ListOutstanding returns all unpaid loans, oldest first
func (r *LoanRepository) ListOutstanding(ctx context.Context) ([]*models.Loan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+loanColumns+` FROM loans WHERE paid = FALSE ORDER BY loan_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loans: %w", err)
	}
	return loans, nil
}

// UpdateOutstanding records a repayment against the loan
func (r *LoanRepository) UpdateOutstanding(ctx context.Context, loanID int64, outstanding models.Amount, paid bool) error {
	query := `
		UPDATE loans
		SET outstanding_nb = $1, outstanding_ni = $2, outstanding_ns = $3,
		    outstanding_db = $4, outstanding_d = $5, paid = $6
		WHERE loan_id = $7
	`

	result, err := r.q.Exec(ctx, query,
		outstanding.NetheriteBlocks,
		outstanding.NetheriteIngots,
		outstanding.NetheriteScrap,
		outstanding.DiamondBlocks,
		outstanding.Diamonds,
		paid,
		loanID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %d: %w", loanID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("loan %d not found", loanID)
	}
	return nil
}

func scanLoan(row scanner) (*models.Loan, error) {
	var loan models.Loan
	err := row.Scan(
		&loan.ID,
		&loan.LoaneeID,
		&loan.LoaneeName,
		&loan.Principal.NetheriteBlocks,
		&loan.Principal.NetheriteIngots,
		&loan.Principal.NetheriteScrap,
		&loan.Principal.DiamondBlocks,
		&loan.Principal.Diamonds,
		&loan.Interest.NetheriteBlocks,
		&loan.Interest.NetheriteIngots,
		&loan.Interest.NetheriteScrap,
		&loan.Interest.DiamondBlocks,
		&loan.Interest.Diamonds,
		&loan.Outstanding.NetheriteBlocks,
		&loan.Outstanding.NetheriteIngots,
		&loan.Outstanding.NetheriteScrap,
		&loan.Outstanding.DiamondBlocks,
		&loan.Outstanding.Diamonds,
		&loan.Paid,
		&loan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}
