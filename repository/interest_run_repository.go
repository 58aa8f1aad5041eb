package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"qbank/database"
	"qbank/models"

	"github.com/jackc/pgx/v5"
)

const interestRunColumns = `
	id, run_date, accounts_affected,
	total_nb, total_ni, total_ns, total_db, total_d,
	execution_summary, created_at`

// InterestRunRepository implements the InterestRunRepository interface
type InterestRunRepository struct {
	q queryable
}

// NewInterestRunRepository creates a new interest run repository
func NewInterestRunRepository(db *database.DB) *InterestRunRepository {
	return &InterestRunRepository{q: db.Pool}
}

// newInterestRunRepositoryWithTx creates a new interest run repository with a transaction
func newInterestRunRepositoryWithTx(tx queryable) *InterestRunRepository {
	return &InterestRunRepository{q: tx}
}

// GetByDate returns the run for the given calendar day, or nil
func (r *InterestRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error) {
	day := calendarDay(date)

	run, err := scanInterestRun(r.q.QueryRow(ctx,
		`SELECT `+interestRunColumns+` FROM interest_runs WHERE run_date = $1`, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interest run for date %s: %w", day.Format(time.DateOnly), err)
	}
	return run, nil
}

// Create records a completed run. The run date is stored as a calendar day.
func (r *InterestRunRepository) Create(ctx context.Context, run *models.InterestRun) error {
	run.RunDate = calendarDay(run.RunDate)

	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		INSERT INTO interest_runs
		(run_date, accounts_affected, total_nb, total_ni, total_ns, total_db, total_d, execution_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		run.RunDate,
		run.AccountsAffected,
		run.TotalInterest.NetheriteBlocks,
		run.TotalInterest.NetheriteIngots,
		run.TotalInterest.NetheriteScrap,
		run.TotalInterest.DiamondBlocks,
		run.TotalInterest.Diamonds,
		summaryJSON,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interest run for date %s: %w", run.RunDate.Format(time.DateOnly), err)
	}
	return nil
}

func scanInterestRun(row scanner) (*models.InterestRun, error) {
	var run models.InterestRun
	var summaryJSON []byte

	err := row.Scan(
		&run.ID,
		&run.RunDate,
		&run.AccountsAffected,
		&run.TotalInterest.NetheriteBlocks,
		&run.TotalInterest.NetheriteIngots,
		&run.TotalInterest.NetheriteScrap,
		&run.TotalInterest.DiamondBlocks,
		&run.TotalInterest.Diamonds,
		&summaryJSON,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}
	return &run, nil
}

// calendarDay keeps the date of t, as seen in its own location, at UTC midnight.
// DATE columns scan back in the same form.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
