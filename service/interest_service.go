package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qbank/models"

	log "github.com/sirupsen/logrus"
)

type interestService struct {
	uowFactory UnitOfWorkFactory
	resolver   PlayerResolver
	metrics    MetricsRecorder
}

// NewInterestService creates the service behind the scheduled maintenance jobs. metrics may be nil.
func NewInterestService(uowFactory UnitOfWorkFactory, resolver PlayerResolver, metrics MetricsRecorder) InterestService {
	return &interestService{
		uowFactory: uowFactory,
		resolver:   resolver,
		metrics:    metrics,
	}
}

// AccrueInterest credits every opted-in account with its balance interest as one transaction.
// A second call for the same day returns the recorded run without crediting again.
func (s *interestService) AccrueInterest(ctx context.Context, date time.Time) (*models.InterestRun, error) {
	runDate := StartOfDay(date)
	logger := log.WithField("runDate", runDate.Format("2006-01-02"))

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.InterestRunRepository().GetByDate(ctx, runDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check interest run: %w", err)
	}
	if existing != nil {
		logger.Info("Interest already accrued for this day")
		return existing, nil
	}

	accounts, err := uow.AccountRepository().ListOptedIntoInterest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list opted-in accounts: %w", err)
	}

	var total models.Amount
	credited := 0
	skipped := 0
	for _, listed := range accounts {
		account, err := findAccountByID(ctx, uow, listed.ID, true)
		if err != nil {
			return nil, err
		}

		interest := BalanceInterest(account.Balance)
		if interest.IsZero() {
			skipped++
			continue
		}

		if _, err := creditAccount(ctx, uow, account, interest, models.TransactionTypeInterest); err != nil {
			return nil, err
		}
		total = AddToBalance(total, interest)
		credited++
	}

	run := &models.InterestRun{
		RunDate:          runDate,
		TotalInterest:    total,
		AccountsAffected: credited,
		ExecutionSummary: map[string]interface{}{
			"accounts_checked":  len(accounts),
			"accounts_credited": credited,
			"accounts_skipped":  skipped,
			"total_interest":    total.String(),
		},
	}
	if err := uow.InterestRunRepository().Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record interest run: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ObserveInterestRun(credited, total)
	}

	logger.WithFields(log.Fields{
		"accountsCredited": credited,
		"accountsSkipped":  skipped,
		"totalInterest":    total.String(),
	}).Info("Interest accrued")

	return run, nil
}

// RefreshPlayerNames looks every account's UUID up and stores names that changed.
// Lookups that fail are logged and skipped.
func (s *interestService) RefreshPlayerNames(ctx context.Context) (int, error) {
	accounts, err := s.listAccounts(ctx)
	if err != nil {
		return 0, err
	}

	renamed := make(map[int64]string)
	for _, account := range accounts {
		player, err := s.resolver.LookupUUID(ctx, account.PlayerUUID)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			entry := log.WithFields(log.Fields{
				"accountID":  account.ID,
				"playerUUID": account.PlayerUUID,
			}).WithError(err)
			if errors.Is(err, ErrInvalidPlayer) {
				entry.Warn("Player profile no longer exists")
			} else {
				entry.Error("Failed to look up player profile")
			}
			continue
		}
		if player.Name != account.PlayerName {
			renamed[account.ID] = player.Name
		}
	}

	if len(renamed) == 0 {
		return 0, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	for accountID, name := range renamed {
		if err := uow.AccountRepository().UpdatePlayerName(ctx, accountID, name); err != nil {
			return 0, fmt.Errorf("failed to rename account %d: %w", accountID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("renamed", len(renamed)).Info("Refreshed player names")
	return len(renamed), nil
}

func (s *interestService) listAccounts(ctx context.Context) ([]*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
