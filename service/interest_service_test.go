package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"qbank/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInterestService_AccrueInterest(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockTransactionRepo := new(MockTransactionRepository)
	mockRunRepo := new(MockInterestRunRepository)
	mockMetrics := new(MockMetricsRecorder)
	publisher := &MockEventPublisher{}

	mockUoW.SetRepositories(mockAccountRepo, mockTransactionRepo, nil, mockRunRepo, publisher)
	service := NewInterestService(mockFactory, nil, mockMetrics)

	runTime := time.Date(2024, 6, 1, 0, 0, 5, 0, time.UTC)
	runDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rich := &models.Account{ID: 1, DiscordID: 1001, Balance: amt(10, 0, 0, 4, 0), OptedIntoInterest: true}
	poor := &models.Account{ID: 2, DiscordID: 1002, Balance: amt(0, 3, 0, 0, 2), OptedIntoInterest: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockRunRepo.On("GetByDate", ctx, runDate).Return(nil, nil)
	mockAccountRepo.On("ListOptedIntoInterest", ctx).Return([]*models.Account{rich, poor}, nil)
	mockAccountRepo.On("GetByID", ctx, int64(1), true).Return(rich, nil)
	mockAccountRepo.On("GetByID", ctx, int64(2), true).Return(poor, nil)

	// ten blocks earn five scrap, four diamond blocks earn one diamond
	mockAccountRepo.On("UpdateBalance", ctx, int64(1), amt(10, 1, 1, 4, 1)).Return(nil)
	mockTransactionRepo.On("Append", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeInterest &&
			*tx.RecipientAccountID == 1 &&
			tx.Amount == amt(0, 1, 1, 0, 1)
	})).Return(nil)

	mockRunRepo.On("Create", ctx, mock.MatchedBy(func(run *models.InterestRun) bool {
		return run.RunDate.Equal(runDate) &&
			run.AccountsAffected == 1 &&
			run.TotalInterest == amt(0, 1, 1, 0, 1) &&
			run.ExecutionSummary["accounts_skipped"] == 1
	})).Return(nil)
	mockMetrics.On("ObserveInterestRun", 1, amt(0, 1, 1, 0, 1)).Return()

	run, err := service.AccrueInterest(ctx, runTime)

	require.NoError(t, err)
	assert.Equal(t, 1, run.AccountsAffected)
	assert.Equal(t, amt(0, 3, 0, 0, 2), poor.Balance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockTransactionRepo.AssertExpectations(t)
	mockRunRepo.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}

func TestInterestService_AccrueInterest_AlreadyRan(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockRunRepo := new(MockInterestRunRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockRunRepo, nil)
	service := NewInterestService(mockFactory, nil, nil)

	runDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.InterestRun{ID: 9, RunDate: runDate, AccountsAffected: 3}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRunRepo.On("GetByDate", ctx, runDate).Return(existing, nil)

	run, err := service.AccrueInterest(ctx, runDate.Add(15*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, existing, run)
	mockAccountRepo.AssertNotCalled(t, "ListOptedIntoInterest", mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	mockRunRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInterestService_RefreshPlayerNames(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockResolver := new(MockPlayerResolver)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, nil)
	service := NewInterestService(mockFactory, mockResolver, nil)

	renamed := &models.Account{ID: 1, PlayerUUID: uuid.New(), PlayerName: "OldName"}
	unchanged := &models.Account{ID: 2, PlayerUUID: uuid.New(), PlayerName: "Steve"}
	vanished := &models.Account{ID: 3, PlayerUUID: uuid.New(), PlayerName: "Ghost"}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetAll", ctx).Return([]*models.Account{renamed, unchanged, vanished}, nil)
	mockResolver.On("LookupUUID", ctx, renamed.PlayerUUID).Return(&models.Player{UUID: renamed.PlayerUUID, Name: "NewName"}, nil)
	mockResolver.On("LookupUUID", ctx, unchanged.PlayerUUID).Return(&models.Player{UUID: unchanged.PlayerUUID, Name: "Steve"}, nil)
	mockResolver.On("LookupUUID", ctx, vanished.PlayerUUID).Return(nil, ErrInvalidPlayer)
	mockAccountRepo.On("UpdatePlayerName", ctx, int64(1), "NewName").Return(nil)

	count, err := service.RefreshPlayerNames(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	mockAccountRepo.AssertExpectations(t)
	mockResolver.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestInterestService_RefreshPlayerNames_ListFails(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockResolver := new(MockPlayerResolver)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, nil)
	service := NewInterestService(mockFactory, mockResolver, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetAll", ctx).Return(nil, errors.New("connection reset"))

	_, err := service.RefreshPlayerNames(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	mockResolver.AssertNotCalled(t, "LookupUUID", mock.Anything, mock.Anything)
}
