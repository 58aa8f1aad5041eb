package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"qbank/events"
	"qbank/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	ctx          context.Context
	uow          *MockUnitOfWork
	factory      *MockUnitOfWorkFactory
	accounts     *MockAccountRepository
	transactions *MockTransactionRepository
	loans        *MockLoanRepository
	publisher    *MockEventPublisher
	resolver     *MockPlayerResolver
	service      LedgerService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		ctx:          context.Background(),
		uow:          new(MockUnitOfWork),
		factory:      new(MockUnitOfWorkFactory),
		accounts:     new(MockAccountRepository),
		transactions: new(MockTransactionRepository),
		loans:        new(MockLoanRepository),
		publisher:    &MockEventPublisher{},
		resolver:     new(MockPlayerResolver),
	}
	f.uow.SetRepositories(f.accounts, f.transactions, f.loans, nil, f.publisher)
	f.service = NewLedgerService(f.factory, f.resolver, nil)
	return f
}

// expectUnitOfWork sets up a transaction that begins and is rolled back on return
func (f *ledgerFixture) expectUnitOfWork(commit bool) {
	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", f.ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	if commit {
		f.uow.On("Commit").Return(nil)
	}
}

func (f *ledgerFixture) expectPlayer(name string) *models.Player {
	player := &models.Player{UUID: uuid.New(), Name: name}
	f.resolver.On("ResolveName", f.ctx, name).Return(player, nil)
	return player
}

func (f *ledgerFixture) assertExpectations(t *testing.T) {
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.accounts.AssertExpectations(t)
	f.transactions.AssertExpectations(t)
	f.loans.AssertExpectations(t)
	f.resolver.AssertExpectations(t)
}

func testAccount(id int64, player *models.Player, discordID int64, balance models.Amount) *models.Account {
	return &models.Account{
		ID:                id,
		PlayerUUID:        player.UUID,
		PlayerName:        player.Name,
		DiscordID:         discordID,
		Balance:           balance,
		OptedIntoInterest: true,
	}
}

func TestLedgerService_Deposit(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(true)

	player := f.expectPlayer("Steve")
	account := testAccount(1, player, 1001, amt(0, 0, 3, 0, 0))
	amount := amt(0, 0, 2, 0, 0)

	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, true).Return(account, nil)
	f.accounts.On("UpdateBalance", f.ctx, int64(1), amt(0, 1, 1, 0, 0)).Return(nil)
	f.transactions.On("Append", f.ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeDeposit &&
			tx.SenderAccountID == nil &&
			tx.RecipientAccountID != nil && *tx.RecipientAccountID == 1 &&
			tx.Amount == amount
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Transaction).ID = 10
	}).Return(nil)

	result, err := f.service.Deposit(f.ctx, "Steve", amount)

	require.NoError(t, err)
	assert.Equal(t, amt(0, 1, 1, 0, 0), result.NewBalance)
	assert.Equal(t, amt(0, 1, 1, 0, 0), result.Account.Balance)
	assert.Equal(t, int64(10), result.Transaction.ID)

	published := f.publisher.Published(events.EventTypeBalanceChange)
	require.Len(t, published, 1)
	change := published[0].(events.BalanceChangeEvent)
	assert.Equal(t, amt(0, 0, 3, 0, 0), change.OldBalance)
	assert.Equal(t, amt(0, 1, 1, 0, 0), change.NewBalance)
	assert.Equal(t, int64(1001), change.DiscordID)

	f.assertExpectations(t)
}

func TestLedgerService_Deposit_LogsRequestedDelta(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(true)

	player := f.expectPlayer("Steve")
	account := testAccount(1, player, 1001, models.Amount{})
	amount := amt(0, 0, 0, 0, 15)

	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, true).Return(account, nil)
	f.accounts.On("UpdateBalance", f.ctx, int64(1), amt(0, 0, 0, 1, 6)).Return(nil)
	f.transactions.On("Append", f.ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Amount == amt(0, 0, 0, 0, 15)
	})).Return(nil)

	result, err := f.service.Deposit(f.ctx, "Steve", amount)

	require.NoError(t, err)
	assert.Equal(t, amt(0, 0, 0, 1, 6), result.NewBalance)
	f.assertExpectations(t)
}

func TestLedgerService_Deposit_AccountNotFound(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(false)

	player := f.expectPlayer("Alex")
	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, true).Return(nil, nil)

	result, err := f.service.Deposit(f.ctx, "Alex", amt(1, 0, 0, 0, 0))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrAccountNotFound))
	f.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestLedgerService_Deposit_InvalidPlayer(t *testing.T) {
	f := newLedgerFixture()
	f.resolver.On("ResolveName", f.ctx, "nobody").Return(nil, fmt.Errorf("%w: nobody", ErrInvalidPlayer))

	_, err := f.service.Deposit(f.ctx, "nobody", amt(1, 0, 0, 0, 0))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPlayer))
	f.factory.AssertNotCalled(t, "Create")
}

func TestLedgerService_Deposit_NegativeAmount(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.service.Deposit(f.ctx, "Steve", amt(0, 0, -1, 0, 0))

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidAmount))
	f.resolver.AssertNotCalled(t, "ResolveName", mock.Anything, mock.Anything)
}

func TestLedgerService_Withdraw_BorrowsAcrossDenominations(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(true)

	player := f.expectPlayer("Steve")
	account := testAccount(1, player, 1001, amt(1, 0, 0, 0, 0))

	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, true).Return(account, nil)
	f.accounts.On("UpdateBalance", f.ctx, int64(1), amt(0, 8, 1, 0, 0)).Return(nil)
	f.transactions.On("Append", f.ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeWithdrawal &&
			tx.SenderAccountID != nil && *tx.SenderAccountID == 1 &&
			tx.RecipientAccountID == nil
	})).Return(nil)

	result, err := f.service.Withdraw(f.ctx, "Steve", amt(0, 0, 3, 0, 0))

	require.NoError(t, err)
	assert.Equal(t, amt(0, 8, 1, 0, 0), result.NewBalance)
	f.assertExpectations(t)
}

func TestLedgerService_Withdraw_InsufficientFunds(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(false)

	player := f.expectPlayer("Steve")
	account := testAccount(1, player, 1001, models.Amount{})
	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, true).Return(account, nil)

	result, err := f.service.Withdraw(f.ctx, "Steve", amt(0, 0, 0, 0, 1))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Equal(t, models.Amount{}, account.Balance)
	f.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	f.transactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
	assert.Empty(t, f.publisher.Events)
	f.assertExpectations(t)
}

func TestLedgerService_Transfer(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(true)

	senderPlayer := f.expectPlayer("Steve")
	recipientPlayer := f.expectPlayer("Alex")
	sender := testAccount(5, senderPlayer, 1005, amt(1, 0, 0, 2, 0))
	recipient := testAccount(2, recipientPlayer, 1002, amt(0, 8, 0, 0, 8))
	amount := amt(0, 1, 0, 0, 1)

	f.accounts.On("GetByPlayerUUID", f.ctx, senderPlayer.UUID, false).Return(sender, nil)
	f.accounts.On("GetByPlayerUUID", f.ctx, recipientPlayer.UUID, false).Return(recipient, nil)

	var lockOrder []int64
	f.accounts.On("GetByID", f.ctx, int64(2), true).Run(func(args mock.Arguments) {
		lockOrder = append(lockOrder, 2)
	}).Return(recipient, nil)
	f.accounts.On("GetByID", f.ctx, int64(5), true).Run(func(args mock.Arguments) {
		lockOrder = append(lockOrder, 5)
	}).Return(sender, nil)

	f.accounts.On("UpdateBalance", f.ctx, int64(5), amt(0, 8, 0, 1, 8)).Return(nil)
	f.accounts.On("UpdateBalance", f.ctx, int64(2), amt(1, 0, 0, 1, 0)).Return(nil)
	f.transactions.On("Append", f.ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeTransfer &&
			*tx.SenderAccountID == 5 &&
			*tx.RecipientAccountID == 2 &&
			tx.Amount == amount
	})).Return(nil)

	result, err := f.service.Transfer(f.ctx, "Steve", "Alex", amount)

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, lockOrder, "accounts are locked in id order")
	assert.Equal(t, amt(0, 8, 0, 1, 8), result.SenderNewBalance)
	assert.Equal(t, amt(1, 0, 0, 1, 0), result.RecipientNewBalance)
	assert.Equal(t, int64(5), result.Sender.ID)
	assert.Equal(t, int64(2), result.Recipient.ID)

	transfers := f.publisher.Published(events.EventTypeTransferCompleted)
	require.Len(t, transfers, 1)
	completed := transfers[0].(events.TransferCompletedEvent)
	assert.Equal(t, int64(1002), completed.RecipientDiscordID)
	assert.Equal(t, "Steve", completed.SenderName)
	assert.Len(t, f.publisher.Published(events.EventTypeBalanceChange), 2)

	f.assertExpectations(t)
}

func TestLedgerService_Transfer_ToSelf(t *testing.T) {
	f := newLedgerFixture()

	player := &models.Player{UUID: uuid.New(), Name: "Steve"}
	f.resolver.On("ResolveName", f.ctx, "Steve").Return(player, nil)
	f.resolver.On("ResolveName", f.ctx, "steve").Return(player, nil)

	result, err := f.service.Transfer(f.ctx, "Steve", "steve", amt(1, 0, 0, 0, 0))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrSelfTransfer))
	f.factory.AssertNotCalled(t, "Create")
	f.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_Transfer_InsufficientFunds(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(false)

	senderPlayer := f.expectPlayer("Steve")
	recipientPlayer := f.expectPlayer("Alex")
	sender := testAccount(1, senderPlayer, 1001, amt(0, 0, 3, 0, 0))
	recipient := testAccount(2, recipientPlayer, 1002, amt(4, 0, 0, 0, 0))

	f.accounts.On("GetByPlayerUUID", f.ctx, senderPlayer.UUID, false).Return(sender, nil)
	f.accounts.On("GetByPlayerUUID", f.ctx, recipientPlayer.UUID, false).Return(recipient, nil)
	f.accounts.On("GetByID", f.ctx, int64(1), true).Return(sender, nil)
	f.accounts.On("GetByID", f.ctx, int64(2), true).Return(recipient, nil)

	_, err := f.service.Transfer(f.ctx, "Steve", "Alex", amt(0, 1, 0, 0, 0))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	f.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	f.transactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Equal(t, amt(4, 0, 0, 0, 0), recipient.Balance)
	f.assertExpectations(t)
}

func TestLedgerService_Pay(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(true)

	senderPlayer := &models.Player{UUID: uuid.New(), Name: "Steve"}
	recipientPlayer := f.expectPlayer("Alex")
	sender := testAccount(1, senderPlayer, 1001, amt(0, 0, 0, 3, 0))
	recipient := testAccount(2, recipientPlayer, 1002, models.Amount{})

	f.accounts.On("GetByDiscordID", f.ctx, int64(1001), false).Return(sender, nil)
	f.accounts.On("GetByPlayerUUID", f.ctx, recipientPlayer.UUID, false).Return(recipient, nil)
	f.accounts.On("GetByID", f.ctx, int64(1), true).Return(sender, nil)
	f.accounts.On("GetByID", f.ctx, int64(2), true).Return(recipient, nil)
	f.accounts.On("UpdateBalance", f.ctx, int64(1), amt(0, 0, 0, 1, 5)).Return(nil)
	f.accounts.On("UpdateBalance", f.ctx, int64(2), amt(0, 0, 0, 1, 4)).Return(nil)
	f.transactions.On("Append", f.ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

	result, err := f.service.Pay(f.ctx, 1001, "Alex", amt(0, 0, 0, 0, 13))

	require.NoError(t, err)
	assert.Equal(t, amt(0, 0, 0, 1, 5), result.SenderNewBalance)
	assert.Equal(t, amt(0, 0, 0, 1, 4), result.RecipientNewBalance)
	f.assertExpectations(t)
}

func TestLedgerService_Pay_ToSelf(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(false)

	player := f.expectPlayer("Steve")
	account := testAccount(1, player, 1001, amt(1, 0, 0, 0, 0))

	f.accounts.On("GetByDiscordID", f.ctx, int64(1001), false).Return(account, nil)
	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, false).Return(account, nil)

	_, err := f.service.Pay(f.ctx, 1001, "Steve", amt(0, 1, 0, 0, 0))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSelfTransfer))
	assert.Equal(t, amt(1, 0, 0, 0, 0), account.Balance)
	f.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestLedgerService_Pay_SenderHasNoAccount(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(false)

	f.expectPlayer("Alex")
	f.accounts.On("GetByDiscordID", f.ctx, int64(1001), false).Return(nil, nil)

	_, err := f.service.Pay(f.ctx, 1001, "Alex", amt(0, 1, 0, 0, 0))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccountNotFound))
	f.assertExpectations(t)
}

func TestLedgerService_Loan(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(true)

	player := f.expectPlayer("Steve")
	account := testAccount(3, player, 1003, amt(0, 0, 0, 0, 0))
	principal := amt(0, 9, 0, 0, 0)

	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, true).Return(account, nil)
	f.accounts.On("UpdateBalance", f.ctx, int64(3), amt(1, 0, 0, 0, 0)).Return(nil)
	f.transactions.On("Append", f.ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeDeposit && tx.Amount == principal
	})).Return(nil)
	f.loans.On("Create", f.ctx, mock.MatchedBy(func(loan *models.Loan) bool {
		return loan.LoaneeID == 3 &&
			loan.LoaneeName == "Steve" &&
			loan.Principal == principal &&
			loan.Interest == amt(0, 2, 0, 0, 0) &&
			loan.Outstanding == amt(1, 2, 0, 0, 0) &&
			!loan.Paid
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Loan).ID = 7
	}).Return(nil)

	loan, err := f.service.Loan(f.ctx, "Steve", principal)

	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Equal(t, int64(7), loan.ID)
	assert.Equal(t, amt(0, 2, 0, 0, 0), loan.Interest)

	issued := f.publisher.Published(events.EventTypeLoanIssued)
	require.Len(t, issued, 1)
	assert.Equal(t, int64(7), issued[0].(events.LoanIssuedEvent).LoanID)

	f.assertExpectations(t)
}

func TestLedgerService_Loan_ZeroIsNoop(t *testing.T) {
	f := newLedgerFixture()

	loan, err := f.service.Loan(f.ctx, "Steve", models.Amount{})

	require.NoError(t, err)
	assert.Nil(t, loan)
	f.factory.AssertNotCalled(t, "Create")
	f.resolver.AssertNotCalled(t, "ResolveName", mock.Anything, mock.Anything)
}

func TestLedgerService_CreateAccount(t *testing.T) {
	t.Run("with starting balance", func(t *testing.T) {
		f := newLedgerFixture()
		f.expectUnitOfWork(true)

		player := f.expectPlayer("Steve")
		created := testAccount(1, player, 1001, models.Amount{})

		f.accounts.On("ExistsByPlayerUUID", f.ctx, player.UUID).Return(false, nil)
		f.accounts.On("ExistsByDiscordID", f.ctx, int64(1001)).Return(false, nil)
		f.accounts.On("Create", f.ctx, *player, int64(1001)).Return(created, nil)
		f.accounts.On("UpdateBalance", f.ctx, int64(1), amt(0, 0, 0, 1, 1)).Return(nil)
		f.transactions.On("Append", f.ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeDeposit && tx.Amount == amt(0, 0, 0, 0, 10)
		})).Return(nil)

		account, err := f.service.CreateAccount(f.ctx, "Steve", 1001, amt(0, 0, 0, 0, 10))

		require.NoError(t, err)
		assert.Equal(t, amt(0, 0, 0, 1, 1), account.Balance)
		assert.Len(t, f.publisher.Published(events.EventTypeAccountCreated), 1)
		f.assertExpectations(t)
	})

	t.Run("zero starting balance skips the deposit", func(t *testing.T) {
		f := newLedgerFixture()
		f.expectUnitOfWork(true)

		player := f.expectPlayer("Alex")
		created := testAccount(2, player, 1002, models.Amount{})

		f.accounts.On("ExistsByPlayerUUID", f.ctx, player.UUID).Return(false, nil)
		f.accounts.On("ExistsByDiscordID", f.ctx, int64(1002)).Return(false, nil)
		f.accounts.On("Create", f.ctx, *player, int64(1002)).Return(created, nil)

		account, err := f.service.CreateAccount(f.ctx, "Alex", 1002, models.Amount{})

		require.NoError(t, err)
		assert.True(t, account.Balance.IsZero())
		f.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
		f.transactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("player already has an account", func(t *testing.T) {
		f := newLedgerFixture()
		f.expectUnitOfWork(false)

		player := f.expectPlayer("Steve")
		f.accounts.On("ExistsByPlayerUUID", f.ctx, player.UUID).Return(true, nil)

		_, err := f.service.CreateAccount(f.ctx, "Steve", 1001, models.Amount{})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateAccount))
		f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("discord user already has an account", func(t *testing.T) {
		f := newLedgerFixture()
		f.expectUnitOfWork(false)

		player := f.expectPlayer("Steve")
		f.accounts.On("ExistsByPlayerUUID", f.ctx, player.UUID).Return(false, nil)
		f.accounts.On("ExistsByDiscordID", f.ctx, int64(1001)).Return(true, nil)

		_, err := f.service.CreateAccount(f.ctx, "Steve", 1001, models.Amount{})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateAccount))
		f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("unknown player", func(t *testing.T) {
		f := newLedgerFixture()
		f.resolver.On("ResolveName", f.ctx, "nobody").Return(nil, ErrInvalidPlayer)

		_, err := f.service.CreateAccount(f.ctx, "nobody", 1001, models.Amount{})

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPlayer))
		f.factory.AssertNotCalled(t, "Create")
	})
}

func TestLedgerService_LoanableAmount(t *testing.T) {
	t.Run("deposits minus principal lent out", func(t *testing.T) {
		f := newLedgerFixture()
		f.expectUnitOfWork(false)

		f.accounts.On("ListOptedIntoInterest", f.ctx).Return([]*models.Account{
			{ID: 1, Balance: amt(2, 0, 0, 0, 5)},
			{ID: 2, Balance: amt(0, 5, 0, 1, 0)},
		}, nil)
		f.loans.On("ListOutstanding", f.ctx).Return([]*models.Loan{
			{ID: 1, Interest: amt(0, 2, 0, 0, 0), Outstanding: amt(1, 2, 0, 0, 0)},
		}, nil)

		loanable, err := f.service.LoanableAmount(f.ctx)

		require.NoError(t, err)
		assert.Equal(t, amt(1, 5, 0, 1, 5), loanable)
		f.assertExpectations(t)
	})

	t.Run("more lent than deposited", func(t *testing.T) {
		f := newLedgerFixture()
		f.expectUnitOfWork(false)

		f.accounts.On("ListOptedIntoInterest", f.ctx).Return([]*models.Account{
			{ID: 1, Balance: amt(0, 1, 0, 0, 0)},
		}, nil)
		f.loans.On("ListOutstanding", f.ctx).Return([]*models.Loan{
			{ID: 1, Interest: amt(0, 2, 0, 0, 0), Outstanding: amt(1, 2, 0, 0, 0)},
		}, nil)

		loanable, err := f.service.LoanableAmount(f.ctx)

		require.NoError(t, err)
		assert.Equal(t, models.Amount{}, loanable)
		f.assertExpectations(t)
	})
}

func TestLedgerService_RecentTransactions(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(false)

	account := &models.Account{ID: 4, DiscordID: 1004}
	history := []*models.Transaction{
		{ID: 1, Type: models.TransactionTypeDeposit},
		{ID: 2, Type: models.TransactionTypeWithdrawal},
	}
	f.accounts.On("GetByDiscordID", f.ctx, int64(1004), false).Return(account, nil)
	f.transactions.On("ListByAccount", f.ctx, int64(4), 5).Return(history, nil)

	transactions, err := f.service.RecentTransactions(f.ctx, 1004, 5)

	require.NoError(t, err)
	assert.Equal(t, history, transactions)
	f.assertExpectations(t)
}

func TestLedgerService_SetInterestOptIn(t *testing.T) {
	f := newLedgerFixture()
	f.expectUnitOfWork(true)

	account := &models.Account{ID: 4, DiscordID: 1004, OptedIntoInterest: true}
	f.accounts.On("GetByDiscordID", f.ctx, int64(1004), true).Return(account, nil)
	f.accounts.On("SetInterestOptIn", f.ctx, int64(4), false).Return(nil)

	updated, err := f.service.SetInterestOptIn(f.ctx, 1004, false)

	require.NoError(t, err)
	assert.False(t, updated.OptedIntoInterest)
	f.assertExpectations(t)
}

func TestLedgerService_RecordsMetrics(t *testing.T) {
	f := newLedgerFixture()
	metrics := new(MockMetricsRecorder)
	f.service = NewLedgerService(f.factory, f.resolver, metrics)
	f.expectUnitOfWork(false)

	player := f.expectPlayer("Steve")
	f.accounts.On("GetByPlayerUUID", f.ctx, player.UUID, true).Return(testAccount(1, player, 1001, models.Amount{}), nil)
	metrics.On("ObserveOperation", "withdraw", "insufficient_funds", mock.AnythingOfType("time.Duration")).Return()

	_, err := f.service.Withdraw(f.ctx, "Steve", amt(0, 0, 1, 0, 0))

	require.Error(t, err)
	metrics.AssertExpectations(t)
}

func TestOperationOutcome(t *testing.T) {
	assert.Equal(t, "success", OperationOutcome(nil))
	assert.Equal(t, "self_transfer", OperationOutcome(fmt.Errorf("wrapped: %w", ErrSelfTransfer)))
	assert.Equal(t, "invalid_amount", OperationOutcome(models.ErrInvalidAmount))
	assert.Equal(t, "error", OperationOutcome(errors.New("connection refused")))
}
