package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qbank/events"
	"qbank/models"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	resolver   PlayerResolver
	metrics    MetricsRecorder
}

// NewLedgerService creates a new ledger service. metrics may be nil.
func NewLedgerService(uowFactory UnitOfWorkFactory, resolver PlayerResolver, metrics MetricsRecorder) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		resolver:   resolver,
		metrics:    metrics,
	}
}

func (s *ledgerService) CreateAccount(ctx context.Context, playerName string, discordID int64, startingBalance models.Amount) (account *models.Account, err error) {
	start := time.Now()
	defer func() { s.observe("create_account", start, err) }()

	if startingBalance.HasNegative() {
		return nil, fmt.Errorf("%w: starting balance %v", models.ErrInvalidAmount, startingBalance.Components())
	}

	player, err := s.resolvePlayer(ctx, playerName)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	exists, err := uow.AccountRepository().ExistsByPlayerUUID(ctx, player.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account for %s: %w", player.Name, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s already has an account", ErrDuplicateAccount, player.Name)
	}

	exists, err = uow.AccountRepository().ExistsByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account for discord user %d: %w", discordID, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: discord user %d already has an account", ErrDuplicateAccount, discordID)
	}

	account, err = uow.AccountRepository().Create(ctx, *player, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to create account for %s: %w", player.Name, err)
	}

	if !startingBalance.IsZero() {
		if _, err := creditAccount(ctx, uow, account, startingBalance, models.TransactionTypeDeposit); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		AccountID:       account.ID,
		DiscordID:       discordID,
		PlayerName:      account.PlayerName,
		StartingBalance: startingBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":       account.ID,
		"playerName":      account.PlayerName,
		"discordID":       discordID,
		"startingBalance": startingBalance.String(),
	}).Info("Account created")

	return account, nil
}

func (s *ledgerService) Deposit(ctx context.Context, playerName string, amount models.Amount) (result *models.LedgerResult, err error) {
	start := time.Now()
	defer func() { s.observe("deposit", start, err) }()

	if amount.HasNegative() {
		return nil, fmt.Errorf("%w: deposit of %v", models.ErrInvalidAmount, amount.Components())
	}

	player, err := s.resolvePlayer(ctx, playerName)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := lockAccountByPlayer(ctx, uow, player)
	if err != nil {
		return nil, err
	}

	result, err = creditAccount(ctx, uow, account, amount, models.TransactionTypeDeposit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":  account.ID,
		"amount":     amount.String(),
		"newBalance": result.NewBalance.String(),
	}).Info("Deposit completed")

	return result, nil
}

func (s *ledgerService) Withdraw(ctx context.Context, playerName string, amount models.Amount) (result *models.LedgerResult, err error) {
	start := time.Now()
	defer func() { s.observe("withdraw", start, err) }()

	if amount.HasNegative() {
		return nil, fmt.Errorf("%w: withdrawal of %v", models.ErrInvalidAmount, amount.Components())
	}

	player, err := s.resolvePlayer(ctx, playerName)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := lockAccountByPlayer(ctx, uow, player)
	if err != nil {
		return nil, err
	}

	result, err = debitAccount(ctx, uow, account, amount)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":  account.ID,
		"amount":     amount.String(),
		"newBalance": result.NewBalance.String(),
	}).Info("Withdrawal completed")

	return result, nil
}

func (s *ledgerService) Transfer(ctx context.Context, senderName, recipientName string, amount models.Amount) (result *models.TransferResult, err error) {
	start := time.Now()
	defer func() { s.observe("transfer", start, err) }()

	if amount.HasNegative() {
		return nil, fmt.Errorf("%w: transfer of %v", models.ErrInvalidAmount, amount.Components())
	}

	sender, err := s.resolvePlayer(ctx, senderName)
	if err != nil {
		return nil, err
	}
	recipient, err := s.resolvePlayer(ctx, recipientName)
	if err != nil {
		return nil, err
	}
	if sender.UUID == recipient.UUID {
		return nil, fmt.Errorf("%w: %s", ErrSelfTransfer, sender.Name)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	senderAccount, err := findAccountByPlayer(ctx, uow, sender)
	if err != nil {
		return nil, err
	}
	recipientAccount, err := findAccountByPlayer(ctx, uow, recipient)
	if err != nil {
		return nil, err
	}

	result, err = transferBetween(ctx, uow, senderAccount.ID, recipientAccount.ID, amount)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logTransfer(result, amount)
	return result, nil
}

func (s *ledgerService) Pay(ctx context.Context, senderDiscordID int64, recipientName string, amount models.Amount) (result *models.TransferResult, err error) {
	start := time.Now()
	defer func() { s.observe("pay", start, err) }()

	if amount.HasNegative() {
		return nil, fmt.Errorf("%w: payment of %v", models.ErrInvalidAmount, amount.Components())
	}

	recipient, err := s.resolvePlayer(ctx, recipientName)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	senderAccount, err := findAccountByDiscordID(ctx, uow, senderDiscordID, false)
	if err != nil {
		return nil, err
	}
	recipientAccount, err := findAccountByPlayer(ctx, uow, recipient)
	if err != nil {
		return nil, err
	}

	result, err = transferBetween(ctx, uow, senderAccount.ID, recipientAccount.ID, amount)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logTransfer(result, amount)
	return result, nil
}

func (s *ledgerService) Loan(ctx context.Context, playerName string, amount models.Amount) (loan *models.Loan, err error) {
	start := time.Now()
	defer func() { s.observe("loan", start, err) }()

	if amount.HasNegative() {
		return nil, fmt.Errorf("%w: loan of %v", models.ErrInvalidAmount, amount.Components())
	}

	interest := LoanInterest(amount)
	outstanding := AddToBalance(amount, interest)
	if outstanding.IsZero() {
		log.WithField("playerName", playerName).Debug("Skipping empty loan")
		return nil, nil
	}

	player, err := s.resolvePlayer(ctx, playerName)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := lockAccountByPlayer(ctx, uow, player)
	if err != nil {
		return nil, err
	}

	if _, err := creditAccount(ctx, uow, account, amount, models.TransactionTypeDeposit); err != nil {
		return nil, err
	}

	loan = &models.Loan{
		LoaneeID:    account.ID,
		LoaneeName:  account.PlayerName,
		Principal:   amount,
		Interest:    interest,
		Outstanding: outstanding,
	}
	if err := uow.LoanRepository().Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to record loan for account %d: %w", account.ID, err)
	}

	uow.EventBus().Publish(events.LoanIssuedEvent{
		LoanID:      loan.ID,
		AccountID:   account.ID,
		DiscordID:   account.DiscordID,
		Principal:   amount,
		Interest:    interest,
		Outstanding: outstanding,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"loanID":      loan.ID,
		"accountID":   account.ID,
		"principal":   amount.String(),
		"interest":    interest.String(),
		"outstanding": outstanding.String(),
	}).Info("Loan issued")

	return loan, nil
}

func (s *ledgerService) GetAccountByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return findAccountByDiscordID(ctx, uow, discordID, false)
}

func (s *ledgerService) GetAccountByPlayerName(ctx context.Context, playerName string) (*models.Account, error) {
	player, err := s.resolvePlayer(ctx, playerName)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return findAccountByPlayer(ctx, uow, player)
}

func (s *ledgerService) RecentTransactions(ctx context.Context, discordID int64, limit int) ([]*models.Transaction, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", limit)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := findAccountByDiscordID(ctx, uow, discordID, false)
	if err != nil {
		return nil, err
	}

	transactions, err := uow.TransactionRepository().ListByAccount(ctx, account.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", account.ID, err)
	}
	return transactions, nil
}

func (s *ledgerService) LoanableAmount(ctx context.Context) (models.Amount, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.Amount{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().ListOptedIntoInterest(ctx)
	if err != nil {
		return models.Amount{}, fmt.Errorf("failed to list opted-in accounts: %w", err)
	}
	loans, err := uow.LoanRepository().ListOutstanding(ctx)
	if err != nil {
		return models.Amount{}, fmt.Errorf("failed to list outstanding loans: %w", err)
	}

	var deposits models.Amount
	for _, account := range accounts {
		deposits = AddToBalance(deposits, account.Balance)
	}

	// Only the principal still owed is out of the bank; unpaid interest was never held
	var lent models.Amount
	for _, loan := range loans {
		principalLeft, err := SubtractFromBalance(loan.Outstanding, loan.Interest)
		if err != nil {
			continue
		}
		lent = AddToBalance(lent, principalLeft)
	}

	loanable, err := SubtractFromBalance(deposits, lent)
	if errors.Is(err, ErrInsufficientFunds) {
		log.WithFields(log.Fields{
			"deposits": deposits.String(),
			"lent":     lent.String(),
		}).Warn("Outstanding loans exceed opted-in deposits")
		return models.Amount{}, nil
	}
	if err != nil {
		return models.Amount{}, err
	}
	return loanable, nil
}

func (s *ledgerService) SetInterestOptIn(ctx context.Context, discordID int64, optIn bool) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := findAccountByDiscordID(ctx, uow, discordID, true)
	if err != nil {
		return nil, err
	}

	if account.OptedIntoInterest != optIn {
		if err := uow.AccountRepository().SetInterestOptIn(ctx, account.ID, optIn); err != nil {
			return nil, fmt.Errorf("failed to update interest opt-in for account %d: %w", account.ID, err)
		}
		account.OptedIntoInterest = optIn
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID": account.ID,
		"optIn":     optIn,
	}).Info("Interest preference updated")

	return account, nil
}

// resolvePlayer runs outside any database transaction since it may call out over HTTP
func (s *ledgerService) resolvePlayer(ctx context.Context, playerName string) (*models.Player, error) {
	player, err := s.resolver.ResolveName(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player %q: %w", playerName, err)
	}
	return player, nil
}

func (s *ledgerService) observe(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveOperation(operation, OperationOutcome(err), time.Since(start))
}

// OperationOutcome names an operation result for metrics labels
func OperationOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrDuplicateAccount):
		return "duplicate_account"
	case errors.Is(err, ErrInvalidPlayer):
		return "invalid_player"
	case errors.Is(err, ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, models.ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "error"
	}
}

// transferBetween locks both accounts in id order, then moves the amount.
// Nothing is written when the sender cannot cover it.
func transferBetween(ctx context.Context, uow UnitOfWork, senderID, recipientID int64, amount models.Amount) (*models.TransferResult, error) {
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: account %d", ErrSelfTransfer, senderID)
	}

	firstID, secondID := senderID, recipientID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}
	first, err := findAccountByID(ctx, uow, firstID, true)
	if err != nil {
		return nil, err
	}
	second, err := findAccountByID(ctx, uow, secondID, true)
	if err != nil {
		return nil, err
	}

	sender, recipient := first, second
	if sender.ID != senderID {
		sender, recipient = second, first
	}

	senderBalance, err := SubtractFromBalance(sender.Balance, amount)
	if err != nil {
		return nil, err
	}
	recipientBalance := AddToBalance(recipient.Balance, amount)

	if err := RecordBalanceChange(ctx, uow, sender, senderBalance, amount, models.TransactionTypeTransfer); err != nil {
		return nil, err
	}
	if err := RecordBalanceChange(ctx, uow, recipient, recipientBalance, amount, models.TransactionTypeTransfer); err != nil {
		return nil, err
	}

	transaction, err := appendTransaction(ctx, uow, models.TransactionTypeTransfer, sender, recipient, amount)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TransferCompletedEvent{
		TransactionID:      transaction.ID,
		SenderDiscordID:    sender.DiscordID,
		SenderName:         sender.PlayerName,
		RecipientDiscordID: recipient.DiscordID,
		RecipientName:      recipient.PlayerName,
		Amount:             amount,
	})

	return &models.TransferResult{
		Sender:              sender,
		Recipient:           recipient,
		SenderNewBalance:    senderBalance,
		RecipientNewBalance: recipientBalance,
		Transaction:         transaction,
	}, nil
}

func logTransfer(result *models.TransferResult, amount models.Amount) {
	log.WithFields(log.Fields{
		"senderID":    result.Sender.ID,
		"recipientID": result.Recipient.ID,
		"amount":      amount.String(),
	}).Info("Transfer completed")
}

func lockAccountByPlayer(ctx context.Context, uow UnitOfWork, player *models.Player) (*models.Account, error) {
	account, err := uow.AccountRepository().GetByPlayerUUID(ctx, player.UUID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for %s: %w", player.Name, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: no account belongs to %s", ErrAccountNotFound, player.Name)
	}
	return account, nil
}

func findAccountByPlayer(ctx context.Context, uow UnitOfWork, player *models.Player) (*models.Account, error) {
	account, err := uow.AccountRepository().GetByPlayerUUID(ctx, player.UUID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for %s: %w", player.Name, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: no account belongs to %s", ErrAccountNotFound, player.Name)
	}
	return account, nil
}

func findAccountByDiscordID(ctx context.Context, uow UnitOfWork, discordID int64, forUpdate bool) (*models.Account, error) {
	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID, forUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for discord user %d: %w", discordID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: discord user %d has no account", ErrAccountNotFound, discordID)
	}
	return account, nil
}

func findAccountByID(ctx context.Context, uow UnitOfWork, accountID int64, forUpdate bool) (*models.Account, error) {
	account, err := uow.AccountRepository().GetByID(ctx, accountID, forUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %d", ErrAccountNotFound, accountID)
	}
	return account, nil
}
