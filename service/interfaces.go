package service

import (
	"context"
	"time"

	"qbank/events"
	"qbank/models"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data access.
// The forUpdate flag takes a row lock held until the enclosing transaction ends.
type AccountRepository interface {
	// GetByID retrieves an account by its id
	GetByID(ctx context.Context, accountID int64, forUpdate bool) (*models.Account, error)

	// GetByPlayerUUID retrieves the account owned by a Minecraft player
	GetByPlayerUUID(ctx context.Context, playerUUID uuid.UUID, forUpdate bool) (*models.Account, error)

	// GetByDiscordID retrieves the account linked to a Discord user
	GetByDiscordID(ctx context.Context, discordID int64, forUpdate bool) (*models.Account, error)

	// ExistsByPlayerUUID reports whether the player already owns an account
	ExistsByPlayerUUID(ctx context.Context, playerUUID uuid.UUID) (bool, error)

	// ExistsByDiscordID reports whether the Discord user already owns an account
	ExistsByDiscordID(ctx context.Context, discordID int64) (bool, error)

	// Create inserts an account with a zero balance
	Create(ctx context.Context, player models.Player, discordID int64) (*models.Account, error)

	// UpdateBalance overwrites the account balance
	UpdateBalance(ctx context.Context, accountID int64, balance models.Amount) error

	// UpdatePlayerName stores a changed Minecraft name
	UpdatePlayerName(ctx context.Context, accountID int64, playerName string) error

	// SetInterestOptIn sets whether the account accrues balance interest
	SetInterestOptIn(ctx context.Context, accountID int64, optIn bool) error

	// ListOptedIntoInterest returns every account accruing balance interest
	ListOptedIntoInterest(ctx context.Context) ([]*models.Account, error)

	// GetAll returns all accounts
	GetAll(ctx context.Context) ([]*models.Account, error)
}

// TransactionRepository defines the interface for the append-only transaction log
type TransactionRepository interface {
	// Append inserts the transaction and fills in its id and timestamp
	Append(ctx context.Context, transaction *models.Transaction) error

	// ListByAccount returns the most recent transactions involving the account, oldest first.
	// A limit of zero returns the full history.
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*models.Transaction, error)
}

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	// Create inserts the loan and fills in its id and timestamp
	Create(ctx context.Context, loan *models.Loan) error

	// GetByID retrieves a loan by its id
	GetByID(ctx context.Context, loanID int64) (*models.Loan, error)

	// ListOutstanding returns all unpaid loans
	ListOutstanding(ctx context.Context) ([]*models.Loan, error)

	// UpdateOutstanding records a repayment against the loan
	UpdateOutstanding(ctx context.Context, loanID int64, outstanding models.Amount, paid bool) error
}

// InterestRunRepository defines the interface for daily interest run bookkeeping
type InterestRunRepository interface {
	// GetByDate returns the run for the given calendar day, or nil
	GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error)

	// Create records a completed run
	Create(ctx context.Context, run *models.InterestRun) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	TransactionRepository() TransactionRepository
	LoanRepository() LoanRepository
	InterestRunRepository() InterestRunRepository

	// EventBus returns the transactional event publisher, flushed on commit
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// PlayerResolver resolves Minecraft identities
type PlayerResolver interface {
	// ResolveName returns the player with the given name, or ErrInvalidPlayer
	ResolveName(ctx context.Context, name string) (*models.Player, error)

	// LookupUUID returns the current profile for a player UUID, or ErrInvalidPlayer
	LookupUUID(ctx context.Context, playerUUID uuid.UUID) (*models.Player, error)
}

// MetricsRecorder receives operation outcomes. A nil recorder is allowed.
type MetricsRecorder interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
	ObserveInterestRun(accountsCredited int, total models.Amount)
}

// LedgerService defines the interface for balance-mutating ledger operations and lookups
type LedgerService interface {
	// CreateAccount registers a player's account and deposits the starting balance
	CreateAccount(ctx context.Context, playerName string, discordID int64, startingBalance models.Amount) (*models.Account, error)

	// Deposit credits the player's account
	Deposit(ctx context.Context, playerName string, amount models.Amount) (*models.LedgerResult, error)

	// Withdraw debits the player's account, failing with ErrInsufficientFunds
	Withdraw(ctx context.Context, playerName string, amount models.Amount) (*models.LedgerResult, error)

	// Transfer moves money between two players' accounts
	Transfer(ctx context.Context, senderName, recipientName string, amount models.Amount) (*models.TransferResult, error)

	// Pay moves money from the Discord user's account to a player's account
	Pay(ctx context.Context, senderDiscordID int64, recipientName string, amount models.Amount) (*models.TransferResult, error)

	// Loan deposits the principal and records the loan with its interest.
	// Returns nil when the loan would be empty.
	Loan(ctx context.Context, playerName string, amount models.Amount) (*models.Loan, error)

	// GetAccountByDiscordID returns the Discord user's account
	GetAccountByDiscordID(ctx context.Context, discordID int64) (*models.Account, error)

	// GetAccountByPlayerName returns the player's account
	GetAccountByPlayerName(ctx context.Context, playerName string) (*models.Account, error)

	// RecentTransactions returns the Discord user's latest transactions, oldest first.
	// A limit of zero returns the full history.
	RecentTransactions(ctx context.Context, discordID int64, limit int) ([]*models.Transaction, error)

	// LoanableAmount is the opted-in deposits not currently lent out
	LoanableAmount(ctx context.Context) (models.Amount, error)

	// SetInterestOptIn toggles balance interest for the Discord user's account
	SetInterestOptIn(ctx context.Context, discordID int64, optIn bool) (*models.Account, error)
}

// InterestService defines the interface for scheduled account maintenance
type InterestService interface {
	// AccrueInterest credits balance interest to opted-in accounts once per calendar day
	AccrueInterest(ctx context.Context, date time.Time) (*models.InterestRun, error)

	// RefreshPlayerNames updates stored names that changed upstream and returns how many did
	RefreshPlayerNames(ctx context.Context) (int, error)
}
