package service

import (
	"context"
	"sync"
	"time"

	"qbank/events"
	"qbank/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID int64, forUpdate bool) (*models.Account, error) {
	args := m.Called(ctx, accountID, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByPlayerUUID(ctx context.Context, playerUUID uuid.UUID, forUpdate bool) (*models.Account, error) {
	args := m.Called(ctx, playerUUID, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByDiscordID(ctx context.Context, discordID int64, forUpdate bool) (*models.Account, error) {
	args := m.Called(ctx, discordID, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByPlayerUUID(ctx context.Context, playerUUID uuid.UUID) (bool, error) {
	args := m.Called(ctx, playerUUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ExistsByDiscordID(ctx context.Context, discordID int64) (bool, error) {
	args := m.Called(ctx, discordID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, player models.Player, discordID int64) (*models.Account, error) {
	args := m.Called(ctx, player, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID int64, balance models.Amount) error {
	args := m.Called(ctx, accountID, balance)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePlayerName(ctx context.Context, accountID int64, playerName string) error {
	args := m.Called(ctx, accountID, playerName)
	return args.Error(0)
}

func (m *MockAccountRepository) SetInterestOptIn(ctx context.Context, accountID int64, optIn bool) error {
	args := m.Called(ctx, accountID, optIn)
	return args.Error(0)
}

func (m *MockAccountRepository) ListOptedIntoInterest(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, transaction *models.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockLoanRepository is a mock implementation of LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, loanID int64) (*models.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListOutstanding(ctx context.Context) ([]*models.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateOutstanding(ctx context.Context, loanID int64, outstanding models.Amount, paid bool) error {
	args := m.Called(ctx, loanID, outstanding, paid)
	return args.Error(0)
}

// MockInterestRunRepository is a mock implementation of InterestRunRepository
type MockInterestRunRepository struct {
	mock.Mock
}

func (m *MockInterestRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterestRun), args.Error(1)
}

func (m *MockInterestRunRepository) Create(ctx context.Context, run *models.InterestRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Published returns the recorded events of one type
func (m *MockEventPublisher) Published(eventType events.EventType) []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []events.Event
	for _, e := range m.Events {
		if e.Type() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	loanRepo        LoanRepository
	interestRunRepo InterestRunRepository
	publisher       EventPublisher
}

// SetRepositories wires the repositories returned by the getters.
// A nil publisher is replaced by a MockEventPublisher.
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository, transactionRepo TransactionRepository, loanRepo LoanRepository, interestRunRepo InterestRunRepository, publisher EventPublisher) {
	m.accountRepo = accountRepo
	m.transactionRepo = transactionRepo
	m.loanRepo = loanRepo
	m.interestRunRepo = interestRunRepo
	if publisher == nil {
		publisher = &MockEventPublisher{}
	}
	m.publisher = publisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) LoanRepository() LoanRepository {
	return m.loanRepo
}

func (m *MockUnitOfWork) InterestRunRepository() InterestRunRepository {
	return m.interestRunRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.publisher == nil {
		m.publisher = &MockEventPublisher{}
	}
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockPlayerResolver is a mock implementation of PlayerResolver
type MockPlayerResolver struct {
	mock.Mock
}

func (m *MockPlayerResolver) ResolveName(ctx context.Context, name string) (*models.Player, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerResolver) LookupUUID(ctx context.Context, playerUUID uuid.UUID) (*models.Player, error) {
	args := m.Called(ctx, playerUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.Called(operation, outcome, duration)
}

func (m *MockMetricsRecorder) ObserveInterestRun(accountsCredited int, total models.Amount) {
	m.Called(accountsCredited, total)
}
