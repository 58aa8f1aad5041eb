package events

import (
	"context"
	"sync"

	"qbank/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeAccountCreated    EventType = "account_created"
	EventTypeTransferCompleted EventType = "transfer_completed"
	EventTypeLoanIssued        EventType = "loan_issued"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted once per account whose balance a ledger operation wrote
type BalanceChangeEvent struct {
	AccountID       int64
	DiscordID       int64
	OldBalance      models.Amount
	NewBalance      models.Amount
	Delta           models.Amount
	TransactionType models.TransactionType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a newly registered account
type AccountCreatedEvent struct {
	AccountID       int64
	DiscordID       int64
	PlayerName      string
	StartingBalance models.Amount
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// TransferCompletedEvent represents money moved between two accounts
type TransferCompletedEvent struct {
	TransactionID      int64
	SenderDiscordID    int64
	SenderName         string
	RecipientDiscordID int64
	RecipientName      string
	Amount             models.Amount
}

func (e TransferCompletedEvent) Type() EventType {
	return EventTypeTransferCompleted
}

// LoanIssuedEvent represents a loan paid out to an account
type LoanIssuedEvent struct {
	LoanID      int64
	AccountID   int64
	DiscordID   int64
	Principal   models.Amount
	Interest    models.Amount
	Outstanding models.Amount
}

func (e LoanIssuedEvent) Type() EventType {
	return EventTypeLoanIssued
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler")
}

// Emit dispatches the event to every handler registered for its type.
// Handlers run in their own goroutines; a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus wraps the main bus
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues the event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event on transactional bus")
}

// Flush emits queued events on the main bus; called after a successful commit.
// Events are emitted with a background context since the transaction's context may already be done.
func (b *TransactionalBus) Flush() {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	log.WithField("eventCount", len(b.pending)).Debug("Flushed transactional bus")
	b.pending = nil
}

// Discard drops queued events; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
