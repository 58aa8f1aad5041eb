package service

import (
	"context"
	"fmt"

	"qbank/events"
	"qbank/models"
)

// RecordBalanceChange writes the account's new balance and emits a balance change event.
// This is the single entry point for balance writes; the account is updated in place.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, account *models.Account, newBalance, delta models.Amount, txType models.TransactionType) error {
	if err := uow.AccountRepository().UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", account.ID, err)
	}

	// Emit balance change event (will be flushed after transaction commits)
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:       account.ID,
		DiscordID:       account.DiscordID,
		OldBalance:      account.Balance,
		NewBalance:      newBalance,
		Delta:           delta,
		TransactionType: txType,
	})

	account.Balance = newBalance
	return nil
}

// appendTransaction logs the requested delta, not its normalized effect
func appendTransaction(ctx context.Context, uow UnitOfWork, txType models.TransactionType, sender, recipient *models.Account, amount models.Amount) (*models.Transaction, error) {
	transaction := &models.Transaction{
		Type:   txType,
		Amount: amount,
	}
	if sender != nil {
		senderID := sender.ID
		transaction.SenderAccountID = &senderID
	}
	if recipient != nil {
		recipientID := recipient.ID
		transaction.RecipientAccountID = &recipientID
	}

	if err := uow.TransactionRepository().Append(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to record %s transaction: %w", txType, err)
	}
	return transaction, nil
}

// creditAccount adds amount to a locked account and logs it with the given type
func creditAccount(ctx context.Context, uow UnitOfWork, account *models.Account, amount models.Amount, txType models.TransactionType) (*models.LedgerResult, error) {
	newBalance := AddToBalance(account.Balance, amount)
	if err := RecordBalanceChange(ctx, uow, account, newBalance, amount, txType); err != nil {
		return nil, err
	}

	transaction, err := appendTransaction(ctx, uow, txType, nil, account, amount)
	if err != nil {
		return nil, err
	}

	return &models.LedgerResult{
		Account:     account,
		NewBalance:  newBalance,
		Transaction: transaction,
	}, nil
}

// debitAccount subtracts amount from a locked account. On ErrInsufficientFunds nothing is written.
func debitAccount(ctx context.Context, uow UnitOfWork, account *models.Account, amount models.Amount) (*models.LedgerResult, error) {
	newBalance, err := SubtractFromBalance(account.Balance, amount)
	if err != nil {
		return nil, err
	}
	if err := RecordBalanceChange(ctx, uow, account, newBalance, amount, models.TransactionTypeWithdrawal); err != nil {
		return nil, err
	}

	transaction, err := appendTransaction(ctx, uow, models.TransactionTypeWithdrawal, account, nil, amount)
	if err != nil {
		return nil, err
	}

	return &models.LedgerResult{
		Account:     account,
		NewBalance:  newBalance,
		Transaction: transaction,
	}, nil
}
