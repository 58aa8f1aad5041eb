package repository

import (
	"context"
	"fmt"
	"slices"

	"qbank/database"
	"qbank/models"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Append inserts the transaction and fills in its id and timestamp
func (r *TransactionRepository) Append(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (
			transaction_type, sender_account_id, recipient_account_id,
			netherite_blocks, netherite_ingots, netherite_scrap, diamond_blocks, diamonds
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING transaction_id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transaction.Type,
		transaction.SenderAccountID,
		transaction.RecipientAccountID,
		transaction.Amount.NetheriteBlocks,
		transaction.Amount.NetheriteIngots,
		transaction.Amount.NetheriteScrap,
		transaction.Amount.DiamondBlocks,
		transaction.Amount.Diamonds,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append %s transaction: %w", transaction.Type, err)
	}
	return nil
}

// ListByAccount returns the most recent transactions involving the account, oldest first.
// A limit of zero returns the full history.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT transaction_id, transaction_type, sender_account_id, recipient_account_id,
		       netherite_blocks, netherite_ingots, netherite_scrap, diamond_blocks, diamonds,
		       created_at
		FROM transactions
		WHERE sender_account_id = $1 OR recipient_account_id = $1
		ORDER BY transaction_id DESC
	`
	args := []any{accountID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.Type,
			&tx.SenderAccountID,
			&tx.RecipientAccountID,
			&tx.Amount.NetheriteBlocks,
			&tx.Amount.NetheriteIngots,
			&tx.Amount.NetheriteScrap,
			&tx.Amount.DiamondBlocks,
			&tx.Amount.Diamonds,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slices.Reverse(transactions)
	return transactions, nil
}
