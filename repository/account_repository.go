package repository

import (
	"context"
	"errors"
	"fmt"

	"qbank/database"
	"qbank/models"
	"qbank/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `
	account_id, player_uuid, player_name, discord_id,
	netherite_blocks, netherite_ingots, netherite_scrap, diamond_blocks, diamonds,
	opted_into_interest, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByID retrieves an account by its id
func (r *AccountRepository) GetByID(ctx context.Context, accountID int64, forUpdate bool) (*models.Account, error) {
	account, err := r.getOne(ctx, "account_id = $1", forUpdate, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	return account, nil
}

// GetByPlayerUUID retrieves the account owned by a Minecraft player
func (r *AccountRepository) GetByPlayerUUID(ctx context.Context, playerUUID uuid.UUID, forUpdate bool) (*models.Account, error) {
	account, err := r.getOne(ctx, "player_uuid = $1", forUpdate, playerUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for player %s: %w", playerUUID, err)
	}
	return account, nil
}

// GetByDiscordID retrieves the account linked to a Discord user
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID int64, forUpdate bool) (*models.Account, error) {
	account, err := r.getOne(ctx, "discord_id = $1", forUpdate, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for discord ID %d: %w", discordID, err)
	}
	return account, nil
}

func (r *AccountRepository) getOne(ctx context.Context, where string, forUpdate bool, arg any) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}

	account, err := scanAccount(r.q.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ExistsByPlayerUUID reports whether the player already owns an account
func (r *AccountRepository) ExistsByPlayerUUID(ctx context.Context, playerUUID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE player_uuid = $1)`, playerUUID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account for player %s: %w", playerUUID, err)
	}
	return exists, nil
}

// ExistsByDiscordID reports whether the Discord user already owns an account
func (r *AccountRepository) ExistsByDiscordID(ctx context.Context, discordID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE discord_id = $1)`, discordID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account for discord ID %d: %w", discordID, err)
	}
	return exists, nil
}

// Create inserts an account with a zero balance
func (r *AccountRepository) Create(ctx context.Context, player models.Player, discordID int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (player_uuid, player_name, discord_id)
		VALUES ($1, $2, $3)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, player.UUID, player.Name, discordID))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: player %s or discord ID %d", service.ErrDuplicateAccount, player.Name, discordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account for %s: %w", player.Name, err)
	}
	return account, nil
}

// UpdateBalance overwrites the account balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID int64, balance models.Amount) error {
	query := `
		UPDATE accounts
		SET netherite_blocks = $1, netherite_ingots = $2, netherite_scrap = $3,
		    diamond_blocks = $4, diamonds = $5, updated_at = NOW()
		WHERE account_id = $6
	`

	result, err := r.q.Exec(ctx, query,
		balance.NetheriteBlocks,
		balance.NetheriteIngots,
		balance.NetheriteScrap,
		balance.DiamondBlocks,
		balance.Diamonds,
		accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", service.ErrAccountNotFound, accountID)
	}
	return nil
}

// UpdatePlayerName stores a changed Minecraft name
func (r *AccountRepository) UpdatePlayerName(ctx context.Context, accountID int64, playerName string) error {
	result, err := r.q.Exec(ctx, `UPDATE accounts SET player_name = $1, updated_at = NOW() WHERE account_id = $2`, playerName, accountID)
	if err != nil {
		return fmt.Errorf("failed to update player name for account %d: %w", accountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", service.ErrAccountNotFound, accountID)
	}
	return nil
}

// SetInterestOptIn sets whether the account accrues balance interest
func (r *AccountRepository) SetInterestOptIn(ctx context.Context, accountID int64, optIn bool) error {
	result, err := r.q.Exec(ctx, `UPDATE accounts SET opted_into_interest = $1, updated_at = NOW() WHERE account_id = $2`, optIn, accountID)
	if err != nil {
		return fmt.Errorf("failed to update interest opt-in for account %d: %w", accountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", service.ErrAccountNotFound, accountID)
	}
	return nil
}

// ListOptedIntoInterest returns every account accruing balance interest, ordered by id
func (r *AccountRepository) ListOptedIntoInterest(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE opted_into_interest = TRUE ORDER BY account_id`
	accounts, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list opted-in accounts: %w", err)
	}
	return accounts, nil
}

// GetAll returns all accounts, ordered by id
func (r *AccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	accounts, err := r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...any) ([]*models.Account, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(row scanner) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.PlayerUUID,
		&account.PlayerName,
		&account.DiscordID,
		&account.Balance.NetheriteBlocks,
		&account.Balance.NetheriteIngots,
		&account.Balance.NetheriteScrap,
		&account.Balance.DiamondBlocks,
		&account.Balance.Diamonds,
		&account.OptedIntoInterest,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
