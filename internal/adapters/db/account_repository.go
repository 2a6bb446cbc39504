// internal/adapters/db/account_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// accountRepository implements ports.AccountRepository
type accountRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *Database, logger *slog.Logger) ports.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "accounts")),
	}
}

// Save inserts a new account and fills in the generated id and timestamp.
// A concurrent insert of the same username surfaces as ErrDuplicateUsername
// via the unique index rather than as a storage fault.
func (r *accountRepository) Save(ctx context.Context, account *domain.UserAccount) error {
	query := `
		INSERT INTO accounts (username, password_hash, salt)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		account.Username, account.PasswordHash, account.Salt,
	).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("%w: failed to save account: %v", domain.ErrStorage, err)
	}

	r.logger.DebugContext(ctx, "account saved",
		slog.Int64("account_id", account.ID),
		slog.String("username", account.Username))

	return nil
}

// FindByUsername retrieves an account by its normalized username. It returns
// (nil, nil) when no account matches.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	query := `
		SELECT id, username, password_hash, salt, created_at
		FROM accounts
		WHERE username = $1`

	account := &domain.UserAccount{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&account.ID, &account.Username, &account.PasswordHash,
		&account.Salt, &account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to find account: %v", domain.ErrStorage, err)
	}

	return account, nil
}

// Exists checks whether an account with the normalized username exists.
func (r *accountRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: failed to check account existence: %v", domain.ErrStorage, err)
	}

	return exists, nil
}

// Count returns the total number of accounts.
func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: failed to count accounts: %v", domain.ErrStorage, err)
	}

	return count, nil
}
