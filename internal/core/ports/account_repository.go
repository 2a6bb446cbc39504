// internal/core/ports/account_repository.go
package ports

import (
	"context"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
)

// AccountRepository defines the persistence port for user accounts.
// Usernames passed in are already normalized by the service layer.
type AccountRepository interface {
	// Save inserts the account as a single atomic unit and fills in the
	// generated id and creation timestamp.
	Save(ctx context.Context, account *domain.UserAccount) error

	// FindByUsername returns (nil, nil) when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error)

	Exists(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
