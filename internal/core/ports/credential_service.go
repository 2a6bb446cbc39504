// internal/core/ports/credential_service.go
package ports

import "context"

// CredentialService defines the application service port for account
// registration and authentication.
type CredentialService interface {
	// RegisterUser validates the pair, rejects duplicates, and creates the
	// account. It returns the new account id.
	RegisterUser(ctx context.Context, username, password string) (int64, error)

	// Authenticate returns the account id on a match. An absent account and
	// a wrong password both surface as domain.ErrAuthFailure.
	Authenticate(ctx context.Context, username, password string) (int64, error)

	UsernameExists(ctx context.Context, username string) (bool, error)
	AccountCount(ctx context.Context) (int64, error)
}
