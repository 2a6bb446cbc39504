// internal/core/services/credentials.go
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
)

// saltLength is the number of random bytes per account salt (256 bits).
const saltLength = 32

// CredentialService handles account registration and authentication.
type CredentialService struct {
	repo   ports.AccountRepository
	policy domain.CredentialPolicy
	logger *slog.Logger

	// decoySalt feeds the digest when the account is absent, so the hash
	// computation happens on the same code path either way.
	decoySalt string
}

// Statically assert that *CredentialService implements the CredentialService interface.
var _ ports.CredentialService = (*CredentialService)(nil)

// NewCredentialService creates a new credential service.
func NewCredentialService(repo ports.AccountRepository, policy domain.CredentialPolicy, logger *slog.Logger) *CredentialService {
	return &CredentialService{
		repo:      repo,
		policy:    policy,
		logger:    logger.With(slog.String("service", "credentials")),
		decoySalt: generateSalt(),
	}
}

// RegisterUser validates the pair, rejects duplicate usernames, and persists
// a new account with a fresh salt and hashed password. It returns the new
// account id.
func (s *CredentialService) RegisterUser(ctx context.Context, username, password string) (int64, error) {
	if err := s.policy.ValidateUsername(username); err != nil {
		return 0, err
	}
	if err := s.policy.ValidatePassword(password); err != nil {
		return 0, err
	}

	normalized := domain.NormalizeUsername(username)

	exists, err := s.repo.Exists(ctx, normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return 0, domain.ErrDuplicateUsername
	}

	salt := generateSalt()
	account := &domain.UserAccount{
		Username:     normalized,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
	}

	// The unique index still backs this up if a concurrent registration
	// slips past the pre-check; the repository maps that violation back
	// onto ErrDuplicateUsername.
	if err := s.repo.Save(ctx, account); err != nil {
		return 0, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.Int64("account_id", account.ID),
		slog.String("username", normalized))

	return account.ID, nil
}

// Authenticate verifies the pair against the stored hash and returns the
// account id on a match. An absent account and a wrong password both return
// domain.ErrAuthFailure; the digest is computed in both cases so the two
// outcomes do not diverge into obviously different code paths.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (int64, error) {
	if err := s.policy.ValidateUsername(username); err != nil {
		return 0, err
	}
	if err := s.policy.ValidatePassword(password); err != nil {
		return 0, err
	}

	normalized := domain.NormalizeUsername(username)

	account, err := s.repo.FindByUsername(ctx, normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to look up account: %w", err)
	}

	salt := s.decoySalt
	storedHash := ""
	if account != nil {
		salt = account.Salt
		storedHash = account.PasswordHash
	}

	candidate := hashPassword(password, salt)
	match := subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1

	if account == nil || !match {
		s.logger.DebugContext(ctx, "authentication failed",
			slog.String("username", normalized))
		return 0, domain.ErrAuthFailure
	}

	s.logger.DebugContext(ctx, "authentication succeeded",
		slog.Int64("account_id", account.ID))

	return account.ID, nil
}

// UsernameExists reports whether the normalized username is taken.
func (s *CredentialService) UsernameExists(ctx context.Context, username string) (bool, error) {
	if err := s.policy.ValidateUsername(username); err != nil {
		return false, err
	}
	exists, err := s.repo.Exists(ctx, domain.NormalizeUsername(username))
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// AccountCount returns the total number of registered accounts.
func (s *CredentialService) AccountCount(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// generateSalt returns a fresh hex-encoded random salt.
func generateSalt() string {
	buf := make([]byte, saltLength)
	// rand.Read never returns an error on supported platforms.
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}

// hashPassword computes the hex-encoded SHA-256 digest of the hex-encoded
// salt followed by the password.
func hashPassword(password, salt string) string {
	digest := sha256.New()
	digest.Write([]byte(salt))
	digest.Write([]byte(password))
	return hex.EncodeToString(digest.Sum(nil))
}
