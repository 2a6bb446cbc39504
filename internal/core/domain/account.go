// internal/core/domain/account.go
package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// usernamePattern restricts usernames to letters, digits, and underscores.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// CredentialPolicy carries the tunable bounds for username and password
// validation. All fields are required at construction time; the core never
// assumes defaults of its own.
type CredentialPolicy struct {
	MinUsernameLength int
	MaxUsernameLength int
	MinPasswordLength int
	MaxPasswordLength int
}

// UserAccount represents a registered user. PasswordHash is the hex-encoded
// SHA-256 digest of the hex-encoded salt concatenated with the password;
// the plaintext password is never stored.
type UserAccount struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeUsername applies the canonical form used for storage and lookup:
// trimmed and lower-cased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks the raw username against the policy. The value is
// trimmed before length and character checks so that "Alice " and "alice"
// are the same identifier.
func (p CredentialPolicy) ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	if len(trimmed) < p.MinUsernameLength || len(trimmed) > p.MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters",
			ErrInvalidInput, p.MinUsernameLength, p.MaxUsernameLength)
	}
	if !usernamePattern.MatchString(trimmed) {
		return fmt.Errorf("%w: username can only contain letters, numbers, and underscores", ErrInvalidInput)
	}
	return nil
}

// ValidatePassword checks the password against the policy. Passwords are not
// trimmed; leading and trailing whitespace is significant.
func (p CredentialPolicy) ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}
	if len(password) < p.MinPasswordLength || len(password) > p.MaxPasswordLength {
		return fmt.Errorf("%w: password must be %d-%d characters",
			ErrInvalidInput, p.MinPasswordLength, p.MaxPasswordLength)
	}
	return nil
}
