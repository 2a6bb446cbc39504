package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
)

func testCredentialPolicy() domain.CredentialPolicy {
	return domain.CredentialPolicy{
		MinUsernameLength: 3,
		MaxUsernameLength: 32,
		MinPasswordLength: 8,
		MaxPasswordLength: 128,
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase unchanged", input: "alice", expected: "alice"},
		{name: "uppercase folded", input: "BOB_99", expected: "bob_99"},
		{name: "surrounding whitespace trimmed", input: "  BOB_99  ", expected: "bob_99"},
		{name: "mixed case", input: "ChArLiE", expected: "charlie"},
		{name: "empty stays empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeUsername(tt.input))
		})
	}
}

func TestCredentialPolicy_ValidateUsername(t *testing.T) {
	policy := testCredentialPolicy()

	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid simple", username: "alice", wantErr: false},
		{name: "valid with digits and underscore", username: "bob_99", wantErr: false},
		{name: "valid uppercase", username: "ALICE", wantErr: false},
		{name: "valid with surrounding whitespace", username: "  alice  ", wantErr: false},
		{name: "empty", username: "", wantErr: true},
		{name: "whitespace only", username: "   ", wantErr: true},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 33), wantErr: true},
		{name: "hyphen rejected", username: "bob-99", wantErr: true},
		{name: "space inside rejected", username: "bob 99", wantErr: true},
		{name: "unicode rejected", username: "bób", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.ValidateUsername(tt.username)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCredentialPolicy_ValidatePassword(t *testing.T) {
	policy := testCredentialPolicy()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "correct-horse", wantErr: false},
		{name: "minimum length", password: "12345678", wantErr: false},
		{name: "whitespace is significant and counts", password: " pass123 ", wantErr: false},
		{name: "empty", password: "", wantErr: true},
		{name: "too short", password: "short", wantErr: true},
		{name: "too long", password: strings.Repeat("x", 129), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
