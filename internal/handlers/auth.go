// internal/handlers/auth.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/shaynesullivan/stockshark-be/internal/adapters/redis_adapter"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/internal/handlers/middleware"
)

// AuthConfig carries the handler-level authentication policy.
type AuthConfig struct {
	JWTSecret        string
	JWTExpiration    time.Duration
	MaxLoginAttempts int
	LockoutDuration  time.Duration
	// FloorLatency pads every login round trip to a minimum duration so
	// response timing does not reveal which check failed.
	FloorLatency time.Duration
}

// AuthHandler handles registration and login
type AuthHandler struct {
	service ports.CredentialService
	cache   ports.CacheRepository
	cfg     AuthConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	service ports.CredentialService,
	cache ports.CacheRepository,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service: service,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.With(slog.String("handler", "auth")),
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.service.RegisterUser(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDuplicateUsername):
			h.respondError(w, http.StatusConflict, "Username already taken")
		default:
			h.logger.ErrorContext(ctx, "failed to register user",
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Failed to register")
		}
		return
	}

	h.logger.InfoContext(ctx, "account registered",
		slog.Int64("account_id", id),
		slog.String("username", domain.NormalizeUsername(req.Username)))

	h.respondJSON(w, http.StatusCreated, RegisterResponse{
		ID:       id,
		Username: domain.NormalizeUsername(req.Username),
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := domain.NormalizeUsername(req.Username)
	lockoutKey := redis_a.Key(redis_a.PrefixLockout, username)

	if h.isLockedOut(ctx, lockoutKey) {
		h.logger.WarnContext(ctx, "login rejected, account locked out",
			slog.String("username", username))
		h.padToFloor(start)
		h.respondError(w, http.StatusTooManyRequests, "Too many failed attempts, try again later")
		return
	}

	accountID, err := h.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailure) || errors.Is(err, domain.ErrInvalidInput) {
			h.recordFailedAttempt(ctx, lockoutKey, username)
			h.padToFloor(start)
			h.respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.logger.ErrorContext(ctx, "authentication error",
			slog.String("error", err.Error()))
		h.padToFloor(start)
		h.respondError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	if err := h.cache.Delete(ctx, lockoutKey); err != nil {
		h.logger.WarnContext(ctx, "failed to clear lockout counter",
			slog.String("error", err.Error()))
	}

	token, err := middleware.NewToken(h.cfg.JWTSecret, accountID, username, h.cfg.JWTExpiration)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to mint session token",
			slog.String("error", err.Error()))
		h.padToFloor(start)
		h.respondError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	h.logger.InfoContext(ctx, "login succeeded",
		slog.Int64("account_id", accountID),
		slog.String("username", username))

	h.padToFloor(start)
	h.respondJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		AccountID: accountID,
		Username:  username,
		ExpiresIn: int64(h.cfg.JWTExpiration.Seconds()),
	})
}

// UsernameAvailable handles GET /api/v1/auth/available?username=...
func (h *AuthHandler) UsernameAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := r.URL.Query().Get("username")
	if username == "" {
		h.respondError(w, http.StatusBadRequest, "username query parameter is required")
		return
	}

	exists, err := h.service.UsernameExists(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to check username",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to check username")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"username":  domain.NormalizeUsername(username),
		"available": !exists,
	})
}

// isLockedOut reports whether the failure counter has reached the limit.
// Redis being down fails open: login stays possible without lockout.
func (h *AuthHandler) isLockedOut(ctx context.Context, key string) bool {
	var attempts int
	if err := h.cache.Get(ctx, key, &attempts); err != nil {
		return false
	}
	return attempts >= h.cfg.MaxLoginAttempts
}

// recordFailedAttempt bumps the failure counter and refreshes its expiry.
func (h *AuthHandler) recordFailedAttempt(ctx context.Context, key, username string) {
	attempts, err := h.cache.Increment(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to record login attempt",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return
	}

	if err := h.cache.Expire(ctx, key, h.cfg.LockoutDuration); err != nil {
		h.logger.WarnContext(ctx, "failed to set lockout expiry",
			slog.String("error", err.Error()))
	}

	h.logger.WarnContext(ctx, "login failed",
		slog.String("username", username),
		slog.Int64("attempts", attempts))
}

// padToFloor sleeps out the remainder of the configured floor latency.
func (h *AuthHandler) padToFloor(start time.Time) {
	if h.cfg.FloorLatency <= 0 {
		return
	}
	if remaining := h.cfg.FloorLatency - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

// Helper methods

func (h *AuthHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *AuthHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// CredentialsRequest represents a username/password pair
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     string `json:"token"`
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	ExpiresIn int64  `json:"expires_in"`
}
