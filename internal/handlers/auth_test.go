// internal/handlers/auth_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/shaynesullivan/stockshark-be/internal/adapters/redis_adapter"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/handlers"
	"github.com/shaynesullivan/stockshark-be/internal/handlers/middleware"
	"github.com/shaynesullivan/stockshark-be/test/helpers"
	"github.com/shaynesullivan/stockshark-be/test/mocks"
)

type authFixture struct {
	handler *handlers.AuthHandler
	service *mocks.MockCredentialService
	redis   *helpers.TestRedis
}

func setupAuthHandler(t *testing.T) *authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockCredentialService(ctrl)

	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Hour, helpers.TestLogger())

	cfg := handlers.AuthConfig{
		JWTSecret:        "test-secret",
		JWTExpiration:    time.Hour,
		MaxLoginAttempts: 5,
		LockoutDuration:  15 * time.Minute,
		FloorLatency:     0, // No padding in tests
	}

	return &authFixture{
		handler: handlers.NewAuthHandler(service, cache, cfg, helpers.TestLogger()),
		service: service,
		redis:   testRedis,
	}
}

func credentialsBody(t *testing.T, username, password string) *bytes.Buffer {
	t.Helper()

	body, err := json.Marshal(handlers.CredentialsRequest{
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates_account", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().
			RegisterUser(gomock.Any(), "  BOB_99  ", "correct-horse").
			Return(int64(7), nil)

		req := httptest.NewRequest("POST", "/api/v1/auth/register", credentialsBody(t, "  BOB_99  ", "correct-horse"))
		w := httptest.NewRecorder()

		f.handler.Register(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp handlers.RegisterResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "bob_99", resp.Username)
	})

	t.Run("invalid_input_is_bad_request", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().
			RegisterUser(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), fmt.Errorf("%w: username too short", domain.ErrInvalidInput))

		req := httptest.NewRequest("POST", "/api/v1/auth/register", credentialsBody(t, "ab", "correct-horse"))
		w := httptest.NewRecorder()

		f.handler.Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate_username_is_conflict", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().
			RegisterUser(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), domain.ErrDuplicateUsername)

		req := httptest.NewRequest("POST", "/api/v1/auth/register", credentialsBody(t, "alice", "correct-horse"))
		w := httptest.NewRecorder()

		f.handler.Register(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Username already taken")
	})

	t.Run("malformed_body_is_bad_request", func(t *testing.T) {
		f := setupAuthHandler(t)

		req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()

		f.handler.Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	lockoutKey := redis_a.Key(redis_a.PrefixLockout, "alice")

	t.Run("mints_session_token", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().
			Authenticate(gomock.Any(), "alice", "correct-horse").
			Return(int64(42), nil)

		req := httptest.NewRequest("POST", "/api/v1/auth/login", credentialsBody(t, "alice", "correct-horse"))
		w := httptest.NewRecorder()

		f.handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp handlers.LoginResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(42), resp.AccountID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := middleware.ParseToken("test-secret", resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("success_clears_lockout_counter", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.redis.Server.Set(lockoutKey, "3")

		f.service.EXPECT().
			Authenticate(gomock.Any(), "alice", "correct-horse").
			Return(int64(42), nil)

		req := httptest.NewRequest("POST", "/api/v1/auth/login", credentialsBody(t, "alice", "correct-horse"))
		w := httptest.NewRecorder()

		f.handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, f.redis.Server.Exists(lockoutKey))
	})

	t.Run("failure_increments_lockout_counter", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().
			Authenticate(gomock.Any(), "alice", "wrong-horse").
			Return(int64(0), domain.ErrAuthFailure)

		req := httptest.NewRequest("POST", "/api/v1/auth/login", credentialsBody(t, "alice", "wrong-horse"))
		w := httptest.NewRecorder()

		f.handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password")

		count, err := f.redis.Server.Get(lockoutKey)
		require.NoError(t, err)
		assert.Equal(t, "1", count)
		assert.Positive(t, f.redis.Server.TTL(lockoutKey))
	})

	t.Run("absent_and_wrong_password_share_a_response", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().
			Authenticate(gomock.Any(), "nobody", gomock.Any()).
			Return(int64(0), domain.ErrAuthFailure)
		f.service.EXPECT().
			Authenticate(gomock.Any(), "alice", gomock.Any()).
			Return(int64(0), domain.ErrAuthFailure)

		var bodies []string
		for _, username := range []string{"nobody", "alice"} {
			req := httptest.NewRequest("POST", "/api/v1/auth/login", credentialsBody(t, username, "wrong-horse"))
			w := httptest.NewRecorder()

			f.handler.Login(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			bodies = append(bodies, w.Body.String())
		}

		assert.Equal(t, bodies[0], bodies[1])
	})

	t.Run("locked_out_account_is_rejected_before_authentication", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.redis.Server.Set(lockoutKey, "5")
		// Authenticate must not be called

		req := httptest.NewRequest("POST", "/api/v1/auth/login", credentialsBody(t, "alice", "correct-horse"))
		w := httptest.NewRecorder()

		f.handler.Login(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "Too many failed attempts")
	})

	t.Run("redis_down_fails_open", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.redis.Server.Close()

		f.service.EXPECT().
			Authenticate(gomock.Any(), "alice", "correct-horse").
			Return(int64(42), nil)

		req := httptest.NewRequest("POST", "/api/v1/auth/login", credentialsBody(t, "alice", "correct-horse"))
		w := httptest.NewRecorder()

		f.handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandler_UsernameAvailable(t *testing.T) {
	t.Run("taken_username_is_unavailable", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().UsernameExists(gomock.Any(), "ALICE").Return(true, nil)

		req := httptest.NewRequest("GET", "/api/v1/auth/available?username=ALICE", nil)
		w := httptest.NewRecorder()

		f.handler.UsernameAvailable(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "alice", resp["username"])
		assert.Equal(t, false, resp["available"])
	})

	t.Run("free_username_is_available", func(t *testing.T) {
		f := setupAuthHandler(t)
		f.service.EXPECT().UsernameExists(gomock.Any(), "bob_99").Return(false, nil)

		req := httptest.NewRequest("GET", "/api/v1/auth/available?username=bob_99", nil)
		w := httptest.NewRecorder()

		f.handler.UsernameAvailable(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, true, resp["available"])
	})

	t.Run("missing_parameter_is_bad_request", func(t *testing.T) {
		f := setupAuthHandler(t)

		req := httptest.NewRequest("GET", "/api/v1/auth/available", nil)
		w := httptest.NewRecorder()

		f.handler.UsernameAvailable(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
