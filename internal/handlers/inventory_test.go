// internal/handlers/inventory_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/shaynesullivan/stockshark-be/internal/adapters/redis_adapter"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/internal/handlers"
	"github.com/shaynesullivan/stockshark-be/internal/handlers/middleware"
	"github.com/shaynesullivan/stockshark-be/test/helpers"
	"github.com/shaynesullivan/stockshark-be/test/mocks"
)

type inventoryFixture struct {
	mux     *http.ServeMux
	handler *handlers.InventoryHandler
	service *mocks.MockInventoryService
	redis   *helpers.TestRedis
	token   string
}

func setupInventoryHandler(t *testing.T) *inventoryFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockInventoryService(ctrl)

	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Hour, helpers.TestLogger())

	handler := handlers.NewInventoryHandler(service, cache, nil, 5, helpers.TestLogger())

	token, err := middleware.NewToken("test-secret", 42, "alice", time.Hour)
	require.NoError(t, err)

	authed := middleware.Authenticate("test-secret")
	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/items", authed(http.HandlerFunc(handler.CreateItem)))
	mux.Handle("GET /api/v1/items", authed(http.HandlerFunc(handler.ListItems)))
	mux.Handle("PUT /api/v1/items/{id}", authed(http.HandlerFunc(handler.UpdateItem)))
	mux.Handle("DELETE /api/v1/items/{id}", authed(http.HandlerFunc(handler.DeleteItem)))

	return &inventoryFixture{
		mux:     mux,
		handler: handler,
		service: service,
		redis:   testRedis,
		token:   token,
	}
}

func (f *inventoryFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()

	f.mux.ServeHTTP(w, req)
	return w
}

func TestInventoryHandler_CreateItem(t *testing.T) {
	t.Run("creates_item_for_authenticated_owner", func(t *testing.T) {
		f := setupInventoryHandler(t)
		f.service.EXPECT().
			AddItem(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, item *domain.InventoryItem) (int64, error) {
				assert.Equal(t, "Packing Tape", item.Name)
				assert.Equal(t, 12, item.Quantity)
				item.ID = 7
				return 7, nil
			})

		w := f.do(t, "POST", "/api/v1/items", handlers.ItemRequest{Name: "Packing Tape", Quantity: 12})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp handlers.ItemResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "42", resp.OwnerID)
	})

	t.Run("owner_is_the_account_id_not_the_username", func(t *testing.T) {
		// The token was minted for account 42 / username "alice". Rows must
		// be keyed by the account id the registration produced.
		f := setupInventoryHandler(t)
		f.service.EXPECT().
			AddItem(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, item *domain.InventoryItem) (int64, error) {
				assert.Equal(t, "42", item.OwnerID)
				assert.NotEqual(t, "alice", item.OwnerID)
				return 8, nil
			})

		w := f.do(t, "POST", "/api/v1/items", handlers.ItemRequest{Name: "Widget", Quantity: 10})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid_input_is_bad_request", func(t *testing.T) {
		f := setupInventoryHandler(t)
		f.service.EXPECT().
			AddItem(gomock.Any(), gomock.Any()).
			Return(int64(0), domain.ErrInvalidInput)

		w := f.do(t, "POST", "/api/v1/items", handlers.ItemRequest{Name: "", Quantity: -1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("write_invalidates_cached_list", func(t *testing.T) {
		f := setupInventoryHandler(t)
		cacheKey := redis_a.Key(redis_a.PrefixItems, "owner", "42")
		f.redis.Server.Set(cacheKey, `{"items":[]}`)

		f.service.EXPECT().
			AddItem(gomock.Any(), gomock.Any()).
			Return(int64(7), nil)

		w := f.do(t, "POST", "/api/v1/items", handlers.ItemRequest{Name: "Packing Tape", Quantity: 12})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.False(t, f.redis.Server.Exists(cacheKey))
	})

	t.Run("unauthenticated_request_is_rejected", func(t *testing.T) {
		f := setupInventoryHandler(t)

		req := httptest.NewRequest("POST", "/api/v1/items", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()

		f.mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestInventoryHandler_ListItems(t *testing.T) {
	t.Run("serves_from_service_and_caches_first_page", func(t *testing.T) {
		f := setupInventoryHandler(t)
		items := helpers.CreateTestItems(2, "42")

		// The second request must be served from cache, so List runs once.
		f.service.EXPECT().
			List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, params ports.ListParams) (*ports.ListResult, error) {
				assert.Equal(t, "42", params.OwnerID)
				assert.Equal(t, 1, params.Page)
				return &ports.ListResult{
					Items:      items,
					Page:       1,
					PageSize:   50,
					TotalCount: 2,
					TotalPages: 1,
				}, nil
			}).
			Times(1)

		for i := 0; i < 2; i++ {
			w := f.do(t, "GET", "/api/v1/items", nil)
			assert.Equal(t, http.StatusOK, w.Code)

			var resp ports.ListResult
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Len(t, resp.Items, 2)
			assert.Equal(t, int64(2), resp.TotalCount)
		}
	})

	t.Run("search_bypasses_cache", func(t *testing.T) {
		f := setupInventoryHandler(t)

		f.service.EXPECT().
			List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, params ports.ListParams) (*ports.ListResult, error) {
				assert.Equal(t, "tape", params.Search)
				return &ports.ListResult{Items: []domain.InventoryItem{}}, nil
			}).
			Times(2)

		for i := 0; i < 2; i++ {
			w := f.do(t, "GET", "/api/v1/items?search=tape", nil)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("pagination_parameters_are_parsed", func(t *testing.T) {
		f := setupInventoryHandler(t)

		f.service.EXPECT().
			List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, params ports.ListParams) (*ports.ListResult, error) {
				assert.Equal(t, 3, params.Page)
				assert.Equal(t, 100, params.PageSize) // capped
				assert.Equal(t, "quantity", params.SortBy)
				assert.Equal(t, "desc", params.SortOrder)
				return &ports.ListResult{Items: []domain.InventoryItem{}}, nil
			})

		w := f.do(t, "GET", "/api/v1/items?page=3&limit=500&sort=quantity&order=desc", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestInventoryHandler_UpdateItem(t *testing.T) {
	t.Run("updates_owned_item", func(t *testing.T) {
		f := setupInventoryHandler(t)

		f.service.EXPECT().
			UpdateItem(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, item *domain.InventoryItem) (bool, error) {
				assert.Equal(t, int64(7), item.ID)
				assert.Equal(t, "42", item.OwnerID)
				return true, nil
			})

		w := f.do(t, "PUT", "/api/v1/items/7", handlers.ItemRequest{Name: "Bubble Wrap", Quantity: 40})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp handlers.ItemResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "Bubble Wrap", resp.Name)
	})

	t.Run("unmatched_row_is_not_found", func(t *testing.T) {
		f := setupInventoryHandler(t)

		f.service.EXPECT().
			UpdateItem(gomock.Any(), gomock.Any()).
			Return(false, nil)

		w := f.do(t, "PUT", "/api/v1/items/7", handlers.ItemRequest{Name: "Bubble Wrap", Quantity: 40})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Item not found")
	})

	t.Run("invalid_id_is_bad_request", func(t *testing.T) {
		f := setupInventoryHandler(t)

		w := f.do(t, "PUT", "/api/v1/items/abc", handlers.ItemRequest{Name: "Bubble Wrap", Quantity: 40})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = f.do(t, "PUT", "/api/v1/items/-2", handlers.ItemRequest{Name: "Bubble Wrap", Quantity: 40})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInventoryHandler_DeleteItem(t *testing.T) {
	t.Run("deletes_owned_item", func(t *testing.T) {
		f := setupInventoryHandler(t)

		f.service.EXPECT().ItemExists(gomock.Any(), int64(7), "42").Return(true, nil)
		f.service.EXPECT().DeleteItem(gomock.Any(), int64(7)).Return(true, nil)

		w := f.do(t, "DELETE", "/api/v1/items/7", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "deleted")
	})

	t.Run("foreign_item_is_not_found_without_delete", func(t *testing.T) {
		f := setupInventoryHandler(t)

		// DeleteItem must not be called when the ownership check misses.
		f.service.EXPECT().ItemExists(gomock.Any(), int64(7), "42").Return(false, nil)

		w := f.do(t, "DELETE", "/api/v1/items/7", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Item not found")
	})

	t.Run("invalid_id_is_bad_request", func(t *testing.T) {
		f := setupInventoryHandler(t)

		w := f.do(t, "DELETE", "/api/v1/items/zero", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
