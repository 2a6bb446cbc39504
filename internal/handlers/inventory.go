// internal/handlers/inventory.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hibiken/asynq"

	redis_a "github.com/shaynesullivan/stockshark-be/internal/adapters/redis_adapter"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/internal/handlers/middleware"
	"github.com/shaynesullivan/stockshark-be/internal/workers"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service           ports.InventoryService
	cache             ports.CacheRepository
	asynqClient       *asynq.Client
	lowStockThreshold int
	logger            *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	service ports.InventoryService,
	cache ports.CacheRepository,
	asynqClient *asynq.Client,
	lowStockThreshold int,
	logger *slog.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		service:           service,
		cache:             cache,
		asynqClient:       asynqClient,
		lowStockThreshold: lowStockThreshold,
		logger:            logger.With(slog.String("handler", "inventory")),
	}
}

// CreateItem handles POST /api/v1/items
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := domain.NewItem(req.Name, req.Quantity, claims.AccountID())

	id, err := h.service.AddItem(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	h.invalidateOwnerCache(ctx, claims.AccountID())
	h.maybeNotifyLowStock(ctx, item)

	h.logger.InfoContext(ctx, "item created",
		slog.Int64("item_id", id),
		slog.String("owner_id", claims.AccountID()))

	h.respondJSON(w, http.StatusCreated, ItemResponse{
		ID:       id,
		Name:     item.Name,
		Quantity: item.Quantity,
		OwnerID:  item.OwnerID,
	})
}

// ListItems handles GET /api/v1/items
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	params := h.parseListParams(r, claims.AccountID())

	// Only the unfiltered first page is cached.
	cacheable := params.Search == "" && params.Page == 1
	cacheKey := redis_a.Key(redis_a.PrefixItems, "owner", claims.AccountID())

	if cacheable {
		var cached ports.ListResult
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
			h.respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("owner_id", claims.AccountID()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	if cacheable {
		if err := h.cache.Set(ctx, cacheKey, result); err != nil {
			h.logger.WarnContext(ctx, "failed to cache item list",
				slog.String("error", err.Error()))
		}
	}

	h.respondJSON(w, http.StatusOK, result)
}

// UpdateItem handles PUT /api/v1/items/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := &domain.InventoryItem{
		ID:       id,
		Name:     req.Name,
		Quantity: req.Quantity,
		OwnerID:  claims.AccountID(),
	}

	updated, err := h.service.UpdateItem(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to update item",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	// The row predicate covers both absence and foreign ownership. Neither
	// case is distinguished for the caller.
	if !updated {
		h.respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	h.invalidateOwnerCache(ctx, claims.AccountID())
	h.maybeNotifyLowStock(ctx, item)

	h.logger.InfoContext(ctx, "item updated", slog.Int64("item_id", id))

	h.respondJSON(w, http.StatusOK, ItemResponse{
		ID:       id,
		Name:     item.Name,
		Quantity: item.Quantity,
		OwnerID:  item.OwnerID,
	})
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	// Ownership is enforced here since the store deletes by id alone.
	owned, err := h.service.ItemExists(ctx, id, claims.AccountID())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check item ownership",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if !owned {
		h.respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	deleted, err := h.service.DeleteItem(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if !deleted {
		h.respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	h.invalidateOwnerCache(ctx, claims.AccountID())

	h.logger.InfoContext(ctx, "item deleted", slog.Int64("item_id", id))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item deleted successfully",
		"id":      id,
	})
}

// parseListParams parses query parameters for listing items
func (h *InventoryHandler) parseListParams(r *http.Request, ownerID string) ports.ListParams {
	params := ports.ListParams{
		OwnerID:   ownerID,
		Page:      1,
		PageSize:  50,
		SortBy:    "name",
		SortOrder: "asc",
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				params.PageSize = 100
			} else {
				params.PageSize = l
			}
		}
	}

	params.Search = r.URL.Query().Get("search")

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}

	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

func (h *InventoryHandler) invalidateOwnerCache(ctx context.Context, ownerID string) {
	key := redis_a.Key(redis_a.PrefixItems, "owner", ownerID)
	if err := h.cache.Delete(ctx, key); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate item cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// maybeNotifyLowStock queues a low stock notification when a write leaves
// the item at or below the threshold.
func (h *InventoryHandler) maybeNotifyLowStock(ctx context.Context, item *domain.InventoryItem) {
	if h.asynqClient == nil || item.Quantity > h.lowStockThreshold {
		return
	}

	task, err := workers.NewLowStockTask(workers.LowStockPayload{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Quantity:  item.Quantity,
		OwnerID:   item.OwnerID,
		Threshold: h.lowStockThreshold,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to build low stock task",
			slog.String("error", err.Error()))
		return
	}

	if _, err := h.asynqClient.EnqueueContext(ctx, task, asynq.Queue("low")); err != nil {
		h.logger.WarnContext(ctx, "failed to enqueue low stock task",
			slog.Int64("item_id", item.ID),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "low stock notification queued",
		slog.Int64("item_id", item.ID),
		slog.Int("quantity", item.Quantity))
}

// Helper methods

func (h *InventoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *InventoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// ItemRequest represents the request body for creating or updating an item
type ItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ItemResponse represents a single item in responses
type ItemResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	OwnerID  string `json:"owner_id"`
}
