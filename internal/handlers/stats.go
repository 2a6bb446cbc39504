// internal/handlers/stats.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/internal/handlers/middleware"
)

// StatsHandler serves account and inventory counters
type StatsHandler struct {
	credentials ports.CredentialService
	inventory   ports.InventoryService
	logger      *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(
	credentials ports.CredentialService,
	inventory ports.InventoryService,
	logger *slog.Logger,
) *StatsHandler {
	return &StatsHandler{
		credentials: credentials,
		inventory:   inventory,
		logger:      logger.With(slog.String("handler", "stats")),
	}
}

// StatsResponse represents the stats payload
type StatsResponse struct {
	TotalAccounts int64 `json:"total_accounts"`
	OwnItemCount  int64 `json:"own_item_count"`
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	accounts, err := h.credentials.AccountCount(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count accounts",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	items, err := h.inventory.ItemCountForOwner(ctx, claims.AccountID())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count items",
			slog.String("owner_id", claims.AccountID()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	h.respondJSON(w, http.StatusOK, StatsResponse{
		TotalAccounts: accounts,
		OwnItemCount:  items,
	})
}

func (h *StatsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *StatsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
