// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
)

// InventoryService defines the application service port for inventory.
// This interface is implemented by the application service.
type InventoryService interface {
	AddItem(ctx context.Context, item *domain.InventoryItem) (int64, error)
	ItemsForOwner(ctx context.Context, ownerID string) ([]domain.InventoryItem, error)
	UpdateItem(ctx context.Context, item *domain.InventoryItem) (bool, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	ItemCountForOwner(ctx context.Context, ownerID string) (int64, error)
	ItemExists(ctx context.Context, id int64, ownerID string) (bool, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// ListParams holds parameters for listing an owner's inventory.
type ListParams struct {
	OwnerID   string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult holds the result of listing inventory.
type ListResult struct {
	Items      []domain.InventoryItem `json:"items"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int64                  `json:"total_count"`
	TotalPages int                    `json:"total_pages"`
}
