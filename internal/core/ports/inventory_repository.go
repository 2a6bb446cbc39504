// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
)

// InventoryRepository defines the persistence port for inventory items.
// This interface is implemented by the database adapter.
type InventoryRepository interface {
	// Save inserts a new row atomically and fills in the generated id.
	Save(ctx context.Context, item *domain.InventoryItem) error

	// Update persists name and quantity for the row matching both id and
	// owner id. It reports false when no row matched, which covers both a
	// stale id and an id owned by someone else.
	Update(ctx context.Context, item *domain.InventoryItem) (bool, error)

	// Delete removes the row with the given id and reports whether a row
	// was removed. The match is by id only; ownership checks happen in the
	// calling layer.
	Delete(ctx context.Context, id int64) (bool, error)

	// FindByOwner returns the owner's items ordered by name ascending.
	// The result is an empty slice, never nil, when the owner has no items.
	FindByOwner(ctx context.Context, ownerID string) ([]domain.InventoryItem, error)

	// FindAll retrieves items for an owner with optional filtering, sorting,
	// and pagination.
	FindAll(ctx context.Context, params ListParams) ([]domain.InventoryItem, int64, error)

	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Exists(ctx context.Context, id int64, ownerID string) (bool, error)
}
