// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
)

// inventoryRepository implements ports.InventoryRepository
type inventoryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *Database, logger *slog.Logger) ports.InventoryRepository {
	return &inventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

// Save creates a new inventory item
func (r *inventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO items (name, quantity, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		item.Name, item.Quantity, item.OwnerID,
	).Scan(&item.ID)

	if err != nil {
		return fmt.Errorf("%w: failed to save inventory item: %v", domain.ErrStorage, err)
	}

	r.logger.DebugContext(ctx, "inventory item saved",
		slog.Int64("item_id", item.ID),
		slog.String("owner_id", item.OwnerID))

	return nil
}

// Update persists name and quantity for the row matching id and owner_id.
// The owner_id predicate keeps one owner from overwriting another owner's
// item even with a valid item id; a miss reports false, not an error.
func (r *inventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) (bool, error) {
	query := `
		UPDATE items SET name = $3, quantity = $4
		WHERE id = $1 AND owner_id = $2`

	tag, err := r.db.Exec(ctx, query, item.ID, item.OwnerID, item.Name, item.Quantity)
	if err != nil {
		return false, fmt.Errorf("%w: failed to update inventory item: %v", domain.ErrStorage, err)
	}

	updated := tag.RowsAffected() > 0

	r.logger.DebugContext(ctx, "inventory item update",
		slog.Int64("item_id", item.ID),
		slog.Bool("matched", updated))

	return updated, nil
}

// Delete removes the row with the given id and reports whether a row was
// removed.
func (r *inventoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete inventory item: %v", domain.ErrStorage, err)
	}

	deleted := tag.RowsAffected() > 0
	if deleted {
		r.logger.DebugContext(ctx, "inventory item deleted", slog.Int64("item_id", id))
	}

	return deleted, nil
}

// FindByOwner retrieves all items for an owner ordered by name ascending
func (r *inventoryRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	query := `
		SELECT id, name, quantity, owner_id
		FROM items
		WHERE owner_id = $1
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query inventory items: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "retrieved items for owner",
		slog.String("owner_id", ownerID),
		slog.Int("count", len(items)))

	return items, nil
}

// FindAll retrieves an owner's items with filtering, sorting, and pagination
func (r *inventoryRepository) FindAll(ctx context.Context, params ports.ListParams) ([]domain.InventoryItem, int64, error) {
	qb := squirrel.Select("id", "name", "quantity", "owner_id").
		From("items").
		Where(squirrel.Eq{"owner_id": params.OwnerID}).
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		qb = qb.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	countQb := squirrel.Select("COUNT(*)").
		From("items").
		Where(squirrel.Eq{"owner_id": params.OwnerID}).
		PlaceholderFormat(squirrel.Dollar)
	if params.Search != "" {
		countQb = countQb.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count inventory items: %v", domain.ErrStorage, err)
	}

	orderBy := "name ASC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		switch params.SortBy {
		case "quantity":
			orderBy = fmt.Sprintf("quantity %s", direction)
		case "id":
			orderBy = fmt.Sprintf("id %s", direction)
		default:
			orderBy = fmt.Sprintf("name %s", direction)
		}
	}
	qb = qb.OrderBy(orderBy)

	if params.PageSize > 0 {
		qb = qb.Limit(uint64(params.PageSize))
		if params.Page > 1 {
			qb = qb.Offset(uint64((params.Page - 1) * params.PageSize))
		}
	}

	listSQL, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to query inventory items: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, totalCount, nil
}

// CountByOwner returns the number of items an owner holds
func (r *inventoryRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	query := `SELECT COUNT(*) FROM items WHERE owner_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: failed to count inventory items: %v", domain.ErrStorage, err)
	}

	return count, nil
}

// Exists checks if an item exists for the given id and owner
func (r *inventoryRepository) Exists(ctx context.Context, id int64, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM items WHERE id = $1 AND owner_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: failed to check existence: %v", domain.ErrStorage, err)
	}

	return exists, nil
}

// scanItems collects rows into a non-nil slice.
func scanItems(rows pgx.Rows) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.OwnerID); err != nil {
			return nil, fmt.Errorf("%w: failed to scan inventory item: %v", domain.ErrStorage, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating rows: %v", domain.ErrStorage, err)
	}

	return items, nil
}
