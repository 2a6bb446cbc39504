// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
)

// InventoryService handles inventory business logic.
type InventoryService struct {
	repo   ports.InventoryRepository
	policy domain.ItemPolicy
	logger *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service.
func NewInventoryService(repo ports.InventoryRepository, policy domain.ItemPolicy, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		policy: policy,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// AddItem validates and persists a new item, returning the generated id.
func (s *InventoryService) AddItem(ctx context.Context, item *domain.InventoryItem) (int64, error) {
	if err := item.Validate(s.policy); err != nil {
		return 0, err
	}

	item.Name = strings.TrimSpace(item.Name)
	item.OwnerID = strings.TrimSpace(item.OwnerID)

	if err := s.repo.Save(ctx, item); err != nil {
		return 0, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.InfoContext(ctx, "inventory item added",
		slog.Int64("item_id", item.ID),
		slog.String("name", item.Name),
		slog.String("owner_id", item.OwnerID))

	return item.ID, nil
}

// ItemsForOwner returns all of an owner's items ordered by name ascending.
// An owner with no items gets an empty slice, never nil.
func (s *InventoryService) ItemsForOwner(ctx context.Context, ownerID string) ([]domain.InventoryItem, error) {
	if err := s.policy.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// UpdateItem revalidates every field and persists name and quantity for the
// row matching both id and owner id. It reports false when no row matched;
// callers that applied the change optimistically to a local copy are expected
// to revert it on false.
func (s *InventoryService) UpdateItem(ctx context.Context, item *domain.InventoryItem) (bool, error) {
	if err := item.Validate(s.policy); err != nil {
		return false, err
	}
	if item.ID <= 0 {
		return false, fmt.Errorf("%w: item id must be positive", domain.ErrInvalidInput)
	}

	item.Name = strings.TrimSpace(item.Name)

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return false, fmt.Errorf("failed to update item: %w", err)
	}

	if updated {
		s.logger.InfoContext(ctx, "inventory item updated",
			slog.Int64("item_id", item.ID),
			slog.Int("quantity", item.Quantity))
	} else {
		s.logger.WarnContext(ctx, "update matched no rows",
			slog.Int64("item_id", item.ID),
			slog.String("owner_id", item.OwnerID))
	}

	return updated, nil
}

// DeleteItem removes the item with the given id and reports whether a row was
// removed. The match is by id only; route handlers verify ownership first.
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: item id must be positive", domain.ErrInvalidInput)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}

	if deleted {
		s.logger.InfoContext(ctx, "inventory item deleted", slog.Int64("item_id", id))
	}

	return deleted, nil
}

// ItemCountForOwner returns the number of items the owner holds.
func (s *InventoryService) ItemCountForOwner(ctx context.Context, ownerID string) (int64, error) {
	if err := s.policy.ValidateOwnerID(ownerID); err != nil {
		return 0, err
	}

	count, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// ItemExists reports whether the owner holds an item with the given id.
func (s *InventoryService) ItemExists(ctx context.Context, id int64, ownerID string) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	if err := s.policy.ValidateOwnerID(ownerID); err != nil {
		return false, err
	}

	exists, err := s.repo.Exists(ctx, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return exists, nil
}

// List retrieves an owner's items with filtering and pagination.
func (s *InventoryService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	if err := s.policy.ValidateOwnerID(params.OwnerID); err != nil {
		return nil, err
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 50
	}

	items, totalCount, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}

	totalPages := int(totalCount) / params.PageSize
	if int(totalCount)%params.PageSize > 0 {
		totalPages++
	}

	return &ports.ListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}
