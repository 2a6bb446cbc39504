// internal/core/domain/item.go
package domain

import (
	"fmt"
	"strings"
)

// NewItemID marks an item that has not been persisted yet. The store assigns
// the real id on first insert.
const NewItemID int64 = -1

// ItemPolicy carries the tunable bounds for inventory item validation.
type ItemPolicy struct {
	MaxNameLength    int
	MinQuantity      int
	MaxQuantity      int
	MaxOwnerIDLength int
}

// InventoryItem represents a single inventory row. An item belongs to exactly
// one owner for its entire lifetime; OwnerID references the credential store's
// account id by value and is never updated after creation.
type InventoryItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	OwnerID  string `json:"owner_id"`
}

// NewItem builds a not-yet-persisted item.
func NewItem(name string, quantity int, ownerID string) *InventoryItem {
	return &InventoryItem{
		ID:       NewItemID,
		Name:     name,
		Quantity: quantity,
		OwnerID:  ownerID,
	}
}

// IsNew reports whether the item still carries the unsaved-id sentinel.
func (i *InventoryItem) IsNew() bool {
	return i.ID == NewItemID
}

// Validate checks every field against the policy. It is called both before
// insert and before update, so an item read back from storage always passes.
func (i *InventoryItem) Validate(p ItemPolicy) error {
	if err := p.ValidateName(i.Name); err != nil {
		return err
	}
	if err := p.ValidateQuantity(i.Quantity); err != nil {
		return err
	}
	return p.ValidateOwnerID(i.OwnerID)
}

// ValidateName checks an item display name.
func (p ItemPolicy) ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: item name cannot be empty", ErrInvalidInput)
	}
	if len(name) > p.MaxNameLength {
		return fmt.Errorf("%w: item name cannot exceed %d characters", ErrInvalidInput, p.MaxNameLength)
	}
	return nil
}

// ValidateQuantity checks the configured inclusive quantity range.
func (p ItemPolicy) ValidateQuantity(quantity int) error {
	if quantity < p.MinQuantity || quantity > p.MaxQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d",
			ErrInvalidInput, p.MinQuantity, p.MaxQuantity)
	}
	return nil
}

// ValidateOwnerID checks the owner reference.
func (p ItemPolicy) ValidateOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: owner id cannot be empty", ErrInvalidInput)
	}
	if len(ownerID) > p.MaxOwnerIDLength {
		return fmt.Errorf("%w: owner id cannot exceed %d characters", ErrInvalidInput, p.MaxOwnerIDLength)
	}
	return nil
}
