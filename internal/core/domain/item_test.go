package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
)

func testItemPolicy() domain.ItemPolicy {
	return domain.ItemPolicy{
		MaxNameLength:    120,
		MinQuantity:      0,
		MaxQuantity:      1_000_000,
		MaxOwnerIDLength: 64,
	}
}

func TestNewItem(t *testing.T) {
	item := domain.NewItem("Packing Tape", 12, "alice")

	assert.Equal(t, domain.NewItemID, item.ID)
	assert.True(t, item.IsNew())
	assert.Equal(t, "Packing Tape", item.Name)
	assert.Equal(t, 12, item.Quantity)
	assert.Equal(t, "alice", item.OwnerID)
}

func TestInventoryItem_Validate(t *testing.T) {
	policy := testItemPolicy()

	tests := []struct {
		name    string
		item    *domain.InventoryItem
		wantErr bool
	}{
		{
			name:    "valid",
			item:    domain.NewItem("Packing Tape", 12, "alice"),
			wantErr: false,
		},
		{
			name:    "zero quantity allowed",
			item:    domain.NewItem("Packing Tape", 0, "alice"),
			wantErr: false,
		},
		{
			name:    "maximum quantity allowed",
			item:    domain.NewItem("Packing Tape", 1_000_000, "alice"),
			wantErr: false,
		},
		{
			name:    "empty name",
			item:    domain.NewItem("", 12, "alice"),
			wantErr: true,
		},
		{
			name:    "whitespace name",
			item:    domain.NewItem("   ", 12, "alice"),
			wantErr: true,
		},
		{
			name:    "name too long",
			item:    domain.NewItem(strings.Repeat("x", 121), 12, "alice"),
			wantErr: true,
		},
		{
			name:    "negative quantity",
			item:    domain.NewItem("Packing Tape", -1, "alice"),
			wantErr: true,
		},
		{
			name:    "quantity over maximum",
			item:    domain.NewItem("Packing Tape", 1_000_001, "alice"),
			wantErr: true,
		},
		{
			name:    "empty owner",
			item:    domain.NewItem("Packing Tape", 12, ""),
			wantErr: true,
		},
		{
			name:    "owner too long",
			item:    domain.NewItem("Packing Tape", 12, strings.Repeat("o", 65)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate(policy)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInventoryItem_IsNew(t *testing.T) {
	item := domain.NewItem("Packing Tape", 12, "alice")
	assert.True(t, item.IsNew())

	item.ID = 42
	assert.False(t, item.IsNew())
}
