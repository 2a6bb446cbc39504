package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaynesullivan/stockshark-be/internal/adapters/db"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/test/helpers"
)

func TestInventoryRepository_SaveAndScan(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database tests in short mode")
	}

	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewInventoryRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	item := helpers.CreateTestItem()
	err := repo.Save(ctx, item)
	require.NoError(t, err)
	assert.Positive(t, item.ID)

	items, err := repo.FindByOwner(ctx, item.OwnerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, item.Name, items[0].Name)
	assert.Equal(t, item.Quantity, items[0].Quantity)
	assert.Equal(t, item.OwnerID, items[0].OwnerID)
}

func TestInventoryRepository_UpdatePredicate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database tests in short mode")
	}

	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewInventoryRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	item := helpers.CreateTestItem()
	require.NoError(t, repo.Save(ctx, item))

	tests := []struct {
		name        string
		mutate      func(*domain.InventoryItem)
		wantMatched bool
	}{
		{
			name:        "own_item_matches",
			mutate:      func(i *domain.InventoryItem) { i.Quantity = 99 },
			wantMatched: true,
		},
		{
			name: "foreign_owner_does_not_match",
			mutate: func(i *domain.InventoryItem) {
				i.OwnerID = "someone_else"
			},
			wantMatched: false,
		},
		{
			name: "unknown_id_does_not_match",
			mutate: func(i *domain.InventoryItem) {
				i.ID = 999_999
			},
			wantMatched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := *item
			tt.mutate(&candidate)

			matched, err := repo.Update(ctx, &candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatched, matched)
		})
	}
}
