//go:build integration
// +build integration

package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/shaynesullivan/stockshark-be/internal/adapters/db"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/test/helpers"
)

type InventoryRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   ports.InventoryRepository
	ctx    context.Context
}

func (s *InventoryRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewInventoryRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *InventoryRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *InventoryRepositorySuite) TestSave() {
	item := helpers.CreateTestItem()

	err := s.repo.Save(s.ctx, item)
	s.NoError(err)
	s.Positive(item.ID)

	items, err := s.repo.FindByOwner(s.ctx, item.OwnerID)
	s.NoError(err)
	s.Len(items, 1)
	s.Equal(item.Name, items[0].Name)
	s.Equal(item.Quantity, items[0].Quantity)
}

func (s *InventoryRepositorySuite) TestUpdate() {
	s.Run("matching_owner", func() {
		item := helpers.CreateTestItem()
		s.NoError(s.repo.Save(s.ctx, item))

		item.Name = "Bubble Wrap"
		item.Quantity = 40

		updated, err := s.repo.Update(s.ctx, item)
		s.NoError(err)
		s.True(updated)

		items, err := s.repo.FindByOwner(s.ctx, item.OwnerID)
		s.NoError(err)
		s.Require().Len(items, 1)
		s.Equal("Bubble Wrap", items[0].Name)
		s.Equal(40, items[0].Quantity)
	})

	s.Run("foreign_owner_does_not_match", func() {
		item := helpers.CreateTestItem()
		s.NoError(s.repo.Save(s.ctx, item))

		intruder := *item
		intruder.OwnerID = "someone_else"
		intruder.Quantity = 0

		updated, err := s.repo.Update(s.ctx, &intruder)
		s.NoError(err)
		s.False(updated)

		items, err := s.repo.FindByOwner(s.ctx, item.OwnerID)
		s.NoError(err)
		s.Require().Len(items, 1)
		s.Equal(item.Quantity, items[0].Quantity)
	})

	s.Run("missing_id_does_not_match", func() {
		item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
			i.ID = 999_999
		})

		updated, err := s.repo.Update(s.ctx, item)
		s.NoError(err)
		s.False(updated)
	})
}

func (s *InventoryRepositorySuite) TestDelete() {
	item := helpers.CreateTestItem()
	s.NoError(s.repo.Save(s.ctx, item))

	deleted, err := s.repo.Delete(s.ctx, item.ID)
	s.NoError(err)
	s.True(deleted)

	deleted, err = s.repo.Delete(s.ctx, item.ID)
	s.NoError(err)
	s.False(deleted)

	exists, err := s.repo.Exists(s.ctx, item.ID, item.OwnerID)
	s.NoError(err)
	s.False(exists)
}

func (s *InventoryRepositorySuite) TestFindByOwner() {
	s.Run("orders_by_name_ascending", func() {
		names := []string{"Zip Ties", "Box Cutter", "Mailing Labels"}
		for _, name := range names {
			item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
				i.Name = name
				i.OwnerID = "alice"
			})
			s.NoError(s.repo.Save(s.ctx, item))
		}

		items, err := s.repo.FindByOwner(s.ctx, "alice")
		s.NoError(err)
		s.Require().Len(items, 3)
		s.Equal("Box Cutter", items[0].Name)
		s.Equal("Mailing Labels", items[1].Name)
		s.Equal("Zip Ties", items[2].Name)
	})

	s.Run("excludes_other_owners", func() {
		helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
		helpers.SeedTestItems(s.T(), s.testDB.PgxPool, helpers.CreateTestItems(2, "alice"))
		helpers.SeedTestItems(s.T(), s.testDB.PgxPool, helpers.CreateTestItems(3, "bob"))

		items, err := s.repo.FindByOwner(s.ctx, "alice")
		s.NoError(err)
		s.Len(items, 2)
	})

	s.Run("unknown_owner_gets_empty_non_nil_slice", func() {
		items, err := s.repo.FindByOwner(s.ctx, "nobody")
		s.NoError(err)
		s.NotNil(items)
		s.Empty(items)
	})
}

func (s *InventoryRepositorySuite) TestFindAll_Pagination() {
	for i := 0; i < 25; i++ {
		item := helpers.CreateTestItem(func(it *domain.InventoryItem) {
			it.Name = fmt.Sprintf("Item %02d", i)
			it.OwnerID = "alice"
		})
		s.NoError(s.repo.Save(s.ctx, item))
	}

	params := ports.ListParams{
		OwnerID:  "alice",
		Page:     1,
		PageSize: 10,
	}

	items, totalCount, err := s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(items, 10)
	s.Equal(int64(25), totalCount)
	s.Equal("Item 00", items[0].Name)

	params.Page = 3
	items, totalCount, err = s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(items, 5)
	s.Equal(int64(25), totalCount)
	s.Equal("Item 20", items[0].Name)
}

func (s *InventoryRepositorySuite) TestFindAll_Search() {
	names := []string{"Victorian Tea Set", "Packing Tape", "Tape Dispenser"}
	for _, name := range names {
		item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
			i.Name = name
			i.OwnerID = "alice"
		})
		s.NoError(s.repo.Save(s.ctx, item))
	}

	params := ports.ListParams{
		OwnerID:  "alice",
		Search:   "tape",
		Page:     1,
		PageSize: 10,
	}

	items, totalCount, err := s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(items, 2)
	s.Equal(int64(2), totalCount)
}

func (s *InventoryRepositorySuite) TestFindAll_Sorting() {
	quantities := []int{30, 10, 20}
	for i, qty := range quantities {
		item := helpers.CreateTestItem(func(it *domain.InventoryItem) {
			it.Name = fmt.Sprintf("Item %d", i)
			it.Quantity = qty
			it.OwnerID = "alice"
		})
		s.NoError(s.repo.Save(s.ctx, item))
	}

	params := ports.ListParams{
		OwnerID:   "alice",
		Page:      1,
		PageSize:  10,
		SortBy:    "quantity",
		SortOrder: "desc",
	}

	items, _, err := s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Require().Len(items, 3)
	s.Equal(30, items[0].Quantity)
	s.Equal(10, items[2].Quantity)
}

func (s *InventoryRepositorySuite) TestCountByOwner() {
	helpers.SeedTestItems(s.T(), s.testDB.PgxPool, helpers.CreateTestItems(4, "alice"))
	helpers.SeedTestItems(s.T(), s.testDB.PgxPool, helpers.CreateTestItems(2, "bob"))

	count, err := s.repo.CountByOwner(s.ctx, "alice")
	s.NoError(err)
	s.Equal(int64(4), count)

	count, err = s.repo.CountByOwner(s.ctx, "nobody")
	s.NoError(err)
	s.Zero(count)
}

func (s *InventoryRepositorySuite) TestExists() {
	item := helpers.CreateTestItem()
	s.NoError(s.repo.Save(s.ctx, item))

	exists, err := s.repo.Exists(s.ctx, item.ID, item.OwnerID)
	s.NoError(err)
	s.True(exists)

	exists, err = s.repo.Exists(s.ctx, item.ID, "someone_else")
	s.NoError(err)
	s.False(exists)
}

func (s *InventoryRepositorySuite) TestConcurrentSaves() {
	done := make(chan bool, 10)

	for i := 0; i < 10; i++ {
		go func(idx int) {
			item := helpers.CreateTestItem(func(it *domain.InventoryItem) {
				it.Name = fmt.Sprintf("Concurrent Item %d", idx)
				it.OwnerID = "alice"
			})
			err := s.repo.Save(context.Background(), item)
			s.NoError(err)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	count, err := s.repo.CountByOwner(s.ctx, "alice")
	s.NoError(err)
	s.Equal(int64(10), count)
}

func TestInventoryRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(InventoryRepositorySuite))
}
