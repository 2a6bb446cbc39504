package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/shaynesullivan/stockshark-be/internal/adapters/db"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/internal/core/services"
	"github.com/shaynesullivan/stockshark-be/test/helpers"
)

func BenchmarkInventoryOperations(b *testing.B) {
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	repo := db.NewInventoryRepository(testDB.Database, helpers.TestLogger())
	service := services.NewInventoryService(repo, helpers.DefaultItemPolicy(), helpers.TestLogger())
	ctx := context.Background()

	b.Run("Create", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			item := domain.NewItem(fmt.Sprintf("Benchmark Item %d", i), i%100, "bench_owner")
			_, _ = service.AddItem(ctx, item)
		}
	})

	// Pre-create items for read benchmarks
	for i := 0; i < 100; i++ {
		item := domain.NewItem(fmt.Sprintf("Seed Item %03d", i), i, "read_owner")
		_, _ = service.AddItem(ctx, item)
	}

	b.Run("FindByOwner", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.ItemsForOwner(ctx, "read_owner")
		}
	})

	b.Run("List", func(b *testing.B) {
		params := ports.ListParams{
			OwnerID:  "read_owner",
			Page:     1,
			PageSize: 50,
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.List(ctx, params)
		}
	})

	b.Run("ListWithSearch", func(b *testing.B) {
		params := ports.ListParams{
			OwnerID:  "read_owner",
			Search:   "Seed",
			Page:     1,
			PageSize: 50,
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.List(ctx, params)
		}
	})
}

func BenchmarkCredentialOperations(b *testing.B) {
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	repo := db.NewAccountRepository(testDB.Database, helpers.TestLogger())
	service := services.NewCredentialService(repo, helpers.DefaultCredentialPolicy(), helpers.TestLogger())
	ctx := context.Background()

	_, _ = service.RegisterUser(ctx, "bench_user", "bench-password")

	b.Run("Authenticate", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.Authenticate(ctx, "bench_user", "bench-password")
		}
	})

	b.Run("UsernameExists", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.UsernameExists(ctx, "bench_user")
		}
	})
}
