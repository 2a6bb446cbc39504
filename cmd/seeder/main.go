// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"

	"github.com/shaynesullivan/stockshark-be/internal/adapters/db"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/services"
	"github.com/shaynesullivan/stockshark-be/internal/pkg/config"
	"github.com/shaynesullivan/stockshark-be/internal/pkg/logger"
)

var itemNames = []string{
	"AA Batteries", "USB-C Cable", "Label Printer", "Packing Tape",
	"Bubble Wrap Roll", "Shipping Boxes S", "Shipping Boxes M",
	"Thermal Labels", "Box Cutter", "Hand Scanner",
}

func main() {
	accounts := flag.Int("accounts", 3, "number of demo accounts to create")
	itemsPer := flag.Int("items", 10, "number of items per account")
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: 5,
		MinConnections: 1,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
	}, slogger); err != nil {
		slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	accountRepo := db.NewAccountRepository(database, slogger)
	inventoryRepo := db.NewInventoryRepository(database, slogger)

	credentials := services.NewCredentialService(accountRepo, domain.CredentialPolicy{
		MinUsernameLength: cfg.Policy.MinUsernameLength,
		MaxUsernameLength: cfg.Policy.MaxUsernameLength,
		MinPasswordLength: cfg.Policy.MinPasswordLength,
		MaxPasswordLength: cfg.Policy.MaxPasswordLength,
	}, slogger)

	inventory := services.NewInventoryService(inventoryRepo, domain.ItemPolicy{
		MaxNameLength:    cfg.Policy.MaxItemNameLength,
		MinQuantity:      cfg.Policy.MinItemQuantity,
		MaxQuantity:      cfg.Policy.MaxItemQuantity,
		MaxOwnerIDLength: cfg.Policy.MaxOwnerIDLength,
	}, slogger)

	for i := 1; i <= *accounts; i++ {
		username := fmt.Sprintf("demo_user_%d", i)
		password := fmt.Sprintf("demo-password-%d", i)

		id, err := credentials.RegisterUser(ctx, username, password)
		if err != nil {
			slogger.Warn("skipping account",
				slog.String("username", username),
				slog.String("error", err.Error()))
			continue
		}

		slogger.Info("account created",
			slog.Int64("id", id),
			slog.String("username", username))

		ownerID := strconv.FormatInt(id, 10)

		for j := 0; j < *itemsPer; j++ {
			name := fmt.Sprintf("%s #%d", itemNames[j%len(itemNames)], j+1)
			item := domain.NewItem(name, rand.Intn(50), ownerID)

			itemID, err := inventory.AddItem(ctx, item)
			if err != nil {
				slogger.Warn("skipping item",
					slog.String("name", name),
					slog.String("error", err.Error()))
				continue
			}

			slogger.Debug("item created",
				slog.Int64("id", itemID),
				slog.String("owner_id", ownerID))
		}
	}

	slogger.Info("seeding complete")
}
