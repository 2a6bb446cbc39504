// internal/workers/lowstock_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shaynesullivan/stockshark-be/internal/pkg/config"
)

// LowStockProcessor handles low stock notifications
type LowStockProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewLowStockProcessor creates a new low stock processor
func NewLowStockProcessor(config *config.Config, logger *slog.Logger) *LowStockProcessor {
	return &LowStockProcessor{
		config: config,
		logger: logger.With(slog.String("processor", "low_stock")),
	}
}

// ProcessTask handles a queued low stock notification. Delivery is a log
// record for now; push notification delivery hangs off this hook.
func (p *LowStockProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload LowStockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.OwnerID == "" {
		return fmt.Errorf("low stock payload missing owner id")
	}

	p.logger.InfoContext(ctx, "low stock alert",
		slog.Int64("item_id", payload.ItemID),
		slog.String("item_name", payload.ItemName),
		slog.Int("quantity", payload.Quantity),
		slog.Int("threshold", payload.Threshold),
		slog.String("owner_id", payload.OwnerID))

	return nil
}
