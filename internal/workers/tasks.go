// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names routed through asynq.
const (
	TypeLowStockNotify = "inventory:low_stock"
	TypeCleanupOrphans = "maintenance:cleanup_orphans"
)

// LowStockPayload carries a low stock notification.
type LowStockPayload struct {
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	OwnerID   string `json:"owner_id"`
	Threshold int    `json:"threshold"`
}

// NewLowStockTask builds a low stock notification task.
func NewLowStockTask(payload LowStockPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal low stock payload: %w", err)
	}
	return asynq.NewTask(TypeLowStockNotify, b), nil
}

// NewCleanupOrphansTask builds an orphaned item cleanup task.
func NewCleanupOrphansTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupOrphans, nil)
}
