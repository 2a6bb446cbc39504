// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shaynesullivan/stockshark-be/internal/adapters/db"
)

// CleanupProcessor handles periodic maintenance tasks
type CleanupProcessor struct {
	db     *db.Database
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(db *db.Database, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		db:     db,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupOrphanedItems removes items whose owner account no longer exists.
// Owner ids reference account ids by value, so account deletion can leave
// rows behind.
func (p *CleanupProcessor) CleanupOrphanedItems(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up orphaned items")

	query := `DELETE FROM items
		WHERE NOT EXISTS (
			SELECT 1 FROM accounts WHERE accounts.id::text = items.owner_id
		)`

	result, err := p.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to cleanup orphaned items: %w", err)
	}

	p.logger.InfoContext(ctx, "orphaned items cleaned up",
		slog.Int64("rows_deleted", result.RowsAffected()))

	return nil
}
