package batch

import (
	"context"

	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryBatchRepository defines the interface for batch persistence
type InventoryBatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryBatch, error)

	// FindByCode finds a batch by its batch code
	FindByCode(ctx context.Context, batchCode string) (*InventoryBatch, error)

	// FindAll finds batches matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryBatch, error)

	// FindOpenByType finds the batch currently accepting lots for a
	// coffee type: status filling or active with total under capacity.
	// Returns shared.ErrNotFound when no open batch exists.
	FindOpenByType(ctx context.Context, coffeeType string) (*InventoryBatch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, b *InventoryBatch) error

	// Count counts batches matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextCode generates the next unique batch code for a coffee type.
	// Codes are of the form PREFIX-YYYYMMDD-NNN; uniqueness is backed
	// by a unique index on batch_code.
	NextCode(ctx context.Context, coffeeType string) (string, error)
}

// BatchSourceRepository defines the interface for batch source persistence
type BatchSourceRepository interface {
	// FindByBatch finds all source rows for a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]BatchSource, error)

	// LinkedLotIDs returns the set of coffee lot IDs already linked to
	// any batch, the idempotency guard for the aggregator.
	LinkedLotIDs(ctx context.Context) (map[uuid.UUID]bool, error)

	// Create appends a new source row (no update allowed)
	Create(ctx context.Context, source *BatchSource) error
}
