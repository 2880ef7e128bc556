package procurement

import (
	"context"

	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CoffeeLotRepository defines the interface for coffee lot persistence
type CoffeeLotRepository interface {
	// FindByID finds a coffee lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CoffeeLot, error)

	// FindAll finds coffee lots matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]CoffeeLot, error)

	// FindInInventory finds all lots still in inventory status, ordered
	// by received date then creation time (oldest first)
	FindInInventory(ctx context.Context) ([]CoffeeLot, error)

	// Save creates or updates a coffee lot
	Save(ctx context.Context, lot *CoffeeLot) error

	// Delete deletes a coffee lot
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts coffee lots matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
