package sales

import (
	"context"

	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDeductionRepository defines the interface for the deduction ledger
type SaleDeductionRepository interface {
	// FindByID finds a deduction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SaleDeduction, error)

	// FindAll finds deductions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SaleDeduction, error)

	// FindByLot finds all deductions against a coffee lot
	FindByLot(ctx context.Context, coffeeLotID uuid.UUID) ([]SaleDeduction, error)

	// SumByLot returns total deducted kilograms keyed by coffee lot ID
	SumByLot(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)

	// Create appends a new deduction (no update allowed)
	Create(ctx context.Context, deduction *SaleDeduction) error

	// Count counts deductions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
