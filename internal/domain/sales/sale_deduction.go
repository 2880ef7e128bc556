package sales

import (
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDeduction links a sale to the coffee lot it drew stock from.
// Records are append-only; corrections are made by compensating entries
// in the sales subsystem, never by editing a deduction in place.
type SaleDeduction struct {
	shared.BaseEntity
	CoffeeLotID uuid.UUID
	QuantityKg  decimal.Decimal
	Reference   string // sale order number or invoice reference
}

// NewSaleDeduction creates a new deduction against a lot
func NewSaleDeduction(coffeeLotID uuid.UUID, quantityKg decimal.Decimal, reference string) (*SaleDeduction, error) {
	if coffeeLotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "coffee lot id is required")
	}
	if !quantityKg.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
	}
	return &SaleDeduction{
		BaseEntity:  shared.NewBaseEntity(),
		CoffeeLotID: coffeeLotID,
		QuantityKg:  quantityKg,
		Reference:   reference,
	}, nil
}
