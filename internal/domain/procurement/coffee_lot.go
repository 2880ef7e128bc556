package procurement

import (
	"time"

	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LotStatus represents the lifecycle status of a coffee lot
type LotStatus string

const (
	// LotStatusInventory means the lot still holds unsold stock
	LotStatusInventory LotStatus = "inventory"
	// LotStatusSold means the lot has been fully drawn down by sales
	LotStatusSold LotStatus = "sold"
)

// CoffeeLot is a quantity of coffee of a given type received from a
// supplier on a date. The original quantity is never mutated; sales
// deductions against the lot are tracked separately in the deduction
// ledger.
type CoffeeLot struct {
	shared.BaseEntity
	CoffeeType   string // free text as entered at the store desk
	Kilograms    decimal.Decimal
	SupplierName string
	ReceivedDate time.Time
	Status       LotStatus
}

// NewCoffeeLot creates a new coffee lot in inventory status
func NewCoffeeLot(coffeeType string, kilograms decimal.Decimal, supplierName string, receivedDate time.Time) (*CoffeeLot, error) {
	if coffeeType == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "coffee type is required")
	}
	if !kilograms.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "kilograms must be positive")
	}
	return &CoffeeLot{
		BaseEntity:   shared.NewBaseEntity(),
		CoffeeType:   coffeeType,
		Kilograms:    kilograms,
		SupplierName: supplierName,
		ReceivedDate: receivedDate,
		Status:       LotStatusInventory,
	}, nil
}

// IsInInventory returns true while the lot still counts toward stock
func (l *CoffeeLot) IsInInventory() bool {
	return l.Status == LotStatusInventory
}

// MarkSold flips the lot out of inventory once fully drawn down
func (l *CoffeeLot) MarkSold() {
	l.Status = LotStatusSold
	l.Touch()
}
