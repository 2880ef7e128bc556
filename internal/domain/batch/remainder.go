package batch

import (
	"sort"
	"time"

	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoiseFloorKg is the default threshold below which a lot's remaining
// quantity is treated as fully depleted. It absorbs floating-point
// residue from the historical ledger, not a business minimum.
var NoiseFloorKg = decimal.NewFromInt(1)

// LotRemainder is a coffee lot together with its unsold remaining
// quantity, the unit the batch allocator works in.
type LotRemainder struct {
	LotID        uuid.UUID
	CoffeeType   string // normalized
	Remaining    decimal.Decimal
	SupplierName string
	ReceivedDate time.Time
	LotCreatedAt time.Time
}

// RemainderResult holds the outcome of the remaining-quantity pass.
// OversoldLotIDs lists lots whose deductions exceed their original
// quantity; they are excluded from allocation but surfaced so the
// sales ledger can be audited.
type RemainderResult struct {
	Remainders     []LotRemainder
	OversoldLotIDs []uuid.UUID
}

// ComputeRemainders computes, for every inventory-status lot,
// remaining = original - sum(deductions), dropping lots at or below
// the noise floor. A lot with no deductions keeps its full quantity.
func ComputeRemainders(lots []procurement.CoffeeLot, deductedByLot map[uuid.UUID]decimal.Decimal, noiseFloor decimal.Decimal) RemainderResult {
	result := RemainderResult{
		Remainders: make([]LotRemainder, 0, len(lots)),
	}
	for _, lot := range lots {
		if !lot.IsInInventory() {
			continue
		}
		remaining := lot.Kilograms.Sub(deductedByLot[lot.ID])
		if remaining.IsNegative() {
			result.OversoldLotIDs = append(result.OversoldLotIDs, lot.ID)
			continue
		}
		if remaining.LessThanOrEqual(noiseFloor) {
			continue
		}
		result.Remainders = append(result.Remainders, LotRemainder{
			LotID:        lot.ID,
			CoffeeType:   NormalizeCoffeeType(lot.CoffeeType),
			Remaining:    remaining,
			SupplierName: lot.SupplierName,
			ReceivedDate: lot.ReceivedDate,
			LotCreatedAt: lot.CreatedAt,
		})
	}
	return result
}

// FilterUnlinked drops lots already referenced by a batch source, so
// a repeated run only sees newly received stock.
func FilterUnlinked(remainders []LotRemainder, linkedLotIDs map[uuid.UUID]bool) []LotRemainder {
	unlinked := make([]LotRemainder, 0, len(remainders))
	for _, r := range remainders {
		if !linkedLotIDs[r.LotID] {
			unlinked = append(unlinked, r)
		}
	}
	return unlinked
}

// GroupByType groups remainders by normalized coffee type, each group
// sorted FIFO: received date first, then lot creation order.
func GroupByType(remainders []LotRemainder) map[string][]LotRemainder {
	groups := make(map[string][]LotRemainder)
	for _, r := range remainders {
		groups[r.CoffeeType] = append(groups[r.CoffeeType], r)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].ReceivedDate.Equal(group[j].ReceivedDate) {
				return group[i].ReceivedDate.Before(group[j].ReceivedDate)
			}
			return group[i].LotCreatedAt.Before(group[j].LotCreatedAt)
		})
	}
	return groups
}
