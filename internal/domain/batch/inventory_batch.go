package batch

import (
	"time"

	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle status of an inventory batch
type BatchStatus string

const (
	// BatchStatusFilling means the batch is still accumulating lots
	BatchStatusFilling BatchStatus = "filling"
	// BatchStatusActive means the batch reached its target capacity
	BatchStatusActive BatchStatus = "active"
	// BatchStatusSoldOut means the batch has been fully depleted by sales
	BatchStatusSoldOut BatchStatus = "sold_out"
)

// DefaultTargetCapacity is the standard rolling batch size in kilograms
var DefaultTargetCapacity = decimal.NewFromInt(5000)

// InventoryBatch is a rolling container aggregating remaining stock of
// one coffee type, capped at a target capacity. A batch may exceed its
// capacity by the overflow of the single lot that closed it; lots are
// never split across batches.
type InventoryBatch struct {
	shared.BaseEntity
	BatchCode          string
	CoffeeType         string // normalized display form
	TargetCapacity     decimal.Decimal
	TotalKilograms     decimal.Decimal
	RemainingKilograms decimal.Decimal
	Status             BatchStatus
	BatchDate          time.Time

	Sources []BatchSource
}

// NewInventoryBatch creates a new empty batch in filling status
func NewInventoryBatch(batchCode, coffeeType string, targetCapacity decimal.Decimal, batchDate time.Time) *InventoryBatch {
	return &InventoryBatch{
		BaseEntity:         shared.NewBaseEntity(),
		BatchCode:          batchCode,
		CoffeeType:         coffeeType,
		TargetCapacity:     targetCapacity,
		TotalKilograms:     decimal.Zero,
		RemainingKilograms: decimal.Zero,
		Status:             BatchStatusFilling,
		BatchDate:          batchDate,
	}
}

// HasCapacity returns true while the batch can still accept lots
func (b *InventoryBatch) HasCapacity() bool {
	return b.TotalKilograms.LessThan(b.TargetCapacity)
}

// IsOpen returns true if the batch can be selected as the fill target
// for new lots (filling or active but still under capacity)
func (b *InventoryBatch) IsOpen() bool {
	return (b.Status == BatchStatusFilling || b.Status == BatchStatusActive) && b.HasCapacity()
}

// ReceiveLot adds a lot's full remaining quantity to the batch and
// returns the source row recording the contribution. The whole
// remainder is always taken, even when it pushes the batch past its
// target capacity; the batch flips to active once at or over capacity.
func (b *InventoryBatch) ReceiveLot(lot LotRemainder) *BatchSource {
	source := NewBatchSource(b.ID, lot)
	b.Sources = append(b.Sources, *source)
	b.TotalKilograms = b.TotalKilograms.Add(lot.Remaining)
	b.RemainingKilograms = b.RemainingKilograms.Add(lot.Remaining)
	if b.TotalKilograms.GreaterThanOrEqual(b.TargetCapacity) {
		b.Status = BatchStatusActive
	}
	b.Touch()
	return source
}

// DeductSale reduces the batch's remaining kilograms when stock is
// sold out of the batch. Returns the actual quantity deducted.
func (b *InventoryBatch) DeductSale(quantityKg decimal.Decimal) decimal.Decimal {
	deducted := decimal.Min(quantityKg, b.RemainingKilograms)
	b.RemainingKilograms = b.RemainingKilograms.Sub(deducted)
	if b.RemainingKilograms.IsZero() {
		b.Status = BatchStatusSoldOut
	}
	b.Touch()
	return deducted
}
