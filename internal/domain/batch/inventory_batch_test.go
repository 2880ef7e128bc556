package batch

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRemainder(kg int64) LotRemainder {
	return LotRemainder{
		LotID:        uuid.New(),
		CoffeeType:   "Arabica",
		Remaining:    decimal.NewFromInt(kg),
		SupplierName: "Mbeya Estate",
		ReceivedDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewInventoryBatch(t *testing.T) {
	b := NewInventoryBatch("ARA-20260105-001", "Arabica", DefaultTargetCapacity, time.Now())

	assert.Equal(t, BatchStatusFilling, b.Status)
	assert.True(t, b.TotalKilograms.IsZero())
	assert.True(t, b.RemainingKilograms.IsZero())
	assert.True(t, b.HasCapacity())
	assert.True(t, b.IsOpen())
}

func TestInventoryBatch_ReceiveLot(t *testing.T) {
	b := NewInventoryBatch("ARA-20260105-001", "Arabica", DefaultTargetCapacity, time.Now())
	lot := newTestRemainder(4800)

	source := b.ReceiveLot(lot)

	require.NotNil(t, source)
	assert.Equal(t, b.ID, source.BatchID)
	assert.Equal(t, lot.LotID, source.CoffeeLotID)
	assert.True(t, source.Kilograms.Equal(decimal.NewFromInt(4800)))
	assert.Equal(t, "Mbeya Estate", source.SupplierName)
	assert.True(t, b.TotalKilograms.Equal(decimal.NewFromInt(4800)))
	assert.True(t, b.RemainingKilograms.Equal(decimal.NewFromInt(4800)))
	assert.Equal(t, BatchStatusFilling, b.Status)
	assert.Len(t, b.Sources, 1)
}

func TestInventoryBatch_ReceiveLot_FlipsActiveAtCapacity(t *testing.T) {
	b := NewInventoryBatch("ARA-20260105-001", "Arabica", DefaultTargetCapacity, time.Now())

	b.ReceiveLot(newTestRemainder(3000))
	assert.Equal(t, BatchStatusFilling, b.Status)
	assert.True(t, b.IsOpen())

	// The closing lot is added whole even though it overflows capacity
	b.ReceiveLot(newTestRemainder(2500))
	assert.True(t, b.TotalKilograms.Equal(decimal.NewFromInt(5500)))
	assert.Equal(t, BatchStatusActive, b.Status)
	assert.False(t, b.IsOpen())
}

func TestInventoryBatch_ReceiveLot_ExactCapacity(t *testing.T) {
	b := NewInventoryBatch("ROB-20260105-001", "Robusta", DefaultTargetCapacity, time.Now())

	b.ReceiveLot(newTestRemainder(5000))

	assert.Equal(t, BatchStatusActive, b.Status)
	assert.False(t, b.HasCapacity())
}

func TestInventoryBatch_DeductSale(t *testing.T) {
	b := NewInventoryBatch("ARA-20260105-001", "Arabica", DefaultTargetCapacity, time.Now())
	b.ReceiveLot(newTestRemainder(5000))

	deducted := b.DeductSale(decimal.NewFromInt(2000))
	assert.True(t, deducted.Equal(decimal.NewFromInt(2000)))
	assert.True(t, b.RemainingKilograms.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, BatchStatusActive, b.Status)

	// Deducting more than remains yields only what the batch holds
	deducted = b.DeductSale(decimal.NewFromInt(4000))
	assert.True(t, deducted.Equal(decimal.NewFromInt(3000)))
	assert.True(t, b.RemainingKilograms.IsZero())
	assert.Equal(t, BatchStatusSoldOut, b.Status)
}
