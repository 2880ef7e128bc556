package batch

import (
	"testing"
	"time"

	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLot(t *testing.T, coffeeType string, kg int64, received time.Time) procurement.CoffeeLot {
	t.Helper()
	lot, err := procurement.NewCoffeeLot(coffeeType, decimal.NewFromInt(kg), "Kagera Coop", received)
	require.NoError(t, err)
	return *lot
}

func TestComputeRemainders_NoDeductions(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []procurement.CoffeeLot{
		newTestLot(t, "arabica", 3000, jan1),
		newTestLot(t, "robusta", 1200, jan1),
	}

	result := ComputeRemainders(lots, nil, NoiseFloorKg)

	require.Len(t, result.Remainders, 2)
	assert.Empty(t, result.OversoldLotIDs)
	assert.True(t, result.Remainders[0].Remaining.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, "Arabica", result.Remainders[0].CoffeeType)
}

func TestComputeRemainders_SubtractsDeductions(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lot := newTestLot(t, "arabica", 3000, jan1)
	deducted := map[uuid.UUID]decimal.Decimal{
		lot.ID: decimal.NewFromInt(1800),
	}

	result := ComputeRemainders([]procurement.CoffeeLot{lot}, deducted, NoiseFloorKg)

	require.Len(t, result.Remainders, 1)
	assert.True(t, result.Remainders[0].Remaining.Equal(decimal.NewFromInt(1200)))
}

func TestComputeRemainders_OversoldLotIsExcludedAndReported(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lot := newTestLot(t, "arabica", 100, jan1)
	deducted := map[uuid.UUID]decimal.Decimal{
		lot.ID: decimal.NewFromInt(150),
	}

	result := ComputeRemainders([]procurement.CoffeeLot{lot}, deducted, NoiseFloorKg)

	assert.Empty(t, result.Remainders)
	require.Len(t, result.OversoldLotIDs, 1)
	assert.Equal(t, lot.ID, result.OversoldLotIDs[0])
}

func TestComputeRemainders_NoiseFloor(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lot := newTestLot(t, "arabica", 100, jan1)
	// 99.5 kg deducted leaves 0.5 kg, below the 1 kg floor
	deducted := map[uuid.UUID]decimal.Decimal{
		lot.ID: decimal.NewFromFloat(99.5),
	}

	result := ComputeRemainders([]procurement.CoffeeLot{lot}, deducted, NoiseFloorKg)

	assert.Empty(t, result.Remainders)
	assert.Empty(t, result.OversoldLotIDs)
}

func TestComputeRemainders_SkipsNonInventoryLots(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sold := newTestLot(t, "arabica", 500, jan1)
	sold.MarkSold()

	result := ComputeRemainders([]procurement.CoffeeLot{sold}, nil, NoiseFloorKg)

	assert.Empty(t, result.Remainders)
}

func TestFilterUnlinked(t *testing.T) {
	linked := LotRemainder{LotID: uuid.New()}
	unlinked := LotRemainder{LotID: uuid.New()}

	filtered := FilterUnlinked([]LotRemainder{linked, unlinked}, map[uuid.UUID]bool{
		linked.LotID: true,
	})

	require.Len(t, filtered, 1)
	assert.Equal(t, unlinked.LotID, filtered[0].LotID)
}

func TestGroupByType_MergesCaseVariantsAndSortsFIFO(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan5 := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	lots := []procurement.CoffeeLot{
		newTestLot(t, "ROBUSTA", 1000, jan10),
		newTestLot(t, "robusta", 3000, jan1),
		newTestLot(t, "Robusta", 2500, jan5),
		newTestLot(t, "arabica", 800, jan1),
	}
	result := ComputeRemainders(lots, nil, NoiseFloorKg)

	groups := GroupByType(result.Remainders)

	require.Len(t, groups, 2)
	robusta := groups["Robusta"]
	require.Len(t, robusta, 3)
	assert.Equal(t, jan1, robusta[0].ReceivedDate)
	assert.Equal(t, jan5, robusta[1].ReceivedDate)
	assert.Equal(t, jan10, robusta[2].ReceivedDate)
	assert.Len(t, groups["Arabica"], 1)
}

func TestGroupByType_SameDateFallsBackToCreationOrder(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := newTestLot(t, "arabica", 100, jan1)
	second := newTestLot(t, "arabica", 200, jan1)
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	result := ComputeRemainders([]procurement.CoffeeLot{second, first}, nil, NoiseFloorKg)
	groups := GroupByType(result.Remainders)

	arabica := groups["Arabica"]
	require.Len(t, arabica, 2)
	assert.Equal(t, first.ID, arabica[0].LotID)
	assert.Equal(t, second.ID, arabica[1].LotID)
}
