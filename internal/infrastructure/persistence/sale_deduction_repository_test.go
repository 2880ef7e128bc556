package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSaleDeductionRepository_SumByLot(t *testing.T) {
	t.Run("aggregates deductions per lot", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSaleDeductionRepository(db)

		lotA := uuid.New()
		lotB := uuid.New()

		rows := sqlmock.NewRows([]string{"coffee_lot_id", "total"}).
			AddRow(lotA, decimal.NewFromInt(300)).
			AddRow(lotB, decimal.RequireFromString("12.5"))

		mock.ExpectQuery(`SELECT coffee_lot_id, SUM\(quantity_kg\) AS total FROM "sale_deductions" GROUP BY .*`).
			WillReturnRows(rows)

		sums, err := repo.SumByLot(context.Background())
		require.NoError(t, err)
		require.Len(t, sums, 2)
		assert.True(t, sums[lotA].Equal(decimal.NewFromInt(300)))
		assert.True(t, sums[lotB].Equal(decimal.RequireFromString("12.5")))
	})

	t.Run("returns empty map when ledger is empty", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSaleDeductionRepository(db)

		mock.ExpectQuery(`SELECT coffee_lot_id, SUM\(quantity_kg\) AS total FROM "sale_deductions" GROUP BY .*`).
			WillReturnRows(sqlmock.NewRows([]string{"coffee_lot_id", "total"}))

		sums, err := repo.SumByLot(context.Background())
		require.NoError(t, err)
		assert.Empty(t, sums)
	})
}

func TestGormBatchSourceRepository_LinkedLotIDs(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormBatchSourceRepository(db)

	lotA := uuid.New()
	lotB := uuid.New()

	mock.ExpectQuery(`SELECT "coffee_lot_id" FROM "batch_sources"`).
		WillReturnRows(sqlmock.NewRows([]string{"coffee_lot_id"}).
			AddRow(lotA).
			AddRow(lotB))

	linked, err := repo.LinkedLotIDs(context.Background())
	require.NoError(t, err)
	assert.True(t, linked[lotA])
	assert.True(t, linked[lotB])
	assert.False(t, linked[uuid.New()])
}
