package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/coffeetrade/backend/internal/application/reconcile"
	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/coffeetrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBatchTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.InventoryBatchModel{}, &models.BatchSourceModel{})
	require.NoError(t, err)

	return db
}

func newRemainder(kg int64) batch.LotRemainder {
	return batch.LotRemainder{
		LotID:        uuid.New(),
		CoffeeType:   "Arabica",
		Remaining:    decimal.NewFromInt(kg),
		SupplierName: "Finca El Paraiso",
		ReceivedDate: time.Now(),
		LotCreatedAt: time.Now(),
	}
}

func TestGormTransactionScope_CommitsBatchAndSourceTogether(t *testing.T) {
	db := setupBatchTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	b := batch.NewInventoryBatch("ARA-20260830-001", "Arabica", batch.DefaultTargetCapacity, time.Now())
	lot := newRemainder(4800)

	err := scope.Execute(ctx, func(repos reconcile.TransactionalRepositories) error {
		source := b.ReceiveLot(lot)
		if err := repos.SourceRepo().Create(ctx, source); err != nil {
			return err
		}
		return repos.BatchRepo().Save(ctx, b)
	})
	require.NoError(t, err)

	saved, err := NewGormInventoryBatchRepository(db).FindByCode(ctx, "ARA-20260830-001")
	require.NoError(t, err)
	assert.True(t, saved.TotalKilograms.Equal(decimal.NewFromInt(4800)))
	assert.Equal(t, batch.BatchStatusFilling, saved.Status)

	sources, err := NewGormBatchSourceRepository(db).FindByBatch(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, lot.LotID, sources[0].CoffeeLotID)
}

func TestGormTransactionScope_RollsBackOnDuplicateLotLink(t *testing.T) {
	db := setupBatchTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	lot := newRemainder(1000)

	first := batch.NewInventoryBatch("ARA-20260830-001", "Arabica", batch.DefaultTargetCapacity, time.Now())
	err := scope.Execute(ctx, func(repos reconcile.TransactionalRepositories) error {
		source := first.ReceiveLot(lot)
		if err := repos.SourceRepo().Create(ctx, source); err != nil {
			return err
		}
		return repos.BatchRepo().Save(ctx, first)
	})
	require.NoError(t, err)

	// Linking the same lot again must fail on the unique index and
	// leave the second batch unwritten.
	second := batch.NewInventoryBatch("ARA-20260830-002", "Arabica", batch.DefaultTargetCapacity, time.Now())
	err = scope.Execute(ctx, func(repos reconcile.TransactionalRepositories) error {
		source := second.ReceiveLot(lot)
		if err := repos.SourceRepo().Create(ctx, source); err != nil {
			return err
		}
		return repos.BatchRepo().Save(ctx, second)
	})
	require.Error(t, err)

	_, err = NewGormInventoryBatchRepository(db).FindByCode(ctx, "ARA-20260830-002")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.BatchSourceModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormInventoryBatchRepository_FindOpenByType_Sqlite(t *testing.T) {
	db := setupBatchTestDB(t)
	repo := NewGormInventoryBatchRepository(db)
	ctx := context.Background()

	open := batch.NewInventoryBatch("ARA-20260830-001", "Arabica", batch.DefaultTargetCapacity, time.Now())
	open.ReceiveLot(newRemainder(1200))
	require.NoError(t, repo.Save(ctx, open))

	closed := batch.NewInventoryBatch("ARA-20260830-002", "Arabica", batch.DefaultTargetCapacity, time.Now())
	closed.ReceiveLot(newRemainder(5500))
	require.NoError(t, repo.Save(ctx, closed))

	found, err := repo.FindOpenByType(ctx, "Arabica")
	require.NoError(t, err)
	assert.Equal(t, "ARA-20260830-001", found.BatchCode)

	_, err = repo.FindOpenByType(ctx, "Robusta")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
