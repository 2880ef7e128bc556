package persistence

import (
	"context"

	"github.com/coffeetrade/backend/internal/application/reconcile"
	"github.com/coffeetrade/backend/internal/domain/batch"
	"gorm.io/gorm"
)

// GormTransactionScope implements reconcile.TransactionScope over a GORM
// database. Each Execute call opens one transaction; the repositories
// handed to the function are bound to that transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos reconcile.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) BatchRepo() batch.InventoryBatchRepository {
	return NewGormInventoryBatchRepository(r.tx)
}

func (r *gormTransactionalRepositories) SourceRepo() batch.BatchSourceRepository {
	return NewGormBatchSourceRepository(r.tx)
}

var _ reconcile.TransactionScope = (*GormTransactionScope)(nil)
