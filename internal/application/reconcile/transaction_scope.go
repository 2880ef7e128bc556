package reconcile

import (
	"context"

	"github.com/coffeetrade/backend/internal/domain/batch"
)

// TransactionScope provides transactional access to the batch-side
// repositories. The per-lot allocation step (source insert + batch
// totals update, plus code generation for a fresh batch) runs inside
// one transaction so a crash cannot leave a source row without its
// matching batch totals.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the batch repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() batch.InventoryBatchRepository
	// SourceRepo returns the batch source repository scoped to the current transaction
	SourceRepo() batch.BatchSourceRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and for stores that do not support transactions.
type NoOpTransactionScope struct {
	batchRepo  batch.InventoryBatchRepository
	sourceRepo batch.BatchSourceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(batchRepo batch.InventoryBatchRepository, sourceRepo batch.BatchSourceRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{batchRepo: batchRepo, sourceRepo: sourceRepo}
}

// Execute runs the function directly without transaction boundaries.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the batch repository.
func (s *NoOpTransactionScope) BatchRepo() batch.InventoryBatchRepository {
	return s.batchRepo
}

// SourceRepo returns the batch source repository.
func (s *NoOpTransactionScope) SourceRepo() batch.BatchSourceRepository {
	return s.sourceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
