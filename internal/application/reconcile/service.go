package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/coffeetrade/backend/internal/domain/sales"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RunLock serializes reconcile runs. Acquire returns a release
// function on success, or shared.ErrResyncInProgress when another run
// holds the lock.
type RunLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Service reconciles coffee lots into capacity-bounded inventory
// batches. It reads the lot store and the sales deduction ledger,
// computes per-lot remaining stock, and allocates unlinked remainders
// into 5,000 kg rolling batches in FIFO order.
//
// The same routine serves both the first-time migration and the
// incremental resync: the idempotency filter makes a full migration
// simply the first run over an empty batch table.
type Service struct {
	lotRepo       procurement.CoffeeLotRepository
	deductionRepo sales.SaleDeductionRepository
	batchRepo     batch.InventoryBatchRepository
	sourceRepo    batch.BatchSourceRepository
	scope         TransactionScope

	lock       RunLock
	runLog     RunLogStore
	logger     *zap.Logger
	capacity   decimal.Decimal
	noiseFloor decimal.Decimal
	now        func() time.Time
}

// ServiceOption is a functional option for configuring the Service
type ServiceOption func(*Service)

// WithLogger sets the logger for the service
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRunLock sets the lock guarding against concurrent runs
func WithRunLock(lock RunLock) ServiceOption {
	return func(s *Service) {
		s.lock = lock
	}
}

// WithRunLog sets the audit log store for reconcile runs
func WithRunLog(store RunLogStore) ServiceOption {
	return func(s *Service) {
		s.runLog = store
	}
}

// WithTargetCapacity overrides the default 5,000 kg batch capacity
func WithTargetCapacity(capacity decimal.Decimal) ServiceOption {
	return func(s *Service) {
		if capacity.IsPositive() {
			s.capacity = capacity
		}
	}
}

// WithNoiseFloor overrides the default 1 kg remaining-quantity floor
func WithNoiseFloor(floor decimal.Decimal) ServiceOption {
	return func(s *Service) {
		s.noiseFloor = floor
	}
}

// WithClock overrides the time source (for tests)
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a reconcile service
func NewService(
	lotRepo procurement.CoffeeLotRepository,
	deductionRepo sales.SaleDeductionRepository,
	batchRepo batch.InventoryBatchRepository,
	sourceRepo batch.BatchSourceRepository,
	scope TransactionScope,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		lotRepo:       lotRepo,
		deductionRepo: deductionRepo,
		batchRepo:     batchRepo,
		sourceRepo:    sourceRepo,
		scope:         scope,
		logger:        zap.NewNop(),
		capacity:      batch.DefaultTargetCapacity,
		noiseFloor:    batch.NoiseFloorKg,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one reconciliation pass and returns its summary.
//
// The read phase is fail-fast: any error fetching lots, deductions or
// existing links aborts the run before a single write. The write phase
// is best-effort per lot: a failed allocation is logged and skipped so
// one bad row does not block the rest, but each lot's source insert
// and batch update commit atomically.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	if s.lock != nil {
		release, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer release()
	}
	start := s.now()

	lots, err := s.lotRepo.FindInInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory lots: %w", err)
	}
	deducted, err := s.deductionRepo.SumByLot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sale deductions: %w", err)
	}
	linked, err := s.sourceRepo.LinkedLotIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch existing batch links: %w", err)
	}

	result := batch.ComputeRemainders(lots, deducted, s.noiseFloor)
	for _, lotID := range result.OversoldLotIDs {
		s.logger.Warn("lot deductions exceed original quantity, excluded from allocation",
			zap.String("lot_id", lotID.String()))
	}

	unlinked := batch.FilterUnlinked(result.Remainders, linked)
	groups := batch.GroupByType(unlinked)
	coffeeTypes := make([]string, 0, len(groups))
	for coffeeType := range groups {
		coffeeTypes = append(coffeeTypes, coffeeType)
	}
	sort.Strings(coffeeTypes)

	summary := &Summary{
		TotalKilograms: decimal.Zero,
		OversoldLotIDs: result.OversoldLotIDs,
	}
	for _, coffeeType := range coffeeTypes {
		if err := s.allocateType(ctx, coffeeType, groups[coffeeType], summary); err != nil {
			return nil, err
		}
	}

	summary.Message = fmt.Sprintf("Migrated %s kg from %d lot(s) into %d batch(es)",
		summary.TotalKilograms.String(), summary.LotsProcessed, summary.BatchesCreated)

	s.logger.Info("batch reconciliation finished",
		zap.Int("batches_created", summary.BatchesCreated),
		zap.Int("lots_processed", summary.LotsProcessed),
		zap.Int("lots_skipped", summary.LotsSkipped),
		zap.String("total_kilograms", summary.TotalKilograms.String()),
		zap.Duration("duration", s.now().Sub(start)))

	if s.runLog != nil {
		entry := RunLogEntry{
			RanAt:          start,
			Duration:       s.now().Sub(start).String(),
			BatchesCreated: summary.BatchesCreated,
			LotsProcessed:  summary.LotsProcessed,
			LotsSkipped:    summary.LotsSkipped,
			TotalKilograms: summary.TotalKilograms.String(),
			OversoldLotIDs: summary.OversoldLotIDs,
			Message:        summary.Message,
		}
		if err := s.runLog.Append(ctx, entry); err != nil {
			s.logger.Warn("failed to append reconcile run log", zap.Error(err))
		}
	}

	return summary, nil
}

// allocateType distributes one coffee type's lots (already FIFO
// sorted) into batches. The open batch carries over between lots; a
// new batch is opened once the current one reaches capacity.
func (s *Service) allocateType(ctx context.Context, coffeeType string, lots []batch.LotRemainder, summary *Summary) error {
	open, err := s.batchRepo.FindOpenByType(ctx, coffeeType)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("find open batch for %s: %w", coffeeType, err)
		}
		open = nil
	}

	for _, lot := range lots {
		if open != nil && !open.IsOpen() {
			open = nil
		}

		var (
			committed *batch.InventoryBatch
			created   bool
		)
		attempt := func() error {
			return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
				target := open
				isNew := false
				if target == nil {
					code, err := repos.BatchRepo().NextCode(ctx, coffeeType)
					if err != nil {
						return fmt.Errorf("generate batch code: %w", err)
					}
					target = batch.NewInventoryBatch(code, coffeeType, s.capacity, s.now())
					isNew = true
				} else {
					// Work on a copy so a rolled-back transaction leaves
					// the in-memory open batch untouched.
					work := *open
					work.Sources = nil
					target = &work
				}

				source := target.ReceiveLot(lot)
				if err := repos.SourceRepo().Create(ctx, source); err != nil {
					return fmt.Errorf("create batch source: %w", err)
				}
				if err := repos.BatchRepo().Save(ctx, target); err != nil {
					return fmt.Errorf("save batch: %w", err)
				}
				committed = target
				created = isNew
				return nil
			})
		}
		err := attempt()
		if err != nil && open == nil {
			// A fresh batch insert can lose the batch_code race to a
			// concurrent writer; the unique index rejects it. Generate
			// a new code and try once more.
			s.logger.Warn("batch allocation attempt failed, retrying once",
				zap.String("lot_id", lot.LotID.String()),
				zap.String("coffee_type", coffeeType),
				zap.Error(err))
			err = attempt()
		}
		if err != nil {
			summary.LotsSkipped++
			s.logger.Warn("failed to allocate lot, skipping",
				zap.String("lot_id", lot.LotID.String()),
				zap.String("coffee_type", coffeeType),
				zap.Error(err))
			continue
		}

		open = committed
		if created {
			summary.BatchesCreated++
		}
		summary.LotsProcessed++
		summary.TotalKilograms = summary.TotalKilograms.Add(lot.Remaining)
	}
	return nil
}
