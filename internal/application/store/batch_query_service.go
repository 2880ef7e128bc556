package store

import (
	"context"

	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchQueryService serves read-only batch views. Batch and source
// rows are written exclusively by the reconciler; this service never
// mutates them.
type BatchQueryService struct {
	batchRepo  batch.InventoryBatchRepository
	sourceRepo batch.BatchSourceRepository
}

// NewBatchQueryService creates a new BatchQueryService
func NewBatchQueryService(batchRepo batch.InventoryBatchRepository, sourceRepo batch.BatchSourceRepository) *BatchQueryService {
	return &BatchQueryService{batchRepo: batchRepo, sourceRepo: sourceRepo}
}

// ListBatches returns a page of inventory batches
func (s *BatchQueryService) ListBatches(ctx context.Context, filter shared.Filter) (shared.Paginated[BatchDTO], error) {
	batches, err := s.batchRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[BatchDTO]{}, err
	}
	total, err := s.batchRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[BatchDTO]{}, err
	}
	dtos := make([]BatchDTO, len(batches))
	for i := range batches {
		dtos[i] = ToBatchDTO(&batches[i])
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PageSize), nil
}

// GetBatch fetches one batch together with its source lots
func (s *BatchQueryService) GetBatch(ctx context.Context, id uuid.UUID) (*BatchDTO, error) {
	b, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sources, err := s.sourceRepo.FindByBatch(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Sources = sources
	dto := ToBatchDTO(b)
	return &dto, nil
}
