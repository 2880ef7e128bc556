package persistence

import (
	"context"

	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/coffeetrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBatchSourceRepository implements BatchSourceRepository using GORM
type GormBatchSourceRepository struct {
	db *gorm.DB
}

// NewGormBatchSourceRepository creates a new GormBatchSourceRepository
func NewGormBatchSourceRepository(db *gorm.DB) *GormBatchSourceRepository {
	return &GormBatchSourceRepository{db: db}
}

// FindByBatch finds all source rows for a batch
func (r *GormBatchSourceRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]batch.BatchSource, error) {
	var sourceModels []models.BatchSourceModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&sourceModels).Error; err != nil {
		return nil, err
	}

	sources := make([]batch.BatchSource, len(sourceModels))
	for i, model := range sourceModels {
		sources[i] = *model.ToDomain()
	}
	return sources, nil
}

// LinkedLotIDs returns the set of coffee lot IDs already linked to any batch
func (r *GormBatchSourceRepository) LinkedLotIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	var lotIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.BatchSourceModel{}).
		Pluck("coffee_lot_id", &lotIDs).Error; err != nil {
		return nil, err
	}

	linked := make(map[uuid.UUID]bool, len(lotIDs))
	for _, id := range lotIDs {
		linked[id] = true
	}
	return linked, nil
}

// Create appends a new source row. The unique index on coffee_lot_id
// rejects a second link for the same lot.
func (r *GormBatchSourceRepository) Create(ctx context.Context, source *batch.BatchSource) error {
	var model models.BatchSourceModel
	model.FromDomain(source)
	return r.db.WithContext(ctx).Create(&model).Error
}
