package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/coffeetrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryBatchRepository implements InventoryBatchRepository using GORM
type GormInventoryBatchRepository struct {
	db *gorm.DB
}

// NewGormInventoryBatchRepository creates a new GormInventoryBatchRepository
func NewGormInventoryBatchRepository(db *gorm.DB) *GormInventoryBatchRepository {
	return &GormInventoryBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormInventoryBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.InventoryBatch, error) {
	var model models.InventoryBatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a batch by its batch code
func (r *GormInventoryBatchRepository) FindByCode(ctx context.Context, batchCode string) (*batch.InventoryBatch, error) {
	var model models.InventoryBatchModel
	if err := r.db.WithContext(ctx).
		Where("batch_code = ?", batchCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds batches matching the filter
func (r *GormInventoryBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]batch.InventoryBatch, error) {
	var batchModels []models.InventoryBatchModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryBatchModel{}), filter)

	if err := query.Find(&batchModels).Error; err != nil {
		return nil, err
	}

	batches := make([]batch.InventoryBatch, len(batchModels))
	for i, model := range batchModels {
		batches[i] = *model.ToDomain()
	}
	return batches, nil
}

// FindOpenByType finds the batch currently accepting lots for a coffee
// type. At most one open batch exists per type; the oldest is returned
// if the invariant was ever violated by hand-edited data.
func (r *GormInventoryBatchRepository) FindOpenByType(ctx context.Context, coffeeType string) (*batch.InventoryBatch, error) {
	var model models.InventoryBatchModel
	if err := r.db.WithContext(ctx).
		Where("coffee_type = ? AND status IN ? AND total_kilograms < target_capacity",
			coffeeType, []batch.BatchStatus{batch.BatchStatusFilling, batch.BatchStatusActive}).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a batch
func (r *GormInventoryBatchRepository) Save(ctx context.Context, b *batch.InventoryBatch) error {
	var model models.InventoryBatchModel
	model.FromDomain(b)
	return r.db.WithContext(ctx).Omit("Sources").Save(&model).Error
}

// Count counts batches matching the filter
func (r *GormInventoryBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InventoryBatchModel{})
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextCode generates the next unique batch code for a coffee type.
// Format: PREFIX-YYYYMMDD-NNN. The unique index on batch_code catches
// a lost race between concurrent generators; callers retry inside
// their transaction.
func (r *GormInventoryBatchRepository) NextCode(ctx context.Context, coffeeType string) (string, error) {
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("%s-%s-", batch.CodePrefix(coffeeType), date)

	var maxCode string
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryBatchModel{}).
		Select("batch_code").
		Where("batch_code LIKE ?", prefix+"%").
		Order("batch_code DESC").
		Limit(1).
		Pluck("batch_code", &maxCode).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxCode != "" {
		parts := strings.Split(maxCode, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%03d", prefix, nextNum), nil
}

func (r *GormInventoryBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryBatchSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
}

func (r *GormInventoryBatchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("batch_code ILIKE ? OR coffee_type ILIKE ?", search, search)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if coffeeType, ok := filter.Filters["coffee_type"]; ok {
		query = query.Where("coffee_type = ?", coffeeType)
	}
	return query
}
