package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/coffeetrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCoffeeLotRepository implements CoffeeLotRepository using GORM
type GormCoffeeLotRepository struct {
	db *gorm.DB
}

// NewGormCoffeeLotRepository creates a new GormCoffeeLotRepository
func NewGormCoffeeLotRepository(db *gorm.DB) *GormCoffeeLotRepository {
	return &GormCoffeeLotRepository{db: db}
}

// FindByID finds a coffee lot by its ID
func (r *GormCoffeeLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.CoffeeLot, error) {
	var model models.CoffeeLotModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds coffee lots matching the filter
func (r *GormCoffeeLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.CoffeeLot, error) {
	var lotModels []models.CoffeeLotModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CoffeeLotModel{}), filter)

	if err := query.Find(&lotModels).Error; err != nil {
		return nil, err
	}

	lots := make([]procurement.CoffeeLot, len(lotModels))
	for i, model := range lotModels {
		lots[i] = *model.ToDomain()
	}
	return lots, nil
}

// FindInInventory finds all lots still in inventory status, oldest first
func (r *GormCoffeeLotRepository) FindInInventory(ctx context.Context) ([]procurement.CoffeeLot, error) {
	var lotModels []models.CoffeeLotModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", procurement.LotStatusInventory).
		Order("received_date ASC, created_at ASC").
		Find(&lotModels).Error; err != nil {
		return nil, err
	}

	lots := make([]procurement.CoffeeLot, len(lotModels))
	for i, model := range lotModels {
		lots[i] = *model.ToDomain()
	}
	return lots, nil
}

// Save creates or updates a coffee lot
func (r *GormCoffeeLotRepository) Save(ctx context.Context, lot *procurement.CoffeeLot) error {
	var model models.CoffeeLotModel
	model.FromDomain(lot)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete deletes a coffee lot
func (r *GormCoffeeLotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CoffeeLotModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts coffee lots matching the filter
func (r *GormCoffeeLotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CoffeeLotModel{})
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCoffeeLotRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CoffeeLotSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
}

func (r *GormCoffeeLotRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("coffee_type ILIKE ? OR supplier_name ILIKE ?", search, search)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if coffeeType, ok := filter.Filters["coffee_type"]; ok {
		query = query.Where("coffee_type = ?", coffeeType)
	}
	return query
}
