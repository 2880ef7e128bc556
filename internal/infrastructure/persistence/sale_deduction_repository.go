package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/coffeetrade/backend/internal/domain/sales"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/coffeetrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleDeductionRepository implements SaleDeductionRepository using GORM
type GormSaleDeductionRepository struct {
	db *gorm.DB
}

// NewGormSaleDeductionRepository creates a new GormSaleDeductionRepository
func NewGormSaleDeductionRepository(db *gorm.DB) *GormSaleDeductionRepository {
	return &GormSaleDeductionRepository{db: db}
}

// FindByID finds a deduction by its ID
func (r *GormSaleDeductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SaleDeduction, error) {
	var model models.SaleDeductionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds deductions matching the filter
func (r *GormSaleDeductionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.SaleDeduction, error) {
	var deductionModels []models.SaleDeductionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleDeductionModel{}), filter)

	if err := query.Find(&deductionModels).Error; err != nil {
		return nil, err
	}

	deductions := make([]sales.SaleDeduction, len(deductionModels))
	for i, model := range deductionModels {
		deductions[i] = *model.ToDomain()
	}
	return deductions, nil
}

// FindByLot finds all deductions against a coffee lot
func (r *GormSaleDeductionRepository) FindByLot(ctx context.Context, coffeeLotID uuid.UUID) ([]sales.SaleDeduction, error) {
	var deductionModels []models.SaleDeductionModel
	if err := r.db.WithContext(ctx).
		Where("coffee_lot_id = ?", coffeeLotID).
		Order("created_at ASC").
		Find(&deductionModels).Error; err != nil {
		return nil, err
	}

	deductions := make([]sales.SaleDeduction, len(deductionModels))
	for i, model := range deductionModels {
		deductions[i] = *model.ToDomain()
	}
	return deductions, nil
}

// SumByLot returns total deducted kilograms keyed by coffee lot ID
func (r *GormSaleDeductionRepository) SumByLot(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	type lotSum struct {
		CoffeeLotID uuid.UUID
		Total       decimal.Decimal
	}

	var sums []lotSum
	if err := r.db.WithContext(ctx).
		Model(&models.SaleDeductionModel{}).
		Select("coffee_lot_id, SUM(quantity_kg) AS total").
		Group("coffee_lot_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]decimal.Decimal, len(sums))
	for _, s := range sums {
		result[s.CoffeeLotID] = s.Total
	}
	return result, nil
}

// Create appends a new deduction
func (r *GormSaleDeductionRepository) Create(ctx context.Context, deduction *sales.SaleDeduction) error {
	var model models.SaleDeductionModel
	model.FromDomain(deduction)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Count counts deductions matching the filter
func (r *GormSaleDeductionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SaleDeductionModel{})
	if lotID, ok := filter.Filters["coffee_lot_id"]; ok {
		query = query.Where("coffee_lot_id = ?", lotID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSaleDeductionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if lotID, ok := filter.Filters["coffee_lot_id"]; ok {
		query = query.Where("coffee_lot_id = ?", lotID)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleDeductionSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
}
