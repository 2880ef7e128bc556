package store

import (
	"context"
	"fmt"

	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/coffeetrade/backend/internal/domain/sales"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDeductionInput carries the fields for recording a sale deduction
type CreateDeductionInput struct {
	CoffeeLotID uuid.UUID
	QuantityKg  float64
	Reference   string
}

// DeductionService handles the sales deduction ledger
type DeductionService struct {
	deductionRepo sales.SaleDeductionRepository
	lotRepo       procurement.CoffeeLotRepository
}

// NewDeductionService creates a new DeductionService
func NewDeductionService(deductionRepo sales.SaleDeductionRepository, lotRepo procurement.CoffeeLotRepository) *DeductionService {
	return &DeductionService{deductionRepo: deductionRepo, lotRepo: lotRepo}
}

// RecordDeduction appends a deduction against a lot. The lot must
// exist; drawing more than the lot holds is rejected here, though
// historical ledger data may still contain over-sold lots (the
// reconciler tolerates and reports those).
func (s *DeductionService) RecordDeduction(ctx context.Context, input CreateDeductionInput) (*SaleDeductionDTO, error) {
	lot, err := s.lotRepo.FindByID(ctx, input.CoffeeLotID)
	if err != nil {
		return nil, err
	}

	quantity := decimal.NewFromFloat(input.QuantityKg)
	existing, err := s.deductionRepo.FindByLot(ctx, lot.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch lot deductions: %w", err)
	}
	drawn := decimal.Zero
	for _, d := range existing {
		drawn = drawn.Add(d.QuantityKg)
	}
	if drawn.Add(quantity).GreaterThan(lot.Kilograms) {
		return nil, shared.ErrInsufficientStock
	}

	deduction, err := sales.NewSaleDeduction(lot.ID, quantity, input.Reference)
	if err != nil {
		return nil, err
	}
	if err := s.deductionRepo.Create(ctx, deduction); err != nil {
		return nil, fmt.Errorf("create deduction: %w", err)
	}

	// Flip the lot out of inventory once fully drawn down
	if drawn.Add(quantity).Equal(lot.Kilograms) {
		lot.MarkSold()
		if err := s.lotRepo.Save(ctx, lot); err != nil {
			return nil, fmt.Errorf("update lot status: %w", err)
		}
	}

	dto := ToSaleDeductionDTO(deduction)
	return &dto, nil
}

// ListDeductions returns a page of deduction records
func (s *DeductionService) ListDeductions(ctx context.Context, filter shared.Filter) (shared.Paginated[SaleDeductionDTO], error) {
	deductions, err := s.deductionRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SaleDeductionDTO]{}, err
	}
	total, err := s.deductionRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[SaleDeductionDTO]{}, err
	}
	dtos := make([]SaleDeductionDTO, len(deductions))
	for i := range deductions {
		dtos[i] = ToSaleDeductionDTO(&deductions[i])
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PageSize), nil
}

// ListDeductionsForLot returns all deductions against one lot
func (s *DeductionService) ListDeductionsForLot(ctx context.Context, lotID uuid.UUID) ([]SaleDeductionDTO, error) {
	deductions, err := s.deductionRepo.FindByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	dtos := make([]SaleDeductionDTO, len(deductions))
	for i := range deductions {
		dtos[i] = ToSaleDeductionDTO(&deductions[i])
	}
	return dtos, nil
}
