package store

import (
	"context"
	"testing"
	"time"

	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/coffeetrade/backend/internal/domain/sales"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCoffeeLotRepository is a mock implementation of CoffeeLotRepository
type MockCoffeeLotRepository struct {
	mock.Mock
}

func (m *MockCoffeeLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.CoffeeLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.CoffeeLot), args.Error(1)
}

func (m *MockCoffeeLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.CoffeeLot, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]procurement.CoffeeLot), args.Error(1)
}

func (m *MockCoffeeLotRepository) FindInInventory(ctx context.Context) ([]procurement.CoffeeLot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]procurement.CoffeeLot), args.Error(1)
}

func (m *MockCoffeeLotRepository) Save(ctx context.Context, lot *procurement.CoffeeLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockCoffeeLotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCoffeeLotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSaleDeductionRepository is a mock implementation of SaleDeductionRepository
type MockSaleDeductionRepository struct {
	mock.Mock
}

func (m *MockSaleDeductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SaleDeduction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SaleDeduction), args.Error(1)
}

func (m *MockSaleDeductionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.SaleDeduction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.SaleDeduction), args.Error(1)
}

func (m *MockSaleDeductionRepository) FindByLot(ctx context.Context, coffeeLotID uuid.UUID) ([]sales.SaleDeduction, error) {
	args := m.Called(ctx, coffeeLotID)
	return args.Get(0).([]sales.SaleDeduction), args.Error(1)
}

func (m *MockSaleDeductionRepository) SumByLot(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockSaleDeductionRepository) Create(ctx context.Context, deduction *sales.SaleDeduction) error {
	args := m.Called(ctx, deduction)
	return args.Error(0)
}

func (m *MockSaleDeductionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func testLot(t *testing.T, kg int64) *procurement.CoffeeLot {
	t.Helper()
	lot, err := procurement.NewCoffeeLot("arabica", decimal.NewFromInt(kg), "Kagera Coop", time.Now())
	require.NoError(t, err)
	return lot
}

func TestRecordDeduction_Success(t *testing.T) {
	lotRepo := new(MockCoffeeLotRepository)
	deductionRepo := new(MockSaleDeductionRepository)
	lot := testLot(t, 1000)

	lotRepo.On("FindByID", mock.Anything, lot.ID).Return(lot, nil)
	deductionRepo.On("FindByLot", mock.Anything, lot.ID).Return([]sales.SaleDeduction{}, nil)
	deductionRepo.On("Create", mock.Anything, mock.AnythingOfType("*sales.SaleDeduction")).Return(nil)

	svc := NewDeductionService(deductionRepo, lotRepo)
	dto, err := svc.RecordDeduction(context.Background(), CreateDeductionInput{
		CoffeeLotID: lot.ID,
		QuantityKg:  400,
		Reference:   "SO-2026-014",
	})

	require.NoError(t, err)
	assert.Equal(t, lot.ID.String(), dto.CoffeeLotID)
	assert.InDelta(t, 400.0, dto.QuantityKg, 0.001)
	deductionRepo.AssertExpectations(t)
	// Lot not fully drawn, so status stays untouched
	lotRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecordDeduction_RejectsOverdraw(t *testing.T) {
	lotRepo := new(MockCoffeeLotRepository)
	deductionRepo := new(MockSaleDeductionRepository)
	lot := testLot(t, 100)
	prior, err := sales.NewSaleDeduction(lot.ID, decimal.NewFromInt(80), "SO-2026-001")
	require.NoError(t, err)

	lotRepo.On("FindByID", mock.Anything, lot.ID).Return(lot, nil)
	deductionRepo.On("FindByLot", mock.Anything, lot.ID).Return([]sales.SaleDeduction{*prior}, nil)

	svc := NewDeductionService(deductionRepo, lotRepo)
	_, err = svc.RecordDeduction(context.Background(), CreateDeductionInput{
		CoffeeLotID: lot.ID,
		QuantityKg:  50,
	})

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	deductionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordDeduction_MarksLotSoldWhenFullyDrawn(t *testing.T) {
	lotRepo := new(MockCoffeeLotRepository)
	deductionRepo := new(MockSaleDeductionRepository)
	lot := testLot(t, 100)

	lotRepo.On("FindByID", mock.Anything, lot.ID).Return(lot, nil)
	deductionRepo.On("FindByLot", mock.Anything, lot.ID).Return([]sales.SaleDeduction{}, nil)
	deductionRepo.On("Create", mock.Anything, mock.AnythingOfType("*sales.SaleDeduction")).Return(nil)
	lotRepo.On("Save", mock.Anything, mock.MatchedBy(func(l *procurement.CoffeeLot) bool {
		return l.Status == procurement.LotStatusSold
	})).Return(nil)

	svc := NewDeductionService(deductionRepo, lotRepo)
	_, err := svc.RecordDeduction(context.Background(), CreateDeductionInput{
		CoffeeLotID: lot.ID,
		QuantityKg:  100,
	})

	require.NoError(t, err)
	lotRepo.AssertExpectations(t)
}

func TestReceiveLot_RejectsInvalidInput(t *testing.T) {
	svc := NewLotService(new(MockCoffeeLotRepository))

	_, err := svc.ReceiveLot(context.Background(), CreateLotInput{
		CoffeeType: "",
		Kilograms:  100,
	})
	assert.Error(t, err)

	_, err = svc.ReceiveLot(context.Background(), CreateLotInput{
		CoffeeType: "arabica",
		Kilograms:  0,
	})
	assert.Error(t, err)
}
