package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coffeetrade/backend/internal/application/reconcile"
	"github.com/coffeetrade/backend/internal/application/store"
	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/coffeetrade/backend/internal/domain/sales"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDeductionRepository struct {
	deductions []sales.SaleDeduction
}

func (m *mockDeductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SaleDeduction, error) {
	return nil, shared.ErrNotFound
}

func (m *mockDeductionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.SaleDeduction, error) {
	return m.deductions, nil
}

func (m *mockDeductionRepository) FindByLot(ctx context.Context, coffeeLotID uuid.UUID) ([]sales.SaleDeduction, error) {
	var result []sales.SaleDeduction
	for _, d := range m.deductions {
		if d.CoffeeLotID == coffeeLotID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockDeductionRepository) SumByLot(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, d := range m.deductions {
		sums[d.CoffeeLotID] = sums[d.CoffeeLotID].Add(d.QuantityKg)
	}
	return sums, nil
}

func (m *mockDeductionRepository) Create(ctx context.Context, deduction *sales.SaleDeduction) error {
	m.deductions = append(m.deductions, *deduction)
	return nil
}

func (m *mockDeductionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(m.deductions)), nil
}

type mockBatchRepository struct {
	batches map[uuid.UUID]*batch.InventoryBatch
	seq     map[string]int
}

func newMockBatchRepository() *mockBatchRepository {
	return &mockBatchRepository{
		batches: make(map[uuid.UUID]*batch.InventoryBatch),
		seq:     make(map[string]int),
	}
}

func (m *mockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.InventoryBatch, error) {
	if b, ok := m.batches[id]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockBatchRepository) FindByCode(ctx context.Context, code string) (*batch.InventoryBatch, error) {
	for _, b := range m.batches {
		if b.BatchCode == code {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]batch.InventoryBatch, error) {
	result := make([]batch.InventoryBatch, 0, len(m.batches))
	for _, b := range m.batches {
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBatchRepository) FindOpenByType(ctx context.Context, coffeeType string) (*batch.InventoryBatch, error) {
	for _, b := range m.batches {
		if b.CoffeeType == coffeeType && b.IsOpen() {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockBatchRepository) Save(ctx context.Context, b *batch.InventoryBatch) error {
	saved := *b
	m.batches[b.ID] = &saved
	return nil
}

func (m *mockBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(m.batches)), nil
}

func (m *mockBatchRepository) NextCode(ctx context.Context, coffeeType string) (string, error) {
	prefix := batch.CodePrefix(coffeeType)
	m.seq[prefix]++
	return fmt.Sprintf("%s-%s-%03d", prefix, time.Now().Format("20060102"), m.seq[prefix]), nil
}

type mockSourceRepository struct {
	sources []batch.BatchSource
}

func (m *mockSourceRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]batch.BatchSource, error) {
	var result []batch.BatchSource
	for _, s := range m.sources {
		if s.BatchID == batchID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSourceRepository) LinkedLotIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	linked := make(map[uuid.UUID]bool)
	for _, s := range m.sources {
		linked[s.CoffeeLotID] = true
	}
	return linked, nil
}

func (m *mockSourceRepository) Create(ctx context.Context, source *batch.BatchSource) error {
	m.sources = append(m.sources, *source)
	return nil
}

func procurementLot(coffeeType string, kg int64) (*procurement.CoffeeLot, error) {
	return procurement.NewCoffeeLot(coffeeType, decimal.NewFromInt(kg), "Highland Estate", time.Now())
}

type heldLock struct{}

func (heldLock) Acquire(ctx context.Context) (func(), error) {
	return nil, shared.ErrResyncInProgress
}

func setupBatchRouter(lotRepo *mockCoffeeLotRepository, opts ...reconcile.ServiceOption) (*gin.Engine, *mockBatchRepository) {
	batchRepo := newMockBatchRepository()
	sourceRepo := &mockSourceRepository{}
	deductionRepo := &mockDeductionRepository{}

	svc := reconcile.NewService(
		lotRepo,
		deductionRepo,
		batchRepo,
		sourceRepo,
		reconcile.NewNoOpTransactionScope(batchRepo, sourceRepo),
		opts...,
	)
	h := NewBatchHandler(store.NewBatchQueryService(batchRepo, sourceRepo), svc)

	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine, batchRepo
}

func TestBatchHandler_Resync(t *testing.T) {
	t.Run("allocates inventory lots and returns summary", func(t *testing.T) {
		lotRepo := newMockCoffeeLotRepository()
		lot, err := procurementLot("Arabica", 4800)
		require.NoError(t, err)
		require.NoError(t, lotRepo.Save(context.Background(), lot))

		engine, batchRepo := setupBatchRouter(lotRepo)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/resync", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool              `json:"success"`
			Data    reconcile.Summary `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.Data.BatchesCreated)
		assert.Equal(t, 1, resp.Data.LotsProcessed)
		assert.Len(t, batchRepo.batches, 1)
	})

	t.Run("returns 409 while another resync is running", func(t *testing.T) {
		engine, _ := setupBatchRouter(newMockCoffeeLotRepository(), reconcile.WithRunLock(heldLock{}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/resync", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestBatchHandler_List(t *testing.T) {
	engine, batchRepo := setupBatchRouter(newMockCoffeeLotRepository())
	b := batch.NewInventoryBatch("ARA-20260830-001", "Arabica", batch.DefaultTargetCapacity, time.Now())
	require.NoError(t, batchRepo.Save(context.Background(), b))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []store.BatchDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ARA-20260830-001", resp.Data[0].BatchCode)
}
