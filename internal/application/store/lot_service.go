package store

import (
	"context"
	"fmt"
	"time"

	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLotInput carries the fields for receiving a new coffee lot
type CreateLotInput struct {
	CoffeeType   string
	Kilograms    float64
	SupplierName string
	ReceivedDate time.Time
}

// LotService handles coffee lot store operations
type LotService struct {
	lotRepo procurement.CoffeeLotRepository
}

// NewLotService creates a new LotService
func NewLotService(lotRepo procurement.CoffeeLotRepository) *LotService {
	return &LotService{lotRepo: lotRepo}
}

// ReceiveLot records a new coffee lot delivered by a supplier
func (s *LotService) ReceiveLot(ctx context.Context, input CreateLotInput) (*CoffeeLotDTO, error) {
	receivedDate := input.ReceivedDate
	if receivedDate.IsZero() {
		receivedDate = time.Now()
	}
	lot, err := procurement.NewCoffeeLot(
		input.CoffeeType,
		decimal.NewFromFloat(input.Kilograms),
		input.SupplierName,
		receivedDate,
	)
	if err != nil {
		return nil, err
	}
	if err := s.lotRepo.Save(ctx, lot); err != nil {
		return nil, fmt.Errorf("save coffee lot: %w", err)
	}
	dto := ToCoffeeLotDTO(lot)
	return &dto, nil
}

// GetLot fetches a single coffee lot by ID
func (s *LotService) GetLot(ctx context.Context, id uuid.UUID) (*CoffeeLotDTO, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToCoffeeLotDTO(lot)
	return &dto, nil
}

// ListLots returns a page of coffee lots
func (s *LotService) ListLots(ctx context.Context, filter shared.Filter) (shared.Paginated[CoffeeLotDTO], error) {
	lots, err := s.lotRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CoffeeLotDTO]{}, err
	}
	total, err := s.lotRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[CoffeeLotDTO]{}, err
	}
	dtos := make([]CoffeeLotDTO, len(lots))
	for i := range lots {
		dtos[i] = ToCoffeeLotDTO(&lots[i])
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PageSize), nil
}

// DeleteLot removes a coffee lot from the store
func (s *LotService) DeleteLot(ctx context.Context, id uuid.UUID) error {
	return s.lotRepo.Delete(ctx, id)
}
