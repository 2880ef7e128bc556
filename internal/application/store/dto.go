package store

import (
	"time"

	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/coffeetrade/backend/internal/domain/sales"
)

// CoffeeLotDTO is the application-layer representation of a coffee lot
type CoffeeLotDTO struct {
	ID           string    `json:"id"`
	CoffeeType   string    `json:"coffee_type"`
	Kilograms    float64   `json:"kilograms"`
	SupplierName string    `json:"supplier_name"`
	ReceivedDate time.Time `json:"received_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToCoffeeLotDTO converts a domain coffee lot to its DTO
func ToCoffeeLotDTO(lot *procurement.CoffeeLot) CoffeeLotDTO {
	kg, _ := lot.Kilograms.Float64()
	return CoffeeLotDTO{
		ID:           lot.ID.String(),
		CoffeeType:   lot.CoffeeType,
		Kilograms:    kg,
		SupplierName: lot.SupplierName,
		ReceivedDate: lot.ReceivedDate,
		Status:       string(lot.Status),
		CreatedAt:    lot.CreatedAt,
		UpdatedAt:    lot.UpdatedAt,
	}
}

// SaleDeductionDTO is the application-layer representation of a deduction
type SaleDeductionDTO struct {
	ID          string    `json:"id"`
	CoffeeLotID string    `json:"coffee_lot_id"`
	QuantityKg  float64   `json:"quantity_kg"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToSaleDeductionDTO converts a domain deduction to its DTO
func ToSaleDeductionDTO(d *sales.SaleDeduction) SaleDeductionDTO {
	kg, _ := d.QuantityKg.Float64()
	return SaleDeductionDTO{
		ID:          d.ID.String(),
		CoffeeLotID: d.CoffeeLotID.String(),
		QuantityKg:  kg,
		Reference:   d.Reference,
		CreatedAt:   d.CreatedAt,
	}
}

// BatchDTO is the application-layer representation of an inventory batch
type BatchDTO struct {
	ID                 string           `json:"id"`
	BatchCode          string           `json:"batch_code"`
	CoffeeType         string           `json:"coffee_type"`
	TargetCapacity     float64          `json:"target_capacity"`
	TotalKilograms     float64          `json:"total_kilograms"`
	RemainingKilograms float64          `json:"remaining_kilograms"`
	Status             string           `json:"status"`
	BatchDate          time.Time        `json:"batch_date"`
	Sources            []BatchSourceDTO `json:"sources,omitempty"`
}

// BatchSourceDTO is the application-layer representation of a batch source
type BatchSourceDTO struct {
	ID           string    `json:"id"`
	BatchID      string    `json:"batch_id"`
	CoffeeLotID  string    `json:"coffee_lot_id"`
	Kilograms    float64   `json:"kilograms"`
	SupplierName string    `json:"supplier_name"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// ToBatchDTO converts a domain batch to its DTO
func ToBatchDTO(b *batch.InventoryBatch) BatchDTO {
	capacity, _ := b.TargetCapacity.Float64()
	total, _ := b.TotalKilograms.Float64()
	remaining, _ := b.RemainingKilograms.Float64()
	dto := BatchDTO{
		ID:                 b.ID.String(),
		BatchCode:          b.BatchCode,
		CoffeeType:         b.CoffeeType,
		TargetCapacity:     capacity,
		TotalKilograms:     total,
		RemainingKilograms: remaining,
		Status:             string(b.Status),
		BatchDate:          b.BatchDate,
	}
	for i := range b.Sources {
		dto.Sources = append(dto.Sources, ToBatchSourceDTO(&b.Sources[i]))
	}
	return dto
}

// ToBatchSourceDTO converts a domain batch source to its DTO
func ToBatchSourceDTO(s *batch.BatchSource) BatchSourceDTO {
	kg, _ := s.Kilograms.Float64()
	return BatchSourceDTO{
		ID:           s.ID.String(),
		BatchID:      s.BatchID.String(),
		CoffeeLotID:  s.CoffeeLotID.String(),
		Kilograms:    kg,
		SupplierName: s.SupplierName,
		PurchaseDate: s.PurchaseDate,
	}
}
