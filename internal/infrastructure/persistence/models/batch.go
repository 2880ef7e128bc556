package models

import (
	"time"

	"github.com/coffeetrade/backend/internal/domain/batch"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBatchModel is the persistence model for the InventoryBatch entity.
type InventoryBatchModel struct {
	BaseModel
	BatchCode          string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_inventory_batch_code"`
	CoffeeType         string             `gorm:"type:varchar(100);not null;index"`
	TargetCapacity     decimal.Decimal    `gorm:"type:decimal(14,3);not null"`
	TotalKilograms     decimal.Decimal    `gorm:"type:decimal(14,3);not null;default:0"`
	RemainingKilograms decimal.Decimal    `gorm:"type:decimal(14,3);not null;default:0"`
	Status             batch.BatchStatus  `gorm:"type:varchar(20);not null;default:'filling';index"`
	BatchDate          time.Time          `gorm:"not null"`
	Sources            []BatchSourceModel `gorm:"foreignKey:BatchID;references:ID"`
}

// TableName returns the table name for GORM
func (InventoryBatchModel) TableName() string {
	return "inventory_batches"
}

// ToDomain converts the persistence model to a domain InventoryBatch entity.
func (m *InventoryBatchModel) ToDomain() *batch.InventoryBatch {
	b := &batch.InventoryBatch{
		BaseEntity:         m.BaseModel.ToDomain(),
		BatchCode:          m.BatchCode,
		CoffeeType:         m.CoffeeType,
		TargetCapacity:     m.TargetCapacity,
		TotalKilograms:     m.TotalKilograms,
		RemainingKilograms: m.RemainingKilograms,
		Status:             m.Status,
		BatchDate:          m.BatchDate,
	}
	if len(m.Sources) > 0 {
		b.Sources = make([]batch.BatchSource, len(m.Sources))
		for i, s := range m.Sources {
			b.Sources[i] = *s.ToDomain()
		}
	}
	return b
}

// FromDomain populates the persistence model from a domain InventoryBatch
// entity. Sources are persisted through their own repository and are not
// written through the batch model.
func (m *InventoryBatchModel) FromDomain(b *batch.InventoryBatch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.BatchCode = b.BatchCode
	m.CoffeeType = b.CoffeeType
	m.TargetCapacity = b.TargetCapacity
	m.TotalKilograms = b.TotalKilograms
	m.RemainingKilograms = b.RemainingKilograms
	m.Status = b.Status
	m.BatchDate = b.BatchDate
}

// BatchSourceModel is the persistence model for the BatchSource entity.
// The unique index on coffee_lot_id enforces that a lot is linked to at
// most one batch.
type BatchSourceModel struct {
	BaseModel
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CoffeeLotID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_source_lot"`
	Kilograms    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	SupplierName string          `gorm:"type:varchar(200)"`
	PurchaseDate time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BatchSourceModel) TableName() string {
	return "batch_sources"
}

// ToDomain converts the persistence model to a domain BatchSource entity.
func (m *BatchSourceModel) ToDomain() *batch.BatchSource {
	return &batch.BatchSource{
		BaseEntity:   m.BaseModel.ToDomain(),
		BatchID:      m.BatchID,
		CoffeeLotID:  m.CoffeeLotID,
		Kilograms:    m.Kilograms,
		SupplierName: m.SupplierName,
		PurchaseDate: m.PurchaseDate,
	}
}

// FromDomain populates the persistence model from a domain BatchSource entity.
func (m *BatchSourceModel) FromDomain(s *batch.BatchSource) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.BatchID = s.BatchID
	m.CoffeeLotID = s.CoffeeLotID
	m.Kilograms = s.Kilograms
	m.SupplierName = s.SupplierName
	m.PurchaseDate = s.PurchaseDate
}
