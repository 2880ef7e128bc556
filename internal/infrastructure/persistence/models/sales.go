package models

import (
	"github.com/coffeetrade/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDeductionModel is the persistence model for the SaleDeduction entity.
type SaleDeductionModel struct {
	BaseModel
	CoffeeLotID uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityKg  decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Reference   string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SaleDeductionModel) TableName() string {
	return "sale_deductions"
}

// ToDomain converts the persistence model to a domain SaleDeduction entity.
func (m *SaleDeductionModel) ToDomain() *sales.SaleDeduction {
	return &sales.SaleDeduction{
		BaseEntity:  m.BaseModel.ToDomain(),
		CoffeeLotID: m.CoffeeLotID,
		QuantityKg:  m.QuantityKg,
		Reference:   m.Reference,
	}
}

// FromDomain populates the persistence model from a domain SaleDeduction entity.
func (m *SaleDeductionModel) FromDomain(d *sales.SaleDeduction) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.CoffeeLotID = d.CoffeeLotID
	m.QuantityKg = d.QuantityKg
	m.Reference = d.Reference
}
