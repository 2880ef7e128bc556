package models

import (
	"time"

	"github.com/coffeetrade/backend/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// CoffeeLotModel is the persistence model for the CoffeeLot entity.
type CoffeeLotModel struct {
	BaseModel
	CoffeeType   string                `gorm:"type:varchar(100);not null;index"`
	Kilograms    decimal.Decimal       `gorm:"type:decimal(14,3);not null"`
	SupplierName string                `gorm:"type:varchar(200)"`
	ReceivedDate time.Time             `gorm:"not null;index"`
	Status       procurement.LotStatus `gorm:"type:varchar(20);not null;default:'inventory';index"`
}

// TableName returns the table name for GORM
func (CoffeeLotModel) TableName() string {
	return "coffee_lots"
}

// ToDomain converts the persistence model to a domain CoffeeLot entity.
func (m *CoffeeLotModel) ToDomain() *procurement.CoffeeLot {
	return &procurement.CoffeeLot{
		BaseEntity:   m.BaseModel.ToDomain(),
		CoffeeType:   m.CoffeeType,
		Kilograms:    m.Kilograms,
		SupplierName: m.SupplierName,
		ReceivedDate: m.ReceivedDate,
		Status:       m.Status,
	}
}

// FromDomain populates the persistence model from a domain CoffeeLot entity.
func (m *CoffeeLotModel) FromDomain(l *procurement.CoffeeLot) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.CoffeeType = l.CoffeeType
	m.Kilograms = l.Kilograms
	m.SupplierName = l.SupplierName
	m.ReceivedDate = l.ReceivedDate
	m.Status = l.Status
}
