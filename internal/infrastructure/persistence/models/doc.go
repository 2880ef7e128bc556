// Package models contains GORM-specific persistence models that map to
// database tables. These models are separate from domain entities to keep
// the domain layer pure and free from ORM concerns.
//
// Structure:
// - base.go: Base persistence model (BaseModel)
// - procurement.go: Coffee lot model
// - sales.go: Sale deduction ledger model
// - batch.go: Inventory batch and batch source models
package models

// AllModels returns every persistence model for schema migration.
func AllModels() []interface{} {
	return []interface{}{
		&CoffeeLotModel{},
		&SaleDeductionModel{},
		&InventoryBatchModel{},
		&BatchSourceModel{},
	}
}
