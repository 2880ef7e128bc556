package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CoffeeLotSortFields contains allowed sort fields for coffee lots
var CoffeeLotSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"coffee_type":   true,
	"kilograms":     true,
	"supplier_name": true,
	"received_date": true,
	"status":        true,
}

// SaleDeductionSortFields contains allowed sort fields for sale deductions
var SaleDeductionSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"coffee_lot_id": true,
	"quantity_kg":   true,
	"reference":     true,
}

// InventoryBatchSortFields contains allowed sort fields for inventory batches
var InventoryBatchSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"batch_code":      true,
	"coffee_type":     true,
	"total_kilograms": true,
	"status":          true,
	"batch_date":      true,
}
