package batch

import (
	"time"

	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchSource links a batch to a coffee lot contributing to it. One
// lot is linked to at most one batch; the link always carries the
// lot's whole remaining quantity at allocation time.
type BatchSource struct {
	shared.BaseEntity
	BatchID      uuid.UUID
	CoffeeLotID  uuid.UUID
	Kilograms    decimal.Decimal
	SupplierName string
	PurchaseDate time.Time
}

// NewBatchSource creates a source row for a lot remainder
func NewBatchSource(batchID uuid.UUID, lot LotRemainder) *BatchSource {
	return &BatchSource{
		BaseEntity:   shared.NewBaseEntity(),
		BatchID:      batchID,
		CoffeeLotID:  lot.LotID,
		Kilograms:    lot.Remaining,
		SupplierName: lot.SupplierName,
		PurchaseDate: lot.ReceivedDate,
	}
}
