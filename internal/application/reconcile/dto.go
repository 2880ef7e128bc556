package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the result of a reconciliation run, returned to the caller
// and displayed verbatim by the administrative UI.
type Summary struct {
	BatchesCreated int             `json:"batches_created"`
	LotsProcessed  int             `json:"lots_processed"`
	LotsSkipped    int             `json:"lots_skipped"`
	TotalKilograms decimal.Decimal `json:"total_kilograms"`
	OversoldLotIDs []uuid.UUID     `json:"oversold_lot_ids,omitempty"`
	Message        string          `json:"message"`
}

// RunLogEntry is the audit document appended for every reconcile run.
type RunLogEntry struct {
	RanAt          time.Time   `bson:"ran_at"`
	Duration       string      `bson:"duration"`
	BatchesCreated int         `bson:"batches_created"`
	LotsProcessed  int         `bson:"lots_processed"`
	LotsSkipped    int         `bson:"lots_skipped"`
	TotalKilograms string      `bson:"total_kilograms"`
	OversoldLotIDs []uuid.UUID `bson:"oversold_lot_ids,omitempty"`
	Message        string      `bson:"message"`
}

// RunLogStore persists reconcile run audit entries.
type RunLogStore interface {
	Append(ctx context.Context, entry RunLogEntry) error
}
