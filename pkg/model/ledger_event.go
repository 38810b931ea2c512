package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const LedgerEventSchemaVersion = "1"

// LedgerEventSpaceDeleted tells calendar consumers to drop a space. The other kinds mirror the
// ledger's own change notifications.
const LedgerEventSpaceDeleted = "space_deleted"

// LedgerEvent is the published form of a committed calendar change. Hour offsets are relative
// to Origin; range fields are zero for rate changes.
type LedgerEvent struct {
	SpaceID    string          `json:"space_id"`
	Kind       string          `json:"kind"`
	Origin     time.Time       `json:"origin"`
	Start      time.Time       `json:"start,omitzero"`
	End        time.Time       `json:"end,omitzero"`
	StartHour  uint64          `json:"start_hour"`
	EndHour    uint64          `json:"end_hour"`
	Price      decimal.Decimal `json:"price"`
	Rate       decimal.Decimal `json:"rate"`
	OccurredAt time.Time       `json:"occurred_at"`
}
