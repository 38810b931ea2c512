package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryReservation EntryKind = "reservation"
	EntryRelease     EntryKind = "release"
)

// LedgerEntry records one committed Reserve or Release against a space's calendar.
// Replaying a space's entries in Sequence order rebuilds its occupancy.
type LedgerEntry struct {
	ID        string          `json:"id" bson:"_id"`
	SpaceID   string          `json:"space_id" bson:"space_id"`
	Sequence  int64           `json:"sequence" bson:"sequence"`
	Kind      EntryKind       `json:"kind" bson:"kind"`
	Start     time.Time       `json:"start" bson:"start"`
	End       time.Time       `json:"end" bson:"end"`
	StartHour int64           `json:"start_hour" bson:"start_hour"`
	EndHour   int64           `json:"end_hour" bson:"end_hour"`
	Price     decimal.Decimal `json:"price" bson:"-"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

type ReservationRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// Calendar is the read-only view of a space's ledger.
type Calendar struct {
	SpaceID       string          `json:"space_id"`
	Origin        time.Time       `json:"origin"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	ReservedHours int             `json:"reserved_hours"`
	Blocks        []uint64        `json:"blocks"`
}

type Slot struct {
	SpaceID string          `json:"space_id"`
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Hours   int             `json:"hours"`
	Price   decimal.Decimal `json:"price"`
}
