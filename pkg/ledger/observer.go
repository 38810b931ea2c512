package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventKind string

const (
	EventReserved    EventKind = "reserved"
	EventReleased    EventKind = "released"
	EventRateChanged EventKind = "rate_changed"
)

// Event describes one committed ledger mutation. Range fields are zero for rate changes.
type Event struct {
	Kind      EventKind
	Origin    time.Time
	Start     time.Time
	End       time.Time
	StartHour uint64
	EndHour   uint64
	Price     decimal.Decimal
	Rate      decimal.Decimal
}

// Observer is notified after a Reserve, Release or SetRate has been committed.
// Observers run synchronously on the caller's goroutine and must not call back into the ledger.
type Observer interface {
	LedgerChanged(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) LedgerChanged(e Event) {
	f(e)
}
