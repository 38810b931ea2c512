// Package ledger implements the hour-granularity reservation calendar of a single space.
//
// A Ledger measures every instant as a whole-hour offset from its origin, an instant aligned
// forward to the next UTC midnight at construction. Occupancy is kept in a growable Bitset,
// one bit per hour. Reserve is all-or-nothing: it either marks every requested hour or none.
//
// A Ledger is not safe for concurrent use; its owner must serialize calls.
package ledger

import (
	"fmt"
	"time"

	"spaces/pkg/clock"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

type Ledger struct {
	origin    time.Time
	rate      decimal.Decimal
	occupancy *Bitset
	observers []Observer
}

type Option func(*options)

type options struct {
	originHint *time.Time
	clock      clock.Clock
	observers  []Observer
}

// WithOrigin uses t instead of the current time as the origin hint.
func WithOrigin(t time.Time) Option {
	return func(o *options) {
		o.originHint = &t
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}

// New builds an empty ledger. The origin is the hint (or now) rounded forward to the next day
// boundary; a hint already on a boundary moves a full day ahead.
func New(rate decimal.Decimal, opts ...Option) (*Ledger, error) {
	if rate.IsNegative() {
		return nil, ErrNegativeRate
	}

	o := options{clock: clock.NewSystem()}
	for _, opt := range opts {
		opt(&o)
	}

	hint := o.clock.Now()
	if o.originHint != nil {
		hint = *o.originHint
	}

	return &Ledger{
		origin:    AlignOrigin(hint),
		rate:      rate,
		occupancy: NewBitset(),
		observers: o.observers,
	}, nil
}

// AlignOrigin returns the first UTC midnight strictly after t.
func AlignOrigin(t time.Time) time.Time {
	return t.UTC().Truncate(day).Add(day)
}

func (l *Ledger) Origin() time.Time {
	return l.origin
}

func (l *Ledger) Rate() decimal.Decimal {
	return l.rate
}

// Blocks returns a snapshot of the occupancy storage; bit i of block b is hour 64*b+i.
func (l *Ledger) Blocks() []uint64 {
	return l.occupancy.Blocks()
}

// ReservedHours is the number of hours currently reserved.
func (l *Ledger) ReservedHours() int {
	return l.occupancy.Count()
}

func (l *Ledger) Subscribe(obs Observer) {
	l.observers = append(l.observers, obs)
}

// HourOffset is the number of whole hours between the origin and t, rounded down.
// Instants before the origin yield ErrInvalidRange.
func (l *Ledger) HourOffset(t time.Time) (uint64, error) {
	d := t.Sub(l.origin)
	if d < 0 {
		return 0, fmt.Errorf("%w: %s is before origin %s", ErrInvalidRange, t.Format(time.RFC3339), l.origin.Format(time.RFC3339))
	}
	return uint64(int64(d / time.Hour)), nil
}

// HourStart is the instant at which hour offset h begins.
func (l *Ledger) HourStart(h uint64) time.Time {
	return l.origin.Add(time.Duration(h) * time.Hour)
}

// Range is an inclusive span of hour offsets.
type Range struct {
	From uint64
	To   uint64
}

func (r Range) Hours() int64 {
	return int64(r.To-r.From) + 1
}

// HourRange converts [start, end] into the inclusive range of hour offsets it touches.
func (l *Ledger) HourRange(start, end time.Time) (Range, error) {
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: end %s precedes start %s", ErrInvalidRange, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	from, err := l.HourOffset(start)
	if err != nil {
		return Range{}, err
	}
	to, err := l.HourOffset(end)
	if err != nil {
		return Range{}, err
	}
	return Range{From: from, To: to}, nil
}

// Price is what Reserve would charge for r at the current rate.
func (l *Ledger) Price(r Range) decimal.Decimal {
	return l.rate.Mul(decimal.NewFromInt(r.Hours()))
}

// Reserve marks every hour touched by [start, end] as reserved and returns the price, billing
// each touched hour in full. Storage grows to cover the range before the check. If any of
// those hours is already reserved it returns ErrConflict and no hour changes state.
func (l *Ledger) Reserve(start, end time.Time) (decimal.Decimal, error) {
	r, err := l.HourRange(start, end)
	if err != nil {
		return decimal.Zero, err
	}

	l.occupancy.Grow(r.To)
	if l.occupancy.AnySet(r.From, r.To) {
		return decimal.Zero, fmt.Errorf("%w: hours %d-%d", ErrConflict, r.From, r.To)
	}
	l.occupancy.SetRange(r.From, r.To)

	price := l.Price(r)
	l.notify(Event{
		Kind:      EventReserved,
		Start:     start,
		End:       end,
		StartHour: r.From,
		EndHour:   r.To,
		Price:     price,
		Rate:      l.rate,
	})
	return price, nil
}

// Release frees every hour touched by [start, end], whether or not it was reserved.
func (l *Ledger) Release(start, end time.Time) error {
	r, err := l.HourRange(start, end)
	if err != nil {
		return err
	}

	l.occupancy.ClearRange(r.From, r.To)

	l.notify(Event{
		Kind:      EventReleased,
		Start:     start,
		End:       end,
		StartHour: r.From,
		EndHour:   r.To,
		Rate:      l.rate,
	})
	return nil
}

func (l *Ledger) SetRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ErrNegativeRate
	}
	l.rate = rate
	l.notify(Event{Kind: EventRateChanged, Rate: rate})
	return nil
}

// IsReserved reports whether the hour containing t is reserved. Instants before the origin
// are never reserved.
func (l *Ledger) IsReserved(t time.Time) bool {
	h, err := l.HourOffset(t)
	if err != nil {
		return false
	}
	return l.occupancy.Get(h)
}

// NextFree returns the start of the first run of `hours` consecutive free hours beginning at
// or after the hour containing from. It does not modify the ledger.
func (l *Ledger) NextFree(from time.Time, hours int) (time.Time, error) {
	if hours < 1 {
		return time.Time{}, ErrInvalidDuration
	}

	var h uint64
	if !from.Before(l.origin) {
		h, _ = l.HourOffset(from)
	}

	run := 0
	for cur := h; ; cur++ {
		if l.occupancy.Get(cur) {
			run = 0
			continue
		}
		run++
		if run == hours {
			return l.HourStart(cur + 1 - uint64(hours)), nil
		}
	}
}

func (l *Ledger) notify(e Event) {
	e.Origin = l.origin
	for _, obs := range l.observers {
		obs.LedgerChanged(e)
	}
}
