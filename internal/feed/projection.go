// Package feed keeps a read-only copy of every space's calendar, rebuilt from the ledger event
// stream, for consumers that render availability without touching the reservation service.
package feed

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"spaces/pkg/config"
	"spaces/pkg/kafka"
	"spaces/pkg/ledger"
	"spaces/pkg/logger"
	"spaces/pkg/model"

	"github.com/shopspring/decimal"
)

type calendar struct {
	origin    time.Time
	rate      decimal.Decimal
	occupancy *ledger.Bitset
	updatedAt time.Time
}

// Projection applies ledger events in arrival order. Kafka keys events by space, so the events
// of one space arrive in commit order.
type Projection struct {
	mu           sync.RWMutex
	calendars    map[string]*calendar
	maxSpanHours uint64
	horizon      time.Duration
	log          *logger.Logger
}

type Option func(*Projection)

// WithMaxSpan caps the hours a single reservation event may cover.
func WithMaxSpan(hours int) Option {
	return func(p *Projection) {
		p.maxSpanHours = uint64(max(hours, 1))
	}
}

// WithHorizon caps how far past its own timestamp an event may reach.
func WithHorizon(d time.Duration) Option {
	return func(p *Projection) {
		p.horizon = max(d, time.Hour)
	}
}

func NewProjection(log *logger.Logger, opts ...Option) *Projection {
	p := &Projection{
		calendars:    make(map[string]*calendar),
		maxSpanHours: config.DefaultMaxReservationHours,
		horizon:      config.DefaultBookingHorizonDays * 24 * time.Hour,
		log:          log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle is a kafka.MessageHandler. Undecodable or unknown events are permanent failures and
// end up on the dead letter topic.
func (p *Projection) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.LedgerEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid ledger event payload", err)
	}
	if event.SpaceID == "" {
		return kafka.NewPermanentError("ledger event without space id", nil)
	}
	return p.Apply(event)
}

func (p *Projection) Apply(event model.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if event.Kind == model.LedgerEventSpaceDeleted {
		delete(p.calendars, event.SpaceID)
		return nil
	}

	if err := p.checkHours(event); err != nil {
		return err
	}

	cal, ok := p.calendars[event.SpaceID]
	if !ok {
		cal = &calendar{origin: event.Origin, occupancy: ledger.NewBitset()}
		p.calendars[event.SpaceID] = cal
	}

	switch ledger.EventKind(event.Kind) {
	case ledger.EventReserved:
		cal.occupancy.SetRange(event.StartHour, event.EndHour)
	case ledger.EventReleased:
		cal.occupancy.ClearRange(event.StartHour, event.EndHour)
	case ledger.EventRateChanged:
	default:
		return kafka.NewPermanentError(fmt.Sprintf("unknown ledger event kind %q", event.Kind), nil)
	}
	cal.rate = event.Rate
	cal.updatedAt = event.OccurredAt
	return nil
}

// checkHours rejects hour ranges the reservation service never emits. Ranges must not be
// inverted, a reservation covers at most maxSpanHours, and no range ends past the horizon
// measured from the event's own timestamp.
func (p *Projection) checkHours(event model.LedgerEvent) error {
	kind := ledger.EventKind(event.Kind)
	if kind != ledger.EventReserved && kind != ledger.EventReleased {
		return nil
	}
	if event.StartHour > event.EndHour {
		return kafka.NewPermanentError(fmt.Sprintf("inverted hour range %d-%d", event.StartHour, event.EndHour), nil)
	}
	if kind == ledger.EventReserved && event.EndHour-event.StartHour+1 > p.maxSpanHours {
		return kafka.NewPermanentError(fmt.Sprintf("reservation of %d hours exceeds %d", event.EndHour-event.StartHour+1, p.maxSpanHours), nil)
	}
	limit := int64(event.OccurredAt.Sub(event.Origin)/time.Hour) + int64(p.horizon/time.Hour)
	if limit < 0 || event.EndHour > uint64(limit)+1 {
		return kafka.NewPermanentError(fmt.Sprintf("hour %d is beyond the booking horizon", event.EndHour), nil)
	}
	return nil
}

// Calendar returns the projected calendar of a space and whether any event for it has been seen.
func (p *Projection) Calendar(spaceID string) (*model.Calendar, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cal, ok := p.calendars[spaceID]
	if !ok {
		return nil, false
	}
	return &model.Calendar{
		SpaceID:       spaceID,
		Origin:        cal.origin,
		HourlyRate:    cal.rate,
		ReservedHours: cal.occupancy.Count(),
		Blocks:        cal.occupancy.Blocks(),
	}, true
}

func (p *Projection) SpaceIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.calendars))
	for id := range p.calendars {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// IsReserved answers for one instant the way the owning ledger would.
func (p *Projection) IsReserved(spaceID string, t time.Time) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cal, ok := p.calendars[spaceID]
	if !ok || t.Before(cal.origin) {
		return false
	}
	return cal.occupancy.Get(uint64(t.Sub(cal.origin) / time.Hour))
}
