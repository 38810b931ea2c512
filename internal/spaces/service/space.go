package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	spaceserrors "spaces/internal/spaces/errors"
	"spaces/internal/spaces/events"
	"spaces/internal/spaces/repository"
	"spaces/internal/spaces/validator"
	"spaces/pkg/clock"
	"spaces/pkg/config"
	apperrors "spaces/pkg/errors"
	"spaces/pkg/ledger"
	"spaces/pkg/model"
	"spaces/pkg/sanitizer"

	"github.com/google/uuid"
)

type SpaceService interface {
	Create(ctx context.Context, space *model.Space) error
	GetByID(ctx context.Context, id string) (*model.Space, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error)
	Update(ctx context.Context, id string, updates *model.SpaceUpdate) (*model.Space, error)
	Delete(ctx context.Context, id string) error

	SetRate(ctx context.Context, id string, req *model.RateUpdate) error
	Reserve(ctx context.Context, id string, req *model.ReservationRequest) (*model.LedgerEntry, error)
	Release(ctx context.Context, id string, req *model.ReservationRequest) error
	Calendar(ctx context.Context, id string) (*model.Calendar, error)
	FindNextAvailable(ctx context.Context, id string, from time.Time, hours int) (*model.Slot, error)
	AddReview(ctx context.Context, id string, req *model.ReviewRequest) (*model.Space, error)
}

// spaceState is the in-memory calendar of one space. mu serializes every ledger operation on
// the space; ledger is nil until the entry log has been replayed. Another instance may append
// to the same log, in which case the next write here collides on nextSeq and the state is
// marked stale and rebuilt.
type spaceState struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	nextSeq int64
	pending []ledger.Event
	notify  ledger.Observer
	deleted bool
	stale   bool
}

// flush hands buffered ledger events to the publisher once their entry is durable.
func (st *spaceState) flush() {
	for _, e := range st.pending {
		st.notify.LedgerChanged(e)
	}
	st.pending = nil
}

type spaceService struct {
	repo      repository.SpaceRepository
	validator *validator.SpaceValidator
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.Config

	mu     sync.Mutex
	states map[string]*spaceState
}

type Option func(*spaceService)

func WithClock(c clock.Clock) Option {
	return func(s *spaceService) {
		s.clock = c
	}
}

func NewSpaceService(
	repo repository.SpaceRepository,
	validator *validator.SpaceValidator,
	publisher events.Publisher,
	cfg *config.Config,
	opts ...Option,
) SpaceService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	s := &spaceService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		clock:     clock.NewSystem(),
		cfg:       cfg,
		states:    make(map[string]*spaceState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lookupError(err error, id string) error {
	if errors.Is(err, spaceserrors.ErrNotFound) {
		return apperrors.NotFound("Space", id)
	}
	if errors.Is(err, spaceserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid space ID format")
	}
	if errors.Is(err, spaceserrors.ErrDuplicate) {
		return apperrors.Conflict("A space with this name already exists")
	}
	return nil
}

func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrConflict):
		return apperrors.HoursTaken()
	case errors.Is(err, ledger.ErrInvalidRange):
		return apperrors.InvalidInput(err.Error())
	case errors.Is(err, ledger.ErrInvalidDuration):
		return apperrors.InvalidInput(err.Error())
	case errors.Is(err, ledger.ErrNegativeRate):
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Fields())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func (s *spaceService) withOrigin(space *model.Space) *model.Space {
	space.CalendarOrigin = ledger.AlignOrigin(space.CreatedAt)
	return space
}

func (s *spaceService) newLedger(space *model.Space) (*ledger.Ledger, error) {
	return ledger.New(space.HourlyRate, ledger.WithOrigin(space.CreatedAt), ledger.WithClock(s.clock))
}

func (s *spaceService) attach(id string, st *spaceState) {
	st.notify = events.Observer(id, s.publisher, s.clock)
	st.ledger.Subscribe(ledger.ObserverFunc(func(e ledger.Event) {
		st.pending = append(st.pending, e)
	}))
}

// lockSpace returns the space's state with its mutex held, replaying the entry log on first
// use. The caller must unlock st.mu.
func (s *spaceService) lockSpace(ctx context.Context, id string) (*spaceState, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Space ID cannot be empty")
	}

	var st *spaceState
	for {
		s.mu.Lock()
		var ok bool
		st, ok = s.states[id]
		if !ok {
			st = &spaceState{}
			s.states[id] = st
		}
		s.mu.Unlock()

		st.mu.Lock()
		if !st.stale {
			break
		}
		st.mu.Unlock()
	}

	if st.deleted {
		st.mu.Unlock()
		return nil, apperrors.NotFound("Space", id)
	}
	if st.ledger != nil {
		return st, nil
	}

	if err := s.hydrate(ctx, id, st); err != nil {
		if appErr := lookupError(err, id); appErr != nil {
			st.deleted = true
			s.forget(id, st)
			st.mu.Unlock()
			return nil, appErr
		}
		st.mu.Unlock()
		s.cfg.Log.Error("Failed to load space calendar", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to load space calendar", err)
	}
	return st, nil
}

func (s *spaceService) forget(id string, st *spaceState) {
	s.mu.Lock()
	if s.states[id] == st {
		delete(s.states, id)
	}
	s.mu.Unlock()
}

// hydrate rebuilds the ledger from the stored entries. Observers are attached after replay so
// history is not republished.
func (s *spaceService) hydrate(ctx context.Context, id string, st *spaceState) error {
	space, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	entries, err := s.repo.Entries(ctx, id)
	if err != nil {
		return err
	}

	l, err := s.newLedger(space)
	if err != nil {
		return fmt.Errorf("space %s has an invalid stored rate: %w", id, err)
	}

	var next int64 = 1
	for _, entry := range entries {
		switch entry.Kind {
		case model.EntryReservation:
			if _, err := l.Reserve(entry.Start, entry.End); err != nil {
				s.cfg.Log.Warn("Skipping ledger entry that no longer applies",
					"id", id,
					"entry_id", entry.ID,
					"sequence", entry.Sequence,
					"error", err,
				)
			}
		case model.EntryRelease:
			if err := l.Release(entry.Start, entry.End); err != nil {
				s.cfg.Log.Warn("Skipping ledger entry that no longer applies",
					"id", id,
					"entry_id", entry.ID,
					"sequence", entry.Sequence,
					"error", err,
				)
			}
		}
		if entry.Sequence >= next {
			next = entry.Sequence + 1
		}
	}

	st.ledger = l
	st.nextSeq = next
	s.attach(id, st)

	s.cfg.Log.Debug("Space calendar rebuilt",
		"id", id,
		"entries", len(entries),
		"reserved_hours", l.ReservedHours(),
	)
	return nil
}

func (s *spaceService) Create(ctx context.Context, space *model.Space) error {
	s.sanitize(space)
	s.applyDefaults(space)

	if err := s.validator.Validate(space); err != nil {
		s.cfg.Log.Warn("Space validation failed",
			"name", space.Name,
			"error", err,
		)
		return validationError("Space validation failed", err)
	}

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByName(txCtx, space.Name)
		if err != nil && !errors.Is(err, spaceserrors.ErrNotFound) {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if existing != nil {
			return apperrors.Conflict(fmt.Sprintf("Space named %q already exists (id: %s)", existing.Name, existing.ID))
		}

		if err := s.repo.Create(txCtx, space); err != nil {
			return fmt.Errorf("failed to create space: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, spaceserrors.ErrDuplicate) {
			err = lookupError(err, "")
		}
		if apperrors.IsAppError(err) {
			s.cfg.Log.Warn("Space not created", "name", space.Name, "error", err)
			return err
		}
		s.cfg.Log.Error("Failed to create space",
			"name", space.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to create space", err)
	}

	l, err := s.newLedger(space)
	if err != nil {
		return apperrors.Internal("Failed to create space calendar", err)
	}
	st := &spaceState{ledger: l, nextSeq: 1}
	s.attach(space.ID, st)
	s.mu.Lock()
	s.states[space.ID] = st
	s.mu.Unlock()

	s.withOrigin(space)

	s.cfg.Log.Info("Space created successfully",
		"id", space.ID,
		"name", space.Name,
		"hourly_rate", space.HourlyRate.String(),
		"calendar_origin", space.CalendarOrigin,
	)

	return nil
}

func (s *spaceService) GetByID(ctx context.Context, id string) (*model.Space, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Space ID cannot be empty")
	}

	space, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if appErr := lookupError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to get space by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve space", err)
	}

	return s.withOrigin(space), nil
}

func (s *spaceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var spaces []*model.Space
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count spaces", "error", err)
			errCount = apperrors.Internal("Failed to count spaces", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		spaces, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all spaces",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve spaces", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	for _, space := range spaces {
		s.withOrigin(space)
	}
	return spaces, count, nil
}

func (s *spaceService) Update(ctx context.Context, id string, updates *model.SpaceUpdate) (*model.Space, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Space ID cannot be empty")
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validationError("Space update validation failed", err)
	}

	var merged *model.Space
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			if appErr := lookupError(err, id); appErr != nil {
				return appErr
			}
			return fmt.Errorf("failed to check space existence: %w", err)
		}

		merged = s.mergeSpaceUpdates(existing, updates)
		if err := s.validator.Validate(merged); err != nil {
			s.cfg.Log.Warn("Space validation failed",
				"id", id,
				"name", merged.Name,
				"error", err,
			)
			return validationError("Space validation failed", err)
		}

		if updates.Name != "" {
			other, err := s.repo.FindByName(txCtx, merged.Name)
			if err != nil && !errors.Is(err, spaceserrors.ErrNotFound) {
				return fmt.Errorf("failed to check for duplicates: %w", err)
			}
			if other != nil && other.ID != id {
				return apperrors.Conflict(fmt.Sprintf("Space named %q already exists (id: %s)", other.Name, other.ID))
			}
		}

		return s.repo.Update(txCtx, id, merged)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		if appErr := lookupError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to update space",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update space", err)
	}

	s.cfg.Log.Info("Space updated successfully",
		"id", id,
		"name", merged.Name,
	)

	return s.withOrigin(merged), nil
}

func (s *spaceService) Delete(ctx context.Context, id string) error {
	st, err := s.lockSpace(ctx, id)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		if appErr := lookupError(err, id); appErr != nil {
			return appErr
		}
		s.cfg.Log.Error("Failed to delete space",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete space", err)
	}

	st.deleted = true
	st.pending = nil
	s.forget(id, st)
	s.publisher.Publish(model.LedgerEvent{
		SpaceID:    id,
		Kind:       model.LedgerEventSpaceDeleted,
		Origin:     st.ledger.Origin(),
		OccurredAt: s.clock.Now(),
	})

	s.cfg.Log.Info("Space deleted successfully", "id", id)

	return nil
}

func (s *spaceService) SetRate(ctx context.Context, id string, req *model.RateUpdate) error {
	if err := s.validator.ValidateRate(req); err != nil {
		return validationError("Rate validation failed", err)
	}

	st, err := s.lockSpace(ctx, id)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	if err := s.repo.UpdateRate(ctx, id, req.HourlyRate); err != nil {
		if appErr := lookupError(err, id); appErr != nil {
			return appErr
		}
		s.cfg.Log.Error("Failed to update hourly rate",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update hourly rate", err)
	}

	if err := st.ledger.SetRate(req.HourlyRate); err != nil {
		return ledgerError(err)
	}
	st.flush()

	s.cfg.Log.Info("Hourly rate updated",
		"id", id,
		"hourly_rate", req.HourlyRate.String(),
	)
	return nil
}

func (s *spaceService) checkHorizon(t time.Time) error {
	if s.cfg.BookingHorizonDays <= 0 {
		return nil
	}
	horizon := s.clock.Now().AddDate(0, 0, s.cfg.BookingHorizonDays)
	if t.After(horizon) {
		return apperrors.InvalidInput(fmt.Sprintf(
			"%s is beyond the %d day booking horizon",
			t.Format(time.RFC3339), s.cfg.BookingHorizonDays,
		))
	}
	return nil
}

// staleRetries is how many times a write replays a calendar that fell behind the stored log.
const staleRetries = 2

// retryStale runs op again after each ErrSequenceTaken, which means another instance wrote to
// the space first and op has already dropped the outdated calendar.
func (s *spaceService) retryStale(id string, op func() error) error {
	for attempt := 0; ; attempt++ {
		err := op()
		if !errors.Is(err, spaceserrors.ErrSequenceTaken) {
			return err
		}
		if attempt == staleRetries {
			s.cfg.Log.Warn("Space calendar kept changing under a write", "id", id, "attempts", attempt+1)
			return apperrors.CalendarChanged(id)
		}
		s.cfg.Log.Info("Replaying space calendar written by another instance", "id", id, "attempt", attempt+1)
	}
}

// invalidate drops a calendar that is behind the stored log. Callers hold st.mu; anyone
// queued on it sees stale and looks the space up again.
func (s *spaceService) invalidate(id string, st *spaceState) {
	st.stale = true
	st.pending = nil
	s.forget(id, st)
}

func (s *spaceService) Reserve(ctx context.Context, id string, req *model.ReservationRequest) (*model.LedgerEntry, error) {
	if err := s.validator.ValidateReservation(req); err != nil {
		return nil, validationError("Reservation validation failed", err)
	}
	if err := s.checkHorizon(req.End); err != nil {
		return nil, err
	}

	var entry *model.LedgerEntry
	err := s.retryStale(id, func() error {
		var err error
		entry, err = s.reserve(ctx, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *spaceService) reserve(ctx context.Context, id string, req *model.ReservationRequest) (*model.LedgerEntry, error) {
	st, err := s.lockSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	hours, err := st.ledger.HourRange(req.Start, req.End)
	if err != nil {
		return nil, ledgerError(err)
	}

	price, err := st.ledger.Reserve(req.Start, req.End)
	if err != nil {
		if appErr := ledgerError(err); appErr != nil {
			s.cfg.Log.Info("Reservation rejected",
				"id", id,
				"start", req.Start,
				"end", req.End,
				"error", err,
			)
			return nil, appErr
		}
		return nil, apperrors.Internal("Failed to reserve", err)
	}

	entry := &model.LedgerEntry{
		ID:        uuid.NewString(),
		SpaceID:   id,
		Sequence:  st.nextSeq,
		Kind:      model.EntryReservation,
		Start:     req.Start.UTC(),
		End:       req.End.UTC(),
		StartHour: int64(hours.From),
		EndHour:   int64(hours.To),
		Price:     price,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.AppendEntry(ctx, entry); err != nil {
		if rbErr := st.ledger.Release(req.Start, req.End); rbErr != nil {
			s.cfg.Log.Error("Failed to roll back reservation", "id", id, "error", rbErr)
		}
		st.pending = nil
		if errors.Is(err, spaceserrors.ErrSequenceTaken) {
			s.invalidate(id, st)
			return nil, err
		}
		if appErr := lookupError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to record reservation",
			"id", id,
			"start", req.Start,
			"end", req.End,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to record reservation", err)
	}
	st.nextSeq++
	st.flush()

	s.cfg.Log.Info("Reservation accepted",
		"id", id,
		"reservation_id", entry.ID,
		"start_hour", entry.StartHour,
		"end_hour", entry.EndHour,
		"price", price.String(),
	)

	return entry, nil
}

func (s *spaceService) Release(ctx context.Context, id string, req *model.ReservationRequest) error {
	if req.End.Before(req.Start) {
		return apperrors.InvalidInput("end must not be before start")
	}
	if err := s.checkHorizon(req.End); err != nil {
		return err
	}

	return s.retryStale(id, func() error {
		return s.release(ctx, id, req)
	})
}

func (s *spaceService) release(ctx context.Context, id string, req *model.ReservationRequest) error {
	st, err := s.lockSpace(ctx, id)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	hours, err := st.ledger.HourRange(req.Start, req.End)
	if err != nil {
		return ledgerError(err)
	}

	entry := &model.LedgerEntry{
		ID:        uuid.NewString(),
		SpaceID:   id,
		Sequence:  st.nextSeq,
		Kind:      model.EntryRelease,
		Start:     req.Start.UTC(),
		End:       req.End.UTC(),
		StartHour: int64(hours.From),
		EndHour:   int64(hours.To),
		CreatedAt: s.clock.Now(),
	}

	// The entry is written first: a failed write leaves the ledger untouched.
	if err := s.repo.AppendEntry(ctx, entry); err != nil {
		if errors.Is(err, spaceserrors.ErrSequenceTaken) {
			s.invalidate(id, st)
			return err
		}
		if appErr := lookupError(err, id); appErr != nil {
			return appErr
		}
		s.cfg.Log.Error("Failed to record release",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to record release", err)
	}
	st.nextSeq++

	if err := st.ledger.Release(req.Start, req.End); err != nil {
		return ledgerError(err)
	}
	st.flush()

	s.cfg.Log.Info("Hours released",
		"id", id,
		"start_hour", entry.StartHour,
		"end_hour", entry.EndHour,
	)
	return nil
}

func (s *spaceService) Calendar(ctx context.Context, id string) (*model.Calendar, error) {
	st, err := s.lockSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	return &model.Calendar{
		SpaceID:       id,
		Origin:        st.ledger.Origin(),
		HourlyRate:    st.ledger.Rate(),
		ReservedHours: st.ledger.ReservedHours(),
		Blocks:        st.ledger.Blocks(),
	}, nil
}

func (s *spaceService) FindNextAvailable(ctx context.Context, id string, from time.Time, hours int) (*model.Slot, error) {
	if hours < 1 {
		return nil, ledgerError(ledger.ErrInvalidDuration)
	}
	if s.cfg.MaxReservationHours > 0 && hours > s.cfg.MaxReservationHours {
		return nil, apperrors.InvalidInput(fmt.Sprintf("hours may be at most %d", s.cfg.MaxReservationHours))
	}
	if err := s.checkHorizon(from); err != nil {
		return nil, err
	}

	st, err := s.lockSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	start, err := st.ledger.NextFree(from, hours)
	if err != nil {
		return nil, ledgerError(err)
	}
	end := start.Add(time.Duration(hours)*time.Hour - time.Second)
	if err := s.checkHorizon(end); err != nil {
		return nil, err
	}

	r, err := st.ledger.HourRange(start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to price slot", err)
	}

	return &model.Slot{
		SpaceID: id,
		Start:   start,
		End:     end,
		Hours:   hours,
		Price:   st.ledger.Price(r),
	}, nil
}

func (s *spaceService) AddReview(ctx context.Context, id string, req *model.ReviewRequest) (*model.Space, error) {
	req.Text = sanitizer.NormalizeReviewText(req.Text)
	if err := s.validator.ValidateReview(req); err != nil {
		return nil, validationError("Review validation failed", err)
	}

	// The space lock also serializes the read-modify-write of the running mean.
	st, err := s.lockSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	space, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if appErr := lookupError(err, id); appErr != nil {
			return nil, appErr
		}
		return nil, apperrors.Internal("Failed to retrieve space", err)
	}

	space.Review.Add(req.Text, req.Score, s.clock.Now())
	if err := s.repo.UpdateReview(ctx, id, space.Review); err != nil {
		if appErr := lookupError(err, id); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Failed to store review",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to store review", err)
	}

	s.cfg.Log.Info("Review added",
		"id", id,
		"score", req.Score,
		"number_of_reviews", space.Review.NumberOfReviews,
	)
	return s.withOrigin(space), nil
}

// sanitize leaves an unparseable phone as typed so validation reports it.
func (s *spaceService) sanitize(space *model.Space) {
	space.Name = sanitizer.NormalizeName(space.Name)
	space.Tags = sanitizer.NormalizeTags(space.Tags)
	if phone := sanitizer.NormalizePhone(space.ManagerPhone); phone != "" {
		space.ManagerPhone = phone
	}
	space.NumberOfPeople = sanitizer.NormalizeCapacity(space.NumberOfPeople)
	space.Seating.NumberOfSeats = sanitizer.NormalizeCapacity(space.Seating.NumberOfSeats)
	space.Dimensions.Normalize()
}

func (s *spaceService) sanitizeUpdate(updates *model.SpaceUpdate) {
	updates.Name = sanitizer.NormalizeName(updates.Name)
	if updates.Tags != nil {
		tags := sanitizer.NormalizeTags(*updates.Tags)
		updates.Tags = &tags
	}
	if updates.ManagerPhone != nil {
		if phone := sanitizer.NormalizePhone(*updates.ManagerPhone); phone != "" {
			updates.ManagerPhone = &phone
		}
	}
	if updates.NumberOfPeople != nil {
		n := sanitizer.NormalizeCapacity(*updates.NumberOfPeople)
		updates.NumberOfPeople = &n
	}
	if updates.Dimensions != nil {
		updates.Dimensions.Normalize()
	}
	if updates.Seating != nil {
		updates.Seating.NumberOfSeats = sanitizer.NormalizeCapacity(updates.Seating.NumberOfSeats)
	}
}

// applyDefaults fills what a new listing may omit. Reviews and the ledger always start empty.
func (s *spaceService) applyDefaults(space *model.Space) {
	if space.HourlyRate.IsZero() {
		space.HourlyRate = s.cfg.DefaultHourlyRate
	}
	space.Review = model.Review{}
}

func (s *spaceService) mergeSpaceUpdates(existing *model.Space, updates *model.SpaceUpdate) *model.Space {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.NumberOfPeople != nil {
		merged.NumberOfPeople = *updates.NumberOfPeople
	}
	if updates.Dimensions != nil {
		merged.Dimensions = *updates.Dimensions
	}
	if updates.Seating != nil {
		merged.Seating = *updates.Seating
	}
	if updates.Features != nil {
		merged.Features = *updates.Features
	}
	if updates.Tags != nil {
		merged.Tags = *updates.Tags
	}
	if updates.ManagerPhone != nil {
		merged.ManagerPhone = *updates.ManagerPhone
	}

	return &merged
}
