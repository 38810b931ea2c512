package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	spaceserrors "spaces/internal/spaces/errors"
	mongotx "spaces/pkg/db/mongo"
	"spaces/pkg/model"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memorySpaceRepository keeps everything in process. IDs are ObjectID hex strings so both
// backends accept the same identifiers.
type memorySpaceRepository struct {
	mu      sync.RWMutex
	order   []string
	spaces  map[string]*model.Space
	entries map[string][]*model.LedgerEntry
	tx      mongotx.NoopTransactionManager
}

func NewMemorySpaceRepository() SpaceRepository {
	return &memorySpaceRepository{
		spaces:  make(map[string]*model.Space),
		entries: make(map[string][]*model.LedgerEntry),
	}
}

func cloneSpace(s *model.Space) *model.Space {
	c := *s
	c.Tags = slices.Clone(s.Tags)
	c.Review.Entries = slices.Clone(s.Review.Entries)
	return &c
}

func (r *memorySpaceRepository) checkID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: %s", spaceserrors.ErrInvalidID, id)
	}
	return nil
}

// nameTaken reports whether a space other than id already uses name, compared the way the
// Mongo collation on the name index does. Callers hold r.mu.
func (r *memorySpaceRepository) nameTaken(name, id string) bool {
	for otherID, s := range r.spaces {
		if otherID != id && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func (r *memorySpaceRepository) Create(ctx context.Context, space *model.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(space.Name, "") {
		return fmt.Errorf("%w: %s", spaceserrors.ErrDuplicate, space.Name)
	}
	space.ID = primitive.NewObjectID().Hex()
	space.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	r.spaces[space.ID] = cloneSpace(space)
	r.order = append(r.order, space.ID)
	return nil
}

func (r *memorySpaceRepository) FindByID(ctx context.Context, id string) (*model.Space, error) {
	if err := r.checkID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.spaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, id)
	}
	return cloneSpace(s), nil
}

func (r *memorySpaceRepository) FindByName(ctx context.Context, name string) (*model.Space, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if s := r.spaces[id]; strings.EqualFold(s.Name, name) {
			return cloneSpace(s), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, name)
}

func (r *memorySpaceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Space{}
	for i := int(offset); i < len(r.order) && len(out) < limit; i++ {
		out = append(out, cloneSpace(r.spaces[r.order[i]]))
	}
	return out, nil
}

func (r *memorySpaceRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}

func (r *memorySpaceRepository) mutate(id string, fn func(*model.Space) error) error {
	if err := r.checkID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spaces[id]
	if !ok {
		return fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, id)
	}
	return fn(s)
}

func (r *memorySpaceRepository) Update(ctx context.Context, id string, space *model.Space) error {
	return r.mutate(id, func(s *model.Space) error {
		if r.nameTaken(space.Name, id) {
			return fmt.Errorf("%w: %s", spaceserrors.ErrDuplicate, space.Name)
		}
		s.Name = space.Name
		s.NumberOfPeople = space.NumberOfPeople
		s.Dimensions = space.Dimensions
		s.Seating = space.Seating
		s.Features = space.Features
		s.Tags = slices.Clone(space.Tags)
		s.ManagerPhone = space.ManagerPhone
		return nil
	})
}

func (r *memorySpaceRepository) UpdateRate(ctx context.Context, id string, rate decimal.Decimal) error {
	return r.mutate(id, func(s *model.Space) error {
		s.HourlyRate = rate
		return nil
	})
}

func (r *memorySpaceRepository) UpdateReview(ctx context.Context, id string, review model.Review) error {
	return r.mutate(id, func(s *model.Space) error {
		s.Review = review
		s.Review.Entries = slices.Clone(review.Entries)
		return nil
	})
}

func (r *memorySpaceRepository) Delete(ctx context.Context, id string) error {
	if err := r.checkID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.spaces[id]; !ok {
		return fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, id)
	}
	delete(r.spaces, id)
	delete(r.entries, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

func (r *memorySpaceRepository) AppendEntry(ctx context.Context, entry *model.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.spaces[entry.SpaceID]; !ok {
		return fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, entry.SpaceID)
	}
	for _, e := range r.entries[entry.SpaceID] {
		if e.Sequence == entry.Sequence {
			return fmt.Errorf("%w: space %s sequence %d", spaceserrors.ErrSequenceTaken, entry.SpaceID, entry.Sequence)
		}
	}
	c := *entry
	r.entries[entry.SpaceID] = append(r.entries[entry.SpaceID], &c)
	return nil
}

func (r *memorySpaceRepository) Entries(ctx context.Context, spaceID string) ([]*model.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.LedgerEntry, 0, len(r.entries[spaceID]))
	for _, e := range r.entries[spaceID] {
		c := *e
		out = append(out, &c)
	}
	slices.SortStableFunc(out, func(a, b *model.LedgerEntry) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return out, nil
}

func (r *memorySpaceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.tx.ExecuteTransaction(ctx, fn)
}
