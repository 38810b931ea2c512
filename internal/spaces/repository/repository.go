package repository

import (
	"context"

	mongotx "spaces/pkg/db/mongo"
	"spaces/pkg/model"

	"github.com/shopspring/decimal"
)

const (
	SpacesCollection  = "Spaces"
	EntriesCollection = "Ledger_entries"
)

// SpaceRepository stores space attributes and the append-only log of ledger entries that
// rebuilds each space's calendar.
type SpaceRepository interface {
	Create(ctx context.Context, space *model.Space) error
	FindByID(ctx context.Context, id string) (*model.Space, error)
	FindByName(ctx context.Context, name string) (*model.Space, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Space, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, space *model.Space) error
	UpdateRate(ctx context.Context, id string, rate decimal.Decimal) error
	UpdateReview(ctx context.Context, id string, review model.Review) error
	// Delete removes the space together with its ledger entries.
	Delete(ctx context.Context, id string) error

	AppendEntry(ctx context.Context, entry *model.LedgerEntry) error
	// Entries returns a space's ledger entries in Sequence order.
	Entries(ctx context.Context, spaceID string) ([]*model.LedgerEntry, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}
