package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	spaceserrors "spaces/internal/spaces/errors"
	"spaces/pkg/config"
	mongotx "spaces/pkg/db/mongo"
	"spaces/pkg/model"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSpaceRepository struct {
	cfg       *config.Config
	spaces    *mongo.Collection
	entries   *mongo.Collection
	txManager mongotx.TransactionManager
}

// spaceDocument stores the rate as Decimal128 so it round-trips without float error.
type spaceDocument struct {
	model.Space `bson:",inline"`
	HourlyRate  primitive.Decimal128 `bson:"hourly_rate"`
}

type entryDocument struct {
	model.LedgerEntry `bson:",inline"`
	Price             primitive.Decimal128 `bson:"price"`
}

func NewMongoSpaceRepository(cfg *config.Config) SpaceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpaceRepository{
		cfg:       cfg,
		spaces:    db.Collection(SpacesCollection),
		entries:   db.Collection(EntriesCollection),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to encode decimal %s: %w", d, err)
	}
	return out, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode decimal %s: %w", d, err)
	}
	return out, nil
}

func (doc *spaceDocument) toModel() (*model.Space, error) {
	rate, err := fromDecimal128(doc.HourlyRate)
	if err != nil {
		return nil, err
	}
	space := doc.Space
	space.HourlyRate = rate
	return &space, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", spaceserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoSpaceRepository) Create(ctx context.Context, space *model.Space) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rate, err := toDecimal128(space.HourlyRate)
	if err != nil {
		return err
	}

	space.ID = ""
	space.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.spaces.InsertOne(ctx, spaceDocument{Space: *space, HourlyRate: rate})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", spaceserrors.ErrDuplicate, space.Name)
		}
		return fmt.Errorf("failed to create space: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		space.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpaceRepository) FindByID(ctx context.Context, id string) (*model.Space, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc spaceDocument
	if err := r.spaces.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find space: %w", err)
	}
	return doc.toModel()
}

func (r *mongoSpaceRepository) FindByName(ctx context.Context, name string) (*model.Space, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc spaceDocument
	opts := options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2})
	if err := r.spaces.FindOne(ctx, bson.M{"name": name}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to find space by name: %w", err)
	}
	return doc.toModel()
}

func (r *mongoSpaceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.spaces.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []spaceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode spaces: %w", err)
	}

	spaces := make([]*model.Space, 0, len(docs))
	for i := range docs {
		space, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, space)
	}
	return spaces, nil
}

func (r *mongoSpaceRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.spaces.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count spaces: %w", err)
	}
	return count, nil
}

func (r *mongoSpaceRepository) updateFields(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.spaces.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", spaceserrors.ErrDuplicate, fields["name"])
		}
		return fmt.Errorf("failed to update space: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoSpaceRepository) Update(ctx context.Context, id string, space *model.Space) error {
	return r.updateFields(ctx, id, bson.M{
		"name":             space.Name,
		"number_of_people": space.NumberOfPeople,
		"dimensions":       space.Dimensions,
		"seating":          space.Seating,
		"features":         space.Features,
		"tags":             space.Tags,
		"manager_phone":    space.ManagerPhone,
	})
}

func (r *mongoSpaceRepository) UpdateRate(ctx context.Context, id string, rate decimal.Decimal) error {
	d, err := toDecimal128(rate)
	if err != nil {
		return err
	}
	return r.updateFields(ctx, id, bson.M{"hourly_rate": d})
}

func (r *mongoSpaceRepository) UpdateReview(ctx context.Context, id string, review model.Review) error {
	return r.updateFields(ctx, id, bson.M{"review": review})
}

func (r *mongoSpaceRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	return r.ExecuteTransaction(ctx, func(ctx context.Context) error {
		ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()

		result, err := r.spaces.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("failed to delete space: %w", err)
		}
		if result.DeletedCount == 0 {
			return fmt.Errorf("%w: %s", spaceserrors.ErrNotFound, id)
		}

		if _, err := r.entries.DeleteMany(ctx, bson.M{"space_id": id}); err != nil {
			return fmt.Errorf("failed to delete ledger entries: %w", err)
		}
		return nil
	})
}

func (r *mongoSpaceRepository) AppendEntry(ctx context.Context, entry *model.LedgerEntry) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	price, err := toDecimal128(entry.Price)
	if err != nil {
		return err
	}

	if _, err := r.entries.InsertOne(ctx, entryDocument{LedgerEntry: *entry, Price: price}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: space %s sequence %d", spaceserrors.ErrSequenceTaken, entry.SpaceID, entry.Sequence)
		}
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *mongoSpaceRepository) Entries(ctx context.Context, spaceID string) ([]*model.LedgerEntry, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	cursor, err := r.entries.Find(ctx, bson.M{"space_id": spaceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}

	entries := make([]*model.LedgerEntry, 0, len(docs))
	for i := range docs {
		price, err := fromDecimal128(docs[i].Price)
		if err != nil {
			return nil, err
		}
		entry := docs[i].LedgerEntry
		entry.Price = price
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (r *mongoSpaceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
