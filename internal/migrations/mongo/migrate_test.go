package mongo

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	spaceserrors "spaces/internal/spaces/errors"
	"spaces/internal/spaces/repository"
	"spaces/pkg/client"
	"spaces/pkg/config"
	"spaces/pkg/logger"
	"spaces/pkg/model"
)

func TestCollections_CoverRepositoryCollections(t *testing.T) {
	defs := Collections()
	for _, name := range []string{repository.SpacesCollection, repository.EntriesCollection} {
		def, ok := defs[name]
		if !ok {
			t.Fatalf("no migration for collection %s", name)
		}
		if len(def.Indexes) == 0 {
			t.Errorf("%s has no indexes", name)
		}
		schema, ok := def.Validator["$jsonSchema"].(bson.M)
		if !ok {
			t.Fatalf("%s validator has no $jsonSchema", name)
		}
		if _, ok := schema["required"].([]string); !ok {
			t.Errorf("%s validator lists no required fields", name)
		}
	}

	required := defs[repository.EntriesCollection].Validator["$jsonSchema"].(bson.M)["required"].([]string)
	for _, field := range []string{"space_id", "sequence", "kind"} {
		if !slices.Contains(required, field) {
			t.Errorf("ledger entries do not require %s", field)
		}
	}
}

func TestRunMigration_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	dbName := "spaces_migrate_test_" + primitive.NewObjectID().Hex()
	defer func() { _ = client.Database(dbName).Drop(context.Background()) }()

	// twice: the second run must take the collMod path without failing
	for range 2 {
		if err := RunMigration(ctx, client, dbName, logger.Discard()); err != nil {
			t.Fatalf("RunMigration() error = %v", err)
		}
	}

	entries := client.Database(dbName).Collection(repository.EntriesCollection)
	doc := bson.M{
		"_id": "e1", "space_id": "s1", "sequence": int64(1), "kind": "reservation",
		"start": time.Now(), "end": time.Now(), "start_hour": int64(0), "end_hour": int64(0),
		"created_at": time.Now(),
	}
	if _, err := entries.InsertOne(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc["_id"] = "e2"
	if _, err := entries.InsertOne(ctx, doc); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("duplicate sequence accepted: %v", err)
	}
	if _, err := entries.InsertOne(ctx, bson.M{"_id": "e3", "space_id": "s1"}); err == nil {
		t.Error("schema validator accepted an incomplete entry")
	}
}

// The unique indexes are what turn concurrent writers into repository sentinels.
func TestMigratedIndexesSurfaceAsRepositoryErrors(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	dbName := "spaces_index_test_" + primitive.NewObjectID().Hex()
	defer func() { _ = mc.Database(dbName).Drop(context.Background()) }()

	if err := RunMigration(ctx, mc, dbName, logger.Discard()); err != nil {
		t.Fatalf("RunMigration() error = %v", err)
	}

	repo := repository.NewMongoSpaceRepository(&config.Config{
		MongoDatabaseName: dbName,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Log:               logger.Discard(),
		Client:            &client.Client{Mongo: mc},
	})

	hall := model.NewSpace()
	hall.Name = "Hall"
	if err := repo.Create(ctx, hall); err != nil {
		t.Fatal(err)
	}
	twin := model.NewSpace()
	twin.Name = "HALL"
	if err := repo.Create(ctx, twin); !errors.Is(err, spaceserrors.ErrDuplicate) {
		t.Errorf("Create(same name) error = %v", err)
	}

	annex := model.NewSpace()
	annex.Name = "Annex"
	if err := repo.Create(ctx, annex); err != nil {
		t.Fatal(err)
	}
	annex.Name = "hall"
	if err := repo.Update(ctx, annex.ID, annex); !errors.Is(err, spaceserrors.ErrDuplicate) {
		t.Errorf("Update(onto taken name) error = %v", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	entry := func(id string) *model.LedgerEntry {
		return &model.LedgerEntry{
			ID: id, SpaceID: hall.ID, Sequence: 1, Kind: model.EntryReservation,
			Start: now, End: now, CreatedAt: now,
		}
	}
	if err := repo.AppendEntry(ctx, entry("e1")); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendEntry(ctx, entry("e2")); !errors.Is(err, spaceserrors.ErrSequenceTaken) {
		t.Errorf("AppendEntry(taken sequence) error = %v", err)
	}
}
