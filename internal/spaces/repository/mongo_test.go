package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"spaces/pkg/client"
	"spaces/pkg/config"
	"spaces/pkg/logger"
	"spaces/pkg/model"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newMongoRepo connects to MONGO_URI and uses a throwaway database. Delete runs in a
// transaction, so the server must be a replica set.
func newMongoRepo(t *testing.T) SpaceRepository {
	t.Helper()
	uri := os.Getenv(config.EnvMongoURI)
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping mongo integration test")
	}

	cfg := &config.Config{
		MongoURI:          uri,
		MongoDatabaseName: "spaces_test_" + primitive.NewObjectID().Hex(),
		MongoConnTimeout:  5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Log:               logger.Discard(),
	}
	cfg.Client = client.NewClient()
	cfg.SetMongo()
	t.Cleanup(func() {
		_ = cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Drop(context.Background())
		cfg.GracefulShutdown()
	})
	return NewMongoSpaceRepository(cfg)
}

func TestMongoRoundTrip(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()

	s := newSpace("Warehouse")
	s.HourlyRate = decimal.RequireFromString("123.45")
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if !got.HourlyRate.Equal(s.HourlyRate) {
		t.Errorf("rate = %s, want %s", got.HourlyRate, s.HourlyRate)
	}

	entry := &model.LedgerEntry{
		ID:        "entry-1",
		SpaceID:   s.ID,
		Sequence:  0,
		Kind:      model.EntryReservation,
		Price:     decimal.RequireFromString("30"),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := repo.AppendEntry(ctx, entry); err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}
	entries, err := repo.Entries(ctx, s.ID)
	if err != nil || len(entries) != 1 || !entries[0].Price.Equal(entry.Price) {
		t.Fatalf("Entries() = %v, %v", entries, err)
	}

	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if entries, _ := repo.Entries(ctx, s.ID); len(entries) != 0 {
		t.Errorf("entries survived delete")
	}
}
