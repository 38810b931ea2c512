package main

import (
	"context"
	"errors"
	"time"

	"spaces/internal/feed"
	"spaces/internal/spaces/handler"
	"spaces/pkg/app"
	"spaces/pkg/config"
	"spaces/pkg/kafka"
	kafka_config "spaces/pkg/kafka/config"
	kafka_middleware "spaces/pkg/kafka/middleware"
)

const ServiceName = "calendar-feed"

// The projection lives in memory, so every replica joins its own consumer group and rebuilds the
// full picture from the oldest offset on each start. The group never commits offsets, so a
// restart replays again and the broker drops the group once the replica is gone.
func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	projection := feed.NewProjection(cfg.Log,
		feed.WithMaxSpan(cfg.MaxReservationHours),
		feed.WithHorizon(time.Duration(cfg.BookingHorizonDays)*24*time.Hour),
	)
	groupID := kafkaCfg.InstanceGroupID()

	consumer, err := kafka.NewConsumer(kafkaCfg, kafkaCfg.TopicLedgerEvents, groupID, kafkaCfg.TopicLedgerDLQ, projection.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.SkipCommits()
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		cfg.Log.Info("Consuming ledger events", "topic", kafkaCfg.TopicLedgerEvents, "group_id", groupID)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Ledger event consumer stopped", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(feed.NewHandler(projection, cfg.Log), handler.NewHealthHandler(nil, cfg.Log))
	serverApp.OnShutdown(func() {
		cancel()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})
	serverApp.Run()
}
