package main

import (
	"spaces/internal/spaces/events"
	"spaces/internal/spaces/handler"
	"spaces/internal/spaces/repository"
	"spaces/internal/spaces/service"
	"spaces/internal/spaces/validator"
	"spaces/pkg/app"
	"spaces/pkg/config"
	"spaces/pkg/kafka"
	kafka_config "spaces/pkg/kafka/config"
	kafka_middleware "spaces/pkg/kafka/middleware"
)

const ServiceName = "spaces"

func main() {
	cfg := config.Load(ServiceName)

	var repo repository.SpaceRepository
	var healthHandler *handler.HealthHandler
	if cfg.UsesMongo() {
		cfg.SetMongo()
		repo = repository.NewMongoSpaceRepository(cfg)
		healthHandler = handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log)
	} else {
		cfg.Log.Warn("Using in-memory storage, calendars are lost on restart")
		repo = repository.NewMemorySpaceRepository()
		healthHandler = handler.NewHealthHandler(nil, cfg.Log)
	}

	cfg.Log.Info("Starting Spaces service")
	publisher := initPublisher(cfg)
	spaceService := initServices(cfg, repo, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSpaceHandler(spaceService, cfg.Log), healthHandler)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close ledger event publisher", "error", err)
		}
	})
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Ledger event publishing disabled")
		return events.NoopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.TopicLedgerEvents, kafkaCfg.TopicLedgerDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Ledger events publishing to Kafka", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, kafkaCfg.PublishBuffer, ServiceName, cfg.Log)
}

func initServices(cfg *config.Config, repo repository.SpaceRepository, publisher events.Publisher) service.SpaceService {
	spaceValidator := validator.NewSpaceValidator(cfg.MaxReservationHours)
	spaceService := service.NewSpaceService(
		repo,
		spaceValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Spaces service initialized",
		"storage_backend", cfg.StorageBackend,
		"database", cfg.MongoDatabaseName,
	)
	return spaceService
}
