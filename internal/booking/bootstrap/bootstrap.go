// Package bootstrap wires the booking service and its optional stores from
// configuration. Stores that are not configured fall back to no-op or
// in-memory implementations.
package bootstrap

import (
	"context"

	"github.com/sony/gobreaker"

	"staybook/internal/booking/cache"
	"staybook/internal/booking/events"
	"staybook/internal/booking/handler"
	"staybook/internal/booking/repository"
	"staybook/internal/booking/service"
	"staybook/internal/booking/validator"
	"staybook/pkg/client"
	"staybook/pkg/config"
	"staybook/pkg/kafka"
	kafka_middleware "staybook/pkg/kafka/middleware"
)

type Stack struct {
	Service   service.BookingService
	Stores    *client.Client
	Publisher events.Publisher
	Checks    map[string]handler.Checker
}

func Build(ctx context.Context, cfg *config.Config, serviceName string) (*Stack, error) {
	stack := &Stack{Stores: client.NewClient(), Checks: map[string]handler.Checker{}}

	httpClient := client.NewHttpClient(cfg.APIBaseURL, cfg.APITimeout).
		WithBreaker(gobreaker.NewCircuitBreaker(client.BreakerSettings("booking-api", cfg.BreakerMaxFailures, cfg.BreakerTimeout, cfg.Log)))
	api := client.NewBookingClient(httpClient)

	journal, err := stack.journal(ctx, cfg)
	if err != nil {
		stack.Close(ctx, cfg)
		return nil, err
	}
	locations, err := stack.locationCache(ctx, cfg)
	if err != nil {
		stack.Close(ctx, cfg)
		return nil, err
	}
	publisher, err := publisher(cfg, serviceName)
	if err != nil {
		stack.Close(ctx, cfg)
		return nil, err
	}
	stack.Publisher = publisher

	stack.Service = service.NewBookingService(
		api,
		validator.NewBookingValidator(cfg.Log, cfg.MaxChildAges),
		locations,
		journal,
		publisher,
		cfg,
	)
	cfg.Log.Info("Booking service initialized", "api_base_url", cfg.APIBaseURL)
	return stack, nil
}

func (s *Stack) journal(ctx context.Context, cfg *config.Config) (repository.JournalRepository, error) {
	if cfg.MongoURI == "" {
		cfg.Log.Info("MONGO_URI not set, booking journal kept in memory")
		return repository.NewMemoryJournalRepository(), nil
	}
	if err := s.Stores.SetMongo(ctx, cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout); err != nil {
		return nil, err
	}
	db := s.Stores.Mongo.Database(cfg.MongoDatabaseName)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}
	s.Checks["mongo"] = func(ctx context.Context) error { return s.Stores.Mongo.Ping(ctx, nil) }
	return repository.NewMongoJournalRepository(db, cfg.MongoConnTimeout), nil
}

func (s *Stack) locationCache(ctx context.Context, cfg *config.Config) (cache.LocationCache, error) {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("REDIS_ADDR not set, location suggestions are not cached")
		return cache.NopLocationCache{}, nil
	}
	if err := s.Stores.SetRedis(ctx, cfg.Log, cfg.RedisAddr, cfg.RedisPassword); err != nil {
		return nil, err
	}
	s.Checks["redis"] = func(ctx context.Context) error { return s.Stores.Redis.Ping(ctx).Err() }
	return cache.NewRedisLocationCache(s.Stores.Redis, cfg.LocationCacheTTL, cfg.Log), nil
}

func publisher(cfg *config.Config, serviceName string) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("KAFKA_BROKERS not set, booking events disabled")
		return events.NopPublisher{}, nil
	}
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaBookingTopic,
		Compression: "snappy",
	}, cfg.Log)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	return events.NewKafkaPublisher(producer, serviceName, cfg.Log), nil
}

// Close flushes the event publisher and disconnects the stores.
func (s *Stack) Close(ctx context.Context, cfg *config.Config) {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}
	s.Stores.GracefulShutdown(ctx, cfg.Log)
}
