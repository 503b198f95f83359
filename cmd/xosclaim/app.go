package main

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/xosclaim/adapters/events"
	"github.com/layer-3/xosclaim/adapters/metrics"
	"github.com/layer-3/xosclaim/adapters/remote"
	"github.com/layer-3/xosclaim/adapters/signer"
	"github.com/layer-3/xosclaim/adapters/store"
	"github.com/layer-3/xosclaim/config"
	"github.com/layer-3/xosclaim/ports"
	"github.com/layer-3/xosclaim/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app is the wired claimer
type app struct {
	creds        ports.CredentialStore
	recorder     *metrics.Recorder
	orchestrator *service.Orchestrator

	publisher   message.Publisher
	redisClient *redis.Client
}

func newApp(cfg *config.Config, logger *zap.Logger, reporter ports.Reporter) (*app, error) {
	a := &app{}

	if cfg.Storage.Backend == "redis" || cfg.Events == "redis" {
		// Parse Redis URL and create client
		opts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		a.redisClient = redis.NewClient(opts)
	}

	switch cfg.Storage.Backend {
	case "redis":
		a.creds = store.NewRedisStore(a.redisClient, cfg.Storage.RedisKey, logger)
	case "file", "":
		a.creds = store.NewFileStore(cfg.Storage.AccountsFile)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown credential store %q", cfg.Storage.Backend)
	}

	var eventPub ports.EventPublisher = events.NopPublisher{}
	if cfg.Events == "redis" {
		publisher, err := events.NewRedisStreamPublisher(a.redisClient, watermill.NewStdLogger(false, false))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.publisher = publisher
		eventPub = events.NewWatermillPublisher(publisher)
	}

	recorder, err := metrics.NewRecorder()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.recorder = recorder

	client := remote.NewClient(cfg, logger)
	handshake := service.NewHandshake(client, signer.NewEthSigner(), a.creds, reporter, logger)
	a.orchestrator = service.NewOrchestrator(handshake, client, reporter, eventPub, recorder, cfg, logger)

	return a, nil
}

// Close releases the event publisher and the Redis connection
func (a *app) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redisClient != nil {
		errs = append(errs, a.redisClient.Close())
	}
	return errors.Join(errs...)
}
