package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meditriage/triage-api/internal/config"
	"github.com/meditriage/triage-api/internal/repository/postgres"
	internalworker "github.com/meditriage/triage-api/internal/worker"
	"github.com/meditriage/triage-api/pkg/logger"
	"github.com/meditriage/triage-api/pkg/messaging/redis"
	"github.com/meditriage/triage-api/pkg/metrics"
	"github.com/meditriage/triage-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("triage", "worker")

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Worker.OutboxBatchSize,
			PollInterval:  time.Duration(cfg.Worker.OutboxPollSeconds) * time.Second,
			RetryAttempts: 3,
			RetryDelay:    time.Second,
		},
		appLogger,
		m,
	)

	cleanup := internalworker.NewAssignmentCleanupWorker(
		postgres.NewAssignmentRepository(db),
		cfg.Worker.AssignmentRetentionDays,
		time.Duration(cfg.Worker.CleanupIntervalMinutes)*time.Minute,
		appLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go processor.Start(ctx)
	go cleanup.Start(ctx)

	appLogger.Info("worker started")
	<-ctx.Done()
	appLogger.Info("worker stopped")
}
