package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/repository"
	"github.com/meditriage/triage-api/pkg/logger"
	"github.com/meditriage/triage-api/pkg/messaging"
	"github.com/meditriage/triage-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     50,
		PollInterval:  5 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// OutboxProcessor drains pending outbox events to the message broker.
// Events that cannot be published after the configured retries are marked
// FAILED and picked up again on a later pass.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  log,
		metrics: m,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error(err, "failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
		}
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := retry(p.config.RetryAttempts, p.config.RetryDelay, func() error {
		return p.broker.Publish(ctx, channelFor(event.EventType), event.Payload)
	})

	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		errStr := err.Error()
		if updateErr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &errStr); updateErr != nil {
			p.logger.Error(updateErr, "failed to mark event failed", "event_id", event.ID.String())
		}
		return err
	}

	p.metrics.OutboxEventsProcessed.Inc()
	if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
		p.logger.Error(err, "failed to mark event processed", "event_id", event.ID.String())
		return err
	}
	return nil
}

// channelFor maps an event type such as TRIAGE_RANKED to the broker channel
// triage.ranked.
func channelFor(eventType string) string {
	return "triage." + strings.ToLower(strings.TrimPrefix(eventType, "TRIAGE_"))
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
