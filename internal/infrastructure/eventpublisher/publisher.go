package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/metrics"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

const (
	defaultBatchSize       = 100
	defaultInterval        = 5 * time.Second
	defaultCleanupInterval = time.Hour
)

// EventPublisher relays outbox events to an external Publisher.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	metrics    *metrics.Metrics
	batchSize  int
	interval   time.Duration
	retention  time.Duration

	now         func() time.Time
	lastCleanup time.Time
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Metrics    *metrics.Metrics // optional
	BatchSize  int              // Number of events to fetch per batch
	Interval   time.Duration    // Polling interval
	// Retention is how long published events are kept. Zero keeps them forever.
	Retention time.Duration
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		metrics:    cfg.Metrics,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		retention:  cfg.Retention,
		now:        time.Now,
	}
}

// Start runs the relay loop until ctx is cancelled. Events are delivered at
// least once: a crash between Publish and MarkPublished republishes the event.
func (ep *EventPublisher) Start(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	for {
		if err := ep.processEvents(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("error processing events")
		}

		ep.cleanup(ctx)

		select {
		case <-ctx.Done():
			logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// processEvents fetches and publishes a batch of unpublished events. Events are
// handled in creation order and the batch stops at the first publish failure so a
// later event never overtakes an earlier one.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("count", len(events)).Msg("processing events")

	for _, event := range events {
		if err := ep.publisher.Publish(ctx, event); err != nil {
			ep.record("error")
			logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Int("attempts", event.Attempts+1).
				Msg("failed to publish event")

			if markErr := ep.outboxRepo.MarkFailed(ctx, event.ID, err); markErr != nil {
				logger.Warn().Err(markErr).Str("event_id", event.ID).Msg("failed to record publish failure")
			}

			return nil
		}

		ep.record("ok")

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, ep.now()); err != nil {
			logger.Error().Err(err).Str("event_id", event.ID).Msg("failed to mark event as published")
			return nil
		}
	}

	return nil
}

func (ep *EventPublisher) cleanup(ctx context.Context) {
	if ep.retention <= 0 {
		return
	}

	now := ep.now()
	if now.Sub(ep.lastCleanup) < defaultCleanupInterval {
		return
	}

	ep.lastCleanup = now

	purged, err := ep.outboxRepo.DeletePublished(ctx, now.Add(-ep.retention))
	if err != nil {
		if ctx.Err() == nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to delete published events")
		}

		return
	}

	if purged > 0 {
		zerolog.Ctx(ctx).Info().Int64("count", purged).Msg("purged published events")
	}
}

func (ep *EventPublisher) record(result string) {
	if ep.metrics != nil {
		ep.metrics.OutboxPublished.WithLabelValues(result).Inc()
	}
}

// LogPublisher writes events to the context logger. It stands in for a broker
// when none is configured.
type LogPublisher struct{}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("owner", event.Owner).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
