package postgres

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// NullOutboxRepository is the outbox used when OUTBOX_ENABLED is false. Writes
// are logged at debug level and dropped; the relay always sees an empty queue.
type NullOutboxRepository struct{}

// NewNullOutboxRepository creates a new NullOutboxRepository.
func NewNullOutboxRepository() *NullOutboxRepository {
	return &NullOutboxRepository{}
}

var _ usecase.OutboxRepository = (*NullOutboxRepository)(nil)

// Create drops event.
func (NullOutboxRepository) Create(ctx context.Context, _ usecase.Tx, event *domain.OutboxEvent) error {
	zerolog.Ctx(ctx).Debug().
		Str("event_type", event.EventType).
		Str("aggregate_id", event.AggregateID).
		Msg("outbox disabled, event dropped")

	return nil
}

func (NullOutboxRepository) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (NullOutboxRepository) MarkPublished(context.Context, string, time.Time) error { return nil }

func (NullOutboxRepository) MarkFailed(context.Context, string, error) error { return nil }

func (NullOutboxRepository) DeletePublished(context.Context, time.Time) (int64, error) {
	return 0, nil
}
