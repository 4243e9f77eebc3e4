package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/domain"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres/generated"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

// maxLastErrorLen bounds the failure text stored with an event.
const maxLastErrorLen = 1024

// OutboxRepository stores transaction events in outbox_events. Inserts join the
// caller's transaction; relay reads and updates run on the pool.
type OutboxRepository struct {
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db generated.DBTX) *OutboxRepository {
	return &OutboxRepository{queries: generated.New(db)}
}

// Create records event inside tx, so it commits or rolls back with the change it
// describes.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Tx, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.EventType, err)
	}

	return translateError(txQueries(tx).InsertOutboxEvent(ctx, generated.InsertOutboxEventParams{
		ID:            event.ID,
		Owner:         event.Owner,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(event.CreatedAt),
	}))
}

// GetUnpublished returns up to limit pending events in creation order.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.queries.ListPendingOutboxEvents(ctx, int32(limit))
	if err != nil {
		return nil, translateError(err)
	}

	events := make([]*domain.OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = outboxEventFromRow(ctx, row)
	}

	return events, nil
}

// MarkPublished stamps a pending event. An event that is already published is
// left untouched.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	n, err := r.queries.MarkOutboxEventPublished(ctx, generated.MarkOutboxEventPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	})
	if err != nil {
		return translateError(err)
	}

	if n == 0 {
		zerolog.Ctx(ctx).Debug().Str("event_id", id).Msg("outbox event already published")
	}

	return nil
}

// MarkFailed bumps the attempt counter and keeps the latest failure text.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := cause.Error()
	if len(msg) > maxLastErrorLen {
		msg = msg[:maxLastErrorLen]
	}

	return translateError(r.queries.RecordOutboxEventFailure(ctx, generated.RecordOutboxEventFailureParams{
		ID:        id,
		LastError: pgtype.Text{String: msg, Valid: true},
	}))
}

// DeletePublished purges events published before the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.queries.PurgePublishedOutboxEvents(ctx, timeToPgTimestamptz(before))
	if err != nil {
		return 0, translateError(err)
	}

	return n, nil
}

// outboxEventFromRow converts a row. A payload that no longer decodes is logged
// and relayed without a body rather than blocking the events behind it.
func outboxEventFromRow(ctx context.Context, row generated.OutboxEvent) *domain.OutboxEvent {
	event := &domain.OutboxEvent{
		ID:            row.ID,
		Owner:         row.Owner,
		AggregateType: row.AggregateType,
		AggregateID:   row.AggregateID,
		EventType:     row.EventType,
		CreatedAt:     row.CreatedAt.Time,
		Attempts:      int(row.Attempts),
		LastError:     row.LastError.String,
	}

	if err := json.Unmarshal(row.Payload, &event.Payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event_id", row.ID).Msg("undecodable outbox payload")
	}

	if row.PublishedAt.Valid {
		published := row.PublishedAt.Time
		event.PublishedAt = &published
	}

	return event
}
