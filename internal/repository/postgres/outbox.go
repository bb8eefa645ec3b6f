package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/repository"
)

type outboxRepository struct {
	db *sqlx.DB
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}

	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, retry_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.RetryCount,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT * FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2, processed_at = $3, updated_at = $4,
		    retry_count = CASE WHEN $1 = 'FAILED' THEN retry_count + 1 ELSE retry_count END
		WHERE id = $5
	`
	now := time.Now()
	var processedAt *time.Time
	if status == model.OutboxStatusProcessed {
		processedAt = &now
	}

	if _, err := r.db.ExecContext(ctx, query, status, errorMessage, processedAt, now, id); err != nil {
		return fmt.Errorf("failed to update outbox event status: %w", err)
	}
	return nil
}
