package repository

import (
	"context"

	"fuelraffle/internal/infra"
	"fuelraffle/internal/infra/db"
	"fuelraffle/internal/pkg/pgconv"
	"fuelraffle/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OutboxRepository struct{}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

const insertOutboxSQL = `
INSERT INTO outbox_events (aggregate_type, aggregate_id, event_type, payload)
VALUES ($1, $2, $3, $4)`

// Record writes the event in the caller's transaction; the row commits or
// rolls back together with the state change it announces.
func (r *OutboxRepository) Record(ctx context.Context, dbtx db.DBTX, aggregateType string, aggregateID uuid.UUID, eventType string, payload []byte) error {
	_, err := dbtx.Exec(ctx, insertOutboxSQL,
		aggregateType,
		pgconv.UUIDToPgtype(aggregateID),
		eventType,
		payload,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record outbox event", err)
	}
	return nil
}

const listUndispatchedSQL = `
SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, dispatched_at
FROM outbox_events
WHERE dispatched_at IS NULL
ORDER BY id
LIMIT $1
FOR UPDATE SKIP LOCKED`

// ListUndispatched claims a batch of pending events. SKIP LOCKED lets
// multiple sweeper instances run without contending on the same rows.
func (r *OutboxRepository) ListUndispatched(ctx context.Context, dbtx db.DBTX, limit int) ([]shared.OutboxRecord, error) {
	rows, err := dbtx.Query(ctx, listUndispatchedSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list undispatched events", err)
	}
	defer rows.Close()

	var records []shared.OutboxRecord
	for rows.Next() {
		var (
			rec          shared.OutboxRecord
			aggregateID  pgtype.UUID
			createdAt    pgtype.Timestamptz
			dispatchedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&rec.ID, &rec.AggregateType, &aggregateID, &rec.EventType, &rec.Payload, &createdAt, &dispatchedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		rec.AggregateID = uuid.UUID(aggregateID.Bytes)
		rec.CreatedAt = createdAt.Time
		rec.DispatchedAt = pgconv.TimePtrFromPgtype(dispatchedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return records, nil
}

func (r *OutboxRepository) MarkDispatched(ctx context.Context, dbtx db.DBTX, id int64) error {
	_, err := dbtx.Exec(ctx, `UPDATE outbox_events SET dispatched_at = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox event dispatched", err)
	}
	return nil
}
