package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loansi/scoring-engine/pkg/events"
	pkgpostgres "github.com/loansi/scoring-engine/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository over the event_outbox table.
type OutboxRepo struct {
	pool *pgxpool.Pool
}

// NewOutboxRepo creates a new outbox repository.
func NewOutboxRepo(pool *pgxpool.Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

// Store inserts outbox entries using the pool.
func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	return r.StoreTx(ctx, r.pool, entries)
}

// StoreTx inserts outbox entries through the given querier, typically the
// transaction that also persists the aggregate.
func (r *OutboxRepo) StoreTx(ctx context.Context, q pkgpostgres.Querier, entries []events.OutboxEntry) error {
	query := `
		INSERT INTO event_outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING
	`
	for _, entry := range entries {
		if _, err := q.Exec(ctx, query,
			entry.ID, entry.AggregateID, entry.AggregateType,
			entry.EventType, entry.Payload, entry.CreatedAt,
		); err != nil {
			return fmt.Errorf("store outbox entry %s: %w", entry.ID, err)
		}
	}
	return nil
}

// FetchUnpublished returns up to batchSize entries not yet published,
// oldest first.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at
		FROM event_outbox
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var entry events.OutboxEntry
		if err := rows.Scan(
			&entry.ID, &entry.AggregateID, &entry.AggregateType,
			&entry.EventType, &entry.Payload, &entry.CreatedAt, &entry.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkPublished stamps the given entries as delivered.
func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE event_outbox SET published_at = $1 WHERE id = ANY($2)`
	if _, err := r.pool.Exec(ctx, query, time.Now().UTC(), ids); err != nil {
		return fmt.Errorf("mark outbox entries published: %w", err)
	}
	return nil
}
