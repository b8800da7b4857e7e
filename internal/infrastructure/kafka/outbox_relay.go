package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/loansi/scoring-engine/pkg/events"
	pkgkafka "github.com/loansi/scoring-engine/pkg/kafka"
)

// MessageSink is the broker surface the relay writes to, satisfied by
// pkg/kafka.Producer.
type MessageSink interface {
	Publish(ctx context.Context, topic string, msgs ...pkgkafka.Message) error
}

// OutboxRelay drains the transactional outbox into Kafka. Entries are
// written with each evaluation's transaction; the relay polls for
// unpublished entries, forwards them and stamps them published. At-least-once
// delivery, consumers deduplicate on event_id.
type OutboxRelay struct {
	outbox   events.OutboxRepository
	producer MessageSink
	topic    string
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

// NewOutboxRelay wires the relay.
func NewOutboxRelay(
	outbox events.OutboxRepository,
	producer MessageSink,
	topic string,
	interval time.Duration,
	batch int,
	logger *slog.Logger,
) *OutboxRelay {
	if interval <= 0 {
		interval = time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &OutboxRelay{
		outbox:   outbox,
		producer: producer,
		topic:    topic,
		interval: interval,
		batch:    batch,
		logger:   logger,
	}
}

// Run polls until the context is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.drain(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// drain forwards one batch. Marking published only after a successful write
// keeps delivery at-least-once.
func (r *OutboxRelay) drain(ctx context.Context) error {
	entries, err := r.outbox.FetchUnpublished(ctx, r.batch)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(entry.AggregateID),
			Value: entry.Payload,
			Headers: map[string]string{
				"event_type": entry.EventType,
				"event_id":   entry.ID,
			},
		})
		ids = append(ids, entry.ID)
	}

	if err := r.producer.Publish(ctx, r.topic, messages...); err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "outbox batch published",
		"count", len(ids), "topic", r.topic)
	return r.outbox.MarkPublished(ctx, ids)
}
