package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansi/scoring-engine/pkg/events"
	pkgkafka "github.com/loansi/scoring-engine/pkg/kafka"
)

type mockOutboxRepository struct {
	entries   []events.OutboxEntry
	fetchErr  error
	published [][]string
}

func (m *mockOutboxRepository) Store(_ context.Context, _ []events.OutboxEntry) error {
	return nil
}

func (m *mockOutboxRepository) FetchUnpublished(_ context.Context, batchSize int) ([]events.OutboxEntry, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if len(m.entries) > batchSize {
		return m.entries[:batchSize], nil
	}
	return m.entries, nil
}

func (m *mockOutboxRepository) MarkPublished(_ context.Context, ids []string) error {
	m.published = append(m.published, ids)
	return nil
}

type mockSink struct {
	publishErr error
	messages   []pkgkafka.Message
	topics     []string
}

func (m *mockSink) Publish(_ context.Context, topic string, msgs ...pkgkafka.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.topics = append(m.topics, topic)
	m.messages = append(m.messages, msgs...)
	return nil
}

func testEntry(id, aggregateID, eventType string) events.OutboxEntry {
	return events.OutboxEntry{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: "Evaluation",
		EventType:     eventType,
		Payload:       []byte(`{"evaluation_id":"` + aggregateID + `"}`),
		CreatedAt:     time.Now().UTC(),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOutboxRelayDrain(t *testing.T) {
	repo := &mockOutboxRepository{
		entries: []events.OutboxEntry{
			testEntry("evt-1", "eval-a", "scoring.evaluation.recorded"),
			testEntry("evt-2", "eval-a", "scoring.committee.case_opened"),
		},
	}
	sink := &mockSink{}
	relay := NewOutboxRelay(repo, sink, "scoring.events", time.Second, 100, testLogger())

	require.NoError(t, relay.drain(context.Background()))

	require.Len(t, sink.messages, 2)
	assert.Equal(t, []string{"scoring.events"}, sink.topics)
	assert.Equal(t, []byte("eval-a"), sink.messages[0].Key)
	assert.Equal(t, "scoring.evaluation.recorded", sink.messages[0].Headers["event_type"])
	assert.Equal(t, "evt-1", sink.messages[0].Headers["event_id"])

	require.Len(t, repo.published, 1)
	assert.Equal(t, []string{"evt-1", "evt-2"}, repo.published[0])
}

func TestOutboxRelayDrainEmpty(t *testing.T) {
	repo := &mockOutboxRepository{}
	sink := &mockSink{}
	relay := NewOutboxRelay(repo, sink, "scoring.events", time.Second, 100, testLogger())

	require.NoError(t, relay.drain(context.Background()))
	assert.Empty(t, sink.messages)
	assert.Empty(t, repo.published)
}

func TestOutboxRelayPublishFailureKeepsEntries(t *testing.T) {
	repo := &mockOutboxRepository{
		entries: []events.OutboxEntry{testEntry("evt-1", "eval-a", "scoring.evaluation.recorded")},
	}
	sink := &mockSink{publishErr: fmt.Errorf("broker unavailable")}
	relay := NewOutboxRelay(repo, sink, "scoring.events", time.Second, 100, testLogger())

	require.Error(t, relay.drain(context.Background()))
	// Nothing marked published, so the next tick retries the batch.
	assert.Empty(t, repo.published)
}

func TestOutboxRelayRespectsBatchSize(t *testing.T) {
	repo := &mockOutboxRepository{
		entries: []events.OutboxEntry{
			testEntry("evt-1", "eval-a", "scoring.evaluation.recorded"),
			testEntry("evt-2", "eval-b", "scoring.evaluation.recorded"),
			testEntry("evt-3", "eval-c", "scoring.evaluation.recorded"),
		},
	}
	sink := &mockSink{}
	relay := NewOutboxRelay(repo, sink, "scoring.events", time.Second, 2, testLogger())

	require.NoError(t, relay.drain(context.Background()))
	assert.Len(t, sink.messages, 2)
}
