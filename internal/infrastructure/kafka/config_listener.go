package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/loansi/scoring-engine/internal/domain/port"
	pkgkafka "github.com/loansi/scoring-engine/pkg/kafka"
)

const configChangedEventType = "scoring.configuration.changed"

// ConfigListener consumes configuration-change events and drops the cached
// snapshot of the affected product. The shared cache is already invalidated
// by the writing instance; the listener covers instances whose write raced a
// cache rebuild, and deployments publishing config changes from elsewhere.
type ConfigListener struct {
	consumer  *pkgkafka.Consumer
	snapshots port.SnapshotProvider
	logger    *slog.Logger
}

// NewConfigListener subscribes to the events topic with the given consumer
// group.
func NewConfigListener(
	cfg pkgkafka.Config,
	topic string,
	snapshots port.SnapshotProvider,
	logger *slog.Logger,
) *ConfigListener {
	l := &ConfigListener{snapshots: snapshots, logger: logger}
	l.consumer = pkgkafka.NewConsumer(cfg, topic, l.handle, logger)
	return l
}

// Run consumes until the context is cancelled.
func (l *ConfigListener) Run(ctx context.Context) error {
	defer l.consumer.Close() //nolint:errcheck
	return l.consumer.Start(ctx)
}

func (l *ConfigListener) handle(ctx context.Context, msg pkgkafka.Message) error {
	if msg.Headers["event_type"] != configChangedEventType {
		return nil
	}

	var evt struct {
		ProductID int64  `json:"product_id"`
		Section   string `json:"section"`
		Version   int64  `json:"version"`
	}
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		l.logger.WarnContext(ctx, "malformed configuration event", "error", err)
		return nil
	}

	if err := l.snapshots.Invalidate(ctx, evt.ProductID); err != nil {
		l.logger.WarnContext(ctx, "snapshot invalidation failed",
			"product_id", evt.ProductID, "error", err)
		return nil
	}

	l.logger.InfoContext(ctx, "configuration snapshot invalidated",
		"product_id", evt.ProductID, "section", evt.Section, "version", evt.Version)
	return nil
}
