package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/agri-alert-impact/internal/config"
	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces region impact messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, clock: clockwork.NewRealClock(), logger: logger}
}

// LoadBatch publishes one message per region in a single WriteMessages call.
// Messages are keyed by region so a compacted topic keeps the latest impact.
func (w *Writer) LoadBatch(ctx context.Context, impacts []domain.RegionImpact) error {
	if len(impacts) == 0 {
		return nil
	}
	producedAt := w.clock.Now().UTC()
	msgs := make([]kafkago.Message, len(impacts))
	for i := range impacts {
		msg, err := serializeToMessage(impacts[i], producedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write impacts: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RegionImpact into a Kafka message.
func serializeToMessage(impact domain.RegionImpact, producedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(impact)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize region impact: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(impact.Region),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(impact.Region)},
			{Key: "total_incidents", Value: []byte(strconv.Itoa(impact.TotalIncidents))},
			{Key: "produced_at", Value: []byte(producedAt.Format(time.RFC3339))},
		},
	}, nil
}
