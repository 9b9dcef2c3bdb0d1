// Package kafka adapts the segmentio/kafka-go client to the pipeline's
// Source and Publisher interfaces.
package kafka

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"marinecast/internal/config"
	"marinecast/internal/pipeline"
)

// Reader consumes telemetry messages from the station telemetry topic.
// It implements pipeline.Source.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured telemetry topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTelemetryTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Reader{reader: r, logger: logger}
}

// Fetch blocks until the next telemetry message arrives. The returned
// reading carries a commit callback; offsets are only committed after the
// sample has been stored.
func (r *Reader) Fetch(ctx context.Context) (pipeline.RawReading, error) {
	msg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return pipeline.RawReading{}, err
	}
	raw := mapMessageToReading(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToReading converts a Kafka message into a pipeline reading.
func mapMessageToReading(msg kafkago.Message) pipeline.RawReading {
	return pipeline.RawReading{
		Key:       msg.Key,
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
