package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"marinecast/internal/config"
	"marinecast/internal/domain"
)

// Writer produces forecast reports to the forecast topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaForecastTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a report and writes it to the forecast topic.
func (w *Writer) Publish(ctx context.Context, rep *domain.Report) error {
	msg, err := serializeToMessage(rep)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Report into a Kafka message keyed by cycle ID.
func serializeToMessage(rep *domain.Report) (kafkago.Message, error) {
	data, err := json.Marshal(rep)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rep.CycleID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_level", Value: []byte(strconv.FormatFloat(rep.AlertLevel, 'f', -1, 64))},
			{Key: "generated_at", Value: []byte(rep.GeneratedAt)},
		},
	}, nil
}
