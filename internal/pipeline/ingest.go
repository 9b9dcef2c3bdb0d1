// Package pipeline runs the two service loops: telemetry ingest into the
// sample store, and the scheduled forecast cycle that reads it back out.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"marinecast/internal/domain"
	"marinecast/internal/history"
	"marinecast/internal/observability"
)

// RawReading is one telemetry message as it came off the wire, with enough
// metadata to log and commit it.
type RawReading struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Source fetches the next telemetry message, blocking until one arrives or
// the context is cancelled.
type Source interface {
	Fetch(ctx context.Context) (RawReading, error)
}

// telemetryMessage is the wire shape of one sensor reading. Value is decoded
// tolerantly: numbers, numeric strings, and the host sentinels all pass
// through SafeFloat.
type telemetryMessage struct {
	StationID string `json:"station_id"`
	Sensor    string `json:"sensor"`
	Value     any    `json:"value"`
	Unit      string `json:"unit,omitempty"`
	TS        string `json:"ts,omitempty"`
}

// ParseReading decodes a telemetry payload into a sensor kind and sample.
// fallback stamps readings that carry no timestamp of their own.
func ParseReading(payload []byte, fallback time.Time) (domain.SensorKind, domain.Sample, error) {
	var msg telemetryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", domain.Sample{}, fmt.Errorf("decode telemetry message: %w", err)
	}

	kind := domain.SensorKind(msg.Sensor)
	if !domain.KnownSensor(kind) {
		return "", domain.Sample{}, fmt.Errorf("unknown sensor %q", msg.Sensor)
	}

	value := domain.SafeFloat(msg.Value)
	if domain.IsMissing(value) {
		return "", domain.Sample{}, fmt.Errorf("sensor %q reading has no usable value", msg.Sensor)
	}

	ts := fallback
	if msg.TS != "" {
		parsed, err := time.Parse(time.RFC3339, msg.TS)
		if err != nil {
			return "", domain.Sample{}, fmt.Errorf("sensor %q reading has bad timestamp: %w", msg.Sensor, err)
		}
		ts = parsed
	}

	return kind, domain.Sample{Time: ts, Value: value}, nil
}

// Ingest consumes telemetry messages and appends them to the sample store.
type Ingest struct {
	source  Source
	store   history.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewIngest(source Source, store history.Store, logger *slog.Logger, metrics *observability.Metrics) *Ingest {
	return &Ingest{source: source, store: store, logger: logger, metrics: metrics}
}

// Run consumes until the context is cancelled. Unparseable messages are
// dropped and committed so they are not redelivered forever; store and fetch
// failures back off exponentially.
func (i *Ingest) Run(ctx context.Context) error {
	i.logger.Info("telemetry ingest started")

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			i.logger.Info("telemetry ingest stopping", "reason", ctx.Err())
			return nil
		default:
		}

		raw, err := i.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			i.logger.Error("fetch telemetry failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = initialBackoff

		kind, sample, err := ParseReading(raw.Value, raw.Timestamp)
		if err != nil {
			i.logger.Warn("dropping telemetry message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			i.metrics.ReadingsDropped.Inc()
			i.commit(ctx, raw)
			continue
		}

		if err := i.store.Append(ctx, kind, sample); err != nil {
			i.logger.Error("append sample failed", "error", err, "sensor", kind)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		i.metrics.ReadingsConsumed.Inc()
		i.commit(ctx, raw)
	}
}

func (i *Ingest) commit(ctx context.Context, raw RawReading) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		i.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
