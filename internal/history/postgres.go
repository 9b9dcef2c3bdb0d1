package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"marinecast/internal/domain"
)

// PostgresStore persists samples in a single append-only table, for stations
// that want history to survive restarts.
type PostgresStore struct {
	db *sqlx.DB
}

const samplesSchema = `
CREATE TABLE IF NOT EXISTS samples (
	sensor TEXT        NOT NULL,
	ts     TIMESTAMPTZ NOT NULL,
	value  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (sensor, ts)
);
CREATE INDEX IF NOT EXISTS samples_sensor_ts_idx ON samples (sensor, ts DESC);`

// NewPostgresStore connects to dsn and ensures the samples table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, samplesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure samples schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Append(ctx context.Context, kind domain.SensorKind, s domain.Sample) error {
	const query = `
		INSERT INTO samples (sensor, ts, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (sensor, ts) DO UPDATE SET value = EXCLUDED.value`
	if _, err := p.db.ExecContext(ctx, query, string(kind), s.Time.UTC(), s.Value); err != nil {
		return fmt.Errorf("append sample: %w", err)
	}
	return nil
}

func (p *PostgresStore) Window(ctx context.Context, kind domain.SensorKind, from, to time.Time) ([]domain.Sample, error) {
	const query = `
		SELECT ts, value FROM samples
		WHERE sensor = $1 AND ts > $2 AND ts <= $3
		ORDER BY ts ASC`

	var rows []struct {
		TS    time.Time `db:"ts"`
		Value float64   `db:"value"`
	}
	if err := p.db.SelectContext(ctx, &rows, query, string(kind), from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("query sample window: %w", err)
	}
	out := make([]domain.Sample, len(rows))
	for i, r := range rows {
		out[i] = domain.Sample{Time: r.TS, Value: r.Value}
	}
	return out, nil
}

func (p *PostgresStore) Latest(ctx context.Context, kind domain.SensorKind) (domain.Sample, error) {
	const query = `
		SELECT ts, value FROM samples
		WHERE sensor = $1
		ORDER BY ts DESC LIMIT 1`

	var row struct {
		TS    time.Time `db:"ts"`
		Value float64   `db:"value"`
	}
	if err := p.db.GetContext(ctx, &row, query, string(kind)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sample{}, ErrNoSamples
		}
		return domain.Sample{}, fmt.Errorf("query latest sample: %w", err)
	}
	return domain.Sample{Time: row.TS, Value: row.Value}, nil
}

// DeleteBefore prunes samples older than cutoff; the retention sweep calls
// this periodically.
func (p *PostgresStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM samples WHERE ts < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune samples: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune samples: %w", err)
	}
	return n, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
