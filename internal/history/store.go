// Package history stores timestamped sensor samples and serves the window
// queries the forecast engine reads from.
package history

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"marinecast/internal/domain"
)

// ErrNoSamples is returned by Latest when a sensor has no stored readings.
var ErrNoSamples = errors.New("history: no samples")

// Store is the sample store the ingest loop writes to and the forecast loop
// reads from.
type Store interface {
	// Append records one observation for a sensor.
	Append(ctx context.Context, kind domain.SensorKind, s domain.Sample) error
	// Window returns the samples in (from, to], oldest first.
	Window(ctx context.Context, kind domain.SensorKind, from, to time.Time) ([]domain.Sample, error)
	// Latest returns the most recent sample, or ErrNoSamples.
	Latest(ctx context.Context, kind domain.SensorKind) (domain.Sample, error)
}

// MemoryStore is the default in-process store: per-sensor slices kept in time
// order, pruned against a retention horizon on every append.
type MemoryStore struct {
	mu        sync.RWMutex
	retention time.Duration
	samples   map[domain.SensorKind][]domain.Sample
}

// NewMemoryStore creates a store that keeps at most retention worth of
// history per sensor, measured from the newest stored sample.
func NewMemoryStore(retention time.Duration) *MemoryStore {
	if retention <= 0 {
		retention = 48 * time.Hour
	}
	return &MemoryStore{
		retention: retention,
		samples:   make(map[domain.SensorKind][]domain.Sample),
	}
}

func (m *MemoryStore) Append(_ context.Context, kind domain.SensorKind, s domain.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	series := append(m.samples[kind], s)
	// Readings normally arrive in order; a late sample triggers one re-sort.
	if n := len(series); n > 1 && series[n-1].Time.Before(series[n-2].Time) {
		sort.SliceStable(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	}

	horizon := series[len(series)-1].Time.Add(-m.retention)
	cut := 0
	for cut < len(series) && series[cut].Time.Before(horizon) {
		cut++
	}
	m.samples[kind] = series[cut:]
	return nil
}

func (m *MemoryStore) Window(_ context.Context, kind domain.SensorKind, from, to time.Time) ([]domain.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Sample
	for _, s := range m.samples[kind] {
		if s.Time.After(from) && !s.Time.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) Latest(_ context.Context, kind domain.SensorKind) (domain.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	series := m.samples[kind]
	if len(series) == 0 {
		return domain.Sample{}, ErrNoSamples
	}
	return series[len(series)-1], nil
}
