package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marinecast/internal/domain"
	"marinecast/internal/history"
	"marinecast/internal/observability"
	"marinecast/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	readings []pipeline.RawReading
	index    atomic.Int64
}

func (m *mockSource) Fetch(ctx context.Context) (pipeline.RawReading, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.readings) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return pipeline.RawReading{}, ctx.Err()
	}
	return m.readings[i], nil
}

type mockPublisher struct {
	mu      sync.Mutex
	reports []*domain.Report
	err     error
}

func (m *mockPublisher) Publish(_ context.Context, rep *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, rep)
	return nil
}

func (m *mockPublisher) published() []*domain.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Report(nil), m.reports...)
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- parse tests ---

func TestParseReading(t *testing.T) {
	fallback := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("numeric value with timestamp", func(t *testing.T) {
		kind, s, err := pipeline.ParseReading(
			[]byte(`{"station_id":"st-1","sensor":"pressure","value":1013.2,"unit":"hPa","ts":"2025-03-10T11:45:00Z"}`),
			fallback)
		require.NoError(t, err)
		assert.Equal(t, domain.SensorPressure, kind)
		assert.Equal(t, 1013.2, s.Value)
		assert.Equal(t, time.Date(2025, 3, 10, 11, 45, 0, 0, time.UTC), s.Time)
	})

	t.Run("string value is tolerated", func(t *testing.T) {
		kind, s, err := pipeline.ParseReading(
			[]byte(`{"sensor":"wind_speed","value":"12.5"}`), fallback)
		require.NoError(t, err)
		assert.Equal(t, domain.SensorWindSpeed, kind)
		assert.Equal(t, 12.5, s.Value)
		assert.Equal(t, fallback, s.Time)
	})

	t.Run("host sentinel is dropped", func(t *testing.T) {
		_, _, err := pipeline.ParseReading(
			[]byte(`{"sensor":"humidity","value":"unavailable"}`), fallback)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no usable value")
	})

	t.Run("unknown sensor is dropped", func(t *testing.T) {
		_, _, err := pipeline.ParseReading(
			[]byte(`{"sensor":"salinity","value":35}`), fallback)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown sensor")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, _, err := pipeline.ParseReading([]byte(`{not json`), fallback)
		require.Error(t, err)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, _, err := pipeline.ParseReading(
			[]byte(`{"sensor":"pressure","value":1010,"ts":"yesterday"}`), fallback)
		require.Error(t, err)
	})
}

// --- ingest tests ---

func makeReading(t *testing.T, payload string, commit func(context.Context) error) pipeline.RawReading {
	t.Helper()
	return pipeline.RawReading{
		Value:     []byte(payload),
		Topic:     "station-telemetry",
		Timestamp: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Commit:    commit,
	}
}

func TestIngest_Run_AppendsToStore(t *testing.T) {
	commits := 0
	commit := func(context.Context) error { commits++; return nil }

	src := &mockSource{readings: []pipeline.RawReading{
		makeReading(t, `{"sensor":"pressure","value":1013,"ts":"2025-03-10T11:50:00Z"}`, commit),
		makeReading(t, `{"sensor":"pressure","value":1012.5,"ts":"2025-03-10T11:55:00Z"}`, commit),
		makeReading(t, `{"sensor":"wind_speed","value":14}`, commit),
	}}
	store := history.NewMemoryStore(24 * time.Hour)

	ing := pipeline.NewIngest(src, store, slog.Default(), newTestMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, ing.Run(ctx))

	samples, err := store.Window(context.Background(), domain.SensorPressure,
		time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	latest, err := store.Latest(context.Background(), domain.SensorWindSpeed)
	require.NoError(t, err)
	assert.Equal(t, 14.0, latest.Value)
	assert.Equal(t, 3, commits)
}

func TestIngest_Run_DropsBadMessagesButCommits(t *testing.T) {
	commits := 0
	commit := func(context.Context) error { commits++; return nil }

	src := &mockSource{readings: []pipeline.RawReading{
		makeReading(t, `{"sensor":"salinity","value":35}`, commit),
		makeReading(t, `{"sensor":"pressure","value":"unknown"}`, commit),
	}}
	store := history.NewMemoryStore(24 * time.Hour)

	ing := pipeline.NewIngest(src, store, slog.Default(), newTestMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, ing.Run(ctx))

	_, err := store.Latest(context.Background(), domain.SensorPressure)
	assert.ErrorIs(t, err, history.ErrNoSamples)
	assert.Equal(t, 2, commits)
}

func TestIngest_Run_ContextCancellation(t *testing.T) {
	src := &mockSource{} // no readings — will block
	store := history.NewMemoryStore(24 * time.Hour)
	ing := pipeline.NewIngest(src, store, slog.Default(), newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, ing.Run(ctx))
}

// --- forecaster tests ---

func seedStore(t *testing.T, store history.Store, now time.Time) {
	t.Helper()
	ctx := context.Background()

	for i := 12; i >= 0; i-- {
		require.NoError(t, store.Append(ctx, domain.SensorPressure, domain.Sample{
			Time:  now.Add(-time.Duration(i) * 15 * time.Minute),
			Value: 1010 + float64(i)*0.15,
		}))
	}
	require.NoError(t, store.Append(ctx, domain.SensorTemperature, domain.Sample{Time: now.Add(-time.Hour), Value: 11}))
	require.NoError(t, store.Append(ctx, domain.SensorTemperature, domain.Sample{Time: now.Add(-5 * time.Minute), Value: 12}))
	require.NoError(t, store.Append(ctx, domain.SensorHumidity, domain.Sample{Time: now.Add(-time.Minute), Value: 85}))
	require.NoError(t, store.Append(ctx, domain.SensorWindSpeed, domain.Sample{Time: now.Add(-time.Minute), Value: 15}))
	require.NoError(t, store.Append(ctx, domain.SensorWindDirection, domain.Sample{Time: now.Add(-time.Minute), Value: 270}))
}

func testSettings() pipeline.Settings {
	return pipeline.Settings{
		UpdateInterval:       10 * time.Minute,
		PressureHistoryHours: 3,
		FogAreaType:          "normal",
		StationLat:           50.7,
		StationLon:           -1.3,
	}
}

func TestForecaster_Cycle_PublishesReport(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	store := history.NewMemoryStore(24 * time.Hour)
	seedStore(t, store, clk.Now())
	pub := &mockPublisher{}

	f := pipeline.NewForecaster(store, pub, testSettings(), clk, slog.Default(), newTestMetrics())

	require.Error(t, f.CheckReadiness(context.Background()))
	_, ok := f.LatestReport()
	assert.False(t, ok)

	require.NoError(t, f.Cycle(context.Background()))

	reports := pub.published()
	require.Len(t, reports, 1)
	rep := reports[0]
	assert.Equal(t, "falling", rep.PressureTrend)
	assert.Equal(t, "British isles", rep.Region)
	assert.NotNil(t, rep.SensorPressure)
	assert.Equal(t, 1010.0, *rep.SensorPressure)
	assert.Equal(t, "2025-03-10T12:00:00Z", rep.GeneratedAt)

	assert.NoError(t, f.CheckReadiness(context.Background()))
	latest, ok := f.LatestReport()
	require.True(t, ok)
	assert.Equal(t, rep.CycleID, latest.CycleID)
}

func TestForecaster_Cycle_CarriesPrevUpdate(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	store := history.NewMemoryStore(24 * time.Hour)
	seedStore(t, store, clk.Now())
	pub := &mockPublisher{}

	f := pipeline.NewForecaster(store, pub, testSettings(), clk, slog.Default(), newTestMetrics())

	require.NoError(t, f.Cycle(context.Background()))
	clk.Advance(10 * time.Minute)
	require.NoError(t, f.Cycle(context.Background()))

	reports := pub.published()
	require.Len(t, reports, 2)
	assert.Empty(t, reports[0].PrevUpdate)
	assert.Equal(t, reports[0].GeneratedAt, reports[1].PrevUpdate)
	assert.Equal(t, "2025-03-10T12:10:00Z", reports[1].GeneratedAt)
}

func TestForecaster_Cycle_EmptyStoreStillPublishes(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	store := history.NewMemoryStore(24 * time.Hour)
	pub := &mockPublisher{}

	f := pipeline.NewForecaster(store, pub, testSettings(), clk, slog.Default(), newTestMetrics())
	require.NoError(t, f.Cycle(context.Background()))

	reports := pub.published()
	require.Len(t, reports, 1)
	assert.Equal(t, "learning", reports[0].PressureTrend)
	assert.Equal(t, "Learning pressure trends", reports[0].Forecast)
	assert.Nil(t, reports[0].SensorPressure)
}

func TestForecaster_Cycle_PublishError(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	store := history.NewMemoryStore(24 * time.Hour)
	seedStore(t, store, clk.Now())
	pub := &mockPublisher{err: errors.New("broker down")}

	f := pipeline.NewForecaster(store, pub, testSettings(), clk, slog.Default(), newTestMetrics())

	err := f.Cycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish report")
	assert.Error(t, f.CheckReadiness(context.Background()))
}

func TestForecaster_Run_TicksAndStops(t *testing.T) {
	store := history.NewMemoryStore(24 * time.Hour)
	seedStore(t, store, time.Now())
	pub := &mockPublisher{}

	settings := testSettings()
	settings.UpdateInterval = 20 * time.Millisecond

	f := pipeline.NewForecaster(store, pub, settings, clockwork.NewRealClock(), slog.Default(), newTestMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	require.NoError(t, f.Run(ctx))

	// One immediate cycle plus at least one tick.
	assert.GreaterOrEqual(t, len(pub.published()), 2)
}
