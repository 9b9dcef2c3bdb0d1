package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"marinecast/internal/domain"
	"marinecast/internal/history"
	"marinecast/internal/observability"
)

// Exponential backoff: start at 200ms, double each retry, cap at 5s. Keeps
// retry storms short while avoiding tight loops during Kafka outages.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// historyWindow is how much stored history a cycle materializes. Wide enough
// for the 12h outlook window and the 24h briefing history.
const historyWindow = 24 * time.Hour

// Publisher delivers a finished report downstream.
type Publisher interface {
	Publish(ctx context.Context, rep *domain.Report) error
}

// Settings is the per-station forecast configuration a Forecaster runs under.
type Settings struct {
	UpdateInterval       time.Duration
	PressureHistoryHours float64
	FogAreaType          string
	StationLat           float64
	StationLon           float64
	WindSpeedWindow      time.Duration
	WindDirWindow        time.Duration
	TemperatureWindow    time.Duration
	IncludePrompt        bool
}

// Forecaster runs the scheduled forecast cycle: materialize readings from the
// store, run the engine, publish the report.
type Forecaster struct {
	store     history.Store
	publisher Publisher
	settings  Settings
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu         sync.RWMutex
	latest     *domain.Report
	prevUpdate string

	ready atomic.Bool
}

func NewForecaster(store history.Store, publisher Publisher, settings Settings,
	clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Forecaster {
	if settings.UpdateInterval <= 0 {
		settings.UpdateInterval = 10 * time.Minute
	}
	return &Forecaster{
		store:     store,
		publisher: publisher,
		settings:  settings,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one report has been published.
func (f *Forecaster) CheckReadiness(_ context.Context) error {
	if !f.ready.Load() {
		return errors.New("no forecast published yet")
	}
	return nil
}

// LatestReport returns the most recent report, or false before the first
// successful cycle.
func (f *Forecaster) LatestReport() (*domain.Report, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest, f.latest != nil
}

// Run executes forecast cycles until the context is cancelled: one
// immediately, then one per update interval. Failed cycles retry with
// backoff instead of waiting out the full interval.
func (f *Forecaster) Run(ctx context.Context) error {
	f.logger.Info("forecast loop started", "interval", f.settings.UpdateInterval)
	f.metrics.ForecastRunning.Set(1)
	defer f.metrics.ForecastRunning.Set(0)

	ticker := f.clock.NewTicker(f.settings.UpdateInterval)
	defer ticker.Stop()

	backoff := initialBackoff
	for {
		if err := f.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				f.logger.Info("forecast loop stopping", "reason", ctx.Err())
				return nil
			}
			f.logger.Error("forecast cycle failed", "error", err)
			f.metrics.CycleErrors.Inc()
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = initialBackoff

		select {
		case <-ctx.Done():
			f.logger.Info("forecast loop stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// Cycle runs one complete forecast pass and publishes the result.
func (f *Forecaster) Cycle(ctx context.Context) error {
	start := f.clock.Now()

	in, err := f.materialize(ctx, start)
	if err != nil {
		return err
	}

	f.mu.RLock()
	prev := f.prevUpdate
	f.mu.RUnlock()

	rep := domain.BuildReport(in, domain.ReportConfig{
		PressureWindowHours: f.settings.PressureHistoryHours,
		FogAreaType:         f.settings.FogAreaType,
		WindSpeedWindow:     f.settings.WindSpeedWindow,
		WindDirWindow:       f.settings.WindDirWindow,
		TemperatureWindow:   f.settings.TemperatureWindow,
		IncludePrompt:       f.settings.IncludePrompt,
		PrevUpdate:          prev,
	})

	if err := f.publisher.Publish(ctx, rep); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}

	f.metrics.CyclesTotal.Inc()
	f.metrics.ReportsPublished.Inc()
	f.metrics.CycleDuration.Observe(f.clock.Since(start).Seconds())
	f.metrics.AlertLevel.Set(rep.AlertLevel)

	f.mu.Lock()
	f.latest = rep
	f.prevUpdate = rep.GeneratedAt
	f.mu.Unlock()
	f.ready.Store(true)

	f.logger.Info("forecast published",
		"cycle_id", rep.CycleID,
		"trend", rep.PressureTrend,
		"alert_level", rep.AlertLevel,
	)
	return nil
}

// materialize assembles the engine inputs from the sample store: the latest
// scalar per sensor plus a day of history for the windowed estimators.
func (f *Forecaster) materialize(ctx context.Context, now time.Time) (domain.ReportInputs, error) {
	in := domain.ReportInputs{Now: now}

	scalars := []struct {
		kind domain.SensorKind
		dst  *float64
	}{
		{domain.SensorPressure, &in.Pressure},
		{domain.SensorTemperature, &in.Temperature},
		{domain.SensorHumidity, &in.Humidity},
		{domain.SensorWindSpeed, &in.WindSpeed},
		{domain.SensorWindDirection, &in.WindDirection},
		{domain.SensorLatitude, &in.Latitude},
		{domain.SensorLongitude, &in.Longitude},
	}
	for _, s := range scalars {
		sample, err := f.store.Latest(ctx, s.kind)
		switch {
		case errors.Is(err, history.ErrNoSamples):
			*s.dst = domain.Missing()
		case err != nil:
			return domain.ReportInputs{}, fmt.Errorf("read latest %s: %w", s.kind, err)
		default:
			*s.dst = sample.Value
		}
	}

	// Fixed station position as fallback when no position telemetry arrived.
	if domain.IsMissing(in.Latitude) {
		in.Latitude = f.settings.StationLat
	}
	if domain.IsMissing(in.Longitude) {
		in.Longitude = f.settings.StationLon
	}

	histories := []struct {
		kind domain.SensorKind
		dst  *[]domain.Sample
	}{
		{domain.SensorPressure, &in.PressureHistory},
		{domain.SensorTemperature, &in.TemperatureHistory},
		{domain.SensorWindSpeed, &in.WindSpeedHistory},
		{domain.SensorWindDirection, &in.WindDirectionHistory},
	}
	for _, h := range histories {
		window, err := f.store.Window(ctx, h.kind, now.Add(-historyWindow), now)
		if err != nil {
			return domain.ReportInputs{}, fmt.Errorf("read %s history: %w", h.kind, err)
		}
		*h.dst = window
	}

	return in, nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
