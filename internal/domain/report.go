package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportInputs carries everything one forecast cycle needs: the current
// scalar readings (missing sentinel allowed everywhere) and the sample
// histories the estimators window into.
type ReportInputs struct {
	Now time.Time

	Pressure      float64
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	WindDirection float64 // degrees FROM
	Latitude      float64
	Longitude     float64

	PressureHistory      []Sample
	TemperatureHistory   []Sample
	WindSpeedHistory     []Sample
	WindDirectionHistory []Sample
}

// ReportConfig holds the per-station settings a cycle runs under.
type ReportConfig struct {
	PressureWindowHours float64 // trend window, typically 3
	FogAreaType         string
	WindSpeedWindow     time.Duration // averaging window for wind speed
	WindDirWindow       time.Duration // modal window for wind direction
	WindTrendWindow     time.Duration // low estimator's wind-speed history window
	WindRotationWindow  time.Duration // low estimator's direction-delta window
	TemperatureWindow   time.Duration
	Sun                 *SunWindows
	IncludePrompt       bool
	PrevUpdate          string // last cycle's timestamp, "" on the first run
}

// Defaults for windows left unset. Conservative values: long enough to
// smooth gusts, short enough to stay responsive.
const (
	defaultWindSpeedWindow    = 10 * time.Minute
	defaultWindDirWindow      = 10 * time.Minute
	defaultWindTrendWindow    = 90 * time.Minute
	defaultWindRotationWindow = 120 * time.Minute
	defaultTemperatureWindow  = 2 * time.Hour
	lowSlopeWindow            = 3 * time.Hour
)

func (c *ReportConfig) applyDefaults() {
	if c.PressureWindowHours <= 0 {
		c.PressureWindowHours = 3
	}
	if c.WindSpeedWindow <= 0 {
		c.WindSpeedWindow = defaultWindSpeedWindow
	}
	if c.WindDirWindow <= 0 {
		c.WindDirWindow = defaultWindDirWindow
	}
	if c.WindTrendWindow <= 0 {
		c.WindTrendWindow = defaultWindTrendWindow
	}
	if c.WindRotationWindow <= 0 {
		c.WindRotationWindow = defaultWindRotationWindow
	}
	if c.TemperatureWindow <= 0 {
		c.TemperatureWindow = defaultTemperatureWindow
	}
}

// Report is the full attribute bag of one forecast cycle, shaped for direct
// JSON serialization. Optional numerics are pointers so a missing reading
// marshals as null instead of poisoning the document with NaN.
type Report struct {
	CycleID     string `json:"cycle_id"`
	GeneratedAt string `json:"generated_at"`
	PrevUpdate  string `json:"prev_update,omitempty"`

	// State is the one-line composite forecast sentence.
	State string `json:"state"`

	SensorPressure      *float64 `json:"sensor_pressure"`
	SensorTemperature   *float64 `json:"sensor_temperature"`
	SensorHumidity      *float64 `json:"sensor_humidity"`
	SensorWindSpeed     *float64 `json:"sensor_wind_speed"`
	SensorWindDirection *float64 `json:"sensor_wind_direction"`
	SensorLatitude      *float64 `json:"sensor_latitude"`
	SensorLongitude     *float64 `json:"sensor_longitude"`

	Region         string  `json:"region"`
	RegionURL      string  `json:"region_url"`
	NormalPressure float64 `json:"normal_pressure"`

	PressureTrend       string   `json:"pressure_trend"`
	PressureMovePerHour *float64 `json:"pressure_move_per_hour"`
	PressureAnalysis    string   `json:"pressure_analysis"`
	HistPressure        int      `json:"hist_pressure"`
	MethodUsed          string   `json:"method_used"`
	MethodDeviation     float64  `json:"method_deviation"`

	WindSpeed           float64 `json:"wind_speed"`
	HistWindSpeed       int     `json:"hist_wind_speed"`
	WindDirection       string  `json:"wind_direction"`
	HistWindDirection   int     `json:"hist_wind_direction"`
	WindDirectionChange string  `json:"wind_direction_change"`

	TemperatureDiffHour float64 `json:"temperature_diff_hour"`
	TempEffect          string  `json:"temp_effect"`
	HistTemperature     int     `json:"hist_temperature"`

	LowDirection        string   `json:"low_direction"`
	LowDirectionDeg     float64  `json:"low_direction_deg"`
	LowDistanceClass    string   `json:"low_distance_class"`
	LowDistanceKmRange  string   `json:"low_distance_km_range"`
	LowWindTrendClass   string   `json:"low_wind_trend_class"`
	LowWindTrendDeltaKn *float64 `json:"low_wind_trend_delta_kn"`
	LowWindTrendNote    string   `json:"low_wind_trend_note,omitempty"`
	LowConfidence       string   `json:"low_estimate_confidence"`
	LowWeatherTrend     string   `json:"low_weather_trend"`
	LowRelativePosition string   `json:"low_relative_position"`
	LowMovement         string   `json:"low_movement"`
	ImpactWindowStatus  string   `json:"impact_window_status"`
	LowTimeToImpact     string   `json:"low_time_to_impact"`
	LowTimeToImpactRng  string   `json:"low_time_to_impact_range"`
	LowWindRotation     string   `json:"low_wind_rotation_likely"`
	LowWindDirDeltaDeg  *float64 `json:"low_wind_dir_delta_deg"`
	LowFrontalZone      bool     `json:"low_frontal_zone"`
	LowAnchoringRisk    string   `json:"low_anchoring_risk"`
	LowSummary          string   `json:"low_summary"`

	FogChance    string   `json:"fog_chance"`
	FogChancePct int      `json:"fog_chance_pct"`
	Dewpoint     *float64 `json:"dewpoint"`
	TempDiffFog  *float64 `json:"temp_diff_fog"`

	Forecast              string  `json:"forecast"`
	Icon                  string  `json:"icon"`
	EstimatedWindSpeed    float64 `json:"estimated_wind_speed"`
	EstimatedMaxWindSpeed float64 `json:"estimated_max_wind_speed"`
	WindForecast          string  `json:"wind_forecast"`

	ForecastAdvanced string `json:"forecast_advanced"`
	ForecastShort    string `json:"forecast_short"`

	WindSystem     string `json:"wind_system"`
	WindSystemURLs string `json:"wind_system_urls"`

	AlertLevel float64 `json:"alert_level"`
	Alert      string  `json:"alert"`

	Prompt string `json:"ai_prompt,omitempty"`
}

// optional converts a possibly-missing value into a JSON-friendly pointer.
func optional(v float64) *float64 {
	if IsMissing(v) {
		return nil
	}
	return &v
}

// BuildReport runs one full forecast cycle over the inputs: trend fit, low
// estimate, fog, temperature effect, forecast synthesis, outlook, wind
// folklore, and the final alert ratchet, composed into a single Report.
//
// The function is pure apart from the generated cycle id; the caller's Now
// anchors every window.
func BuildReport(in ReportInputs, cfg ReportConfig) *Report {
	cfg.applyDefaults()
	now := in.Now
	if now.IsZero() {
		now = clock.Now()
	}

	region, regionName, regionURL := DetermineRegion(in.Latitude, in.Longitude)
	normal := NormalPressure(region, now.Month())

	trendWindow := WindowSince(in.PressureHistory, now, time.Duration(cfg.PressureWindowHours*float64(time.Hour)))
	trend := FitTrend(trendWindow, cfg.PressureWindowHours)

	avgWind, nWind := AverageWindSpeed(WindowSince(in.WindSpeedHistory, now, cfg.WindSpeedWindow))
	if nWind == 0 && !IsMissing(in.WindSpeed) {
		avgWind, nWind = in.WindSpeed, 1
	}

	dir16, nDir := MostFrequentDirection(WindowSince(in.WindDirectionHistory, now, cfg.WindDirWindow))
	if nDir == 0 && !IsMissing(in.WindDirection) {
		dir16, nDir = DegreesToCompass16(in.WindDirection), 1
	}

	dirChange := ProjectWindDirection(dir16, trend.Bucket)

	tempEffect := AnalyzeTemperature(
		WindowSince(in.TemperatureHistory, now, cfg.TemperatureWindow), now, cfg.Sun)

	// The low estimator reads a short endpoint slope rather than the fitted
	// trend: the classic 3-hour pressure tendency.
	lowSlope := EndpointSlope(WindowSince(in.PressureHistory, now, lowSlopeWindow))

	dirWindow := WindowSince(in.WindDirectionHistory, now, cfg.WindRotationWindow)
	dirDelta := Missing()
	if len(dirWindow) >= 2 {
		dirDelta = circularDelta(dirWindow[0].Value, dirWindow[len(dirWindow)-1].Value)
	}

	hemisphere := "north"
	if !IsMissing(in.Latitude) && in.Latitude < 0 {
		hemisphere = "south"
	}

	low := EstimateLow(LowInputs{
		WindFromDeg:      in.WindDirection,
		PressureSlope:    lowSlope,
		WindSpeed:        in.WindSpeed,
		WindSpeedHistory: Values(WindowSince(in.WindSpeedHistory, now, cfg.WindTrendWindow)),
		WindDirDelta:     dirDelta,
		Hemisphere:       hemisphere,
	})

	fog := EstimateFog(in.Humidity, in.Temperature, in.WindSpeed, cfg.FogAreaType)

	fc := Synthesize(in.Pressure, trend.Bucket, avgWind, in.Temperature, normal)

	outlook := PressureOutlook(SafeFloatDefault(in.Pressure, normal), in.PressureHistory, region, now)

	windSys := LookupWindSystems(region, regionURL, in.Latitude, in.Longitude, dir16, avgWind)

	alert := AggregateAlert(fc.AlertLevel, fog.AlertLevel, tempEffect.AlertLevel, fc.EstimatedMaxWind)

	windForecast := fmt.Sprintf("Wind estimate %d-%dkn, %s",
		int(fc.EstimatedWindKn*0.8), int(fc.EstimatedWindKn*1.2), dirChange)
	state := fmt.Sprintf("%s. %s. %s. %s right now. %s.",
		trend.Analysis, fc.Text, windForecast, fog.Likelihood, tempEffect.Text)

	rep := &Report{
		CycleID:     uuid.NewString(),
		GeneratedAt: now.UTC().Format(time.RFC3339),
		PrevUpdate:  cfg.PrevUpdate,
		State:       state,

		SensorPressure:      optional(in.Pressure),
		SensorTemperature:   optional(in.Temperature),
		SensorHumidity:      optional(in.Humidity),
		SensorWindSpeed:     optional(in.WindSpeed),
		SensorWindDirection: optional(in.WindDirection),
		SensorLatitude:      optional(in.Latitude),
		SensorLongitude:     optional(in.Longitude),

		Region:         regionName,
		RegionURL:      regionURL,
		NormalPressure: normal,

		PressureTrend:       string(trend.Bucket),
		PressureMovePerHour: optional(trend.RatePerHour),
		PressureAnalysis:    trend.Analysis,
		HistPressure:        trend.SampleCount,
		MethodUsed:          string(trend.Method),
		MethodDeviation:     trend.MeanResidual,

		WindSpeed:           avgWind,
		HistWindSpeed:       nWind,
		WindDirection:       dir16,
		HistWindDirection:   nDir,
		WindDirectionChange: dirChange,

		TemperatureDiffHour: tempEffect.ChangeC,
		TempEffect:          tempEffect.Text,
		HistTemperature:     tempEffect.SampleCount,

		LowDirection:        low.BearingCompass,
		LowDirectionDeg:     low.BearingDeg,
		LowDistanceClass:    string(low.DistanceClass),
		LowDistanceKmRange:  low.DistanceKm,
		LowWindTrendClass:   low.WindTrend,
		LowWindTrendDeltaKn: optional(low.WindDeltaKn),
		LowWindTrendNote:    low.WindTrendNote,
		LowConfidence:       string(low.Confidence),
		LowWeatherTrend:     low.WeatherTrend,
		LowRelativePosition: low.RelativePosition,
		LowMovement:         string(low.Movement),
		ImpactWindowStatus:  string(low.ImpactWindowStatus),
		LowTimeToImpact:     low.TimeToImpact,
		LowTimeToImpactRng:  low.TimeToImpactRange,
		LowWindRotation:     low.WindRotation,
		LowWindDirDeltaDeg:  optional(low.WindDirDelta),
		LowFrontalZone:      low.FrontalZone,
		LowAnchoringRisk:    string(low.AnchoringRisk),
		LowSummary:          low.Summary,

		FogChance:    fog.Likelihood,
		FogChancePct: fog.DecadePct,
		Dewpoint:     optional(roundMissing(fog.DewpointC, 2)),
		TempDiffFog:  optional(fog.TempDiffC),

		Forecast:              fc.Text,
		Icon:                  fc.Icon,
		EstimatedWindSpeed:    fc.EstimatedWindKn,
		EstimatedMaxWindSpeed: fc.EstimatedMaxWind,
		WindForecast:          windForecast,

		ForecastAdvanced: outlook.Full,
		ForecastShort:    outlook.Short,

		WindSystem:     windSys.Description,
		WindSystemURLs: windSys.SourceURL,

		AlertLevel: alert,
		Alert:      AlertDescription(alert),
	}

	if cfg.IncludePrompt {
		rep.Prompt = BuildPrompt(rep, PromptHistory{
			Pressure:      in.PressureHistory,
			Temperature:   in.TemperatureHistory,
			WindSpeed:     in.WindSpeedHistory,
			WindDirection: in.WindDirectionHistory,
		}, now)
	}

	return rep
}
