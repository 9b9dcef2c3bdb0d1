// Package config loads service settings from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers        []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092" validate:"required,min=1"`
	KafkaTelemetryTopic string        `envconfig:"KAFKA_TELEMETRY_TOPIC" default:"station-telemetry" validate:"required"`
	KafkaForecastTopic  string        `envconfig:"KAFKA_FORECAST_TOPIC" default:"marine-forecasts" validate:"required"`
	KafkaGroupID        string        `envconfig:"KAFKA_GROUP_ID" default:"marinecast"`
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat           string        `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	ShutdownTimeout     time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	UpdateInterval       time.Duration `envconfig:"UPDATE_INTERVAL" default:"10m" validate:"gt=0"`
	PressureHistoryHours float64       `envconfig:"PRESSURE_HISTORY_HOURS" default:"3" validate:"gt=0,lte=24"`
	FogAreaType          string        `envconfig:"FOG_AREA_TYPE" default:"normal" validate:"oneof=frequent_dense_fog fog_prone normal rare_fog hardly_ever_fog"`
	StationLat           float64       `envconfig:"STATION_LAT" default:"0" validate:"gte=-90,lte=90"`
	StationLon           float64       `envconfig:"STATION_LON" default:"0" validate:"gte=-180,lte=180"`

	WindSpeedWindow   time.Duration `envconfig:"WIND_SPEED_WINDOW" default:"10m" validate:"gt=0"`
	WindDirWindow     time.Duration `envconfig:"WIND_DIR_WINDOW" default:"10m" validate:"gt=0"`
	TemperatureWindow time.Duration `envconfig:"TEMPERATURE_WINDOW" default:"2h" validate:"gt=0"`

	PostgresDSN    string        `envconfig:"POSTGRES_DSN"`
	RetentionHours time.Duration `envconfig:"RETENTION_HOURS" default:"48h" validate:"gt=0"`

	IncludePrompt bool `envconfig:"INCLUDE_PROMPT" default:"false"`
}

// Load reads configuration from environment variables, applying defaults where
// unset, then validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// envconfig splits on commas but keeps empty entries.
	brokers := cfg.KafkaBrokers[:0]
	for _, b := range cfg.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	cfg.KafkaBrokers = brokers

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// UsePostgres reports whether a persistent sample store is configured.
func (c *Config) UsePostgres() bool {
	return c.PostgresDSN != ""
}
