// marinectl runs the forecast engine offline against a snapshot of sensor
// readings, for testing station setups and replaying logged conditions
// without Kafka or a running service.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"marinecast/internal/domain"
)

// snapshot is the input file format: current readings plus optional sample
// histories. Scalars are pointers so absent fields read as missing sensors.
type snapshot struct {
	Now *time.Time `json:"now,omitempty"`

	Pressure      *float64 `json:"pressure,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`

	PressureHistory      []snapshotSample `json:"pressure_history,omitempty"`
	TemperatureHistory   []snapshotSample `json:"temperature_history,omitempty"`
	WindSpeedHistory     []snapshotSample `json:"wind_speed_history,omitempty"`
	WindDirectionHistory []snapshotSample `json:"wind_direction_history,omitempty"`
}

type snapshotSample struct {
	TS    time.Time `json:"ts"`
	Value float64   `json:"value"`
}

func scalar(p *float64) float64 {
	if p == nil {
		return domain.Missing()
	}
	return *p
}

func samples(in []snapshotSample) []domain.Sample {
	out := make([]domain.Sample, len(in))
	for i, s := range in {
		out[i] = domain.Sample{Time: s.TS, Value: s.Value}
	}
	return out
}

func (s *snapshot) inputs() domain.ReportInputs {
	now := time.Now().UTC()
	if s.Now != nil {
		now = *s.Now
	}
	return domain.ReportInputs{
		Now:                  now,
		Pressure:             scalar(s.Pressure),
		Temperature:          scalar(s.Temperature),
		Humidity:             scalar(s.Humidity),
		WindSpeed:            scalar(s.WindSpeed),
		WindDirection:        scalar(s.WindDirection),
		Latitude:             scalar(s.Latitude),
		Longitude:            scalar(s.Longitude),
		PressureHistory:      samples(s.PressureHistory),
		TemperatureHistory:   samples(s.TemperatureHistory),
		WindSpeedHistory:     samples(s.WindSpeedHistory),
		WindDirectionHistory: samples(s.WindDirectionHistory),
	}
}

func runForecast(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	area, _ := cmd.Flags().GetString("area")
	windowHours, _ := cmd.Flags().GetFloat64("window-hours")
	withPrompt, _ := cmd.Flags().GetBool("prompt")
	promptOnly, _ := cmd.Flags().GetBool("prompt-only")

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	in := snap.inputs()
	if cmd.Flags().Changed("lat") {
		in.Latitude = lat
	}
	if cmd.Flags().Changed("lon") {
		in.Longitude = lon
	}

	rep := domain.BuildReport(in, domain.ReportConfig{
		PressureWindowHours: windowHours,
		FogAreaType:         area,
		IncludePrompt:       withPrompt || promptOnly,
	})

	if promptOnly {
		fmt.Fprintln(cmd.OutOrStdout(), rep.Prompt)
		return nil
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "marinectl",
		Short:        "Marine forecast toolbox",
		Long:         "Run the marine forecast engine against recorded sensor snapshots.",
		SilenceUsage: true,
	}

	forecastCmd := &cobra.Command{
		Use:   "forecast",
		Short: "Build a forecast report from a snapshot file",
		RunE:  runForecast,
	}
	forecastCmd.Flags().StringP("file", "f", "", "snapshot JSON file with readings and histories")
	forecastCmd.Flags().Float64("lat", 0, "override station latitude")
	forecastCmd.Flags().Float64("lon", 0, "override station longitude")
	forecastCmd.Flags().String("area", "normal", "fog area type (frequent_dense_fog, fog_prone, normal, rare_fog, hardly_ever_fog)")
	forecastCmd.Flags().Float64("window-hours", 3, "pressure trend window in hours")
	forecastCmd.Flags().Bool("prompt", false, "include the briefing prompt in the report")
	forecastCmd.Flags().Bool("prompt-only", false, "print only the briefing prompt")
	_ = forecastCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(forecastCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
