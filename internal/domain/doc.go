// Package domain implements the marine forecast heuristics for a single
// weather station.
//
// # Inputs
//
// The engine works from point-in-time sensor readings (pressure hPa,
// temperature °C, relative humidity %, wind speed kn, wind direction degrees
// FROM) plus short time-ordered sample histories of the same sensors. All
// numeric inputs are optional: a missing or unparseable value is represented
// as NaN (see [SafeFloat]) and every estimator degrades to an explicit
// "Unknown"/"Learning" outcome instead of returning an error.
//
// # Method
//
// The forecast is rule-based, in the tradition of the Zambretti forecaster:
//
//   - Pressure tendency is fitted with an ordinary least-squares line over a
//     15-minute resampled window, falling back to a two-segment "U-curve"
//     model when the linear fit's mean residual exceeds 1.5 hPa. The rate is
//     classified into six trend buckets (rising fast ... plummeting).
//   - The position of the nearest low-pressure system is inferred with the
//     Buys-Ballot rule (wind blows counter-clockwise around a low in the
//     northern hemisphere, so the low lies ~90° clockwise of the wind-from
//     direction) and the pressure fall rate maps to a rough distance class.
//   - Fog probability comes from the Magnus-Tetens dew point spread with
//     empirical temperature, wind, and terrain multipliers.
//   - The trend bucket and the pressure anomaly against the regional monthly
//     normal select a forecast sentence, icon, baseline alert level, and wind
//     estimate from a fixed decision table.
//   - Independent alert signals (forecast, fog, temperature swing, estimated
//     maximum wind) are combined by a ratchet that can only raise the level.
//
// None of this claims meteorological accuracy; it is an explainable
// situational-awareness heuristic for a boat or coastal home station.
//
// # Purity
//
// Every exported function here is a pure function of its arguments (the only
// ambient input is the package clock, swappable via [SetClock]); calling one
// twice with the same inputs yields identical output. All I/O — history
// storage, transport, scheduling — lives in the surrounding packages.
package domain
