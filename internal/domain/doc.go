// Package domain turns raw hourly weather observations into a validated,
// feature-enriched table.
//
// # Data Source
//
// Observations come from the OpenWeather "history bulk" CSV export: one row
// per hour for a single city. Temperatures are Kelvin, precipitation fields
// are sparse text and dt_iso carries a literal zone suffix:
//
//	"2020-06-15 12:00:00 +0000 UTC"
//
// # Stages
//
// [Transform] runs four stages, each returning a new [Table]:
//
//	Validate            required columns, dt_iso and temp plausibility
//	Normalize           drop all-null columns, parse dt_iso, coerce precipitation
//	ConvertTemperatures Kelvin to the configured display unit
//	DeriveFeatures      temporal, weather, wind, temperature, pressure, sky
//
// The first failing stage stops the run. Failures are typed: [SchemaError],
// [RangeError], [ParseError] and [ConfigError].
//
// # Plausibility Bounds
//
//	dt_iso  2015-01-01 00:00:00 .. 2025-01-01 23:59:59 (inclusive)
//	temp    180 K .. 340 K
//
// # Feature Conventions
//
// Nulls propagate: a derived cell is null when any input it needs is null.
// has_precipitation is the exception; a recorded rain_1h or snow_1h makes it
// true regardless of weather_main.
//
// Comfort indices are computed in Celsius whatever the display unit, and
// humidex reads the dew point in Kelvin. [FeatureOptions] records which
// columns were converted so readings are never converted twice.
//
// pressure_change_3h compares each row with the row three places earlier.
// Rows must be hourly and time ordered; the first three rows are null.
// pressure_tendency follows it and is null there too rather than "steady",
// so a missing baseline is never reported as a flat reading.
package domain
