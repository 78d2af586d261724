package domain

import "time"

// Source column names as delivered by the OpenWeather history export.
const (
	ColDt                 = "dt"
	ColDtISO              = "dt_iso"
	ColTimezone           = "timezone"
	ColCityName           = "city_name"
	ColLat                = "lat"
	ColLon                = "lon"
	ColTemp               = "temp"
	ColVisibility         = "visibility"
	ColDewPoint           = "dew_point"
	ColFeelsLike          = "feels_like"
	ColTempMin            = "temp_min"
	ColTempMax            = "temp_max"
	ColPressure           = "pressure"
	ColSeaLevel           = "sea_level"
	ColGrndLevel          = "grnd_level"
	ColHumidity           = "humidity"
	ColWindSpeed          = "wind_speed"
	ColWindDeg            = "wind_deg"
	ColWindGust           = "wind_gust"
	ColRain1h             = "rain_1h"
	ColRain3h             = "rain_3h"
	ColSnow1h             = "snow_1h"
	ColSnow3h             = "snow_3h"
	ColCloudsAll          = "clouds_all"
	ColWeatherID          = "weather_id"
	ColWeatherMain        = "weather_main"
	ColWeatherDescription = "weather_description"
	ColWeatherIcon        = "weather_icon"

	// ColProcessedAt is stamped by the transformer after derivation.
	ColProcessedAt = "processed_at"
)

// RequiredColumns lists the source columns every input table must carry.
var RequiredColumns = []string{
	ColDt, ColDtISO, ColTimezone, ColCityName, ColLat, ColLon,
	ColTemp, ColVisibility, ColDewPoint, ColFeelsLike, ColTempMin, ColTempMax,
	ColPressure, ColSeaLevel, ColGrndLevel, ColHumidity,
	ColWindSpeed, ColWindDeg, ColWindGust,
	ColRain1h, ColRain3h, ColSnow1h, ColSnow3h,
	ColCloudsAll,
	ColWeatherID, ColWeatherMain, ColWeatherDescription, ColWeatherIcon,
}

// NumericSourceColumns are delivered as numbers by the source feed.
// Precipitation columns are absent on purpose: they arrive as text.
var NumericSourceColumns = []string{
	ColDt, ColTimezone, ColLat, ColLon,
	ColTemp, ColVisibility, ColDewPoint, ColFeelsLike, ColTempMin, ColTempMax,
	ColPressure, ColSeaLevel, ColGrndLevel, ColHumidity,
	ColWindSpeed, ColWindDeg, ColWindGust,
	ColCloudsAll, ColWeatherID,
}

// PrecipitationColumns are coerced to float by the normalizer.
var PrecipitationColumns = []string{ColRain1h, ColRain3h, ColSnow1h, ColSnow3h}

// DefaultTemperatureColumns are the temperature-bearing source columns.
var DefaultTemperatureColumns = []string{ColDewPoint, ColFeelsLike, ColTemp, ColTempMin, ColTempMax}

// Plausibility bounds for source data.
var (
	MinObservationTime = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxObservationTime = time.Date(2025, time.January, 1, 23, 59, 59, 0, time.UTC)
)

const (
	MinTempKelvin = 180.0
	MaxTempKelvin = 340.0
)
