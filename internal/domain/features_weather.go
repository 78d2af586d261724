package domain

import "time"

// weather_main condition codes used by the source feed.
const (
	CondClear        = "Clear"
	CondClouds       = "Clouds"
	CondRain         = "Rain"
	CondDrizzle      = "Drizzle"
	CondSnow         = "Snow"
	CondThunderstorm = "Thunderstorm"
	CondMist         = "Mist"
	CondFog          = "Fog"
	CondHaze         = "Haze"
	CondSmoke        = "Smoke"
	CondSquall       = "Squall"
)

// Weather condition feature columns.
const (
	ColWeatherConditionCategory = "weather_condition_category"
	ColWeatherDetailed          = "weather_detailed"
	ColIsClear                  = "is_clear"
	ColIsCloudy                 = "is_cloudy"
	ColIsRainy                  = "is_rainy"
	ColIsSnowy                  = "is_snowy"
	ColIsStormy                 = "is_stormy"
	ColPoorVisibility           = "poor_visibility"
	ColHasPrecipitation         = "has_precipitation"
	ColSeverityLevel            = "severity_level"
	ColCloudDetail              = "cloud_detail"
	ColRainIntensity            = "rain_intensity"
	ColSnowIntensity            = "snow_intensity"
	ColVisibilityImpact         = "visibility_impact"
	ColTypicalWinterCondition   = "typical_winter_condition"
	ColTypicalSummerCondition   = "typical_summer_condition"
)

// Hourly accumulation thresholds in mm separating light, moderate and
// heavy precipitation.
const (
	moderatePrecipitationMM = 0.5
	heavyPrecipitationMM    = 4.0
)

func isRainCondition(c string) bool { return c == CondRain || c == CondDrizzle }

func isObscuredCondition(c string) bool {
	return c == CondMist || c == CondFog || c == CondHaze || c == CondSmoke
}

// ConditionCategory maps a weather_main code to its broad category.
func ConditionCategory(c string) string {
	switch {
	case c == CondClear:
		return "clear"
	case c == CondClouds:
		return "cloudy"
	case isRainCondition(c):
		return "rainy"
	case c == CondSnow:
		return "snowy"
	case c == CondThunderstorm:
		return "stormy"
	case isObscuredCondition(c):
		return "poor_visibility"
	case c == CondSquall:
		return "windy"
	default:
		return "other"
	}
}

// DetailedCondition maps a weather_main code to its fine-grained category.
func DetailedCondition(c string) string {
	switch c {
	case CondClear:
		return "clear"
	case CondClouds:
		return "cloudy"
	case CondRain:
		return "rain"
	case CondDrizzle:
		return "drizzle"
	case CondSnow:
		return "snow"
	case CondThunderstorm:
		return "thunderstorm"
	case CondMist:
		return "mist"
	case CondFog:
		return "fog"
	case CondHaze:
		return "haze"
	case CondSmoke:
		return "smoke"
	case CondSquall:
		return "squall"
	default:
		return "other"
	}
}

// SeverityLevel ranks a condition from 0 (clear, cloudy or unknown) to
// 4 (thunderstorm).
func SeverityLevel(c string) int64 {
	switch c {
	case CondMist, CondHaze, CondSmoke:
		return 1
	case CondFog, CondDrizzle:
		return 2
	case CondRain, CondSnow, CondSquall:
		return 3
	case CondThunderstorm:
		return 4
	default:
		return 0
	}
}

// VisibilityImpact describes how a condition affects visibility.
func VisibilityImpact(c string) string {
	switch c {
	case CondMist, CondHaze:
		return "slightly_reduced"
	case CondFog, CondSmoke:
		return "significantly_reduced"
	case CondClear:
		return "excellent"
	default:
		return "moderate"
	}
}

// CloudDetail subdivides Clouds by cloud cover percentage; any other
// condition is returned as is.
func CloudDetail(c string, clouds float64, hasClouds bool) string {
	if c != CondClouds || !hasClouds {
		return c
	}
	switch {
	case clouds <= 30:
		return "partly_cloudy"
	case clouds <= 70:
		return "mostly_cloudy"
	default:
		return "overcast"
	}
}

// PrecipitationIntensity grades an hourly accumulation. A missing
// accumulation counts as light.
func PrecipitationIntensity(mm float64, present bool) string {
	switch {
	case !present || mm < moderatePrecipitationMM:
		return "light"
	case mm < heavyPrecipitationMM:
		return "moderate"
	default:
		return "heavy"
	}
}

func weatherConditionFeatures(t Table, _ FeatureOptions) ([]*Column, error) {
	ts, err := observationTimes(t)
	if err != nil {
		return nil, err
	}
	n := t.Len()
	mainCol := column(t, ColWeatherMain)
	clouds := column(t, ColCloudsAll)
	rain1h := column(t, ColRain1h)
	snow1h := column(t, ColSnow1h)

	label := func(name string, fn func(string) string) *Column {
		return mapString(name, n, func(i int) (string, bool) {
			c, ok := stringAt(mainCol, i)
			return fn(c), ok
		})
	}
	flag := func(name string, fn func(string) bool) *Column {
		return mapBool(name, n, func(i int) (bool, bool) {
			c, ok := stringAt(mainCol, i)
			return fn(c), ok
		})
	}
	inMonths := func(months ...time.Month) func(i int) bool {
		return func(i int) bool {
			v, ok := ts.Time(i)
			if !ok {
				return false
			}
			for _, m := range months {
				if v.Month() == m {
					return true
				}
			}
			return false
		}
	}
	winter := inMonths(time.December, time.January, time.February, time.March)
	summer := inMonths(time.June, time.July, time.August)

	return []*Column{
		label(ColWeatherConditionCategory, ConditionCategory),
		label(ColWeatherDetailed, DetailedCondition),
		flag(ColIsClear, func(c string) bool { return c == CondClear }),
		flag(ColIsCloudy, func(c string) bool { return c == CondClouds }),
		flag(ColIsRainy, isRainCondition),
		flag(ColIsSnowy, func(c string) bool { return c == CondSnow }),
		flag(ColIsStormy, func(c string) bool { return c == CondThunderstorm }),
		flag(ColPoorVisibility, isObscuredCondition),
		mapBool(ColHasPrecipitation, n, func(i int) (bool, bool) {
			if notNull(rain1h, i) || notNull(snow1h, i) {
				return true, true
			}
			c, ok := stringAt(mainCol, i)
			if !ok {
				return false, false
			}
			return isRainCondition(c) || c == CondSnow || c == CondThunderstorm, true
		}),
		mapInt(ColSeverityLevel, n, func(i int) (int64, bool) {
			c, ok := stringAt(mainCol, i)
			return SeverityLevel(c), ok
		}),
		mapString(ColCloudDetail, n, func(i int) (string, bool) {
			c, ok := stringAt(mainCol, i)
			pct, has := floatAt(clouds, i)
			return CloudDetail(c, pct, has), ok
		}),
		mapString(ColRainIntensity, n, func(i int) (string, bool) {
			c, ok := stringAt(mainCol, i)
			if !ok || !isRainCondition(c) {
				return "", false
			}
			mm, present := floatAt(rain1h, i)
			return PrecipitationIntensity(mm, present) + "_rain", true
		}),
		mapString(ColSnowIntensity, n, func(i int) (string, bool) {
			c, ok := stringAt(mainCol, i)
			if !ok || c != CondSnow {
				return "", false
			}
			mm, present := floatAt(snow1h, i)
			return PrecipitationIntensity(mm, present) + "_snow", true
		}),
		label(ColVisibilityImpact, VisibilityImpact),
		mapBool(ColTypicalWinterCondition, n, func(i int) (bool, bool) {
			c, ok := stringAt(mainCol, i)
			return (c == CondSnow || c == CondFog) && winter(i), ok
		}),
		mapBool(ColTypicalSummerCondition, n, func(i int) (bool, bool) {
			c, ok := stringAt(mainCol, i)
			return c == CondThunderstorm && summer(i), ok
		}),
	}, nil
}
