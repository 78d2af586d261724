package domain

import "math"

// Wind feature columns.
const (
	ColWindDirection = "wind_direction"
	ColWindCategory  = "wind_category"
	ColGustRatio     = "gust_ratio"
)

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection maps a bearing in degrees to one of eight 45° sectors
// centred on the cardinal and intercardinal points; N covers
// [337.5, 360) and [0, 22.5).
func CompassDirection(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	sector := int(math.Floor((deg+22.5)/45)) % len(compassPoints)
	return compassPoints[sector]
}

// WindCategory bands a wind speed in m/s on a Beaufort-like scale.
func WindCategory(speed float64) string {
	switch {
	case speed < 0.5:
		return "calm"
	case speed < 3.3:
		return "light"
	case speed < 7.9:
		return "moderate"
	case speed < 13.8:
		return "fresh"
	case speed < 20.7:
		return "strong"
	default:
		return "storm"
	}
}

// GustRatio is gust over sustained speed; undefined for calm air.
func GustRatio(gust, speed float64) (float64, bool) {
	if speed == 0 {
		return 0, false
	}
	return gust / speed, true
}

func windFeatures(t Table, _ FeatureOptions) ([]*Column, error) {
	n := t.Len()
	deg := column(t, ColWindDeg)
	speed := column(t, ColWindSpeed)
	gust := column(t, ColWindGust)

	return []*Column{
		mapString(ColWindDirection, n, func(i int) (string, bool) {
			d, ok := floatAt(deg, i)
			if !ok || math.IsNaN(d) {
				return "", false
			}
			return CompassDirection(d), true
		}),
		mapString(ColWindCategory, n, func(i int) (string, bool) {
			s, ok := floatAt(speed, i)
			if !ok || math.IsNaN(s) {
				return "", false
			}
			return WindCategory(s), true
		}),
		mapFloat(ColGustRatio, n, func(i int) (float64, bool) {
			g, okG := floatAt(gust, i)
			s, okS := floatAt(speed, i)
			if !okG || !okS {
				return 0, false
			}
			return GustRatio(g, s)
		}),
	}, nil
}
