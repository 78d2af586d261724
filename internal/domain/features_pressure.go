package domain

// Pressure tendency feature columns.
const (
	ColPressureChange3h = "pressure_change_3h"
	ColPressureTendency = "pressure_tendency"
)

// pressureLag is the row offset of the tendency window. Rows are hourly,
// so a lag of 3 rows spans three hours.
const pressureLag = 3

// PressureTendency labels a 3-hour pressure change in hPa.
func PressureTendency(change float64) string {
	switch {
	case change > 1:
		return "rising"
	case change < -1:
		return "falling"
	default:
		return "steady"
	}
}

// pressureTendencyFeatures runs sequentially over the time-ordered rows;
// the first pressureLag rows have no tendency.
func pressureTendencyFeatures(t Table, _ FeatureOptions) ([]*Column, error) {
	n := t.Len()
	pressure := column(t, ColPressure)

	change := func(i int) (float64, bool) {
		if i < pressureLag {
			return 0, false
		}
		now, ok := floatAt(pressure, i)
		before, okBefore := floatAt(pressure, i-pressureLag)
		if !ok || !okBefore {
			return 0, false
		}
		return now - before, true
	}

	return []*Column{
		mapFloat(ColPressureChange3h, n, change),
		mapString(ColPressureTendency, n, func(i int) (string, bool) {
			d, ok := change(i)
			if !ok {
				return "", false
			}
			return PressureTendency(d), true
		}),
	}, nil
}
