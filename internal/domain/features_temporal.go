package domain

import (
	"fmt"
	"time"
)

// Temporal feature columns.
const (
	ColYear      = "year"
	ColMonth     = "month"
	ColDay       = "day"
	ColHour      = "hour"
	ColDayOfWeek = "day_of_week"
	ColQuarter   = "quarter"
	ColIsWeekend = "is_weekend"
	ColSeason    = "season"
)

func temporalFeatures(t Table, _ FeatureOptions) ([]*Column, error) {
	ts, err := observationTimes(t)
	if err != nil {
		return nil, err
	}
	n := t.Len()
	field := func(name string, get func(time.Time) int) *Column {
		return mapInt(name, n, func(i int) (int64, bool) {
			v, ok := ts.Time(i)
			return int64(get(v)), ok
		})
	}
	return []*Column{
		field(ColYear, time.Time.Year),
		field(ColMonth, func(v time.Time) int { return int(v.Month()) }),
		field(ColDay, time.Time.Day),
		field(ColHour, time.Time.Hour),
		field(ColDayOfWeek, isoWeekday),
		field(ColQuarter, func(v time.Time) int { return (int(v.Month())-1)/3 + 1 }),
		mapBool(ColIsWeekend, n, func(i int) (bool, bool) {
			v, ok := ts.Time(i)
			return IsWeekend(v), ok
		}),
		mapString(ColSeason, n, func(i int) (string, bool) {
			v, ok := ts.Time(i)
			return Season(v.Month()), ok
		}),
	}, nil
}

// observationTimes returns the parsed dt_iso column.
func observationTimes(t Table) (*Column, error) {
	col, ok := t.Column(ColDtISO)
	if !ok {
		return nil, fmt.Errorf("missing %s column", ColDtISO)
	}
	if col.Kind() != KindTime {
		return nil, fmt.Errorf("%s is %s, not a parsed timestamp", ColDtISO, col.Kind())
	}
	return col, nil
}

// isoWeekday numbers Monday as 1 and Sunday as 7.
func isoWeekday(v time.Time) int {
	if wd := v.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}

// IsWeekend reports whether v falls on a Saturday or Sunday.
func IsWeekend(v time.Time) bool {
	wd := v.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Season maps a month to its Northern Hemisphere meteorological season.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}
