package domain

import (
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// obs is one raw observation row keyed by column name. Missing keys are null.
type obs map[string]any

var textColumns = []string{
	ColDtISO, ColCityName,
	ColRain1h, ColRain3h, ColSnow1h, ColSnow3h,
	ColWeatherMain, ColWeatherDescription, ColWeatherIcon,
}

// scenarioRow is the reference observation: a clear Monday noon in June.
func scenarioRow() obs {
	return obs{
		ColDt:                 1592222400.0,
		ColDtISO:              "2020-06-15 12:00:00 +0000 UTC",
		ColTimezone:           0.0,
		ColCityName:           "Lisbon",
		ColLat:                38.7167,
		ColLon:                -9.1333,
		ColTemp:               300.0,
		ColVisibility:         9000.0,
		ColDewPoint:           290.0,
		ColFeelsLike:          301.0,
		ColTempMin:            295.0,
		ColTempMax:            305.0,
		ColPressure:           1013.0,
		ColHumidity:           50.0,
		ColWindSpeed:          5.0,
		ColWindDeg:            10.0,
		ColCloudsAll:          20.0,
		ColWeatherID:          800.0,
		ColWeatherMain:        "Clear",
		ColWeatherDescription: "sky is clear",
		ColWeatherIcon:        "01d",
	}
}

// with returns a copy of o with the given overrides.
func (o obs) with(kv ...any) obs {
	out := make(obs, len(o))
	for k, v := range o {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}

// rawTable lays out rows the way the CSV extractor does: every required
// column present, numeric columns as float, the rest as text.
func rawTable(t *testing.T, rows ...obs) Table {
	t.Helper()
	cols := make([]*Column, 0, len(RequiredColumns))
	for _, name := range RequiredColumns {
		kind := KindFloat
		if slices.Contains(textColumns, name) {
			kind = KindString
		}
		cells := make([]any, len(rows))
		for i, r := range rows {
			cells[i] = r[name]
		}
		cols = append(cols, NewColumn(name, kind, cells))
	}
	tbl, err := NewTable(cols...)
	require.NoError(t, err)
	return tbl
}

// hourly returns n consecutive hourly rows starting at the scenario time.
func hourly(n int, mutate func(i int, o obs) obs) []obs {
	rows := make([]obs, n)
	for i := range rows {
		o := scenarioRow().with(ColDtISO, fmtHour(i))
		if mutate != nil {
			o = mutate(i, o)
		}
		rows[i] = o
	}
	return rows
}

var scenarioTime = time.Date(2020, time.June, 15, 12, 0, 0, 0, time.UTC)

func fmtHour(i int) string {
	return scenarioTime.Add(time.Duration(i)*time.Hour).Format(observationTimeLayout) + " +0000 UTC"
}

func cell(t *testing.T, tbl Table, name string, row int) any {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "column %s missing", name)
	return c.Value(row)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
