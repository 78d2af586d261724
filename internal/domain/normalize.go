package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// zoneSuffixRe matches the literal zone suffix the source appends to
// dt_iso, e.g. "2020-06-15 12:00:00 +0000 UTC".
var zoneSuffixRe = regexp.MustCompile(`\s+[+-]\d{4}\s+UTC$`)

// Normalize prunes all-null columns, parses dt_iso into a time column and
// coerces the precipitation columns to float.
func Normalize(t Table) (Table, error) {
	t = DropAllNullColumns(t)

	ts, err := ParseTimestampColumn(t, ColDtISO)
	if err != nil {
		return Table{}, err
	}
	return CoerceFloatColumns(ts, PrecipitationColumns...)
}

// DropAllNullColumns removes every column whose cells are all null.
func DropAllNullColumns(t Table) Table {
	var empty []string
	for _, c := range t.Columns() {
		if c.AllNull() {
			empty = append(empty, c.Name())
		}
	}
	if len(empty) == 0 {
		return t
	}
	return t.Drop(empty...)
}

// ParseTimestampColumn replaces a text column with a UTC time column.
// The column is left untouched when absent or already parsed.
func ParseTimestampColumn(t Table, name string) (Table, error) {
	col, ok := t.Column(name)
	if !ok || col.Kind() == KindTime {
		return t, nil
	}
	cells := make([]any, col.Len())
	for i := range cells {
		raw, ok := col.String(i)
		if !ok {
			continue
		}
		ts, err := parseObservationTime(raw)
		if err != nil {
			return Table{}, &ParseError{Field: name, Row: i, Raw: raw, Err: err}
		}
		cells[i] = ts
	}
	return t.With(NewColumn(name, KindTime, cells))
}

func parseObservationTime(raw string) (time.Time, error) {
	s := zoneSuffixRe.ReplaceAllString(strings.TrimSpace(raw), "")
	return time.Parse(observationTimeLayout, s)
}

// CoerceFloatColumns casts the named columns to float. Cells that do not
// parse become null; missing columns are skipped.
func CoerceFloatColumns(t Table, names ...string) (Table, error) {
	var out []*Column
	for _, name := range names {
		col, ok := t.Column(name)
		if !ok || col.Kind() == KindFloat {
			continue
		}
		cells := make([]any, col.Len())
		for i := range cells {
			cells[i] = coerceFloat(col.Value(i))
		}
		out = append(out, NewColumn(name, KindFloat, cells))
	}
	if len(out) == 0 {
		return t, nil
	}
	return t.With(out...)
}

func coerceFloat(v any) any {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case bool:
		if x {
			return 1.0
		}
		return 0.0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		return f
	default:
		return nil
	}
}
