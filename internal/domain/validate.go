package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Validation check names, as reported by CheckResult.
const (
	CheckSchema      = "schema"
	CheckDateRange   = "date_range"
	CheckTemperature = "temperature_range"
)

const observationTimeLayout = "2006-01-02 15:04:05"

// CheckResult is the outcome of a single validation check. Err is nil when
// the check passed.
type CheckResult struct {
	Name string
	Err  error
}

// ValidationReport holds the outcome of every validation check.
type ValidationReport struct {
	Checks []CheckResult
}

// Err joins the failures of all checks, or returns nil if every check passed.
func (r ValidationReport) Err() error {
	var errs []error
	for _, c := range r.Checks {
		if c.Err != nil {
			errs = append(errs, c.Err)
		}
	}
	return errors.Join(errs...)
}

// Failed returns the names of the failing checks.
func (r ValidationReport) Failed() []string {
	var names []string
	for _, c := range r.Checks {
		if c.Err != nil {
			names = append(names, c.Name)
		}
	}
	return names
}

// Validate gates a raw observation table. The table is returned unchanged
// when every check passes.
func Validate(t Table) (Table, error) {
	if err := CheckTable(t).Err(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// CheckTable runs the schema, date range and temperature checks
// independently and reports each outcome. Range checks on a column that is
// absent are left to the schema check.
func CheckTable(t Table) ValidationReport {
	return ValidationReport{Checks: []CheckResult{
		{Name: CheckSchema, Err: checkRequiredColumns(t)},
		{Name: CheckDateRange, Err: checkObservationTimes(t)},
		{Name: CheckTemperature, Err: checkTemperatures(t)},
	}}
}

func checkRequiredColumns(t Table) error {
	var missing []string
	for _, name := range RequiredColumns {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

func checkObservationTimes(t Table) error {
	col, ok := t.Column(ColDtISO)
	if !ok {
		return nil
	}
	for i := 0; i < col.Len(); i++ {
		ts, err := leadingObservationTime(col, i)
		if err != nil {
			return err
		}
		if ts.Before(MinObservationTime) || ts.After(MaxObservationTime) {
			return &RangeError{
				Field: ColDtISO,
				Row:   i,
				Value: ts.Format(observationTimeLayout),
				Min:   MinObservationTime.Format(observationTimeLayout),
				Max:   MaxObservationTime.Format(observationTimeLayout),
			}
		}
	}
	return nil
}

// leadingObservationTime reads the "YYYY-MM-DD HH:MM:SS" prefix of a raw
// dt_iso cell, ignoring any zone suffix.
func leadingObservationTime(col *Column, i int) (time.Time, error) {
	if ts, ok := col.Time(i); ok {
		return ts, nil
	}
	raw, ok := col.String(i)
	if !ok {
		return time.Time{}, &ParseError{Field: col.Name(), Row: i, Raw: "", Err: errors.New("null timestamp")}
	}
	s := strings.TrimSpace(raw)
	if len(s) < len(observationTimeLayout) {
		return time.Time{}, &ParseError{Field: col.Name(), Row: i, Raw: raw, Err: errors.New("too short")}
	}
	ts, err := time.Parse(observationTimeLayout, s[:len(observationTimeLayout)])
	if err != nil {
		return time.Time{}, &ParseError{Field: col.Name(), Row: i, Raw: raw, Err: err}
	}
	return ts, nil
}

func checkTemperatures(t Table) error {
	col, ok := t.Column(ColTemp)
	if !ok {
		return nil
	}
	for i := 0; i < col.Len(); i++ {
		v, present, err := numericCell(col, i)
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		if math.IsNaN(v) || v < MinTempKelvin || v > MaxTempKelvin {
			return &RangeError{Field: ColTemp, Row: i, Value: v, Min: MinTempKelvin, Max: MaxTempKelvin}
		}
	}
	return nil
}

// numericCell reads a cell as a number, accepting text cells from an
// untyped source. present is false for nulls.
func numericCell(col *Column, i int) (v float64, present bool, err error) {
	if v, ok := col.Float(i); ok {
		return v, true, nil
	}
	raw, ok := col.String(i)
	if !ok {
		return 0, false, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, &ParseError{Field: col.Name(), Row: i, Raw: raw, Err: err}
	}
	return v, true, nil
}
