package domain

import (
	"fmt"
	"slices"
)

// FeatureOptions tells the engine which unit the temperature columns hold.
// Columns listed in TemperatureColumns are in Unit; every other
// temperature column is still Kelvin.
type FeatureOptions struct {
	Unit               TemperatureUnit
	TemperatureColumns []string
}

func (o FeatureOptions) unitOf(column string) TemperatureUnit {
	if slices.Contains(o.TemperatureColumns, column) {
		return o.Unit
	}
	return Kelvin
}

type featureStep struct {
	name string
	fn   func(Table, FeatureOptions) ([]*Column, error)
}

// Temporal features come first: the weather step reads month from dt_iso
// for its seasonal flags.
var featureSteps = []featureStep{
	{"temporal", temporalFeatures},
	{"weather condition", weatherConditionFeatures},
	{"wind", windFeatures},
	{"temperature", temperatureFeatures},
	{"pressure tendency", pressureTendencyFeatures},
	{"cloud and visibility", cloudVisibilityFeatures},
	{"temperature difference", temperatureDifference},
}

// DeriveFeatures appends the derived feature columns to a normalized,
// unit-converted table. Derived columns already present are recomputed in
// place, so deriving twice yields the same table.
func DeriveFeatures(t Table, opts FeatureOptions) (Table, error) {
	for _, step := range featureSteps {
		cols, err := step.fn(t, opts)
		if err != nil {
			return Table{}, fmt.Errorf("%s features: %w", step.name, err)
		}
		if t, err = t.With(cols...); err != nil {
			return Table{}, fmt.Errorf("%s features: %w", step.name, err)
		}
	}
	return t, nil
}

// column returns the named column or nil; nil columns read as all-null.
func column(t Table, name string) *Column {
	c, _ := t.Column(name)
	return c
}

func floatAt(c *Column, i int) (float64, bool) {
	if c == nil {
		return 0, false
	}
	return c.Float(i)
}

func notNull(c *Column, i int) bool {
	return c != nil && !c.IsNull(i)
}

func stringAt(c *Column, i int) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.String(i)
}

// mapFloat builds a float column from fn; fn reports false for null.
func mapFloat(name string, n int, fn func(i int) (float64, bool)) *Column {
	cells := make([]any, n)
	for i := range cells {
		if v, ok := fn(i); ok {
			cells[i] = v
		}
	}
	return NewColumn(name, KindFloat, cells)
}

func mapInt(name string, n int, fn func(i int) (int64, bool)) *Column {
	cells := make([]any, n)
	for i := range cells {
		if v, ok := fn(i); ok {
			cells[i] = v
		}
	}
	return NewColumn(name, KindInt, cells)
}

func mapString(name string, n int, fn func(i int) (string, bool)) *Column {
	cells := make([]any, n)
	for i := range cells {
		if v, ok := fn(i); ok {
			cells[i] = v
		}
	}
	return NewColumn(name, KindString, cells)
}

func mapBool(name string, n int, fn func(i int) (bool, bool)) *Column {
	cells := make([]any, n)
	for i := range cells {
		if v, ok := fn(i); ok {
			cells[i] = v
		}
	}
	return NewColumn(name, KindBool, cells)
}

// temperature reads a temperature column in whatever unit it holds.
type temperature struct {
	col  *Column
	unit TemperatureUnit
}

func temperatureOf(t Table, opts FeatureOptions, name string) temperature {
	return temperature{col: column(t, name), unit: opts.unitOf(name)}
}

func (r temperature) celsius(i int) (float64, bool) {
	v, ok := floatAt(r.col, i)
	if !ok {
		return 0, false
	}
	return r.unit.ToCelsius(v), true
}

func (r temperature) kelvin(i int) (float64, bool) {
	v, ok := floatAt(r.col, i)
	if !ok {
		return 0, false
	}
	return r.unit.ToKelvin(v), true
}

// in converts the reading to u.
func (r temperature) in(u TemperatureUnit, i int) (float64, bool) {
	v, ok := floatAt(r.col, i)
	if !ok {
		return 0, false
	}
	if r.unit == u {
		return v, true
	}
	return u.FromKelvin(r.unit.ToKelvin(v)), true
}
