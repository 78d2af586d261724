package domain

import "strings"

// TemperatureUnit is the display unit for temperature columns. Source data
// is always Kelvin.
type TemperatureUnit int

const (
	Kelvin TemperatureUnit = iota
	Celsius
	Fahrenheit
)

const absoluteZeroCelsius = 273.15

// ParseTemperatureUnit accepts kelvin, celsius or fahrenheit in any case.
// "farenheit" is accepted for deployments configured before the spelling
// was fixed.
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kelvin":
		return Kelvin, nil
	case "celsius":
		return Celsius, nil
	case "fahrenheit", "farenheit":
		return Fahrenheit, nil
	default:
		return 0, &ConfigError{Key: "temperature_unit", Value: s}
	}
}

func (u TemperatureUnit) String() string {
	switch u {
	case Kelvin:
		return "kelvin"
	case Celsius:
		return "celsius"
	case Fahrenheit:
		return "fahrenheit"
	default:
		return "unknown"
	}
}

// valid reports whether u is one of the declared units.
func (u TemperatureUnit) valid() bool {
	return u == Kelvin || u == Celsius || u == Fahrenheit
}

// FromKelvin converts a Kelvin reading into u.
func (u TemperatureUnit) FromKelvin(k float64) float64 {
	switch u {
	case Celsius:
		return k - absoluteZeroCelsius
	case Fahrenheit:
		return (k-absoluteZeroCelsius)*9/5 + 32
	default:
		return k
	}
}

// ToKelvin converts a reading in u back to Kelvin.
func (u TemperatureUnit) ToKelvin(v float64) float64 {
	switch u {
	case Celsius:
		return v + absoluteZeroCelsius
	case Fahrenheit:
		return (v-32)*5/9 + absoluteZeroCelsius
	default:
		return v
	}
}

// ToCelsius converts a reading in u to Celsius.
func (u TemperatureUnit) ToCelsius(v float64) float64 {
	switch u {
	case Celsius:
		return v
	case Fahrenheit:
		return (v - 32) * 5 / 9
	default:
		return v - absoluteZeroCelsius
	}
}

// ConvertTemperatures converts Kelvin columns into unit. Listed columns
// absent from the table are skipped; nulls stay null.
func ConvertTemperatures(t Table, columns []string, unit TemperatureUnit) (Table, error) {
	if !unit.valid() {
		return Table{}, &ConfigError{Key: "temperature_unit", Value: unit.String()}
	}
	if unit == Kelvin {
		return t, nil
	}
	var out []*Column
	for _, name := range columns {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		cells := make([]any, col.Len())
		for i := range cells {
			v, present, err := numericCell(col, i)
			if err != nil {
				return Table{}, err
			}
			if present {
				cells[i] = unit.FromKelvin(v)
			}
		}
		out = append(out, NewColumn(name, KindFloat, cells))
	}
	if len(out) == 0 {
		return t, nil
	}
	return t.With(out...)
}
