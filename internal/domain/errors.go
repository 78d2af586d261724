package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns absent from an input table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// RangeError reports a value outside its plausible bounds. Row is the
// first offending row (0-based).
type RangeError struct {
	Field string
	Row   int
	Value any
	Min   any
	Max   any
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s out of range at row %d: %v not in [%v, %v]", e.Field, e.Row, e.Value, e.Min, e.Max)
}

// ParseError reports a cell that does not match its expected format.
type ParseError struct {
	Field string
	Row   int
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s at row %d (%q): %v", e.Field, e.Row, e.Raw, e.Err)
	}
	return fmt.Sprintf("parse %s at row %d (%q)", e.Field, e.Row, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports an unusable configuration value.
type ConfigError struct {
	Key   string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Key, e.Value)
}
