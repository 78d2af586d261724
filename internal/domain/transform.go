package domain

import "fmt"

// TransformOptions carries the unit configuration threaded through a run.
type TransformOptions struct {
	Unit TemperatureUnit
	// TemperatureColumns lists the columns converted to Unit. Nil means
	// DefaultTemperatureColumns.
	TemperatureColumns []string
}

func (o TransformOptions) temperatureColumns() []string {
	if o.TemperatureColumns == nil {
		return DefaultTemperatureColumns
	}
	return o.TemperatureColumns
}

// Transform turns a raw observation table into the validated, normalized,
// converted and feature-enriched table handed to a sink. The first failing
// stage aborts the run; its error is wrapped with the stage name and keeps
// its type for errors.As.
func Transform(t Table, opts TransformOptions) (Table, error) {
	cols := opts.temperatureColumns()

	out, err := Validate(t)
	if err != nil {
		return Table{}, fmt.Errorf("validate: %w", err)
	}
	if out, err = Normalize(out); err != nil {
		return Table{}, fmt.Errorf("normalize: %w", err)
	}
	if out, err = ConvertTemperatures(out, cols, opts.Unit); err != nil {
		return Table{}, fmt.Errorf("convert temperatures: %w", err)
	}
	out, err = DeriveFeatures(out, FeatureOptions{Unit: opts.Unit, TemperatureColumns: cols})
	if err != nil {
		return Table{}, fmt.Errorf("derive features: %w", err)
	}
	return out, nil
}

// StampProcessedAt sets processed_at on every row to the current time.
func StampProcessedAt(t Table) (Table, error) {
	now := clock.Now().UTC()
	cells := make([]any, t.Len())
	for i := range cells {
		cells[i] = now
	}
	return t.With(NewColumn(ColProcessedAt, KindTime, cells))
}
