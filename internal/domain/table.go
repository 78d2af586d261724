package domain

import (
	"fmt"
	"time"
)

// Kind is the logical type of a column.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindInt
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is an immutable, named vector of cells. A nil cell is null.
// Non-null cells hold string, float64, int64, bool or time.Time according
// to Kind.
type Column struct {
	name   string
	kind   Kind
	values []any
}

// NewColumn builds a column from cells. The slice is owned by the column
// afterwards; callers must not modify it.
func NewColumn(name string, kind Kind, values []any) *Column {
	return &Column{name: name, kind: kind, values: values}
}

// StringColumn builds a string column; empty strings are kept as values.
func StringColumn(name string, values ...string) *Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return NewColumn(name, KindString, cells)
}

// FloatColumn builds a float column with no nulls.
func FloatColumn(name string, values ...float64) *Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return NewColumn(name, KindFloat, cells)
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return len(c.values) }

// Value returns the raw cell at row i (nil when null).
func (c *Column) Value(i int) any { return c.values[i] }

func (c *Column) IsNull(i int) bool { return c.values[i] == nil }

// AllNull reports whether every cell is null. An empty column is all-null.
func (c *Column) AllNull() bool {
	for _, v := range c.values {
		if v != nil {
			return false
		}
	}
	return true
}

// Float returns the cell as float64. Int cells are widened.
func (c *Column) Float(i int) (float64, bool) {
	switch v := c.values[i].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (c *Column) Int(i int) (int64, bool) {
	v, ok := c.values[i].(int64)
	return v, ok
}

func (c *Column) String(i int) (string, bool) {
	v, ok := c.values[i].(string)
	return v, ok
}

func (c *Column) Bool(i int) (bool, bool) {
	v, ok := c.values[i].(bool)
	return v, ok
}

func (c *Column) Time(i int) (time.Time, bool) {
	v, ok := c.values[i].(time.Time)
	return v, ok
}

// Table is an ordered set of equal-length columns. Tables are values:
// With, Drop and Slice return new tables and never modify the receiver.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable assembles a table, failing if names repeat or lengths differ.
func NewTable(columns ...*Column) (Table, error) {
	t := Table{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if _, dup := t.index[c.name]; dup {
			return Table{}, fmt.Errorf("duplicate column %q", c.name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return Table{}, fmt.Errorf("column %q has %d rows, want %d", c.name, c.Len(), t.rows)
		}
		t.index[c.name] = i
	}
	t.columns = append([]*Column(nil), columns...)
	return t, nil
}

// MustTable is NewTable for fixtures and literals known to be well formed.
func MustTable(columns ...*Column) Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Table) Len() int     { return t.rows }
func (t Table) NumCols() int { return len(t.columns) }

func (t Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Columns returns the columns in order.
func (t Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

func (t Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// With returns a table where each given column replaces the column of the
// same name in place, or is appended when absent.
func (t Table) With(columns ...*Column) (Table, error) {
	out := append([]*Column(nil), t.columns...)
	index := make(map[string]int, len(t.index)+len(columns))
	for k, v := range t.index {
		index[k] = v
	}
	rows := t.rows
	for _, c := range columns {
		if len(out) == 0 {
			rows = c.Len()
		} else if c.Len() != rows {
			return Table{}, fmt.Errorf("column %q has %d rows, want %d", c.name, c.Len(), rows)
		}
		if i, ok := index[c.name]; ok {
			out[i] = c
			continue
		}
		index[c.name] = len(out)
		out = append(out, c)
	}
	return Table{columns: out, index: index, rows: rows}, nil
}

// Drop returns a table without the named columns. Unknown names are ignored.
func (t Table) Drop(names ...string) Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]*Column, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop[c.name] {
			kept = append(kept, c)
		}
	}
	out, _ := NewTable(kept...)
	if len(kept) == 0 {
		out.rows = t.rows
	}
	return out
}

// Row returns row i as a name → cell map.
func (t Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.columns))
	for _, c := range t.columns {
		row[c.name] = c.values[i]
	}
	return row
}

// Slice returns rows [from, to) as a new table.
func (t Table) Slice(from, to int) Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = NewColumn(c.name, c.kind, c.values[from:to:to])
	}
	out, _ := NewTable(cols...)
	out.rows = to - from
	return out
}
