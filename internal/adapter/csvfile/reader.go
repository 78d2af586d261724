// Package csvfile extracts raw observation tables from CSV exports.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// Reader loads a CSV file into a domain.Table.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the CSV file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads the whole file. The file is reopened on every call so a
// scheduled pipeline picks up a replaced export.
func (r *Reader) Extract(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Debug("csv extracted", "path", r.path, "rows", t.Len(), "columns", t.NumCols())
	return t, nil
}

// ReadTable parses CSV with a header row. Columns the source delivers as
// numbers become float columns; everything else stays text. Empty cells are
// null in both cases.
func ReadTable(src io.Reader) (domain.Table, error) {
	cr := csv.NewReader(src)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, errors.New("empty csv: no header row")
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	cells := make([][]any, len(names))
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("read row %d: %w", row, err)
		}
		for i, name := range names {
			v, err := parseCell(name, row, rec[i])
			if err != nil {
				return domain.Table{}, err
			}
			cells[i] = append(cells[i], v)
		}
	}

	cols := make([]*domain.Column, len(names))
	for i, name := range names {
		c := cells[i]
		if c == nil {
			c = []any{}
		}
		cols[i] = domain.NewColumn(name, kindOf(name), c)
	}
	return domain.NewTable(cols...)
}

func kindOf(name string) domain.Kind {
	if slices.Contains(domain.NumericSourceColumns, name) {
		return domain.KindFloat
	}
	return domain.KindString
}

func parseCell(name string, row int, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if kindOf(name) != domain.KindFloat {
		return s, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &domain.ParseError{Field: name, Row: row, Raw: raw, Err: err}
	}
	return v, nil
}
