// Package postgres loads enriched observation tables into PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Loader writes tables into a single PostgreSQL table, creating it and
// adding new columns as the feature set grows.
// It implements pipeline.Loader.
type Loader struct {
	db        TxBeginner
	table     string
	batchSize int
	logger    *slog.Logger
}

// NewLoader creates a Loader. batchSize bounds the rows queued per
// round trip.
func NewLoader(db TxBeginner, table string, batchSize int, logger *slog.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Loader{db: db, table: table, batchSize: batchSize, logger: logger}
}

// Load migrates the schema and inserts every row in one transaction. Rows
// whose (city_name, dt_iso) already exist are skipped, so reloading the
// same export is a no-op.
func (l *Loader) Load(ctx context.Context, t domain.Table) (err error) {
	if t.NumCols() == 0 {
		return nil
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, CreateTableSQL(l.table, t)); err != nil {
		return fmt.Errorf("create table %s: %w", l.table, err)
	}
	for _, stmt := range AddColumnsSQL(l.table, t) {
		if _, err = tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", l.table, err)
		}
	}

	inserted, err := l.insert(ctx, tx, t)
	if err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	l.logger.Info("rows loaded", "table", l.table, "rows", t.Len(), "inserted", inserted)
	return nil
}

func (l *Loader) insert(ctx context.Context, tx pgx.Tx, t domain.Table) (int64, error) {
	stmt := InsertSQL(l.table, t)
	cols := t.Columns()
	var inserted int64

	for from := 0; from < t.Len(); from += l.batchSize {
		to := min(from+l.batchSize, t.Len())
		batch := &pgx.Batch{}
		for i := from; i < to; i++ {
			args := make([]any, len(cols))
			for j, c := range cols {
				args[j] = c.Value(i)
			}
			batch.Queue(stmt, args...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := from; i < to; i++ {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return 0, fmt.Errorf("insert row %d: %w", i, err)
			}
			inserted += tag.RowsAffected()
		}
		if err := br.Close(); err != nil {
			return 0, fmt.Errorf("close batch: %w", err)
		}
	}
	return inserted, nil
}

// SQLType maps a column kind to its PostgreSQL type.
func SQLType(k domain.Kind) string {
	switch k {
	case domain.KindFloat:
		return "DOUBLE PRECISION"
	case domain.KindInt:
		return "BIGINT"
	case domain.KindBool:
		return "BOOLEAN"
	case domain.KindTime:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

// CreateTableSQL returns the DDL for a table holding t. The natural key is
// (city_name, dt_iso) when both columns are present.
func CreateTableSQL(table string, t domain.Table) string {
	defs := make([]string, 0, t.NumCols()+1)
	for _, c := range t.Columns() {
		defs = append(defs, quote(c.Name())+" "+SQLType(c.Kind()))
	}
	if pk := primaryKey(t); pk != "" {
		defs = append(defs, "PRIMARY KEY ("+pk+")")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quote(table), strings.Join(defs, ",\n\t"))
}

// AddColumnsSQL returns one ALTER TABLE per column so a table created by an
// older run gains newly derived features.
func AddColumnsSQL(table string, t domain.Table) []string {
	stmts := make([]string, 0, t.NumCols())
	for _, c := range t.Columns() {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
			quote(table), quote(c.Name()), SQLType(c.Kind())))
	}
	return stmts
}

// InsertSQL returns the parameterized insert for one row of t.
func InsertSQL(table string, t domain.Table) string {
	names := t.Names()
	cols := make([]string, len(names))
	params := make([]string, len(names))
	for i, n := range names {
		cols[i] = quote(n)
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(cols, ", "), strings.Join(params, ", "))
	if primaryKey(t) != "" {
		stmt += " ON CONFLICT DO NOTHING"
	}
	return stmt
}

func primaryKey(t domain.Table) string {
	if !t.Has(domain.ColCityName) || !t.Has(domain.ColDtISO) {
		return ""
	}
	return quote(domain.ColCityName) + ", " + quote(domain.ColDtISO)
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
