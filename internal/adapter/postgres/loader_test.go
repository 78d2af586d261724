package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// --- fakes ---

type fakeDB struct {
	tx  *fakeTx
	err error
}

func (f *fakeDB) Begin(_ context.Context) (pgx.Tx, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tx, nil
}

type fakeTx struct {
	pgx.Tx
	execs      []string
	queued     [][]any
	batches    int
	execErr    error
	insertErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag("OK"), f.execErr
}

func (f *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches++
	for _, q := range b.QueuedQueries {
		f.queued = append(f.queued, q.Arguments)
	}
	return &fakeResults{n: b.Len(), err: f.insertErr}
}

func (f *fakeTx) Commit(_ context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(_ context.Context) error {
	f.rolledBack = true
	return nil
}

type fakeResults struct {
	pgx.BatchResults
	n   int
	err error
}

func (f *fakeResults) Exec() (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeResults) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTable(rows int) domain.Table {
	cities := make([]any, rows)
	times := make([]any, rows)
	temps := make([]any, rows)
	hours := make([]any, rows)
	base := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		cities[i] = "Lisbon"
		times[i] = base.Add(time.Duration(i) * time.Hour)
		temps[i] = 20.0 + float64(i)
		hours[i] = int64(i)
	}
	temps[0] = nil
	return domain.MustTable(
		domain.NewColumn(domain.ColCityName, domain.KindString, cities),
		domain.NewColumn(domain.ColDtISO, domain.KindTime, times),
		domain.NewColumn(domain.ColTemp, domain.KindFloat, temps),
		domain.NewColumn("hour", domain.KindInt, hours),
	)
}

// --- SQL builders ---

func TestSQLType(t *testing.T) {
	tests := []struct {
		kind domain.Kind
		want string
	}{
		{domain.KindFloat, "DOUBLE PRECISION"},
		{domain.KindInt, "BIGINT"},
		{domain.KindBool, "BOOLEAN"},
		{domain.KindTime, "TIMESTAMPTZ"},
		{domain.KindString, "TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SQLType(tt.kind))
		})
	}
}

func TestCreateTableSQL(t *testing.T) {
	got := CreateTableSQL("weather_observations", sampleTable(1))

	want := "CREATE TABLE IF NOT EXISTS \"weather_observations\" (\n" +
		"\t\"city_name\" TEXT,\n" +
		"\t\"dt_iso\" TIMESTAMPTZ,\n" +
		"\t\"temp\" DOUBLE PRECISION,\n" +
		"\t\"hour\" BIGINT,\n" +
		"\tPRIMARY KEY (\"city_name\", \"dt_iso\")\n" +
		")"
	assert.Equal(t, want, got)
}

func TestCreateTableSQL_NoNaturalKey(t *testing.T) {
	tbl := domain.MustTable(domain.FloatColumn(domain.ColTemp, 1))
	assert.NotContains(t, CreateTableSQL("w", tbl), "PRIMARY KEY")
	assert.NotContains(t, InsertSQL("w", tbl), "ON CONFLICT")
}

func TestAddColumnsSQL(t *testing.T) {
	stmts := AddColumnsSQL("w", sampleTable(1))
	require.Len(t, stmts, 4)
	assert.Equal(t, `ALTER TABLE "w" ADD COLUMN IF NOT EXISTS "hour" BIGINT`, stmts[3])
}

func TestInsertSQL(t *testing.T) {
	assert.Equal(t,
		`INSERT INTO "w" ("city_name", "dt_iso", "temp", "hour") VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
		InsertSQL("w", sampleTable(1)))
}

func TestQuote_EscapesEmbeddedQuotes(t *testing.T) {
	assert.Equal(t, `"we""ird"`, quote(`we"ird`))
}

// --- Load ---

func TestLoader_Load(t *testing.T) {
	tx := &fakeTx{}
	l := NewLoader(&fakeDB{tx: tx}, "w", 2, discardLogger())

	require.NoError(t, l.Load(context.Background(), sampleTable(5)))

	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Equal(t, 3, tx.batches, "5 rows in batches of 2")
	require.Len(t, tx.queued, 5)
	assert.Nil(t, tx.queued[0][2], "null cells are sent as NULL")
	assert.Equal(t, int64(4), tx.queued[4][3])
	// create + one ALTER per column
	assert.Len(t, tx.execs, 5)
}

func TestLoader_Load_EmptyTable(t *testing.T) {
	db := &fakeDB{err: errors.New("must not connect")}
	require.NoError(t, NewLoader(db, "w", 10, discardLogger()).Load(context.Background(), domain.Table{}))
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		db      *fakeDB
		wantErr string
	}{
		{"begin", &fakeDB{err: errors.New("refused")}, "begin transaction"},
		{"ddl", &fakeDB{tx: &fakeTx{execErr: errors.New("denied")}}, "create table"},
		{"insert", &fakeDB{tx: &fakeTx{insertErr: errors.New("bad value")}}, "insert row 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLoader(tt.db, "w", 10, discardLogger()).Load(context.Background(), sampleTable(3))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.db.tx != nil {
				assert.True(t, tt.db.tx.rolledBack)
				assert.False(t, tt.db.tx.committed)
			}
		})
	}
}
