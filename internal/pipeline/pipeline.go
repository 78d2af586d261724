package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
	"github.com/couchcryptid/weather-data-etl/internal/observability"
)

// Pipeline stages, as reported by StageError.
const (
	StageExtract   = "extract"
	StageTransform = "transform"
	StageLoad      = "load"
)

// Extractor reads the raw observation table from the source.
type Extractor interface {
	Extract(ctx context.Context) (domain.Table, error)
}

// Transformer turns a raw table into the enriched table.
type Transformer interface {
	Transform(ctx context.Context, t domain.Table) (domain.Table, error)
}

// Loader writes the enriched table to the destination.
type Loader interface {
	Load(ctx context.Context, t domain.Table) error
}

// StageError records which stage aborted a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// Status summarizes the runs executed so far.
type Status struct {
	Runs          int64     `json:"runs"`
	Failures      int64     `json:"failures"`
	LastRunAt     time.Time `json:"last_run_at"`
	LastSuccessAt time.Time `json:"last_success_at"`
	LastRows      int       `json:"last_rows"`
	LastError     string    `json:"last_error,omitempty"`
}

// Pipeline runs extract, transform and load in sequence.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	ready       atomic.Bool

	mu     sync.Mutex
	status Status
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Status returns a snapshot of the run history.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run executes one ETL run when interval is zero and returns its error.
// Otherwise it repeats the run every interval until ctx is cancelled;
// a failed run is logged and the next tick tries again.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return p.RunOnce(ctx)
	}

	p.logger.Info("pipeline started", "interval", interval)
	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("run failed", "error", err)
		}
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// RunOnce performs a single extract-transform-load cycle and stops at the
// first failing stage. The returned error is a *StageError.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	start := p.clock.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	rows, err := p.run(ctx)
	p.record(start, rows, err)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(p.clock.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("run complete", "rows", rows, "duration", p.clock.Since(start))
	return nil
}

func (p *Pipeline) run(ctx context.Context) (int, error) {
	raw, err := p.extractor.Extract(ctx)
	if err != nil {
		return 0, p.fail(StageExtract, err)
	}
	p.metrics.RowsExtracted.Add(float64(raw.Len()))
	p.logger.Debug("extracted", "rows", raw.Len(), "columns", raw.NumCols())

	out, err := p.transformer.Transform(ctx, raw)
	if err != nil {
		for _, check := range failedChecks(err) {
			p.metrics.ValidationFailures.WithLabelValues(check).Inc()
		}
		return 0, p.fail(StageTransform, err)
	}

	if err := p.loader.Load(ctx, out); err != nil {
		return 0, p.fail(StageLoad, err)
	}
	p.metrics.RowsLoaded.Add(float64(out.Len()))
	return out.Len(), nil
}

func (p *Pipeline) fail(stage string, err error) error {
	p.metrics.StageErrors.WithLabelValues(stage).Inc()
	return &StageError{Stage: stage, Err: err}
}

func (p *Pipeline) record(start time.Time, rows int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Runs++
	p.status.LastRunAt = start
	if err != nil {
		p.status.Failures++
		p.status.LastError = err.Error()
		return
	}
	p.status.LastSuccessAt = start
	p.status.LastRows = rows
	p.status.LastError = ""
}

// failedChecks maps the typed validation errors inside err to check names.
func failedChecks(err error) []string {
	var checks []string
	walk(err, func(e error) {
		switch v := e.(type) {
		case *domain.SchemaError:
			checks = append(checks, domain.CheckSchema)
		case *domain.RangeError:
			if v.Field == domain.ColTemp {
				checks = append(checks, domain.CheckTemperature)
			} else {
				checks = append(checks, domain.CheckDateRange)
			}
		case *domain.ParseError:
			if v.Field == domain.ColDtISO {
				checks = append(checks, domain.CheckDateRange)
			}
		}
	})
	return checks
}

// walk visits err and every error it wraps, including joined errors.
func walk(err error, visit func(error)) {
	if err == nil {
		return
	}
	visit(err)
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			walk(e, visit)
		}
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	}
}
