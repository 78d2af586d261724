package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// WeatherTransformer implements Transformer using the domain transform
// with optional geocoding enrichment.
type WeatherTransformer struct {
	opts     domain.TransformOptions
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a WeatherTransformer. Pass a nil geocoder to
// disable geocoding enrichment.
func NewTransformer(opts domain.TransformOptions, geocoder domain.Geocoder, logger *slog.Logger) *WeatherTransformer {
	return &WeatherTransformer{
		opts:     opts,
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *WeatherTransformer) Transform(ctx context.Context, raw domain.Table) (domain.Table, error) {
	out, err := domain.Transform(raw, t.opts)
	if err != nil {
		return domain.Table{}, err
	}

	if out, err = domain.EnrichWithGeocoding(ctx, out, t.geocoder, t.logger); err != nil {
		return domain.Table{}, err
	}
	if out, err = domain.StampProcessedAt(out); err != nil {
		return domain.Table{}, err
	}

	t.logger.Debug("transformed", "rows", out.Len(), "columns", out.NumCols(), "unit", t.opts.Unit)
	return out, nil
}
