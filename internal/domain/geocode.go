package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// Geocoding enrichment columns.
const (
	ColFormattedAddress = "formatted_address"
	ColPlaceName        = "place_name"
	ColGeoConfidence    = "geo_confidence"
	ColGeoSource        = "geo_source"
)

// Values of geo_source.
const (
	GeoSourceForward  = "forward"
	GeoSourceReverse  = "reverse"
	GeoSourceOriginal = "original"
	GeoSourceFailed   = "failed"
)

type geoLookup struct {
	result GeocodingResult
	source string
}

// EnrichWithGeocoding adds place details to every row. Rows with
// coordinates are reverse geocoded; rows without are forward geocoded by
// city_name and get their lat/lon filled in. Each distinct location is
// looked up once. If geocoder is nil the table is returned unchanged; a
// failed lookup marks the affected rows with geo_source "failed" (graceful
// degradation).
func EnrichWithGeocoding(ctx context.Context, t Table, geocoder Geocoder, logger *slog.Logger) (Table, error) {
	if geocoder == nil {
		return t, nil
	}

	n := t.Len()
	lat, lon, city := column(t, ColLat), column(t, ColLon), column(t, ColCityName)
	seen := make(map[string]geoLookup)

	latCells, lonCells := make([]any, n), make([]any, n)
	address, place := make([]any, n), make([]any, n)
	confidence, source := make([]any, n), make([]any, n)

	for i := 0; i < n; i++ {
		la, okLat := floatAt(lat, i)
		lo, okLon := floatAt(lon, i)
		name, okName := stringAt(city, i)
		hasCoords := okLat && okLon && (la != 0 || lo != 0)
		if okLat {
			latCells[i] = la
		}
		if okLon {
			lonCells[i] = lo
		}

		var key string
		switch {
		case hasCoords:
			key = fmt.Sprintf("rev:%.6f,%.6f", la, lo)
		case okName && name != "":
			key = "fwd:" + name
		default:
			source[i] = GeoSourceOriginal
			continue
		}

		l, ok := seen[key]
		if !ok {
			if hasCoords {
				l = reverseLookup(ctx, geocoder, la, lo, logger)
			} else {
				l = forwardLookup(ctx, geocoder, name, logger)
			}
			seen[key] = l
		}

		source[i] = l.source
		switch l.source {
		case GeoSourceForward:
			latCells[i] = l.result.Lat
			lonCells[i] = l.result.Lon
		case GeoSourceReverse:
		default:
			continue
		}
		address[i] = l.result.FormattedAddress
		place[i] = l.result.PlaceName
		confidence[i] = l.result.Confidence
	}

	return t.With(
		NewColumn(ColLat, KindFloat, latCells),
		NewColumn(ColLon, KindFloat, lonCells),
		NewColumn(ColFormattedAddress, KindString, address),
		NewColumn(ColPlaceName, KindString, place),
		NewColumn(ColGeoConfidence, KindFloat, confidence),
		NewColumn(ColGeoSource, KindString, source),
	)
}

func forwardLookup(ctx context.Context, g Geocoder, city string, logger *slog.Logger) geoLookup {
	result, err := g.ForwardGeocode(ctx, city)
	if err != nil {
		logger.Warn("forward geocoding failed", "city", city, "error", err)
		return geoLookup{source: GeoSourceFailed}
	}
	if result.Lat != 0 || result.Lon != 0 {
		return geoLookup{result: result, source: GeoSourceForward}
	}
	return geoLookup{source: GeoSourceOriginal}
}

func reverseLookup(ctx context.Context, g Geocoder, lat, lon float64, logger *slog.Logger) geoLookup {
	result, err := g.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		logger.Warn("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		return geoLookup{source: GeoSourceFailed}
	}
	if result.FormattedAddress != "" {
		return geoLookup{result: result, source: GeoSourceReverse}
	}
	return geoLookup{source: GeoSourceOriginal}
}
