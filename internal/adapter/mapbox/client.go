package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
	"github.com/couchcryptid/weather-data-etl/internal/observability"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// breakerTripAfter consecutive failures open the circuit; it half-opens
// again after breakerCooldown.
const (
	breakerTripAfter = 5
	breakerCooldown  = 30 * time.Second
)

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[domain.GeocodingResult]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client. Requests go through a
// circuit breaker so an unreachable API fails fast for the rest of a run.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[domain.GeocodingResult](gobreaker.Settings{
		Name:        "mapbox",
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("geocoder circuit state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		breaker:    breaker,
		metrics:    metrics,
		logger:     logger,
	}
}

// ForwardGeocode resolves a city name to coordinates.
func (c *Client) ForwardGeocode(ctx context.Context, city string) (domain.GeocodingResult, error) {
	return c.geocode(ctx, "forward", url.PathEscape(city), "place,locality")
}

// ReverseGeocode converts coordinates to place details. The API takes the
// query as "lon,lat".
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	return c.geocode(ctx, "reverse", fmt.Sprintf("%.6f,%.6f", lon, lat), "place")
}

// geocode runs one lookup through the breaker and records its outcome.
func (c *Client) geocode(ctx context.Context, method, query, types string) (domain.GeocodingResult, error) {
	endpoint := c.endpoint(query, types)

	start := time.Now()
	result, err := c.breaker.Execute(func() (domain.GeocodingResult, error) {
		return c.fetch(ctx, endpoint)
	})
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		err = fmt.Errorf("%s geocode: %w", method, err)
	case result.FormattedAddress == "":
		outcome = "empty"
		c.logger.Debug("no geocoding match", "method", method, "query", query)
	}
	c.metrics.GeocodeRequests.WithLabelValues(method, outcome).Inc()
	return result, err
}

func (c *Client) endpoint(query, types string) string {
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {types},
	}
	return c.baseURL + "/" + query + ".json?" + params.Encode()
}

func (c *Client) fetch(ctx context.Context, endpoint string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}
	return payload.best(), nil
}

type response struct {
	Features []feature `json:"features"`
}

// best returns the top-ranked feature, or a zero result when none matched.
func (r response) best() domain.GeocodingResult {
	if len(r.Features) == 0 {
		return domain.GeocodingResult{}
	}
	f := r.Features[0]
	result := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		result.Lon, result.Lat = f.Center[0], f.Center[1]
	}
	return result
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
