package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// Supported sinks.
const (
	SinkPostgres = "postgres"
	SinkKafka    = "kafka"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all service settings, populated from environment variables.
type Config struct {
	CSVFilePath        string
	TemperatureUnit    domain.TemperatureUnit
	TemperatureColumns []string

	Sink           string
	DatabaseURL    string
	DatabaseTable  string
	KafkaBrokers   []string
	KafkaSinkTopic string
	BatchSize      int

	// RunInterval repeats the ETL run; zero runs once and exits.
	RunInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is read first; it never
// overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	unit, err := domain.ParseTemperatureUnit(sharedcfg.EnvOrDefault("TEMPERATURE_UNIT", "kelvin"))
	if err != nil {
		return nil, fmt.Errorf("TEMPERATURE_UNIT: %w", err)
	}

	runInterval, err := parseDuration("RUN_INTERVAL", "0s", true)
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		CSVFilePath:        os.Getenv("CSV_FILE_PATH"),
		TemperatureUnit:    unit,
		TemperatureColumns: parseList(sharedcfg.EnvOrDefault("TEMPERATURE_COLUMNS", strings.Join(domain.DefaultTemperatureColumns, ","))),

		Sink:           strings.ToLower(sharedcfg.EnvOrDefault("SINK", SinkPostgres)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseTable:  sharedcfg.EnvOrDefault("DATABASE_TABLE", "weather_observations"),
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "weather-observations"),
		BatchSize:      batchSize,
		RunInterval:    runInterval,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CSVFilePath == "" {
		return errors.New("CSV_FILE_PATH is required")
	}
	if len(c.TemperatureColumns) == 0 {
		return errors.New("TEMPERATURE_COLUMNS must name at least one column")
	}
	switch c.Sink {
	case SinkPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when SINK=postgres")
		}
		if !identifierRe.MatchString(c.DatabaseTable) {
			return fmt.Errorf("invalid DATABASE_TABLE %q", c.DatabaseTable)
		}
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when SINK=kafka")
		}
		if c.KafkaSinkTopic == "" {
			return errors.New("KAFKA_SINK_TOPIC is required when SINK=kafka")
		}
	default:
		return fmt.Errorf("invalid SINK %q: want %s or %s", c.Sink, SinkPostgres, SinkKafka)
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	return nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
