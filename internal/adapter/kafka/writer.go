package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-data-etl/internal/config"
	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// MessageWriter is the subset of *kafkago.Writer used by Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes one message per observation row.
// It implements pipeline.Loader.
type Writer struct {
	writer    MessageWriter
	batchSize int
	logger    *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
	}
	return newWriter(w, cfg.BatchSize, logger)
}

func newWriter(w MessageWriter, batchSize int, logger *slog.Logger) *Writer {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Writer{writer: w, batchSize: batchSize, logger: logger}
}

// Load serializes every row and publishes them in WriteMessages calls of
// at most batchSize messages. Keys are city_name|dt_iso so all readings for
// a city land on one partition in order.
func (w *Writer) Load(ctx context.Context, t domain.Table) error {
	if t.Len() == 0 {
		return nil
	}
	for from := 0; from < t.Len(); from += w.batchSize {
		to := min(from+w.batchSize, t.Len())
		msgs := make([]kafkago.Message, 0, to-from)
		for i := from; i < to; i++ {
			msg, err := serializeRow(t.Row(i))
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write messages: %w", err)
		}
	}
	w.logger.Info("rows published", "rows", t.Len())
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeRow marshals one row into a Kafka message. Times are RFC 3339
// and nulls are JSON null.
func serializeRow(row map[string]any) (kafkago.Message, error) {
	doc := make(map[string]any, len(row))
	for k, v := range row {
		if ts, ok := v.(time.Time); ok {
			v = ts.UTC().Format(time.RFC3339)
		}
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}

	city := textOf(doc[domain.ColCityName])
	headers := []kafkago.Header{{Key: "city_name", Value: []byte(city)}}
	if processed, ok := doc[domain.ColProcessedAt].(string); ok {
		headers = append(headers, kafkago.Header{Key: "processed_at", Value: []byte(processed)})
	}
	return kafkago.Message{
		Key:     []byte(city + "|" + textOf(doc[domain.ColDtISO])),
		Value:   data,
		Headers: headers,
	}, nil
}

func textOf(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
