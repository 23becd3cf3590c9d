package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/argos-etl/internal/adapter/geojson"
	"github.com/couchcryptid/argos-etl/internal/config"
	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

// Writer publishes each fix as a GeoJSON feature to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	ref    spatialref.SpatialRef
	runID  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured output topic.
// Messages are keyed by tag id so every fix of a tag lands on one partition
// in scan order.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		// Insert is synchronous per fix; a batch of one is flushed at once.
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Writer{writer: w, ref: cfg.OutputSpatialRef, runID: cfg.RunID, logger: logger}
}

// Insert serializes and publishes one fix.
func (w *Writer) Insert(ctx context.Context, fix domain.NormalizedFix) error {
	msg, err := serializeToMessage(fix, w.ref, w.runID)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish tag %d: %w", fix.TagID, err)
	}
	return nil
}

// Close flushes pending messages and logs the writer totals.
func (w *Writer) Close() error {
	stats := w.writer.Stats()
	w.logger.Info("kafka writer closed",
		"topic", stats.Topic,
		"messages", stats.Messages,
		"errors", stats.Errors,
	)
	return w.writer.Close()
}

// serializeToMessage marshals a fix into a Kafka message.
func serializeToMessage(fix domain.NormalizedFix, ref spatialref.SpatialRef, runID string) (kafkago.Message, error) {
	data, err := json.Marshal(geojson.NewFeature(fix, ref))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize fix: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(fix.TagID, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "lc", Value: []byte(fix.LocationClass)},
			{Key: "srid", Value: []byte(strconv.Itoa(ref.SRID()))},
			{Key: "processed_at", Value: []byte(fix.ProcessedAt.Format(time.RFC3339))},
			{Key: "run_id", Value: []byte(runID)},
		},
	}, nil
}
