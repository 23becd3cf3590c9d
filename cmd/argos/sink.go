package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	geojsonsink "github.com/couchcryptid/argos-etl/internal/adapter/geojson"
	kafkaadapter "github.com/couchcryptid/argos-etl/internal/adapter/kafka"
	mqttadapter "github.com/couchcryptid/argos-etl/internal/adapter/mqtt"
	"github.com/couchcryptid/argos-etl/internal/adapter/shapefile"
	"github.com/couchcryptid/argos-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/argos-etl/internal/config"
	"github.com/couchcryptid/argos-etl/internal/pipeline"
)

// outputSink is a pipeline sink that owns an output handle.
type outputSink interface {
	pipeline.Sink
	io.Closer
}

// openSink creates the output selected by cfg.SinkType. Existing file
// outputs are replaced.
func openSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (outputSink, error) {
	switch cfg.SinkType {
	case config.SinkShapefile:
		return shapefile.Create(cfg.OutputPath, cfg.OutputSpatialRef)
	case config.SinkSQLite:
		return sqlite.Create(ctx, cfg.OutputPath, cfg.OutputSpatialRef)
	case config.SinkGeoJSON:
		return geojsonsink.Create(cfg.OutputPath, cfg.OutputSpatialRef)
	case config.SinkKafka:
		return kafkaadapter.NewWriter(cfg, logger), nil
	case config.SinkMQTT:
		return mqttadapter.Connect(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown sink type %q", cfg.SinkType)
	}
}
