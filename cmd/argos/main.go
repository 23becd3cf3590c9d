// Command argos converts a directory of ARGOS satellite telemetry dumps into
// point features in a spatial output.
//
// Usage:
//
//	argos <input-folder> <output-spatial-ref> <output-path>
//
// The output type follows the path extension (.shp, .sqlite, .geojson) or a
// kafka://topic or mqtt://host/topic URL, and can be forced with SINK_TYPE.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/argos-etl/internal/adapter/http"
	"github.com/couchcryptid/argos-etl/internal/config"
	"github.com/couchcryptid/argos-etl/internal/observability"
	"github.com/couchcryptid/argos-etl/internal/pipeline"
	"github.com/couchcryptid/argos-etl/internal/source"
)

// Metrics register with the default registry, which allows it only once per
// process.
var newMetrics = sync.OnceValue(observability.NewMetrics)

var rootCmd = &cobra.Command{
	Use:   "argos <input-folder> <output-spatial-ref> <output-path>",
	Short: "Convert ARGOS telemetry dumps into point features",
	Long: "Scans every file in the input folder (except README.txt) for ARGOS header/location pairs " +
		"and writes one point per fix to a shapefile, SQLite database, GeoJSON file or Kafka topic.",
	Example: "  argos ./dumps EPSG:4326 ./out/ARGOStrack.shp\n" +
		"  argos ./dumps 3857 ./out/fixes.sqlite\n" +
		"  KAFKA_BROKERS=localhost:9092 argos ./dumps 4326 kafka://argos-fixes",
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg).With("run_id", cfg.RunID)
	metrics := newMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, err := openSink(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open output %s: %w", cfg.OutputPath, err)
	}

	transformer := pipeline.NewTransformer(cfg.Hemisphere, logger)
	p := pipeline.New(source.NewDir(cfg.InputFolder), transformer, sink, logger, metrics)

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	logger.Info("run starting",
		"input", cfg.InputFolder,
		"output", cfg.OutputPath,
		"sink", cfg.SinkType,
		"spatial_ref", cfg.OutputSpatialRef.String(),
		"hemisphere_mode", cfg.Hemisphere.String(),
	)
	stats, runErr := p.Run(ctx)

	closeErr := sink.Close()
	if closeErr != nil {
		logger.Error("output close error", "error", closeErr)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("close output %s: %w", cfg.OutputPath, closeErr)
	}

	logger.Info("output written", "path", cfg.OutputPath, "fixes", stats.Fixes, "skipped", stats.Skipped())
	return nil
}
