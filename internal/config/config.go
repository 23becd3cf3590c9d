package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/google/uuid"

	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

// Sink types.
const (
	SinkShapefile = "shapefile"
	SinkSQLite    = "sqlite"
	SinkGeoJSON   = "geojson"
	SinkKafka     = "kafka"
	SinkMQTT      = "mqtt"
)

const (
	kafkaScheme     = "kafka://"
	mqttScheme      = "mqtt://"
	defaultMQTTPort = "1883"
)

// Config holds the settings for one run: the three positional arguments plus
// environment-driven options.
type Config struct {
	InputFolder      string
	OutputSpatialRef spatialref.SpatialRef
	OutputPath       string
	SinkType         string

	KafkaBrokers []string
	KafkaTopic   string

	MQTTBroker   string // tcp://host:port
	MQTTTopic    string
	MQTTClientID string

	Hemisphere domain.HemispherePolicy

	HTTPAddr        string // empty disables the metrics/health server
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// RunID identifies this run in logs and published message headers.
	RunID string
}

// Load builds a Config from the positional arguments
// (input folder, output spatial reference, output path) and the environment.
// Everything is validated before any input file is opened.
func Load(args []string) (*Config, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("expected 3 arguments (input folder, output spatial reference, output path), got %d", len(args))
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	hemisphere, err := domain.ParseHemispherePolicy(os.Getenv("HEMISPHERE_MODE"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEMISPHERE_MODE: %w", err)
	}

	ref, err := spatialref.Parse(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid output spatial reference: %w", err)
	}

	outputPath := strings.TrimSpace(args[2])
	sinkType, err := resolveSinkType(os.Getenv("SINK_TYPE"), outputPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputFolder:      strings.TrimSpace(args[0]),
		OutputSpatialRef: ref,
		OutputPath:       outputPath,
		SinkType:         sinkType,
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		Hemisphere:       hemisphere,
		HTTPAddr:         os.Getenv("HTTP_ADDR"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout:  shutdownTimeout,
		RunID:            uuid.NewString(),
	}
	switch sinkType {
	case SinkKafka:
		cfg.KafkaTopic = kafkaTopic(outputPath)
	case SinkMQTT:
		cfg.MQTTBroker, cfg.MQTTTopic, err = parseMQTTURL(outputPath)
		if err != nil {
			return nil, err
		}
		cfg.MQTTClientID = sharedcfg.EnvOrDefault("MQTT_CLIENT_ID", "argos-etl-"+cfg.RunID[:8])
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.InputFolder == "" {
		return errors.New("input folder is required")
	}
	info, err := os.Stat(c.InputFolder)
	if err != nil {
		return fmt.Errorf("input folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input folder %q is not a directory", c.InputFolder)
	}

	if c.OutputPath == "" {
		return errors.New("output path is required")
	}

	if c.SinkType == SinkKafka {
		if c.KafkaTopic == "" {
			return errors.New("kafka output requires a topic, e.g. kafka://argos-fixes")
		}
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for kafka output")
		}
		return nil
	}

	if c.SinkType == SinkMQTT {
		if c.MQTTTopic == "" {
			return errors.New("mqtt output requires a topic, e.g. mqtt://localhost:1883/argos/fixes")
		}
		return nil
	}

	parent := filepath.Dir(c.OutputPath)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory %q does not exist", parent)
	}
	return nil
}

// resolveSinkType returns the explicit SINK_TYPE when set, otherwise infers it
// from the output path.
func resolveSinkType(explicit, outputPath string) (string, error) {
	if explicit != "" {
		switch t := strings.ToLower(strings.TrimSpace(explicit)); t {
		case SinkShapefile, SinkSQLite, SinkGeoJSON, SinkKafka, SinkMQTT:
			return t, nil
		default:
			return "", fmt.Errorf("invalid SINK_TYPE %q", explicit)
		}
	}

	lower := strings.ToLower(outputPath)
	if strings.HasPrefix(lower, kafkaScheme) {
		return SinkKafka, nil
	}
	if strings.HasPrefix(lower, mqttScheme) {
		return SinkMQTT, nil
	}

	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".shp":
		return SinkShapefile, nil
	case ".sqlite", ".sqlite3", ".db":
		return SinkSQLite, nil
	case ".geojson", ".json":
		return SinkGeoJSON, nil
	default:
		return "", fmt.Errorf("cannot infer sink type from output path %q; set SINK_TYPE", outputPath)
	}
}

// kafkaTopic strips a kafka:// scheme in any letter case. A bare name is
// taken as the topic when SINK_TYPE=kafka is set explicitly.
func kafkaTopic(outputPath string) string {
	if strings.HasPrefix(strings.ToLower(outputPath), kafkaScheme) {
		return outputPath[len(kafkaScheme):]
	}
	return outputPath
}

// parseMQTTURL splits mqtt://host[:port]/topic into a paho broker address
// and a topic. The topic may contain slashes.
func parseMQTTURL(raw string) (broker, topic string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid mqtt output %q: %w", raw, err)
	}
	if u.Hostname() == "" {
		return "", "", fmt.Errorf("mqtt output %q has no broker host", raw)
	}
	port := u.Port()
	if port == "" {
		port = defaultMQTTPort
	}
	return "tcp://" + net.JoinHostPort(u.Hostname(), port), strings.TrimPrefix(u.Path, "/"), nil
}
