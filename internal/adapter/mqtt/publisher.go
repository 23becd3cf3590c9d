// Package mqtt publishes fixes as GeoJSON features to an MQTT topic.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/couchcryptid/argos-etl/internal/adapter/geojson"
	"github.com/couchcryptid/argos-etl/internal/config"
	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

const (
	// qos 1: the broker acknowledges every fix.
	qos            = 1
	publishTimeout = 10 * time.Second
	connectTimeout = 10 * time.Second
	quiesceMillis  = 250
)

var errTimeout = errors.New("timed out waiting for broker")

// Publisher implements pipeline.Sink over an MQTT connection.
type Publisher struct {
	client paho.Client
	topic  string
	ref    spatialref.SpatialRef
	logger *slog.Logger
	sent   int
}

// Connect dials the broker named in cfg and returns a Publisher for
// cfg.MQTTTopic.
func Connect(cfg *config.Config, logger *slog.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: %w", cfg.MQTTBroker, errTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.MQTTBroker, err)
	}
	logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "topic", cfg.MQTTTopic)

	return newPublisher(client, cfg.MQTTTopic, cfg.OutputSpatialRef, logger), nil
}

func newPublisher(client paho.Client, topic string, ref spatialref.SpatialRef, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, topic: topic, ref: ref, logger: logger}
}

// Insert publishes one fix and waits for the broker acknowledgement.
func (p *Publisher) Insert(ctx context.Context, fix domain.NormalizedFix) error {
	payload, err := json.Marshal(geojson.NewFeature(fix, p.ref))
	if err != nil {
		return fmt.Errorf("serialize fix: %w", err)
	}

	token := p.client.Publish(p.topic, qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish tag %d: %w", fix.TagID, errTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish tag %d: %w", fix.TagID, err)
	}
	p.sent++
	return nil
}

// Close disconnects after letting in-flight messages drain.
func (p *Publisher) Close() error {
	p.client.Disconnect(quiesceMillis)
	p.logger.Info("mqtt disconnected", "topic", p.topic, "messages", p.sent)
	return nil
}
