package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/argos-etl/internal/config"
	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2023, 6, 30, 12, 0, 0, 0, time.UTC)
	fix := domain.NormalizedFix{
		TagID:         3884,
		LocationClass: "3",
		Timestamp:     "21/06/23 14:30:00",
		Latitude:      34.722,
		Longitude:     -76.677,
		ProcessedAt:   now,
	}

	msg, err := serializeToMessage(fix, spatialref.WGS84, "run-1")
	require.NoError(t, err)

	assert.Equal(t, []byte("3884"), msg.Key)
	require.Len(t, msg.Headers, 4)
	assert.Equal(t, "lc", msg.Headers[0].Key)
	assert.Equal(t, []byte("3"), msg.Headers[0].Value)
	assert.Equal(t, "srid", msg.Headers[1].Key)
	assert.Equal(t, []byte("4326"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
	assert.Equal(t, "run_id", msg.Headers[3].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[3].Value)

	var f geojson.Feature
	require.NoError(t, json.Unmarshal(msg.Value, &f))
	pt, ok := f.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.InDelta(t, -76.677, pt.X(), 1e-9)
	assert.InDelta(t, 34.722, pt.Y(), 1e-9)
	assert.Equal(t, "21/06/23 14:30:00", f.Properties["date"])
}

func TestSerializeToMessage_Projected(t *testing.T) {
	msg, err := serializeToMessage(domain.NormalizedFix{TagID: 1, Latitude: 10, Longitude: 20}, spatialref.WebMercator, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("3857"), msg.Headers[1].Value)

	var f geojson.Feature
	require.NoError(t, json.Unmarshal(msg.Value, &f))
	x, _ := spatialref.WebMercator.Project(20, 10)
	assert.InDelta(t, x, f.Geometry.(*geom.Point).X(), 1e-6)
}

func TestNewWriter_UsesConfig(t *testing.T) {
	w := NewWriter(&config.Config{
		KafkaBrokers:     []string{"broker1:9092"},
		KafkaTopic:       "argos-fixes",
		OutputSpatialRef: spatialref.WebMercator,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "argos-fixes", w.writer.Topic)
	assert.Equal(t, 1, w.writer.BatchSize)
	assert.Equal(t, 3857, w.ref.SRID())
}
