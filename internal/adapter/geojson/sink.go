// Package geojson streams fixes into a GeoJSON FeatureCollection.
package geojson

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

// NewFeature builds the GeoJSON feature for fix, with the point projected
// into ref.
func NewFeature(fix domain.NormalizedFix, ref spatialref.SpatialRef) *geojson.Feature {
	props := map[string]any{
		"tag_id": fix.TagID,
		"lc":     fix.LocationClass,
		"date":   fix.Timestamp,
	}
	if fix.Source != "" {
		props["source"] = fix.Source
	}
	if !fix.ProcessedAt.IsZero() {
		props["processed_at"] = fix.ProcessedAt.Format(time.RFC3339)
	}
	return &geojson.Feature{
		Geometry:   ref.Point(fix.Longitude, fix.Latitude),
		Properties: props,
	}
}

// Sink writes features as they arrive; the collection is closed by Close.
// Nothing is buffered beyond the file writer.
type Sink struct {
	file *os.File
	w    *bufio.Writer
	ref  spatialref.SpatialRef
	n    int
}

type crsMember struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// Create truncates path and writes the collection preamble. References
// other than WGS84 are declared with a legacy "crs" member.
func Create(path string, ref spatialref.SpatialRef) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geojson: create %s", path)
	}
	s := &Sink{file: f, w: bufio.NewWriter(f), ref: ref}

	if _, err := s.w.WriteString(`{"type":"FeatureCollection",`); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "geojson: write preamble")
	}
	if !ref.IsGeographic() {
		crs, err := json.Marshal(crsMember{Type: "name", Properties: map[string]string{"name": ref.URN()}})
		if err != nil {
			f.Close()
			return nil, eris.Wrap(err, "geojson: encode crs")
		}
		s.w.WriteString(`"crs":`)
		s.w.Write(crs)
		s.w.WriteByte(',')
	}
	if _, err := s.w.WriteString(`"features":[`); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "geojson: write preamble")
	}
	return s, nil
}

// Insert appends one feature.
func (s *Sink) Insert(_ context.Context, fix domain.NormalizedFix) error {
	data, err := json.Marshal(NewFeature(fix, s.ref))
	if err != nil {
		return eris.Wrapf(err, "geojson: encode tag %d", fix.TagID)
	}
	if s.n > 0 {
		if err := s.w.WriteByte(','); err != nil {
			return eris.Wrap(err, "geojson: write")
		}
	}
	if _, err := s.w.Write(data); err != nil {
		return eris.Wrapf(err, "geojson: write tag %d", fix.TagID)
	}
	s.n++
	return nil
}

// Close terminates the collection and closes the file.
func (s *Sink) Close() error {
	var errs []error
	if _, err := s.w.WriteString("]}\n"); err != nil {
		errs = append(errs, eris.Wrap(err, "geojson: write trailer"))
	}
	if err := s.w.Flush(); err != nil {
		errs = append(errs, eris.Wrap(err, "geojson: flush"))
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, eris.Wrap(err, "geojson: close"))
	}
	return errors.Join(errs...)
}
