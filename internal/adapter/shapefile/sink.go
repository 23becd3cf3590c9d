// Package shapefile writes fixes to an ESRI point shapefile.
package shapefile

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/spatialref"
)

// Attribute columns, in dBASE field order.
const (
	fieldTagID = iota
	fieldLC
	fieldDate
)

var fields = []shp.Field{
	shp.NumberField("TagID", 10),
	shp.StringField("LC", 2),
	shp.StringField("Date", 20),
}

// Sink appends one point record per fix. Close must be called to flush the
// headers; a shapefile that was never closed is unreadable.
type Sink struct {
	base   string // path without the .shp extension
	ref    spatialref.SpatialRef
	writer *shp.Writer
}

// Create opens a new shapefile at path, replacing any existing one, and
// writes a .prj sidecar describing ref.
func Create(path string, ref spatialref.SpatialRef) (*Sink, error) {
	if !strings.EqualFold(filepath.Ext(path), ".shp") {
		path += ".shp"
	}
	base := path[:len(path)-len(".shp")]

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: create %s", path)
	}
	if err := w.SetFields(fields); err != nil {
		w.Close()
		return nil, eris.Wrap(err, "shapefile: set fields")
	}
	if err := os.WriteFile(base+".prj", []byte(ref.WKT()), 0o644); err != nil {
		w.Close()
		return nil, eris.Wrapf(err, "shapefile: write %s.prj", base)
	}

	return &Sink{base: base, ref: ref, writer: w}, nil
}

// Insert writes fix as a point projected into the sink's spatial reference.
func (s *Sink) Insert(_ context.Context, fix domain.NormalizedFix) error {
	if err := checkAttributes(fix); err != nil {
		return err
	}

	x, y := s.ref.Project(fix.Longitude, fix.Latitude)
	row := int(s.writer.Write(&shp.Point{X: x, Y: y}))

	if err := s.writer.WriteAttribute(row, fieldTagID, int(fix.TagID)); err != nil {
		return eris.Wrapf(err, "shapefile: write TagID for row %d", row)
	}
	if err := s.writer.WriteAttribute(row, fieldLC, fix.LocationClass); err != nil {
		return eris.Wrapf(err, "shapefile: write LC for row %d", row)
	}
	if err := s.writer.WriteAttribute(row, fieldDate, fix.Timestamp); err != nil {
		return eris.Wrapf(err, "shapefile: write Date for row %d", row)
	}
	return nil
}

// checkAttributes rejects values that do not fit their dBASE columns, so a
// rejected fix never leaves a geometry without attributes.
func checkAttributes(fix domain.NormalizedFix) error {
	values := [...]string{
		fieldTagID: strconv.FormatInt(fix.TagID, 10),
		fieldLC:    fix.LocationClass,
		fieldDate:  fix.Timestamp,
	}
	for i, v := range values {
		if size := int(fields[i].Size); len(v) > size {
			return eris.Errorf("shapefile: %s %q exceeds %d bytes for tag %d",
				strings.TrimRight(fields[i].String(), "\x00"), v, size, fix.TagID)
		}
	}
	return nil
}

// Close finalizes the .shp, .shx and .dbf headers.
func (s *Sink) Close() error {
	s.writer.Close()
	return nil
}

// Path returns the .shp path being written.
func (s *Sink) Path() string { return s.base + ".shp" }
