package shapefile

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// Record is a point read back from a shapefile written by Sink.
type Record struct {
	TagID int64
	LC    string
	Date  string
	X, Y  float64
}

// Read returns every point record of the shapefile at path.
func Read(path string) ([]Record, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		fieldIdx[strings.TrimRight(f.String(), "\x00")] = i
	}

	var records []Record
	for reader.Next() {
		n, shape := reader.Shape()
		pt, ok := shape.(*shp.Point)
		if !ok {
			return nil, eris.Errorf("shapefile: record %d is %T, not a point", n, shape)
		}

		rec := Record{
			LC:   attribute(reader, fieldIdx, "LC"),
			Date: attribute(reader, fieldIdx, "Date"),
			X:    pt.X,
			Y:    pt.Y,
		}
		if tag := attribute(reader, fieldIdx, "TagID"); tag != "" {
			rec.TagID, err = strconv.ParseInt(tag, 10, 64)
			if err != nil {
				return nil, eris.Wrapf(err, "shapefile: record %d TagID", n)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func attribute(r *shp.Reader, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(r.Attribute(i), "\x00"))
}
