// Package spatialref resolves the output spatial reference of a run and
// projects WGS84 fixes into it.
//
// Only the references ARGOS outputs are routinely delivered in are supported:
// geographic WGS84 (EPSG:4326), Web Mercator (EPSG:3857) and World Equidistant
// Cylindrical (ESRI:54002).
package spatialref

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// WGS84 ellipsoid.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563
	eccSquared    = flattening * (2 - flattening)

	// maxMercatorLat is the latitude at which Web Mercator becomes square.
	maxMercatorLat = 85.05112877980659
)

const geogcsWGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// SpatialRef is a supported coordinate reference system.
type SpatialRef struct {
	Authority string // "EPSG" or "ESRI"
	Code      int
	Name      string
	wkt       string
	project   func(lon, lat float64) (x, y float64)
}

var (
	// WGS84 is the geographic reference ARGOS fixes are reported in.
	WGS84 = SpatialRef{
		Authority: "EPSG",
		Code:      4326,
		Name:      "GCS_WGS_1984",
		wkt:       geogcsWGS84,
		project:   func(lon, lat float64) (float64, float64) { return lon, lat },
	}

	// WebMercator is the spherical Mercator used by web maps.
	WebMercator = SpatialRef{
		Authority: "EPSG",
		Code:      3857,
		Name:      "WGS_1984_Web_Mercator_Auxiliary_Sphere",
		wkt: `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",` + geogcsWGS84 +
			`,PROJECTION["Mercator_Auxiliary_Sphere"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],` +
			`PARAMETER["Central_Meridian",0.0],PARAMETER["Standard_Parallel_1",0.0],PARAMETER["Auxiliary_Sphere_Type",0.0],UNIT["Meter",1.0]]`,
		project: webMercator,
	}

	// EquidistantCylindrical is ESRI's World Equidistant Cylindrical.
	EquidistantCylindrical = SpatialRef{
		Authority: "ESRI",
		Code:      54002,
		Name:      "World_Equidistant_Cylindrical",
		wkt: `PROJCS["World_Equidistant_Cylindrical",` + geogcsWGS84 +
			`,PROJECTION["Equidistant_Cylindrical"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],` +
			`PARAMETER["Central_Meridian",0.0],PARAMETER["Standard_Parallel_1",0.0],UNIT["Meter",1.0]]`,
		project: equidistantCylindrical,
	}
)

var byCode = map[int]SpatialRef{
	WGS84.Code:                  WGS84,
	WebMercator.Code:            WebMercator,
	EquidistantCylindrical.Code: EquidistantCylindrical,
}

// Parse resolves a spatial reference from a bare code ("3857") or an
// AUTHORITY:CODE string ("EPSG:4326", "esri:54002").
func Parse(s string) (SpatialRef, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return SpatialRef{}, fmt.Errorf("empty spatial reference")
	}

	authority, codeStr, hasAuthority := strings.Cut(raw, ":")
	if !hasAuthority {
		codeStr = authority
		authority = ""
	}

	code, err := strconv.Atoi(strings.TrimSpace(codeStr))
	if err != nil {
		return SpatialRef{}, fmt.Errorf("invalid spatial reference %q: %w", s, err)
	}

	ref, ok := byCode[code]
	if !ok {
		return SpatialRef{}, fmt.Errorf("unsupported spatial reference %q", s)
	}
	if authority != "" && !strings.EqualFold(strings.TrimSpace(authority), ref.Authority) {
		return SpatialRef{}, fmt.Errorf("unsupported spatial reference %q: code %d is %s", s, code, ref)
	}
	return ref, nil
}

// SRID returns the numeric code, used as the SRID of encoded geometries.
func (r SpatialRef) SRID() int { return r.Code }

// IsZero reports whether r is the zero value.
func (r SpatialRef) IsZero() bool { return r.project == nil }

// IsGeographic reports whether coordinates are in degrees.
func (r SpatialRef) IsGeographic() bool { return r.Code == WGS84.Code }

func (r SpatialRef) String() string {
	return r.Authority + ":" + strconv.Itoa(r.Code)
}

// URN returns the OGC URN used in legacy GeoJSON "crs" members.
func (r SpatialRef) URN() string {
	return fmt.Sprintf("urn:ogc:def:crs:%s::%d", r.Authority, r.Code)
}

// WKT returns the ESRI-flavoured WKT written to .prj sidecar files.
func (r SpatialRef) WKT() string { return r.wkt }

// Project converts a WGS84 longitude/latitude to coordinates in r.
func (r SpatialRef) Project(lon, lat float64) (x, y float64) {
	if r.project == nil {
		return lon, lat
	}
	return r.project(lon, lat)
}

// Point projects a WGS84 longitude/latitude into r and returns it as an XY
// point tagged with r's SRID.
func (r SpatialRef) Point(lon, lat float64) *geom.Point {
	x, y := r.Project(lon, lat)
	return geom.NewPointFlat(geom.XY, []float64{x, y}).SetSRID(r.SRID())
}

func webMercator(lon, lat float64) (float64, float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	x := semiMajorAxis * radians(lon)
	y := semiMajorAxis * math.Log(math.Tan(math.Pi/4+radians(lat)/2))
	return x, y
}

// equidistantCylindrical is the ellipsoidal form with the standard parallel on
// the equator: x is the equatorial arc, y the meridian arc length.
func equidistantCylindrical(lon, lat float64) (float64, float64) {
	return semiMajorAxis * radians(lon), meridianArc(radians(lat))
}

func meridianArc(phi float64) float64 {
	e2 := eccSquared
	e4 := e2 * e2
	e6 := e4 * e2
	return semiMajorAxis * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
