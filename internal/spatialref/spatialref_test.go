package spatialref

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"4326", 4326, false},
		{"EPSG:4326", 4326, false},
		{"epsg:3857", 3857, false},
		{" 3857 ", 3857, false},
		{"54002", 54002, false},
		{"ESRI:54002", 54002, false},
		{"EPSG:54002", 0, true},
		{"ESRI:4326", 0, true},
		{"32617", 0, true},
		{"EPSG:abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref.SRID())
			assert.False(t, ref.IsZero())
		})
	}
}

func TestWGS84_IsIdentity(t *testing.T) {
	x, y := WGS84.Project(-76.677, 34.722)
	assert.Equal(t, -76.677, x)
	assert.Equal(t, 34.722, y)
	assert.True(t, WGS84.IsGeographic())
	assert.Equal(t, "EPSG:4326", WGS84.String())
}

func TestWebMercator(t *testing.T) {
	x, y := WebMercator.Project(0, 0)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x, _ = WebMercator.Project(180, 0)
	assert.InDelta(t, 20037508.342789244, x, 1e-6)

	// Poles are clamped so the square extent holds.
	_, y = WebMercator.Project(0, 90)
	assert.InDelta(t, 20037508.342789244, y, 1e-3)
	assert.False(t, math.IsInf(y, 0))

	_, yS := WebMercator.Project(0, -45)
	_, yN := WebMercator.Project(0, 45)
	assert.InDelta(t, -yN, yS, 1e-6)
}

func TestEquidistantCylindrical(t *testing.T) {
	x, y := EquidistantCylindrical.Project(180, 0)
	assert.InDelta(t, math.Pi*6378137.0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-9)

	// Quarter meridian of the WGS84 ellipsoid.
	_, y = EquidistantCylindrical.Project(0, 90)
	assert.InDelta(t, 10001965.729, y, 0.01)
	assert.False(t, EquidistantCylindrical.IsGeographic())
}

func TestURNAndWKT(t *testing.T) {
	assert.Equal(t, "urn:ogc:def:crs:EPSG::3857", WebMercator.URN())
	assert.Equal(t, "urn:ogc:def:crs:ESRI::54002", EquidistantCylindrical.URN())
	assert.Contains(t, WGS84.WKT(), `GEOGCS["GCS_WGS_1984"`)
	assert.Contains(t, WebMercator.WKT(), "Mercator_Auxiliary_Sphere")
	assert.Contains(t, EquidistantCylindrical.WKT(), "Equidistant_Cylindrical")
}

func TestZeroValueProjectsAsIdentity(t *testing.T) {
	var ref SpatialRef
	assert.True(t, ref.IsZero())
	x, y := ref.Project(1, 2)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 2.0, y)
}

func TestPoint(t *testing.T) {
	p := WebMercator.Point(-76.677, 34.722)
	assert.Equal(t, 3857, p.SRID())

	x, y := WebMercator.Project(-76.677, 34.722)
	assert.InDelta(t, x, p.X(), 1e-9)
	assert.InDelta(t, y, p.Y(), 1e-9)

	g := WGS84.Point(-76.677, 34.722)
	assert.Equal(t, 4326, g.SRID())
	assert.InDelta(t, -76.677, g.X(), 0)
	assert.InDelta(t, 34.722, g.Y(), 0)
}
