package profile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefline/server/internal/lib/geo"
)

func TestWriteKML(t *testing.T) {
	elev := func(v float64) *float64 { return &v }
	series := Series{
		{Coordinate: geo.Point{Lat: 38.0678, Lng: -120.5396}, DistanceMeters: 0, Elevation: elev(420.5)},
		{Coordinate: geo.Point{Lat: 38.1074, Lng: -120.4565}, DistanceMeters: 11046, Elevation: elev(658.2)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, "Angels Camp to Murphys", series))

	out := buf.String()
	assert.Contains(t, out, "<name>Angels Camp to Murphys</name>")
	assert.Contains(t, out, "<LineString>")
	assert.Contains(t, out, "<tessellate>1</tessellate>")
	assert.Contains(t, out, "<altitudeMode>absolute</altitudeMode>")
	// Coordinates serialize as lon,lat,alt.
	assert.Contains(t, out, "-120.5396,38.0678,420.5")
	assert.Contains(t, out, "-120.4565,38.1074,658.2")
}

func TestWriteKML_UnsetElevation(t *testing.T) {
	series := Series{
		{Coordinate: geo.Point{Lat: 1, Lng: 2}, DistanceMeters: 0},
		{Coordinate: geo.Point{Lat: 3, Lng: 4}, DistanceMeters: 500},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, "partial", series))

	// Unset elevations fall back to sea level rather than breaking the
	// coordinate triplets.
	assert.Contains(t, buf.String(), "2,1,0")
	assert.Equal(t, 1, strings.Count(buf.String(), "<Placemark>"))
}
