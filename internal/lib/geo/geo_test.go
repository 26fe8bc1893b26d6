package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	// Highway 4 test coordinates: Angels Camp to Murphys (real route)
	angelscamp := Point{Lat: 38.0675, Lng: -120.5436}
	murphys := Point{Lat: 38.1391, Lng: -120.4561}

	distance := Distance(angelscamp, murphys)

	// Expected distance ~11.0 km between Angels Camp and Murphys
	assert.InDelta(t, 11046, distance, 100, "Distance should be approximately 11.0km")

	// One degree of longitude at the equator
	equator := Distance(Point{Lat: 0, Lng: 0}, Point{Lat: 0, Lng: 1})
	assert.InDelta(t, 111195, equator, 10, "1 degree of longitude at the equator should be ~111,195m")
}

func TestDistance_Properties(t *testing.T) {
	pairs := []struct{ a, b Point }{
		{Point{Lat: 38.0675, Lng: -120.5436}, Point{Lat: 38.1391, Lng: -120.4561}},
		{Point{Lat: 0, Lng: 0}, Point{Lat: 0, Lng: 1}},
		{Point{Lat: -45.5, Lng: 170.0}, Point{Lat: -45.6, Lng: 170.1}},
		{Point{Lat: 89.0, Lng: 10.0}, Point{Lat: 89.5, Lng: -170.0}},
	}

	for _, pair := range pairs {
		assert.Equal(t, 0.0, Distance(pair.a, pair.a), "Distance from a point to itself should be 0")
		assert.Equal(t, Distance(pair.a, pair.b), Distance(pair.b, pair.a), "Distance should be symmetric")
		assert.GreaterOrEqual(t, Distance(pair.a, pair.b), 0.0, "Distance should be non-negative")
	}
}

func TestInterpolate(t *testing.T) {
	a := Point{Lat: 38.0675, Lng: -120.5436}
	b := Point{Lat: 38.1391, Lng: -120.4561}

	points := Interpolate(a, b, 10)

	require.Len(t, points, 11, "count+1 points expected")
	assert.Equal(t, a, points[0], "First point should equal segment start")
	assert.Equal(t, b, points[10], "Last point should equal segment end")

	// Points progress monotonically along the segment
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].Lat, points[i-1].Lat)
		assert.Greater(t, points[i].Lng, points[i-1].Lng)
	}
}

func TestInterpolate_SinglePoint(t *testing.T) {
	a := Point{Lat: 1, Lng: 2}
	b := Point{Lat: 3, Lng: 4}

	points := Interpolate(a, b, 1)
	require.Len(t, points, 2)
	assert.Equal(t, a, points[0])
	assert.Equal(t, b, points[1])
}

func TestMidpoint(t *testing.T) {
	mid := Midpoint(Point{Lat: 0, Lng: 0}, Point{Lat: 0, Lng: 1})
	assert.Equal(t, Point{Lat: 0, Lng: 0.5}, mid)
}

func TestInterpolatePath_TwoVertices(t *testing.T) {
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 0, Lng: 1}

	// A two-vertex path delegates directly to Interpolate
	assert.Equal(t, Interpolate(a, b, 15), InterpolatePath([]Point{a, b}, 15))
}

func TestInterpolatePath_ProportionalDistribution(t *testing.T) {
	// Second segment is twice as long as the first; it should receive
	// roughly twice the samples.
	vertices := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: 3},
	}

	points := InterpolatePath(vertices, 15)

	// 15 samples over a 1:2 split rounds to 5 and 10, plus the start point,
	// with the shared boundary included exactly once.
	require.Len(t, points, 16)
	assert.Equal(t, vertices[0], points[0])
	assert.Equal(t, vertices[2], points[len(points)-1])

	// The shared vertex appears exactly once
	boundary := 0
	for _, p := range points {
		if p == vertices[1] {
			boundary++
		}
	}
	assert.Equal(t, 1, boundary, "Shared boundary point should be deduplicated")

	// Longitudes strictly increase along the path
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].Lng, points[i-1].Lng)
	}
}

func TestInterpolatePath_OverAllocatesShortSegments(t *testing.T) {
	// Many short segments each still get one sample, so the realized count
	// exceeds the request. Accepted behavior, not a defect.
	vertices := make([]Point, 9)
	for i := range vertices {
		vertices[i] = Point{Lat: 0, Lng: float64(i) * 0.001}
	}

	points := InterpolatePath(vertices, 4)
	assert.Greater(t, len(points), 4, "each segment keeps at least one sample")
	assert.Equal(t, vertices[len(vertices)-1], points[len(points)-1])
}

func TestCumulativeDistances(t *testing.T) {
	coords := Interpolate(Point{Lat: 0, Lng: 0}, Point{Lat: 0, Lng: 1}, 10)

	distances := CumulativeDistances(coords)

	require.Len(t, distances, len(coords))
	assert.Equal(t, 0, distances[0], "First element is always 0")

	// Non-decreasing
	for i := 1; i < len(distances); i++ {
		assert.GreaterOrEqual(t, distances[i], distances[i-1])
	}

	// Last element equals the sum of consecutive distances, within rounding
	sum := 0.0
	for i := 1; i < len(coords); i++ {
		sum += Distance(coords[i-1], coords[i])
	}
	assert.InDelta(t, sum, float64(distances[len(distances)-1]), 1.0)
	assert.Equal(t, int(math.Round(sum)), distances[len(distances)-1])
}

func TestCumulativeDistances_Empty(t *testing.T) {
	assert.Empty(t, CumulativeDistances(nil))
	assert.Equal(t, []int{0}, CumulativeDistances([]Point{{Lat: 1, Lng: 1}}))
}

func TestDecodePolyline(t *testing.T) {
	points, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	assert.Greater(t, len(points), 0, "Should decode to at least one point")

	for _, p := range points {
		assert.GreaterOrEqual(t, p.Lat, -90.0)
		assert.LessOrEqual(t, p.Lat, 90.0)
		assert.GreaterOrEqual(t, p.Lng, -180.0)
		assert.LessOrEqual(t, p.Lng, 180.0)
	}

	_, err = DecodePolyline("")
	assert.Error(t, err, "Should return error for empty polyline")
}

func TestNewPoint(t *testing.T) {
	_, err := NewPoint(38.0675, -120.5436)
	require.NoError(t, err)

	_, err = NewPoint(200, -300)
	assert.Error(t, err, "Should return error for invalid coordinates")
}
