package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// Earth's radius in meters
const earthRadiusMeters = 6371000

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(lat, lng float64) (Point, error) {
	p := Point{Lat: lat, Lng: lng}
	if !isValidCoordinate(p) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return p, nil
}

// Distance calculates great-circle distance between two points in meters
// using the Haversine formula.
func Distance(a, b Point) float64 {
	// If points are the same, distance is 0
	if a.Lat == b.Lat && a.Lng == b.Lng {
		return 0
	}

	// Convert degrees to radians
	lat1 := a.Lat * math.Pi / 180
	lng1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lng2 := b.Lng * math.Pi / 180

	dlat := lat2 - lat1
	dlng := lng2 - lng1

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Interpolate returns count+1 evenly spaced points from a (t=0) to b (t=1)
// inclusive. Interpolation is linear in lat/lng space, which is adequate for
// the segment lengths a drawn line produces.
func Interpolate(a, b Point, count int) []Point {
	if count < 1 {
		count = 1
	}

	points := make([]Point, 0, count+1)
	for i := 0; i <= count; i++ {
		t := float64(i) / float64(count)
		points = append(points, Point{
			Lat: a.Lat + t*(b.Lat-a.Lat),
			Lng: a.Lng + t*(b.Lng-a.Lng),
		})
	}
	return points
}

// Midpoint returns the arithmetic midpoint of a and b in lat/lng space.
func Midpoint(a, b Point) Point {
	return Point{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}

// InterpolatePath distributes totalSamples across the segments of a
// multi-vertex path proportionally to each segment's great-circle length,
// interpolates each segment, and concatenates the results. The boundary
// point shared by consecutive segments is included once, attributed to the
// earlier segment's tail; the final vertex is always included.
//
// Every segment receives at least one sample, so the realized count can
// exceed totalSamples on paths with many short segments.
func InterpolatePath(vertices []Point, totalSamples int) []Point {
	if totalSamples < 1 {
		totalSamples = 1
	}
	if len(vertices) == 2 {
		return Interpolate(vertices[0], vertices[1], totalSamples)
	}

	segmentLengths := make([]float64, len(vertices)-1)
	totalLength := 0.0
	for i := 0; i < len(vertices)-1; i++ {
		segmentLengths[i] = Distance(vertices[i], vertices[i+1])
		totalLength += segmentLengths[i]
	}

	var out []Point
	for i, segmentLength := range segmentLengths {
		samples := 1
		if totalLength > 0 {
			samples = int(math.Round(float64(totalSamples) * segmentLength / totalLength))
			if samples < 1 {
				samples = 1
			}
		}

		points := Interpolate(vertices[i], vertices[i+1], samples)
		if i > 0 {
			// Segment start equals the previous segment's end.
			points = points[1:]
		}
		out = append(out, points...)
	}
	return out
}

// CumulativeDistances returns the along-path distance of each coordinate in
// meters, rounded to integers. Index 0 is always 0; index i is the rounded
// running sum of great-circle distances between consecutive coordinates.
func CumulativeDistances(coords []Point) []int {
	distances := make([]int, len(coords))
	sum := 0.0
	for i := 1; i < len(coords); i++ {
		sum += Distance(coords[i-1], coords[i])
		distances[i] = int(math.Round(sum))
	}
	return distances
}

// DecodePolyline decodes a Google-encoded polyline string to a point sequence.
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{Lat: coord[0], Lng: coord[1]}
		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return points, nil
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(p Point) bool {
	return p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}
