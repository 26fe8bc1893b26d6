package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/reliefline/server/internal/lib/geo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "point-distance":
		handlePointDistance()
	case "interpolate-path":
		handleInterpolatePath()
	case "decode-polyline":
		handleDecodePolyline()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handlePointDistance() {
	fs := flag.NewFlagSet("point-distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of first point")
	lng1 := fs.Float64("lng1", 0, "Longitude of first point")
	lat2 := fs.Float64("lat2", 0, "Latitude of second point")
	lng2 := fs.Float64("lng2", 0, "Longitude of second point")

	fs.Parse(os.Args[2:])

	a, err := geo.NewPoint(*lat1, *lng1)
	if err != nil {
		fmt.Printf("Invalid first point: %v\n", err)
		os.Exit(1)
	}
	b, err := geo.NewPoint(*lat2, *lng2)
	if err != nil {
		fmt.Printf("Invalid second point: %v\n", err)
		os.Exit(1)
	}

	meters := geo.Distance(a, b)
	fmt.Printf("Distance: %.1f m (%.3f km)\n", meters, meters/1000)
}

func handleInterpolatePath() {
	fs := flag.NewFlagSet("interpolate-path", flag.ExitOnError)
	pathStr := fs.String("path", "", "Semicolon-separated vertices, each lat,lng")
	samples := fs.Int("samples", 15, "Total samples to distribute along the path")

	fs.Parse(os.Args[2:])

	vertices, err := parsePath(*pathStr)
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		os.Exit(1)
	}
	if len(vertices) < 2 {
		fmt.Println("Path needs at least two vertices")
		os.Exit(1)
	}

	points := geo.InterpolatePath(vertices, *samples)
	distances := geo.CumulativeDistances(points)

	fmt.Printf("Interpolated %d points over %d vertices:\n", len(points), len(vertices))
	for i, p := range points {
		fmt.Printf("  %10dm  %12.6f, %12.6f\n", distances[i], p.Lat, p.Lng)
	}
}

func handleDecodePolyline() {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	encoded := fs.String("polyline", "", "Encoded polyline string")

	fs.Parse(os.Args[2:])

	if *encoded == "" {
		fmt.Println("A -polyline value is required")
		os.Exit(1)
	}

	points, err := geo.DecodePolyline(*encoded)
	if err != nil {
		fmt.Printf("Decode failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Decoded %d points:\n", len(points))
	for _, p := range points {
		fmt.Printf("  %12.6f, %12.6f\n", p.Lat, p.Lng)
	}
}

func parsePath(s string) ([]geo.Point, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	var vertices []geo.Point
	for _, part := range strings.Split(s, ";") {
		coords := strings.Split(strings.TrimSpace(part), ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("vertex %q is not lat,lng", part)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", part, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", part, err)
		}
		p, err := geo.NewPoint(lat, lng)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, p)
	}
	return vertices, nil
}

func printUsage() {
	fmt.Println("Geo Utilities Test Tool")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  point-distance    -lat1 -lng1 -lat2 -lng2    Haversine distance between two points")
	fmt.Println("  interpolate-path  -path \"lat,lng;lat,lng;...\" -samples N")
	fmt.Println("  decode-polyline   -polyline \"<encoded>\"")
	fmt.Println("  help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s point-distance -lat1=38.0674 -lng1=-120.5402 -lat2=38.1074 -lng2=-120.4565\n", os.Args[0])
	fmt.Printf("  %s interpolate-path -path \"0,0;0,1;0,3\" -samples 15\n", os.Args[0])
	fmt.Printf("  %s decode-polyline -polyline \"_p~iF~ps|U_ulLnnqC\"\n", os.Args[0])
}
