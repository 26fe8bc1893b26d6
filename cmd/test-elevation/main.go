package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/reliefline/server/internal/clients/elevation"
	"github.com/reliefline/server/internal/lib/geo"
)

func main() {
	var (
		apiKey   = flag.String("api-key", "", "Elevation API key (or set ELEVATION_API_KEY env var)")
		startStr = flag.String("start", "38.067400,-120.540200", "Start coordinates (lat,lng)")
		endStr   = flag.String("end", "38.107400,-120.456500", "End coordinates (lat,lng)")
		samples  = flag.Int("samples", 15, "Number of samples along the line")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Elevation API Test Tool\n\n")
		fmt.Printf("Tests the elevation client against the real service.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -api-key=YOUR_KEY\n", os.Args[0])
		fmt.Printf("  %s -start=\"37.7749,-122.4194\" -end=\"34.0522,-118.2437\" -samples=30\n", os.Args[0])
		fmt.Printf("  ELEVATION_API_KEY=your_key %s\n", os.Args[0])
		return
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("ELEVATION_API_KEY")
	}
	if key == "" {
		log.Fatal("Elevation API key required. Use -api-key flag or ELEVATION_API_KEY env var")
	}

	var startLat, startLng, endLat, endLng float64
	if _, err := fmt.Sscanf(*startStr, "%f,%f", &startLat, &startLng); err != nil {
		log.Fatalf("Invalid start coordinates: %v", err)
	}
	if _, err := fmt.Sscanf(*endStr, "%f,%f", &endLat, &endLng); err != nil {
		log.Fatalf("Invalid end coordinates: %v", err)
	}

	start, err := geo.NewPoint(startLat, startLng)
	if err != nil {
		log.Fatalf("Invalid start point: %v", err)
	}
	end, err := geo.NewPoint(endLat, endLng)
	if err != nil {
		log.Fatalf("Invalid end point: %v", err)
	}

	fmt.Printf("Elevation API Test\n")
	fmt.Printf("==================\n")
	fmt.Printf("Start: %.6f, %.6f\n", start.Lat, start.Lng)
	fmt.Printf("End:   %.6f, %.6f\n", end.Lat, end.Lng)
	fmt.Printf("Samples: %d\n", *samples)
	fmt.Printf("\n")

	coords := geo.Interpolate(start, end, *samples)
	distances := geo.CumulativeDistances(coords)

	client := elevation.NewClient(key)

	fmt.Printf("Testing FetchElevations...\n")
	elevations, err := client.FetchElevations(context.Background(), coords)
	if err != nil {
		log.Fatalf("FetchElevations failed: %v", err)
	}

	fmt.Printf("✅ FetchElevations successful!\n\n")
	fmt.Printf("%10s  %12s  %12s  %10s\n", "dist (m)", "lat", "lng", "elev (m)")
	for i, c := range coords {
		if elevations[i] == nil {
			fmt.Printf("%10d  %12.6f  %12.6f  %10s\n", distances[i], c.Lat, c.Lng, "n/a")
			continue
		}
		fmt.Printf("%10d  %12.6f  %12.6f  %10.1f\n", distances[i], c.Lat, c.Lng, *elevations[i])
	}

	fmt.Printf("\n🎉 Elevation API test passed!\n")
}
