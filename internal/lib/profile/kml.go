package profile

import (
	"io"

	"github.com/twpayne/go-kml/v2"
)

// WriteKML serializes series as a KML Placemark with an absolute-altitude
// LineString, suitable for dropping the sampled profile onto a map viewer.
// Points whose elevation is still unset are written at altitude 0.
func WriteKML(w io.Writer, name string, series Series) error {
	coords := make([]kml.Coordinate, len(series))
	for i, sp := range series {
		alt := 0.0
		if sp.Elevation != nil {
			alt = *sp.Elevation
		}
		coords[i] = kml.Coordinate{
			Lon: sp.Coordinate.Lng,
			Lat: sp.Coordinate.Lat,
			Alt: alt,
		}
	}

	doc := kml.KML(
		kml.Document(
			kml.Placemark(
				kml.Name(name),
				kml.LineString(
					kml.Tessellate(true),
					kml.AltitudeMode(kml.AltitudeModeAbsolute),
					kml.Coordinates(coords...),
				),
			),
		),
	)
	return doc.WriteIndent(w, "", "  ")
}
