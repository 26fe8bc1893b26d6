package geo

// Point represents a geographic coordinate in degrees (WGS84, no datum
// transformation applied).
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
