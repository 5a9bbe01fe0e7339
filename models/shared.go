package models

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// HasCoordinates reports whether the point carries a usable lon/lat pair.
func (g GeoPoint) HasCoordinates() bool {
	return len(g.Coordinates) >= 2
}

// Lon returns the longitude component, or 0 when absent.
func (g GeoPoint) Lon() float64 {
	if !g.HasCoordinates() {
		return 0
	}
	return g.Coordinates[0]
}

// Lat returns the latitude component, or 0 when absent.
func (g GeoPoint) Lat() float64 {
	if !g.HasCoordinates() {
		return 0
	}
	return g.Coordinates[1]
}
