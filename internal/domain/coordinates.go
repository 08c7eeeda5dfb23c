package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// LonLat renders "lon,lat" as expected in routing API path segments.
func (c Coordinates) LonLat() string {
	return fmt.Sprintf("%s,%s", formatDegrees(c.Lon), formatDegrees(c.Lat))
}

// Validate rejects NaN and out-of-range values.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("invalid latitude %v", c.Lat)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("invalid longitude %v", c.Lon)
	}
	return nil
}

func formatDegrees(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
