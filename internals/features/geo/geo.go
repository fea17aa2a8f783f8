// Package geo berisi perhitungan jarak great-circle dan aturan geofence cabang.
package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters adalah jari-jari rata-rata bumi.
	EarthRadiusMeters = 6_371_000.0

	// GeofenceRadiusMeters adalah radius kedekatan canvasser ke cabangnya.
	GeofenceRadiusMeters = 400.0
)

// Coordinate adalah pasangan lintang/bujur dalam derajat.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate menolak koordinat di luar rentang WGS84.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", c.Longitude)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// DistanceMeters menghitung jarak haversine antara a dan b.
// Input harus sudah lolos Validate.
func DistanceMeters(a, b Coordinate) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*sinLon*sinLon

	// floating error bisa membuat h sedikit keluar dari [0,1]
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius: batas inklusif, tepat 400m masih dianggap di dalam.
func WithinRadius(distanceMeters float64) bool {
	return distanceMeters <= GeofenceRadiusMeters
}
