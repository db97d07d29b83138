package domain

import "github.com/golang/geo/s2"

// EarthRadiusMeters is the spherical-earth approximation radius used for
// great-circle distances.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between two fixes in meters
func Distance(a, b Location) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// IsWithin reports whether a fix falls inside a geofence. In strict mode a
// low-accuracy or unknown-accuracy fix cannot confirm presence and the check
// fails closed.
func IsWithin(point Location, fence Geofence) bool {
	if fence.StrictMode {
		level := point.AccuracyLevel()
		if level == AccuracyLow || level == AccuracyUnknown {
			return false
		}
	}
	return Distance(point, fence.Center()) <= fence.Radius
}

// IsWithinAny reports whether a fix falls inside any of the given geofences.
// An empty fence list fails closed.
func IsWithinAny(point Location, fences []Geofence) bool {
	for _, fence := range fences {
		if IsWithin(point, fence) {
			return true
		}
	}
	return false
}
