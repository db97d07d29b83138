package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDistanceZero tests that a point is at zero distance from itself
func TestDistanceZero(t *testing.T) {
	a := Location{Latitude: 40.7128, Longitude: -74.006}
	assert.InDelta(t, 0, Distance(a, a), 0.001)
}

// TestDistanceSymmetry tests Distance(a, b) == Distance(b, a)
func TestDistanceSymmetry(t *testing.T) {
	a := Location{Latitude: 40.7128, Longitude: -74.006}
	b := Location{Latitude: 34.0522, Longitude: -118.2437}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 0.001)
}

// TestDistanceKnownPoints tests against a known great-circle distance
func TestDistanceKnownPoints(t *testing.T) {
	// New York City to Los Angeles is roughly 3,936 km on a spherical earth
	nyc := Location{Latitude: 40.7128, Longitude: -74.006}
	la := Location{Latitude: 34.0522, Longitude: -118.2437}
	d := Distance(nyc, la)
	assert.InDelta(t, 3936000, d, 10000)
}

// TestDistanceShortRange tests meter-scale separation
func TestDistanceShortRange(t *testing.T) {
	// Roughly 111m per 0.001 degrees of latitude
	a := Location{Latitude: 40.0, Longitude: -74.0}
	b := Location{Latitude: 40.001, Longitude: -74.0}
	d := Distance(a, b)
	assert.InDelta(t, 111, d, 1)
}

// TestAccuracyLevels tests accuracy bucketing
func TestAccuracyLevels(t *testing.T) {
	tests := []struct {
		accuracy float64
		expected AccuracyLevel
	}{
		{5, AccuracyHigh},
		{9.99, AccuracyHigh},
		{10, AccuracyMedium},
		{50, AccuracyMedium},
		{50.01, AccuracyLow},
		{120, AccuracyLow},
		{0, AccuracyUnknown},
		{-1, AccuracyUnknown},
	}

	for _, tt := range tests {
		loc := Location{Accuracy: tt.accuracy}
		assert.Equal(t, tt.expected, loc.AccuracyLevel(), "accuracy %.2f", tt.accuracy)
	}
}

// TestIsWithin tests point-in-circle containment
func TestIsWithin(t *testing.T) {
	fence := Geofence{SiteID: "SITE-A", Latitude: 40.0, Longitude: -74.0, Radius: 150}

	inside := Location{Latitude: 40.001, Longitude: -74.0, Accuracy: 5}
	outside := Location{Latitude: 40.01, Longitude: -74.0, Accuracy: 5}

	assert.True(t, IsWithin(inside, fence))
	assert.False(t, IsWithin(outside, fence))
}

// TestIsWithinStrictMode tests that strict fences reject untrusted fixes
func TestIsWithinStrictMode(t *testing.T) {
	fence := Geofence{SiteID: "SITE-A", Latitude: 40.0, Longitude: -74.0, Radius: 150, StrictMode: true}
	inside := Location{Latitude: 40.0, Longitude: -74.0, Timestamp: time.Now()}

	tests := []struct {
		name     string
		accuracy float64
		expected bool
	}{
		{"high accuracy passes", 5, true},
		{"medium accuracy passes", 30, true},
		{"low accuracy fails closed", 80, false},
		{"unknown accuracy fails closed", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := inside
			loc.Accuracy = tt.accuracy
			assert.Equal(t, tt.expected, IsWithin(loc, fence))
		})
	}
}

// TestIsWithinAny tests multi-fence containment and the empty-list case
func TestIsWithinAny(t *testing.T) {
	point := Location{Latitude: 40.0, Longitude: -74.0, Accuracy: 5}
	fences := []Geofence{
		{SiteID: "SITE-A", Latitude: 41.0, Longitude: -74.0, Radius: 100},
		{SiteID: "SITE-A", Latitude: 40.0, Longitude: -74.0, Radius: 100},
	}

	assert.True(t, IsWithinAny(point, fences))
	assert.False(t, IsWithinAny(point, nil))
	assert.False(t, IsWithinAny(point, []Geofence{}))
}

// BenchmarkDistance benchmarks the Haversine computation
func BenchmarkDistance(b *testing.B) {
	a := Location{Latitude: 40.7128, Longitude: -74.006}
	c := Location{Latitude: 34.0522, Longitude: -118.2437}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Distance(a, c)
	}
}
