package domain

import "time"

// LocationSource identifies how a GPS fix was obtained
type LocationSource string

const (
	SourceGPS     LocationSource = "gps"
	SourceNetwork LocationSource = "network"
	SourceManual  LocationSource = "manual"
	SourceSystem  LocationSource = "system"
)

// AccuracyLevel buckets the reported accuracy of a fix
type AccuracyLevel string

const (
	AccuracyHigh    AccuracyLevel = "high"   // < 10m
	AccuracyMedium  AccuracyLevel = "medium" // 10-50m
	AccuracyLow     AccuracyLevel = "low"    // > 50m
	AccuracyUnknown AccuracyLevel = "unknown"
)

// Location is a single GPS fix reported by a worker's device
type Location struct {
	Latitude  float64        `bson:"latitude" json:"latitude"`
	Longitude float64        `bson:"longitude" json:"longitude"`
	Accuracy  float64        `bson:"accuracy" json:"accuracy"` // meters
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Source    LocationSource `bson:"source" json:"source"`
}

// AccuracyLevel derives the accuracy bucket from the reported accuracy in meters
func (l Location) AccuracyLevel() AccuracyLevel {
	switch {
	case l.Accuracy <= 0:
		return AccuracyUnknown
	case l.Accuracy < 10:
		return AccuracyHigh
	case l.Accuracy <= 50:
		return AccuracyMedium
	default:
		return AccuracyLow
	}
}

// Geofence is a named circular region used to test presence at a site
type Geofence struct {
	Name       string  `bson:"name" json:"name"`
	SiteID     string  `bson:"siteId" json:"siteId"`
	Latitude   float64 `bson:"latitude" json:"latitude"`
	Longitude  float64 `bson:"longitude" json:"longitude"`
	Radius     float64 `bson:"radius" json:"radius"` // meters
	StrictMode bool    `bson:"strictMode" json:"strictMode"`
}

// Center returns the fence center as a Location
func (g Geofence) Center() Location {
	return Location{Latitude: g.Latitude, Longitude: g.Longitude}
}
