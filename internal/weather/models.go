package weather

import (
	"time"
)

// Measurements is the snapshot a Station hands to its observers.
// Units: degrees Fahrenheit, percent relative humidity, inches of mercury.
type Measurements struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
}

// Reading is a Measurements value stamped with the time the station received it.
type Reading struct {
	Timestamp time.Time `json:"timestamp"` // always UTC
	Measurements
}

// Location represents the place a station polls external sources for.
// City/Country must be provided; Lat/Lon are optional.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for logging and indexing.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}
