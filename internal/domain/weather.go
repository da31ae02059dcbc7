package domain

import (
	"context"
	"time"
)

// WeatherSnapshot is the fixed-shape view of current conditions attached to
// each RegionImpact.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// DefaultWeatherSnapshot is used for regions the weather collaborator has no
// data for.
func DefaultWeatherSnapshot() WeatherSnapshot {
	return WeatherSnapshot{
		Temperature: 20,
		Condition:   "Unknown",
		Humidity:    50,
		WindSpeed:   10,
	}
}

// Forecast holds short human-readable outlooks for the next three days.
type Forecast struct {
	Today    string `json:"today"`
	Tomorrow string `json:"tomorrow"`
	DayAfter string `json:"day_after"`
}

// Observation is the full record returned by a WeatherProvider.
// Temperature is in °C, wind speed in km/h, visibility in km and rainfall in mm/h.
type Observation struct {
	Region      string    `json:"region"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Visibility  float64   `json:"visibility"`
	Rainfall    float64   `json:"rainfall"`
	Icon        string    `json:"icon"`
	Forecast    Forecast  `json:"forecast"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Snapshot projects the observation onto the aggregator's snapshot shape.
func (o Observation) Snapshot() WeatherSnapshot {
	return WeatherSnapshot{
		Temperature: o.Temperature,
		Condition:   o.Condition,
		Humidity:    o.Humidity,
		WindSpeed:   o.WindSpeed,
	}
}

// WeatherProvider fetches current conditions for a region.
type WeatherProvider interface {
	Current(ctx context.Context, region Region) (Observation, error)
}
