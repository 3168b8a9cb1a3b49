package models

import (
	"time"
)

// CurrentWeather represents the current conditions at a city's coordinates
type CurrentWeather struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"` // in Celsius
	WeatherCode int       `json:"weatherCode"`
	Weather     string    `json:"weather"`   // translated condition label
	WindSpeed   float64   `json:"windSpeed"` // in m/s
	Timestamp   time.Time `json:"timestamp"` // observation time reported upstream
}

// CityCard is the landing page view of one city
type CityCard struct {
	City    string          `json:"city"`
	Loaded  bool            `json:"loaded"`
	Current *CurrentWeather `json:"current,omitempty"`
	Error   string          `json:"error,omitempty"`
}
