package models

import "net/url"

// City is a display name used both as a route parameter and as a geocoding query
type City struct {
	Name string `json:"name" yaml:"name"`
}

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a single geocoding search result
type Location struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	CountryCode string      `json:"countryCode,omitempty"`
	Admin1      string      `json:"admin1,omitempty"`
	Timezone    string      `json:"timezone,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// Label returns the "Name, Country" form shown in autocomplete suggestions
func (l Location) Label() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// Suggestion is one autocomplete entry
type Suggestion struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// WeatherPath returns the forecast route for a city name
func WeatherPath(city string) string {
	return "/weather/" + url.PathEscape(city)
}

// NewSuggestion builds the autocomplete entry for a location
func NewSuggestion(l Location) Suggestion {
	label := l.Label()
	return Suggestion{Label: label, Href: WeatherPath(label)}
}
