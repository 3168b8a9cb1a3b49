package dashboard_test

import (
	"context"
	"errors"
	"sync"

	"weather-dashboard/models"
	"weather-dashboard/weathercode"
)

var errUpstream = errors.New("upstream unavailable")

func celsius(v float64) *float64 { return &v }

// fakeUpstream serves canned geocoding and weather data keyed by name and coordinates
type fakeUpstream struct {
	mu          sync.Mutex
	locations   map[string][]models.Location
	current     map[models.Coordinates]models.CurrentWeather
	daily       map[models.Coordinates][]models.ForecastDay
	geocodeErr  error
	weatherErr  error
	searches    []string
	weatherHits int
}

func newFakeUpstream() *fakeUpstream {
	moscow := models.Location{Name: "Moscow", Country: "Russia", Coordinates: models.Coordinates{Latitude: 55.75, Longitude: 37.62}}
	moscowUS := models.Location{Name: "Moscow", Country: "United States", Coordinates: models.Coordinates{Latitude: 46.73, Longitude: -117.0}}
	krasnodar := models.Location{Name: "Krasnodar", Country: "Russia", Coordinates: models.Coordinates{Latitude: 45.04, Longitude: 38.98}}

	return &fakeUpstream{
		locations: map[string][]models.Location{
			"Moscow":    {moscow, moscowUS},
			"Krasnodar": {krasnodar},
		},
		current: map[models.Coordinates]models.CurrentWeather{
			moscow.Coordinates:    {Temperature: -5.5, WeatherCode: 71, Weather: weathercode.Translate(71), WindSpeed: 3.1},
			moscowUS.Coordinates:  {Temperature: 12, WeatherCode: 0, Weather: weathercode.Translate(0), WindSpeed: 1},
			krasnodar.Coordinates: {Temperature: 8.2, WeatherCode: 2, Weather: weathercode.Translate(2), WindSpeed: 5.4},
		},
		daily: map[models.Coordinates][]models.ForecastDay{
			moscow.Coordinates: {
				{Date: "2024-01-15", TempMin: celsius(-8), TempMax: celsius(-2), WeatherCode: 3, Weather: "Overcast"},
				{Date: "2024-01-16", TempMin: celsius(-10), TempMax: celsius(-6), WeatherCode: 71, Weather: "Snow: Light"},
			},
		},
	}
}

func (f *fakeUpstream) Name() string { return "Fake" }

func (f *fakeUpstream) Search(_ context.Context, name string) ([]models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, name)
	if f.geocodeErr != nil {
		return nil, f.geocodeErr
	}
	return f.locations[name], nil
}

func (f *fakeUpstream) CurrentWeather(_ context.Context, coords models.Coordinates) (models.CurrentWeather, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weatherHits++
	if f.weatherErr != nil {
		return models.CurrentWeather{}, f.weatherErr
	}
	return f.current[coords], nil
}

func (f *fakeUpstream) DailyForecast(_ context.Context, coords models.Coordinates) ([]models.ForecastDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weatherHits++
	if f.weatherErr != nil {
		return nil, f.weatherErr
	}
	return f.daily[coords], nil
}

func (f *fakeUpstream) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}
