package datasource

import (
	"context"

	"weather-dashboard/models"
)

// Geocoder resolves a place name to candidate locations
type Geocoder interface {
	// Search returns the locations matching name, best match first
	Search(ctx context.Context, name string) ([]models.Location, error)

	// Name returns the geocoder's name
	Name() string
}

// CurrentSource fetches current conditions at a coordinate pair
type CurrentSource interface {
	CurrentWeather(ctx context.Context, coords models.Coordinates) (models.CurrentWeather, error)
	Name() string
}

// ForecastSource fetches a multi-day daily forecast at a coordinate pair
type ForecastSource interface {
	DailyForecast(ctx context.Context, coords models.Coordinates) ([]models.ForecastDay, error)
	Name() string
}

// Provider is an upstream that can serve every lookup the dashboard needs
type Provider interface {
	Geocoder
	CurrentSource
	ForecastSource
}
