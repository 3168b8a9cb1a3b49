package datasource

import (
	"context"
	"fmt"

	"weather-dashboard/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a Provider with rate limiting. Geocoding and forecast
// calls go to different hosts, so each gets its own limiter.
type RateLimitedProvider struct {
	provider        Provider
	geocodeLimiter  *rate.Limiter
	forecastLimiter *rate.Limiter
	name            string
}

// NewRateLimitedProvider creates a rate limited provider
// rps is the maximum requests per second allowed per upstream host (can be fractional)
// burst is the maximum burst size allowed
func NewRateLimitedProvider(provider Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider:        provider,
		geocodeLimiter:  rate.NewLimiter(rate.Limit(rps), burst),
		forecastLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:            fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// Search implements Geocoder with rate limiting
func (r *RateLimitedProvider) Search(ctx context.Context, name string) ([]models.Location, error) {
	if err := r.geocodeLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.Search(ctx, name)
}

// CurrentWeather implements CurrentSource with rate limiting
func (r *RateLimitedProvider) CurrentWeather(ctx context.Context, coords models.Coordinates) (models.CurrentWeather, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return models.CurrentWeather{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.CurrentWeather(ctx, coords)
}

// DailyForecast implements ForecastSource with rate limiting
func (r *RateLimitedProvider) DailyForecast(ctx context.Context, coords models.Coordinates) ([]models.ForecastDay, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.DailyForecast(ctx, coords)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

var _ Provider = (*RateLimitedProvider)(nil)
