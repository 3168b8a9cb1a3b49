package datasource_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	mu       sync.Mutex
	searches int
	current  int
	daily    int
}

func (c *countingProvider) Name() string { return "Counting" }

func (c *countingProvider) Search(ctx context.Context, name string) ([]models.Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searches++
	return []models.Location{{Name: name}}, nil
}

func (c *countingProvider) CurrentWeather(ctx context.Context, coords models.Coordinates) (models.CurrentWeather, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current++
	return models.CurrentWeather{}, nil
}

func (c *countingProvider) DailyForecast(ctx context.Context, coords models.Coordinates) ([]models.ForecastDay, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.daily++
	return nil, nil
}

func TestRateLimitedProviderForwards(t *testing.T) {
	inner := &countingProvider{}
	limited := datasource.NewRateLimitedProvider(inner, 100, 10)

	ctx := context.Background()
	_, err := limited.Search(ctx, "Krasnodar")
	require.NoError(t, err)
	_, err = limited.CurrentWeather(ctx, models.Coordinates{})
	require.NoError(t, err)
	_, err = limited.DailyForecast(ctx, models.Coordinates{})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.searches)
	assert.Equal(t, 1, inner.current)
	assert.Equal(t, 1, inner.daily)
	assert.Equal(t, "Counting [Rate Limited]", limited.Name())
}

func TestRateLimitedProviderCanceledWait(t *testing.T) {
	inner := &countingProvider{}
	// one token per minute, burst of one: the second call has to wait
	limited := datasource.NewRateLimitedProvider(inner, 1.0/60, 1)

	_, err := limited.Search(context.Background(), "Vladivostok")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = limited.Search(ctx, "Vladivostok")
	require.Error(t, err)
	assert.Equal(t, 1, inner.searches, "upstream should only see the first call")
}
