package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"weather-dashboard/models"
)

// CurrentFetcher fetches current conditions by city name
type CurrentFetcher interface {
	Current(ctx context.Context, city string) (models.CurrentWeather, error)
}

// Collector fetches the landing cards of many cities concurrently
type Collector struct {
	source       CurrentFetcher
	fetchTimeout time.Duration
}

// NewCollector creates a collector over source
func NewCollector(source CurrentFetcher) *Collector {
	return &Collector{
		source:       source,
		fetchTimeout: 10 * time.Second, // Default timeout
	}
}

// SetFetchTimeout changes the timeout for a single city's lookups
func (c *Collector) SetFetchTimeout(timeout time.Duration) {
	c.fetchTimeout = timeout
}

// Collect returns one card per city, in input order. A failed city yields a
// card with Loaded unset and the error text; failures are logged, not returned.
func (c *Collector) Collect(ctx context.Context, cities []models.City) []models.CityCard {
	cards := make([]models.CityCard, len(cities))

	var wg sync.WaitGroup
	for i, city := range cities {
		wg.Add(1)
		go func(i int, city models.City) {
			defer wg.Done()
			cards[i] = c.fetchOnce(ctx, city)
		}(i, city)
	}
	wg.Wait()

	return cards
}

// fetchOnce performs a single lookup for one city
func (c *Collector) fetchOnce(ctx context.Context, city models.City) models.CityCard {
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	card := models.CityCard{City: city.Name}
	current, err := c.source.Current(fetchCtx, city.Name)
	if err != nil {
		log.Printf("Error fetching weather for %s: %v", city.Name, err)
		card.Error = err.Error()
		return card
	}

	card.Loaded = true
	card.Current = &current
	return card
}
