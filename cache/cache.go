package cache

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"

	"golang.org/x/text/cases"
)

// CachedGeocoder wraps a Geocoder and adds caching functionality
type CachedGeocoder struct {
	source         datasource.Geocoder
	store          Store
	cacheDuration  time.Duration
	mutex          sync.Mutex
	cacheHitCount  int
	cacheMissCount int
	now            func() time.Time
}

// NewCachedGeocoder creates a new cached wrapper around a geocoder
func NewCachedGeocoder(source datasource.Geocoder, store Store, cacheDuration time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		source:        source,
		store:         store,
		cacheDuration: cacheDuration,
		now:           time.Now,
	}
}

// Key normalises a place name so "moscow " and "Moscow" share an entry
func Key(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Name returns the name of the underlying geocoder with [Cached] suffix
func (c *CachedGeocoder) Name() string {
	return c.source.Name() + " [Cached]"
}

// Search returns cached locations when fresh, otherwise queries the source.
// Empty results and errors are never cached.
func (c *CachedGeocoder) Search(ctx context.Context, name string) ([]models.Location, error) {
	key := Key(name)

	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		log.Printf("Geocode cache read for %q failed: %v", name, err)
	}

	if found && c.now().Sub(entry.StoredAt) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		log.Printf("Geocode cache HIT for %q (age: %s)", name, c.now().Sub(entry.StoredAt).Round(time.Second))
		return entry.Locations, nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	locations, err := c.source.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	if len(locations) > 0 {
		if err := c.store.Put(ctx, key, Entry{Locations: locations, StoredAt: c.now()}); err != nil {
			log.Printf("Geocode cache write for %q failed: %v", name, err)
		}
	}

	return locations, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedGeocoder) CacheStats() (hits, misses int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedGeocoder implements the Geocoder interface
var _ datasource.Geocoder = (*CachedGeocoder)(nil)
