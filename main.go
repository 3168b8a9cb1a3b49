package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-dashboard/api"
	"weather-dashboard/cache"
	"weather-dashboard/configs"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/telemetry"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	configFile := flag.String("config", "dashboard.env", "Path to configuration file")
	port := flag.Int("port", 0, "Port to run the server on (overrides PORT)")
	flag.Parse()

	// Load configuration
	cfg, err := configs.LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}

	cities, err := configs.LoadCities(cfg.CitiesFile)
	if err != nil {
		return fmt.Errorf("failed to load cities: %w", err)
	}

	shutdownTracing, err := telemetry.SetTracing(cfg.ZipkinEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	var provider datasource.Provider = datasource.NewOpenMeteoProvider(datasource.OpenMeteoConfig{
		GeocodingURL: cfg.GeocodingURL,
		ForecastURL:  cfg.ForecastURL,
		ResultCount:  cfg.GeocodeResultCount,
		Timezone:     cfg.ForecastTimezone,
		Timeout:      cfg.HTTPTimeout,
	})

	// Apply rate limiting if enabled
	if cfg.RateLimitEnabled {
		provider = datasource.NewRateLimitedProvider(provider, cfg.RateLimitRPS, cfg.RateLimitBurst)
		log.Printf("Applied rate limiting to %s: %.1f req/s, burst %d", provider.Name(), cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	var geocoder datasource.Geocoder = provider

	if cfg.GeocodeCacheTTL > 0 {
		store, err := openStore(cfg.GeocodeCachePath)
		if err != nil {
			return fmt.Errorf("failed to open geocode cache: %w", err)
		}

		stopPrune := make(chan struct{})
		pruneDone := startPruning(store, cfg.GeocodeCacheTTL, pruneInterval(cfg.GeocodeCacheTTL), stopPrune)

		// runs after the server has shut down, so no lookup or prune still holds the store
		defer func() {
			close(stopPrune)
			<-pruneDone
			if err := store.Close(); err != nil {
				log.Printf("Error closing geocode cache: %v", err)
			}
		}()

		geocoder = cache.NewCachedGeocoder(provider, store, cfg.GeocodeCacheTTL)
		log.Printf("Caching geocoding results for %s", cfg.GeocodeCacheTTL)
	}

	service := dashboard.NewService(geocoder, provider, provider,
		dashboard.WithTracer(otel.Tracer(telemetry.ServiceName)),
		dashboard.WithMinQueryLength(cfg.AutocompleteMinChars),
	)
	collector := dashboard.NewCollector(service)
	collector.SetFetchTimeout(cfg.FetchTimeout)

	server, err := api.NewServer(service, collector, api.Config{
		Port:                 cfg.Port,
		Cities:               cities,
		AutocompleteDebounce: cfg.AutocompleteDebounce,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Set up channel for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server stopped: %v", err)
			shutdownChan <- syscall.SIGTERM
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdownChan
	fmt.Printf("Shutting down due to %s signal\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Error flushing traces: %v", err)
	}

	fmt.Println("Shutdown complete")
	return nil
}

// openStore returns a SQLite store when path is set, an in-memory one otherwise
func openStore(path string) (cache.Store, error) {
	if path == "" {
		return cache.NewMemoryStore(), nil
	}
	store, err := cache.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// pruneInterval is how often the cache is swept for a given ttl
func pruneInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return time.Minute
	}
	return ttl
}

// startPruning removes geocode entries older than ttl every interval until stop
// is closed. The returned channel is closed once the loop has exited, including
// any sweep that was running when stop closed.
func startPruning(store cache.Store, ttl, interval time.Duration, stop <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				removed, err := store.Prune(ctx, time.Now().Add(-ttl))
				cancel()
				if err != nil {
					log.Printf("Error pruning geocode cache: %v", err)
					continue
				}
				if removed > 0 {
					log.Printf("Pruned %d geocode cache entries", removed)
				}
			case <-stop:
				return
			}
		}
	}()

	return done
}
