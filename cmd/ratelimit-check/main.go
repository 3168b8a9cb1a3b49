package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
	"weather-dashboard/weathercode"
)

// slowProvider answers every lookup after a fixed delay and counts calls
type slowProvider struct {
	latency time.Duration
	calls   atomic.Int64
}

func (p *slowProvider) wait(ctx context.Context, what string) error {
	n := p.calls.Add(1)
	fmt.Printf("%s - upstream call #%d (%s)\n", time.Now().Format("15:04:05.000"), n, what)
	select {
	case <-time.After(p.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *slowProvider) Name() string { return "Slow" }

func (p *slowProvider) Search(ctx context.Context, name string) ([]models.Location, error) {
	if err := p.wait(ctx, "search "+name); err != nil {
		return nil, err
	}
	return []models.Location{{Name: name, Country: "Nowhere"}}, nil
}

func (p *slowProvider) CurrentWeather(ctx context.Context, coords models.Coordinates) (models.CurrentWeather, error) {
	if err := p.wait(ctx, "current"); err != nil {
		return models.CurrentWeather{}, err
	}
	return models.CurrentWeather{Temperature: 20, WeatherCode: 1, Weather: weathercode.Translate(1), WindSpeed: 2}, nil
}

func (p *slowProvider) DailyForecast(ctx context.Context, coords models.Coordinates) ([]models.ForecastDay, error) {
	if err := p.wait(ctx, "forecast"); err != nil {
		return nil, err
	}
	return nil, nil
}

func main() {
	// Parse command-line flags
	requestsPerSecond := flag.Float64("rps", 1.0, "Rate limit in requests per second")
	burstSize := flag.Int("burst", 3, "Maximum burst size")
	totalRequests := flag.Int("requests", 10, "Total number of searches to make")
	workers := flag.Int("concurrent", 5, "Number of concurrent workers")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	upstream := &slowProvider{latency: 200 * time.Millisecond}
	limited := datasource.NewRateLimitedProvider(upstream, *requestsPerSecond, *burstSize)

	fmt.Printf("Checking %s with %.2f req/s, burst %d, %d searches over %d workers\n",
		limited.Name(), *requestsPerSecond, *burstSize, *totalRequests, *workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	startTime := time.Now()

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range jobs {
				before := time.Now()
				_, err := limited.Search(ctx, fmt.Sprintf("City-%d", j))
				if err != nil {
					log.Printf("Worker %d - search %d failed: %v", worker, j, err)
					continue
				}
				log.Printf("Worker %d - search %d completed in %v", worker, j, time.Since(before))
			}
		}(w)
	}

	for j := 0; j < *totalRequests; j++ {
		jobs <- j
	}
	close(jobs)
	wg.Wait()

	totalTime := time.Since(startTime)
	actualRPS := float64(*totalRequests) / totalTime.Seconds()
	expectedMinTime := float64(*totalRequests-*burstSize) / *requestsPerSecond
	if expectedMinTime < 0 {
		expectedMinTime = 0
	}

	fmt.Printf("\nTotal time: %.2fs (theoretical minimum %.2fs)\n", totalTime.Seconds(), expectedMinTime)
	fmt.Printf("Observed rate: %.2f req/s, upstream calls: %d\n", actualRPS, upstream.calls.Load())

	if actualRPS > *requestsPerSecond*1.5 && *totalRequests > *burstSize {
		fmt.Println("WARNING: observed rate is well above the configured limit")
	} else {
		fmt.Println("Rate limiting is holding.")
	}
}
