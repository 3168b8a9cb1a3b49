package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"weather-dashboard/models"

	"github.com/goccy/go-json"
)

type citiesResponse struct {
	Cities []models.CityCard `json:"cities"`
	Count  int               `json:"count"`
}

func main() {
	fmt.Println("Weather Dashboard Client")
	fmt.Println("========================")

	// Base URL for the API
	baseURL := flag.String("url", "http://localhost:8080", "Dashboard base URL")
	city := flag.String("city", "", "City to fetch a forecast for (default: first dashboard city)")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	// Get the dashboard cards
	fmt.Println("\nFetching dashboard cities...")
	var cities citiesResponse
	if err := getJSON(client, *baseURL+"/api/cities", &cities); err != nil {
		fmt.Printf("Error fetching cities: %v\n", err)
		os.Exit(1)
	}

	for _, card := range cities.Cities {
		if !card.Loaded || card.Current == nil {
			fmt.Printf("  %-16s unavailable (%s)\n", card.City, card.Error)
			continue
		}
		fmt.Printf("  %-16s %6.1f°C  %-32s %4.1f m/s\n",
			card.City, card.Current.Temperature, card.Current.Weather, card.Current.WindSpeed)
	}

	target, ok := pickCity(*city, cities)
	if !ok {
		fmt.Println("No cities configured.")
		return
	}

	// Get the forecast for the selected city
	fmt.Printf("\nFetching forecast for %s...\n", target)
	var forecast models.Forecast
	if err := getJSON(client, *baseURL+"/api/forecast/"+url.PathEscape(target), &forecast); err != nil {
		fmt.Printf("Error fetching forecast: %v\n", err)
		os.Exit(1)
	}

	// Pretty print the result
	prettyJSON, _ := json.MarshalIndent(forecast, "", "  ")
	fmt.Printf("\nForecast for %s:\n%s\n", target, string(prettyJSON))
}

// pickCity returns the requested city, or the first dashboard city when none was requested
func pickCity(requested string, cities citiesResponse) (string, bool) {
	if requested != "" {
		return requested, true
	}
	if len(cities.Cities) == 0 {
		return "", false
	}
	return cities.Cities[0].City, true
}

func getJSON(client *http.Client, endpoint string, out interface{}) error {
	resp, err := client.Get(endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
