package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-dashboard/models"
	"weather-dashboard/weathercode"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1"
	DefaultForecastURL  = "https://api.open-meteo.com/v1"
	DefaultResultCount  = 10
	DefaultTimezone     = "GMT"

	// open-meteo reports times without a zone offset
	openMeteoTimeLayout = "2006-01-02T15:04"
)

// OpenMeteoConfig configures an OpenMeteoProvider. Zero values fall back to defaults.
type OpenMeteoConfig struct {
	GeocodingURL string
	ForecastURL  string
	ResultCount  int
	Timezone     string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// OpenMeteoProvider implements Geocoder, CurrentSource and ForecastSource
// against the public open-meteo endpoints
type OpenMeteoProvider struct {
	geocodingURL string
	forecastURL  string
	resultCount  int
	timezone     string
	httpClient   *http.Client
}

// NewOpenMeteoProvider creates a new open-meteo provider
func NewOpenMeteoProvider(cfg OpenMeteoConfig) *OpenMeteoProvider {
	p := &OpenMeteoProvider{
		geocodingURL: strings.TrimRight(cfg.GeocodingURL, "/"),
		forecastURL:  strings.TrimRight(cfg.ForecastURL, "/"),
		resultCount:  cfg.ResultCount,
		timezone:     cfg.Timezone,
		httpClient:   cfg.HTTPClient,
	}
	if p.geocodingURL == "" {
		p.geocodingURL = DefaultGeocodingURL
	}
	if p.forecastURL == "" {
		p.forecastURL = DefaultForecastURL
	}
	if p.resultCount <= 0 {
		p.resultCount = DefaultResultCount
	}
	if p.timezone == "" {
		p.timezone = DefaultTimezone
	}
	if p.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		p.httpClient = &http.Client{Timeout: timeout}
	}
	return p
}

// Name returns the provider name
func (p *OpenMeteoProvider) Name() string {
	return "OpenMeteo"
}

type geocodingResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Admin1      string  `json:"admin1"`
		Timezone    string  `json:"timezone"`
	} `json:"results"`
}

// Search queries the geocoding endpoint by name. A response without results
// yields an empty slice and no error.
func (p *OpenMeteoProvider) Search(ctx context.Context, name string) ([]models.Location, error) {
	params := url.Values{}
	params.Add("name", name)
	params.Add("count", strconv.Itoa(p.resultCount))

	var response geocodingResponse
	if err := p.getJSON(ctx, p.geocodingURL+"/search", params, &response); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", name, err)
	}

	locations := make([]models.Location, 0, len(response.Results))
	for _, r := range response.Results {
		locations = append(locations, models.Location{
			Name:        r.Name,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Admin1:      r.Admin1,
			Timezone:    r.Timezone,
			Coordinates: models.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
		})
	}
	return locations, nil
}

type currentWeatherResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
}

// CurrentWeather fetches current conditions with wind speed in m/s
func (p *OpenMeteoProvider) CurrentWeather(ctx context.Context, coords models.Coordinates) (models.CurrentWeather, error) {
	params := coordinateParams(coords)
	params.Add("current_weather", "true")
	params.Add("windspeed_unit", "ms")

	var response currentWeatherResponse
	if err := p.getJSON(ctx, p.forecastURL+"/forecast", params, &response); err != nil {
		return models.CurrentWeather{}, fmt.Errorf("current weather: %w", err)
	}
	if response.CurrentWeather == nil {
		return models.CurrentWeather{}, fmt.Errorf("current weather: response has no current_weather object")
	}

	cw := response.CurrentWeather
	observed, _ := time.Parse(openMeteoTimeLayout, cw.Time)
	return models.CurrentWeather{
		Temperature: cw.Temperature,
		WeatherCode: cw.WeatherCode,
		Weather:     weathercode.Translate(cw.WeatherCode),
		WindSpeed:   cw.WindSpeed,
		Timestamp:   observed,
	}, nil
}

type dailyResponse struct {
	Daily *dailySeries `json:"daily"`
}

// DailyForecast fetches the daily min/max temperature and weather code series
func (p *OpenMeteoProvider) DailyForecast(ctx context.Context, coords models.Coordinates) ([]models.ForecastDay, error) {
	params := coordinateParams(coords)
	params.Add("daily", "temperature_2m_min,temperature_2m_max,weathercode")
	params.Add("timezone", p.timezone)

	var response dailyResponse
	if err := p.getJSON(ctx, p.forecastURL+"/forecast", params, &response); err != nil {
		return nil, fmt.Errorf("daily forecast: %w", err)
	}
	if response.Daily == nil {
		return nil, fmt.Errorf("daily forecast: %w: response has no daily object", ErrMalformedDaily)
	}

	days, err := zipDaily(*response.Daily)
	if err != nil {
		return nil, fmt.Errorf("daily forecast: %w", err)
	}
	return days, nil
}

func coordinateParams(coords models.Coordinates) url.Values {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	return params
}

// getJSON performs a GET request and decodes a 200 response body into out
func (p *OpenMeteoProvider) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

var _ Provider = (*OpenMeteoProvider)(nil)
