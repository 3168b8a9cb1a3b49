package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"weather-dashboard/models"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Cfg struct {
	Port int `mapstructure:"PORT"`

	GeocodingURL       string        `mapstructure:"GEOCODING_URL"`
	ForecastURL        string        `mapstructure:"FORECAST_URL"`
	HTTPTimeout        time.Duration `mapstructure:"HTTP_TIMEOUT"`
	FetchTimeout       time.Duration `mapstructure:"FETCH_TIMEOUT"`
	GeocodeResultCount int           `mapstructure:"GEOCODE_RESULT_COUNT"`
	ForecastTimezone   string        `mapstructure:"FORECAST_TIMEZONE"`

	RateLimitEnabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitRPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int     `mapstructure:"RATE_LIMIT_BURST"`

	GeocodeCacheTTL  time.Duration `mapstructure:"GEOCODE_CACHE_TTL"`
	GeocodeCachePath string        `mapstructure:"GEOCODE_CACHE_PATH"`

	AutocompleteDebounce time.Duration `mapstructure:"AUTOCOMPLETE_DEBOUNCE"`
	AutocompleteMinChars int           `mapstructure:"AUTOCOMPLETE_MIN_CHARS"`

	CitiesFile     string `mapstructure:"CITIES_FILE"`
	ZipkinEndpoint string `mapstructure:"ZIPKIN_ENDPOINT"`
}

var defaults = map[string]interface{}{
	"PORT":                   8080,
	"GEOCODING_URL":          "https://geocoding-api.open-meteo.com/v1",
	"FORECAST_URL":           "https://api.open-meteo.com/v1",
	"HTTP_TIMEOUT":           "10s",
	"FETCH_TIMEOUT":          "10s",
	"GEOCODE_RESULT_COUNT":   10,
	"FORECAST_TIMEZONE":      "GMT",
	"RATE_LIMIT_ENABLED":     true,
	"RATE_LIMIT_RPS":         5.0,
	"RATE_LIMIT_BURST":       10,
	"GEOCODE_CACHE_TTL":      "0s",
	"GEOCODE_CACHE_PATH":     "",
	"AUTOCOMPLETE_DEBOUNCE":  "300ms",
	"AUTOCOMPLETE_MIN_CHARS": 2,
	"CITIES_FILE":            "cities.yaml",
	"ZIPKIN_ENDPOINT":        "",
}

// LoadConfig reads an env-style file at path (optional) overlaid by the
// process environment. Every key has a default.
func LoadConfig(path string) (*Cfg, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigType("env")
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Cfg
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// DefaultCities is the landing grid used when no cities file exists
func DefaultCities() []models.City {
	return []models.City{
		{Name: "Moscow"},
		{Name: "St Petersburg"},
		{Name: "Rostov-on-Don"},
		{Name: "Vladivostok"},
		{Name: "Krasnodar"},
		{Name: "Yekaterinburg"},
	}
}

type citiesFile struct {
	Cities []models.City `yaml:"cities"`
}

// LoadCities reads the landing grid from a YAML file of the form
//
//	cities:
//	  - name: Moscow
//
// A missing file yields DefaultCities. Blank names are skipped.
func LoadCities(path string) ([]models.City, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultCities(), nil
	}
	if err != nil {
		return nil, err
	}

	var file citiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse cities file %s: %w", path, err)
	}

	cities := make([]models.City, 0, len(file.Cities))
	for _, c := range file.Cities {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		cities = append(cities, models.City{Name: name})
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("cities file %s lists no cities", path)
	}
	return cities, nil
}
