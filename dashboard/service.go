// Package dashboard orchestrates the two-step lookups behind every dashboard
// surface: resolve a city name to coordinates, then fetch weather there.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"weather-dashboard/datasource"
	"weather-dashboard/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MinQueryLength is the shortest autocomplete query sent upstream.
const MinQueryLength = 2

// ErrLocationNotFound is returned when geocoding yields no result for a city.
var ErrLocationNotFound = errors.New("location not found")

// Service resolves cities and fetches their weather.
type Service struct {
	geocoder       datasource.Geocoder
	current        datasource.CurrentSource
	forecast       datasource.ForecastSource
	tracer         trace.Tracer
	minQueryLength int
}

// Option configures a Service.
type Option func(*Service)

// WithTracer sets the tracer used for spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// WithMinQueryLength overrides MinQueryLength.
func WithMinQueryLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minQueryLength = n
		}
	}
}

// NewService creates a service over the given sources
func NewService(geocoder datasource.Geocoder, current datasource.CurrentSource, forecast datasource.ForecastSource, opts ...Option) *Service {
	s := &Service{
		geocoder:       geocoder,
		current:        current,
		forecast:       forecast,
		tracer:         otel.Tracer("weather-dashboard"),
		minQueryLength: MinQueryLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MinQueryLength reports the shortest query Suggest sends upstream.
func (s *Service) MinQueryLength() int {
	return s.minQueryLength
}

// Resolve returns the first geocoding result for city. Autocomplete labels of
// the form "Name, Country" that match nothing as a whole are retried by name,
// preferring a result in that country.
func (s *Service) Resolve(ctx context.Context, city string) (models.Location, error) {
	ctx, span := s.tracer.Start(ctx, "resolve-coordinates", trace.WithAttributes(attribute.String("city", city)))
	defer span.End()

	locations, err := s.geocoder.Search(ctx, city)
	if err != nil {
		return models.Location{}, fail(span, err)
	}
	if len(locations) > 0 {
		return locations[0], nil
	}

	name, country, ok := splitLabel(city)
	if !ok {
		return models.Location{}, fail(span, fmt.Errorf("%w: %q", ErrLocationNotFound, city))
	}

	locations, err = s.geocoder.Search(ctx, name)
	if err != nil {
		return models.Location{}, fail(span, err)
	}
	for _, l := range locations {
		if strings.EqualFold(l.Country, country) {
			return l, nil
		}
	}
	if len(locations) > 0 {
		return locations[0], nil
	}
	return models.Location{}, fail(span, fmt.Errorf("%w: %q", ErrLocationNotFound, city))
}

// Current resolves city and fetches its current conditions.
func (s *Service) Current(ctx context.Context, city string) (models.CurrentWeather, error) {
	ctx, span := s.tracer.Start(ctx, "current-weather", trace.WithAttributes(attribute.String("city", city)))
	defer span.End()

	location, err := s.Resolve(ctx, city)
	if err != nil {
		return models.CurrentWeather{}, err
	}

	current, err := s.current.CurrentWeather(ctx, location.Coordinates)
	if err != nil {
		return models.CurrentWeather{}, fail(span, fmt.Errorf("current weather for %s: %w", city, err))
	}
	current.City = city
	return current, nil
}

// Forecast resolves city and fetches its daily forecast.
func (s *Service) Forecast(ctx context.Context, city string) (models.Forecast, error) {
	ctx, span := s.tracer.Start(ctx, "daily-forecast", trace.WithAttributes(attribute.String("city", city)))
	defer span.End()

	location, err := s.Resolve(ctx, city)
	if err != nil {
		return models.Forecast{}, err
	}

	days, err := s.forecast.DailyForecast(ctx, location.Coordinates)
	if err != nil {
		return models.Forecast{}, fail(span, fmt.Errorf("forecast for %s: %w", city, err))
	}
	span.SetAttributes(attribute.Int("days", len(days)))
	return models.Forecast{City: city, Days: days}, nil
}

// Suggest returns autocomplete entries for query. Queries shorter than the
// minimum length return an empty list without calling the geocoder.
func (s *Service) Suggest(ctx context.Context, query string) ([]models.Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < s.minQueryLength {
		return []models.Suggestion{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "search-locations", trace.WithAttributes(attribute.String("query", query)))
	defer span.End()

	locations, err := s.geocoder.Search(ctx, query)
	if err != nil {
		return nil, fail(span, err)
	}

	suggestions := make([]models.Suggestion, 0, len(locations))
	for _, l := range locations {
		suggestions = append(suggestions, models.NewSuggestion(l))
	}
	return suggestions, nil
}

func splitLabel(label string) (name, country string, ok bool) {
	idx := strings.LastIndex(label, ",")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(label[:idx])
	country = strings.TrimSpace(label[idx+1:])
	return name, country, name != "" && country != ""
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
