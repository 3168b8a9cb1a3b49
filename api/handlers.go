package api

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-dashboard/dashboard"
	"weather-dashboard/models"
	"weather-dashboard/weathercode"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type pageData struct {
	Title      string
	DebounceMS int64
	MinChars   int
	Cities     []models.City
	City       string
}

func (s *Server) newPage(title string) pageData {
	return pageData{
		Title:      title,
		DebounceMS: s.debounce.Milliseconds(),
		MinChars:   s.service.MinQueryLength(),
	}
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := s.newPage("Weather Dashboard")
	data.Cities = s.cities
	s.views.page(w, "index", data)
}

// GET /weather/{city}
func (s *Server) handleForecastPage(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)
	if city == "" {
		http.NotFound(w, r)
		return
	}
	data := s.newPage("Forecast for " + city)
	data.City = city
	s.views.page(w, "forecast", data)
}

// GET /partials/card/{city}: a failed lookup is logged and the card renders
// without values; the page never shows an error.
func (s *Server) handleCardPartial(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)
	card := models.CityCard{City: city}

	current, err := s.service.Current(r.Context(), city)
	if err != nil {
		log.Printf("Error fetching weather data for %s: %v", city, err)
	} else {
		card.Loaded = true
		card.Current = &current
	}

	s.views.partial(w, "card", card)
}

// GET /partials/forecast/{city}: same failure policy as the card
func (s *Server) handleForecastPartial(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)

	forecast, err := s.service.Forecast(r.Context(), city)
	if err != nil {
		log.Printf("Error fetching forecast data for %s: %v", city, err)
		forecast = models.Forecast{City: city}
	}

	s.views.partial(w, "forecast", forecast)
}

// GET /api/suggest?name=: failures clear the suggestion list
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("name")

	suggestions, err := s.service.Suggest(r.Context(), query)
	if err != nil {
		log.Printf("Error fetching suggestions for %q: %v", query, err)
		suggestions = []models.Suggestion{}
	}

	writeJSON(w, http.StatusOK, suggestions)
}

// GET /api/cities
func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	cards := s.collector.Collect(r.Context(), s.cities)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cities":    cards,
		"count":     len(cards),
		"timestamp": time.Now(),
	})
}

// GET /api/current/{city}
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)
	current, err := s.service.Current(r.Context(), city)
	if err != nil {
		writeLookupError(w, city, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

// GET /api/forecast/{city}
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)
	forecast, err := s.service.Forecast(r.Context(), city)
	if err != nil {
		writeLookupError(w, city, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

// GET /api/weathercodes
func (s *Server) handleWeatherCodes(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Code  int    `json:"code"`
		Label string `json:"label"`
	}
	codes := weathercode.Codes()
	entries := make([]entry, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, entry{Code: code, Label: weathercode.Translate(code)})
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// cityParam returns the decoded {city} segment. chi matches against RawPath
// when the request path carries escapes such as %2F, leaving the param encoded.
func cityParam(r *http.Request) string {
	raw := chi.URLParam(r, "city")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
	}
	return strings.TrimSpace(raw)
}

func writeLookupError(w http.ResponseWriter, city string, err error) {
	log.Printf("Lookup for %s failed: %v", city, err)
	status := http.StatusBadGateway
	if errors.Is(err, dashboard.ErrLocationNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("error encoding response:", err)
	}
}
