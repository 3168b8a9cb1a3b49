package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"weather-dashboard/api"
	"weather-dashboard/dashboard"
	"weather-dashboard/models"
	"weather-dashboard/weathercode"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream unavailable")

func celsius(v float64) *float64 { return &v }

type fakeProvider struct {
	mu         sync.Mutex
	locations  map[string][]models.Location
	current    map[models.Coordinates]models.CurrentWeather
	daily      map[models.Coordinates][]models.ForecastDay
	geocodeErr error
	weatherErr error
	searches   int
}

func newFakeProvider() *fakeProvider {
	moscow := models.Location{Name: "Moscow", Country: "Russia", Coordinates: models.Coordinates{Latitude: 55.75, Longitude: 37.62}}
	biel := models.Location{Name: "Biel/Bienne", Country: "Switzerland", Coordinates: models.Coordinates{Latitude: 47.13, Longitude: 7.24}}
	rostov := models.Location{Name: "Rostov-on-Don", Country: "Russia", Coordinates: models.Coordinates{Latitude: 47.23, Longitude: 39.72}}

	days := []models.ForecastDay{}
	for i, code := range []int{0, 3, 61, 71, 95} {
		days = append(days, models.ForecastDay{
			Date:        time.Date(2024, 1, 15+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			TempMin:     celsius(float64(-10 + i)),
			TempMax:     celsius(float64(i) + 0.5),
			WeatherCode: code,
			Weather:     weathercode.Translate(code),
		})
	}

	return &fakeProvider{
		locations: map[string][]models.Location{
			"Moscow":        {moscow},
			"Mos":           {moscow},
			"Biel":          {biel},
			"Biel/Bienne":   {biel},
			"Rostov-on-Don": {rostov},
		},
		current: map[models.Coordinates]models.CurrentWeather{
			moscow.Coordinates: {Temperature: -5.5, WeatherCode: 71, Weather: weathercode.Translate(71), WindSpeed: 3.1},
			rostov.Coordinates: {Temperature: 4, WeatherCode: 2, Weather: weathercode.Translate(2), WindSpeed: 6},
		},
		daily: map[models.Coordinates][]models.ForecastDay{
			moscow.Coordinates: days,
			rostov.Coordinates: {
				{Date: "2024-01-20", TempMin: celsius(-1), TempMax: nil, WeatherCode: 3, Weather: weathercode.Translate(3)},
				{Date: "2024-01-21", TempMin: nil, TempMax: celsius(0), WeatherCode: -1, Weather: weathercode.Unknown},
			},
			biel.Coordinates: days[:1],
		},
	}
}

func (f *fakeProvider) Name() string { return "Fake" }

func (f *fakeProvider) Search(_ context.Context, name string) ([]models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.geocodeErr != nil {
		return nil, f.geocodeErr
	}
	return f.locations[name], nil
}

func (f *fakeProvider) CurrentWeather(_ context.Context, coords models.Coordinates) (models.CurrentWeather, error) {
	if f.weatherErr != nil {
		return models.CurrentWeather{}, f.weatherErr
	}
	return f.current[coords], nil
}

func (f *fakeProvider) DailyForecast(_ context.Context, coords models.Coordinates) ([]models.ForecastDay, error) {
	if f.weatherErr != nil {
		return nil, f.weatherErr
	}
	return f.daily[coords], nil
}

func (f *fakeProvider) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func newTestServer(t *testing.T, provider *fakeProvider, cities ...string) *httptest.Server {
	t.Helper()
	service := dashboard.NewService(provider, provider, provider)
	collector := dashboard.NewCollector(service)

	cfg := api.Config{AutocompleteDebounce: 300 * time.Millisecond}
	for _, c := range cities {
		cfg.Cities = append(cfg.Cities, models.City{Name: c})
	}

	srv, err := api.NewServer(service, collector, cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err, "GET %s", url)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func getJSON(t *testing.T, url string, wantStatus int, out interface{}) {
	t.Helper()
	status, body := get(t, url)
	require.Equal(t, wantStatus, status, "GET %s: %s", url, body)
	require.NoError(t, json.Unmarshal([]byte(body), out))
}

func TestIndexListsCityCards(t *testing.T) {
	ts := newTestServer(t, newFakeProvider(), "Moscow", "St Petersburg", "Rostov-on-Don")

	status, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, status)
	for _, want := range []string{
		"<h1>",
		"Weather Dashboard",
		`data-src="/partials/card/Moscow"`,
		`data-src="/partials/card/St%20Petersburg"`,
		`data-src="/partials/card/Rostov-on-Don"`,
		`data-debounce-ms="300"`,
		`data-min-chars="2"`,
		`placeholder="Search city..."`,
	} {
		assert.Contains(t, body, want)
	}
	assert.Equal(t, 3, strings.Count(body, `class="card city-card"`), "card shells")
	assert.GreaterOrEqual(t, strings.Count(body, "Loading..."), 3, "every card shell shows a loading indicator")
}

func TestCardPartial(t *testing.T) {
	t.Run("should render current conditions", func(t *testing.T) {
		ts := newTestServer(t, newFakeProvider())
		status, body := get(t, ts.URL+"/partials/card/Moscow")
		require.Equal(t, http.StatusOK, status)
		for _, want := range []string{
			"Moscow",
			"Temperature: -5.5°C",
			"Weather: Snow: Light",
			"Wind Speed: 3.1 m/s",
			`href="/weather/Moscow"`,
			"View Forecast",
		} {
			assert.Contains(t, body, want)
		}
		assert.NotContains(t, body, "spinner-border", "loaded card should not show a loading indicator")
	})
	t.Run("should swallow a failed geocode", func(t *testing.T) {
		provider := newFakeProvider()
		provider.geocodeErr = errUpstream
		ts := newTestServer(t, provider)

		status, body := get(t, ts.URL+"/partials/card/Moscow")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Temperature: °C")
		assert.Contains(t, body, "View Forecast")
		assert.NotContains(t, body, "spinner-border")
		assert.NotContains(t, body, errUpstream.Error(), "error text must not reach the page")
	})
	t.Run("should swallow a failed weather fetch", func(t *testing.T) {
		provider := newFakeProvider()
		provider.weatherErr = errUpstream
		ts := newTestServer(t, provider)

		status, body := get(t, ts.URL+"/partials/card/Moscow")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Weather: </p>")
	})
}

func TestForecastPage(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	status, body := get(t, ts.URL+"/weather/Rostov-on-Don")
	require.Equal(t, http.StatusOK, status)
	for _, want := range []string{
		"7-Day Weather Forecast for Rostov-on-Don",
		"Back to Main",
		`data-src="/partials/forecast/Rostov-on-Don"`,
		"Loading...",
	} {
		assert.Contains(t, body, want)
	}
}

func TestForecastPartialRows(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	status, body := get(t, ts.URL+"/partials/forecast/Moscow")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 5, strings.Count(body, `class="forecast-day"`))

	for _, row := range []string{
		"<td>2024-01-15</td>\n      <td>-10°C</td>\n      <td>0.5°C</td>\n      <td>Clear Sky</td>",
		"<td>2024-01-17</td>\n      <td>-8°C</td>\n      <td>2.5°C</td>\n      <td>Rain: Light</td>",
		"<td>2024-01-19</td>\n      <td>-6°C</td>\n      <td>4.5°C</td>\n      <td>Thunderstorm: Slight or Moderate</td>",
	} {
		assert.Contains(t, body, row)
	}
	for _, header := range []string{"Date", "Min Temp (°C)", "Max Temp (°C)", "Weather"} {
		assert.Contains(t, body, "<th>"+header+"</th>")
	}
}

func TestForecastPartialLeavesMissingTemperaturesBlank(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	status, body := get(t, ts.URL+"/partials/forecast/Rostov-on-Don")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, strings.Count(body, `class="forecast-day"`))

	assert.Contains(t, body, "<td>2024-01-20</td>\n      <td>-1°C</td>\n      <td>°C</td>\n      <td>Overcast</td>")
	assert.Contains(t, body, "<td>2024-01-21</td>\n      <td>°C</td>\n      <td>0°C</td>\n      <td>Unknown</td>")
}

func TestForecastPartialFailure(t *testing.T) {
	provider := newFakeProvider()
	provider.weatherErr = errUpstream
	ts := newTestServer(t, provider)

	status, body := get(t, ts.URL+"/partials/forecast/Moscow")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, `class="forecast-day"`, "expected an empty table")
	assert.Contains(t, body, "<table", "the table renders without rows")
}

func TestSuggestShortQueryNeverCallsUpstream(t *testing.T) {
	provider := newFakeProvider()
	ts := newTestServer(t, provider)

	for _, q := range []string{"", "M", "%20M%20"} {
		status, body := get(t, ts.URL+"/api/suggest?name="+q)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "[]", strings.TrimSpace(body), "query %q", q)
	}
	assert.Zero(t, provider.searchCount(), "no geocoding calls expected")
}

func TestSuggestionNavigatesToLabel(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	for _, query := range []string{"Mos", "Biel"} {
		var suggestions []models.Suggestion
		getJSON(t, ts.URL+"/api/suggest?name="+query, http.StatusOK, &suggestions)
		require.Len(t, suggestions, 1, "suggestions for %q", query)

		s := suggestions[0]
		status, page := get(t, ts.URL+s.Href)
		require.Equal(t, http.StatusOK, status, "GET %s", s.Href)
		assert.Contains(t, page, "7-Day Weather Forecast for "+s.Label)
	}
}

func TestSuggestionLabelResolvesForecast(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	status, body := get(t, ts.URL+"/partials/forecast/Biel%2FBienne%2C%20Switzerland")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, strings.Count(body, `class="forecast-day"`), "the label should resolve to a 1 day forecast")
}

func TestSuggestFailureClearsList(t *testing.T) {
	provider := newFakeProvider()
	provider.geocodeErr = errUpstream
	ts := newTestServer(t, provider)

	status, body := get(t, ts.URL+"/api/suggest?name=Moscow")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", strings.TrimSpace(body))
}

func TestCitiesAPI(t *testing.T) {
	ts := newTestServer(t, newFakeProvider(), "Moscow", "Gotham")

	var response struct {
		Cities []models.CityCard `json:"cities"`
		Count  int               `json:"count"`
	}
	getJSON(t, ts.URL+"/api/cities", http.StatusOK, &response)

	assert.Equal(t, 2, response.Count)
	require.Len(t, response.Cities, 2)

	assert.True(t, response.Cities[0].Loaded)
	require.NotNil(t, response.Cities[0].Current)
	assert.Equal(t, -5.5, response.Cities[0].Current.Temperature)

	assert.False(t, response.Cities[1].Loaded)
	assert.NotEmpty(t, response.Cities[1].Error, "Gotham card should report an error")
}

func TestCurrentAPI(t *testing.T) {
	t.Run("should return current weather", func(t *testing.T) {
		ts := newTestServer(t, newFakeProvider())
		var current models.CurrentWeather
		getJSON(t, ts.URL+"/api/current/Moscow", http.StatusOK, &current)
		assert.Equal(t, "Moscow", current.City)
		assert.Equal(t, "Snow: Light", current.Weather)
	})
	t.Run("should return 404 for an unknown city", func(t *testing.T) {
		ts := newTestServer(t, newFakeProvider())
		status, _ := get(t, ts.URL+"/api/current/Gotham")
		assert.Equal(t, http.StatusNotFound, status)
	})
	t.Run("should return 502 when upstream fails", func(t *testing.T) {
		provider := newFakeProvider()
		provider.weatherErr = errUpstream
		ts := newTestServer(t, provider)
		status, _ := get(t, ts.URL+"/api/current/Moscow")
		assert.Equal(t, http.StatusBadGateway, status)
	})
}

func TestForecastAPI(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	var forecast models.Forecast
	getJSON(t, ts.URL+"/api/forecast/Moscow", http.StatusOK, &forecast)
	assert.Equal(t, "Moscow", forecast.City)
	assert.Len(t, forecast.Days, 5)
}

func TestForecastAPIKeepsMissingTemperaturesNull(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	status, body := get(t, ts.URL+"/api/forecast/Rostov-on-Don")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"tempMax":null`)
	assert.Contains(t, body, `"tempMin":null`)
	assert.Contains(t, body, `"tempMax":0`)
}

func TestWeatherCodesAPI(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	var entries []struct {
		Code  int    `json:"code"`
		Label string `json:"label"`
	}
	getJSON(t, ts.URL+"/api/weathercodes", http.StatusOK, &entries)
	require.Len(t, entries, len(weathercode.Codes()))
	assert.Equal(t, 0, entries[0].Code)
	assert.Equal(t, "Clear Sky", entries[0].Label)
}

func TestHealthAndStatic(t *testing.T) {
	ts := newTestServer(t, newFakeProvider())

	status, body := get(t, ts.URL+"/api/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"status":"ok"`)

	status, body = get(t, ts.URL+"/static/app.js")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "setupAutocomplete")
}
