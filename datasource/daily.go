package datasource

import (
	"errors"
	"fmt"

	"weather-dashboard/models"
	"weather-dashboard/weathercode"
)

// ErrMalformedDaily is returned when the daily series cannot be zipped into days
var ErrMalformedDaily = errors.New("malformed daily forecast")

// dailySeries holds the parallel arrays of an open-meteo daily block
type dailySeries struct {
	Time           []string   `json:"time"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	WeatherCode    []*int     `json:"weathercode"`
}

// zipDaily builds one ForecastDay per date, drawing every field from the same index.
// A null temperature stays nil; a null weather code translates to weathercode.Unknown.
func zipDaily(series dailySeries) ([]models.ForecastDay, error) {
	n := len(series.Time)
	if len(series.TemperatureMin) < n || len(series.TemperatureMax) < n || len(series.WeatherCode) < n {
		return nil, fmt.Errorf("%w: %d dates, %d minimums, %d maximums, %d codes",
			ErrMalformedDaily, n, len(series.TemperatureMin), len(series.TemperatureMax), len(series.WeatherCode))
	}

	days := make([]models.ForecastDay, 0, n)
	for i, date := range series.Time {
		code := -1
		if series.WeatherCode[i] != nil {
			code = *series.WeatherCode[i]
		}
		days = append(days, models.ForecastDay{
			Date:        date,
			TempMin:     series.TemperatureMin[i],
			TempMax:     series.TemperatureMax[i],
			WeatherCode: code,
			Weather:     weathercode.Translate(code),
		})
	}
	return days, nil
}
