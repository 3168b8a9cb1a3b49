package models

// ForecastDay represents one entry of a daily forecast
type ForecastDay struct {
	Date        string   `json:"date"`    // ISO date, as returned upstream
	TempMin     *float64 `json:"tempMin"` // in Celsius, nil when not reported
	TempMax     *float64 `json:"tempMax"` // in Celsius, nil when not reported
	WeatherCode int      `json:"weatherCode"`
	Weather     string   `json:"weather"`
}

// Forecast is the ordered daily forecast for one city
type Forecast struct {
	City string        `json:"city"`
	Days []ForecastDay `json:"days"`
}
