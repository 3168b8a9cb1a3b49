// Package weathercode translates WMO weather interpretation codes, as reported
// by open-meteo, into human-readable condition labels.
package weathercode

import "sort"

// Unknown is returned for codes absent from the table.
const Unknown = "Unknown"

var labels = map[int]string{
	0:  "Clear Sky",
	1:  "Mostly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Dense Fog",
	51: "Drizzle: Light",
	53: "Drizzle: Moderate",
	55: "Drizzle: Heavy",
	56: "Freezing Drizzle: Light",
	57: "Freezing Drizzle: Heavy",
	61: "Rain: Light",
	63: "Rain: Moderate",
	65: "Rain: Heavy",
	66: "Freezing Rain: Light",
	67: "Freezing Rain: Heavy",
	71: "Snow: Light",
	73: "Snow: Moderate",
	75: "Snow: Heavy",
	77: "Snow Grains",
	80: "Showers: Light",
	81: "Showers: Moderate",
	82: "Showers: Heavy",
	85: "Snow Showers: Light",
	86: "Snow Showers: Heavy",
	95: "Thunderstorm: Slight or Moderate",
	96: "Thunderstorm with Hail: Small",
	99: "Thunderstorm with Hail: Large",
}

// Translate returns the condition label for code, or Unknown.
func Translate(code int) string {
	if label, ok := labels[code]; ok {
		return label
	}
	return Unknown
}

// Known reports whether code has a label.
func Known(code int) bool {
	_, ok := labels[code]
	return ok
}

// Codes returns every known code in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(labels))
	for code := range labels {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
