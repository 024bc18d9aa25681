package weather

import (
	"fmt"
	"time"
)

// Location is the fixed point the forecast is produced for.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key returns a canonical string key for logging this location.
func (l Location) Key() string {
	return fmt.Sprintf("%s(%.4f,%.4f)", l.Name, l.Lat, l.Lon)
}

// Sample is one forecast data point for a single 3-hour (or hourly) slot.
// Condition is the provider's free-text description, lowercased.
type Sample struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	WindSpeedMS  float64   `json:"windSpeed"`
	WindDeg      float64   `json:"windDeg"`
	HumidityPct  int       `json:"humidityPercent"`
	Condition    string    `json:"condition"`
}
