package weather

import (
	"context"
)

// ForecastProvider abstracts a multi-day forecast source (e.g. OpenWeatherMap, WeatherAPI).
// Returned samples need not be sorted.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location) ([]Sample, error)
}

// Deliverer hands a rendered message to a destination channel.
type Deliverer interface {
	Send(ctx context.Context, chatID, text, parseMode string) error
}
