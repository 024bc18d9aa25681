package providers

import (
	"fmt"
	"net/http"

	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

// Provider names accepted by New.
const (
	OpenWeather = "openweathermap"
	WeatherAPI  = "weatherapi"
	OpenMeteo   = "openmeteo"
)

// Options carries the credentials and request parameters for New.
type Options struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	Lang              string
	Days              int
	// OpenMeteoURL points at a self-hosted Open-Meteo instance when set.
	OpenMeteoURL      string
	// WMODescriptions localizes Open-Meteo weather codes.
	WMODescriptions   map[int]string
}

// New returns the forecast provider registered under name.
func New(name string, client *http.Client, opts Options) (weather.ForecastProvider, error) {
	switch name {
	case OpenWeather:
		return NewOpenWeatherProvider(client, opts.OpenWeatherAPIKey, opts.Lang), nil
	case WeatherAPI:
		return NewWeatherAPIProvider(client, opts.WeatherAPIKey, opts.Lang, opts.Days), nil
	case OpenMeteo:
		p := NewOpenMeteoProvider(client, opts.Days, opts.WMODescriptions)
		if opts.OpenMeteoURL != "" {
			p.baseURL = opts.OpenMeteoURL
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown forecast provider %q", name)
	}
}
