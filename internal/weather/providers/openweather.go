package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-forecast-bot/internal/resilience"
	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

// OpenWeatherProvider implements weather.ForecastProvider using the
// OpenWeatherMap 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	lang    string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, lang string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		lang:    lang,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: resilience.HTTPClientConfig{Client: client},
		circuit: resilience.NewBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Sample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
		if p.lang != "" {
			values.Set("lang", p.lang)
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := resilience.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
				Deg   float64 `json:"deg"`
			} `json:"wind"`
			Weather []struct {
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openweather forecast: %w", err)
	}

	samples := make([]weather.Sample, 0, len(payload.List))
	for _, item := range payload.List {
		var desc string
		if len(item.Weather) > 0 {
			desc = strings.ToLower(item.Weather[0].Description)
		}
		samples = append(samples, weather.Sample{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			TemperatureC: item.Main.Temp,
			WindSpeedMS:  item.Wind.Speed,
			WindDeg:      item.Wind.Deg,
			HumidityPct:  item.Main.Humidity,
			Condition:    desc,
		})
	}
	return samples, nil
}
