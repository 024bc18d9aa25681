package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-forecast-bot/internal/resilience"
	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

// weatherAPIMaxDays is the longest forecast the API serves.
const weatherAPIMaxDays = 14

// WeatherAPIProvider implements weather.ForecastProvider for WeatherAPI.com.
// It returns hourly samples.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	lang    string
	days    int
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey, lang string, days int) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		lang:    lang,
		days:    min(days, weatherAPIMaxDays),
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: resilience.HTTPClientConfig{Client: client},
		circuit: resilience.NewBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Sample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "lat,lon".
		values.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))
		values.Set("days", strconv.Itoa(p.days))
		values.Set("aqi", "no")
		values.Set("alerts", "no")
		if p.lang != "" {
			values.Set("lang", weatherAPILang(p.lang))
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
		Forecast struct {
			Forecastday []struct {
				Hour []struct {
					TimeEpoch  int64   `json:"time_epoch"`
					TempC      float64 `json:"temp_c"`
					WindKph    float64 `json:"wind_kph"`
					WindDegree float64 `json:"wind_degree"`
					Humidity   int     `json:"humidity"`
					Condition  struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weatherapi forecast: %w", err)
	}

	var samples []weather.Sample
	for _, day := range payload.Forecast.Forecastday {
		for _, h := range day.Hour {
			samples = append(samples, weather.Sample{
				Timestamp:    time.Unix(h.TimeEpoch, 0).UTC(),
				TemperatureC: h.TempC,
				// Convert wind from kph to m/s.
				WindSpeedMS: math.Round(h.WindKph/3.6*10) / 10,
				WindDeg:     h.WindDegree,
				HumidityPct: h.Humidity,
				Condition:   strings.ToLower(strings.TrimSpace(h.Condition.Text)),
			})
		}
	}
	return samples, nil
}

// weatherAPILang maps OpenWeatherMap-style language codes to WeatherAPI ones.
func weatherAPILang(lang string) string {
	if lang == "ua" {
		return "uk"
	}
	return lang
}
