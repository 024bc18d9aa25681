package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-forecast-bot/internal/resilience"
	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

// openMeteoMaxDays is the largest forecast_days the API accepts.
const openMeteoMaxDays = 16

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
// It needs no API key but only reports numeric WMO weather codes. Codes are
// described through the descriptions table when it has them and in English
// otherwise.
type OpenMeteoProvider struct {
	name         string
	days         int
	descriptions map[int]string
	baseURL      string
	httpCfg      resilience.HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, days int, descriptions map[int]string) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:         "openmeteo",
		days:         min(days, openMeteoMaxDays),
		descriptions: descriptions,
		baseURL:      "https://api.open-meteo.com/v1/forecast",
		httpCfg:      resilience.HTTPClientConfig{Client: client},
		circuit:      resilience.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Sample, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
		values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m,weather_code")
		values.Set("wind_speed_unit", "ms")
		values.Set("timeformat", "unixtime")
		values.Set("forecast_days", strconv.Itoa(p.days))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := resilience.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time          []int64   `json:"time"`
			Temperature   []float64 `json:"temperature_2m"`
			Humidity      []int     `json:"relative_humidity_2m"`
			WindSpeed     []float64 `json:"wind_speed_10m"`
			WindDirection []float64 `json:"wind_direction_10m"`
			WeatherCode   []int     `json:"weather_code"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode openmeteo forecast: %w", err)
	}

	h := payload.Hourly
	n := len(h.Time)
	if len(h.Temperature) != n || len(h.Humidity) != n || len(h.WindSpeed) != n ||
		len(h.WindDirection) != n || len(h.WeatherCode) != n {
		return nil, fmt.Errorf("openmeteo returned misaligned hourly series")
	}

	samples := make([]weather.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, weather.Sample{
			Timestamp:    time.Unix(h.Time[i], 0).UTC(),
			TemperatureC: h.Temperature[i],
			WindSpeedMS:  h.WindSpeed[i],
			WindDeg:      h.WindDirection[i],
			HumidityPct:  h.Humidity[i],
			Condition:    p.describe(h.WeatherCode[i]),
		})
	}
	return samples, nil
}

func (p *OpenMeteoProvider) describe(code int) string {
	if desc, ok := p.descriptions[code]; ok {
		return desc
	}
	return describeWMOCode(code)
}

// describeWMOCode maps a WMO weather code to the OpenWeatherMap English
// description closest to it.
func describeWMOCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code == 1:
		return "few clouds"
	case code == 2:
		return "scattered clouds"
	case code == 3:
		return "overcast clouds"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code == 61 || code == 80:
		return "light rain"
	case code == 63 || code == 81 || code == 66:
		return "moderate rain"
	case code == 65 || code == 82 || code == 67:
		return "heavy intensity rain"
	case code == 71 || code == 85:
		return "light snow"
	case (code >= 73 && code <= 77) || code == 86:
		return "snow"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
