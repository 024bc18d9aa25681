package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/i474232898/weather-forecast-bot/internal/forecast"
	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

var validate = validator.New()

type AppConfig struct {
	TelegramToken   string  `validate:"required"`
	TelegramChatID  string  `validate:"required"`
	TelegramBaseURL string  `validate:"omitempty,url"`
	TelegramRPS     float64 `validate:"gt=0"`
	ParseMode       string  `validate:"omitempty,oneof=HTML"`

	Provider          string `validate:"oneof=openweathermap weatherapi openmeteo"`
	OpenWeatherAPIKey string `validate:"required_if=Provider openweathermap"`
	WeatherAPIKey     string `validate:"required_if=Provider weatherapi"`
	OpenMeteoURL      string `validate:"omitempty,url"`

	Location weather.Location
	// PlaceIn is the place name as it reads after "in" in the header.
	PlaceIn string
	Lat     float64 `validate:"latitude"`
	Lon     float64 `validate:"longitude"`

	// Timezone drives cron triggers. ForecastTimezone decides sample dates
	// and hours.
	Timezone         *time.Location `validate:"required"`
	ForecastTimezone *time.Location `validate:"required"`

	// Reference hours and window length of the rendered forecast.
	NightHour    int `validate:"gte=0,lte=23"`
	DayHour      int `validate:"gte=0,lte=23,nefield=NightHour"`
	ForecastDays int `validate:"gte=1,lte=16"`

	Locale     string `validate:"required"`
	LocaleFile string `validate:"omitempty,file"`

	// ScheduleCron holds standard 5-field cron specs; ScheduleInterval, when
	// non-zero, adds a fixed-interval trigger.
	ScheduleCron     []string
	ScheduleInterval time.Duration `validate:"gte=0"`
	RunOnStart       bool

	HTTPTimeout time.Duration `validate:"gt=0"`
	RunTimeout  time.Duration `validate:"gt=0"`
	FatalPause  time.Duration `validate:"gte=0"`

	Port string `validate:"required,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = getenvDefault("TELEGRAM_CHAT_ID", "@pogoda_veleten")
	cfg.TelegramBaseURL = os.Getenv("TELEGRAM_API_URL")
	cfg.ParseMode = getenvDefault("TELEGRAM_PARSE_MODE", "HTML")
	if strings.EqualFold(cfg.ParseMode, "none") {
		cfg.ParseMode = ""
	}
	if cfg.TelegramRPS, err = getenvFloat("TELEGRAM_RPS", 20.0/60.0); err != nil {
		return nil, err
	}

	cfg.Provider = getenvDefault("FORECAST_PROVIDER", "openweathermap")
	// WEATHER_API_KEY is accepted as an alias for older deployments.
	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", os.Getenv("WEATHER_API_KEY"))
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.OpenMeteoURL = os.Getenv("OPENMETEO_API_URL")

	if cfg.Lat, err = getenvFloat("LOCATION_LAT", 49.8369); err != nil {
		return nil, err
	}
	if cfg.Lon, err = getenvFloat("LOCATION_LON", 36.7594); err != nil {
		return nil, err
	}
	cfg.Location = weather.Location{
		Name: getenvDefault("LOCATION_NAME", "Велетень"),
		Lat:  cfg.Lat,
		Lon:  cfg.Lon,
	}

	cfg.PlaceIn = getenvDefault("LOCATION_NAME_IN", "Велетені")

	tzName := getenvDefault("TIMEZONE", "Europe/Kyiv")
	if cfg.Timezone, err = time.LoadLocation(tzName); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	// UTC keeps hours 3 and 15 on the OpenWeatherMap 3-hour grid all year.
	fcTZName := getenvDefault("FORECAST_TIMEZONE", "UTC")
	if cfg.ForecastTimezone, err = time.LoadLocation(fcTZName); err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}

	if cfg.NightHour, err = getenvInt("NIGHT_HOUR", 3); err != nil {
		return nil, err
	}
	if cfg.DayHour, err = getenvInt("DAY_HOUR", 15); err != nil {
		return nil, err
	}
	if cfg.ForecastDays, err = getenvInt("FORECAST_DAYS", 5); err != nil {
		return nil, err
	}

	cfg.Locale = getenvDefault("LOCALE", "uk")
	cfg.LocaleFile = os.Getenv("LOCALE_FILE")

	if cfg.ScheduleCron, err = parseCronSpecs(os.Getenv("SCHEDULE_CRON")); err != nil {
		return nil, err
	}
	// Hourly by default; cron specs replace it.
	intervalDefault := "60m"
	if len(cfg.ScheduleCron) > 0 {
		intervalDefault = "0s"
	}
	if cfg.ScheduleInterval, err = getenvDuration("SCHEDULE_INTERVAL", intervalDefault); err != nil {
		return nil, err
	}
	cfg.RunOnStart = getenvBool("RUN_ON_START", false)

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RunTimeout, err = getenvDuration("RUN_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.FatalPause, err = getenvDuration("FATAL_PAUSE", "60s"); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints, that at least one trigger is set and
// that the reference hours land on the provider's sample grid.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(c.ScheduleCron) == 0 && c.ScheduleInterval == 0 {
		return fmt.Errorf("invalid configuration: set SCHEDULE_CRON or SCHEDULE_INTERVAL")
	}
	if step, ok := providerGrid[c.Provider]; ok {
		year := time.Now().Year()
		for _, y := range []int{year, year + 1} {
			if err := forecast.CheckGrid(c.ForecastTimezone, step, y, c.NightHour, c.DayHour); err != nil {
				return fmt.Errorf("invalid configuration: NIGHT_HOUR/DAY_HOUR with FORECAST_TIMEZONE: %w", err)
			}
		}
	}
	return nil
}

// providerGrid is the sample spacing of providers that do not report hourly.
var providerGrid = map[string]time.Duration{
	"openweathermap": 3 * time.Hour,
}

// parseCronSpecs splits a ";"-separated list and checks each spec.
func parseCronSpecs(raw string) ([]string, error) {
	var specs []string
	for _, spec := range strings.Split(raw, ";") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("invalid SCHEDULE_CRON entry %q: %w", spec, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
