package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-forecast-bot/internal/api/http"
	"github.com/i474232898/weather-forecast-bot/internal/config"
	"github.com/i474232898/weather-forecast-bot/internal/forecast"
	"github.com/i474232898/weather-forecast-bot/internal/locale"
	"github.com/i474232898/weather-forecast-bot/internal/metrics"
	"github.com/i474232898/weather-forecast-bot/internal/publisher"
	"github.com/i474232898/weather-forecast-bot/internal/scheduler"
	"github.com/i474232898/weather-forecast-bot/internal/telegram"
	"github.com/i474232898/weather-forecast-bot/internal/weather/providers"
)

// defaultFatalPause applies when configuration could not be read at all.
const defaultFatalPause = 60 * time.Second

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fatal(defaultFatalPause, "failed to load config: %v", err)
	}

	text, err := locale.Load(cfg.Locale, cfg.LocaleFile)
	if err != nil {
		fatal(cfg.FatalPause, "failed to load locale: %v", err)
	}

	// Shared HTTP client for outbound provider and Telegram calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider, err := providers.New(cfg.Provider, httpClient, providers.Options{
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		WeatherAPIKey:     cfg.WeatherAPIKey,
		OpenMeteoURL:      cfg.OpenMeteoURL,
		Lang:              text.APILang,
		Days:              cfg.ForecastDays + 1,
		WMODescriptions:   text.WMO,
	})
	if err != nil {
		fatal(cfg.FatalPause, "failed to create provider: %v", err)
	}

	bot := telegram.NewClient(httpClient, cfg.TelegramToken, cfg.TelegramBaseURL, cfg.TelegramRPS)
	m := metrics.New()

	fc := forecast.DefaultConfig(cfg.ForecastTimezone)
	fc.NightHour = cfg.NightHour
	fc.DayHour = cfg.DayHour
	fc.Days = cfg.ForecastDays

	// Core service: fetch, bucketize, render, deliver.
	service := publisher.NewService(provider, bot, text, publisher.Config{
		Location:  cfg.Location,
		PlaceIn:   cfg.PlaceIn,
		ChatID:    cfg.TelegramChatID,
		ParseMode: cfg.ParseMode,
		Forecast:  fc,
	}, m)

	sched := scheduler.New(service, scheduler.Options{
		Location:   cfg.Timezone,
		CronSpecs:  cfg.ScheduleCron,
		Interval:   cfg.ScheduleInterval,
		RunOnStart: cfg.RunOnStart,
		RunTimeout: cfg.RunTimeout,
	})
	if err := sched.Start(); err != nil {
		fatal(cfg.FatalPause, "failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	log.Printf("INFO: publishing %d-day forecast for %s to %s via %s",
		cfg.ForecastDays, cfg.Location.Key(), cfg.TelegramChatID, provider.Name())

	app := fiber.New(fiber.Config{
		AppName:               "weather-forecast-bot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-forecast-bot",
		})
	})

	httpapi.RegisterRoutes(app, service, m)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Println("INFO: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// fatal logs a startup error and waits before exiting so a supervisor that
// restarts the process does not spin.
func fatal(pause time.Duration, format string, args ...any) {
	log.Printf("FATAL: "+format, args...)
	time.Sleep(pause)
	os.Exit(1)
}
