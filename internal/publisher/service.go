package publisher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/weather-forecast-bot/internal/forecast"
	"github.com/i474232898/weather-forecast-bot/internal/locale"
	"github.com/i474232898/weather-forecast-bot/internal/metrics"
	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

var (
	ErrFetch    = errors.New("forecast fetch failed")
	ErrDelivery = errors.New("forecast delivery failed")
)

// Config is the fixed per-deployment configuration of the channel.
type Config struct {
	Location  weather.Location
	PlaceIn   string
	ChatID    string
	ParseMode string
	Forecast  forecast.Config
}

// Composition is one rendered forecast message and the window it came from.
type Composition struct {
	Text        string
	Window      forecast.Window
	Samples     int
	GeneratedAt time.Time
}

// Service fetches, renders and delivers the forecast message. It keeps no
// state between calls, so concurrent runs need no coordination.
type Service struct {
	provider  weather.ForecastProvider
	deliverer weather.Deliverer
	text      *locale.Text
	cfg       Config
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService creates a new Service. Precipitation keywords default to the
// locale's list when cfg does not set any.
func NewService(provider weather.ForecastProvider, deliverer weather.Deliverer, text *locale.Text, cfg Config, m *metrics.Metrics) *Service {
	if len(cfg.Forecast.PrecipKeywords) == 0 {
		cfg.Forecast.PrecipKeywords = text.PrecipKeywords
	}
	if cfg.Forecast.Location == nil {
		cfg.Forecast.Location = time.UTC
	}
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		provider:  provider,
		deliverer: deliverer,
		text:      text,
		cfg:       cfg,
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to decide the first forecast date.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Compose fetches the forecast and renders it. days overrides the configured
// day count when positive. A fetch failure is returned wrapped in ErrFetch.
func (s *Service) Compose(ctx context.Context, days int) (Composition, error) {
	samples, err := s.provider.FetchForecast(ctx, s.cfg.Location)
	if err != nil {
		s.metrics.FetchFailures.Inc()
		return Composition{}, fmt.Errorf("%w: %s: %w", ErrFetch, s.provider.Name(), err)
	}

	fc := s.cfg.Forecast
	if days > 0 {
		fc.Days = days
	}

	now := s.now().In(fc.Location)
	window := forecast.Bucketize(samples, forecast.DateOf(now), fc)

	for _, b := range window {
		if b.MissingRepresentative() {
			s.metrics.MissingSlots.Inc()
			log.Printf("WARN: service: %s has %d samples but none at %02d:00/%02d:00; rendering placeholder",
				b.Date, b.Samples, fc.NightHour, fc.DayHour)
		}
	}

	text := forecast.Render(window, s.text, forecast.RenderOptions{
		Place:     s.cfg.Location.Name,
		PlaceIn:   s.cfg.PlaceIn,
		ParseMode: s.cfg.ParseMode,
	})

	return Composition{
		Text:        text,
		Window:      window,
		Samples:     len(samples),
		GeneratedAt: now,
	}, nil
}

// Publish composes the configured forecast and delivers it to the channel.
// A delivery failure is returned wrapped in ErrDelivery.
func (s *Service) Publish(ctx context.Context, runID string) error {
	log.Printf("DEBUG: service: run %s publishing forecast for %s via %s", runID, s.cfg.Location.Key(), s.provider.Name())

	comp, err := s.Compose(ctx, 0)
	if err != nil {
		s.metrics.Runs.WithLabelValues("fetch_failed").Inc()
		return err
	}
	s.metrics.MessageBytes.Set(float64(len(comp.Text)))

	if err := s.deliverer.Send(ctx, s.cfg.ChatID, comp.Text, s.cfg.ParseMode); err != nil {
		s.metrics.DeliveryFailures.Inc()
		s.metrics.Runs.WithLabelValues("delivery_failed").Inc()
		return fmt.Errorf("%w: %s: %w", ErrDelivery, s.cfg.ChatID, err)
	}

	s.metrics.Runs.WithLabelValues("ok").Inc()
	s.metrics.LastSuccess.Set(float64(s.now().Unix()))
	log.Printf("INFO: service: run %s delivered %d samples as %d bytes to %s", runID, comp.Samples, len(comp.Text), s.cfg.ChatID)
	return nil
}
