package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-forecast-bot/internal/forecast"
	"github.com/i474232898/weather-forecast-bot/internal/metrics"
	"github.com/i474232898/weather-forecast-bot/internal/publisher"
)

type stubComposer struct {
	lastDays int
	err      error
}

func (s *stubComposer) Compose(ctx context.Context, days int) (publisher.Composition, error) {
	s.lastDays = days
	if s.err != nil {
		return publisher.Composition{}, s.err
	}
	n := days
	if n == 0 {
		n = 5
	}
	return publisher.Composition{
		Text:        "🌤 forecast",
		Window:      make(forecast.Window, n),
		Samples:     40,
		GeneratedAt: time.Date(2024, time.January, 1, 7, 0, 0, 0, time.UTC),
	}, nil
}

func newApp(c Composer) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, c, metrics.New())
	return app
}

// TestPreviewDaysValidation verifies that the preview endpoint enforces the
// expected 0-7 range for the `days` query parameter.
func TestPreviewDaysValidation(t *testing.T) {
	app := newApp(&stubComposer{})

	for _, target := range []string{
		"/api/v1/forecast/preview?days=8",
		"/api/v1/forecast/preview?days=-1",
		"/api/v1/forecast/preview?days=abc",
		"/api/v1/forecast/preview?format=xml",
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestPreviewJSON(t *testing.T) {
	stub := &stubComposer{}
	app := newApp(stub)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecast/preview?days=3", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Days    int    `json:"days"`
		Samples int    `json:"samples"`
		Text    string `json:"text"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, stub.lastDays)
	assert.Equal(t, 3, body.Days)
	assert.Equal(t, 40, body.Samples)
	assert.Equal(t, "🌤 forecast", body.Text)
}

func TestPreviewText(t *testing.T) {
	app := newApp(&stubComposer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecast/preview?format=text", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "🌤 forecast", string(raw))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}

func TestPreviewFetchFailure(t *testing.T) {
	app := newApp(&stubComposer{err: errors.Join(publisher.ErrFetch, errors.New("timeout"))})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecast/preview", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp(&stubComposer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "forecast_delivery_failures_total")
}
