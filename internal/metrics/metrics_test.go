package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancesDoNotShareState(t *testing.T) {
	a, b := New(), New()
	a.Runs.WithLabelValues("ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Runs.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Runs.WithLabelValues("ok")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.MissingSlots.Add(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "forecast_missing_reference_slots_total 2")
	assert.Contains(t, string(body), "go_goroutines")
}
