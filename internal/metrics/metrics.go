// Package metrics exposes Prometheus counters for scheduled forecast runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	Runs             *prometheus.CounterVec
	FetchFailures    prometheus.Counter
	DeliveryFailures prometheus.Counter
	LastSuccess      prometheus.Gauge
	MessageBytes     prometheus.Gauge
	MissingSlots     prometheus.Counter
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_runs_total",
			Help: "Forecast publishing runs by outcome.",
		}, []string{"outcome"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecast_fetch_failures_total",
			Help: "Forecast provider calls that failed.",
		}),
		DeliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecast_delivery_failures_total",
			Help: "Messages that could not be delivered.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_last_success_timestamp_seconds",
			Help: "Unix time of the last delivered forecast.",
		}),
		MessageBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_message_bytes",
			Help: "Size of the last rendered message.",
		}),
		MissingSlots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecast_missing_reference_slots_total",
			Help: "Dates with samples but no sample at a reference hour.",
		}),
	}
	reg.MustRegister(
		m.Runs, m.FetchFailures, m.DeliveryFailures,
		m.LastSuccess, m.MessageBytes, m.MissingSlots,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
