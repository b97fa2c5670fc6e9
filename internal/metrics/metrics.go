// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the server's collectors. Each Server registers its own set
// so tests can run side by side without a shared default registry.
type Metrics struct {
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	SessionsCreatedTotal       prometheus.Counter
	PuttsRecordedTotal         prometheus.Counter
	PuttUpdatesTotal           *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "putter_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "putter_http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SessionsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "putter_sessions_created_total",
			Help: "Total number of practice sessions created.",
		}),
		PuttsRecordedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "putter_putts_recorded_total",
			Help: "Total number of putt records added.",
		}),
		PuttUpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "putter_putt_updates_total",
				Help: "Total number of putt record updates by result.",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.SessionsCreatedTotal,
		m.PuttsRecordedTotal,
		m.PuttUpdatesTotal,
	)
	return m
}
