package sywclient

import (
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts calls by method and outcome kind, and records their
// latency.  Install it with the WithMetrics option.  One Metrics can be
// shared by several Clients.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.  If reg is
// nil they are not registered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syw",
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Platform API calls, by method and outcome kind.",
		}, []string{"method", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "syw",
			Subsystem: "client",
			Name:      "call_duration_seconds",
			Help:      "Platform API call latency, including reading the body.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.calls, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, merry.Prepend(err, "registering metrics")
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(method string, kind Kind, d time.Duration) {
	method = strings.ToUpper(method)
	if method != MethodGet && method != MethodPost {
		method = "OTHER"
	}
	m.calls.WithLabelValues(method, kind.String()).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}
