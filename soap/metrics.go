package soap

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spire_client_requests_total",
			Help: "SOAP calls by namespace and outcome.",
		}, []string{"namespace", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spire_client_request_duration_seconds",
			Help:    "Time from sending a SOAP request to a classified result.",
			Buckets: prometheus.DefBuckets,
		}, []string{"namespace"}),
	}
	m.requests = register(reg, m.requests)
	m.duration = register(reg, m.duration)
	return m
}

// register returns the collector already registered under the same
// descriptor, so several clients can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(namespace string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(namespace, outcome(err)).Inc()
	m.duration.WithLabelValues(namespace).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind.String()
	}
	return "unknown"
}
