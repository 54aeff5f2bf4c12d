// Package metrics exposes Prometheus counters for outbound e-mail delivery.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons used for the reason label.
const (
	ReasonValidation = "validation"
	ReasonTransport  = "transport"
)

// Collector records delivery metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	sent       *prometheus.CounterVec
	failed     *prometheus.CounterVec
	suppressed *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New registers the mailer metrics on reg.
// Pass prometheus.DefaultRegisterer to expose them on the global registry.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		sent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailer_messages_sent_total",
				Help: "Total number of messages accepted by the provider",
			},
			[]string{"provider"},
		),
		failed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailer_messages_failed_total",
				Help: "Total number of messages that could not be sent",
			},
			[]string{"provider", "reason"},
		),
		suppressed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailer_messages_suppressed_total",
				Help: "Total number of delivery failures suppressed by fail-silently mode",
			},
			[]string{"provider"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailer_send_duration_seconds",
				Help:    "Duration of a single provider send in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
}

// ObserveSent records a successful send.
func (c *Collector) ObserveSent(provider string, d time.Duration) {
	if c == nil {
		return
	}
	c.sent.WithLabelValues(provider).Inc()
	c.duration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveFailed records a failed send.
func (c *Collector) ObserveFailed(provider, reason string, d time.Duration) {
	if c == nil {
		return
	}
	c.failed.WithLabelValues(provider, reason).Inc()
	c.duration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveSuppressed records a failure that was not returned to the caller.
func (c *Collector) ObserveSuppressed(provider string) {
	if c == nil {
		return
	}
	c.suppressed.WithLabelValues(provider).Inc()
}
