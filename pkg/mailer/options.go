package mailer

import (
	"io"
	"log/slog"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/metrics"
)

// Option configures the Mailer.
type Option func(*Mailer)

// WithLogger sets the mailer logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRenderer sets the template renderer used by SendTemplate.
func WithRenderer(r *Renderer) Option {
	return func(m *Mailer) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithEcho writes every outgoing message to w before it is sent,
// each followed by a separator line. Writes are serialized across
// goroutines sharing the Mailer.
func WithEcho(w io.Writer) Option {
	return func(m *Mailer) {
		if w != nil {
			m.echo = w
		}
	}
}

// WithMetrics records delivery metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Mailer) {
		if c != nil {
			m.metrics = c
		}
	}
}
