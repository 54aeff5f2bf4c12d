package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/logger"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/metrics"
)

// Mailer sends messages through a Sender, one at a time, and records the
// provider's answer on each message.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	logger   *slog.Logger
	metrics  *metrics.Collector
	echo     io.Writer
	config   Config

	echoMu sync.Mutex
}

// New creates a new Mailer with the given sender.
func New(sender Sender, cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		sender: sender,
		config: cfg,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Result summarises a batch send.
type Result struct {
	Suppressed []*SendError // Delivery failures swallowed in fail-silently mode
	Sent       int          // Messages accepted by the provider
}

// Err joins the suppressed errors, or returns nil if there were none.
func (r *Result) Err() error {
	if len(r.Suppressed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Suppressed))
	for i, e := range r.Suppressed {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Send sends a single message. See SendMessages.
func (m *Mailer) Send(ctx context.Context, msg *Message) (*Result, error) {
	return m.SendMessages(ctx, msg)
}

// SendMessages sends each message in order and returns how many were
// accepted. On success, the message's Delivery is filled in.
//
// Message validation errors stop the batch and are returned. Delivery
// failures are returned too, unless Config.FailSilently is set, in which
// case they are collected in Result.Suppressed and the batch continues.
func (m *Mailer) SendMessages(ctx context.Context, msgs ...*Message) (*Result, error) {
	result := &Result{}
	if len(msgs) == 0 {
		return result, nil
	}

	for i, msg := range msgs {
		if msg == nil {
			return result, &SendError{Index: i, Err: ErrNilMessage}
		}
	}

	if m.echo != nil {
		if err := m.echoMessages(msgs); err != nil {
			if !m.config.FailSilently {
				return result, err
			}
			m.logger.WarnContext(ctx, "echo failed", slog.String("error", err.Error()))
		}
	}

	provider := senderName(m.sender)
	for i, msg := range msgs {
		msgCtx := logger.WithMessageIndex(ctx, i)
		start := time.Now()

		delivery, err := m.sender.Send(msgCtx, msg)
		if err != nil {
			if !IsTransportError(err) {
				m.metrics.ObserveFailed(provider, metrics.ReasonValidation, time.Since(start))
				return result, &SendError{Index: i, Err: err}
			}

			m.metrics.ObserveFailed(provider, metrics.ReasonTransport, time.Since(start))
			if !m.config.FailSilently {
				return result, &SendError{Index: i, Err: err}
			}

			m.metrics.ObserveSuppressed(provider)
			m.logger.WarnContext(msgCtx, "delivery failed, continuing",
				slog.String("provider", provider),
				slog.String("error", err.Error()),
			)
			result.Suppressed = append(result.Suppressed, &SendError{Index: i, Err: err})
			continue
		}

		if delivery != nil {
			msg.Delivery = *delivery
		}
		result.Sent++
		m.metrics.ObserveSent(provider, time.Since(start))

		m.logger.DebugContext(msgCtx, "message sent",
			slog.String("provider", provider),
			slog.Int("recipients", len(msg.Recipients())),
			slog.Int("status", msg.Delivery.StatusCode),
			slog.String("provider_message_id", msg.Delivery.MessageID),
		)
	}

	return result, nil
}
