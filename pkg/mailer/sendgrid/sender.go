package sendgrid

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/logger"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

// ProviderName identifies SendGrid in logs and metrics.
const ProviderName = "sendgrid"

// Sender implements mailer.Sender using the SendGrid v3 API.
type Sender struct {
	client  Client
	builder *Builder
	logger  *slog.Logger
	config  Config
}

// Option configures a Sender.
type Option func(*Sender)

// WithClient replaces the HTTP client. Used in tests and for custom transports.
func WithClient(c Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger for the sender.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a SendGrid sender. An API key is required unless a client
// is supplied with WithClient.
func New(cfg Config, opts ...Option) (*Sender, error) {
	s := &Sender{
		builder: NewBuilder(cfg),
		logger:  logger.NewNope(),
		config:  cfg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.client == nil {
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		s.client = NewAPIClient(cfg.APIKey, cfg.Host)
	}

	if cfg.SandboxMode {
		s.logger.Warn("sendgrid sandbox mode is enabled, messages will not be delivered")
	}

	return s, nil
}

// Name implements mailer.NamedSender.
func (s *Sender) Name() string {
	return ProviderName
}

// Build converts msg into the payload Send would post.
func (s *Sender) Build(msg *mailer.Message) (*Payload, error) {
	return s.builder.Build(msg)
}

// Send implements mailer.Sender. Only transport failures are joined with
// mailer.ErrSendFailed; everything else is returned as-is.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) (*mailer.Delivery, error) {
	payload, err := s.builder.Build(msg)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, payload)
	if err != nil {
		attrs := []any{slog.String("error", err.Error())}
		var te *TransportError
		if errors.As(err, &te) && te.StatusCode != 0 {
			attrs = append(attrs, slog.Int("status", te.StatusCode))
		}
		s.logger.ErrorContext(ctx, "sendgrid request failed", attrs...)
		if !errors.Is(err, ErrTransport) {
			return nil, err
		}
		return nil, errors.Join(mailer.ErrSendFailed, err)
	}

	delivery := &mailer.Delivery{
		StatusCode: resp.StatusCode,
		MessageID:  resp.MessageID(),
	}
	s.logger.DebugContext(ctx, "sendgrid accepted message",
		slog.Int("status", delivery.StatusCode),
		slog.String("message_id", delivery.MessageID),
	)
	return delivery, nil
}
