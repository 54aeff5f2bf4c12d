package cli

import (
	"github.com/dmitrymomot/sendgrid-mailer/internal/config"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer/resend"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer/sendgrid"
)

func (a *app) newSender() (mailer.Sender, error) {
	if a.cfg.Provider == config.ProviderResend {
		s, err := resend.New(a.cfg.Resend)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := sendgrid.New(a.cfg.SendGridConfig(), sendgrid.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) newMailer(echo bool, opts ...mailer.Option) (*mailer.Mailer, error) {
	sender, err := a.newSender()
	if err != nil {
		return nil, err
	}

	opts = append(opts,
		mailer.WithLogger(a.logger),
		mailer.WithMetrics(a.metrics),
	)
	if echo || a.cfg.SendGrid.EchoToStdout {
		opts = append(opts, mailer.WithEcho(a.stdout))
	}

	return mailer.New(sender, a.cfg.MailerConfig(), opts...), nil
}
