package resend

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/address"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

// ProviderName identifies Resend in logs and metrics.
const ProviderName = "resend"

// successStatus is reported on deliveries; the Resend client does not expose the HTTP status.
const successStatus = 200

var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("resend api key is required")

	// ErrTooManyReplyTo indicates more than one reply-to address was given.
	ErrTooManyReplyTo = errors.New("resend: only one reply-to address is allowed")

	// ErrInvalidAttachment indicates an attachment that could not be decoded.
	ErrInvalidAttachment = errors.New("resend: invalid attachment")
)

// emailSender is the subset of the Resend client used by Sender.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	emails emailSender
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Sender{
		emails: resend.NewClient(cfg.APIKey).Emails,
		config: cfg,
	}, nil
}

// Name implements mailer.NamedSender.
func (s *Sender) Name() string {
	return ProviderName
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) (*mailer.Delivery, error) {
	req, err := s.request(msg)
	if err != nil {
		return nil, err
	}

	resp, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, errors.Join(mailer.ErrSendFailed, fmt.Errorf("resend: %w", err))
	}

	delivery := &mailer.Delivery{StatusCode: successStatus}
	if resp != nil {
		delivery.MessageID = resp.Id
	}
	return delivery, nil
}

// request converts msg into a Resend API request.
func (s *Sender) request(msg *mailer.Message) (*resend.SendEmailRequest, error) {
	if msg == nil {
		return nil, mailer.ErrNilMessage
	}
	if len(msg.ReplyTo) > 1 {
		return nil, ErrTooManyReplyTo
	}

	req := &resend.SendEmailRequest{
		From:    s.from(msg.From),
		To:      msg.To,
		Subject: msg.Subject,
		Cc:      msg.CC,
		Bcc:     msg.BCC,
		Html:    htmlBody(msg),
		Text:    textBody(msg),
	}

	if len(msg.ReplyTo) == 1 {
		req.ReplyTo = msg.ReplyTo[0]
	}
	if len(msg.Headers) > 0 {
		req.Headers = maps.Clone(msg.Headers)
	}
	if msg.SendAt != nil {
		req.ScheduledAt = time.Unix(*msg.SendAt, 0).UTC().Format(time.RFC3339)
	}

	if len(msg.Attachments) > 0 {
		attachments, err := convertAttachments(msg.Attachments)
		if err != nil {
			return nil, err
		}
		req.Attachments = attachments
	}

	req.Tags = convertTags(msg.Categories, msg.CustomArgs)

	return req, nil
}

func (s *Sender) from(from string) string {
	if from != "" {
		return from
	}
	return address.Format(s.config.SenderName, s.config.SenderEmail)
}

// htmlBody returns the first HTML rendering of the message, if any.
func htmlBody(msg *mailer.Message) string {
	for _, alt := range msg.Alternatives {
		if alt.MIMEType == mailer.MIMETextHTML {
			return alt.Content
		}
	}
	if msg.IsHTML() {
		return msg.Body
	}
	return ""
}

func textBody(msg *mailer.Message) string {
	if msg.IsHTML() && !msg.HasAlternatives() {
		return ""
	}
	return msg.Body
}

func convertAttachments(attachments []mailer.Attachment) ([]*resend.Attachment, error) {
	result := make([]*resend.Attachment, 0, len(attachments))
	for i, a := range attachments {
		var att *resend.Attachment
		switch a := a.(type) {
		case mailer.File:
			att = fileAttachment(a)
		case *mailer.File:
			if a != nil {
				att = fileAttachment(*a)
			}
		case mailer.Part:
			converted, err := partAttachment(a)
			if err != nil {
				return nil, fmt.Errorf("attachment %d: %w", i, err)
			}
			att = converted
		case *mailer.Part:
			if a != nil {
				converted, err := partAttachment(*a)
				if err != nil {
					return nil, fmt.Errorf("attachment %d: %w", i, err)
				}
				att = converted
			}
		}
		if att == nil {
			return nil, fmt.Errorf("%w: attachment %d has type %T", ErrInvalidAttachment, i, a)
		}
		result = append(result, att)
	}
	return result, nil
}

func fileAttachment(f mailer.File) *resend.Attachment {
	return &resend.Attachment{
		Filename:    f.Filename,
		Content:     f.Content,
		ContentType: f.ContentType,
	}
}

func partAttachment(p mailer.Part) (*resend.Attachment, error) {
	content, err := p.Bytes()
	if err != nil {
		return nil, errors.Join(ErrInvalidAttachment, err)
	}
	return &resend.Attachment{
		Filename:    p.Filename(),
		Content:     content,
		ContentType: p.ContentType(),
		ContentId:   strings.Trim(p.ContentID(), "<>"),
	}, nil
}

// convertTags maps categories to presence-only tags and custom args to
// valued tags. Custom args are emitted in key order.
func convertTags(categories []string, customArgs map[string]string) []resend.Tag {
	if len(categories) == 0 && len(customArgs) == 0 {
		return nil
	}
	tags := make([]resend.Tag, 0, len(categories)+len(customArgs))
	for _, c := range categories {
		tags = append(tags, resend.Tag{Name: c, Value: "true"})
	}
	for _, k := range slices.Sorted(maps.Keys(customArgs)) {
		tags = append(tags, resend.Tag{Name: k, Value: customArgs[k]})
	}
	return tags
}
