package sendgrid

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/address"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

const (
	minPoolNameLength = 2
	maxPoolNameLength = 64

	replyToHeader = "reply-to"

	// emptyContent replaces empty body parts, which SendGrid rejects.
	emptyContent = " "
)

// Builder converts mailer messages into SendGrid payloads.
// It reads its Config but never modifies it, so one Builder can be shared.
type Builder struct {
	config Config
}

// NewBuilder creates a Builder using the settings in cfg.
func NewBuilder(cfg Config) *Builder {
	return &Builder{config: cfg}
}

// Build converts msg into a payload. msg is not modified.
// Structural problems are reported before anything is sent; see the Err*
// variables for the possible failures.
func (b *Builder) Build(msg *mailer.Message) (*Payload, error) {
	if msg == nil {
		return nil, mailer.ErrNilMessage
	}

	p := &Payload{
		From:    toEmail(address.Parse(msg.From)),
		Subject: msg.Subject,
	}

	pers := &Personalization{
		Subject: msg.Subject,
		To:      toEmails(msg.To),
		CC:      toEmails(msg.CC),
		BCC:     toEmails(msg.BCC),
	}

	if len(msg.CustomArgs) > 0 {
		pers.CustomArgs = maps.Clone(msg.CustomArgs)
	}

	// Headers are walked in sorted order so the result does not depend on map iteration.
	for _, name := range slices.Sorted(maps.Keys(msg.Headers)) {
		value := msg.Headers[name]
		if strings.EqualFold(name, replyToHeader) {
			replyTo := toEmail(address.Parse(value))
			p.ReplyTo = &replyTo
			continue
		}
		if pers.Headers == nil {
			pers.Headers = make(map[string]string, len(msg.Headers))
		}
		pers.Headers[name] = value
	}

	if msg.TemplateID != "" {
		p.TemplateID = msg.TemplateID
		if len(msg.Substitutions) > 0 {
			pers.Substitutions = maps.Clone(msg.Substitutions)
		}
		if msg.DynamicTemplateData != nil {
			if _, err := json.Marshal(msg.DynamicTemplateData); err != nil {
				return nil, fmt.Errorf("%w: dynamic template data: %v", ErrInvalidPayload, err)
			}
			pers.DynamicTemplateData = msg.DynamicTemplateData
		}
	}

	if msg.IPPoolName != nil {
		poolName := *msg.IPPoolName
		if n := utf8.RuneCountInString(poolName); n < minPoolNameLength || n > maxPoolNameLength {
			return nil, fmt.Errorf("%w: got %d characters", ErrInvalidPoolName, n)
		}
		p.IPPoolName = poolName
	}

	if msg.SendAt != nil {
		sendAt := *msg.SendAt
		pers.SendAt = &sendAt
	}

	p.Personalizations = []*Personalization{pers}

	if err := resolveReplyTo(p, msg.ReplyTo); err != nil {
		return nil, err
	}

	for i, a := range msg.Attachments {
		att, err := buildAttachment(a)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i, err)
		}
		p.Attachments = append(p.Attachments, att)
	}

	p.Content = buildContent(msg)

	if len(msg.Categories) > 0 {
		p.Categories = slices.Clone(msg.Categories)
	}

	if msg.ASM != nil {
		if msg.ASM.GroupID <= 0 {
			return nil, ErrMissingSubscriptionGroup
		}
		p.ASM = &ASM{GroupID: msg.ASM.GroupID}
		if len(msg.ASM.GroupsToDisplay) > 0 {
			p.ASM.GroupsToDisplay = slices.Clone(msg.ASM.GroupsToDisplay)
		}
	}

	p.MailSettings = &MailSettings{
		SandboxMode: newSetting(b.config.SandboxMode),
	}
	p.TrackingSettings = &TrackingSettings{
		OpenTracking:         newSetting(b.config.TrackOpens),
		ClickTracking:        newSetting(b.config.TrackClicks),
		SubscriptionTracking: newSetting(b.config.SubscriptionTracking),
	}

	return p, nil
}

// resolveReplyTo merges the explicit reply-to list into a payload that may
// already carry a reply-to taken from the headers. The two must agree.
func resolveReplyTo(p *Payload, replyTo []string) error {
	if len(replyTo) == 0 {
		return nil
	}
	if len(replyTo) > 1 {
		return fmt.Errorf("%w: got %d", ErrTooManyReplyTo, len(replyTo))
	}

	explicit := toEmail(address.Parse(replyTo[0]))
	if p.ReplyTo != nil && *p.ReplyTo != explicit {
		return fmt.Errorf("%w: header %q, field %q", ErrReplyToConflict, p.ReplyTo.Email, explicit.Email)
	}
	p.ReplyTo = &explicit
	return nil
}

// buildContent orders body parts as text/plain first, then HTML.
// Alternatives other than text/html are dropped.
func buildContent(msg *mailer.Message) []Content {
	body := msg.Body
	if body == "" {
		body = emptyContent
	}

	switch {
	case msg.HasAlternatives():
		content := []Content{{Type: mailer.MIMETextPlain, Value: body}}
		for _, alt := range msg.Alternatives {
			if alt.MIMEType != mailer.MIMETextHTML {
				continue
			}
			value := alt.Content
			if value == "" {
				value = emptyContent
			}
			content = append(content, Content{Type: alt.MIMEType, Value: value})
		}
		return content
	case msg.IsHTML():
		return []Content{
			{Type: mailer.MIMETextPlain, Value: emptyContent},
			{Type: mailer.MIMETextHTML, Value: body},
		}
	default:
		return []Content{{Type: mailer.MIMETextPlain, Value: body}}
	}
}

func toEmail(a address.Address) Email {
	return Email{Email: a.Email, Name: a.Name}
}

func toEmails(list []string) []Email {
	if len(list) == 0 {
		return nil
	}
	parsed := address.ParseList(list)
	result := make([]Email, len(parsed))
	for i, a := range parsed {
		result[i] = toEmail(a)
	}
	return result
}
