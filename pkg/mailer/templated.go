package mailer

import (
	"bytes"
	"context"
	"errors"
	texttemplate "text/template"
)

// TemplateParams contains parameters for sending a templated email.
type TemplateParams struct {
	Data     any    // Template data
	Template string // Template filename (e.g., "welcome.md")

	// Optional overrides
	Subject     string       // Override template subject
	Layout      string       // Override default layout
	From        string       // Sender address
	To          []string     // Recipients (at least one required)
	ReplyTo     []string     // Reply-to address
	CC          []string     // Carbon copy
	BCC         []string     // Blind carbon copy
	Categories  []string     // Added after the template's categories
	Attachments []Attachment // File attachments
}

// SendTemplate renders a template into a Message and sends it.
// The markdown becomes the plain text body and the rendered layout its
// HTML alternative. Subject resolution: params.Subject > frontmatter >
// config fallback.
func (m *Mailer) SendTemplate(ctx context.Context, params TemplateParams) (*Message, *Result, error) {
	msg, err := m.RenderMessage(params)
	if err != nil {
		return nil, nil, err
	}
	result, err := m.SendMessages(ctx, msg)
	return msg, result, err
}

// RenderMessage renders a template into a Message without sending it.
func (m *Mailer) RenderMessage(params TemplateParams) (*Message, error) {
	if len(params.To) == 0 {
		return nil, ErrNoRecipient
	}
	if m.renderer == nil {
		return nil, errors.Join(ErrRenderFailed, errors.New("no renderer configured"))
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		subject = result.Frontmatter.Subject
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}

	// Subjects may reference template data ({{.Name}})
	subject, err = processSubject(subject, params.Data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	msg := &Message{
		From:        params.From,
		To:          params.To,
		CC:          params.CC,
		BCC:         params.BCC,
		ReplyTo:     params.ReplyTo,
		Subject:     subject,
		Body:        result.Text,
		Attachments: params.Attachments,
	}
	msg.AttachAlternative(result.HTML, MIMETextHTML)
	msg.Categories = append(append(msg.Categories, result.Frontmatter.Categories...), params.Categories...)

	return msg, nil
}

func processSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
