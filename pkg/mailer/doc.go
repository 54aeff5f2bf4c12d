// Package mailer provides a provider-agnostic e-mail message model and a
// Mailer that sends messages through a pluggable provider.
//
// # Architecture
//
//   - Message: the outbound e-mail, with explicit optional fields
//   - Sender: interface that providers implement (see the sendgrid and resend subpackages)
//   - Mailer: sends batches sequentially and records each provider answer on the message
//   - Renderer: turns markdown templates with YAML frontmatter into message bodies
//
// # Usage
//
//	sender, err := sendgrid.New(sendgrid.Config{
//		APIKey:     os.Getenv("SENDGRID_API_KEY"),
//		TrackOpens: true,
//	})
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(sender, mailer.Config{FailSilently: true},
//		mailer.WithLogger(log),
//		mailer.WithEcho(os.Stdout),
//	)
//
//	msg := &mailer.Message{
//		From:    "Team <team@example.com>",
//		To:      []string{"user@example.com"},
//		Subject: "Welcome",
//		Body:    "Hello!",
//	}
//	msg.AttachAlternative("<p>Hello!</p>", mailer.MIMETextHTML)
//
//	result, err := m.SendMessages(ctx, msg)
//	// result.Sent == 1, msg.Delivery.MessageID holds the provider id
//
// # Attachments
//
// An Attachment is either a File (filename, raw content, type) or a Part
// (MIME headers plus a base64 payload):
//
//	msg.Attach(mailer.TextFile("notes.txt", "hello", "text/plain"))
//	msg.Attach(mailer.NewPart("image/png", "", pngBytes).WithContentID("logo"))
//
// # Failure Handling
//
// Message validation errors always stop a batch. Delivery failures wrap
// ErrSendFailed; with Config.FailSilently they are collected in
// Result.Suppressed and the remaining messages are still sent.
//
// # Echo
//
// WithEcho writes every message, serialized as MIME text and followed by a
// 79-character separator line, before sending. Writes from concurrent
// SendMessages calls never interleave.
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter:
//
//	---
//	Subject: Welcome {{.Name}}!
//	Categories: [onboarding]
//	---
//
//	# Welcome
//
//	Hello {{.Name}}, welcome to our service!
//
// Use Mailer.SendTemplate with WithRenderer to render and send in one step.
package mailer
