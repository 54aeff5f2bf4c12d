// Package sendgrid delivers mailer messages through the SendGrid v3 mail/send API.
//
// A Builder turns a *mailer.Message into a Payload. Structural problems, such
// as an IP pool name of the wrong length, two reply-to addresses, or an ASM
// block without a group id, are reported as errors before any request is made.
// The Sender posts the payload with the official sendgrid-go client and
// returns the status code and X-Message-Id as a mailer.Delivery.
//
//	sender, err := sendgrid.New(sendgrid.Config{APIKey: key})
//	if err != nil {
//		return err
//	}
//	m := mailer.New(sender, mailer.Config{})
//	res, err := m.Send(ctx, msg)
package sendgrid
