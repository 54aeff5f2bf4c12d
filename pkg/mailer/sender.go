package mailer

import "context"

// Sender defines the interface that e-mail providers implement.
// It accepts a Message and handles the actual delivery.
type Sender interface {
	// Send delivers the message and returns the provider's answer.
	// Implementations must not modify msg; the Mailer records the Delivery.
	// Transport failures are wrapped with ErrSendFailed so callers can tell
	// them apart from message validation errors.
	Send(ctx context.Context, msg *Message) (*Delivery, error)
}

// NamedSender is implemented by senders that report a provider name for
// logs and metrics.
type NamedSender interface {
	Sender
	Name() string
}

func senderName(s Sender) string {
	if n, ok := s.(NamedSender); ok {
		return n.Name()
	}
	return "unknown"
}
