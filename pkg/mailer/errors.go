package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMessage indicates a nil message was passed for sending.
	ErrNilMessage = errors.New("message must not be nil")

	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrSendFailed indicates the provider could not deliver the message.
	ErrSendFailed = errors.New("failed to send email")

	// ErrEchoFailed indicates the diagnostic echo could not be written.
	ErrEchoFailed = errors.New("failed to echo email")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)

// IsTransportError reports whether err is a delivery failure, as opposed to
// a problem with the message itself.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrSendFailed)
}

// SendError is a delivery failure for one message of a batch.
type SendError struct {
	Err   error
	Index int // Position of the message in the batch
}

func (e *SendError) Error() string {
	return fmt.Sprintf("message %d: %v", e.Index, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
