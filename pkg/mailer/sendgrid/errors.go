package sendgrid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPoolName indicates the IP pool name is not 2 to 64 characters long.
	ErrInvalidPoolName = errors.New("ip pool name must be between 2 and 64 characters")

	// ErrInvalidSendAt indicates the scheduled send time is not an integer epoch value.
	ErrInvalidSendAt = errors.New("send_at must be an integer unix timestamp")

	// ErrReplyToConflict indicates the Reply-To header and the reply-to field disagree.
	ErrReplyToConflict = errors.New("reply-to header does not match reply-to field")

	// ErrTooManyReplyTo indicates more than one reply-to address was given.
	ErrTooManyReplyTo = errors.New("only one reply-to address is allowed")

	// ErrMissingSubscriptionGroup indicates an ASM descriptor without a group id.
	ErrMissingSubscriptionGroup = errors.New("asm group_id is required")

	// ErrInvalidAttachment indicates an attachment of an unknown shape.
	ErrInvalidAttachment = errors.New("invalid attachment")

	// ErrInvalidPayload indicates the payload cannot be encoded as JSON.
	ErrInvalidPayload = errors.New("sendgrid payload cannot be encoded")

	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("sendgrid api key is required")

	// ErrTransport indicates the request to the SendGrid API failed.
	ErrTransport = errors.New("sendgrid request failed")
)

// TransportError describes a failed call to the SendGrid API: either the
// request could not be made (Err set) or the API answered with an error status.
type TransportError struct {
	Err        error
	Body       string
	StatusCode int
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
	}
	return fmt.Sprintf("%v: status %d: %s", ErrTransport, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) match any TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
