package sendgrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
)

const (
	mailSendEndpoint = "/v3/mail/send"
	messageIDHeader  = "X-Message-Id"
)

// Client posts payloads to the SendGrid mail/send endpoint.
type Client interface {
	Post(ctx context.Context, p *Payload) (*Response, error)
}

// Response is the SendGrid API answer to a mail/send request.
type Response struct {
	Headers    http.Header
	Body       string
	StatusCode int
}

// MessageID returns the provider message id, or "" when the header is missing.
func (r *Response) MessageID() string {
	if r == nil {
		return ""
	}
	return r.Headers.Get(messageIDHeader)
}

// APIClient is a Client backed by the official sendgrid-go library.
type APIClient struct {
	apiKey string
	host   string
}

// NewAPIClient creates an APIClient. An empty host means DefaultHost.
func NewAPIClient(apiKey, host string) *APIClient {
	if host == "" {
		host = DefaultHost
	}
	return &APIClient{apiKey: apiKey, host: host}
}

// Post implements Client. Network failures and error statuses are returned
// as *TransportError; an unencodable payload is ErrInvalidPayload.
func (c *APIClient) Post(ctx context.Context, p *Payload) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	req := sg.GetRequest(c.apiKey, mailSendEndpoint, c.host)
	req.Method = rest.Post
	req.Body = body

	resp, err := sg.MakeRequestWithContext(ctx, req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	result := &Response{
		Headers:    http.Header(resp.Headers),
		Body:       resp.Body,
		StatusCode: resp.StatusCode,
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return result, &TransportError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	return result, nil
}
