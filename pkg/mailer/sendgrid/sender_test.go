package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

// MockClient is a mock implementation of Client interface.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Post(ctx context.Context, p *Payload) (*Response, error) {
	args := m.Called(ctx, p)
	resp, _ := args.Get(0).(*Response)
	return resp, args.Error(1)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	s, err := New(DefaultConfig())
	require.ErrorIs(t, err, ErrMissingAPIKey)
	require.Nil(t, s)

	cfg := DefaultConfig()
	cfg.APIKey = "key"
	s, err = New(cfg)
	require.NoError(t, err)
	require.IsType(t, &APIClient{}, s.client)

	s, err = New(DefaultConfig(), WithClient(&MockClient{}))
	require.NoError(t, err)
	require.Equal(t, ProviderName, s.Name())
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	s, err := New(DefaultConfig(), WithClient(client), WithLogger(nil))
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("X-Message-Id", "sg-1")
	client.On("Post", mock.Anything, mock.MatchedBy(func(p *Payload) bool {
		return p.Subject == "Welcome" && len(p.Personalizations) == 1
	})).Return(&Response{StatusCode: http.StatusAccepted, Headers: headers}, nil).Once()

	msg := newTestMessage()
	delivery, err := s.Send(context.Background(), msg)

	require.NoError(t, err)
	require.Equal(t, &mailer.Delivery{StatusCode: http.StatusAccepted, MessageID: "sg-1"}, delivery)
	require.Equal(t, mailer.Delivery{}, msg.Delivery, "sender leaves metadata to the mailer")
	client.AssertExpectations(t)
}

func TestSender_Send_ValidationErrorSkipsTransport(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	s, err := New(DefaultConfig(), WithClient(client))
	require.NoError(t, err)

	msg := newTestMessage()
	msg.ReplyTo = []string{"a@example.com", "b@example.com"}

	_, err = s.Send(context.Background(), msg)

	require.ErrorIs(t, err, ErrTooManyReplyTo)
	require.False(t, mailer.IsTransportError(err))
	client.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)
}

func TestSender_Send_TransportError(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	s, err := New(DefaultConfig(), WithClient(client))
	require.NoError(t, err)

	client.On("Post", mock.Anything, mock.Anything).
		Return(nil, &TransportError{StatusCode: http.StatusUnauthorized, Body: "unauthorized"})

	_, err = s.Send(context.Background(), newTestMessage())

	require.ErrorIs(t, err, mailer.ErrSendFailed)
	require.ErrorIs(t, err, ErrTransport)
	require.True(t, mailer.IsTransportError(err))
}

func TestSender_Send_UnencodableTemplateData(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	s, err := New(DefaultConfig(), WithClient(client))
	require.NoError(t, err)

	msg := newTestMessage()
	msg.TemplateID = "d-123"
	msg.DynamicTemplateData = map[string]any{"score": math.NaN()}

	_, err = s.Send(context.Background(), msg)
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.False(t, mailer.IsTransportError(err))
	client.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)

	m := mailer.New(s, mailer.Config{FailSilently: true})
	result, err := m.SendMessages(context.Background(), msg)
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.Zero(t, result.Sent)
	require.Empty(t, result.Suppressed)
}

func TestSender_Send_ClientErrorWithoutTransport(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	s, err := New(DefaultConfig(), WithClient(client))
	require.NoError(t, err)

	client.On("Post", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: json: unsupported value: NaN", ErrInvalidPayload))

	_, err = s.Send(context.Background(), newTestMessage())
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.NotErrorIs(t, err, mailer.ErrSendFailed)
}

func TestSender_WithMailer(t *testing.T) {
	t.Parallel()

	client := &MockClient{}
	s, err := New(DefaultConfig(), WithClient(client))
	require.NoError(t, err)

	ok := newTestMessage()
	bad := newTestMessage()
	bad.Subject = "bounce"

	client.On("Post", mock.Anything, mock.MatchedBy(func(p *Payload) bool { return p.Subject == "bounce" })).
		Return(nil, &TransportError{Err: errors.New("connection reset")})
	client.On("Post", mock.Anything, mock.Anything).
		Return(&Response{StatusCode: http.StatusAccepted, Headers: http.Header{}}, nil)

	m := mailer.New(s, mailer.Config{FailSilently: true})
	result, err := m.SendMessages(context.Background(), ok, bad, ok)

	require.NoError(t, err)
	require.Equal(t, 2, result.Sent)
	require.Len(t, result.Suppressed, 1)
	require.Equal(t, 1, result.Suppressed[0].Index)
	require.Equal(t, http.StatusAccepted, ok.Delivery.StatusCode)
	require.Zero(t, bad.Delivery.StatusCode)

	m = mailer.New(s, mailer.Config{})
	_, err = m.SendMessages(context.Background(), bad)
	require.ErrorIs(t, err, ErrTransport)
}
