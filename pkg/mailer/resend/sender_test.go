package resend

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

type mockEmails struct {
	mock.Mock
}

func (m *mockEmails) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*resend.SendEmailResponse)
	return resp, args.Error(1)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrMissingAPIKey)

	s, err := New(Config{APIKey: "re_test"})
	require.NoError(t, err)
	require.Equal(t, ProviderName, s.Name())
}

func TestSender_Request(t *testing.T) {
	t.Parallel()

	s := &Sender{config: Config{SenderEmail: "noreply@example.com", SenderName: "Example"}}

	msg := &mailer.Message{
		To:         []string{"alice@example.com"},
		CC:         []string{"bob@example.com"},
		ReplyTo:    []string{"help@example.com"},
		Subject:    "Hi",
		Body:       "plain",
		Headers:    map[string]string{"X-Ref": "1"},
		CustomArgs: map[string]string{"b": "2", "a": "1"},
		Categories: []string{"welcome"},
		SendAt:     mailer.Int64(0),
	}
	msg.AttachAlternative("<p>html</p>", mailer.MIMETextHTML)
	msg.Attach(mailer.TextFile("a.txt", "hello", "text/plain"))
	msg.Attach(mailer.NewPart("image/png", "logo.png", []byte("png")).WithContentID("logo"))

	req, err := s.request(msg)
	require.NoError(t, err)

	assert.Equal(t, "Example <noreply@example.com>", req.From)
	assert.Equal(t, "plain", req.Text)
	assert.Equal(t, "<p>html</p>", req.Html)
	assert.Equal(t, "help@example.com", req.ReplyTo)
	assert.Equal(t, "1970-01-01T00:00:00Z", req.ScheduledAt)
	assert.Equal(t, map[string]string{"X-Ref": "1"}, req.Headers)
	assert.Equal(t, []resend.Tag{
		{Name: "welcome", Value: "true"},
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2"},
	}, req.Tags)

	require.Len(t, req.Attachments, 2)
	assert.Equal(t, []byte("hello"), req.Attachments[0].Content)
	assert.Equal(t, "a.txt", req.Attachments[0].Filename)
	assert.Equal(t, []byte("png"), req.Attachments[1].Content)
	assert.Equal(t, "logo", req.Attachments[1].ContentId)
	assert.Equal(t, "image/png", req.Attachments[1].ContentType)
}

func TestSender_Request_HTMLSubtype(t *testing.T) {
	t.Parallel()

	s := &Sender{}
	req, err := s.request(&mailer.Message{
		From:           "a@example.com",
		To:             []string{"b@example.com"},
		Body:           "<b>hi</b>",
		ContentSubtype: mailer.SubtypeHTML,
	})

	require.NoError(t, err)
	assert.Equal(t, "<b>hi</b>", req.Html)
	assert.Empty(t, req.Text)
	assert.Nil(t, req.Tags)
}

func TestSender_Request_Errors(t *testing.T) {
	t.Parallel()

	s := &Sender{}

	_, err := s.request(nil)
	require.ErrorIs(t, err, mailer.ErrNilMessage)

	_, err = s.request(&mailer.Message{ReplyTo: []string{"a@x.com", "b@x.com"}})
	require.ErrorIs(t, err, ErrTooManyReplyTo)

	_, err = s.request(&mailer.Message{Attachments: []mailer.Attachment{mailer.Part{Payload: "!!not base64"}}})
	require.ErrorIs(t, err, ErrInvalidAttachment)
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	emails := &mockEmails{}
	s := &Sender{emails: emails}
	msg := &mailer.Message{From: "a@example.com", To: []string{"b@example.com"}, Body: "x"}

	emails.On("SendWithContext", mock.Anything, mock.Anything).
		Return(&resend.SendEmailResponse{Id: "re-1"}, nil).Once()

	delivery, err := s.Send(context.Background(), msg)
	require.NoError(t, err)
	require.Equal(t, "re-1", delivery.MessageID)

	emails.On("SendWithContext", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited")).Once()

	_, err = s.Send(context.Background(), msg)
	require.ErrorIs(t, err, mailer.ErrSendFailed)
	require.True(t, mailer.IsTransportError(err))
	emails.AssertExpectations(t)
}
