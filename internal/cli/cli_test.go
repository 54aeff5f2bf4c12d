package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer/sendgrid"
)

const messageFile = `
from: Support <support@example.com>
to: [alice@example.com]
subject: Welcome
body: Hello Alice
---
from: Support <support@example.com>
to: [bob@example.com]
subject: bounce
body: Hello Bob
`

// newSendGridServer fakes the mail/send endpoint. Payloads with the subject
// "bounce" are rejected.
func newSendGridServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var p sendgrid.Payload
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &p); err != nil || p.Subject == "bounce" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"rejected"}]}`))
			return
		}
		w.Header().Set("X-Message-Id", "id-"+p.Personalizations[0].To[0].Email)
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeFiles(t *testing.T, host, extraConfig string) (configPath, msgPath string) {
	t.Helper()

	dir := t.TempDir()
	configPath = filepath.Join(dir, "sgmail.yaml")
	cfg := "sendgrid:\n  api_key: SG.test\n  host: " + host + "\nlogging:\n  format: json\n" + extraConfig
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o600))

	msgPath = filepath.Join(dir, "messages.yaml")
	require.NoError(t, os.WriteFile(msgPath, []byte(messageFile), 0o600))
	return configPath, msgPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(WithOutput(&stdout, &stderr))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSend_FailSilently(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newSendGridServer(t, &calls)
	configPath, msgPath := writeFiles(t, srv.URL, "")

	stdout, stderr, err := run(t, "send", "--config", configPath, "--fail-silently", msgPath)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "0\t202\tid-alice@example.com\n", stdout)
	assert.Contains(t, stderr, `"msg":"message not sent"`)
	assert.Contains(t, stderr, `"run_id"`)
}

func TestSend_PropagatesTransportError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newSendGridServer(t, &calls)
	configPath, msgPath := writeFiles(t, srv.URL, "")

	_, _, err := run(t, "send", "--config", configPath, msgPath)

	require.ErrorIs(t, err, sendgrid.ErrTransport)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSend_ValidationStopsBeforeTransport(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newSendGridServer(t, &calls)
	configPath, _ := writeFiles(t, srv.URL, "fail_silently: true\n")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("to: [a@example.com]\nip_pool_name: x\n"), 0o600))

	_, _, err := run(t, "send", "--config", configPath, bad)

	require.ErrorIs(t, err, sendgrid.ErrInvalidPoolName)
	assert.Zero(t, calls.Load())
}

func TestSend_EchoAndMetrics(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newSendGridServer(t, &calls)
	metricsPath := filepath.Join(t.TempDir(), "sgmail.prom")
	configPath, _ := writeFiles(t, srv.URL, "metrics:\n  textfile: "+metricsPath+"\n")

	single := filepath.Join(t.TempDir(), "one.yaml")
	require.NoError(t, os.WriteFile(single, []byte("from: a@example.com\nto: [b@example.com]\nsubject: Hi\nbody: Hello\n"), 0o600))

	stdout, _, err := run(t, "send", "--config", configPath, "--echo", single)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Subject: Hi")
	assert.Contains(t, stdout, strings.Repeat("-", 79)+"\n")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `mailer_messages_sent_total{provider="sendgrid"} 1`)
}

func TestBuild_PrintsPayload(t *testing.T) {
	t.Parallel()

	configPath, msgPath := writeFiles(t, "http://127.0.0.1:1", "")

	stdout, _, err := run(t, "build", "--config", configPath, "--debug", msgPath)
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(stdout))
	var payloads []sendgrid.Payload
	for dec.More() {
		var p sendgrid.Payload
		require.NoError(t, dec.Decode(&p))
		payloads = append(payloads, p)
	}

	require.Len(t, payloads, 2)
	assert.Equal(t, sendgrid.Email{Email: "support@example.com", Name: "Support"}, payloads[0].From)
	assert.Equal(t, "Welcome", payloads[0].Subject)
	assert.True(t, payloads[0].MailSettings.SandboxMode.Enable, "debug turns sandbox mode on")
}

func TestTemplate_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "layouts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.md"),
		[]byte("---\nSubject: Welcome {{.Name}}\n---\n# Hi {{.Name}}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts", "base.html"),
		[]byte("<html>{{.Content}}</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.yaml"), []byte("Name: Alice\n"), 0o600))

	configPath := filepath.Join(dir, "sgmail.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("templates:\n  dir: "+dir+"\n"), 0o600))

	stdout, _, err := run(t, "template", "welcome.md",
		"--config", configPath,
		"--to", "alice@example.com",
		"--from", "team@example.com",
		"--data", filepath.Join(dir, "data.yaml"),
		"--dry-run",
	)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Subject: Welcome Alice")
	assert.Contains(t, stdout, "# Hi Alice")
	assert.Contains(t, stdout, "<h1>Hi Alice</h1>")
}

func TestRoot_UnknownProvider(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "sgmail.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("provider: smtp\n"), 0o600))

	_, _, err := run(t, "build", "--config", configPath, "missing.yaml")
	require.Error(t, err)
}
