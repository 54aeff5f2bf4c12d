package mailer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// echoSeparatorWidth is the width of the line written after each echoed message.
const echoSeparatorWidth = 79

var echoSeparator = strings.Repeat("-", echoSeparatorWidth)

// echoMessages writes msgs to the echo writer, holding the echo lock for the
// whole batch so concurrent callers never interleave.
func (m *Mailer) echoMessages(msgs []*Message) error {
	m.echoMu.Lock()
	defer m.echoMu.Unlock()

	for _, msg := range msgs {
		if _, err := msg.WriteTo(m.echo); err != nil {
			return errors.Join(ErrEchoFailed, err)
		}
		if _, err := fmt.Fprintf(m.echo, "\n%s\n", echoSeparator); err != nil {
			return errors.Join(ErrEchoFailed, err)
		}
		if err := flush(m.echo); err != nil {
			return errors.Join(ErrEchoFailed, err)
		}
	}
	return nil
}

func flush(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// WriteTo serializes the message as RFC 5322 text with MIME parts.
// Bcc recipients are not written.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	var body bytes.Buffer
	header := m.header()

	switch {
	case len(m.Attachments) > 0:
		mw := multipart.NewWriter(&body)
		header.Set("Content-Type", multipartType("mixed", mw))
		if err := m.writeMixed(mw); err != nil {
			return 0, err
		}
	case m.HasAlternatives():
		mw := multipart.NewWriter(&body)
		header.Set("Content-Type", multipartType("alternative", mw))
		if err := m.writeAlternatives(mw); err != nil {
			return 0, err
		}
		if err := mw.Close(); err != nil {
			return 0, err
		}
	default:
		header.Set("Content-Type", textContentType(m.bodyMIMEType()))
		header.Set("Content-Transfer-Encoding", "8bit")
		body.WriteString(m.Body)
	}

	var out bytes.Buffer
	writeHeader(&out, header)
	out.Write(body.Bytes())
	return out.WriteTo(w)
}

func (m *Message) header() textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("MIME-Version", "1.0")
	h.Set("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	h.Set("From", m.From)
	if len(m.To) > 0 {
		h.Set("To", strings.Join(m.To, ", "))
	}
	if len(m.CC) > 0 {
		h.Set("Cc", strings.Join(m.CC, ", "))
	}
	if len(m.ReplyTo) > 0 {
		h.Set("Reply-To", strings.Join(m.ReplyTo, ", "))
	}
	for k, v := range m.Headers {
		h.Set(k, v)
	}
	return h
}

func (m *Message) bodyMIMEType() string {
	if m.IsHTML() {
		return MIMETextHTML
	}
	return MIMETextPlain
}

func (m *Message) writeMixed(mw *multipart.Writer) error {
	if m.HasAlternatives() {
		var alt bytes.Buffer
		inner := multipart.NewWriter(&alt)
		if err := m.writeAlternatives(inner); err != nil {
			return err
		}
		if err := inner.Close(); err != nil {
			return err
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Type", multipartType("alternative", inner))
		pw, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := pw.Write(alt.Bytes()); err != nil {
			return err
		}
	} else if err := writeTextPart(mw, m.bodyMIMEType(), m.Body); err != nil {
		return err
	}

	for _, a := range m.Attachments {
		if err := writeAttachment(mw, a); err != nil {
			return err
		}
	}
	return mw.Close()
}

func (m *Message) writeAlternatives(mw *multipart.Writer) error {
	if err := writeTextPart(mw, m.bodyMIMEType(), m.Body); err != nil {
		return err
	}
	for _, alt := range m.Alternatives {
		if err := writeTextPart(mw, alt.MIMEType, alt.Content); err != nil {
			return err
		}
	}
	return nil
}

func writeTextPart(mw *multipart.Writer, mimeType, body string) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", textContentType(mimeType))
	h.Set("Content-Transfer-Encoding", "8bit")
	pw, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.WriteString(pw, body)
	return err
}

func writeAttachment(mw *multipart.Writer, a Attachment) error {
	switch a := a.(type) {
	case *File:
		if a == nil {
			return errors.New("nil file attachment")
		}
		return writeAttachment(mw, *a)
	case *Part:
		if a == nil {
			return errors.New("nil part attachment")
		}
		return writeAttachment(mw, *a)
	case File:
		h := make(textproto.MIMEHeader)
		h.Set("Content-Type", a.ContentType)
		h.Set("Content-Transfer-Encoding", "base64")
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
		pw, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		_, err = io.WriteString(pw, wrapBase64(base64.StdEncoding.EncodeToString(a.Content)))
		return err
	case Part:
		pw, err := mw.CreatePart(a.Header)
		if err != nil {
			return err
		}
		_, err = io.WriteString(pw, a.Payload)
		return err
	default:
		return fmt.Errorf("unsupported attachment type %T", a)
	}
}

func textContentType(mimeType string) string {
	return mime.FormatMediaType(mimeType, map[string]string{"charset": "utf-8"})
}

func multipartType(subtype string, mw *multipart.Writer) string {
	return mime.FormatMediaType("multipart/"+subtype, map[string]string{"boundary": mw.Boundary()})
}

// writeHeader writes header fields in sorted order followed by a blank line.
func writeHeader(w *bytes.Buffer, h textproto.MIMEHeader) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			w.WriteString(k + ": " + v + "\r\n")
		}
	}
	w.WriteString("\r\n")
}
