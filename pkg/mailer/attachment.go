package mailer

import (
	"encoding/base64"
	"mime"
	"net/textproto"
	"strings"
)

const base64LineLength = 76

// Attachment is a file attached to a Message.
// It is either a File (filename, content, type) or a MIME-shaped Part.
type Attachment interface {
	attachment()
}

// File is an attachment given as raw content.
type File struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	Content     []byte // Raw file content
}

func (File) attachment() {}

// TextFile creates a File from text content, stored as UTF-8 bytes.
func TextFile(filename, text, contentType string) File {
	return File{
		Filename:    filename,
		ContentType: contentType,
		Content:     []byte(text),
	}
}

// Part is a MIME-shaped attachment whose payload is already base64 text.
// The payload may be wrapped across lines.
type Part struct {
	Header  textproto.MIMEHeader
	Payload string
}

func (Part) attachment() {}

// NewPart builds a base64-encoded Part. Filename may be empty.
func NewPart(contentType, filename string, data []byte) Part {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "base64")
	if filename != "" {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	}
	return Part{Header: h, Payload: wrapBase64(base64.StdEncoding.EncodeToString(data))}
}

// WithContentID returns a copy of the part carrying the given Content-ID,
// wrapped in angle brackets as it appears on the wire.
func (p Part) WithContentID(id string) Part {
	h := make(textproto.MIMEHeader, len(p.Header)+1)
	for k, v := range p.Header {
		h[k] = append([]string(nil), v...)
	}
	h.Set("Content-ID", "<"+strings.Trim(id, "<>")+">")
	return Part{Header: h, Payload: p.Payload}
}

// Filename returns the filename from Content-Disposition, falling back to
// the "name" parameter of Content-Type. Empty if neither is set.
func (p Part) Filename() string {
	if name := headerParam(p.Header.Get("Content-Disposition"), "filename"); name != "" {
		return name
	}
	return headerParam(p.Header.Get("Content-Type"), "name")
}

// ContentType returns the media type of the part, "text/plain" by default.
func (p Part) ContentType() string {
	value := p.Header.Get("Content-Type")
	if value == "" {
		return MIMETextPlain
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return MIMETextPlain
	}
	return mediaType
}

// ContentID returns the raw Content-ID header value.
func (p Part) ContentID() string {
	return p.Header.Get("Content-ID")
}

// Bytes decodes the base64 payload.
func (p Part) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(StripNewlines(p.Payload))
}

// StripNewlines removes CR and LF characters.
func StripNewlines(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

func headerParam(value, key string) string {
	if value == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return params[key]
}

func wrapBase64(s string) string {
	if len(s) <= base64LineLength {
		return s
	}
	var b strings.Builder
	for len(s) > base64LineLength {
		b.WriteString(s[:base64LineLength])
		b.WriteString("\n")
		s = s[base64LineLength:]
	}
	b.WriteString(s)
	return b.String()
}
