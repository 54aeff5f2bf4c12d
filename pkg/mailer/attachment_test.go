package mailer

import (
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFile_StoresUTF8(t *testing.T) {
	t.Parallel()

	f := TextFile("note.txt", "héllo", "text/plain")

	require.Equal(t, []byte("h\xc3\xa9llo"), f.Content)
	require.Equal(t, "note.txt", f.Filename)
	require.Equal(t, "text/plain", f.ContentType)
}

func TestNewPart(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("x", 200))
	p := NewPart("application/pdf", "report.pdf", data)

	assert.Equal(t, "report.pdf", p.Filename())
	assert.Equal(t, "application/pdf", p.ContentType())
	assert.Empty(t, p.ContentID())
	assert.Contains(t, p.Payload, "\n", "long payloads are wrapped")

	decoded, err := p.Bytes()
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestPart_Filename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{
			name:   "from content disposition",
			header: map[string]string{"Content-Disposition": `attachment; filename="a.pdf"`},
			want:   "a.pdf",
		},
		{
			name:   "from content type name",
			header: map[string]string{"Content-Type": `image/png; name="logo.png"`},
			want:   "logo.png",
		},
		{
			name: "disposition wins",
			header: map[string]string{
				"Content-Disposition": `inline; filename="inline.png"`,
				"Content-Type":        `image/png; name="logo.png"`,
			},
			want: "inline.png",
		},
		{
			name:   "absent",
			header: map[string]string{"Content-Type": "image/png"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := make(textproto.MIMEHeader)
			for k, v := range tt.header {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, Part{Header: h}.Filename())
		})
	}
}

func TestPart_ContentType(t *testing.T) {
	t.Parallel()

	h := make(textproto.MIMEHeader)
	assert.Equal(t, "text/plain", Part{Header: h}.ContentType())

	h.Set("Content-Type", "Image/PNG; name=x.png")
	assert.Equal(t, "image/png", Part{Header: h}.ContentType())

	h.Set("Content-Type", ";;;")
	assert.Equal(t, "text/plain", Part{Header: h}.ContentType())
}

func TestPart_WithContentID(t *testing.T) {
	t.Parallel()

	original := NewPart("image/png", "", []byte{1, 2, 3})
	withID := original.WithContentID("logo@example.com")

	assert.Equal(t, "<logo@example.com>", withID.ContentID())
	assert.Empty(t, original.ContentID(), "original part is not modified")
	assert.Equal(t, "<logo@example.com>", original.WithContentID("<logo@example.com>").ContentID())
}

func TestStripNewlines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abcd", StripNewlines("ab\r\ncd\n"))
}
