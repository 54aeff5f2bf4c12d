package sendgrid

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

// DispositionInline marks attachments referenced from the HTML body by content id.
const DispositionInline = "inline"

// mimeExtensions maps MIME types to preferred file extensions.
// Types not listed fall back to the system MIME table.
var mimeExtensions = map[string]string{
	// Images
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
	"image/x-icon":  ".ico",
	// Documents
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"text/plain":      ".txt",
	"text/csv":        ".csv",
	"text/html":       ".html",
	"text/calendar":   ".ics",
	"application/rtf": ".rtf",
	// Data
	"application/json": ".json",
	"application/xml":  ".xml",
	// Archives
	"application/zip":  ".zip",
	"application/gzip": ".gz",
}

// guessExtension returns a file extension (with leading dot) for mimeType,
// or an empty string when the type is unknown.
func guessExtension(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))

	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// synthesizeFilename names an attachment that arrived without one.
func synthesizeFilename(mimeType string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "part-" + token + guessExtension(mimeType)
}

func buildAttachment(a mailer.Attachment) (Attachment, error) {
	switch a := a.(type) {
	case mailer.Part:
		return partAttachment(a), nil
	case *mailer.Part:
		if a == nil {
			return Attachment{}, fmt.Errorf("%w: nil part", ErrInvalidAttachment)
		}
		return partAttachment(*a), nil
	case mailer.File:
		return fileAttachment(a), nil
	case *mailer.File:
		if a == nil {
			return Attachment{}, fmt.Errorf("%w: nil file", ErrInvalidAttachment)
		}
		return fileAttachment(*a), nil
	default:
		return Attachment{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidAttachment, a)
	}
}

// partAttachment uses the part payload as-is: it is already base64.
func partAttachment(p mailer.Part) Attachment {
	contentType := p.ContentType()

	filename := p.Filename()
	if filename == "" {
		filename = synthesizeFilename(contentType)
	}

	att := Attachment{
		Filename: filename,
		Content:  mailer.StripNewlines(p.Payload),
		Type:     contentType,
	}

	if contentID := p.ContentID(); contentID != "" {
		// SendGrid adds the angle brackets itself
		if strings.HasPrefix(contentID, "<") && strings.HasSuffix(contentID, ">") {
			contentID = contentID[1 : len(contentID)-1]
		}
		att.ContentID = contentID
		att.Disposition = DispositionInline
	}

	return att
}

func fileAttachment(f mailer.File) Attachment {
	filename := f.Filename
	if filename == "" {
		filename = synthesizeFilename(f.ContentType)
	}

	return Attachment{
		Filename: filename,
		Content:  base64.StdEncoding.EncodeToString(f.Content),
		Type:     f.ContentType,
	}
}
