package msgfile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"mime"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer/sendgrid"
)

const (
	encodingBase64     = "base64"
	defaultContentType = "application/octet-stream"
)

var (
	// ErrInvalidDocument indicates a message document that could not be decoded.
	ErrInvalidDocument = errors.New("invalid message document")

	// ErrEmptyFile indicates a file with no message documents.
	ErrEmptyFile = errors.New("message file contains no documents")

	// ErrInvalidAttachment indicates an attachment with neither path nor content,
	// or with undecodable content.
	ErrInvalidAttachment = errors.New("invalid attachment")
)

// Loader reads message files and applies defaults.
type Loader struct {
	defaults Document
}

// NewLoader creates a Loader applying d to every message.
func NewLoader(d Defaults) *Loader {
	return &Loader{defaults: d.document()}
}

// LoadFile reads all messages in the file at path. Attachment paths are
// resolved relative to the file's directory.
func (l *Loader) LoadFile(path string) ([]*mailer.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message file: %w", err)
	}

	msgs, err := l.Decode(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return msgs, nil
}

// Decode reads every YAML document from r.
func (l *Loader) Decode(r io.Reader, baseDir string) ([]*mailer.Message, error) {
	dec := yaml.NewDecoder(r)

	var msgs []*mailer.Message
	for i := 0; ; i++ {
		var doc Document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: document %d: %v", ErrInvalidDocument, i, err)
		}

		if err := l.applyDefaults(&doc); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		msg, err := doc.Message(baseDir)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}

	if len(msgs) == 0 {
		return nil, ErrEmptyFile
	}
	return msgs, nil
}

func (l *Loader) applyDefaults(doc *Document) error {
	// Loaded messages must not share map storage with the defaults
	defaults := l.defaults
	defaults.Headers = maps.Clone(defaults.Headers)
	defaults.CustomArgs = maps.Clone(defaults.CustomArgs)
	dropShadowedHeaders(defaults.Headers, doc.Headers)

	if err := mergo.Merge(doc, defaults); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	return nil
}

// dropShadowedHeaders removes default headers the document already sets
// under any letter case. Config keys arrive lowercased, document keys do not.
func dropShadowedHeaders(defaults, own map[string]string) {
	if len(defaults) == 0 || len(own) == 0 {
		return
	}
	maps.DeleteFunc(defaults, func(name, _ string) bool {
		for ownName := range own {
			if strings.EqualFold(name, ownName) {
				return true
			}
		}
		return false
	})
}

// Message converts the document into a mailer.Message.
func (d Document) Message(baseDir string) (*mailer.Message, error) {
	msg := &mailer.Message{
		Headers:             d.Headers,
		CustomArgs:          d.CustomArgs,
		Substitutions:       d.Substitutions,
		DynamicTemplateData: d.DynamicTemplateData,
		From:                d.From,
		Subject:             d.Subject,
		Body:                d.Body,
		ContentSubtype:      d.ContentSubtype,
		TemplateID:          d.TemplateID,
		To:                  d.To,
		CC:                  d.CC,
		BCC:                 d.BCC,
		ReplyTo:             d.ReplyTo,
		Categories:          d.Categories,
	}

	if d.ASM != nil {
		msg.ASM = &mailer.ASM{GroupID: d.ASM.GroupID, GroupsToDisplay: d.ASM.GroupsToDisplay}
	}

	if d.IPPoolName != nil {
		name, ok := d.IPPoolName.(string)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", sendgrid.ErrInvalidPoolName, d.IPPoolName)
		}
		msg.IPPoolName = mailer.String(name)
	}

	if d.SendAt != nil {
		sendAt, err := epochSeconds(d.SendAt)
		if err != nil {
			return nil, err
		}
		msg.SendAt = mailer.Int64(sendAt)
	}

	if d.HTML != "" {
		msg.AttachAlternative(d.HTML, mailer.MIMETextHTML)
	}

	for i, a := range d.Attachments {
		att, err := a.load(baseDir)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i, err)
		}
		msg.Attach(att)
	}

	return msg, nil
}

// epochSeconds accepts the integer types the YAML decoder produces.
func epochSeconds(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows", sendgrid.ErrInvalidSendAt, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: got %T", sendgrid.ErrInvalidSendAt, v)
	}
}

func (a Attachment) load(baseDir string) (mailer.Attachment, error) {
	switch {
	case a.Path != "":
		return a.loadFile(baseDir)
	case a.Content != "":
		return a.inline()
	default:
		return nil, fmt.Errorf("%w: path or content is required", ErrInvalidAttachment)
	}
}

func (a Attachment) loadFile(baseDir string) (mailer.Attachment, error) {
	path := a.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	filename := a.Filename
	if filename == "" {
		filename = filepath.Base(path)
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	if a.ContentID != "" {
		return mailer.NewPart(contentType, filename, data).WithContentID(a.ContentID), nil
	}
	return mailer.File{Filename: filename, ContentType: contentType, Content: data}, nil
}

func (a Attachment) inline() (mailer.Attachment, error) {
	contentType := a.ContentType
	if contentType == "" {
		contentType = mailer.MIMETextPlain
	}

	if a.Encoding != encodingBase64 {
		if a.ContentID != "" {
			return mailer.NewPart(contentType, a.Filename, []byte(a.Content)).WithContentID(a.ContentID), nil
		}
		return mailer.TextFile(a.Filename, a.Content, contentType), nil
	}

	// Already base64: keep the payload as-is in a MIME part
	if _, err := base64.StdEncoding.DecodeString(mailer.StripNewlines(a.Content)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAttachment, err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", encodingBase64)
	if a.Filename != "" {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	}
	part := mailer.Part{Header: h, Payload: a.Content}
	if a.ContentID != "" {
		part = part.WithContentID(a.ContentID)
	}
	return part, nil
}
