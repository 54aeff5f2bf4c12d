package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// Frontmatter holds the message fields a template may declare.
// Unknown keys are kept in Extra and exposed to layouts as metadata.
type Frontmatter struct {
	Extra      map[string]any `yaml:",inline"`
	Subject    string         `yaml:"Subject"`
	Categories []string       `yaml:"Categories"`
}

// Template is a parsed template file: frontmatter plus markdown body.
type Template struct {
	Body        string
	Frontmatter Frontmatter
}

// ParseTemplate splits template content into YAML frontmatter and markdown body.
// Content without a leading "---" line has no frontmatter.
func ParseTemplate(content []byte) (*Template, error) {
	if !bytes.HasPrefix(content, frontmatterDelimiter) {
		return &Template{Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, frontmatterDelimiter), "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	head, body, found := bytes.Cut(rest, frontmatterDelimiter)
	if !found {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	var fm Frontmatter
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &fm); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{Frontmatter: fm, Body: string(body)}, nil
}

// Metadata returns every frontmatter key, for use in layouts.
func (f Frontmatter) Metadata() map[string]any {
	meta := make(map[string]any, len(f.Extra)+2)
	for k, v := range f.Extra {
		meta[k] = v
	}
	if f.Subject != "" {
		meta["Subject"] = f.Subject
	}
	if len(f.Categories) > 0 {
		meta["Categories"] = f.Categories
	}
	return meta
}
