package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir string // Default: "."
	LayoutDir   string // Default: "layouts"
}

// RenderResult contains the rendered bodies and the template's frontmatter.
type RenderResult struct {
	Frontmatter Frontmatter
	HTML        string
	Text        string // executed markdown, used as the plain text body
}

// Renderer turns markdown templates with YAML frontmatter into message bodies.
// Templates and layouts are parsed once per name and reused; output is not cached.
type Renderer struct {
	md      goldmark.Markdown
	bodies  *parseCache[*compiledTemplate]
	layouts *parseCache[*template.Template]
}

type compiledTemplate struct {
	frontmatter Frontmatter
	metadata    map[string]any
	body        *texttemplate.Template
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}

	return &Renderer{
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		bodies:  newParseCache(filesystem, cfg.TemplateDir, ErrTemplateNotFound, compileTemplate),
		layouts: newParseCache(filesystem, cfg.LayoutDir, ErrLayoutNotFound, compileLayout),
	}
}

// Render executes the named template with data, converts the markdown to
// HTML and wraps it in the named layout. Layouts see the HTML as .Content
// and the frontmatter as .Metadata.
func (r *Renderer) Render(layout, name string, data any) (*RenderResult, error) {
	tmpl, err := r.bodies.get(name)
	if err != nil {
		return nil, err
	}
	wrapper, err := r.layouts.get(layout)
	if err != nil {
		return nil, err
	}

	var text bytes.Buffer
	if err := tmpl.body.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(text.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: %s: markdown: %v", ErrRenderFailed, name, err)
	}

	var html bytes.Buffer
	if err := wrapper.Execute(&html, map[string]any{
		"Content":  template.HTML(content.String()),
		"Metadata": tmpl.metadata,
	}); err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Frontmatter: tmpl.frontmatter,
		HTML:        html.String(),
		Text:        text.String(),
	}, nil
}

func compileTemplate(name string, content []byte) (*compiledTemplate, error) {
	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	body, err := texttemplate.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return &compiledTemplate{
		frontmatter: parsed.Frontmatter,
		metadata:    parsed.Frontmatter.Metadata(),
		body:        body,
	}, nil
}

func compileLayout(name string, content []byte) (*template.Template, error) {
	layout, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return layout, nil
}

// parseCache reads files from one directory and keeps the parsed result per name.
// Failed parses are not cached.
type parseCache[T any] struct {
	fs       fs.FS
	dir      string
	notFound error
	compile  func(name string, content []byte) (T, error)

	mu     sync.Mutex
	parsed map[string]T
}

func newParseCache[T any](filesystem fs.FS, dir string, notFound error, compile func(string, []byte) (T, error)) *parseCache[T] {
	return &parseCache[T]{
		fs:       filesystem,
		dir:      dir,
		notFound: notFound,
		compile:  compile,
		parsed:   make(map[string]T),
	}
}

func (c *parseCache[T]) get(name string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.parsed[name]; ok {
		return v, nil
	}

	var zero T
	content, err := fs.ReadFile(c.fs, path.Join(c.dir, name))
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", c.notFound, name, err)
	}

	v, err := c.compile(name, content)
	if err != nil {
		return zero, err
	}
	c.parsed[name] = v
	return v, nil
}
