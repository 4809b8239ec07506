package result

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// RenderOption configures the renderer before construction.
type RenderOption func(*renderConfig)

type renderConfig struct {
	templates fs.FS
	extension string
}

// WithTemplatesFS overrides the embedded template set.
func WithTemplatesFS(files fs.FS) RenderOption {
	return func(cfg *renderConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithGoTemplateOptions exists for compatibility with callers configuring the
// go-template engine directly and is currently a no-op.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) RenderOption {
	return func(*renderConfig) {}
}

// Renderer renders views through a pongo2-backed template set mirroring the
// go-template engine contract.
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	extension string
}

// NewRenderer constructs a Renderer over the embedded templates unless a
// custom template FS is supplied.
func NewRenderer(options ...RenderOption) (*Renderer, error) {
	cfg := &renderConfig{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("result: embedded templates: %w", err)
		}
		cfg.templates = sub
	}
	return &Renderer{
		set:       pongo2.NewSet("genforms", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}, nil
}

// Text renders the view as plain text suitable for terminal output or the
// download blob shown to the user before saving.
func (r *Renderer) Text(view View) (string, error) {
	return r.render("view", pongo2.Context{"view": view})
}

func (r *Renderer) render(name string, ctx pongo2.Context) (string, error) {
	if r == nil || r.set == nil {
		return "", errors.New("result: renderer is not initialised")
	}
	path := name
	if !strings.HasSuffix(path, r.extension) {
		path += r.extension
	}

	tmpl, err := r.template(path)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("result: execute template %q: %w", path, err)
	}
	return out, nil
}

func (r *Renderer) template(path string) (*pongo2.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[path]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("result: load template %q: %w", path, err)
	}
	r.templates[path] = tmpl
	return tmpl, nil
}
