package result

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/flosch/pongo2/v6"
)

// HTMLOptions selects the theme applied to a preview render.
type HTMLOptions struct {
	ThemeName    string
	ThemeVariant string
}

// htmlSection carries a sanitized, line-broken body ready for |safe output.
type htmlSection struct {
	Title string
	Body  string
}

// HTMLPreviewer renders views into themed HTML fragments. Backend-supplied
// content is sanitized before it reaches the template; the preview is safe to
// inject into a host page.
type HTMLPreviewer struct {
	renderer *Renderer
	policy   *bluemonday.Policy
	selector theme.ThemeSelector
}

// PreviewOption configures the previewer.
type PreviewOption func(*HTMLPreviewer)

// WithThemeSelector resolves theme/variant choices ahead of rendering so the
// preview carries the selection's design tokens as CSS variables.
func WithThemeSelector(selector theme.ThemeSelector) PreviewOption {
	return func(p *HTMLPreviewer) {
		p.selector = selector
	}
}

// NewHTMLPreviewer constructs a previewer sharing the given renderer's
// template set.
func NewHTMLPreviewer(renderer *Renderer, options ...PreviewOption) (*HTMLPreviewer, error) {
	if renderer == nil {
		var err error
		renderer, err = NewRenderer()
		if err != nil {
			return nil, err
		}
	}
	p := &HTMLPreviewer{
		renderer: renderer,
		policy:   bluemonday.UGCPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p, nil
}

// Render produces the themed HTML fragment for a view.
func (p *HTMLPreviewer) Render(view View, opts HTMLOptions) (string, error) {
	sections := make([]htmlSection, 0, len(view.Sections))
	for _, section := range view.Sections {
		sections = append(sections, htmlSection{
			Title: section.Title,
			Body:  p.sanitize(section.Body),
		})
	}

	style, themeClass, err := p.resolveTheme(opts)
	if err != nil {
		return "", err
	}

	return p.renderer.render("preview", pongo2.Context{
		"view":       view,
		"sections":   sections,
		"themeStyle": style,
		"themeClass": themeClass,
	})
}

// sanitize strips unsafe markup and preserves line breaks.
func (p *HTMLPreviewer) sanitize(body string) string {
	clean := p.policy.Sanitize(body)
	return strings.ReplaceAll(clean, "\n", "<br>")
}

// resolveTheme asks the selector for the requested theme and flattens the
// manifest tokens into a deterministic CSS custom-property style string.
func (p *HTMLPreviewer) resolveTheme(opts HTMLOptions) (style, class string, err error) {
	if p.selector == nil || strings.TrimSpace(opts.ThemeName) == "" {
		return "", "", nil
	}
	selection, err := p.selector.Select(opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return "", "", fmt.Errorf("result: select theme %q: %w", opts.ThemeName, err)
	}
	if selection == nil {
		return "", "", nil
	}

	class = strings.TrimSpace(selection.Theme)
	if variant := strings.TrimSpace(selection.Variant); variant != "" {
		class += "-" + variant
	}

	if selection.Manifest == nil || len(selection.Manifest.Tokens) == 0 {
		return "", class, nil
	}
	names := make([]string, 0, len(selection.Manifest.Tokens))
	for name := range selection.Manifest.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("--%s:%s", name, selection.Manifest.Tokens[name]))
	}
	return strings.Join(pairs, ";"), class, nil
}
