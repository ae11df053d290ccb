// Package html renders result tables and the full form page with pongo2
// templates. Every value coming from the API or the user is HTML-escaped by
// the template engine.
package html

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/render"
	rendertemplate "github.com/goliatone/go-formclient/pkg/render/template"
	"github.com/goliatone/go-formclient/pkg/render/template/gotemplate"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

const (
	tableTemplate = "templates/table.tmpl"
	pageTemplate  = "templates/page.tmpl"
)

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       *string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the inline stylesheet; an empty string disables it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// Renderer renders result tables and form pages as HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
}

var _ render.TableRenderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Renderer{templates: renderer, stylesheet: stylesheet}, nil
}

// Name returns the registry name.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the media type of rendered pages and tables.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderTable renders the result set as an HTML table fragment. The header
// row is emitted even when there are no rows.
func (r *Renderer) RenderTable(_ context.Context, table render.Table) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(tableTemplate, map[string]any{
		"table": table,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render table: %w", err)
	}
	return []byte(result), nil
}

// RenderPage renders the whole form: every field of both shapes with its
// current value, one button per action, the flash area and the results
// container. state.Results is expected to be a RenderTable fragment or a pre
// block; any other markup in it is stripped.
func (r *Renderer) RenderPage(_ context.Context, state formstate.State, opts render.PageOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	opts = opts.WithDefaults()

	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"options": map[string]any{
			"title":       opts.Title,
			"action_path": opts.ActionPath,
		},
		"stylesheet": r.stylesheet,
		"flash":      state.Flash,
		"results":    sanitizeResults(state.Results),
		"sections":   buildSections(state),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(result), nil
}
