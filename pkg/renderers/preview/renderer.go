// Package preview renders the live preview shown next to the form builder.
// It is template driven and shares its presentation rules and stylesheet
// with the static export, so both surfaces show the same labels, input
// types and options.
package preview

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/export"
	"github.com/goliatone/go-crmforms/pkg/render"
	rendertemplate "github.com/goliatone/go-crmforms/pkg/render/template"
	"github.com/goliatone/go-crmforms/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	generator        *export.Generator
	connections      connections.Source
	translator       render.Translator
	logger           logrus.FieldLogger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
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

// WithExportGenerator shares the export's stylesheet and theme selection.
func WithExportGenerator(g *export.Generator) Option {
	return func(cfg *config) {
		if g != nil {
			cfg.generator = g
		}
	}
}

// WithConnections loads connection options into the preview.
func WithConnections(source connections.Source) Option {
	return func(cfg *config) {
		cfg.connections = source
	}
}

// WithTranslator sets the catalogue exposed to templates through translate.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	generator   *export.Generator
	connections connections.Source
	translator  render.Translator
	logger      logrus.FieldLogger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the preview renderer applying any provided options.
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
	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}
	if cfg.generator == nil {
		cfg.generator = export.New(export.WithLogger(cfg.logger))
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithTemplateFuncs(render.TemplateFuncs(cfg.translator)),
		)
		if err != nil {
			return nil, fmt.Errorf("preview renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		generator:   cfg.generator,
		connections: cfg.connections,
		translator:  cfg.translator,
		logger:      cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "preview"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, doc render.Document, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("preview renderer: template renderer is nil")
	}
	if options.Translator == nil {
		options.Translator = r.translator
	}

	data := r.buildView(ctx, doc, options)
	result, err := r.templates.RenderTemplate("form", data)
	if err != nil {
		return nil, fmt.Errorf("preview renderer: render template: %w", err)
	}
	return []byte(result), nil
}
