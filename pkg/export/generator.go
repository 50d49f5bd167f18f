// Package export produces a standalone, dependency-free HTML document for a
// composed form, the fragment of a single field and the iframe snippet used
// to embed a hosted form in third-party pages.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/style"
)

// DefaultCEPURL is the lookup endpoint used by the exported address runtime.
const DefaultCEPURL = "https://viacep.com.br/ws/%s/json/"

// Option configures a Generator.
type Option func(*Generator)

// WithRegistry replaces the component registry.
func WithRegistry(registry *Registry) Option {
	return func(g *Generator) {
		if registry != nil {
			g.registry = registry
		}
	}
}

// WithThemeSelector overlays the tokens of a selected theme on the form
// style. Render options can override name and variant per call.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(g *Generator) {
		g.selector = selector
		g.themeName = name
		g.variant = variant
	}
}

// WithTranslator sets the catalogue used for UI strings.
func WithTranslator(t render.Translator) Option {
	return func(g *Generator) { g.translator = t }
}

// WithConnections loads connection options into exported dropdowns.
func WithConnections(source connections.Source) Option {
	return func(g *Generator) { g.connections = source }
}

// WithCEPURL changes the endpoint queried by exported address fields. The
// URL must contain a single %s for the CEP digits.
func WithCEPURL(url string) Option {
	return func(g *Generator) {
		if url != "" {
			g.cepURL = url
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator renders forms into self-contained HTML. It satisfies
// render.Renderer under the name "standalone".
type Generator struct {
	registry    *Registry
	selector    theme.ThemeSelector
	themeName   string
	variant     string
	translator  render.Translator
	connections connections.Source
	cepURL      string
	logger      logrus.FieldLogger
}

var _ render.Renderer = (*Generator)(nil)

// New builds a generator with the default components.
func New(options ...Option) *Generator {
	g := &Generator{
		registry: NewDefaultRegistry(),
		cepURL:   DefaultCEPURL,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

func (g *Generator) Name() string { return "standalone" }

func (g *Generator) ContentType() string { return "text/html; charset=utf-8" }

// Render implements render.Renderer.
func (g *Generator) Render(ctx context.Context, doc render.Document, options render.RenderOptions) ([]byte, error) {
	return g.Standalone(ctx, doc, options)
}

// Stylesheet renders the CSS for cfg, overlaying the configured theme when
// one is selected.
func (g *Generator) Stylesheet(cfg style.Config, themeName, variant string) string {
	tokens := cfg.Tokens()
	if g.selector == nil {
		return StylesheetFromTokens(tokens)
	}
	if themeName == "" {
		themeName = g.themeName
	}
	if variant == "" {
		variant = g.variant
	}
	selection, err := g.selector.Select(themeName, variant)
	if err != nil {
		g.logger.WithError(err).WithField("theme", themeName).Warn("export: theme selection failed, using form style")
		return StylesheetFromTokens(tokens)
	}
	return StylesheetFromTokens(style.Overlay(tokens, selection))
}

// Fragment renders the markup of one field: label, control and error slot.
func (g *Generator) Fragment(f model.Field, cfg style.Config) (string, error) {
	var buf bytes.Buffer
	_, err := g.writeField(&buf, f, ComponentData{
		Style: cfg.Normalize(),
		T:     render.RenderOptions{Translator: g.translator}.T,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeField renders f and returns the component it used.
func (g *Generator) writeField(buf *bytes.Buffer, f model.Field, data ComponentData) (string, error) {
	p := fieldrules.Present(f)
	descriptor, err := g.registry.Resolve(p.Kind)
	if err != nil {
		return "", err
	}
	if data.T == nil {
		data.T = render.RenderOptions{}.T
	}

	class := "crm-field"
	if len(data.Errors) > 0 {
		class += " crm-invalid"
	}
	open(buf, "div").
		attr("class", class).
		attr("data-field", f.ID).
		attr("data-name", p.InputName).
		attr("data-kind", string(p.Kind)).
		flag(p.Required, "data-required").
		close()
	labelFor := p.ID
	if p.Kind == fieldrules.KindAddress {
		labelFor = p.ID + "-" + string(fieldrules.AddressCEP)
	}
	open(buf, "label").attr("class", "crm-label").attr("for", labelFor).attr("data-label-for", p.ID).close()
	text(buf, p.Label)
	if p.Required {
		buf.WriteString(`<span class="crm-required" aria-hidden="true">*</span>`)
	}
	buf.WriteString("</label>")

	if err := descriptor.Renderer(buf, p, data); err != nil {
		return "", fmt.Errorf("export: render field %s: %w", f.ID, err)
	}

	open(buf, "p").attr("class", "crm-error").attr("data-error-for", p.ID).flag(len(data.Errors) == 0, "hidden").close()
	text(buf, strings.Join(data.Errors, " "))
	buf.WriteString("</p></div>")
	return descriptor.Name, nil
}

var defaultGenerator = New()

// Fragment renders one field with the default generator.
func Fragment(f model.Field, cfg style.Config) (string, error) {
	return defaultGenerator.Fragment(f, cfg)
}

// Standalone renders a complete document with the default generator.
func Standalone(doc render.Document) ([]byte, error) {
	return defaultGenerator.Standalone(context.Background(), doc, render.RenderOptions{})
}
