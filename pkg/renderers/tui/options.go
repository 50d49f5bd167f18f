package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/render"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object keyed by sender.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits the body a browser would post.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one sender=value line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds message prefixes applied by the renderer.
type Theme struct {
	StepPrefix  string
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithCEP enables address lookups. Without it address parts are asked
// one by one with no defaults.
func WithCEP(looker cep.Looker) Option {
	return func(r *Renderer) {
		r.cep = looker
	}
}

// WithConnections supplies the records behind connection fields for
// companyID.
func WithConnections(source connections.Source, companyID string) Option {
	return func(r *Renderer) {
		r.connections = source
		r.companyID = companyID
	}
}

// WithTranslator overrides the UI string catalogue.
func WithTranslator(t render.Translator) Option {
	return func(r *Renderer) {
		r.translator = t
	}
}

// WithLogger sets the logger handed to the controls.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxAttempts bounds how often a rejected answer is asked again.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
