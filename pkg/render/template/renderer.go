package template

import (
	"io"
)

// TemplateRenderer renders named templates or inline template text with a
// data context. The method set matches the github.com/goliatone/go-template
// engine, so either that engine or gotemplate.Engine can back the preview.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	// RegisterFilter exposes fn to templates as a filter; GlobalContext
	// merges data into every render.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
