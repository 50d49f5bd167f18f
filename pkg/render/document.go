package render

import (
	"strings"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/style"
)

// Document is the input of every renderer: a composed form and the field
// library its layout refers to.
type Document struct {
	Form   composition.Form
	Fields []model.Field
	// SubmitURL is the endpoint the rendered form posts to.
	SubmitURL string
}

// Step is a page of the form with overlays applied to its fields.
type Step struct {
	Index  int
	Title  string
	Fields []model.Field
}

// Steps resolves the form layout against the field library. References to
// unknown fields are skipped and steps left empty are dropped.
func (d Document) Steps() []Step {
	byID := make(map[string]model.Field, len(d.Fields))
	for _, f := range d.Fields {
		byID[f.ID] = f
	}
	var steps []Step
	for _, step := range composition.Steps(d.Form) {
		resolved := Step{Index: len(steps), Title: step.Title}
		for _, id := range step.FieldIDs {
			f, ok := byID[id]
			if !ok {
				continue
			}
			resolved.Fields = append(resolved.Fields, composition.Resolve(f, d.Form.Overlay(id)))
		}
		if len(resolved.Fields) > 0 {
			steps = append(steps, resolved)
		}
	}
	return steps
}

// ResolvedFields flattens Steps.
func (d Document) ResolvedFields() []model.Field {
	var out []model.Field
	for _, step := range d.Steps() {
		out = append(out, step.Fields...)
	}
	return out
}

// Style returns the normalised style of the form.
func (d Document) Style() style.Config {
	return d.Form.Style.Normalize()
}

// Title returns the form title, falling back to fallback when empty.
func (d Document) Title(fallback string) string {
	if title := strings.TrimSpace(d.Form.Title); title != "" {
		return title
	}
	return fallback
}
