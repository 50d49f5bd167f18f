package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/render"
)

type runtimeConfig struct {
	FormID         string                `json:"formId"`
	SuccessMessage string                `json:"successMessage"`
	RedirectURL    string                `json:"redirectUrl,omitempty"`
	CEPURL         string                `json:"cepUrl"`
	Currencies     []fieldrules.Currency `json:"currencies"`
	Messages       map[string]string     `json:"messages"`
}

// Standalone renders doc as a single HTML document with inline CSS and
// script. The output needs no other asset and posts to doc.SubmitURL.
func (g *Generator) Standalone(ctx context.Context, doc render.Document, options render.RenderOptions) ([]byte, error) {
	if options.Translator == nil {
		options.Translator = g.translator
	}
	cfg := doc.Style()
	title := plain(doc.Title(""))
	locale := options.Locale
	if locale == "" {
		locale = render.DefaultLocale
	}

	var body bytes.Buffer
	open(&body, "form").
		attr("class", "crm-form").
		attr("data-crm-form", "").
		attr("data-form-id", doc.Form.ID).
		attr("action", doc.SubmitURL).
		attr("method", "post").
		flag(true, "novalidate").
		close()
	if title != "" {
		body.WriteString(`<h1 class="crm-title">`)
		text(&body, title)
		body.WriteString("</h1>")
	}
	body.WriteString(`<p class="crm-step-counter" data-step-counter></p>`)

	connectionOptions := g.loadConnections(ctx, doc)
	var used []string
	for i, step := range render.ApplySubset(doc.Steps(), options.Subset) {
		open(&body, "section").
			attr("class", "crm-step").
			attr("data-step", strconv.Itoa(step.Index)).
			flag(i > 0, "hidden").
			close()
		if stepTitle := plain(step.Title); stepTitle != "" {
			body.WriteString(`<h2 class="crm-step-title">`)
			text(&body, stepTitle)
			body.WriteString("</h2>")
		}
		for _, f := range step.Fields {
			name, err := g.writeField(&body, f, ComponentData{
				Style:   cfg,
				Options: connectionOptions[f.ID],
				Value:   options.Values[f.ID],
				Errors:  options.Errors[f.ID],
				T:       options.T,
			})
			if err != nil {
				return nil, err
			}
			used = append(used, name)
		}
		body.WriteString("</section>")
	}

	for _, hidden := range render.SortedHiddenFields(options.Hidden) {
		open(&body, "input").attr("type", "hidden").attr("name", hidden.Name).attr("value", hidden.Value).close()
	}
	open(&body, "p").attr("class", "crm-error").attr("data-form-errors", "").flag(len(options.FormErrors) == 0, "hidden").close()
	for i, message := range options.FormErrors {
		if i > 0 {
			body.WriteByte(' ')
		}
		text(&body, message)
	}
	body.WriteString(`</p><div class="crm-actions">`)
	open(&body, "button").attr("type", "button").attr("class", "crm-button crm-button-secondary").attr("data-back", "").flag(true, "hidden").close()
	text(&body, options.T("form.back"))
	body.WriteString("</button>")
	open(&body, "button").attr("type", "button").attr("class", "crm-button").attr("data-next", "").close()
	text(&body, options.T("form.next"))
	body.WriteString("</button>")
	open(&body, "button").attr("type", "submit").attr("class", "crm-button").attr("data-submit", "").close()
	text(&body, cfg.ButtonText)
	body.WriteString("</button></div></form>")

	runtime, err := json.Marshal(runtimeConfig{
		FormID:         doc.Form.ID,
		SuccessMessage: rich(cfg.SuccessMessage),
		RedirectURL:    cfg.RedirectURL,
		CEPURL:         g.cepURL,
		Currencies:     fieldrules.Currencies(),
		Messages: map[string]string{
			"required": options.T("form.required"),
			"invalid":  options.T("error.invalid"),
			"step":     options.T("form.step"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("export: encode runtime config: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n")
	open(&out, "html").attr("lang", locale).close()
	out.WriteString(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	out.WriteString("<title>")
	text(&out, title)
	out.WriteString("</title>")
	out.WriteString("<style>\n" + g.Stylesheet(cfg, options.Theme, options.Variant) + "</style></head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("\n<script type=\"application/json\" id=\"crm-config\">")
	out.Write(runtime)
	out.WriteString("</script>\n<script>\n")
	out.WriteString(Script(ScriptCore))
	for _, module := range g.registry.Scripts(used) {
		out.WriteString(Script(module))
	}
	out.WriteString("</script>\n</body>\n</html>\n")
	return out.Bytes(), nil
}

// loadConnections resolves the labels of every connection-backed field of
// doc. Failures are logged and leave the dropdown empty.
func (g *Generator) loadConnections(ctx context.Context, doc render.Document) map[string][]string {
	if g.connections == nil {
		return nil
	}
	out := make(map[string][]string)
	for _, f := range doc.ResolvedFields() {
		list, ok := f.ConnectionList()
		if !ok {
			continue
		}
		labels, err := connections.Labels(ctx, g.connections, doc.Form.CompanyID, list)
		if err != nil {
			g.logger.WithError(err).WithFields(logrus.Fields{"field": f.ID, "list": list}).Warn("export: load connection options")
		}
		out[f.ID] = labels
	}
	return out
}
