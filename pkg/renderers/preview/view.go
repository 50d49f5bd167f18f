package preview

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

type formView struct {
	Locale     string                `json:"locale"`
	FormID     string                `json:"form_id"`
	Title      string                `json:"title"`
	SubmitURL  string                `json:"submit_url"`
	Stylesheet string                `json:"stylesheet"`
	ButtonText string                `json:"button_text"`
	Steps      []stepView            `json:"steps"`
	Hidden     []hiddenView          `json:"hidden,omitempty"`
	FormErrors []string              `json:"form_errors,omitempty"`
	Labels     map[string]string     `json:"labels"`
	Countries  []validation.Country  `json:"countries"`
	Currencies []fieldrules.Currency `json:"currencies"`
}

type stepView struct {
	Index   int         `json:"index"`
	Title   string      `json:"title,omitempty"`
	Counter string      `json:"counter"`
	Fields  []fieldView `json:"fields"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type choiceView struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

type addressPartView struct {
	Part     fieldrules.AddressPart `json:"part"`
	Label    string                 `json:"label"`
	Value    string                 `json:"value,omitempty"`
	Required bool                   `json:"required,omitempty"`
	Lookup   bool                   `json:"lookup,omitempty"`
}

type fieldView struct {
	fieldrules.Presentation
	FieldID          string            `json:"field_id"`
	LabelFor         string            `json:"label_for"`
	PlaceholderText  string            `json:"placeholder_text"`
	Value            string            `json:"value,omitempty"`
	Errors           []string          `json:"errors,omitempty"`
	Choices          []choiceView      `json:"choices,omitempty"`
	Country          string            `json:"country,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	CurrencyVariable bool              `json:"currency_variable,omitempty"`
	SliderValue      float64           `json:"slider_value"`
	SliderMin        string            `json:"slider_min,omitempty"`
	SliderMax        string            `json:"slider_max,omitempty"`
	SliderStep       string            `json:"slider_step,omitempty"`
	Display          string            `json:"display,omitempty"`
	Address          []addressPartView `json:"address,omitempty"`
}

func (r *Renderer) buildView(ctx context.Context, doc render.Document, options render.RenderOptions) formView {
	cfg := doc.Style()
	locale := options.Locale
	if locale == "" {
		locale = render.DefaultLocale
	}

	view := formView{
		Locale:     locale,
		FormID:     doc.Form.ID,
		Title:      doc.Title(""),
		SubmitURL:  doc.SubmitURL,
		Stylesheet: r.generator.Stylesheet(cfg, options.Theme, options.Variant),
		ButtonText: cfg.ButtonText,
		FormErrors: options.FormErrors,
		Labels: map[string]string{
			"back":           options.T("form.back"),
			"next":           options.T("form.next"),
			"connection_add": options.T("connection.add"),
		},
		Countries:  validation.Countries(),
		Currencies: fieldrules.Currencies(),
	}
	for _, hidden := range render.SortedHiddenFields(options.Hidden) {
		view.Hidden = append(view.Hidden, hiddenView{Name: hidden.Name, Value: hidden.Value})
	}

	steps := render.ApplySubset(doc.Steps(), options.Subset)
	for position, step := range steps {
		sv := stepView{
			Index:   step.Index,
			Title:   step.Title,
			Counter: options.T("form.step", position+1, len(steps)),
		}
		for _, f := range step.Fields {
			sv.Fields = append(sv.Fields, r.fieldView(ctx, doc, f, options))
		}
		view.Steps = append(view.Steps, sv)
	}
	return view
}

func (r *Renderer) fieldView(ctx context.Context, doc render.Document, f model.Field, options render.RenderOptions) fieldView {
	p := fieldrules.Present(f)
	value := options.Values[f.ID]
	fv := fieldView{
		Presentation:    p,
		FieldID:         f.ID,
		LabelFor:        p.ID,
		PlaceholderText: p.Placeholder,
		Value:           value,
		Errors:          options.Errors[f.ID],
	}
	if fv.PlaceholderText == "" {
		fv.PlaceholderText = options.T("select.placeholder")
	}

	switch p.Kind {
	case fieldrules.KindPhone:
		fv.Country = validation.DefaultCountry
		if code, ok := p.Attr("data-country"); ok {
			fv.Country = code
		}
	case fieldrules.KindMoney:
		fv.CurrencyVariable = f.Money().Variable()
		fv.Currency = fieldrules.ResolveCurrency(f.Money().Currency).Code
	case fieldrules.KindSlider:
		cfg := f.Slider()
		fv.SliderValue = fieldrules.SliderDefault(cfg)
		if n, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64); err == nil {
			if clamped, ok := fieldrules.ClampSlider(cfg, n); ok {
				fv.SliderValue = clamped
			}
		}
		fv.Display = fieldrules.SliderLabel(cfg, fv.SliderValue)
		fv.SliderMin, _ = p.Attr("min")
		fv.SliderMax, _ = p.Attr("max")
		fv.SliderStep, _ = p.Attr("step")
	case fieldrules.KindAddress:
		fv.LabelFor = p.ID + "-" + string(fieldrules.AddressCEP)
		fv.Address = addressParts(f.ID, p.Required, options.Values)
	case fieldrules.KindSelect, fieldrules.KindConnection, fieldrules.KindCheckbox:
		choices := p.Options
		if list, ok := f.ConnectionList(); ok && r.connections != nil {
			labels, err := connections.Labels(ctx, r.connections, doc.Form.CompanyID, list)
			if err != nil {
				r.logger.WithError(err).WithFields(logrus.Fields{"field": f.ID, "list": list}).Warn("preview: load connection options")
			}
			choices = labels
		}
		selected := fieldrules.ParseOptions(value)
		for _, option := range choices {
			fv.Choices = append(fv.Choices, choiceView{Value: option, Selected: contains(selected, option)})
		}
	}
	return fv
}

// addressParts lays out the address inputs. Part values are read from
// values under "<field id>[<part>]", the names the inputs post with.
func addressParts(fieldID string, required bool, values map[string]string) []addressPartView {
	specs := fieldrules.AddressParts()
	out := make([]addressPartView, 0, len(specs))
	for _, spec := range specs {
		out = append(out, addressPartView{
			Part:     spec.Part,
			Label:    spec.Label,
			Value:    strings.TrimSpace(values[fieldID+"["+string(spec.Part)+"]"]),
			Required: required && spec.Part != fieldrules.AddressComplement,
			Lookup:   spec.Lookup,
		})
	}
	return out
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
