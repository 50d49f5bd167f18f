package fieldrules

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

// Kind groups field types by the control that renders them.
type Kind string

const (
	KindInput      Kind = "input"
	KindTextarea   Kind = "textarea"
	KindPhone      Kind = "phone"
	KindMoney      Kind = "money"
	KindSlider     Kind = "slider"
	KindAddress    Kind = "address"
	KindSelect     Kind = "select"
	KindCheckbox   Kind = "checkbox"
	KindToggle     Kind = "toggle"
	KindConnection Kind = "connection"
)

// KindOf maps a field type to its control kind. Unknown types render as
// plain inputs.
func KindOf(t model.FieldType) Kind {
	switch t {
	case model.FieldTypeTextarea:
		return KindTextarea
	case model.FieldTypePhone:
		return KindPhone
	case model.FieldTypeMoney:
		return KindMoney
	case model.FieldTypeSlider:
		return KindSlider
	case model.FieldTypeAddress:
		return KindAddress
	case model.FieldTypeSelect:
		return KindSelect
	case model.FieldTypeCheckbox:
		return KindCheckbox
	case model.FieldTypeConnection:
		return KindConnection
	default:
		return KindInput
	}
}

// InputType returns the HTML input type used for t. Composite kinds report
// the type of their primary input.
func InputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypePhone:
		return "tel"
	case model.FieldTypeNumber:
		return "number"
	case model.FieldTypeDate:
		return "date"
	case model.FieldTypeTime:
		return "time"
	case model.FieldTypeDatetime:
		return "datetime-local"
	case model.FieldTypeURL:
		return "url"
	case model.FieldTypeSlider:
		return "range"
	case model.FieldTypeTextarea:
		return "textarea"
	case model.FieldTypeSelect, model.FieldTypeConnection:
		return "select"
	case model.FieldTypeCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}

// Attr is one extra attribute emitted on a field's primary input.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Presentation is the render-ready projection of a field shared by the
// preview and the export. Both surfaces emit the same label, input type,
// options and attributes from it.
type Presentation struct {
	ID          string          `json:"id"`
	InputName   string          `json:"input_name"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder"`
	Type        model.FieldType `json:"type"`
	InputType   string          `json:"input_type"`
	Kind        Kind            `json:"kind"`
	Required    bool            `json:"required"`
	Options     []string        `json:"options,omitempty"`
	Multiple    bool            `json:"multiple,omitempty"`
	Searchable  bool            `json:"searchable,omitempty"`
	ButtonMode  bool            `json:"button_mode,omitempty"`
	Columns     int             `json:"columns,omitempty"`
	AllowAdd    bool            `json:"allow_add,omitempty"`
	Attrs       []Attr          `json:"attrs,omitempty"`
}

// ControlID is the DOM id of a field's primary input.
func ControlID(fieldID string) string {
	return "field-" + fieldID
}

// Present projects a field into its presentation. Overlays must already be
// applied to f.
func Present(f model.Field) Presentation {
	label := strings.TrimSpace(f.Name)
	if label == "" {
		label = model.DefaultLabel(f.ID)
	}
	p := Presentation{
		ID:          ControlID(f.ID),
		InputName:   f.PropertyName(),
		Label:       label,
		Placeholder: f.Placeholder.Resolve(label),
		Type:        f.Type,
		InputType:   InputType(f.Type),
		Kind:        KindOf(f.Type),
		Required:    f.Required,
	}

	attrs := map[string]string{"data-field-type": string(f.Type)}
	switch f.Type {
	case model.FieldTypeText, model.FieldTypeTextarea:
		if n := f.Text().MaxLength; n > 0 {
			attrs["maxlength"] = strconv.Itoa(n)
		}
	case model.FieldTypeName:
		attrs["data-format"] = "name"
	case model.FieldTypeEmail:
		attrs["data-hint"] = validation.EmailPattern()
	case model.FieldTypeNumber:
		attrs["inputmode"] = "decimal"
	case model.FieldTypeDocument:
		if kind := f.Document().Kind; kind != model.DocumentNone {
			attrs["data-document"] = string(kind)
			attrs["maxlength"] = strconv.Itoa(documentMaskLength(kind))
		}
	case model.FieldTypePhone:
		country := validation.CountryByCode(validation.DefaultCountry)
		attrs["data-country"] = country.Code
		attrs["data-masks"] = strings.Join(country.Masks, "|")
	case model.FieldTypeMoney:
		cfg := f.Money()
		attrs["inputmode"] = "numeric"
		attrs["data-currency"] = moneyCurrencyAttr(cfg)
		if cfg.Limits {
			attrs["data-money-min"] = FormatNumber(cfg.Min)
			if cfg.Max > 0 {
				attrs["data-money-max"] = FormatNumber(cfg.Max)
			}
		}
	case model.FieldTypeSlider:
		cfg := f.Slider()
		min, max, step := SliderBounds(cfg)
		attrs["min"] = FormatNumber(min)
		attrs["max"] = FormatNumber(max)
		attrs["step"] = FormatNumber(step)
		if cfg.StartEnd {
			attrs["data-start-label"] = cfg.StartLabel
			attrs["data-end-label"] = cfg.EndLabel
		}
	case model.FieldTypeSelect:
		cfg := f.Select()
		p.Options = ParseOptions(cfg.Options)
		p.Multiple = cfg.Multiselect
		p.Searchable = cfg.Searchable
		if cfg.SelectionConnection && cfg.SelectionList != "" {
			attrs["data-connection"] = string(cfg.SelectionList)
		}
	case model.FieldTypeCheckbox:
		cfg := f.Checkbox()
		p.Options = ParseOptions(cfg.Options)
		if len(p.Options) == 0 {
			p.Kind = KindToggle
			break
		}
		p.Multiple = cfg.Multiselect
		p.ButtonMode = cfg.ButtonMode
		p.Columns = cfg.ColumnCount()
		if cfg.Multiselect && cfg.Limit > 0 {
			attrs["data-limit"] = strconv.Itoa(cfg.Limit)
		}
	case model.FieldTypeConnection:
		cfg := f.Connection()
		p.Searchable = true
		p.AllowAdd = cfg.AllowAddition
		if cfg.List != "" {
			attrs["data-connection"] = string(cfg.List)
		}
	case model.FieldTypeAddress:
		attrs["data-cep"] = "true"
	}
	p.Attrs = sortedAttrs(attrs)
	return p
}

// Attr returns the value of the named attribute.
func (p Presentation) Attr(name string) (string, bool) {
	for _, a := range p.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func moneyCurrencyAttr(cfg model.MoneyConfig) string {
	if cfg.Variable() {
		return model.CurrencyVariable
	}
	return ResolveCurrency(cfg.Currency).Code
}

func documentMaskLength(kind model.DocumentKind) int {
	if kind == model.DocumentCNPJ {
		return len("00.000.000/0000-00")
	}
	return len("000.000.000-00")
}

func sortedAttrs(attrs map[string]string) []Attr {
	out := make([]Attr, 0, len(attrs))
	for name, value := range attrs {
		out = append(out, Attr{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
