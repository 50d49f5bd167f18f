package export

import (
	"bytes"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

// Runtime modules bundled into the standalone document.
const (
	ScriptMasks    = "masks"
	ScriptDropdown = "dropdown"
	ScriptSlider   = "slider"
	ScriptAddress  = "address"
	ScriptLimits   = "limits"
)

// NewDefaultRegistry returns a registry with one component per control kind.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(string(fieldrules.KindInput), Descriptor{Renderer: inputComponent, Scripts: []string{ScriptMasks}})
	r.MustRegister(string(fieldrules.KindTextarea), Descriptor{Renderer: textareaComponent})
	r.MustRegister(string(fieldrules.KindPhone), Descriptor{Renderer: phoneComponent, Scripts: []string{ScriptMasks}})
	r.MustRegister(string(fieldrules.KindMoney), Descriptor{Renderer: moneyComponent, Scripts: []string{ScriptMasks}})
	r.MustRegister(string(fieldrules.KindSlider), Descriptor{Renderer: sliderComponent, Scripts: []string{ScriptSlider}})
	r.MustRegister(string(fieldrules.KindAddress), Descriptor{Renderer: addressComponent, Scripts: []string{ScriptMasks, ScriptAddress}})
	r.MustRegister(string(fieldrules.KindSelect), Descriptor{Renderer: dropdownComponent, Scripts: []string{ScriptDropdown}})
	r.MustRegister(string(fieldrules.KindConnection), Descriptor{Renderer: dropdownComponent, Scripts: []string{ScriptDropdown}})
	r.MustRegister(string(fieldrules.KindCheckbox), Descriptor{Renderer: checkboxComponent, Scripts: []string{ScriptLimits}})
	r.MustRegister(string(fieldrules.KindToggle), Descriptor{Renderer: toggleComponent})
	return r
}

type tag struct {
	b *bytes.Buffer
}

func open(buf *bytes.Buffer, name string) tag {
	buf.WriteByte('<')
	buf.WriteString(name)
	return tag{b: buf}
}

func (t tag) attr(name, value string) tag {
	t.b.WriteByte(' ')
	t.b.WriteString(name)
	t.b.WriteString(`="`)
	t.b.WriteString(html.EscapeString(value))
	t.b.WriteByte('"')
	return t
}

func (t tag) attrIf(cond bool, name, value string) tag {
	if cond {
		return t.attr(name, value)
	}
	return t
}

func (t tag) flag(cond bool, name string) tag {
	if cond {
		t.b.WriteByte(' ')
		t.b.WriteString(name)
	}
	return t
}

func (t tag) attrs(list []fieldrules.Attr) tag {
	for _, a := range list {
		t.attr(a.Name, a.Value)
	}
	return t
}

func (t tag) close() { t.b.WriteByte('>') }

func text(buf *bytes.Buffer, value string) {
	buf.WriteString(html.EscapeString(value))
}

func inputComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	open(buf, "input").
		attr("id", p.ID).
		attr("class", "crm-input").
		attr("name", p.InputName).
		attr("type", p.InputType).
		attr("data-input-type", p.InputType).
		attrIf(p.Placeholder != "", "placeholder", p.Placeholder).
		attrIf(data.Value != "", "value", data.Value).
		flag(p.Required, "required").
		attrs(p.Attrs).
		close()
	return nil
}

func textareaComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	open(buf, "textarea").
		attr("id", p.ID).
		attr("class", "crm-input crm-textarea").
		attr("name", p.InputName).
		attr("rows", "4").
		attr("data-input-type", p.InputType).
		attrIf(p.Placeholder != "", "placeholder", p.Placeholder).
		flag(p.Required, "required").
		attrs(p.Attrs).
		close()
	text(buf, data.Value)
	buf.WriteString("</textarea>")
	return nil
}

func phoneComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	buf.WriteString(`<div class="crm-phone">`)
	open(buf, "select").
		attr("class", "crm-input crm-country").
		attr("name", p.InputName+"_country").
		attr("data-phone-country", p.ID).
		attr("aria-label", p.Label).
		close()
	for _, country := range validation.Countries() {
		open(buf, "option").
			attr("value", country.Code).
			attr("data-dial", country.DialCode).
			attr("data-masks", strings.Join(country.Masks, "|")).
			flag(country.Code == validation.DefaultCountry, "selected").
			close()
		text(buf, country.Flag+" "+country.DialCode)
		buf.WriteString("</option>")
	}
	buf.WriteString("</select>")
	if err := inputComponent(buf, p, data); err != nil {
		return err
	}
	buf.WriteString("</div>")
	return nil
}

func moneyComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	currency, _ := p.Attr("data-currency")
	buf.WriteString(`<div class="crm-money">`)
	if currency == "VARIABLES" {
		open(buf, "select").
			attr("class", "crm-input crm-currency").
			attr("name", p.InputName+"_currency").
			attr("data-money-currency", p.ID).
			attr("aria-label", p.Label).
			close()
		for _, c := range fieldrules.Currencies() {
			open(buf, "option").
				attr("value", c.Code).
				flag(c.Code == fieldrules.DefaultCurrency, "selected").
				close()
			text(buf, c.Code+" ("+c.Symbol+")")
			buf.WriteString("</option>")
		}
		buf.WriteString("</select>")
	}
	if err := inputComponent(buf, p, data); err != nil {
		return err
	}
	buf.WriteString("</div>")
	return nil
}

func sliderComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	buf.WriteString(`<div class="crm-slider">`)
	value := data.Value
	if value == "" {
		value, _ = p.Attr("min")
	}
	data.Value = value
	if err := inputComponent(buf, p, data); err != nil {
		return err
	}
	minAttr, _ := p.Attr("min")
	maxAttr, _ := p.Attr("max")
	stepAttr, _ := p.Attr("step")
	open(buf, "input").
		attr("class", "crm-input crm-slider-value").
		attr("type", "number").
		attr("min", minAttr).
		attr("max", maxAttr).
		attr("step", stepAttr).
		attr("value", value).
		attr("data-slider-for", p.ID).
		attr("aria-label", p.Label).
		close()
	open(buf, "output").attr("class", "crm-slider-label").attr("data-slider-label", p.ID).close()
	text(buf, value)
	buf.WriteString("</output></div>")
	return nil
}

func addressComponent(buf *bytes.Buffer, p fieldrules.Presentation, _ ComponentData) error {
	open(buf, "div").
		attr("id", p.ID).
		attr("class", "crm-address").
		attr("data-input-type", p.InputType).
		attr("data-cep", "true").
		close()
	for _, spec := range fieldrules.AddressParts() {
		partID := p.ID + "-" + string(spec.Part)
		buf.WriteString(`<div class="crm-address-part">`)
		open(buf, "label").attr("class", "crm-sublabel").attr("for", partID).close()
		text(buf, spec.Label)
		buf.WriteString("</label>")
		open(buf, "input").
			attr("id", partID).
			attr("class", "crm-input").
			attr("type", "text").
			attr("name", p.InputName+"["+string(spec.Part)+"]").
			attr("data-address-part", string(spec.Part)).
			flag(p.Required && spec.Part != fieldrules.AddressComplement, "required").
			attrIf(spec.Part == fieldrules.AddressCEP, "inputmode", "numeric").
			attrIf(spec.Part == fieldrules.AddressCEP, "maxlength", "9").
			close()
		buf.WriteString("</div>")
	}
	buf.WriteString("</div>")
	return nil
}

// dropdownComponent is the script-driven dropdown used by selects and
// connections; options are radio buttons or, when multiple, checkboxes.
func dropdownComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	options := p.Options
	if data.Options != nil {
		options = data.Options
	}
	placeholder := p.Placeholder
	if placeholder == "" {
		placeholder = data.T("select.placeholder")
	}
	choice := "radio"
	if p.Multiple {
		choice = "checkbox"
	}

	open(buf, "div").
		attr("id", p.ID).
		attr("class", "crm-dropdown").
		attr("data-input-type", p.InputType).
		attr("data-dropdown", "").
		attr("data-name", p.InputName).
		attr("data-count-label", data.T("select.count", 0)).
		flag(p.Multiple, "data-multiple").
		flag(p.Required, "data-required").
		attrs(p.Attrs).
		close()
	open(buf, "button").
		attr("type", "button").
		attr("class", "crm-input crm-dropdown-trigger").
		attr("data-placeholder", placeholder).
		attr("aria-haspopup", "listbox").
		close()
	text(buf, placeholder)
	buf.WriteString(`</button><div class="crm-dropdown-menu" role="listbox" hidden>`)
	if p.Searchable {
		open(buf, "input").
			attr("type", "search").
			attr("class", "crm-input crm-dropdown-search").
			attr("placeholder", data.T("select.search")).
			attr("data-dropdown-search", "").
			close()
	}
	for _, option := range options {
		buf.WriteString(`<label class="crm-option">`)
		open(buf, "input").
			attr("type", choice).
			attr("name", p.InputName).
			attr("value", option).
			attr("data-option", option).
			flag(option == data.Value, "checked").
			close()
		buf.WriteByte(' ')
		text(buf, option)
		buf.WriteString("</label>")
	}
	if p.AllowAdd {
		open(buf, "button").attr("type", "button").attr("class", "crm-dropdown-add").attr("data-dropdown-add", "").close()
		text(buf, data.T("connection.add"))
		buf.WriteString("</button>")
	}
	buf.WriteString("</div></div>")
	return nil
}

func checkboxComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	choice := "radio"
	if p.Multiple {
		choice = "checkbox"
	}
	class := "crm-choices crm-columns-" + strconv.Itoa(max(p.Columns, 1))
	optionClass := "crm-choice"
	if p.ButtonMode {
		class += " crm-buttons"
		optionClass = "crm-choice crm-choice-button"
	}
	open(buf, "div").
		attr("id", p.ID).
		attr("class", class).
		attr("data-input-type", p.InputType).
		attr("role", "group").
		flag(p.Required, "data-required").
		attrs(p.Attrs).
		close()
	selected := fieldrules.ParseOptions(data.Value)
	for _, option := range p.Options {
		open(buf, "label").attr("class", optionClass).close()
		open(buf, "input").
			attr("type", choice).
			attr("name", p.InputName).
			attr("value", option).
			attr("data-option", option).
			flag(containsString(selected, option), "checked").
			close()
		buf.WriteString("<span>")
		text(buf, option)
		buf.WriteString("</span></label>")
	}
	buf.WriteString("</div>")
	return nil
}

func toggleComponent(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error {
	buf.WriteString(`<span class="crm-toggle">`)
	open(buf, "input").
		attr("id", p.ID).
		attr("type", "checkbox").
		attr("class", "crm-toggle-input").
		attr("name", p.InputName).
		attr("value", "true").
		attr("data-input-type", p.InputType).
		flag(p.Required, "required").
		flag(data.Value == "true", "checked").
		attrs(p.Attrs).
		close()
	buf.WriteString(`<span class="crm-toggle-track"></span></span>`)
	return nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
