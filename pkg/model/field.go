package model

import (
	"cmp"
	"slices"
)

// Placeholder controls the hint text shown inside an empty control.
type Placeholder struct {
	// UseName shows the field name as placeholder.
	UseName bool `json:"use_name"`
	// Text overrides the name when non-empty.
	Text string `json:"text,omitempty"`
}

// Resolve returns the placeholder text for a field called name.
func (p Placeholder) Resolve(name string) string {
	if p.Text != "" {
		return p.Text
	}
	if p.UseName {
		return name
	}
	return ""
}

// Field is a configured custom field. Config carries the attributes of the
// variant matching Type; use the typed accessors rather than asserting on
// Config directly.
type Field struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        FieldType   `json:"type"`
	Required    bool        `json:"required"`
	Order       int         `json:"order"`
	Placeholder Placeholder `json:"placeholder"`
	// Sender is the property name used when the value is delivered to a
	// webhook.
	Sender       string      `json:"sender"`
	SenderManual bool        `json:"sender_manual,omitempty"`
	Config       FieldConfig `json:"-"`
}

// FieldConfig is implemented by every type-specific attribute set.
type FieldConfig interface {
	AppliesTo(t FieldType) bool
}

// TextConfig applies to text and textarea fields.
type TextConfig struct {
	MaxLength int `mapstructure:"max_length"`
}

func (TextConfig) AppliesTo(t FieldType) bool {
	return t == FieldTypeText || t == FieldTypeTextarea
}

// SelectConfig applies to select fields. Options holds the raw delimited
// list as entered by the administrator.
type SelectConfig struct {
	Options             string         `mapstructure:"options"`
	Searchable          bool           `mapstructure:"searchable"`
	Multiselect         bool           `mapstructure:"multiselect"`
	SelectionConnection bool           `mapstructure:"selection_connection"`
	SelectionList       ConnectionList `mapstructure:"selection_list"`
}

func (SelectConfig) AppliesTo(t FieldType) bool { return t == FieldTypeSelect }

// CheckboxConfig applies to checkbox fields. An empty Options list renders a
// single boolean toggle.
type CheckboxConfig struct {
	Multiselect bool   `mapstructure:"checkbox_multiselect"`
	Limit       int    `mapstructure:"checkbox_limit"`
	Columns     int    `mapstructure:"checkbox_columns"`
	Options     string `mapstructure:"checkbox_options"`
	ButtonMode  bool   `mapstructure:"checkbox_button_mode"`
}

func (CheckboxConfig) AppliesTo(t FieldType) bool { return t == FieldTypeCheckbox }

// ColumnCount clamps Columns into 1..10.
func (c CheckboxConfig) ColumnCount() int {
	switch {
	case c.Columns < 1:
		return 1
	case c.Columns > 10:
		return 10
	default:
		return c.Columns
	}
}

// MoneyConfig applies to money fields. Currency is an ISO code or
// CurrencyVariable.
type MoneyConfig struct {
	Limits   bool    `mapstructure:"money_limits"`
	Min      float64 `mapstructure:"money_min"`
	Max      float64 `mapstructure:"money_max"`
	Currency string  `mapstructure:"money_currency"`
}

func (MoneyConfig) AppliesTo(t FieldType) bool { return t == FieldTypeMoney }

// Variable reports whether the end user chooses the currency.
func (c MoneyConfig) Variable() bool { return c.Currency == CurrencyVariable }

// SliderConfig applies to slider fields.
type SliderConfig struct {
	Limits     bool    `mapstructure:"slider_limits"`
	Min        float64 `mapstructure:"slider_min"`
	Max        float64 `mapstructure:"slider_max"`
	Step       bool    `mapstructure:"slider_step"`
	StepValue  float64 `mapstructure:"slider_step_value"`
	StartEnd   bool    `mapstructure:"slider_start_end"`
	StartLabel string  `mapstructure:"slider_start"`
	EndLabel   string  `mapstructure:"slider_end"`
}

func (SliderConfig) AppliesTo(t FieldType) bool { return t == FieldTypeSlider }

// DocumentConfig applies to document fields.
type DocumentConfig struct {
	Kind DocumentKind
}

func (DocumentConfig) AppliesTo(t FieldType) bool { return t == FieldTypeDocument }

// ConnectionConfig applies to connection fields.
type ConnectionConfig struct {
	List          ConnectionList `mapstructure:"connection_list"`
	AllowAddition bool           `mapstructure:"connection_addition"`
}

func (ConnectionConfig) AppliesTo(t FieldType) bool { return t == FieldTypeConnection }

func configAs[T FieldConfig](f Field) T {
	var zero T
	if f.Config == nil {
		return zero
	}
	if p, ok := any(f.Config).(*T); ok {
		if p == nil || !(*p).AppliesTo(f.Type) {
			return zero
		}
		return *p
	}
	cfg, ok := f.Config.(T)
	if !ok || !cfg.AppliesTo(f.Type) {
		return zero
	}
	return cfg
}

func (f Field) Text() TextConfig             { return configAs[TextConfig](f) }
func (f Field) Select() SelectConfig         { return configAs[SelectConfig](f) }
func (f Field) Checkbox() CheckboxConfig     { return configAs[CheckboxConfig](f) }
func (f Field) Money() MoneyConfig           { return configAs[MoneyConfig](f) }
func (f Field) Slider() SliderConfig         { return configAs[SliderConfig](f) }
func (f Field) Document() DocumentConfig     { return configAs[DocumentConfig](f) }
func (f Field) Connection() ConnectionConfig { return configAs[ConnectionConfig](f) }

// ConnectionList returns the CRM list backing a connection field, or a
// select field sourcing its options from a connection.
func (f Field) ConnectionList() (ConnectionList, bool) {
	switch f.Type {
	case FieldTypeConnection:
		list := f.Connection().List
		return list, list != ""
	case FieldTypeSelect:
		cfg := f.Select()
		return cfg.SelectionList, cfg.SelectionConnection && cfg.SelectionList != ""
	default:
		return "", false
	}
}

// PropertyName returns the webhook property for the field, deriving it from
// the name when no sender was stored.
func (f Field) PropertyName() string {
	if f.Sender != "" {
		return f.Sender
	}
	if derived := DeriveSender(f.Name); derived != "" {
		return derived
	}
	return f.ID
}

// SortFields orders fields by Order, keeping the input order for ties.
func SortFields(fields []Field) {
	slices.SortStableFunc(fields, func(a, b Field) int {
		return cmp.Compare(a.Order, b.Order)
	})
}
