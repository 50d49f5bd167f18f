// Package controls turns field definitions into interactive controls. A
// control holds the value being typed, applies the masks and validation rules
// of its field type and reports every accepted change to the caller. Controls
// never write persisted state.
package controls

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/validation"
)

var (
	// ErrRejected is returned when input is refused; the control state is
	// left untouched.
	ErrRejected = errors.New("controls: input rejected")
	// ErrUnsupported is returned by capabilities the field configuration
	// does not enable.
	ErrUnsupported = errors.New("controls: not supported by this field")
)

// Control is the interactive form of one field.
type Control interface {
	Field() model.Field
	// Value is the committed value: string, []string, bool, float64 or
	// map[string]string depending on the field type.
	Value() any
	// Set applies one keystroke or commit.
	Set(input string) error
	View() View
}

// Toggler is implemented by select and checkbox controls.
type Toggler interface {
	Toggle(option string) error
}

// CountrySetter is implemented by phone controls.
type CountrySetter interface {
	SetCountry(code string) error
}

// CurrencySetter is implemented by money controls.
type CurrencySetter interface {
	SetCurrency(code string) error
}

// Searcher is implemented by controls whose option list can be filtered.
type Searcher interface {
	Search(query string)
}

// PartSetter is implemented by the address composite.
type PartSetter interface {
	SetPart(ctx context.Context, part fieldrules.AddressPart, value string) error
}

// Loader is implemented by controls whose options come from a connection
// source.
type Loader interface {
	Load(ctx context.Context) error
}

// Adder is implemented by connection controls that allow adding a record.
type Adder interface {
	Add(ctx context.Context, label string) error
}

// Deps carries the collaborators shared by the controls of one form.
type Deps struct {
	// OnChange receives every accepted value change.
	OnChange    func(fieldID string, value any)
	CEP         cep.Looker
	Tracker     *cep.Tracker
	Connections connections.Source
	CompanyID   string
	Logger      logrus.FieldLogger
}

// View is the render-ready state of a control.
type View struct {
	fieldrules.Presentation
	// Value is the text shown in the primary input.
	Value    string            `json:"value"`
	Selected []string          `json:"selected,omitempty"`
	Checked  bool              `json:"checked,omitempty"`
	Valid    bool              `json:"valid"`
	Summary  string            `json:"summary,omitempty"`
	Search   string            `json:"search,omitempty"`
	Visible  []string          `json:"visible,omitempty"`
	AtLimit  bool              `json:"at_limit,omitempty"`
	Display  string            `json:"display,omitempty"`
	Parts    map[string]string `json:"parts,omitempty"`

	Country            validation.Country  `json:"country,omitzero"`
	Currency           fieldrules.Currency `json:"currency,omitzero"`
	CurrencySelectable bool                `json:"currency_selectable,omitempty"`
}

// New builds the control for f. Unknown types yield a plain text control.
func New(f model.Field, deps Deps) Control {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	b := base{field: f, deps: deps, presentation: fieldrules.Present(f)}
	switch f.Type {
	case model.FieldTypePhone:
		return newPhone(b)
	case model.FieldTypeMoney:
		return newMoney(b)
	case model.FieldTypeSlider:
		return newSlider(b)
	case model.FieldTypeAddress:
		return newAddress(b)
	case model.FieldTypeSelect:
		return newSelect(b)
	case model.FieldTypeCheckbox:
		return newCheckbox(b)
	case model.FieldTypeConnection:
		return newConnection(b)
	default:
		return newText(b)
	}
}

// NewAll builds one control per field, keyed by field id.
func NewAll(fields []model.Field, deps Deps) map[string]Control {
	out := make(map[string]Control, len(fields))
	for _, f := range fields {
		out[f.ID] = New(f, deps)
	}
	return out
}

type base struct {
	field        model.Field
	deps         Deps
	presentation fieldrules.Presentation
}

func (b *base) Field() model.Field { return b.field }

func (b *base) notify(value any) {
	if b.deps.OnChange != nil {
		b.deps.OnChange(b.field.ID, value)
	}
}

func (b *base) view() View {
	return View{Presentation: b.presentation, Valid: true}
}
