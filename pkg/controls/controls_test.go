package controls

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crmforms/pkg/cep"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/store"
)

type changeLog struct {
	mu      sync.Mutex
	changes []any
}

func (l *changeLog) record(_ string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, value)
}

func (l *changeLog) last() any {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.changes) == 0 {
		return nil
	}
	return l.changes[len(l.changes)-1]
}

func TestUnknownTypeFallsBackToText(t *testing.T) {
	control := New(model.Field{ID: "x", Name: "Mystery", Type: "hologram"}, Deps{})
	if _, ok := control.(*textControl); !ok {
		t.Fatalf("expected text control, got %T", control)
	}
	if err := control.Set("anything"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := control.View().InputType; got != "text" {
		t.Fatalf("expected text input, got %q", got)
	}
}

func TestTextMaxLengthAndName(t *testing.T) {
	log := &changeLog{}
	text := New(model.Field{ID: "t", Type: model.FieldTypeText, Config: model.TextConfig{MaxLength: 5}}, Deps{OnChange: log.record})
	if err := text.Set("abcdefgh"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if text.Value() != "abcde" || log.last() != "abcde" {
		t.Fatalf("expected truncated value, got %v / %v", text.Value(), log.last())
	}

	name := New(model.Field{ID: "n", Type: model.FieldTypeName}, Deps{})
	_ = name.Set("maria DA silva")
	if name.Value() != "Maria Da Silva" {
		t.Fatalf("unexpected name %q", name.Value())
	}
}

func TestDocumentRejectsInvalidCheckDigits(t *testing.T) {
	log := &changeLog{}
	control := New(model.Field{ID: "d", Type: model.FieldTypeDocument, Config: model.DocumentConfig{Kind: model.DocumentCPF}}, Deps{OnChange: log.record})

	if err := control.Set("1114447773"); err != nil {
		t.Fatalf("partial input should be accepted: %v", err)
	}
	if control.Value() != "1114447773" {
		t.Fatalf("partial input is not masked, got %q", control.Value())
	}
	if err := control.Set("11144477736"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if control.Value() != "1114447773" {
		t.Fatalf("rejected input must leave state untouched, got %q", control.Value())
	}
	if err := control.Set("11144477735"); err != nil {
		t.Fatalf("valid cpf rejected: %v", err)
	}
	if control.Value() != "111.444.777-35" {
		t.Fatalf("expected mask, got %q", control.Value())
	}

	cnpj := New(model.Field{ID: "c", Type: model.FieldTypeDocument, Config: model.DocumentConfig{Kind: model.DocumentCNPJ}}, Deps{})
	if err := cnpj.Set("11.222.333/0001-81"); err != nil {
		t.Fatalf("valid cnpj rejected: %v", err)
	}
	if cnpj.Value() != "11.222.333/0001-81" {
		t.Fatalf("unexpected cnpj %q", cnpj.Value())
	}
}

func TestURLAndEmailFlags(t *testing.T) {
	url := New(model.Field{ID: "u", Type: model.FieldTypeURL}, Deps{})
	_ = url.Set("exa mple.com")
	if url.Value() != "example.com" || !url.View().Valid {
		t.Fatalf("expected normalized valid url, got %q valid=%v", url.Value(), url.View().Valid)
	}
	_ = url.Set("nope")
	if url.View().Valid {
		t.Fatal("expected invalid url flag")
	}

	email := New(model.Field{ID: "e", Type: model.FieldTypeEmail}, Deps{})
	if err := email.Set("joao@"); err != nil {
		t.Fatalf("email input is never rejected: %v", err)
	}
	if email.View().Valid {
		t.Fatal("expected hint for incomplete email")
	}
}

func TestNumberAcceptsNumericTextOnly(t *testing.T) {
	control := New(model.Field{ID: "n", Type: model.FieldTypeNumber}, Deps{})
	for _, ok := range []string{"", "12", "-3", "4,5", "6."} {
		if err := control.Set(ok); err != nil {
			t.Errorf("Set(%q) rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"12a", "1.2.3", "--1"} {
		if err := control.Set(bad); !errors.Is(err, ErrRejected) {
			t.Errorf("Set(%q) = %v, want ErrRejected", bad, err)
		}
	}
}

func TestPhoneCountryResetsNumber(t *testing.T) {
	log := &changeLog{}
	control := New(model.Field{ID: "p", Type: model.FieldTypePhone}, Deps{OnChange: log.record})
	_ = control.Set("11999998888")

	view := control.View()
	if view.Value != "(11) 99999-8888" || !view.Valid {
		t.Fatalf("unexpected view %+v", view)
	}
	if control.Value() != "+55 (11) 99999-8888" {
		t.Fatalf("unexpected value %q", control.Value())
	}

	setter := control.(CountrySetter)
	if err := setter.SetCountry("us"); err != nil {
		t.Fatalf("set country: %v", err)
	}
	if control.View().Value != "" || control.View().Country.Code != "US" {
		t.Fatalf("expected cleared number in US, got %+v", control.View())
	}
	if err := setter.SetCountry("ZZ"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected unknown country rejection, got %v", err)
	}
}

func TestMoneyDisplaysFormattedProjection(t *testing.T) {
	control := New(model.Field{ID: "m", Type: model.FieldTypeMoney, Config: model.MoneyConfig{Currency: "BRL"}}, Deps{})
	if err := control.Set("12345"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := control.View().Value; got != "R$ 123,45" {
		t.Fatalf("expected R$ 123,45, got %q", got)
	}
	if err := control.Set("R$ 1.234,567"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := control.Value(); got != "R$ 12.345,67" {
		t.Fatalf("expected reformat from digits, got %q", got)
	}
	if err := control.(CurrencySetter).SetCurrency("USD"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("fixed currency must not change, got %v", err)
	}
	if err := control.Set("1234567890123456"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected digit cap rejection, got %v", err)
	}
}

func TestMoneyVariableCurrencyAndLimits(t *testing.T) {
	control := New(model.Field{ID: "m", Type: model.FieldTypeMoney, Config: model.MoneyConfig{
		Currency: model.CurrencyVariable,
		Limits:   true,
		Min:      10,
		Max:      100,
	}}, Deps{})

	view := control.View()
	if !view.CurrencySelectable || view.Currency.Code != "BRL" {
		t.Fatalf("expected selectable BRL default, got %+v", view.Currency)
	}
	if err := control.(CurrencySetter).SetCurrency("usd"); err != nil {
		t.Fatalf("set currency: %v", err)
	}
	_ = control.Set("500")
	if view := control.View(); view.Value != "$ 5.00" || view.Valid {
		t.Fatalf("expected below-min flag, got %+v", view)
	}
	if err := control.Set("10001"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected over-max rejection, got %v", err)
	}
	if control.Value() != "$ 5.00" {
		t.Fatalf("state changed after rejection: %v", control.Value())
	}
}

func TestSliderRejectsOutOfRange(t *testing.T) {
	field := model.Field{ID: "s", Type: model.FieldTypeSlider, Config: model.SliderConfig{
		Limits: true, Min: 10, Max: 20, StartEnd: true, StartLabel: "Pouco", EndLabel: "Muito",
	}}
	control := New(field, Deps{})

	if got := control.View().Display; got != "Pouco" {
		t.Fatalf("expected start label at min, got %q", got)
	}
	if err := control.Set("25"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if err := control.Set("12,5"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if control.Value() != 12.5 {
		t.Fatalf("committed value must equal input, got %v", control.Value())
	}
	_ = control.Set("20")
	if got := control.View().Display; got != "Muito" {
		t.Fatalf("expected end label at max, got %q", got)
	}
}

func TestSelectSearchAndSummary(t *testing.T) {
	field := model.Field{ID: "s", Name: "Cor", Type: model.FieldTypeSelect, Placeholder: model.Placeholder{UseName: true}, Config: model.SelectConfig{
		Options: "Azul, Verde\nAmarelo, Âmbar", Searchable: true, Multiselect: true,
	}}
	control := New(field, Deps{})
	toggler := control.(Toggler)

	if got := control.View().Summary; got != "Cor" {
		t.Fatalf("expected placeholder summary, got %q", got)
	}
	_ = toggler.Toggle("Azul")
	_ = toggler.Toggle("Verde")
	if got := control.View().Summary; got != "2 selected" {
		t.Fatalf("expected count summary, got %q", got)
	}
	if diff := cmp.Diff([]string{"Azul", "Verde"}, control.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if err := toggler.Toggle("Roxo"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected unknown option rejection, got %v", err)
	}

	control.(Searcher).Search("AM")
	if diff := cmp.Diff([]string{"Amarelo", "Âmbar"}, control.View().Visible); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleSelectToggleClears(t *testing.T) {
	control := New(model.Field{ID: "s", Type: model.FieldTypeSelect, Config: model.SelectConfig{Options: "A,B"}}, Deps{})
	_ = control.Set("A")
	_ = control.(Toggler).Toggle("B")
	if control.Value() != "B" {
		t.Fatalf("expected replacement, got %v", control.Value())
	}
	_ = control.(Toggler).Toggle("B")
	if control.Value() != "" {
		t.Fatalf("expected cleared selection, got %v", control.Value())
	}
}

func TestCheckboxLimit(t *testing.T) {
	field := model.Field{ID: "c", Type: model.FieldTypeCheckbox, Config: model.CheckboxConfig{
		Options: "A,B,C", Multiselect: true, Limit: 2,
	}}
	control := New(field, Deps{})
	toggler := control.(Toggler)

	for _, option := range []string{"A", "B"} {
		if err := toggler.Toggle(option); err != nil {
			t.Fatalf("toggle %s: %v", option, err)
		}
	}
	if err := toggler.Toggle("C"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected limit rejection, got %v", err)
	}
	if !control.View().AtLimit {
		t.Fatal("expected view at limit")
	}
	if err := toggler.Toggle("A"); err != nil {
		t.Fatalf("removal must stay allowed: %v", err)
	}
	if diff := cmp.Diff([]string{"B"}, control.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if err := control.Set("A,B,C"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected commit over limit rejection, got %v", err)
	}
}

func TestCheckboxWithoutOptionsIsBoolean(t *testing.T) {
	control := New(model.Field{ID: "c", Type: model.FieldTypeCheckbox}, Deps{})
	if control.View().Kind != fieldrules.KindToggle {
		t.Fatalf("expected toggle kind, got %q", control.View().Kind)
	}
	_ = control.(Toggler).Toggle("")
	if control.Value() != true {
		t.Fatalf("expected checked, got %v", control.Value())
	}
	_ = control.Set("off")
	if control.Value() != false {
		t.Fatalf("expected unchecked, got %v", control.Value())
	}
}

type fakeLooker struct {
	mu      sync.Mutex
	results map[string]*cep.Address
	hook    func(cep string)
}

func (f *fakeLooker) Lookup(_ context.Context, code string) *cep.Address {
	if f.hook != nil {
		f.hook(code)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[code]
}

func TestAddressFillsLookupParts(t *testing.T) {
	looker := &fakeLooker{results: map[string]*cep.Address{
		"01310-100": {State: "SP", City: "São Paulo", Neighborhood: "Bela Vista", Street: "Avenida Paulista"},
	}}
	control := New(model.Field{ID: "a", Type: model.FieldTypeAddress}, Deps{CEP: looker})
	setter := control.(PartSetter)

	_ = setter.SetPart(context.Background(), fieldrules.AddressNumber, "1000")
	_ = setter.SetPart(context.Background(), fieldrules.AddressStreet, "typed")
	if err := control.Set("01310100"); err != nil {
		t.Fatalf("set cep: %v", err)
	}

	want := map[string]string{
		"cep":          "01310-100",
		"state":        "SP",
		"city":         "São Paulo",
		"neighborhood": "Bela Vista",
		"street":       "Avenida Paulista",
		"number":       "1000",
	}
	if diff := cmp.Diff(want, control.Value()); diff != "" {
		t.Fatalf("address mismatch (-want +got):\n%s", diff)
	}
}

func TestAddressDropsStaleLookup(t *testing.T) {
	looker := &fakeLooker{results: map[string]*cep.Address{
		"01310-100": {State: "SP", City: "São Paulo"},
		"20040-020": {State: "RJ", City: "Rio de Janeiro"},
	}}
	control := New(model.Field{ID: "a", Type: model.FieldTypeAddress}, Deps{CEP: looker})
	setter := control.(PartSetter)

	// While the first lookup is in flight the user types a second CEP.
	looker.hook = func(code string) {
		if code == "01310-100" {
			looker.hook = nil
			_ = setter.SetPart(context.Background(), fieldrules.AddressCEP, "20040020")
		}
	}
	_ = setter.SetPart(context.Background(), fieldrules.AddressCEP, "01310100")

	got := control.Value().(map[string]string)
	if got["state"] != "RJ" || got["cep"] != "20040-020" {
		t.Fatalf("expected newer result to win, got %v", got)
	}
}

func TestConnectionOptionsAndAdd(t *testing.T) {
	s := store.NewMemoryStore()
	s.Seed("origins",
		store.Row{"id": "o1", "company_id": "acme", "name": "Google"},
		store.Row{"id": "o2", "company_id": "acme", "name": "Indicação"},
	)
	log := &changeLog{}
	field := model.Field{ID: "c", Type: model.FieldTypeConnection, Config: model.ConnectionConfig{
		List: model.ConnectionOrigins, AllowAddition: true,
	}}
	control := New(field, Deps{Connections: connections.NewStoreSource(s, nil), CompanyID: "acme", OnChange: log.record})

	if err := control.(Loader).Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Google", "Indicação"}, control.View().Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if err := control.Set("google"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if control.Value() != "o1" {
		t.Fatalf("expected record id, got %v", control.Value())
	}
	if !control.View().AllowAdd {
		t.Fatal("expected add affordance")
	}
	if err := control.(Adder).Add(context.Background(), "Evento"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if control.View().Value != "Evento" || log.last() != control.Value() {
		t.Fatalf("expected new record selected, got %+v", control.View())
	}
}
