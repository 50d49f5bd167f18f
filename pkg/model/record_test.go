package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldFromRecordDropsForeignAttributes(t *testing.T) {
	record := Record{
		ID:   "f1",
		Name: "Budget",
		Type: "slider",
		Attributes: map[string]any{
			"slider_min":        float64(10),
			"slider_max":        "500",
			"slider_step_value": 5,
			"slider_start_end":  true,
			"slider_start":      "Low",
			"slider_end":        "High",
			"max_length":        30,
			"options":           "A,B",
		},
	}

	field := FieldFromRecord(record)

	want := SliderConfig{Min: 10, Max: 500, StepValue: 5, StartEnd: true, StartLabel: "Low", EndLabel: "High"}
	if diff := cmp.Diff(want, field.Slider()); diff != "" {
		t.Fatalf("slider config mismatch (-want +got):\n%s", diff)
	}
	if got := field.Text(); got != (TextConfig{}) {
		t.Fatalf("expected text attributes ignored for slider, got %+v", got)
	}
	if got := field.Select(); got != (SelectConfig{}) {
		t.Fatalf("expected select attributes ignored for slider, got %+v", got)
	}
}

func TestFieldConfigAccessorsAcceptPointers(t *testing.T) {
	field := Field{Type: FieldTypeMoney, Config: &MoneyConfig{Currency: "USD", Limits: true, Max: 100}}
	want := MoneyConfig{Currency: "USD", Limits: true, Max: 100}
	if diff := cmp.Diff(want, field.Money()); diff != "" {
		t.Fatalf("money config mismatch (-want +got):\n%s", diff)
	}

	var nilConfig *MoneyConfig
	field.Config = nilConfig
	if diff := cmp.Diff(MoneyConfig{}, field.Money()); diff != "" {
		t.Fatalf("expected zero config for nil pointer (-want +got):\n%s", diff)
	}

	field = Field{Type: FieldTypeText, Config: SliderConfig{Min: 1}}
	if diff := cmp.Diff(SliderConfig{}, field.Slider()); diff != "" {
		t.Fatalf("expected slider config ignored on text field (-want +got):\n%s", diff)
	}
}

func TestFieldFromRecordUnknownTypeFallsBackToText(t *testing.T) {
	field := FieldFromRecord(Record{ID: "x", Name: "Mystery", Type: "hologram"})
	if field.Type != FieldTypeText {
		t.Fatalf("expected text fallback, got %q", field.Type)
	}
}

func TestFieldFromRecordDocumentKindPrefersCPF(t *testing.T) {
	field := FieldFromRecord(Record{
		Type:       "document",
		Attributes: map[string]any{"document_cpf": true, "document_cnpj": true},
	})
	if got := field.Document().Kind; got != DocumentCPF {
		t.Fatalf("expected cpf, got %q", got)
	}

	field = FieldFromRecord(Record{
		Type:       "document",
		Attributes: map[string]any{"document_cnpj": "true"},
	})
	if got := field.Document().Kind; got != DocumentCNPJ {
		t.Fatalf("expected cnpj, got %q", got)
	}
}

func TestFieldFromRecordDerivesSenderUnlessManual(t *testing.T) {
	derived := FieldFromRecord(Record{Name: "Data de Nascimento", Type: "date", Sender: "stale"})
	if derived.Sender != "data_de_nascimento" {
		t.Fatalf("expected derived sender, got %q", derived.Sender)
	}

	manual := FieldFromRecord(Record{Name: "Data de Nascimento", Type: "date", Sender: "birth", SenderManual: true})
	if manual.Sender != "birth" {
		t.Fatalf("expected manual sender preserved, got %q", manual.Sender)
	}
}

func TestRecordFromFieldWritesOnlyVariantKeys(t *testing.T) {
	field := Field{
		ID:   "c1",
		Name: "Interesses",
		Type: FieldTypeCheckbox,
		Config: CheckboxConfig{
			Multiselect: true,
			Limit:       2,
			Columns:     3,
			Options:     "A\nB\nC",
		},
	}

	record := RecordFromField("acme", ContextLeads, field)

	want := map[string]any{
		"checkbox_multiselect": true,
		"checkbox_limit":       2,
		"checkbox_columns":     3,
		"checkbox_options":     "A\nB\nC",
		"checkbox_button_mode": false,
	}
	if diff := cmp.Diff(want, record.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if record.Sender != "interesses" {
		t.Fatalf("expected derived sender, got %q", record.Sender)
	}
}

func TestRecordJSONIsFlat(t *testing.T) {
	payload := []byte(`{
		"id": "m1",
		"name": "Valor",
		"type": "money",
		"required": true,
		"order": 3,
		"money_currency": "brl",
		"money_limits": true,
		"money_max": 1000
	}`)

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record.Order != 3 || !record.Required {
		t.Fatalf("unexpected columns: %+v", record)
	}

	field := FieldFromRecord(record)
	want := MoneyConfig{Limits: true, Max: 1000, Currency: "BRL"}
	if diff := cmp.Diff(want, field.Money()); diff != "" {
		t.Fatalf("money config mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(RecordFromField("acme", ContextSales, field))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(encoded, &flat); err != nil {
		t.Fatalf("unmarshal flat: %v", err)
	}
	if flat["money_currency"] != "BRL" {
		t.Fatalf("expected flat money_currency, got %v", flat["money_currency"])
	}
	if flat["context"] != "sales" {
		t.Fatalf("expected context column, got %v", flat["context"])
	}
}

func TestDeriveSender(t *testing.T) {
	cases := map[string]string{
		"Data de Nascimento": "data_de_nascimento",
		"leadSource":         "lead_source",
		"  E-mail  ":         "e_mail",
		"Opção Preferida!":   "opcao_preferida",
		"Telefone 2":         "telefone_2",
		"":                   "",
	}
	for input, want := range cases {
		if got := DeriveSender(input); got != want {
			t.Errorf("DeriveSender(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSortFieldsIsStable(t *testing.T) {
	fields := []Field{
		{ID: "c", Order: 2},
		{ID: "a", Order: 1},
		{ID: "b", Order: 1},
	}
	SortFields(fields)
	got := []string{fields[0].ID, fields[1].ID, fields[2].ID}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchesSearchIgnoresCaseAndAccents(t *testing.T) {
	cases := []struct {
		label, query string
		want         bool
	}{
		{"Mário", "MAR", true},
		{"Indicação", "indicacao", true},
		{"São Paulo", "SÃO", true},
		{"Ana", "mar", false},
		{"Ana", "  ", true},
	}
	for _, tc := range cases {
		if got := MatchesSearch(tc.label, tc.query); got != tc.want {
			t.Errorf("MatchesSearch(%q, %q) = %v, want %v", tc.label, tc.query, got, tc.want)
		}
	}
}
