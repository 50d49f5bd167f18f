package composition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crmforms/pkg/model"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestStepsPartitionOnDivisions(t *testing.T) {
	form := Form{Items: []Item{
		{Division: true, DivisionTitle: "Dados"},
		{FieldID: "a"},
		{FieldID: "b"},
		{Division: true, DivisionTitle: "Contato"},
		{Division: true, DivisionTitle: "Endereço"},
		{FieldID: "c"},
		{Division: true},
	}}

	want := []Step{
		{Index: 0, Title: "Dados", FieldIDs: []string{"a", "b"}},
		{Index: 1, Title: "Endereço", FieldIDs: []string{"c"}},
	}
	if diff := cmp.Diff(want, Steps(form)); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestStepsWithoutDivisionsIsSingleStep(t *testing.T) {
	steps := Steps(Form{Items: []Item{{FieldID: "a"}, {FieldID: "b"}}})
	if len(steps) != 1 || len(steps[0].FieldIDs) != 2 {
		t.Fatalf("expected one step with two fields, got %+v", steps)
	}
	if got := Steps(Form{}); len(got) != 0 {
		t.Fatalf("expected no steps for empty form, got %+v", got)
	}
}

func TestResolveLeavesStoredFieldUntouched(t *testing.T) {
	stored := model.Field{ID: "a", Name: "Nome", Required: false, Placeholder: model.Placeholder{Text: "stored"}}
	resolved := Resolve(stored, Overlay{Required: boolPtr(true), PlaceholderEnabled: boolPtr(false)})

	if !resolved.Required {
		t.Fatalf("expected overlay required")
	}
	if resolved.Placeholder.UseName || resolved.Placeholder.Text != "" {
		t.Fatalf("expected placeholder disabled, got %+v", resolved.Placeholder)
	}
	if stored.Required || stored.Placeholder.Text != "stored" {
		t.Fatalf("stored field mutated: %+v", stored)
	}

	custom := Resolve(stored, Overlay{PlaceholderText: " Seu nome "})
	if custom.Placeholder.Text != "Seu nome" {
		t.Fatalf("expected custom placeholder, got %q", custom.Placeholder.Text)
	}
}

func TestResolveFieldsFollowsLayout(t *testing.T) {
	form := Form{
		Items:    []Item{{FieldID: "b"}, {Division: true}, {FieldID: "missing"}, {FieldID: "a"}},
		Overlays: map[string]Overlay{"a": {Required: boolPtr(true)}},
	}
	fields := []model.Field{{ID: "a"}, {ID: "b"}}

	got := form.ResolveFields(fields)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" || !got[1].Required {
		t.Fatalf("unexpected resolution %+v", got)
	}
}

func TestMoveItemKeepsRelativeOrder(t *testing.T) {
	form := Form{Items: []Item{{FieldID: "a"}, {FieldID: "b"}, {FieldID: "c"}, {FieldID: "d"}}}
	if err := form.MoveItem(0, 2); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "c", "a", "d"}, form.FieldIDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if err := form.MoveItem(3, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"d", "b", "c", "a"}, form.FieldIDs()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if err := form.MoveItem(0, 4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestRemoveItemDropsOverlay(t *testing.T) {
	form := Form{}
	form.AddField("a")
	form.AddField("a")
	form.AddDivision("Parte 2")
	form.AddField("b")
	form.SetOverlay("a", Overlay{Required: boolPtr(true)})

	if len(form.Items) != 3 {
		t.Fatalf("expected duplicate add ignored, got %d items", len(form.Items))
	}
	if err := form.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := form.Overlays["a"]; ok {
		t.Fatalf("expected overlay removed with its field")
	}
	if err := form.InsertItem(0, Item{FieldID: "z"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if diff := cmp.Diff([]string{"z", "b"}, form.FieldIDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDisqualifies(t *testing.T) {
	option := Overlay{Disqualify: &Disqualify{Option: "Não tenho interesse"}}
	if !Disqualifies(model.FieldTypeSelect, option, "não tenho interesse") {
		t.Fatalf("expected case-insensitive option match")
	}
	if Disqualifies(model.FieldTypeSelect, option, "Tenho") {
		t.Fatalf("unexpected disqualification")
	}
	if !Disqualifies(model.FieldTypeCheckbox, option, "A", "Não tenho interesse") {
		t.Fatalf("expected match among multiple values")
	}

	budget := Overlay{Disqualify: &Disqualify{Min: floatPtr(1000)}}
	if !Disqualifies(model.FieldTypeMoney, budget, "R$ 999,99") {
		t.Fatalf("expected budget below minimum to disqualify")
	}
	if Disqualifies(model.FieldTypeMoney, budget, "R$ 1.000,00") {
		t.Fatalf("minimum is inclusive")
	}

	size := Overlay{Disqualify: &Disqualify{Max: floatPtr(50)}}
	if !Disqualifies(model.FieldTypeNumber, size, "50,5") {
		t.Fatalf("expected comma decimal above max to disqualify")
	}
	if Disqualifies(model.FieldTypeText, size, "999") {
		t.Fatalf("text fields never disqualify")
	}
	if Disqualifies(model.FieldTypeNumber, Overlay{}, "1") {
		t.Fatalf("no rule, no disqualification")
	}
}
