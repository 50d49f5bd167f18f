package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/style"
)

func sampleDocument() render.Document {
	form := composition.Form{
		ID:        "form-1",
		CompanyID: "acme",
		Context:   model.ContextLeads,
		Title:     "<b>Contato</b> & Vendas<script>alert(1)</script>",
		Style:     style.Default(),
	}
	form.AddField("name")
	form.AddField("interest")
	form.AddDivision("Detalhes")
	form.AddField("budget")
	form.AddField("ghost")
	form.Style.SuccessMessage = `<p>Obrigado <a href="https://example.com" onclick="x()">site</a></p><script>bad()</script>`

	return render.Document{
		Form: form,
		Fields: []model.Field{
			{ID: "name", Name: "Nome", Type: model.FieldTypeName, Required: true},
			{ID: "interest", Name: "Interesse", Type: model.FieldTypeSelect, Config: model.SelectConfig{Options: "Casa,Apartamento", Multiselect: true}},
			{ID: "budget", Name: "Orçamento", Type: model.FieldTypeMoney, Config: model.MoneyConfig{Currency: "USD"}},
		},
		SubmitURL: "https://forms.example.com/f/form-1/submit",
	}
}

func TestStylesheetProjectsTokens(t *testing.T) {
	cfg := style.Default()
	cfg.ButtonAngle = -45
	cfg.ButtonColorStart = "#ff0000"
	cfg.ButtonColorEnd = "#00ff00"
	cfg.FieldGap = 12

	css := Stylesheet(cfg)

	for _, want := range []string{
		"--crm-field-gap:12px;",
		"linear-gradient(315deg, #ff0000, #00ff00)",
		".crm-columns-1{grid-template-columns:repeat(1,minmax(0,1fr))}",
		".crm-columns-10{grid-template-columns:repeat(10,minmax(0,1fr))}",
		".crm-input:focus",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}
	if strings.Contains(css, ".crm-columns-11") {
		t.Fatalf("unexpected grid wider than %d columns", MaxColumns)
	}
}

func TestStylesheetSkipsUnsafeTokens(t *testing.T) {
	tokens := style.Default().Tokens()
	tokens[style.TokenLabelColor] = "red;}</style><script>"
	css := StylesheetFromTokens(tokens)
	if strings.Contains(css, "<script>") || strings.Contains(css, "--crm-label-color:") {
		t.Fatalf("unsafe token leaked into stylesheet")
	}
}

func TestGeneratorOverlaysSelectedTheme(t *testing.T) {
	manifest := &theme.Manifest{
		Name:   "dark",
		Tokens: map[string]string{style.TokenFocusColor: "#ff00ff"},
		Variants: map[string]theme.Variant{
			"contrast": {Tokens: map[string]string{style.TokenLabelColor: "#000000"}},
		},
	}
	g := New(WithThemeSelector(style.NewSelector(manifest), "dark", "contrast"))

	css := g.Stylesheet(style.Default(), "", "")
	if !strings.Contains(css, "--crm-focus-color:#ff00ff;") {
		t.Fatalf("expected theme focus colour, got:\n%s", css)
	}
	if !strings.Contains(css, "--crm-label-color:#000000;") {
		t.Fatalf("expected variant label colour")
	}

	fallback := g.Stylesheet(style.Default(), "missing", "")
	if !strings.Contains(fallback, "--crm-focus-color:"+style.Default().FocusColor) {
		t.Fatalf("expected form style when theme is unknown")
	}
}

func TestFragmentRendersSelectAsDropdown(t *testing.T) {
	field := model.Field{
		ID:   "interest",
		Name: "Interesse",
		Type: model.FieldTypeSelect,
		Config: model.SelectConfig{
			Options:     "Casa\nApartamento\nTerreno",
			Multiselect: true,
			Searchable:  true,
		},
	}
	markup, err := Fragment(field, style.Default())
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	doc := parseHTML(t, markup)

	options := findAll(doc, hasAttr("data-option"))
	var got []string
	for _, option := range options {
		value, _ := attrOf(option, "value")
		got = append(got, value)
		if typ, _ := attrOf(option, "type"); typ != "checkbox" {
			t.Fatalf("expected checkbox options for multiselect, got %q", typ)
		}
	}
	if diff := cmp.Diff([]string{"Casa", "Apartamento", "Terreno"}, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if len(findAll(doc, hasAttr("data-dropdown-search"))) != 1 {
		t.Fatalf("expected search box for searchable select")
	}
	labels := findAll(doc, withAttr("data-label-for", fieldrules.ControlID("interest")))
	if len(labels) != 1 || textOf(labels[0]) != "Interesse" {
		t.Fatalf("expected label for control")
	}
}

func TestFragmentCheckboxVariants(t *testing.T) {
	toggle, err := Fragment(model.Field{ID: "optin", Name: "Aceito", Type: model.FieldTypeCheckbox}, style.Default())
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if !strings.Contains(toggle, `class="crm-toggle"`) {
		t.Fatalf("expected toggle for checkbox without options:\n%s", toggle)
	}

	group, err := Fragment(model.Field{
		ID:   "days",
		Name: "Dias",
		Type: model.FieldTypeCheckbox,
		Config: model.CheckboxConfig{
			Options:     "Seg,Ter,Qua",
			Multiselect: true,
			Limit:       2,
			Columns:     14,
			ButtonMode:  true,
		},
	}, style.Default())
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	doc := parseHTML(t, group)
	groups := findAll(doc, withAttr("data-limit", "2"))
	if len(groups) != 1 {
		t.Fatalf("expected limit on group:\n%s", group)
	}
	class, _ := attrOf(groups[0], "class")
	if !strings.Contains(class, "crm-columns-10") || !strings.Contains(class, "crm-buttons") {
		t.Fatalf("unexpected group class %q", class)
	}
}

func TestFragmentEscapesAdminText(t *testing.T) {
	markup, err := Fragment(model.Field{
		ID:          "evil",
		Name:        `<img src=x onerror=alert(1)>`,
		Type:        model.FieldTypeText,
		Placeholder: model.Placeholder{Text: `"><script>`},
	}, style.Default())
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if strings.Contains(markup, "<img") || strings.Contains(markup, "<script>") {
		t.Fatalf("markup not escaped:\n%s", markup)
	}
}

func TestRegistryFallsBackToInput(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(string(fieldrules.KindInput), Descriptor{Renderer: inputComponent})

	g := New(WithRegistry(registry))
	markup, err := g.Fragment(model.Field{ID: "s", Name: "Slider", Type: model.FieldTypeSlider}, style.Default())
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if !strings.Contains(markup, `type="range"`) {
		t.Fatalf("expected plain range input:\n%s", markup)
	}

	if _, err := NewRegistry().Resolve(fieldrules.KindSelect); err == nil {
		t.Fatalf("expected error from empty registry")
	}
}

func TestRegistryScriptsAreDeduplicated(t *testing.T) {
	registry := NewDefaultRegistry()
	got := registry.Scripts([]string{"input", "phone", "address", "select", "connection", "missing"})
	want := []string{ScriptMasks, ScriptAddress, ScriptDropdown}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}

	clone := registry.Clone()
	clone.MustRegister("input", Descriptor{Renderer: textareaComponent})
	original, _ := registry.Descriptor("input")
	if len(original.Scripts) != 1 {
		t.Fatalf("clone changed the original registry")
	}
}

func TestStandaloneDocument(t *testing.T) {
	doc := sampleDocument()
	out, err := New().Standalone(context.Background(), doc, render.RenderOptions{
		Hidden: map[string]string{"utm_source": "google"},
		Errors: map[string][]string{"name": {"Campo obrigatório"}},
	})
	if err != nil {
		t.Fatalf("standalone: %v", err)
	}
	page := string(out)
	root := parseHTML(t, page)

	steps := findAll(root, hasAttr("data-step"))
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if _, hidden := attrOf(steps[1], "hidden"); !hidden {
		t.Fatalf("expected second step hidden")
	}
	if got := findAll(root, withAttr("data-field", "ghost")); len(got) != 0 {
		t.Fatalf("unknown field reference rendered")
	}

	forms := findAll(root, hasAttr("data-crm-form"))
	if len(forms) != 1 {
		t.Fatalf("expected one form")
	}
	if action, _ := attrOf(forms[0], "action"); action != doc.SubmitURL {
		t.Fatalf("unexpected action %q", action)
	}

	titles := findAll(root, withAttr("class", "crm-title"))
	if len(titles) != 1 || textOf(titles[0]) != "Contato & Vendas" {
		t.Fatalf("unexpected title %+v", titles)
	}
	if strings.Contains(page, "alert(1)") || strings.Contains(page, "bad()") || strings.Contains(page, "onclick") {
		t.Fatalf("unsanitised admin content in output")
	}

	hidden := findAll(root, withAttr("name", "utm_source"))
	if len(hidden) != 1 {
		t.Fatalf("expected hidden utm field")
	}

	errs := findAll(root, withAttr("data-error-for", fieldrules.ControlID("name")))
	if len(errs) != 1 || textOf(errs[0]) != "Campo obrigatório" {
		t.Fatalf("expected pre-rendered field error")
	}

	for _, want := range []string{"crmforms:height", "MutationObserver", "crm-dropdown-trigger", `"code":"USD"`, "R$"} {
		if !strings.Contains(page, want) {
			t.Errorf("standalone output missing %q", want)
		}
	}
	if strings.Contains(page, "data-cep") && !strings.Contains(page, "viacep") {
		t.Fatalf("address runtime missing")
	}
}

func TestStandaloneEmailHintNeverBlocks(t *testing.T) {
	doc := sampleDocument()
	doc.Fields = append(doc.Fields, model.Field{ID: "mail", Name: "E-mail", Type: model.FieldTypeEmail, Required: true})
	doc.Form.AddField("mail")
	out, err := New().Standalone(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("standalone: %v", err)
	}
	page := string(out)

	inputs := findAll(parseHTML(t, page), withAttr("id", fieldrules.ControlID("mail")))
	if len(inputs) != 1 {
		t.Fatalf("expected one e-mail input")
	}
	if _, ok := attrOf(inputs[0], "data-hint"); !ok {
		t.Fatalf("expected hint pattern on e-mail input")
	}
	for _, want := range []string{`classList.toggle("crm-hint"`, `if (el.type === "email") return false;`, ".crm-input.crm-hint{"} {
		if !strings.Contains(page, want) {
			t.Errorf("standalone output missing %q", want)
		}
	}
}

func TestSliderRuntimeRejectsOutOfRangeInput(t *testing.T) {
	script := Script(ScriptSlider)
	if strings.Contains(script, "Math.max") || strings.Contains(script, "Math.min") {
		t.Fatalf("slider runtime clamps typed values")
	}
	for _, want := range []string{"n < Number(range.min)", "n > Number(range.max)", "box.value = range.value"} {
		if !strings.Contains(script, want) {
			t.Errorf("slider runtime missing %q", want)
		}
	}
}

func TestStandaloneDropsScriptRedirects(t *testing.T) {
	doc := sampleDocument()
	doc.Form.Style.RedirectURL = "javascript:alert(document.cookie)"
	out, err := New().Standalone(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("standalone: %v", err)
	}
	if strings.Contains(string(out), "javascript:") {
		t.Fatalf("script redirect leaked into the runtime config")
	}

	doc.Form.Style.RedirectURL = "example.com/obrigado"
	out, err = New().Standalone(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("standalone: %v", err)
	}
	if !strings.Contains(string(out), `"redirectUrl":"https://example.com/obrigado"`) {
		t.Fatalf("expected normalised redirect in runtime config")
	}
}

func TestStandaloneSubsetAndLocale(t *testing.T) {
	out, err := New().Standalone(context.Background(), sampleDocument(), render.RenderOptions{
		Subset: render.Subset{Steps: []int{1}},
		Locale: "en-US",
	})
	if err != nil {
		t.Fatalf("standalone: %v", err)
	}
	root := parseHTML(t, string(out))
	steps := findAll(root, hasAttr("data-step"))
	if len(steps) != 1 {
		t.Fatalf("expected a single step, got %d", len(steps))
	}
	if index, _ := attrOf(steps[0], "data-step"); index != "1" {
		t.Fatalf("expected original step index, got %q", index)
	}
	backs := findAll(root, hasAttr("data-back"))
	if len(backs) != 1 || textOf(backs[0]) != "Back" {
		t.Fatalf("expected english back button")
	}
}

type stubSource struct {
	options []connections.Option
	err     error
	calls   int
}

func (s *stubSource) Options(_ context.Context, companyID string, list model.ConnectionList, _ string) ([]connections.Option, error) {
	s.calls++
	if companyID != "acme" || list != model.ConnectionOrigins {
		return nil, connections.ErrUnknownList
	}
	return s.options, s.err
}

func TestStandaloneLoadsConnectionOptions(t *testing.T) {
	doc := sampleDocument()
	doc.Form.AddField("origin")
	doc.Fields = append(doc.Fields, model.Field{
		ID:     "origin",
		Name:   "Origem",
		Type:   model.FieldTypeConnection,
		Config: model.ConnectionConfig{List: model.ConnectionOrigins},
	})

	source := &stubSource{options: []connections.Option{{ID: "1", Label: "Google"}, {ID: "2", Label: "Indicação"}}}
	out, err := New(WithConnections(source)).Standalone(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("standalone: %v", err)
	}
	root := parseHTML(t, string(out))
	dropdowns := findAll(root, withAttr("id", fieldrules.ControlID("origin")))
	if len(dropdowns) != 1 {
		t.Fatalf("expected connection dropdown")
	}
	var got []string
	for _, option := range findAll(dropdowns[0], hasAttr("data-option")) {
		value, _ := attrOf(option, "data-option")
		got = append(got, value)
	}
	if diff := cmp.Diff([]string{"Google", "Indicação"}, got); diff != "" {
		t.Fatalf("connection options mismatch (-want +got):\n%s", diff)
	}

	source.err = errors.New("down")
	if _, err := New(WithConnections(source)).Standalone(context.Background(), doc, render.RenderOptions{}); err != nil {
		t.Fatalf("connection failure should not fail the export: %v", err)
	}
}

func TestGeneratorImplementsRenderer(t *testing.T) {
	registry, err := render.NewRegistry(New())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	out, contentType, err := registry.Render(context.Background(), "standalone", sampleDocument(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if contentType != "text/html; charset=utf-8" || !bytes.HasPrefix(out, []byte("<!DOCTYPE html>")) {
		t.Fatalf("unexpected output %q", contentType)
	}
}

func TestIframeSnippet(t *testing.T) {
	snippet := IframeSnippet(IframeOptions{
		FormID: "form-1",
		URL:    "https://forms.example.com/f/form-1?embed=1&x=<y>",
		Title:  "Contato",
	})
	root := parseHTML(t, snippet)
	frames := findAll(root, withAttr("id", "crm-form-form-1"))
	if len(frames) != 1 {
		t.Fatalf("expected iframe:\n%s", snippet)
	}
	if src, _ := attrOf(frames[0], "src"); src != "https://forms.example.com/f/form-1?embed=1&x=<y>" {
		t.Fatalf("unexpected src %q", src)
	}
	if styleAttr, _ := attrOf(frames[0], "style"); !strings.Contains(styleAttr, "height:600px") {
		t.Fatalf("expected default height, got %q", styleAttr)
	}
	scripts := findAll(root, withAttr("data-frame", "crm-form-form-1"))
	if len(scripts) != 1 || !strings.Contains(textOf(scripts[0]), "crmforms:tracking") {
		t.Fatalf("expected relay script")
	}
}
