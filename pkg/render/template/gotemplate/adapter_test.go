package gotemplate_test

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/render/template/gotemplate"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestRenderTemplateWritesToOutputs(t *testing.T) {
	engine := newEngine(t)
	var out strings.Builder

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ana"}, &out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Olá, Ana!" || out.String() != result {
		t.Fatalf("unexpected output %q / %q", result, out.String())
	}
}

func TestDomainFilters(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderTemplate("filters", map[string]any{
		"digits": "12345",
		"phone":  "11999998888",
		"cep":    "01310100",
		"attrs": []fieldrules.Attr{
			{Name: "data-limit", Value: "2"},
			{Name: "bad name", Value: "x"},
			{Name: "data-hint", Value: `"quoted"`},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `R$ 123,45|(11) 99999-8888|01310-100|<input data-limit="2" data-hint="&#34;quoted&#34;">`
	if result != want {
		t.Fatalf("filters mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGlobalsAndFuncs(t *testing.T) {
	engine := newEngine(t,
		gotemplate.WithGlobalData(map[string]any{"settings": map[string]any{"env": "staging"}}),
		gotemplate.WithTemplateFuncs(render.TemplateFuncs(render.DefaultCatalog())),
	)
	result, err := engine.RenderTemplate("globals", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "staging:Submit" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestRenderStringAndCustomFilter(t *testing.T) {
	engine := newEngine(t)
	name := fmt.Sprintf("shout_%p", t)
	err := engine.RegisterFilter(name, func(input any, _ any) (any, error) {
		return strings.ToUpper(fmt.Sprint(input)) + "!", nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter(name, func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatal("expected duplicate filter error")
	}
	result, err := engine.Render("{{ word|"+name+" }}", map[string]any{"word": "oi"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "OI!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected error without base dir or fs")
	}
}
