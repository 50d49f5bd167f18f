// Package fixture reads form definitions from YAML files: a field library,
// an optional layout and style, and seed rows for connection lists. The
// command line tools and the examples render and lint these files without a
// database.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-crmforms/pkg/composition"
	"github.com/goliatone/go-crmforms/pkg/connections"
	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/render"
	"github.com/goliatone/go-crmforms/pkg/store"
	"github.com/goliatone/go-crmforms/pkg/style"
)

// DefaultCompany is used when a file names no company.
const DefaultCompany = "demo"

// Fixture is a decoded file.
type Fixture struct {
	Path    string
	Company string
	Context model.FormContext
	// Records keep the raw rows so Lint can report what decoding discards.
	Records     []model.Record
	Fields      []model.Field
	Form        composition.Form
	Connections map[model.ConnectionList][]string
}

type file struct {
	Company     string              `yaml:"company"`
	Context     string              `yaml:"context"`
	Fields      []map[string]any    `yaml:"fields"`
	Form        map[string]any      `yaml:"form"`
	Style       map[string]any      `yaml:"style"`
	Connections map[string][]string `yaml:"connections"`
}

// Load reads and decodes path.
func Load(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	fx, err := Parse(raw)
	if err != nil {
		return Fixture{}, fmt.Errorf("fixture: %s: %w", path, err)
	}
	fx.Path = path
	return fx, nil
}

// Parse decodes a YAML document.
func Parse(raw []byte) (Fixture, error) {
	var doc file
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Fixture{}, fmt.Errorf("parse yaml: %w", err)
	}

	fx := Fixture{
		Company:     strings.TrimSpace(doc.Company),
		Connections: map[model.ConnectionList][]string{},
	}
	if fx.Company == "" {
		fx.Company = DefaultCompany
	}
	fx.Context = model.ContextLeads
	if doc.Context != "" {
		formContext, ok := model.ParseFormContext(doc.Context)
		if !ok {
			return Fixture{}, fmt.Errorf("unknown context %q", doc.Context)
		}
		fx.Context = formContext
	}

	for i, row := range doc.Fields {
		record, err := model.DecodeRecord(row)
		if err != nil {
			return Fixture{}, fmt.Errorf("fields[%d]: %w", i, err)
		}
		record.CompanyID = fx.Company
		record.Context = fx.Context
		if record.Order == 0 {
			record.Order = i + 1
		}
		if strings.TrimSpace(record.ID) == "" {
			record.ID = model.DeriveSender(record.Name)
		}
		fx.Records = append(fx.Records, record)
		fx.Fields = append(fx.Fields, model.FieldFromRecord(record))
	}
	model.SortFields(fx.Fields)

	if doc.Form != nil {
		if err := viaJSON(doc.Form, &fx.Form); err != nil {
			return Fixture{}, fmt.Errorf("form: %w", err)
		}
	}
	if fx.Form.ID == "" {
		fx.Form.ID = "form"
	}
	fx.Form.CompanyID = fx.Company
	fx.Form.Context = fx.Context
	if len(fx.Form.Items) == 0 {
		for _, f := range fx.Fields {
			fx.Form.AddField(f.ID)
		}
	}

	fx.Form.Style = style.Default()
	if doc.Style != nil {
		if err := viaJSON(doc.Style, &fx.Form.Style); err != nil {
			return Fixture{}, fmt.Errorf("style: %w", err)
		}
	}
	fx.Form.Style = fx.Form.Style.Normalize()

	for name, labels := range doc.Connections {
		list, ok := model.ParseConnectionList(name)
		if !ok {
			return Fixture{}, fmt.Errorf("unknown connection list %q", name)
		}
		fx.Connections[list] = labels
	}
	return fx, nil
}

// viaJSON reuses the json tags of the target for YAML input.
func viaJSON(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Document returns the render input of the fixture.
func (fx Fixture) Document(submitURL string) render.Document {
	return render.Document{Form: fx.Form, Fields: fx.Fields, SubmitURL: submitURL}
}

// Store returns a memory store holding the fixture's fields, form, style
// and connection rows.
func (fx Fixture) Store(ctx context.Context) (*store.MemoryStore, error) {
	mem := store.NewMemoryStore()
	for list, labels := range fx.Connections {
		binding, ok := connections.BindingFor(list)
		if !ok {
			continue
		}
		rows := make([]store.Row, 0, len(labels))
		for i, label := range labels {
			rows = append(rows, store.Row{
				"id":          fmt.Sprintf("%s-%d", list, i+1),
				"company_id":  fx.Company,
				binding.Label: label,
			})
		}
		mem.Seed(binding.Collection, rows...)
	}

	fields := store.NewFieldRepository(mem)
	for _, f := range fx.Fields {
		if _, err := fields.Create(ctx, fx.Company, fx.Context, f); err != nil {
			return nil, err
		}
	}
	if _, err := store.NewFormRepository(mem).Save(ctx, fx.Form); err != nil {
		return nil, err
	}
	if err := store.NewStyleRepository(mem).Save(ctx, fx.Company, fx.Context, fx.Form.Style); err != nil {
		return nil, err
	}
	return mem, nil
}
