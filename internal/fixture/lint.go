package fixture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
)

// Violation is one problem found by Lint.
type Violation struct {
	File     string
	Location string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.File, v.Location, v.Message)
}

// Lint reports definitions that decode without error but would not behave
// as written: unknown types silently becoming text, colliding senders,
// choice fields without options, inverted limits and dangling layout
// references. Results are sorted by location.
func Lint(fx Fixture) []Violation {
	var out []Violation
	add := func(location, format string, args ...any) {
		out = append(out, Violation{File: fx.Path, Location: location, Message: fmt.Sprintf(format, args...)})
	}

	ids := map[string]bool{}
	senders := map[string]string{}
	for i, record := range fx.Records {
		location := fmt.Sprintf("fields[%d]", i)
		if strings.TrimSpace(record.Name) == "" {
			add(location, "name is required")
		}
		if _, ok := model.ParseFieldType(record.Type); !ok {
			add(location, "unknown type %q", record.Type)
		}
		if ids[record.ID] {
			add(location, "duplicate id %q", record.ID)
		}
		ids[record.ID] = true
	}

	for _, f := range fx.Fields {
		location := "field " + f.ID
		sender := f.PropertyName()
		if other, ok := senders[sender]; ok {
			add(location, "sender %q already used by %s", sender, other)
		} else {
			senders[sender] = f.ID
		}
		lintConfig(f, func(format string, args ...any) { add(location, format, args...) })
	}

	for i, item := range fx.Form.Items {
		if item.Division || item.FieldID == "" {
			continue
		}
		if !ids[item.FieldID] {
			add(fmt.Sprintf("form.items[%d]", i), "unknown field %q", item.FieldID)
		}
	}
	for id := range fx.Form.Overlays {
		if !fx.Form.Has(id) {
			add("form.overlays."+id, "overlay for a field outside the layout")
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location == out[j].Location {
			return out[i].Message < out[j].Message
		}
		return out[i].Location < out[j].Location
	})
	return out
}

func lintConfig(f model.Field, add func(string, ...any)) {
	switch f.Type {
	case model.FieldTypeSelect:
		cfg := f.Select()
		if cfg.SelectionConnection {
			if _, ok := model.ParseConnectionList(string(cfg.SelectionList)); !ok {
				add("unknown selection list %q", cfg.SelectionList)
			}
		} else if len(fieldrules.ParseOptions(cfg.Options)) == 0 {
			add("select without options")
		}
	case model.FieldTypeCheckbox:
		cfg := f.Checkbox()
		options := fieldrules.ParseOptions(cfg.Options)
		if cfg.Multiselect && len(options) == 0 {
			add("multiselect checkbox without options")
		}
		if cfg.Limit > len(options) && len(options) > 0 {
			add("limit %d exceeds the %d options", cfg.Limit, len(options))
		}
	case model.FieldTypeConnection:
		list, ok := f.ConnectionList()
		if _, known := model.ParseConnectionList(string(list)); !ok || !known {
			add("connection without a valid list")
		}
	case model.FieldTypeMoney:
		cfg := f.Money()
		if cfg.Limits && cfg.Min > cfg.Max {
			add("money min %v above max %v", cfg.Min, cfg.Max)
		}
	case model.FieldTypeSlider:
		cfg := f.Slider()
		if cfg.Limits && cfg.Min >= cfg.Max {
			add("slider min %v not below max %v", cfg.Min, cfg.Max)
		}
		if cfg.Step && cfg.StepValue <= 0 {
			add("slider step must be positive")
		}
	}
}
