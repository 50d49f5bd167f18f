package controls

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/model"
)

// selectControl renders a dropdown. Options come from the field's delimited
// list or, for connection-backed selects, from the connection source.
type selectControl struct {
	base
	options   []string
	selection *fieldrules.Selection
	search    string
}

func newSelect(b base) *selectControl {
	cfg := b.field.Select()
	return &selectControl{
		base:      b,
		options:   fieldrules.ParseOptions(cfg.Options),
		selection: fieldrules.NewSelection(cfg.Multiselect, 0),
	}
}

// Load replaces the options with the labels of the connected list. Selects
// without a connection keep their static options.
func (c *selectControl) Load(ctx context.Context) error {
	cfg := c.field.Select()
	if !cfg.SelectionConnection || cfg.SelectionList == "" || c.deps.Connections == nil {
		return nil
	}
	options, err := c.deps.Connections.Options(ctx, c.deps.CompanyID, cfg.SelectionList, "")
	if err != nil {
		c.deps.Logger.WithFields(logrus.Fields{"company": c.deps.CompanyID, "list": cfg.SelectionList}).WithError(err).Warn("controls: load select options failed")
		return err
	}
	labels := make([]string, 0, len(options))
	for _, option := range options {
		labels = append(labels, option.Label)
	}
	c.options = labels
	return nil
}

// Value is the chosen option, or the list of options for multiselects.
func (c *selectControl) Value() any { return choiceValue(c.selection) }

// Set commits a whole selection; multiselect input is a delimited list.
func (c *selectControl) Set(input string) error {
	next, err := commitSelection(c.options, c.selection, input, 0)
	if err != nil {
		return err
	}
	c.selection = next
	c.notify(c.Value())
	return nil
}

// Toggle adds or removes one option. Toggling the chosen option of a
// single select clears it.
func (c *selectControl) Toggle(option string) error {
	if !slices.Contains(c.options, option) {
		return ErrRejected
	}
	if !c.selection.Toggle(option) {
		return ErrRejected
	}
	c.notify(c.Value())
	return nil
}

func (c *selectControl) Search(query string) {
	if c.field.Select().Searchable {
		c.search = query
	}
}

func (c *selectControl) View() View {
	v := c.view()
	v.Options = c.options
	v.Selected = c.selection.Selected()
	v.Value = strings.Join(v.Selected, ", ")
	v.Summary = c.selection.Summary(v.Placeholder)
	v.Search = c.search
	v.Visible = filterOptions(c.options, c.search)
	return v
}

// checkboxControl is a boolean toggle when the field has no options and a
// checkbox or button group otherwise.
type checkboxControl struct {
	base
	options   []string
	checked   bool
	selection *fieldrules.Selection
}

func newCheckbox(b base) *checkboxControl {
	cfg := b.field.Checkbox()
	return &checkboxControl{
		base:      b,
		options:   fieldrules.ParseOptions(cfg.Options),
		selection: fieldrules.NewSelection(cfg.Multiselect, cfg.Limit),
	}
}

func (c *checkboxControl) boolean() bool { return len(c.options) == 0 }

func (c *checkboxControl) Value() any {
	if c.boolean() {
		return c.checked
	}
	return choiceValue(c.selection)
}

func (c *checkboxControl) Set(input string) error {
	if c.boolean() {
		checked, err := parseChecked(input)
		if err != nil {
			return ErrRejected
		}
		c.checked = checked
		c.notify(checked)
		return nil
	}
	next, err := commitSelection(c.options, c.selection, input, c.field.Checkbox().Limit)
	if err != nil {
		return err
	}
	c.selection = next
	c.notify(c.Value())
	return nil
}

// Toggle flips the boolean form, or adds or removes option. New options are
// refused once the selection limit is reached; chosen ones stay removable.
func (c *checkboxControl) Toggle(option string) error {
	if c.boolean() {
		c.checked = !c.checked
		c.notify(c.checked)
		return nil
	}
	if !slices.Contains(c.options, option) {
		return ErrRejected
	}
	if !c.selection.Toggle(option) {
		return ErrRejected
	}
	c.notify(c.Value())
	return nil
}

func (c *checkboxControl) View() View {
	v := c.view()
	if c.boolean() {
		v.Checked = c.checked
		v.Value = strconv.FormatBool(c.checked)
		return v
	}
	v.Selected = c.selection.Selected()
	v.Value = strings.Join(v.Selected, ", ")
	v.Visible = c.options
	v.AtLimit = c.selection.AtLimit()
	return v
}

func choiceValue(selection *fieldrules.Selection) any {
	if selection.Multi() {
		return selection.Selected()
	}
	if selection.Len() == 0 {
		return ""
	}
	return selection.Selected()[0]
}

// commitSelection builds a fresh selection from delimited input, rejecting
// unknown options and input over the limit.
func commitSelection(options []string, current *fieldrules.Selection, input string, limit int) (*fieldrules.Selection, error) {
	chosen := fieldrules.ParseOptions(input)
	if !current.Multi() && len(chosen) > 1 {
		chosen = []string{strings.TrimSpace(input)}
	}
	next := fieldrules.NewSelection(current.Multi(), limit)
	for _, option := range chosen {
		if !slices.Contains(options, option) {
			return nil, ErrRejected
		}
		if next.Contains(option) {
			continue
		}
		if !next.Toggle(option) {
			return nil, ErrRejected
		}
	}
	return next, nil
}

func filterOptions(options []string, query string) []string {
	if model.FoldSearch(query) == "" {
		return options
	}
	out := make([]string, 0, len(options))
	for _, option := range options {
		if model.MatchesSearch(option, query) {
			out = append(out, option)
		}
	}
	return out
}

func parseChecked(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "on", "yes", "sim":
		return true, nil
	case "", "off", "no", "não", "nao":
		return false, nil
	}
	return strconv.ParseBool(input)
}
