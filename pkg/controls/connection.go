package controls

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-crmforms/pkg/connections"
)

// connectionControl is a searchable select over the records of a CRM list.
type connectionControl struct {
	base
	options  []connections.Option
	selected connections.Option
	search   string
}

func newConnection(b base) *connectionControl {
	return &connectionControl{base: b}
}

// Load fetches the options of the field's list for the active company.
func (c *connectionControl) Load(ctx context.Context) error {
	list := c.field.Connection().List
	if list == "" || c.deps.Connections == nil {
		c.options = nil
		return nil
	}
	options, err := c.deps.Connections.Options(ctx, c.deps.CompanyID, list, "")
	if err != nil {
		c.deps.Logger.WithFields(logrus.Fields{"company": c.deps.CompanyID, "list": list}).WithError(err).Warn("controls: load connection options failed")
		return err
	}
	c.options = options
	return nil
}

// Value is the id of the chosen record.
func (c *connectionControl) Value() any { return c.selected.ID }

// Set chooses a record by id or label; empty input clears the choice.
func (c *connectionControl) Set(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		c.selected = connections.Option{}
		c.notify("")
		return nil
	}
	for _, option := range c.options {
		if option.ID == input || strings.EqualFold(option.Label, input) {
			c.selected = option
			c.notify(option.ID)
			return nil
		}
	}
	return ErrRejected
}

func (c *connectionControl) Search(query string) { c.search = query }

// Add creates a record in the connected list and selects it.
func (c *connectionControl) Add(ctx context.Context, label string) error {
	cfg := c.field.Connection()
	creator, ok := c.deps.Connections.(connections.Creator)
	if !cfg.AllowAddition || !ok {
		return ErrUnsupported
	}
	option, err := creator.Create(ctx, c.deps.CompanyID, cfg.List, label)
	if err != nil {
		return err
	}
	c.options = append(c.options, option)
	c.selected = option
	c.notify(option.ID)
	return nil
}

func (c *connectionControl) View() View {
	v := c.view()
	labels := make([]string, 0, len(c.options))
	for _, option := range c.options {
		labels = append(labels, option.Label)
	}
	v.Options = labels
	v.Search = c.search
	v.Visible = filterOptions(labels, c.search)
	v.Value = c.selected.Label
	if c.selected.ID != "" {
		v.Selected = []string{c.selected.Label}
	}
	v.Summary = v.Placeholder
	if v.Value != "" {
		v.Summary = v.Value
	}
	return v
}
