// Package composition assembles stored fields into multi-step forms with
// per-form overlays.
package composition

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/model"
	"github.com/goliatone/go-crmforms/pkg/style"
)

var ErrIndexOutOfRange = errors.New("composition: index out of range")

// Item is one entry of a form layout: either a field reference or a division
// marker that starts a new step.
type Item struct {
	FieldID       string `json:"field_id,omitempty"`
	Division      bool   `json:"division,omitempty"`
	DivisionTitle string `json:"division_title,omitempty"`
}

// Disqualify marks submissions that should be flagged as unqualified leads:
// an exact option match for choice fields or a value outside [Min, Max] for
// numeric ones.
type Disqualify struct {
	Option string   `json:"option,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Overlay adjusts a reusable field for one form without touching its stored
// defaults.
type Overlay struct {
	Required           *bool       `json:"required,omitempty"`
	PlaceholderEnabled *bool       `json:"placeholder_enabled,omitempty"`
	PlaceholderText    string      `json:"placeholder_text,omitempty"`
	Disqualify         *Disqualify `json:"disqualify,omitempty"`
}

// Form is a composed, styled form.
type Form struct {
	ID        string             `json:"id"`
	CompanyID string             `json:"company_id"`
	Context   model.FormContext  `json:"context"`
	Title     string             `json:"title"`
	Items     []Item             `json:"items"`
	Overlays  map[string]Overlay `json:"overlays,omitempty"`
	Style     style.Config       `json:"style"`
}

// Step is one page of a multi-step form.
type Step struct {
	Index    int      `json:"index"`
	Title    string   `json:"title,omitempty"`
	FieldIDs []string `json:"field_ids"`
}

// Steps partitions the layout on division markers. A division's title names
// the step it opens; steps without fields are dropped.
func Steps(form Form) []Step {
	var (
		steps   []Step
		current Step
	)
	flush := func() {
		if len(current.FieldIDs) > 0 {
			current.Index = len(steps)
			steps = append(steps, current)
		}
	}
	for _, item := range form.Items {
		if item.Division {
			flush()
			current = Step{Title: strings.TrimSpace(item.DivisionTitle)}
			continue
		}
		if item.FieldID == "" {
			continue
		}
		current.FieldIDs = append(current.FieldIDs, item.FieldID)
	}
	flush()
	return steps
}

// FieldIDs lists the referenced fields in layout order.
func (f Form) FieldIDs() []string {
	ids := make([]string, 0, len(f.Items))
	for _, item := range f.Items {
		if !item.Division && item.FieldID != "" {
			ids = append(ids, item.FieldID)
		}
	}
	return ids
}

// Has reports whether the layout references fieldID.
func (f Form) Has(fieldID string) bool {
	return slices.Contains(f.FieldIDs(), fieldID)
}

// Overlay returns the overlay for fieldID, zero when none is set.
func (f Form) Overlay(fieldID string) Overlay {
	return f.Overlays[fieldID]
}

// Resolve applies an overlay to a copy of field.
func Resolve(field model.Field, overlay Overlay) model.Field {
	if overlay.Required != nil {
		field.Required = *overlay.Required
	}
	if overlay.PlaceholderEnabled != nil {
		field.Placeholder.UseName = *overlay.PlaceholderEnabled
		if !*overlay.PlaceholderEnabled {
			field.Placeholder.Text = ""
		}
	}
	if text := strings.TrimSpace(overlay.PlaceholderText); text != "" {
		field.Placeholder.Text = text
	}
	return field
}

// ResolveFields returns the form's fields in layout order with overlays
// applied. References to unknown fields are skipped.
func (f Form) ResolveFields(fields []model.Field) []model.Field {
	byID := make(map[string]model.Field, len(fields))
	for _, field := range fields {
		byID[field.ID] = field
	}
	out := make([]model.Field, 0, len(f.Items))
	for _, id := range f.FieldIDs() {
		field, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, Resolve(field, f.Overlays[id]))
	}
	return out
}

// AddField appends a field reference unless already present.
func (f *Form) AddField(fieldID string) {
	if fieldID == "" || f.Has(fieldID) {
		return
	}
	f.Items = append(f.Items, Item{FieldID: fieldID})
}

// AddDivision appends a step break.
func (f *Form) AddDivision(title string) {
	f.Items = append(f.Items, Item{Division: true, DivisionTitle: title})
}

// InsertItem places item at index, shifting later items.
func (f *Form) InsertItem(index int, item Item) error {
	if index < 0 || index > len(f.Items) {
		return fmt.Errorf("%w: insert at %d", ErrIndexOutOfRange, index)
	}
	f.Items = slices.Insert(f.Items, index, item)
	return nil
}

// RemoveItem deletes the item at index. Removing a field reference also
// drops its overlay.
func (f *Form) RemoveItem(index int) error {
	if index < 0 || index >= len(f.Items) {
		return fmt.Errorf("%w: remove %d", ErrIndexOutOfRange, index)
	}
	removed := f.Items[index]
	f.Items = slices.Delete(f.Items, index, index+1)
	if !removed.Division && !f.Has(removed.FieldID) {
		delete(f.Overlays, removed.FieldID)
	}
	return nil
}

// RemoveField deletes every reference to fieldID and its overlay.
func (f *Form) RemoveField(fieldID string) {
	f.Items = slices.DeleteFunc(f.Items, func(item Item) bool {
		return !item.Division && item.FieldID == fieldID
	})
	delete(f.Overlays, fieldID)
}

// MoveItem moves the item at from to position to, keeping the relative order
// of every other item.
func (f *Form) MoveItem(from, to int) error {
	if from < 0 || from >= len(f.Items) || to < 0 || to >= len(f.Items) {
		return fmt.Errorf("%w: move %d to %d", ErrIndexOutOfRange, from, to)
	}
	if from == to {
		return nil
	}
	item := f.Items[from]
	f.Items = slices.Delete(f.Items, from, from+1)
	f.Items = slices.Insert(f.Items, to, item)
	return nil
}

// SetOverlay stores the overlay for fieldID.
func (f *Form) SetOverlay(fieldID string, overlay Overlay) {
	if f.Overlays == nil {
		f.Overlays = make(map[string]Overlay)
	}
	f.Overlays[fieldID] = overlay
}
