package fieldrules

import (
	"slices"
	"strconv"
)

// Selection tracks the chosen options of a select or checkbox group.
// Single-choice selections replace; multi-choice selections refuse new
// options once Limit is reached but always allow removal.
type Selection struct {
	multi    bool
	limit    int
	selected []string
}

// NewSelection builds a selection seeded with initial options. A limit of 0
// means unlimited; it is ignored for single-choice selections.
func NewSelection(multi bool, limit int, initial ...string) *Selection {
	s := &Selection{multi: multi, limit: max(limit, 0)}
	for _, option := range initial {
		s.Toggle(option)
	}
	return s
}

// Toggle adds option when absent and removes it when present. It reports
// false when the option could not be added because the limit is reached.
func (s *Selection) Toggle(option string) bool {
	if idx := slices.Index(s.selected, option); idx >= 0 {
		s.selected = slices.Delete(s.selected, idx, idx+1)
		return true
	}
	if !s.multi {
		s.selected = []string{option}
		return true
	}
	if s.AtLimit() {
		return false
	}
	s.selected = append(s.selected, option)
	return true
}

// AtLimit reports whether a multi-choice selection can take no more options.
func (s *Selection) AtLimit() bool {
	return s.multi && s.limit > 0 && len(s.selected) >= s.limit
}

// Contains reports whether option is selected.
func (s *Selection) Contains(option string) bool {
	return slices.Contains(s.selected, option)
}

// Selected returns a copy of the chosen options in selection order.
func (s *Selection) Selected() []string {
	return slices.Clone(s.selected)
}

func (s *Selection) Len() int { return len(s.selected) }

// Multi reports whether more than one option may be chosen.
func (s *Selection) Multi() bool { return s.multi }

// Summary is the text shown on a collapsed trigger: the placeholder when
// empty, the option itself for one choice and "N selected" beyond that.
func (s *Selection) Summary(placeholder string) string {
	switch len(s.selected) {
	case 0:
		return placeholder
	case 1:
		return s.selected[0]
	default:
		return strconv.Itoa(len(s.selected)) + " selected"
	}
}
