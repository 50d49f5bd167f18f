package tui

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-crmforms/pkg/controls"
)

// State collects the values reported by the controls of one session, keyed
// by field id, and the submission errors to surface while prompting.
type State struct {
	mu      sync.Mutex
	values  map[string]any
	changes int
	errors  map[string][]string
}

// NewState seeds the state with errors keyed by field id.
func NewState(errs map[string][]string) *State {
	return &State{
		values: make(map[string]any),
		errors: cloneErrors(errs),
	}
}

// Record is the controls' change callback.
func (s *State) Record(fieldID string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[fieldID] = value
	s.changes++
}

// Value returns the last value reported for fieldID.
func (s *State) Value(fieldID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[fieldID]
	return v, ok
}

// Changes counts the accepted changes so far.
func (s *State) Changes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes
}

// ErrorsFor returns the submission errors of a field.
func (s *State) ErrorsFor(fieldID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[fieldID]
}

// Payload keys every control's value by its sender. Controls that never
// reported a change contribute their initial value.
func (s *State) Payload(list []controls.Control) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(list))
	for _, control := range list {
		f := control.Field()
		value, ok := s.values[f.ID]
		if !ok {
			value = control.Value()
		}
		out[f.PropertyName()] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, part := range v {
			out[key] = part
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, option := range v {
			out[i] = option
		}
		return out
	default:
		return value
	}
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for key, messages := range src {
		out[key] = append([]string(nil), messages...)
	}
	return out
}

// flattenForm encodes values the way the exported form posts them:
// address parts as name[part] and multiple choices as repeated keys.
func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "[" + key + "]"
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix, fmt.Sprint(val))
		}
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, val := range v {
			parts = append(parts, fmt.Sprint(val))
		}
		fmt.Fprintf(b, "%s=%s\n", prefix, strings.Join(parts, ", "))
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
