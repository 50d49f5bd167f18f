package style

import (
	"fmt"
	"sort"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Manifest packages the style tokens as a go-theme manifest so a company
// style can be registered next to shared themes.
func Manifest(name string, cfg Config) *theme.Manifest {
	return &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  cfg.Tokens(),
	}
}

// Overlay merges the tokens of a theme selection over base. Variant tokens
// win over manifest tokens; unknown or unsafe tokens are ignored.
func Overlay(base map[string]string, selection *theme.Selection) map[string]string {
	out := make(map[string]string, len(base))
	for key, value := range base {
		out[key] = value
	}
	if selection == nil || selection.Manifest == nil {
		return out
	}
	apply := func(tokens map[string]string) {
		for key, value := range tokens {
			if _, known := base[key]; known && ValidToken(value) {
				out[key] = value
			}
		}
	}
	apply(selection.Manifest.Tokens)
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		apply(variant.Tokens)
	}
	return out
}

// Selector resolves named manifests. It satisfies theme.ThemeSelector.
type Selector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector builds a selector over manifests. The first manifest is used
// when Select is called without a name.
func NewSelector(manifests ...*theme.Manifest) *Selector {
	s := &Selector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		s.Add(m)
	}
	return s
}

// Add registers or replaces a manifest.
func (s *Selector) Add(m *theme.Manifest) {
	if m == nil || m.Name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallback == "" {
		s.fallback = m.Name
	}
	s.manifests[m.Name] = m
}

// Names lists the registered manifests.
func (s *Selector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named manifest and variant. Unknown variants resolve to
// the base manifest.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == "" {
		name = s.fallback
	}
	m, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("style: theme %q not registered", name)
	}
	if _, ok := m.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}
