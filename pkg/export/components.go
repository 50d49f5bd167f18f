package export

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-crmforms/pkg/fieldrules"
	"github.com/goliatone/go-crmforms/pkg/style"
)

// Renderer writes the markup of one field control into buf.
type Renderer func(buf *bytes.Buffer, p fieldrules.Presentation, data ComponentData) error

// ComponentData carries what component renderers need besides the field.
type ComponentData struct {
	Style style.Config
	// Options overrides the presentation's options, as for connection
	// fields whose options are loaded at export time.
	Options []string
	// Value pre-fills the control.
	Value string
	// Errors are shown under the control on first render.
	Errors []string
	T     func(key string, args ...any) string
}

// Descriptor bundles a component renderer with the runtime modules it needs.
type Descriptor struct {
	Name     string
	Renderer Renderer
	Scripts  []string
}

// Registry tracks component descriptors keyed by name. Callers can register
// new components or override defaults.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Descriptor)}
}

// Clone returns a copy that can be changed independently.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cloned := NewRegistry()
	for name, descriptor := range r.components {
		descriptor.Scripts = slices.Clone(descriptor.Scripts)
		cloned.components[name] = descriptor
	}
	return cloned
}

// Register associates a descriptor with name, replacing any existing entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("export: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("export: renderer for %q is nil", name)
	}
	descriptor.Name = name
	descriptor.Scripts = slices.Clone(descriptor.Scripts)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	return descriptor, ok
}

// Resolve returns the descriptor for kind, falling back to the input
// component.
func (r *Registry) Resolve(kind fieldrules.Kind) (Descriptor, error) {
	if descriptor, ok := r.Descriptor(string(kind)); ok {
		return descriptor, nil
	}
	if descriptor, ok := r.Descriptor(string(fieldrules.KindInput)); ok {
		return descriptor, nil
	}
	return Descriptor{}, fmt.Errorf("export: no component for %q", kind)
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Scripts lists the runtime modules needed by the named components, in
// first-use order without duplicates.
func (r *Registry) Scripts(names []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, name := range names {
		descriptor, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, script := range descriptor.Scripts {
			if !slices.Contains(out, script) {
				out = append(out, script)
			}
		}
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
