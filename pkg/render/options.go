package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the document.
type RenderOptions struct {
	// Values pre-populates controls, keyed by field id.
	Values map[string]string
	// Errors surfaces submission feedback keyed by field id. Use MapErrors
	// to build it from a payload keyed by sender.
	Errors map[string][]string
	// FormErrors are messages not tied to a field.
	FormErrors []string
	// Hidden adds inputs emitted alongside the visible fields.
	Hidden map[string]string
	// Subset restricts rendering to some steps or fields.
	Subset Subset
	// Locale selects the UI string catalogue; empty uses DefaultLocale.
	Locale     string
	Translator Translator
	// Theme and Variant pick a theme from the renderer's selector.
	Theme   string
	Variant string
}

// T translates key for the options' locale.
func (o RenderOptions) T(key string, args ...any) string {
	t := o.Translator
	if t == nil {
		t = DefaultCatalog()
	}
	return Translate(t, o.Locale, key, args...)
}
