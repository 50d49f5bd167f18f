package preview

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/components/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in preview templates rooted at the
// templates directory. Custom bundles must provide form.tpl, field.tpl and
// the components/ directory with the same names.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
