// Package render defines the renderer contract shared by the preview, the
// terminal session and the static export, plus the helpers they have in
// common: step resolution, hidden and tracking fields, error mapping and
// the UI string catalogue.
package render

import (
	"context"
)

// Renderer converts a Document into a byte representation (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc Document, options RenderOptions) ([]byte, error)
}
