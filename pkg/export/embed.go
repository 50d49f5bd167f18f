package export

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.js
var embeddedAssets embed.FS

// Runtime modules always included in a standalone document, and the relay
// loaded by the embedding page.
const (
	ScriptCore  = "core"
	ScriptRelay = "relay"
)

// AssetsFS exposes the runtime scripts so callers can serve them directly.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// Script returns the source of a runtime module, empty when unknown.
func Script(name string) string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+name+".js")
	if err != nil {
		return ""
	}
	return string(data)
}
