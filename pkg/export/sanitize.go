package export

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicy = bluemonday.StrictPolicy()
	richPolicy  = bluemonday.UGCPolicy()
)

// plain strips all markup from admin-entered text such as titles. The result
// is unescaped text and must still be escaped on output.
func plain(value string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(value)))
}

// rich keeps basic formatting and links in the success message while
// removing scripts and event handlers.
func rich(value string) string {
	return strings.TrimSpace(richPolicy.Sanitize(value))
}
