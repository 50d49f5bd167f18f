package export

import (
	"bytes"
	"strconv"
)

// DefaultIframeHeight is the initial height before the form reports its own.
const DefaultIframeHeight = 600

// IframeOptions describe an embed snippet.
type IframeOptions struct {
	FormID string
	// URL serves the standalone document, usually the public form route.
	URL    string
	Title  string
	Height int
}

// IframeSnippet returns the markup pasted into a host page: the iframe and
// a relay script that forwards the page's utm_ parameters and cookies into
// the form and resizes the frame to the height the form reports.
func IframeSnippet(opts IframeOptions) string {
	height := opts.Height
	if height <= 0 {
		height = DefaultIframeHeight
	}
	frameID := "crm-form-" + opts.FormID
	title := plain(opts.Title)
	if title == "" {
		title = "Form"
	}

	var buf bytes.Buffer
	open(&buf, "iframe").
		attr("id", frameID).
		attr("src", opts.URL).
		attr("title", title).
		attr("style", "width:100%;border:0;height:"+strconv.Itoa(height)+"px").
		attr("loading", "lazy").
		close()
	buf.WriteString("</iframe>\n")
	open(&buf, "script").attr("data-frame", frameID).close()
	buf.WriteString("\n")
	buf.WriteString(Script(ScriptRelay))
	buf.WriteString("</script>\n")
	return buf.String()
}
