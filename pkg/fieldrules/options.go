package fieldrules

import "strings"

// ParseOptions splits a delimited option list on commas and newlines,
// trimming every token and dropping empty ones. Order is preserved.
//
//	ParseOptions("A, B\nC") == []string{"A", "B", "C"}
func ParseOptions(raw string) []string {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// TruncateText enforces a max length counted in characters. A non-positive
// max means unlimited.
func TruncateText(value string, max int) string {
	if max <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
