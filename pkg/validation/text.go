package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var emailHintPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FormatName lowercases value and capitalises the first letter of every
// whitespace separated token. Whitespace is preserved as typed.
func FormatName(value string) string {
	lower := strings.ToLower(value)
	var b strings.Builder
	b.Grow(len(lower))
	atStart := true
	for _, r := range lower {
		if unicode.IsSpace(r) {
			atStart = true
			b.WriteRune(r)
			continue
		}
		if atStart {
			r = unicode.ToUpper(r)
			atStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EmailHint reports whether value looks like an e-mail address. It only
// drives a visual hint; email input is never rejected.
func EmailHint(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || emailHintPattern.MatchString(value)
}

// EmailPattern exposes the hint expression for client-side use.
func EmailPattern() string {
	return emailHintPattern.String()
}

// RuneCount counts characters rather than bytes, the unit max_length limits
// are expressed in.
func RuneCount(value string) int {
	return utf8.RuneCountInString(value)
}
