package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	splitWordsPattern = regexp.MustCompile(`[_\-\s./]+`)
	senderUnsafe      = regexp.MustCompile(`[^a-z0-9_]+`)
)

// DeriveSender converts a display name into the webhook property used for the
// field's value: accents are stripped, words and camelCase humps are joined
// with underscores and anything outside [a-z0-9_] is removed.
//
//	DeriveSender("Data de Nascimento") == "data_de_nascimento"
//	DeriveSender("leadSource")         == "lead_source"
func DeriveSender(name string) string {
	name = stripAccents(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		for _, part := range strings.Fields(splitCamel(word)) {
			part = senderUnsafe.ReplaceAllString(strings.ToLower(part), "")
			if part != "" {
				segments = append(segments, part)
			}
		}
	}
	return strings.Join(segments, "_")
}

// DefaultLabel turns a sender-like identifier back into a readable label.
func DefaultLabel(name string) string {
	if name == "" {
		return ""
	}
	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

// FoldSearch lowercases value and strips its accents, so "Mário" and "MARIO"
// compare equal in option searches.
func FoldSearch(value string) string {
	return strings.ToLower(stripAccents(strings.TrimSpace(value)))
}

// MatchesSearch reports whether label contains query after folding both.
// An empty query matches everything.
func MatchesSearch(label, query string) bool {
	query = FoldSearch(query)
	return query == "" || strings.Contains(FoldSearch(label), query)
}

func stripAccents(value string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, value)
	if err != nil {
		return value
	}
	return out
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
