package validation

import (
	"net/url"
	"regexp"
	"strings"
)

var hostLikePattern = regexp.MustCompile(`(?i)^(https?://)?([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}(:[0-9]{1,5})?([/?#][^\s]*)?$`)

const urlAllowedPunctuation = "-._~:/?#[]@!$&'()*+,;=%"

// ValidateURL accepts the empty string and any host-like value that parses
// as an absolute http(s) URL once "https://" is implied.
func ValidateURL(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	if !hostLikePattern.MatchString(value) {
		return false
	}
	parsed, err := url.ParseRequestURI(NormalizeURL(value))
	if err != nil {
		return false
	}
	return parsed.Host != "" && (parsed.Scheme == "http" || parsed.Scheme == "https")
}

// NormalizeURL prefixes https:// when no scheme is present.
func NormalizeURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return value
	}
	return "https://" + value
}

// NormalizeURLInput drops characters outside the URL allow-list, the
// keystroke filter applied by url controls.
func NormalizeURLInput(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune(urlAllowedPunctuation, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
