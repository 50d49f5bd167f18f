package render

import (
	"net/url"
	"sort"
	"strings"
)

// Prefixes of the tracking values relayed from the embedding page.
const (
	UTMPrefix    = "utm_"
	CookiePrefix = "cookie_"
)

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields sorts hidden fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	result := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if name = strings.TrimSpace(name); name != "" {
			result = append(result, HiddenField{Name: name, Value: value})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// IsTrackingKey reports whether key carries a relayed utm_ or cookie_ value.
func IsTrackingKey(key string) bool {
	return strings.HasPrefix(key, UTMPrefix) || strings.HasPrefix(key, CookiePrefix)
}

// TrackingFields extracts the utm_* and cookie_* values of a submission or
// query string. Only the first value of each key is kept.
func TrackingFields(values url.Values) map[string]string {
	out := make(map[string]string)
	for key, list := range values {
		if !IsTrackingKey(key) || len(list) == 0 {
			continue
		}
		if value := strings.TrimSpace(list[0]); value != "" {
			out[key] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
