package countries

import (
	"sort"
	"strings"

	"github.com/goliatone/go-crmforms/pkg/validation"
)

// Option is one entry of the picker.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Flag     string `json:"flag,omitempty"`
	DialCode string `json:"dial_code"`
	Mask     string `json:"mask,omitempty"`
}

// Search filters list by query. An empty query returns the head of list in
// its own order; otherwise prefix matches on the name or code come first,
// then the rest alphabetically.
func Search(list []validation.Country, query string, limit int, opts Options) []validation.Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if len(list) <= limit {
			return append([]validation.Country{}, list...)
		}
		return append([]validation.Country{}, list[:limit]...)
	}

	q := strings.ToLower(strings.TrimPrefix(query, "+"))
	matches := make([]match, 0, 16)
	for _, c := range list {
		name := strings.ToLower(c.Name)
		code := strings.ToLower(c.Code)
		dial := strings.TrimPrefix(c.DialCode, "+")
		if !strings.Contains(name, q) && code != q && !strings.HasPrefix(dial, q) {
			continue
		}
		matches = append(matches, match{
			country:  c,
			isPrefix: strings.HasPrefix(name, q) || code == q,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].country.Name < matches[j].country.Name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]validation.Country, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.country)
	}
	return out
}

// SearchOptions is Search projected into picker options.
func SearchOptions(list []validation.Country, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}
	out := make([]Option, 0, len(results))
	for _, c := range results {
		option := Option{Value: c.Code, Label: c.Name, Flag: c.Flag, DialCode: c.DialCode}
		if len(c.Masks) > 0 {
			option.Mask = c.Masks[0]
		}
		out = append(out, option)
	}
	return out
}

type match struct {
	country  validation.Country
	isPrefix bool
}
