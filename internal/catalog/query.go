package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// Query selects templates by search text and category.
type Query struct {
	Search   string
	Category string
	Lang     Lang
}

// Filter returns the templates matching q, preserving catalog order.
// Search text is matched case- and accent-insensitively against the title and
// description in q.Lang and against the category.
func Filter(templates []*Template, q Query) []*Template {
	needle := Fold(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)
	if category == "" {
		category = AllCategories
	}

	filtered := make([]*Template, 0, len(templates))
	for _, tmpl := range templates {
		if category != AllCategories && tmpl.Category != category {
			continue
		}
		if needle != "" && !matchesSearch(tmpl, needle, q.Lang) {
			continue
		}
		filtered = append(filtered, tmpl)
	}
	return filtered
}

func matchesSearch(tmpl *Template, needle string, lang Lang) bool {
	haystacks := []string{
		tmpl.Title.Get(lang),
		tmpl.Description.Get(lang),
		tmpl.Category,
	}
	for _, haystack := range haystacks {
		if strings.Contains(Fold(haystack), needle) {
			return true
		}
	}
	return false
}

// Fold normalizes text for comparison: case folded with diacritics removed.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, text)
	if err != nil {
		stripped = text
	}
	return cases.Fold().String(stripped)
}
