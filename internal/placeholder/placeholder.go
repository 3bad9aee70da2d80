// Package placeholder scans and substitutes <<name>> placeholders in template text.
package placeholder

import "regexp"

// Delimiters around a variable name.
const (
	Open  = "<<"
	Close = ">>"
)

// Pattern matches a single placeholder and captures the variable name.
var Pattern = regexp.MustCompile(`<<([^>]+)>>`)

// Part is a slice of scanned text: either plain text or one placeholder.
type Part struct {
	Text string // raw text as it appears in the source
	Name string // variable name; empty for plain text
}

// IsPlaceholder reports whether the part is a placeholder token.
func (p Part) IsPlaceholder() bool {
	return p.Name != ""
}

// Token returns the placeholder token for name.
func Token(name string) string {
	return Open + name + Close
}

// Split cuts text into ordered plain and placeholder parts.
// Concatenating the Text of every part yields the input.
func Split(text string) []Part {
	if text == "" {
		return nil
	}

	matches := Pattern.FindAllStringSubmatchIndex(text, -1)
	parts := make([]Part, 0, len(matches)*2+1)
	last := 0
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		if start > last {
			parts = append(parts, Part{Text: text[last:start]})
		}
		parts = append(parts, Part{Text: text[start:end], Name: text[loc[2]:loc[3]]})
		last = end
	}
	if last < len(text) {
		parts = append(parts, Part{Text: text[last:]})
	}
	return parts
}

// Names returns the distinct variable names referenced in text, in order of first use.
func Names(text string) []string {
	matches := Pattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Substitute replaces every placeholder whose binding is non-empty with the
// bound value. Unbound and empty-bound placeholders stay in place. Substituted
// values are inserted literally and never scanned again.
func Substitute(text string, bindings map[string]string) string {
	if text == "" || len(bindings) == 0 {
		return text
	}
	return Pattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[len(Open) : len(match)-len(Close)]
		if value := bindings[name]; value != "" {
			return value
		}
		return match
	})
}
