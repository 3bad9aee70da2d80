package highlight

import (
	"html"
	"strings"
)

// CSSClass returns the class attribute value for a palette entry.
func CSSClass(color ColorClass) string {
	return "variable variable-" + string(color)
}

// HTML renders segments as escaped markup. Plain text is always escaped;
// variables become spans carrying their palette class. When raw is true the
// span shows the source token instead of the display text, so the markup
// lines up character for character with the source.
func HTML(segments []Segment, raw bool) string {
	var b strings.Builder
	for _, seg := range segments {
		if !seg.IsVariable() {
			b.WriteString(html.EscapeString(seg.Text))
			continue
		}
		text := seg.DisplayText
		if raw || text == "" {
			text = seg.Text
		}
		b.WriteString(`<span class="`)
		b.WriteString(CSSClass(seg.Color))
		b.WriteString(`" title="`)
		b.WriteString(html.EscapeString("Variable: " + seg.Name))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(text))
		b.WriteString(`</span>`)
	}
	return b.String()
}
