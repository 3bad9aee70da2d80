package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/mailassist/internal/highlight"
	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

// RenderPreview draws segments as the reader will see them: plain text as is
// and variables by their display text in their palette color, wrapped to width.
func RenderPreview(styleSet styles.Styles, segments []highlight.Segment, width int) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.IsVariable() {
			b.WriteString(renderLines(styleSet.Variable(seg.Color), Sanitize(seg.DisplayText)))
			continue
		}
		b.WriteString(renderLines(styleSet.Text, Sanitize(seg.Text)))
	}
	if width <= 0 {
		return b.String()
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

// renderLines styles each line separately so styles do not span newlines.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
