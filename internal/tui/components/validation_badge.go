package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/mailassist/internal/tui/styles"
	"github.com/opencode-ai/mailassist/internal/validate"
)

// RenderValidationBadge renders a validation verdict with icon and color.
func RenderValidationBadge(styleSet styles.Styles, result validate.Result, message string) string {
	icon, style := badgeDescriptor(styleSet, result)
	if result.Valid {
		return style.Render(icon)
	}
	return style.Render(icon + " " + message)
}

func badgeDescriptor(styleSet styles.Styles, result validate.Result) (string, lipgloss.Style) {
	switch result.Reason {
	case validate.ReasonNone:
		return "✓", styleSet.BadgeValid
	case validate.ReasonRequired:
		return "!", styleSet.BadgeNeeded
	default:
		return "✗", styleSet.BadgeError
	}
}
