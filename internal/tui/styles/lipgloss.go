package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/mailassist/internal/highlight"
)

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme       Theme
	Title       lipgloss.Style
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Accent      lipgloss.Style
	Panel       lipgloss.Style
	PanelFocus  lipgloss.Style
	Border      lipgloss.Style
	Focus       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Info        lipgloss.Style
	Caret       lipgloss.Style
	BadgeValid  lipgloss.Style
	BadgeError  lipgloss.Style
	BadgeNeeded lipgloss.Style

	variables map[highlight.ColorClass]lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	panel := lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(tokens.Border))

	return Styles{
		Theme:       theme,
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Panel:       panel,
		PanelFocus:  panel.Copy().BorderForeground(lipgloss.Color(tokens.Focus)),
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Border)),
		Focus:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Focus)).Bold(true),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
		Info:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Info)),
		Caret:       lipgloss.NewStyle().Reverse(true),
		BadgeValid:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		BadgeError:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)).Bold(true),
		BadgeNeeded: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)).Bold(true),
		variables: map[highlight.ColorClass]lipgloss.Style{
			highlight.ColorEmail:   variableStyle(tokens.VarEmail),
			highlight.ColorPhone:   variableStyle(tokens.VarPhone),
			highlight.ColorDate:    variableStyle(tokens.VarDate),
			highlight.ColorTime:    variableStyle(tokens.VarTime),
			highlight.ColorNumber:  variableStyle(tokens.VarNumber),
			highlight.ColorText:    variableStyle(tokens.VarText),
			highlight.ColorDefault: variableStyle(tokens.VarDefault),
			highlight.ColorUnknown: variableStyle(tokens.VarUnknown).Underline(true),
		},
	}
}

func variableStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// Variable returns the style for a highlight color class.
func (s Styles) Variable(class highlight.ColorClass) lipgloss.Style {
	if style, ok := s.variables[class]; ok {
		return style
	}
	return s.variables[highlight.ColorDefault]
}
