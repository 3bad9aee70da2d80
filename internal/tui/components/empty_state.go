package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Icon is an optional icon to display (e.g., "📭", "🔍").
	Icon string
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Heading introduces the suggestions.
	Heading string
	// Suggestions are keys or commands the user can try.
	Suggestions []Suggestion
}

// Suggestion represents a suggested key or command with description.
type Suggestion struct {
	Command     string
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		if e.Heading != "" {
			lines = append(lines, styleSet.Text.Render(e.Heading))
		}
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if e.Icon != "" {
		line = e.Icon + " " + line
	}
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf("  %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// EmptyCatalog is shown when the catalog holds no templates.
func EmptyCatalog(t Translator, loadErr error) EmptyState {
	state := EmptyState{
		Icon:  "📭",
		Title: t("app.catalog_empty"),
	}
	if loadErr != nil {
		state.Subtitle = t("app.catalog_error", loadErr.Error())
	}
	return state
}

// NoMatches is shown when the search and category filter exclude every template.
func NoMatches(t Translator, query string) EmptyState {
	state := EmptyState{Icon: "🔍", Title: t("picker.no_results")}
	if query != "" {
		state.Subtitle = fmt.Sprintf("%q", query)
	}
	return state
}

// NoTemplate is shown in the editor panes until a template is picked.
func NoTemplate(t Translator) EmptyState {
	return EmptyState{
		Icon:  "✉️",
		Title: t("editor.no_template"),
		Suggestions: []Suggestion{
			{Command: "ctrl+f", Description: t("help.search")},
			{Command: "enter", Description: t("help.select")},
		},
	}
}
