package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

// QuickAction represents a keyboard-triggered action.
type QuickAction struct {
	Key     string // Keyboard key (e.g., "ctrl+s")
	Label   string // Display label (e.g., "Copy subject")
	Enabled bool   // Whether the action is available
}

// RenderQuickActionBar renders a horizontal bar of available quick actions.
// Format: "ctrl+s:Copy subject  ctrl+b:Copy body"
func RenderQuickActionBar(styleSet styles.Styles, actions []QuickAction) string {
	var parts []string
	for _, action := range actions {
		if !action.Enabled {
			continue
		}
		keyStyle := styleSet.Accent.Copy().Bold(true)
		part := fmt.Sprintf("%s:%s", keyStyle.Render(action.Key), styleSet.Muted.Render(action.Label))
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

// EditorQuickActions returns the export and reset actions; they need a selected template.
func EditorQuickActions(t Translator, hasTemplate bool) []QuickAction {
	return []QuickAction{
		{Key: "ctrl+s", Label: t("action.copy_subject"), Enabled: hasTemplate},
		{Key: "ctrl+b", Label: t("action.copy_body"), Enabled: hasTemplate},
		{Key: "ctrl+y", Label: t("action.copy_all"), Enabled: hasTemplate},
		{Key: "ctrl+l", Label: t("action.copy_link"), Enabled: hasTemplate},
		{Key: "ctrl+r", Label: t("action.reset"), Enabled: hasTemplate},
	}
}
