package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/session"
	"github.com/opencode-ai/mailassist/internal/tui/components"
)

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", joinLines(m.smallViewLines()))
		}
	}
	if m.width == 0 {
		return m.spinner.View() + " " + m.t("app.loading") + "\n"
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.leftView(), m.rightView())
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), main, m.footerView())
}

func (m model) headerView() string {
	title := m.styles.Title.Render(m.t("app.title"))
	if tmpl, ok := m.session.Selected(); ok {
		title += m.styles.Muted.Render("  ›  " + tmpl.Title.Get(m.session.TemplateLanguage()))
	}
	return title
}

func (m model) leftView() string {
	lines := []string{m.search.View(), m.categoryLine()}
	switch {
	case m.loading:
		lines = append(lines, "", m.spinner.View()+" "+m.styles.Muted.Render(m.t("app.loading")))
	case m.session.Catalog().Len() == 0:
		lines = append(lines, "", components.EmptyCatalog(m.t, m.loadErr).Render(m.styles))
	default:
		lines = append(lines, m.styles.Muted.Render(m.t("picker.count", len(m.picker.Items))))
		lines = append(lines, m.picker.Render(m.styles, m.t, m.focus == panePicker)...)
	}
	focused := m.focus == paneSearch || m.focus == panePicker
	return m.panel(m.t("picker.title"), strings.Join(lines, "\n"), m.leftWidth, m.mainHeight, focused)
}

func (m model) categoryLine() string {
	category := m.session.Category()
	label := m.t("picker.all_categories")
	if category != catalog.AllCategories {
		label = m.bundle.Category(m.session.InterfaceLanguage(), category)
	}
	return m.styles.Accent.Render(m.t("picker.category", label))
}

func (m model) rightView() string {
	if _, ok := m.session.Selected(); !ok {
		empty := components.NoTemplate(m.t)
		return m.panel(m.t("editor.body"), empty.Render(m.styles), m.rightWidth, m.mainHeight, false)
	}

	validation := func(field session.Field) string {
		return m.bundle.Validation(m.session.InterfaceLanguage(), field.Result)
	}
	parts := []string{
		m.panel(m.t("vars.title"), m.form.View(m.styles, m.t, validation), m.rightWidth, m.formHeight, m.focus == paneForm),
		m.panel(m.editorTitle("editor.subject", catalog.FieldSubject), m.subject.View(m.styles), m.rightWidth, subjectPanelLines, m.focus == paneSubject),
		m.panel(m.editorTitle("editor.body", catalog.FieldBody), m.body.View(m.styles), m.rightWidth, m.bodyHeight, m.focus == paneBody),
	}
	if m.showPreview {
		parts = append(parts, m.panel(m.t("preview.title"), m.preview.View(), m.rightWidth, m.previewLines, m.focus == panePreview))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) editorTitle(labelKey string, field catalog.Field) string {
	title := m.t(labelKey)
	if m.session.Resolved(field).IsOverridden() {
		title += " · " + m.t("editor.overridden")
	}
	return title
}

func (m model) footerView() string {
	status := m.statusLine()
	_, selected := m.session.Selected()
	actions := components.RenderQuickActionBar(m.styles, components.EditorQuickActions(m.t, selected))
	return joinLines([]string{status, actions, m.help.View(m.keys)})
}

func (m model) statusLine() string {
	if m.alert != "" {
		return m.styles.Error.Render(m.alert)
	}
	if m.notice != "" {
		return m.styles.Success.Render(m.notice)
	}
	ui := m.session.InterfaceLanguage()
	parts := []string{
		m.t("status.interface_lang", m.t("lang."+string(ui))),
		m.t("status.template_lang", m.t("lang."+string(m.session.TemplateLanguage()))),
	}
	line := m.styles.Muted.Render(strings.Join(parts, "  "))
	if invalid := len(m.session.Invalid()); invalid > 0 {
		line += "  " + m.styles.Warning.Render(m.t("app.invalid_count", invalid))
	}
	return line
}

// panel draws a bordered box of the given outer size with a title line.
func (m model) panel(title, content string, width, height int, focused bool) string {
	style := m.styles.Panel
	titleStyle := m.styles.Muted
	if focused {
		style = m.styles.PanelFocus
		titleStyle = m.styles.Focus
	}
	inner := clipLines(titleStyle.Render(title)+"\n"+content, maxInt(height-2, 1))
	return style.Width(maxInt(width-2, 1)).Height(maxInt(height-2, 1)).Render(inner)
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
