// Package tui implements the mailassist terminal user interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/export"
	"github.com/opencode-ai/mailassist/internal/i18n"
	"github.com/opencode-ai/mailassist/internal/prefs"
	"github.com/opencode-ai/mailassist/internal/session"
	"github.com/opencode-ai/mailassist/internal/tui/components"
	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

// Config wires the TUI to its collaborators.
type Config struct {
	Catalog  CatalogLoader
	Store    *prefs.Store
	Exporter *export.Exporter
	Bundle   *i18n.Bundle
	BaseURL  string
	// Link is the deep link given on the command line, applied once the catalog is loaded.
	Link      export.Link
	Theme     string
	Preview   bool
	CopiedFor time.Duration
	SaveDelay time.Duration
	Logger    zerolog.Logger
}

// Run launches the TUI program and blocks until it exits.
func Run(ctx context.Context, cfg Config) error {
	program := tea.NewProgram(newModel(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := program.Run()
	if m, ok := final.(model); ok {
		m.flush()
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

type pane int

const (
	paneSearch pane = iota
	panePicker
	paneForm
	paneSubject
	paneBody
	panePreview
)

const (
	minWidth          = 60
	minHeight         = 15
	headerHeight      = 1
	subjectPanelLines = 4
)

type model struct {
	ctx     context.Context
	cfg     Config
	logger  zerolog.Logger
	session *session.Session
	bundle  *i18n.Bundle
	styles  styles.Styles
	keys    keyMap
	help    help.Model

	width  int
	height int

	loading bool
	loadErr error
	spinner spinner.Model

	search      textinput.Model
	picker      *components.TemplatePicker
	form        *components.VariableForm
	subject     *components.HighlightedEditor
	body        *components.HighlightedEditor
	preview     viewport.Model
	showPreview bool
	focus       pane

	leftWidth    int
	rightWidth   int
	mainHeight   int
	formHeight   int
	bodyHeight   int
	previewLines int

	notice    string
	noticeGen int
	alert     string

	saved   prefs.Preferences
	saveGen int
}

func newModel(ctx context.Context, cfg Config) model {
	if cfg.Bundle == nil {
		cfg.Bundle = i18n.MustLoad()
	}
	if cfg.CopiedFor <= 0 {
		cfg.CopiedFor = 2 * time.Second
	}
	if cfg.SaveDelay <= 0 {
		cfg.SaveDelay = 300 * time.Millisecond
	}
	if cfg.Exporter == nil {
		cfg.Exporter = export.NewExporter(export.OSC52Clipboard{}, cfg.Logger)
	}

	sess := session.New(nil, cfg.Logger)
	if cfg.Store != nil {
		sess.ApplyPreferences(cfg.Store.Load(ctx))
	}

	styleSet := styles.BuildStyles(styles.ThemeByName(cfg.Theme))
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSet.Accent

	search := textinput.New()
	search.Prompt = "/ "
	search.SetValue(sess.Search())

	m := model{
		ctx:         ctx,
		cfg:         cfg,
		logger:      cfg.Logger,
		session:     sess,
		bundle:      cfg.Bundle,
		styles:      styleSet,
		help:        help.New(),
		loading:     true,
		spinner:     sp,
		search:      search,
		picker:      components.NewTemplatePicker(),
		form:        components.NewVariableForm(),
		subject:     components.NewHighlightedEditor(false),
		body:        components.NewHighlightedEditor(true),
		preview:     viewport.New(0, 0),
		showPreview: cfg.Preview,
		saved:       sess.Preferences(),
	}
	m.subject.Highlighter = sess.Highlight
	m.body.Highlighter = sess.Highlight
	m.applyLanguage()
	m.setFocus(paneSearch)
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCatalog(m.ctx, m.cfg.Catalog), textinput.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.persist())
}

func (m *model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return nil
	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case CatalogLoadedMsg:
		return m.catalogLoaded(msg)
	case CopiedMsg:
		if msg.Err != nil {
			m.alert = m.t("action.copy_failed", msg.Err.Error()) + " · " + m.t("clipboard.hint")
			return nil
		}
		m.alert = ""
		return m.flash(m.t("action.copied") + " " + msg.Label)
	case clearNoticeMsg:
		if msg.generation == m.noticeGen {
			m.notice = ""
		}
		return nil
	case saveDueMsg:
		if msg.generation != m.saveGen || m.cfg.Store == nil {
			return nil
		}
		return savePrefs(m.ctx, m.cfg.Store, m.saved)
	case PrefsSavedMsg:
		return nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and other input internals.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	_, cmd = m.form.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// persist schedules a debounced save whenever the preference snapshot changed.
func (m *model) persist() tea.Cmd {
	if m.cfg.Store == nil {
		return nil
	}
	current := m.session.Preferences()
	if current.Equal(m.saved) {
		return nil
	}
	m.saved = current
	m.saveGen++
	return saveAfter(m.cfg.SaveDelay, m.saveGen)
}

// flush writes the final snapshot on exit.
func (m model) flush() {
	if m.cfg.Store == nil {
		return
	}
	_, _ = m.cfg.Store.Save(context.WithoutCancel(m.ctx), m.session.Preferences())
}

func (m *model) catalogLoaded(msg CatalogLoadedMsg) tea.Cmd {
	m.loading = false
	m.loadErr = msg.Err
	if msg.Err != nil {
		m.logger.Warn().Err(msg.Err).Msg("catalog unavailable")
	}
	m.session.SetCatalog(msg.Catalog)
	m.logger.Info().Int("templates", msg.Catalog.Len()).Str("source", msg.Catalog.Source).Msg("catalog loaded")

	linked := !m.cfg.Link.IsZero() && m.session.ApplyDeepLink(m.cfg.Link)
	m.refreshAll()
	m.layout()
	if linked {
		return m.focusSelection()
	}
	return nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return nil
	case key.Matches(msg, m.keys.Dismiss):
		m.alert = ""
		if m.focus == paneSearch && m.search.Value() != "" {
			m.search.SetValue("")
			m.session.SetSearch("")
			m.refreshPicker()
		}
		return nil
	case key.Matches(msg, m.keys.Search):
		return m.setFocus(paneSearch)
	case key.Matches(msg, m.keys.NextPane):
		return m.cycleFocus(1)
	case key.Matches(msg, m.keys.PrevPane):
		return m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Category):
		m.cycleCategory()
		return nil
	case key.Matches(msg, m.keys.InterfaceLang):
		_ = m.session.SetInterfaceLanguage(m.session.InterfaceLanguage().Other())
		m.applyLanguage()
		m.refreshPicker()
		return nil
	case key.Matches(msg, m.keys.TemplateLang):
		_ = m.session.SetTemplateLanguage(m.session.TemplateLanguage().Other())
		m.refreshAll()
		return nil
	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
		if !m.showPreview && m.focus == panePreview {
			m.setFocus(paneBody)
		}
		m.layout()
		return nil
	case key.Matches(msg, m.keys.CopySubject):
		return m.copy(export.PartSubject, "action.copy_subject")
	case key.Matches(msg, m.keys.CopyBody):
		return m.copy(export.PartBody, "action.copy_body")
	case key.Matches(msg, m.keys.CopyAll):
		return m.copy(export.PartAll, "action.copy_all")
	case key.Matches(msg, m.keys.CopyLink):
		return m.copyLink()
	case key.Matches(msg, m.keys.Reset):
		if err := m.session.Reset(); err != nil {
			return nil
		}
		m.refreshAll()
		return m.flash(m.t("action.reset_done"))
	}
	return m.routeKey(msg)
}

func (m *model) routeKey(msg tea.KeyMsg) tea.Cmd {
	switch m.focus {
	case paneSearch:
		if key.Matches(msg, m.keys.Down) || key.Matches(msg, m.keys.Select) {
			return m.setFocus(panePicker)
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if value := m.search.Value(); value != before {
			m.session.SetSearch(value)
			m.refreshPicker()
		}
		return cmd
	case panePicker:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.picker.Move(-1)
		case key.Matches(msg, m.keys.Down):
			m.picker.Move(1)
		case key.Matches(msg, m.keys.Select):
			return m.selectHighlighted()
		case msg.Type == tea.KeyRunes:
			// Typing in the list goes to the search field.
			cmd := m.setFocus(paneSearch)
			return tea.Batch(cmd, m.routeKey(msg))
		}
		return nil
	case paneForm:
		change, cmd := m.form.Update(msg)
		if change != nil {
			if err := m.session.SetBinding(change.Name, change.Value); err != nil {
				m.logger.Debug().Err(err).Str("variable", change.Name).Msg("binding rejected")
				return cmd
			}
			m.refreshForm()
			m.refreshEditors()
			m.refreshPreview()
		}
		return cmd
	case paneSubject:
		m.editField(m.subject, catalog.FieldSubject, msg)
	case paneBody:
		m.editField(m.body, catalog.FieldBody, msg)
	case panePreview:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return cmd
	}
	return nil
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch m.focus {
	case paneSubject:
		m.subject.Update(msg)
	case paneBody:
		m.body.Update(msg)
	default:
		if m.showPreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return cmd
		}
	}
	return nil
}

func (m *model) editField(editor *components.HighlightedEditor, field catalog.Field, msg tea.Msg) {
	if !editor.Update(msg) {
		return
	}
	if err := m.session.Edit(field, editor.Value()); err != nil {
		return
	}
	m.refreshPreview()
}

func (m *model) selectHighlighted() tea.Cmd {
	item := m.picker.SelectedItem()
	if item == nil {
		return nil
	}
	if err := m.session.Select(item.ID); err != nil {
		m.logger.Warn().Err(err).Msg("select template")
		return nil
	}
	m.refreshAll()
	return m.focusSelection()
}

func (m *model) focusSelection() tea.Cmd {
	if m.form.Len() > 0 {
		return m.setFocus(paneForm)
	}
	return m.setFocus(paneSubject)
}

func (m *model) copy(part export.Part, labelKey string) tea.Cmd {
	if _, ok := m.session.Selected(); !ok {
		return nil
	}
	return copyPart(m.ctx, m.cfg.Exporter, part, m.t(labelKey), m.session.Subject().Text, m.session.Body().Text)
}

func (m *model) copyLink() tea.Cmd {
	link, err := m.session.Link(m.cfg.BaseURL)
	if err != nil {
		if _, ok := m.session.Selected(); ok {
			m.alert = err.Error()
		}
		return nil
	}
	return copyLink(m.ctx, m.cfg.Exporter, m.t("action.copy_link"), link)
}

func (m *model) flash(text string) tea.Cmd {
	m.notice = text
	m.noticeGen++
	return clearNoticeAfter(m.cfg.CopiedFor, m.noticeGen)
}

func (m *model) cycleCategory() {
	options := append([]string{catalog.AllCategories}, m.session.Catalog().Categories()...)
	current := m.session.Category()
	next := 0
	for i, option := range options {
		if option == current {
			next = (i + 1) % len(options)
			break
		}
	}
	m.session.SetCategory(options[next])
	m.refreshPicker()
}

func (m *model) focusOrder() []pane {
	order := []pane{paneSearch, panePicker}
	if _, ok := m.session.Selected(); ok {
		if m.form.Len() > 0 {
			order = append(order, paneForm)
		}
		order = append(order, paneSubject, paneBody)
	}
	if m.showPreview {
		order = append(order, panePreview)
	}
	return order
}

func (m *model) cycleFocus(delta int) tea.Cmd {
	order := m.focusOrder()
	idx := 0
	for i, p := range order {
		if p == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return m.setFocus(order[idx])
}

func (m *model) setFocus(p pane) tea.Cmd {
	m.focus = p
	m.search.Blur()
	m.form.Blur()
	m.subject.Blur()
	m.body.Blur()
	switch p {
	case paneSearch:
		return m.search.Focus()
	case paneForm:
		m.form.Focus()
	case paneSubject:
		m.subject.Focus()
	case paneBody:
		m.body.Focus()
	}
	return nil
}

// t translates key into the interface language.
func (m model) t(key string, args ...any) string {
	return m.bundle.Tf(m.session.InterfaceLanguage(), key, args...)
}

func (m *model) applyLanguage() {
	m.keys = newKeyMap(m.t)
	m.search.Placeholder = m.t("picker.search_placeholder")
	m.subject.Placeholder = m.t("editor.subject")
	m.body.Placeholder = m.t("editor.body")
}

func (m *model) refreshAll() {
	m.refreshPicker()
	m.refreshForm()
	m.refreshEditors()
	m.refreshPreview()
}

func (m *model) refreshPicker() {
	lang := m.session.TemplateLanguage()
	templates := m.session.Templates()
	items := make([]components.PickerItem, 0, len(templates))
	for _, tmpl := range templates {
		items = append(items, components.PickerItem{
			ID:          tmpl.ID,
			Title:       tmpl.Title.Get(lang),
			Description: tmpl.Description.Get(lang),
			Category:    m.bundle.Category(m.session.InterfaceLanguage(), tmpl.Category),
		})
	}
	m.picker.SetItems(items)
	m.picker.Active = ""
	if tmpl, ok := m.session.Selected(); ok {
		m.picker.Active = tmpl.ID
	}
}

func (m *model) refreshForm() {
	m.form.SetFields(m.session.Fields())
	m.form.SetWidth(m.rightWidth - 2)
}

func (m *model) refreshEditors() {
	m.subject.SetValue(m.session.Subject().Text)
	m.body.SetValue(m.session.Body().Text)
}

func (m *model) refreshPreview() {
	if _, ok := m.session.Selected(); !ok {
		m.preview.SetContent("")
		return
	}
	width := m.preview.Width
	content := components.RenderPreview(m.styles, m.session.PreviewSegments(catalog.FieldSubject), width) +
		"\n\n" +
		components.RenderPreview(m.styles, m.session.PreviewSegments(catalog.FieldBody), width)
	m.preview.SetContent(content)
}

func (m *model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = m.width
	m.leftWidth = clamp(m.width/3, 24, 44)
	m.rightWidth = m.width - m.leftWidth
	m.mainHeight = maxInt(m.height-headerHeight-m.footerHeight(), 6)

	m.search.Width = maxInt(m.leftWidth-6, 4)
	m.picker.Width = m.leftWidth - 2
	// Border, title, search, category and count lines.
	m.picker.Height = maxInt(m.mainHeight-6, 2)

	inner := maxInt(m.rightWidth-2, 1)
	m.form.SetWidth(inner)
	needed := 3 + maxInt(m.form.Len(), 1)*3
	m.formHeight = clamp(needed, 5, maxInt(m.mainHeight/3, 5))
	m.form.SetHeight(m.formHeight - 3)

	remaining := maxInt(m.mainHeight-m.formHeight-subjectPanelLines, 4)
	m.bodyHeight = remaining
	m.previewLines = 0
	if m.showPreview {
		m.previewLines = remaining / 2
		m.bodyHeight = remaining - m.previewLines
	}
	m.subject.SetSize(inner, 1)
	m.body.SetSize(inner, maxInt(m.bodyHeight-3, 1))
	m.preview.Width = inner
	m.preview.Height = maxInt(m.previewLines-3, 1)
	m.refreshPreview()
}

func (m model) footerHeight() int {
	return 2 + strings.Count(m.help.View(m.keys), "\n") + 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (m model) smallViewLines() []string {
	return []string{
		m.styles.Warning.Render(m.t("app.too_small", m.width, m.height)),
		m.styles.Muted.Render(m.t("app.resize", minWidth, minHeight)),
		m.styles.Muted.Render(fmt.Sprintf("ctrl+c: %s", m.t("help.quit"))),
	}
}
