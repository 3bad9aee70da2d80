package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/export"
	"github.com/opencode-ai/mailassist/internal/prefs"
)

const testCatalog = `{
  "variables": {
    "quoteNumber": {"type": "number", "required": true, "example": "1234"},
    "clientName": {"type": "text", "required": false, "example": "Marie"}
  },
  "templates": [
    {"id": "quote", "category": "Devis et estimations",
     "title": {"fr": "Devis", "en": "Quote"},
     "description": {"fr": "Envoyer un devis", "en": "Send a quote"},
     "subject": {"fr": "Devis #<<quoteNumber>>", "en": "Quote #<<quoteNumber>>"},
     "body": {"fr": "Bonjour <<clientName>>", "en": "Hello <<clientName>>"},
     "variables": ["quoteNumber", "clientName"]},
    {"id": "thanks", "category": "Communications générales",
     "title": {"fr": "Merci", "en": "Thanks"},
     "description": {"fr": "Remerciements", "en": "Say thanks"},
     "subject": {"fr": "Merci", "en": "Thank you"},
     "body": {"fr": "Merci beaucoup", "en": "Many thanks"},
     "variables": []}
  ]
}`

type recordingClipboard struct {
	texts []string
	err   error
}

func (c *recordingClipboard) Name() string { return "recording" }

func (c *recordingClipboard) WriteText(_ context.Context, text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

type harness struct {
	clip  *recordingClipboard
	store *prefs.Store
	link  export.Link
}

func newTestModel(t *testing.T, h harness) model {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	if h.clip == nil {
		h.clip = &recordingClipboard{}
	}
	cfg := Config{
		Catalog:   func(context.Context) (*catalog.Catalog, error) { return cat, nil },
		Store:     h.store,
		Exporter:  export.NewExporter(h.clip, zerolog.Nop()),
		BaseURL:   "https://mail.example.org/",
		Link:      h.link,
		CopiedFor: time.Millisecond,
		SaveDelay: time.Millisecond,
		Logger:    zerolog.Nop(),
	}
	m := newModel(context.Background(), cfg)
	m, _ = step(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = step(m, loadCatalog(context.Background(), cfg.Catalog)())
	return m
}

func step(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func press(m model, msgs ...tea.KeyMsg) (model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = step(m, msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func keyOf(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// drain runs commands and feeds their messages back into the model. Commands
// that do not finish promptly, such as cursor blinks, are dropped.
func drain(m model, cmd tea.Cmd) model {
	queue := []tea.Cmd{cmd}
	for rounds := 0; len(queue) > 0 && rounds < 100; rounds++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok || msg == nil {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
		default:
			var next tea.Cmd
			m, next = step(m, msg)
			queue = append(queue, next)
		}
	}
	return m
}

func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

// emits reports whether cmd, or any command it batches, produces a T.
func emits[T tea.Msg](cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	msg, ok := runCmd(cmd)
	if !ok {
		return false
	}
	if batch, isBatch := msg.(tea.BatchMsg); isBatch {
		for _, c := range batch {
			if emits[T](c) {
				return true
			}
		}
		return false
	}
	_, match := msg.(T)
	return match
}

func selectFirst(m model) model {
	m, _ = press(m, keyOf(tea.KeyDown), keyOf(tea.KeyEnter))
	return m
}

func TestCatalogLoadPopulatesPicker(t *testing.T) {
	m := newTestModel(t, harness{})
	if m.loading {
		t.Fatalf("expected loading to finish")
	}
	if len(m.picker.Items) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(m.picker.Items))
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Devis") || !strings.Contains(view, "Merci") {
		t.Fatalf("expected template titles in view:\n%s", view)
	}
}

func TestSelectAndEditBinding(t *testing.T) {
	m := selectFirst(newTestModel(t, harness{}))

	tmpl, ok := m.session.Selected()
	if !ok || tmpl.ID != "quote" {
		t.Fatalf("expected quote selected, got %v", tmpl)
	}
	if m.focus != paneForm {
		t.Fatalf("expected focus on variables, got %v", m.focus)
	}

	m, _ = press(m, typed("9"))
	if got := m.session.Subject().Text; got != "Devis #12349" {
		t.Fatalf("expected subject to follow binding, got %q", got)
	}
	if got := m.subject.Value(); got != "Devis #12349" {
		t.Fatalf("expected subject editor refreshed, got %q", got)
	}
}

func TestManualEditAndReset(t *testing.T) {
	m := selectFirst(newTestModel(t, harness{}))
	m, _ = press(m, keyOf(tea.KeyTab))
	if m.focus != paneSubject {
		t.Fatalf("expected subject focus, got %v", m.focus)
	}

	m, _ = press(m, keyOf(tea.KeyEnd), typed("!"))
	if !m.session.Subject().IsOverridden() || m.session.Subject().Text != "Devis #1234!" {
		t.Fatalf("expected manual edit, got %+v", m.session.Subject())
	}
	if !strings.Contains(ansi.Strip(m.View()), "modifié") {
		t.Fatalf("expected edited marker in view")
	}

	m, _ = press(m, keyOf(tea.KeyCtrlR))
	if m.session.Subject().IsOverridden() || m.subject.Value() != "Devis #1234" {
		t.Fatalf("expected reset to derived text, got %+v", m.session.Subject())
	}
	if m.notice == "" {
		t.Fatalf("expected reset notice")
	}
}

func TestCopyAll(t *testing.T) {
	clip := &recordingClipboard{}
	m := selectFirst(newTestModel(t, harness{clip: clip}))

	m, cmd := press(m, keyOf(tea.KeyCtrlY))
	m = drain(m, cmd)
	if len(clip.texts) != 1 || clip.texts[0] != "Devis #1234\n\nBonjour Marie" {
		t.Fatalf("unexpected clipboard writes %q", clip.texts)
	}
	if m.notice != "" {
		t.Fatalf("expected acknowledgement cleared after its delay, got %q", m.notice)
	}
}

func TestCopyLink(t *testing.T) {
	clip := &recordingClipboard{}
	m := newTestModel(t, harness{clip: clip})

	m, cmd := press(m, keyOf(tea.KeyCtrlL))
	m = drain(m, cmd)
	if len(clip.texts) != 0 {
		t.Fatalf("expected no copy without a template")
	}
	m = selectFirst(m)
	_, cmd = press(m, keyOf(tea.KeyCtrlL))
	drain(m, cmd)
	if len(clip.texts) != 1 || clip.texts[0] != "https://mail.example.org/?id=quote&lang=fr" {
		t.Fatalf("unexpected link %q", clip.texts)
	}
}

func TestNoticeGeneration(t *testing.T) {
	m := newTestModel(t, harness{})
	m, _ = step(m, CopiedMsg{Label: "a"})
	m, _ = step(m, CopiedMsg{Label: "b"})
	if m.noticeGen != 2 {
		t.Fatalf("expected generation 2, got %d", m.noticeGen)
	}

	m, _ = step(m, clearNoticeMsg{generation: 1})
	if m.notice == "" {
		t.Fatalf("expected stale clear to be ignored")
	}
	m, _ = step(m, clearNoticeMsg{generation: 2})
	if m.notice != "" {
		t.Fatalf("expected notice cleared, got %q", m.notice)
	}
}

func TestCopyFailureShowsHint(t *testing.T) {
	clip := &recordingClipboard{err: errors.New("no display")}
	m := selectFirst(newTestModel(t, harness{clip: clip}))

	m, cmd := press(m, keyOf(tea.KeyCtrlS))
	m = drain(m, cmd)
	if !strings.Contains(m.alert, "no display") || !strings.Contains(m.alert, "osc52") {
		t.Fatalf("expected failure with clipboard hint, got %q", m.alert)
	}
	m, _ = press(m, keyOf(tea.KeyEsc))
	if m.alert != "" {
		t.Fatalf("expected esc to dismiss the alert")
	}
}

func TestDeepLinkAppliedAfterLoad(t *testing.T) {
	m := newTestModel(t, harness{link: export.Link{ID: "quote", Lang: catalog.LangEN}})
	tmpl, ok := m.session.Selected()
	if !ok || tmpl.ID != "quote" {
		t.Fatalf("expected linked template selected")
	}
	if m.session.Subject().Text != "Quote #1234" {
		t.Fatalf("expected english subject, got %q", m.session.Subject().Text)
	}
	if m.focus != paneForm {
		t.Fatalf("expected focus on variables, got %v", m.focus)
	}

	m = newTestModel(t, harness{link: export.Link{ID: "missing", Lang: catalog.LangEN}})
	if _, ok := m.session.Selected(); ok {
		t.Fatalf("expected unknown link to be ignored")
	}
	if m.session.TemplateLanguage() != catalog.LangFR {
		t.Fatalf("expected language untouched by unknown link")
	}
}

func TestLanguageToggles(t *testing.T) {
	m := selectFirst(newTestModel(t, harness{}))

	m, _ = press(m, keyOf(tea.KeyF3))
	if m.session.Subject().Text != "Quote #1234" {
		t.Fatalf("expected template language switch, got %q", m.session.Subject().Text)
	}
	if m.session.InterfaceLanguage() != catalog.LangFR {
		t.Fatalf("expected interface language unchanged")
	}

	m, _ = press(m, keyOf(tea.KeyF2))
	if !strings.Contains(ansi.Strip(m.View()), "Interface: English") {
		t.Fatalf("expected english interface:\n%s", ansi.Strip(m.View()))
	}
}

func TestSearchAndCategory(t *testing.T) {
	m := newTestModel(t, harness{})

	m, _ = press(m, typed("merci"))
	if len(m.picker.Items) != 1 || m.picker.Items[0].ID != "thanks" {
		t.Fatalf("expected search to filter, got %+v", m.picker.Items)
	}
	m, _ = press(m, keyOf(tea.KeyEsc))
	if len(m.picker.Items) != 2 {
		t.Fatalf("expected esc to clear the search")
	}

	categories := len(m.session.Catalog().Categories())
	m, _ = press(m, keyOf(tea.KeyF4))
	if m.session.Category() == catalog.AllCategories || len(m.picker.Items) != 1 {
		t.Fatalf("expected a category filter, got %q", m.session.Category())
	}
	for i := 0; i < categories; i++ {
		m, _ = press(m, keyOf(tea.KeyF4))
	}
	if m.session.Category() != catalog.AllCategories {
		t.Fatalf("expected cycle back to all, got %q", m.session.Category())
	}
}

func TestPreferencesSavedOnChange(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewStore(prefs.NewMemoryBackend(), zerolog.Nop())
	m := newTestModel(t, harness{store: store})

	m, cmd := press(m, typed("d"), typed("e"), typed("v"))
	drain(m, cmd)

	if got := store.Load(ctx).SearchQuery; got != "dev" {
		t.Fatalf("expected saved search, got %q", got)
	}

	restored := newTestModel(t, harness{store: store})
	if restored.session.Search() != "dev" || restored.search.Value() != "dev" {
		t.Fatalf("expected search restored at startup")
	}
}

func TestSmallTerminal(t *testing.T) {
	m := newTestModel(t, harness{})
	m, _ = step(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(ansi.Strip(m.View()), "40x10") {
		t.Fatalf("expected small terminal notice, got %q", m.View())
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, harness{})
	_, cmd := press(m, keyOf(tea.KeyCtrlC))
	if !emits[tea.QuitMsg](cmd) {
		t.Fatalf("expected quit message")
	}
}
