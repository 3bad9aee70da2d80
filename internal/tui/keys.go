package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/opencode-ai/mailassist/internal/tui/components"
)

type keyMap struct {
	Search        key.Binding
	NextPane      key.Binding
	PrevPane      key.Binding
	Up            key.Binding
	Down          key.Binding
	Select        key.Binding
	Category      key.Binding
	CopySubject   key.Binding
	CopyBody      key.Binding
	CopyAll       key.Binding
	CopyLink      key.Binding
	Reset         key.Binding
	Preview       key.Binding
	InterfaceLang key.Binding
	TemplateLang  key.Binding
	Help          key.Binding
	Dismiss       key.Binding
	Quit          key.Binding
}

func newKeyMap(t components.Translator) keyMap {
	return keyMap{
		Search:        key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", t("help.search"))),
		NextPane:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", t("help.focus"))),
		PrevPane:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", t("help.focus"))),
		Up:            key.NewBinding(key.WithKeys("up")),
		Down:          key.NewBinding(key.WithKeys("down")),
		Select:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", t("help.select"))),
		Category:      key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", t("help.category"))),
		CopySubject:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", t("action.copy_subject"))),
		CopyBody:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", t("action.copy_body"))),
		CopyAll:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", t("action.copy_all"))),
		CopyLink:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", t("action.copy_link"))),
		Reset:         key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", t("action.reset"))),
		Preview:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", t("help.preview"))),
		InterfaceLang: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", t("help.interface_lang"))),
		TemplateLang:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", t("help.template_lang"))),
		Help:          key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "?")),
		Dismiss:       key.NewBinding(key.WithKeys("esc")),
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", t("help.quit"))),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextPane, k.Category, k.Preview, k.InterfaceLang, k.TemplateLang, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.NextPane, k.PrevPane, k.Select, k.Category},
		{k.CopySubject, k.CopyBody, k.CopyAll, k.CopyLink, k.Reset},
		{k.Preview, k.InterfaceLang, k.TemplateLang, k.Help, k.Quit},
	}
}
