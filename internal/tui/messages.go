package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/export"
	"github.com/opencode-ai/mailassist/internal/prefs"
)

// CatalogLoader produces the catalog shown by the TUI.
type CatalogLoader func(ctx context.Context) (*catalog.Catalog, error)

// CatalogLoadedMsg carries the result of the startup catalog load. Catalog is
// never nil; a failed load yields an empty catalog and Err.
type CatalogLoadedMsg struct {
	Catalog *catalog.Catalog
	Err     error
}

// loadCatalog returns a tea.Cmd that runs the loader off the update loop.
func loadCatalog(ctx context.Context, loader CatalogLoader) tea.Cmd {
	return func() tea.Msg {
		if loader == nil {
			return CatalogLoadedMsg{Catalog: catalog.Empty()}
		}
		cat, err := loader(ctx)
		if cat == nil {
			cat = catalog.Empty()
		}
		return CatalogLoadedMsg{Catalog: cat, Err: err}
	}
}

// CopiedMsg reports the outcome of a clipboard write.
type CopiedMsg struct {
	Label string
	Err   error
}

type clearNoticeMsg struct {
	generation int
}

func copyPart(ctx context.Context, exporter *export.Exporter, part export.Part, label, subject, body string) tea.Cmd {
	return func() tea.Msg {
		_, err := exporter.Copy(ctx, part, subject, body)
		return CopiedMsg{Label: label, Err: err}
	}
}

func copyLink(ctx context.Context, exporter *export.Exporter, label, link string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Label: label, Err: exporter.CopyLink(ctx, link)}
	}
}

func clearNoticeAfter(d time.Duration, generation int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoticeMsg{generation: generation}
	})
}

type saveDueMsg struct {
	generation int
}

// PrefsSavedMsg reports a finished preference write.
type PrefsSavedMsg struct {
	Err error
}

func saveAfter(d time.Duration, generation int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return saveDueMsg{generation: generation}
	})
}

func savePrefs(ctx context.Context, store *prefs.Store, p prefs.Preferences) tea.Cmd {
	return func() tea.Msg {
		_, err := store.Save(ctx, p)
		return PrefsSavedMsg{Err: err}
	}
}
