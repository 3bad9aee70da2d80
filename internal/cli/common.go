package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/export"
	"github.com/opencode-ai/mailassist/internal/i18n"
	"github.com/opencode-ai/mailassist/internal/logging"
	"github.com/opencode-ai/mailassist/internal/prefs"
	"github.com/opencode-ai/mailassist/internal/session"
)

// projectDirFunc returns the directory searched for a project catalog.
var projectDirFunc = os.Getwd

func projectDir() string {
	dir, err := projectDirFunc()
	if err != nil {
		return "."
	}
	return dir
}

// openCatalog loads the configured catalog. One-shot commands fail on a bad
// catalog instead of degrading to an empty one.
func openCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg := GetConfig()
	progress := startProgress("Loading catalog")
	cat, err := catalog.Load(ctx, cfg.Catalog.Source, projectDir())
	if err != nil {
		progress.Fail(err)
		return nil, &PreflightError{
			Message:  err.Error(),
			Hint:     "Check catalog.source in the config or pass --catalog",
			NextStep: "mailassist check --catalog builtin",
		}
	}
	progress.Done(fmt.Sprintf("%d templates", cat.Len()))
	logger := logging.Component("cli")
	logger.Debug().
		Str("source", cat.Source).
		Int("templates", cat.Len()).
		Msg("catalog loaded")
	return cat, nil
}

func openPrefs(ctx context.Context) *prefs.Store {
	return prefs.OpenOrMemory(ctx, GetConfig().Prefs, logging.Component("prefs"))
}

func newExporter() (*export.Exporter, error) {
	clip, err := export.NewClipboard(GetConfig().Clipboard.Mode, os.Stderr)
	if err != nil {
		return nil, &PreflightError{
			Message:  err.Error(),
			Hint:     "clipboard.mode must be auto, system or osc52",
			NextStep: "mailassist init --force",
		}
	}
	return export.NewExporter(clip, logging.Component("export")), nil
}

func interfaceLanguage() catalog.Lang {
	return i18n.Detect(os.Getenv)
}

// parseLang resolves a --lang flag; empty yields fallback.
func parseLang(value string, fallback catalog.Lang) (catalog.Lang, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	lang, ok := catalog.ParseLang(value)
	if !ok {
		return "", &PreflightError{
			Message: fmt.Sprintf("unsupported language %q", value),
			Hint:    "Use fr or en",
		}
	}
	return lang, nil
}

// parseVars turns repeated --var name=value flags into bindings.
func parseVars(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, raw := range values {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, &PreflightError{
				Message: fmt.Sprintf("invalid --var %q", raw),
				Hint:    "Use --var name=value",
			}
		}
		out[name] = value
	}
	return out, nil
}

// fillSession selects id in a fresh session and applies lang and vars.
// Variables the template does not use are rejected.
func fillSession(cat *catalog.Catalog, id string, lang catalog.Lang, vars map[string]string) (*session.Session, error) {
	sess := session.New(cat, logging.Component("session"))
	if err := sess.Select(id); err != nil {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("template %q not found", id),
			Hint:     "List the available templates",
			NextStep: "mailassist list",
		}
	}
	if err := sess.SetTemplateLanguage(lang); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := sess.SetBinding(name, vars[name]); err != nil {
			return nil, &PreflightError{
				Message:  fmt.Sprintf("template %q has no variable %q", id, name),
				Hint:     "Show the template variables",
				NextStep: "mailassist show " + id,
			}
		}
	}
	return sess, nil
}
