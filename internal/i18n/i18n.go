// Package i18n holds the interface strings for every supported language.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/validate"
)

//go:embed locales/*.json
var locales embed.FS

// Fallback is the language used when a key or locale is missing.
const Fallback = catalog.LangFR

// Bundle maps language to message key to text.
type Bundle struct {
	dict     map[catalog.Lang]map[string]string
	fallback catalog.Lang
}

// Load reads the embedded locale files.
func Load() (*Bundle, error) {
	b := &Bundle{
		dict:     map[catalog.Lang]map[string]string{},
		fallback: Fallback,
	}
	for _, lang := range catalog.Languages {
		raw, err := locales.ReadFile("locales/" + string(lang) + ".json")
		if err != nil {
			if lang == b.fallback {
				return nil, fmt.Errorf("load locale %s: %w", lang, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", lang, err)
		}
		b.dict[lang] = m
	}
	if _, ok := b.dict[b.fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", b.fallback)
	}
	return b, nil
}

// MustLoad is Load for callers that cannot recover from a broken build.
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// T returns the translation for key in lang, falling back to French and finally the key.
func (b *Bundle) T(lang catalog.Lang, key string) string {
	if b == nil {
		return key
	}
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Tf formats the translation for key with args.
func (b *Bundle) Tf(lang catalog.Lang, key string, args ...any) string {
	return fmt.Sprintf(b.T(lang, key), args...)
}

// Category returns the translated label of a catalog category, or the name itself.
func (b *Bundle) Category(lang catalog.Lang, name string) string {
	key := "category." + name
	if v := b.T(lang, key); v != key {
		return v
	}
	return name
}

// Validation returns the message describing a validation result.
func (b *Bundle) Validation(lang catalog.Lang, result validate.Result) string {
	if result.Valid {
		return b.T(lang, "validation.valid")
	}
	return b.T(lang, "validation."+strings.ToLower(string(result.Reason)))
}

// Keys returns the sorted message keys of lang.
func (b *Bundle) Keys(lang catalog.Lang) []string {
	m := b.dict[lang]
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var matcher = language.NewMatcher([]language.Tag{language.French, language.English})

// Detect picks the interface language from the POSIX locale variables.
func Detect(getenv func(string) string) catalog.Lang {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG", "LANGUAGE"} {
		value := getenv(name)
		if value == "" {
			continue
		}
		// LANGUAGE may list several entries separated by colons.
		for _, entry := range strings.Split(value, ":") {
			if lang, ok := matchLocale(entry); ok {
				return lang
			}
		}
	}
	return Fallback
}

func matchLocale(value string) (catalog.Lang, bool) {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	value = strings.ReplaceAll(strings.TrimSpace(value), "_", "-")
	if value == "" || value == "C" || value == "POSIX" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	if index == 1 {
		return catalog.LangEN, true
	}
	return catalog.LangFR, true
}
