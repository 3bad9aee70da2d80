// Package prefs persists the small set of UI preferences kept between runs.
package prefs

import (
	"maps"

	"github.com/goccy/go-json"

	"github.com/opencode-ai/mailassist/internal/catalog"
)

// Key is the single namespaced key the preferences blob is stored under.
const Key = "mailassist.preferences"

// Preferences is an immutable snapshot; the With* methods return modified copies.
type Preferences struct {
	InterfaceLanguage catalog.Lang      `json:"interfaceLanguage"`
	TemplateLanguage  catalog.Lang      `json:"templateLanguage"`
	SearchQuery       string            `json:"searchQuery"`
	SelectedCategory  string            `json:"selectedCategory"`
	VariableBindings  map[string]string `json:"variableBindings"`
}

// Default returns the preferences used on first run.
func Default() Preferences {
	return Preferences{
		InterfaceLanguage: catalog.LangFR,
		TemplateLanguage:  catalog.LangFR,
		SelectedCategory:  catalog.AllCategories,
		VariableBindings:  map[string]string{},
	}
}

// WithInterfaceLanguage returns a copy with the interface language set.
func (p Preferences) WithInterfaceLanguage(lang catalog.Lang) Preferences {
	p.VariableBindings = maps.Clone(p.VariableBindings)
	p.InterfaceLanguage = lang
	return p
}

// WithTemplateLanguage returns a copy with the template language set.
func (p Preferences) WithTemplateLanguage(lang catalog.Lang) Preferences {
	p.VariableBindings = maps.Clone(p.VariableBindings)
	p.TemplateLanguage = lang
	return p
}

// WithSearch returns a copy with the search query set.
func (p Preferences) WithSearch(query string) Preferences {
	p.VariableBindings = maps.Clone(p.VariableBindings)
	p.SearchQuery = query
	return p
}

// WithCategory returns a copy with the selected category set.
func (p Preferences) WithCategory(category string) Preferences {
	p.VariableBindings = maps.Clone(p.VariableBindings)
	p.SelectedCategory = category
	return p
}

// WithBindings returns a copy holding a private copy of bindings.
func (p Preferences) WithBindings(bindings map[string]string) Preferences {
	p.VariableBindings = maps.Clone(bindings)
	if p.VariableBindings == nil {
		p.VariableBindings = map[string]string{}
	}
	return p
}

// Bindings returns a copy of the stored variable bindings.
func (p Preferences) Bindings() map[string]string {
	out := maps.Clone(p.VariableBindings)
	if out == nil {
		out = map[string]string{}
	}
	return out
}

// Equal reports whether p and other hold the same values.
func (p Preferences) Equal(other Preferences) bool {
	return p.InterfaceLanguage == other.InterfaceLanguage &&
		p.TemplateLanguage == other.TemplateLanguage &&
		p.SearchQuery == other.SearchQuery &&
		p.SelectedCategory == other.SelectedCategory &&
		maps.Equal(p.VariableBindings, other.VariableBindings)
}

// Encode serializes p as the stored JSON blob.
func Encode(p Preferences) (string, error) {
	if p.VariableBindings == nil {
		p.VariableBindings = map[string]string{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a stored blob. Missing or unsupported fields keep their defaults.
func Decode(raw string) (Preferences, error) {
	var stored Preferences
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Default(), err
	}

	p := Default()
	if lang, ok := catalog.ParseLang(string(stored.InterfaceLanguage)); ok {
		p.InterfaceLanguage = lang
	}
	if lang, ok := catalog.ParseLang(string(stored.TemplateLanguage)); ok {
		p.TemplateLanguage = lang
	}
	p.SearchQuery = stored.SearchQuery
	if stored.SelectedCategory != "" {
		p.SelectedCategory = stored.SelectedCategory
	}
	if stored.VariableBindings != nil {
		p.VariableBindings = stored.VariableBindings
	}
	return p, nil
}
