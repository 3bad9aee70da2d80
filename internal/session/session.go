// Package session owns the state of one editing session: the selected template,
// its variable bindings, the languages and the resolved subject and body.
//
// A Session is not safe for concurrent use; the TUI mutates it from its update loop only.
package session

import (
	"errors"
	"fmt"
	"maps"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/export"
	"github.com/opencode-ai/mailassist/internal/highlight"
	"github.com/opencode-ai/mailassist/internal/placeholder"
	"github.com/opencode-ai/mailassist/internal/prefs"
	"github.com/opencode-ai/mailassist/internal/validate"
)

// Session errors.
var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrUnknownVariable     = errors.New("variable not used by the selected template")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoTemplate          = errors.New("no template selected")
)

// Session is the single owner of editing state.
type Session struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger

	interfaceLang catalog.Lang
	templateLang  catalog.Lang
	search        string
	category      string

	selected *catalog.Template
	bindings map[string]string
	subject  Resolved
	body     Resolved
}

// New returns a Session over cat with default preferences.
func New(cat *catalog.Catalog, logger zerolog.Logger) *Session {
	if cat == nil {
		cat = catalog.Empty()
	}
	defaults := prefs.Default()
	return &Session{
		catalog:       cat,
		logger:        logger,
		interfaceLang: defaults.InterfaceLanguage,
		templateLang:  defaults.TemplateLanguage,
		category:      defaults.SelectedCategory,
		bindings:      map[string]string{},
	}
}

// Catalog returns the catalog in use.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// SetCatalog swaps the catalog, keeping the selection when its id still exists.
func (s *Session) SetCatalog(cat *catalog.Catalog) {
	if cat == nil {
		cat = catalog.Empty()
	}
	s.catalog = cat
	if s.selected == nil {
		return
	}
	id := s.selected.ID
	if _, ok := cat.Find(id); !ok {
		s.Deselect()
		return
	}
	_ = s.Select(id)
}

// Select makes id the active template, reseeding bindings from registry examples.
func (s *Session) Select(id string) error {
	tmpl, ok := s.catalog.Find(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	s.selected = tmpl
	s.bindings = seedBindings(s.catalog, tmpl)
	s.recompute()
	s.logger.Debug().Str("template", id).Msg("template selected")
	return nil
}

// Deselect clears the selection, its bindings and the resolved text.
func (s *Session) Deselect() {
	s.selected = nil
	s.bindings = map[string]string{}
	s.subject = Resolved{}
	s.body = Resolved{}
}

// Selected returns the active template.
func (s *Session) Selected() (*catalog.Template, bool) {
	return s.selected, s.selected != nil
}

// Bindings returns a copy of the current variable bindings.
func (s *Session) Bindings() map[string]string {
	return maps.Clone(s.bindings)
}

// Binding returns the value bound to name.
func (s *Session) Binding(name string) string {
	return s.bindings[name]
}

// SetBinding updates one variable of the active template and re-derives the resolved text.
func (s *Session) SetBinding(name, value string) error {
	if s.selected == nil {
		return ErrNoTemplate
	}
	if _, ok := s.bindings[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	if s.bindings[name] == value {
		return nil
	}
	s.bindings[name] = value
	s.recompute()
	return nil
}

// InterfaceLanguage returns the language of interface texts.
func (s *Session) InterfaceLanguage() catalog.Lang {
	return s.interfaceLang
}

// SetInterfaceLanguage switches interface texts to lang.
func (s *Session) SetInterfaceLanguage(lang catalog.Lang) error {
	parsed, ok := catalog.ParseLang(string(lang))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	s.interfaceLang = parsed
	return nil
}

// TemplateLanguage returns the language templates are rendered in.
func (s *Session) TemplateLanguage() catalog.Lang {
	return s.templateLang
}

// SetTemplateLanguage switches the template language and re-derives the resolved text.
func (s *Session) SetTemplateLanguage(lang catalog.Lang) error {
	parsed, ok := catalog.ParseLang(string(lang))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	if parsed == s.templateLang {
		return nil
	}
	s.templateLang = parsed
	s.recompute()
	return nil
}

// EditSubject replaces the resolved subject with a manual edit.
func (s *Session) EditSubject(text string) error {
	if s.selected == nil {
		return ErrNoTemplate
	}
	s.subject = Overridden(text)
	return nil
}

// EditBody replaces the resolved body with a manual edit.
func (s *Session) EditBody(text string) error {
	if s.selected == nil {
		return ErrNoTemplate
	}
	s.body = Overridden(text)
	return nil
}

// Edit dispatches a manual edit to field.
func (s *Session) Edit(field catalog.Field, text string) error {
	if field == catalog.FieldSubject {
		return s.EditSubject(text)
	}
	return s.EditBody(text)
}

// Reset reseeds bindings from registry examples and discards manual edits.
func (s *Session) Reset() error {
	if s.selected == nil {
		return ErrNoTemplate
	}
	s.bindings = seedBindings(s.catalog, s.selected)
	s.recompute()
	return nil
}

// Subject returns the resolved subject.
func (s *Session) Subject() Resolved {
	return s.subject
}

// Body returns the resolved body.
func (s *Session) Body() Resolved {
	return s.body
}

// Resolved returns the resolved text of field.
func (s *Session) Resolved(field catalog.Field) Resolved {
	if field == catalog.FieldSubject {
		return s.subject
	}
	return s.body
}

// Field describes one variable of the active template as shown in the form.
type Field struct {
	Name       string
	Def        catalog.VariableDef
	Registered bool
	Value      string
	Result     validate.Result
	// Chars is the rune count of Value; ShowCount is set for text variables.
	Chars     int
	ShowCount bool
}

// Fields returns the active template's variables in template order.
func (s *Session) Fields() []Field {
	if s.selected == nil {
		return nil
	}
	fields := make([]Field, 0, len(s.selected.Variables))
	for _, name := range s.selected.Variables {
		def, registered := s.catalog.Variable(name)
		value := s.bindings[name]
		fields = append(fields, Field{
			Name:       name,
			Def:        def,
			Registered: registered,
			Value:      value,
			Result:     validate.Validate(def.Type, def.Required, value),
			Chars:      utf8.RuneCountInString(value),
			ShowCount:  def.Type == catalog.TypeText,
		})
	}
	return fields
}

// Invalid returns the fields failing validation.
func (s *Session) Invalid() []Field {
	var out []Field
	for _, field := range s.Fields() {
		if !field.Result.Valid {
			out = append(out, field)
		}
	}
	return out
}

// Preview renders the template text of field against the current bindings.
func (s *Session) Preview(field catalog.Field) []highlight.Segment {
	if s.selected == nil {
		return nil
	}
	return highlight.Render(s.selected.Text(field, s.templateLang), s.bindings, s.catalog.TypeOf)
}

// EditorSegments renders the resolved text of field. Placeholders that survived
// substitution or were typed by hand are highlighted like in the preview.
func (s *Session) EditorSegments(field catalog.Field) []highlight.Segment {
	return s.Highlight(s.Resolved(field).Text)
}

// Highlight renders arbitrary text, such as an editor buffer, against the
// current bindings and registry.
func (s *Session) Highlight(text string) []highlight.Segment {
	return highlight.Render(text, s.bindings, s.catalog.TypeOf)
}

// PreviewSegments returns what the reader will receive for field: the template
// rendered against the bindings, or the manual edit when the field was overridden.
func (s *Session) PreviewSegments(field catalog.Field) []highlight.Segment {
	if s.Resolved(field).IsOverridden() {
		return s.EditorSegments(field)
	}
	return s.Preview(field)
}

// Search returns the template search query.
func (s *Session) Search() string {
	return s.search
}

// SetSearch sets the template search query.
func (s *Session) SetSearch(query string) {
	s.search = query
}

// Category returns the category filter.
func (s *Session) Category() string {
	return s.category
}

// SetCategory sets the category filter; AllCategories disables it.
func (s *Session) SetCategory(category string) {
	if category == "" {
		category = catalog.AllCategories
	}
	s.category = category
}

// Templates returns the templates matching the search and category filter.
func (s *Session) Templates() []*catalog.Template {
	return catalog.Filter(s.catalog.Templates, catalog.Query{
		Search:   s.search,
		Category: s.category,
		Lang:     s.templateLang,
	})
}

// Preferences returns the preference snapshot of the current state.
func (s *Session) Preferences() prefs.Preferences {
	return prefs.Preferences{
		InterfaceLanguage: s.interfaceLang,
		TemplateLanguage:  s.templateLang,
		SearchQuery:       s.search,
		SelectedCategory:  s.category,
	}.WithBindings(s.bindings)
}

// ApplyPreferences seeds the session from stored preferences at startup.
// Bindings are restored as-is; selecting a template reseeds them.
func (s *Session) ApplyPreferences(p prefs.Preferences) {
	if lang, ok := catalog.ParseLang(string(p.InterfaceLanguage)); ok {
		s.interfaceLang = lang
	}
	if lang, ok := catalog.ParseLang(string(p.TemplateLanguage)); ok {
		s.templateLang = lang
	}
	s.search = p.SearchQuery
	s.SetCategory(p.SelectedCategory)
	if s.selected == nil {
		s.bindings = p.Bindings()
	}
}

// ApplyDeepLink selects the linked template and language. An unknown id is
// ignored; the language only applies together with a known id.
func (s *Session) ApplyDeepLink(link export.Link) bool {
	if link.ID == "" {
		return false
	}
	if _, ok := s.catalog.Find(link.ID); !ok {
		s.logger.Info().Str("template", link.ID).Msg("deep link names an unknown template")
		return false
	}
	if link.Lang != "" {
		if err := s.SetTemplateLanguage(link.Lang); err != nil {
			s.logger.Debug().Err(err).Msg("deep link language ignored")
		}
	}
	return s.Select(link.ID) == nil
}

// Link builds the shareable link for the current selection.
func (s *Session) Link(base string) (string, error) {
	if s.selected == nil {
		return "", ErrNoTemplate
	}
	return export.BuildLink(base, s.selected.ID, s.templateLang)
}

func (s *Session) recompute() {
	if s.selected == nil {
		return
	}
	s.subject = Derived(placeholder.Substitute(s.selected.Text(catalog.FieldSubject, s.templateLang), s.bindings))
	s.body = Derived(placeholder.Substitute(s.selected.Text(catalog.FieldBody, s.templateLang), s.bindings))
}

func seedBindings(cat *catalog.Catalog, tmpl *catalog.Template) map[string]string {
	bindings := make(map[string]string, len(tmpl.Variables))
	for _, name := range tmpl.Variables {
		def, _ := cat.Variable(name)
		bindings[name] = def.Example
	}
	return bindings
}
