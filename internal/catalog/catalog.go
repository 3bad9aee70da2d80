// Package catalog provides loading and lookup of the email template catalog.
package catalog

import "strings"

// Lang identifies a template or interface language.
type Lang string

// Supported languages.
const (
	LangFR Lang = "fr"
	LangEN Lang = "en"
)

// Languages lists the supported languages in display order.
var Languages = []Lang{LangFR, LangEN}

// ParseLang converts a string to a supported Lang.
func ParseLang(value string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(value))) {
	case LangFR:
		return LangFR, true
	case LangEN:
		return LangEN, true
	default:
		return "", false
	}
}

// Other returns the other supported language.
func (l Lang) Other() Lang {
	if l == LangEN {
		return LangFR
	}
	return LangEN
}

// Localized maps a language code to text.
type Localized map[string]string

// Get returns the text for lang, or "" when no translation exists.
func (l Localized) Get(lang Lang) string {
	if l == nil {
		return ""
	}
	return l[string(lang)]
}

// VariableType is the declared type of a template variable.
type VariableType string

// Variable types understood by the validator and the highlighter.
const (
	TypeEmail  VariableType = "email"
	TypePhone  VariableType = "phone"
	TypeDate   VariableType = "date"
	TypeTime   VariableType = "time"
	TypeNumber VariableType = "number"
	TypeText   VariableType = "text"
)

// VariableDef describes a variable in the registry.
type VariableDef struct {
	Type        VariableType `json:"type"`
	Required    bool         `json:"required"`
	Example     string       `json:"example"`
	Description Localized    `json:"description,omitempty"`
}

// Field identifies one of the two editable parts of an email.
type Field string

// Email fields.
const (
	FieldSubject Field = "subject"
	FieldBody    Field = "body"
)

// Template is a single email template.
type Template struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Title       Localized `json:"title"`
	Description Localized `json:"description"`
	Subject     Localized `json:"subject"`
	Body        Localized `json:"body"`
	Variables   []string  `json:"variables"`
}

// Text returns the subject or body of the template in lang.
func (t *Template) Text(field Field, lang Lang) string {
	if t == nil {
		return ""
	}
	switch field {
	case FieldSubject:
		return t.Subject.Get(lang)
	case FieldBody:
		return t.Body.Get(lang)
	default:
		return ""
	}
}

// Catalog is the loaded template collection and variable registry.
type Catalog struct {
	Metadata  map[string]any         `json:"metadata,omitempty"`
	Variables map[string]VariableDef `json:"variables"`
	Templates []*Template            `json:"templates"`
	Source    string                 `json:"-"` // file path, URL or "builtin"
}

// Empty returns a catalog with no templates.
func Empty() *Catalog {
	return &Catalog{
		Variables: map[string]VariableDef{},
		Templates: []*Template{},
	}
}

// Find returns the template with the given id.
func (c *Catalog) Find(id string) (*Template, bool) {
	if c == nil {
		return nil, false
	}
	for _, tmpl := range c.Templates {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return nil, false
}

// Variable returns the registry entry for name.
func (c *Catalog) Variable(name string) (VariableDef, bool) {
	if c == nil {
		return VariableDef{}, false
	}
	def, ok := c.Variables[name]
	return def, ok
}

// TypeOf returns the registered type of name; ok is false for unregistered names.
func (c *Catalog) TypeOf(name string) (VariableType, bool) {
	def, ok := c.Variable(name)
	if !ok {
		return "", false
	}
	return def.Type, true
}

// Categories returns the distinct categories in order of first appearance.
func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, tmpl := range c.Templates {
		if _, ok := seen[tmpl.Category]; ok {
			continue
		}
		seen[tmpl.Category] = struct{}{}
		categories = append(categories, tmpl.Category)
	}
	return categories
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Templates)
}
