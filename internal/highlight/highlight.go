// Package highlight splits text into plain and variable segments for styled display.
package highlight

import (
	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/placeholder"
)

// Kind distinguishes plain text from variable tokens.
type Kind string

// Segment kinds.
const (
	KindPlain    Kind = "plain"
	KindVariable Kind = "variable"
)

// ColorClass selects the palette entry used to style a variable segment.
type ColorClass string

// Palette entries. ColorDefault covers registered variables whose type has no
// palette entry; ColorUnknown marks names missing from the registry.
const (
	ColorEmail   ColorClass = "email"
	ColorPhone   ColorClass = "phone"
	ColorDate    ColorClass = "date"
	ColorTime    ColorClass = "time"
	ColorNumber  ColorClass = "number"
	ColorText    ColorClass = "text"
	ColorDefault ColorClass = "default"
	ColorUnknown ColorClass = "unknown"
)

// Classes lists every palette entry.
var Classes = []ColorClass{
	ColorEmail, ColorPhone, ColorDate, ColorTime, ColorNumber, ColorText, ColorDefault, ColorUnknown,
}

// Segment is one styled run of text.
type Segment struct {
	Kind        Kind       `json:"kind"`
	Text        string     `json:"text"` // source text; the raw token for variables
	Name        string     `json:"name,omitempty"`
	DisplayText string     `json:"display_text,omitempty"`
	Color       ColorClass `json:"color,omitempty"`
}

// IsVariable reports whether the segment is a variable token.
func (s Segment) IsVariable() bool {
	return s.Kind == KindVariable
}

// TypeLookup resolves a variable name to its registered type.
// ok is false when the name is not in the registry.
type TypeLookup func(name string) (typ catalog.VariableType, ok bool)

// ClassFor picks the palette entry for name.
func ClassFor(typeOf TypeLookup, name string) ColorClass {
	if typeOf == nil {
		return ColorUnknown
	}
	typ, ok := typeOf(name)
	if !ok {
		return ColorUnknown
	}
	switch typ {
	case catalog.TypeEmail:
		return ColorEmail
	case catalog.TypePhone:
		return ColorPhone
	case catalog.TypeDate:
		return ColorDate
	case catalog.TypeTime:
		return ColorTime
	case catalog.TypeNumber:
		return ColorNumber
	case catalog.TypeText:
		return ColorText
	default:
		return ColorDefault
	}
}

// Render splits text into ordered segments. A variable segment displays its
// bound value when non-empty and its own token otherwise.
func Render(text string, bindings map[string]string, typeOf TypeLookup) []Segment {
	parts := placeholder.Split(text)
	if len(parts) == 0 {
		return nil
	}

	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if !part.IsPlaceholder() {
			segments = append(segments, Segment{Kind: KindPlain, Text: part.Text})
			continue
		}
		display := bindings[part.Name]
		if display == "" {
			display = part.Text
		}
		segments = append(segments, Segment{
			Kind:        KindVariable,
			Text:        part.Text,
			Name:        part.Name,
			DisplayText: display,
			Color:       ClassFor(typeOf, part.Name),
		})
	}
	return segments
}

// Variables returns the variable segments only.
func Variables(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.IsVariable() {
			out = append(out, seg)
		}
	}
	return out
}
