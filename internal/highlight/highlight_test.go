package highlight

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/mailassist/internal/catalog"
)

func registry(types map[string]catalog.VariableType) TypeLookup {
	return func(name string) (catalog.VariableType, bool) {
		typ, ok := types[name]
		return typ, ok
	}
}

func TestRender(t *testing.T) {
	typeOf := registry(map[string]catalog.VariableType{
		"email": catalog.TypeEmail,
		"count": catalog.TypeNumber,
		"odd":   catalog.VariableType("color"),
	})

	segments := Render("Mail <<email>> x<<count>>, <<odd>> <<ghost>>!", map[string]string{
		"email": "a@b.co",
		"count": "",
	}, typeOf)

	require.Len(t, segments, 9)
	assert.Equal(t, Segment{Kind: KindPlain, Text: "Mail "}, segments[0])
	assert.Equal(t, Segment{
		Kind: KindVariable, Text: "<<email>>", Name: "email", DisplayText: "a@b.co", Color: ColorEmail,
	}, segments[1])
	assert.Equal(t, "<<count>>", segments[3].DisplayText, "empty binding shows the token")
	assert.Equal(t, ColorNumber, segments[3].Color)
	assert.Equal(t, ColorDefault, segments[5].Color, "registered type without palette entry")
	assert.Equal(t, ColorUnknown, segments[7].Color, "unregistered name")
	assert.Equal(t, "<<ghost>>", segments[7].DisplayText)
	assert.Equal(t, Segment{Kind: KindPlain, Text: "!"}, segments[8])
	assert.Len(t, Variables(segments), 4)
}

func TestRenderEmpty(t *testing.T) {
	assert.Nil(t, Render("", nil, nil))
}

func TestClassForDistinguishesRegistryStates(t *testing.T) {
	typeOf := registry(map[string]catalog.VariableType{
		"typed":   catalog.TypeDate,
		"generic": catalog.VariableType(""),
	})

	typed := ClassFor(typeOf, "typed")
	generic := ClassFor(typeOf, "generic")
	missing := ClassFor(typeOf, "missing")

	assert.Equal(t, ColorDate, typed)
	assert.Equal(t, ColorDefault, generic)
	assert.Equal(t, ColorUnknown, missing)
	assert.Equal(t, ColorUnknown, ClassFor(nil, "typed"))
}

func TestHTMLEscapesContent(t *testing.T) {
	segments := Render(`<b>"hi"</b> & <<name>>`, map[string]string{"name": `<script>alert(1)</script>`}, registry(map[string]catalog.VariableType{
		"name": catalog.TypeText,
	}))

	out := HTML(segments, false)
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;b&gt;&#34;hi&#34;&lt;/b&gt; &amp; ")
	assert.Contains(t, out, `<span class="variable variable-text" title="Variable: name">&lt;script&gt;`)

	rawOut := HTML(segments, true)
	assert.Contains(t, rawOut, "&lt;&lt;name&gt;&gt;</span>")
}

func TestRenderProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unregistered names always render as unknown", prop.ForAll(
		func(names []string) bool {
			var b strings.Builder
			for _, name := range names {
				b.WriteString("<<" + name + ">> ")
			}
			for _, seg := range Variables(Render(b.String(), nil, registry(nil))) {
				if seg.Color != ColorUnknown {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("segment source text reassembles the input", prop.ForAll(
		func(text string) bool {
			var b strings.Builder
			for _, seg := range Render(text, map[string]string{"x": "y"}, nil) {
				b.WriteString(seg.Text)
			}
			return b.String() == text
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
