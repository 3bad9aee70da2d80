package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/highlight"
	"github.com/opencode-ai/mailassist/internal/session"
	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

// VariableForm edits the bindings of the selected template, one input per variable.
type VariableForm struct {
	Width int
	// Height bounds the rendered lines; zero renders every variable.
	Height int
	Now    func() time.Time

	fields  []session.Field
	inputs  []textinput.Model
	index   int
	offset  int
	focused bool
}

// formFieldLines is the height of one rendered variable: header, input, hints.
const formFieldLines = 3

// NewVariableForm creates an empty form.
func NewVariableForm() *VariableForm {
	return &VariableForm{Width: 40, Now: time.Now}
}

// SetFields refreshes the form from the session. Inputs are rebuilt only when
// the variable list changes; values are replaced only when they differ.
func (f *VariableForm) SetFields(fields []session.Field) {
	if !sameNames(f.fields, fields) {
		f.inputs = make([]textinput.Model, len(fields))
		for i, field := range fields {
			input := textinput.New()
			input.Prompt = ""
			input.Placeholder = field.Def.Example
			input.Width = maxInt(f.Width-4, 8)
			input.SetValue(Sanitize(field.Value))
			f.inputs[i] = input
		}
		f.index = 0
		f.offset = 0
	} else {
		for i, field := range fields {
			if f.inputs[i].Value() != field.Value {
				f.inputs[i].SetValue(Sanitize(field.Value))
			}
		}
	}
	f.fields = fields
	f.applyFocus()
}

// SetWidth resizes the form and its inputs.
func (f *VariableForm) SetWidth(width int) {
	f.Width = width
	for i := range f.inputs {
		f.inputs[i].Width = maxInt(width-4, 8)
	}
}

// SetHeight bounds the rendered lines and keeps the focused variable visible.
func (f *VariableForm) SetHeight(height int) {
	f.Height = height
	f.scrollToIndex()
}

func (f *VariableForm) visibleFields() int {
	if f.Height <= 0 {
		return len(f.fields)
	}
	return maxInt(f.Height/formFieldLines, 1)
}

func (f *VariableForm) scrollToIndex() {
	visible := f.visibleFields()
	if f.index < f.offset {
		f.offset = f.index
	}
	if f.index >= f.offset+visible {
		f.offset = f.index - visible + 1
	}
	f.offset = clampInt(f.offset, 0, maxInt(len(f.fields)-visible, 0))
}

func sameNames(a, b []session.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

// Len returns the number of variables.
func (f *VariableForm) Len() int { return len(f.fields) }

// Index returns the focused variable.
func (f *VariableForm) Index() int { return f.index }

// Focus routes keys to the focused input.
func (f *VariableForm) Focus() {
	f.focused = true
	f.applyFocus()
}

// Blur stops routing keys to the form.
func (f *VariableForm) Blur() {
	f.focused = false
	f.applyFocus()
}

// Move focuses another variable, stopping at both ends.
func (f *VariableForm) Move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.index = clampInt(f.index+delta, 0, len(f.inputs)-1)
	f.scrollToIndex()
	f.applyFocus()
}

func (f *VariableForm) applyFocus() {
	for i := range f.inputs {
		if f.focused && i == f.index {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// FieldChange reports a new value for a variable.
type FieldChange struct {
	Name  string
	Value string
}

// Update handles a message for the focused input. A change is returned when
// the value was edited or a shortcut was expanded with Enter.
func (f *VariableForm) Update(msg tea.Msg) (*FieldChange, tea.Cmd) {
	if !f.focused || len(f.inputs) == 0 {
		return nil, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyUp:
			f.Move(-1)
			return nil, nil
		case tea.KeyDown:
			f.Move(1)
			return nil, nil
		case tea.KeyEnter:
			field := f.fields[f.index]
			expanded, ok := ExpandShortcut(field.Def.Type, f.inputs[f.index].Value(), f.Now())
			if !ok {
				f.Move(1)
				return nil, nil
			}
			f.inputs[f.index].SetValue(expanded)
			f.inputs[f.index].CursorEnd()
			return &FieldChange{Name: field.Name, Value: expanded}, nil
		}
	}

	before := f.inputs[f.index].Value()
	var cmd tea.Cmd
	f.inputs[f.index], cmd = f.inputs[f.index].Update(msg)
	after := f.inputs[f.index].Value()
	if clean := Sanitize(after); clean != after {
		f.inputs[f.index].SetValue(clean)
		after = clean
	}
	if after == before {
		return nil, cmd
	}
	return &FieldChange{Name: f.fields[f.index].Name, Value: after}, cmd
}

// View renders every variable with its input, validation badge and hints.
func (f *VariableForm) View(styleSet styles.Styles, t Translator, validation func(session.Field) string) string {
	if len(f.fields) == 0 {
		return styleSet.Muted.Render(t("vars.none"))
	}
	end := minInt(f.offset+f.visibleFields(), len(f.fields))
	blocks := make([]string, 0, end-f.offset)
	for i := f.offset; i < end; i++ {
		field := f.fields[i]
		labelStyle := styleSet.Text
		if f.focused && i == f.index {
			labelStyle = styleSet.Focus
		}
		label := labelStyle.Render(field.Name)
		if !field.Registered {
			label = styleSet.Variable(highlight.ColorUnknown).Render(field.Name)
		}
		header := []string{label}
		if field.Def.Required {
			header = append(header, styleSet.Muted.Render("("+t("vars.required")+")"))
		}
		header = append(header, RenderValidationBadge(styleSet, field.Result, validation(field)))

		meta := []string{}
		if field.ShowCount {
			meta = append(meta, t("vars.chars", field.Chars))
		}
		switch field.Def.Type {
		case catalog.TypeDate:
			meta = append(meta, t("vars.hint_date"))
		case catalog.TypeTime:
			meta = append(meta, t("vars.hint_time"))
		}

		block := []string{strings.Join(header, " "), "  " + f.inputs[i].View()}
		if len(meta) > 0 {
			block = append(block, styleSet.Muted.Render("  "+strings.Join(meta, " · ")))
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, block...))
	}
	return strings.Join(blocks, "\n")
}

// ExpandShortcut rewrites date and time shortcuts into concrete values:
// "today" or "+N"/"-N" days for dates (ISO layout) and "now" for times.
func ExpandShortcut(typ catalog.VariableType, value string, now time.Time) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch typ {
	case catalog.TypeDate:
		switch trimmed {
		case "today", "aujourd'hui", "auj":
			return now.Format(time.DateOnly), true
		}
		if len(trimmed) > 1 && (trimmed[0] == '+' || trimmed[0] == '-') {
			days, err := strconv.Atoi(trimmed)
			if err != nil {
				return value, false
			}
			return now.AddDate(0, 0, days).Format(time.DateOnly), true
		}
	case catalog.TypeTime:
		switch trimmed {
		case "now", "maintenant":
			return now.Format("15:04"), true
		}
	}
	return value, false
}
