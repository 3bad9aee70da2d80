package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/opencode-ai/mailassist/internal/catalog"
	"github.com/opencode-ai/mailassist/internal/session"
	"github.com/opencode-ai/mailassist/internal/tui/styles"
	"github.com/opencode-ai/mailassist/internal/validate"
)

var fixedNow = time.Date(2026, time.March, 30, 9, 5, 0, 0, time.UTC)

func formFields() []session.Field {
	return []session.Field{
		{Name: "dueDate", Def: catalog.VariableDef{Type: catalog.TypeDate, Required: true}, Registered: true,
			Result: validate.Result{Reason: validate.ReasonRequired}},
		{Name: "note", Def: catalog.VariableDef{Type: catalog.TypeText}, Registered: true,
			Value: "hi", Chars: 2, ShowCount: true, Result: validate.Result{Valid: true}},
	}
}

func TestExpandShortcut(t *testing.T) {
	tests := []struct {
		typ   catalog.VariableType
		value string
		want  string
		ok    bool
	}{
		{catalog.TypeDate, "today", "2026-03-30", true},
		{catalog.TypeDate, " +3 ", "2026-04-02", true},
		{catalog.TypeDate, "-30", "2026-02-28", true},
		{catalog.TypeDate, "+x", "+x", false},
		{catalog.TypeDate, "2026-01-01", "2026-01-01", false},
		{catalog.TypeTime, "now", "09:05", true},
		{catalog.TypeTime, "maintenant", "09:05", true},
		{catalog.TypeText, "today", "today", false},
		{catalog.TypeNumber, "+3", "+3", false},
	}
	for _, tt := range tests {
		got, ok := ExpandShortcut(tt.typ, tt.value, fixedNow)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExpandShortcut(%s, %q) = %q, %v; want %q, %v", tt.typ, tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestVariableFormEditing(t *testing.T) {
	f := NewVariableForm()
	f.Now = func() time.Time { return fixedNow }
	f.SetFields(formFields())

	if change, _ := f.Update(runes("x")); change != nil {
		t.Fatalf("expected blurred form to ignore keys")
	}

	f.Focus()
	change, _ := f.Update(runes("+1"))
	if change == nil || change.Name != "dueDate" || change.Value != "+1" {
		t.Fatalf("unexpected change %+v", change)
	}

	change, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if change == nil || change.Value != "2026-03-31" {
		t.Fatalf("expected shortcut expansion, got %+v", change)
	}

	change, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if change != nil || f.Index() != 1 {
		t.Fatalf("expected enter on a plain value to move on, got %+v at %d", change, f.Index())
	}
	f.Move(5)
	if f.Index() != 1 {
		t.Fatalf("expected move to stop at the last field, got %d", f.Index())
	}
}

func TestVariableFormRefreshKeepsInputs(t *testing.T) {
	f := NewVariableForm()
	f.SetFields(formFields())
	f.Focus()
	f.Move(1)

	fields := formFields()
	fields[1].Value = "reset"
	f.SetFields(fields)
	if f.Index() != 1 {
		t.Fatalf("expected focus kept on refresh, got %d", f.Index())
	}
	if f.inputs[1].Value() != "reset" {
		t.Fatalf("expected refreshed value, got %q", f.inputs[1].Value())
	}

	f.SetFields(fields[:1])
	if f.Len() != 1 || f.Index() != 0 {
		t.Fatalf("expected rebuild on a new variable list")
	}
}

func TestVariableFormView(t *testing.T) {
	f := NewVariableForm()
	styleSet := styles.DefaultStyles()
	if out := f.View(styleSet, echo, func(session.Field) string { return "" }); !strings.Contains(out, "vars.none") {
		t.Fatalf("expected empty message, got %q", out)
	}

	f.SetFields(formFields())
	out := ansi.Strip(f.View(styleSet, echo, func(field session.Field) string {
		return "msg:" + string(field.Result.Reason)
	}))
	for _, want := range []string{"dueDate", "(vars.required)", "msg:REQUIRED", "vars.hint_date", "vars.chars:2", "✓"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestVariableFormWindow(t *testing.T) {
	f := NewVariableForm()
	fields := append(formFields(), session.Field{Name: "third", Result: validate.Result{Valid: true}})
	f.SetFields(fields)
	f.SetHeight(formFieldLines * 2)
	f.Focus()
	f.Move(2)

	out := ansi.Strip(f.View(styles.DefaultStyles(), echo, func(session.Field) string { return "" }))
	if strings.Contains(out, "dueDate") || !strings.Contains(out, "third") {
		t.Fatalf("expected window to follow focus:\n%s", out)
	}
}
