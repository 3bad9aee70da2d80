package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

func pickerItems(ids ...string) []PickerItem {
	items := make([]PickerItem, len(ids))
	for i, id := range ids {
		items[i] = PickerItem{ID: id, Title: strings.ToUpper(id), Description: id + " description"}
	}
	return items
}

func TestTemplatePickerMoveWraps(t *testing.T) {
	p := NewTemplatePicker()
	p.SetItems(pickerItems("a", "b", "c"))

	p.Move(-1)
	if p.SelectedItem().ID != "c" {
		t.Fatalf("expected wrap to last, got %s", p.SelectedItem().ID)
	}
	p.Move(1)
	if p.SelectedItem().ID != "a" {
		t.Fatalf("expected wrap to first, got %s", p.SelectedItem().ID)
	}
}

func TestTemplatePickerKeepsSelection(t *testing.T) {
	p := NewTemplatePicker()
	p.SetItems(pickerItems("a", "b", "c"))
	p.Move(1)

	p.SetItems(pickerItems("b", "c"))
	if p.Index != 0 || p.SelectedItem().ID != "b" {
		t.Fatalf("expected b to stay highlighted, got index %d", p.Index)
	}

	p.SetItems(pickerItems("x"))
	if p.SelectedItem().ID != "x" {
		t.Fatalf("expected reset to first entry")
	}

	p.SetItems(nil)
	if p.SelectedItem() != nil {
		t.Fatalf("expected no selection on empty list")
	}
}

func TestTemplatePickerScrollWindow(t *testing.T) {
	p := NewTemplatePicker()
	p.Height = 4
	p.SetItems(pickerItems("a", "b", "c", "d"))
	p.Move(3)

	if p.Offset != 2 {
		t.Fatalf("expected offset 2, got %d", p.Offset)
	}
	out := ansi.Strip(strings.Join(p.Render(styles.DefaultStyles(), echo, true), "\n"))
	if !strings.Contains(out, "> D") || strings.Contains(out, "A") {
		t.Fatalf("unexpected window:\n%s", out)
	}
	if !strings.Contains(out, "4/4") {
		t.Fatalf("expected position counter:\n%s", out)
	}
}

func TestTemplatePickerRender(t *testing.T) {
	p := NewTemplatePicker()
	if out := p.Render(styles.DefaultStyles(), echo, true); !strings.Contains(out[0], "picker.no_results") {
		t.Fatalf("expected no-results line, got %q", out)
	}

	p.SetItems(pickerItems("a", "b"))
	p.Active = "b"
	out := ansi.Strip(strings.Join(p.Render(styles.DefaultStyles(), echo, false), "\n"))
	if strings.Contains(out, ">") {
		t.Fatalf("expected no focus marker when blurred:\n%s", out)
	}
	if !strings.Contains(out, "* B") {
		t.Fatalf("expected active marker:\n%s", out)
	}
}
