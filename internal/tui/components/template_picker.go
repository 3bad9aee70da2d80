package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

// Translator renders an interface string for key.
type Translator func(key string, args ...any) string

// PickerItem is one template entry of the picker.
type PickerItem struct {
	ID          string
	Title       string
	Description string
	Category    string
}

// TemplatePicker stores state for the template list.
type TemplatePicker struct {
	Items  []PickerItem
	Index  int
	Offset int
	Height int
	Width  int
	// Active is the id of the template currently loaded in the editors.
	Active string
}

// NewTemplatePicker creates an empty picker.
func NewTemplatePicker() *TemplatePicker {
	return &TemplatePicker{Height: 10, Width: 30}
}

// SetItems replaces the list, keeping the highlighted entry when it is still present.
func (p *TemplatePicker) SetItems(items []PickerItem) {
	current := p.SelectedItem()
	p.Items = append([]PickerItem(nil), items...)
	if current != nil {
		for i, item := range p.Items {
			if item.ID == current.ID {
				p.Index = i
				p.scrollToIndex()
				return
			}
		}
	}
	p.ResetIndex()
}

// ResetIndex moves the highlight to the first entry.
func (p *TemplatePicker) ResetIndex() {
	p.Index = 0
	p.Offset = 0
	p.ClampIndex()
}

// Move shifts the highlight, wrapping at both ends.
func (p *TemplatePicker) Move(delta int) {
	if len(p.Items) == 0 {
		p.Index = 0
		return
	}
	if delta == 0 {
		return
	}
	idx := p.Index
	if idx < 0 || idx >= len(p.Items) {
		idx = 0
	}
	idx += delta
	if idx < 0 {
		idx = len(p.Items) - 1
	} else if idx >= len(p.Items) {
		idx = 0
	}
	p.Index = idx
	p.scrollToIndex()
}

// ClampIndex ensures the highlight stays in bounds.
func (p *TemplatePicker) ClampIndex() {
	if len(p.Items) == 0 {
		p.Index = 0
		p.Offset = 0
		return
	}
	p.Index = clampInt(p.Index, 0, len(p.Items)-1)
	p.scrollToIndex()
}

// SelectedItem returns the highlighted entry.
func (p *TemplatePicker) SelectedItem() *PickerItem {
	if p.Index < 0 || p.Index >= len(p.Items) {
		return nil
	}
	selected := p.Items[p.Index]
	return &selected
}

func (p *TemplatePicker) visibleItems() int {
	// Each entry takes a title line and a description line.
	return maxInt(p.Height/2, 1)
}

func (p *TemplatePicker) scrollToIndex() {
	visible := p.visibleItems()
	if p.Index < p.Offset {
		p.Offset = p.Index
	}
	if p.Index >= p.Offset+visible {
		p.Offset = p.Index - visible + 1
	}
	p.Offset = clampInt(p.Offset, 0, maxInt(len(p.Items)-visible, 0))
}

// Render renders the visible entries; focused shows the highlight marker.
func (p *TemplatePicker) Render(styleSet styles.Styles, t Translator, focused bool) []string {
	if len(p.Items) == 0 {
		return []string{styleSet.Muted.Render(t("picker.no_results"))}
	}
	width := maxInt(p.Width-2, 4)
	lines := make([]string, 0, p.Height)
	end := minInt(p.Offset+p.visibleItems(), len(p.Items))
	for idx := p.Offset; idx < end; idx++ {
		item := p.Items[idx]
		marker := "  "
		if item.ID == p.Active {
			marker = "* "
		}
		title := runewidth.Truncate(item.Title, width, "…")
		desc := runewidth.Truncate(strings.TrimSpace(item.Description), width, "…")
		if focused && idx == p.Index {
			lines = append(lines, styleSet.Focus.Render("> "+title))
		} else {
			lines = append(lines, styleSet.Text.Render(marker+title))
		}
		lines = append(lines, styleSet.Muted.Render("  "+desc))
	}
	if len(p.Items) > end-p.Offset {
		lines = append(lines, styleSet.Muted.Render(fmt.Sprintf("  %d/%d", p.Index+1, len(p.Items))))
	}
	return lines
}
