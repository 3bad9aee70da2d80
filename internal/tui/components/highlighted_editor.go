// Package components provides reusable TUI components.
package components

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/opencode-ai/mailassist/internal/highlight"
	"github.com/opencode-ai/mailassist/internal/tui/styles"
)

// ScrollOffset is a scroll position in rows and display cells.
type ScrollOffset struct {
	Top  int
	Left int
}

// HighlightedEditor is an editable text field drawn with the highlight segments
// of its own content. The input surface owns the buffer, caret and scroll
// offsets; the display surface draws the same cells with the offsets copied
// from the input surface after every scroll, so both stay aligned.
type HighlightedEditor struct {
	Width       int
	Height      int
	Multiline   bool
	Placeholder string
	// Highlighter splits the buffer into segments; nil draws plain text.
	Highlighter func(text string) []highlight.Segment

	buffer  []rune
	cursor  int
	focused bool
	goalCol int

	input   ScrollOffset
	display ScrollOffset
}

// NewHighlightedEditor creates an editor; single-line editors ignore Enter.
func NewHighlightedEditor(multiline bool) *HighlightedEditor {
	height := 1
	if multiline {
		height = 8
	}
	return &HighlightedEditor{Width: 40, Height: height, Multiline: multiline, goalCol: -1}
}

// SetValue replaces the content, keeping the caret where it still fits.
func (e *HighlightedEditor) SetValue(text string) {
	text = Sanitize(text)
	if !e.Multiline {
		text = strings.ReplaceAll(text, "\n", " ")
	}
	if text == string(e.buffer) {
		return
	}
	e.buffer = []rune(text)
	if e.cursor > len(e.buffer) {
		e.cursor = len(e.buffer)
	}
	e.goalCol = -1
	e.ensureVisible()
}

// Value returns the content.
func (e *HighlightedEditor) Value() string {
	return string(e.buffer)
}

// SetSize resizes both surfaces.
func (e *HighlightedEditor) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if !e.Multiline {
		height = 1
	}
	e.Width = width
	e.Height = height
	e.ensureVisible()
}

// Focus shows the caret and routes keys to the editor.
func (e *HighlightedEditor) Focus() { e.focused = true }

// Blur hides the caret.
func (e *HighlightedEditor) Blur() { e.focused = false }

// Focused reports whether the editor receives keys.
func (e *HighlightedEditor) Focused() bool { return e.focused }

// Cursor returns the caret as a rune index.
func (e *HighlightedEditor) Cursor() int { return e.cursor }

// SetCursor moves the caret to rune index i.
func (e *HighlightedEditor) SetCursor(i int) {
	e.cursor = clampInt(i, 0, len(e.buffer))
	e.goalCol = -1
	e.ensureVisible()
}

// CursorPosition returns the caret row and display column.
func (e *HighlightedEditor) CursorPosition() (row, col int) {
	for _, r := range e.buffer[:e.cursor] {
		if r == '\n' {
			row++
			col = 0
			continue
		}
		col += cellWidth(r)
	}
	return row, col
}

// InputScroll returns the scroll offsets of the input surface.
func (e *HighlightedEditor) InputScroll() ScrollOffset { return e.input }

// DisplayScroll returns the scroll offsets the display surface renders with.
func (e *HighlightedEditor) DisplayScroll() ScrollOffset { return e.display }

// ScrollBy scrolls the input surface without moving the caret.
func (e *HighlightedEditor) ScrollBy(rows, cols int) {
	e.input.Top += rows
	e.input.Left += cols
	e.clampScroll()
	e.syncScroll()
}

// Update handles keys and mouse wheel events and reports whether the content changed.
func (e *HighlightedEditor) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			e.ScrollBy(-1, 0)
		case tea.MouseButtonWheelDown:
			e.ScrollBy(1, 0)
		case tea.MouseButtonWheelLeft:
			e.ScrollBy(0, -2)
		case tea.MouseButtonWheelRight:
			e.ScrollBy(0, 2)
		}
		return false
	case tea.KeyMsg:
		if !e.focused {
			return false
		}
		return e.handleKey(msg)
	}
	return false
}

func (e *HighlightedEditor) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		e.insert(msg.Runes)
		return true
	case tea.KeySpace:
		e.insert([]rune{' '})
		return true
	case tea.KeyEnter:
		if !e.Multiline {
			return false
		}
		e.insert([]rune{'\n'})
		return true
	case tea.KeyBackspace:
		if e.cursor == 0 {
			return false
		}
		e.buffer = append(e.buffer[:e.cursor-1], e.buffer[e.cursor:]...)
		e.cursor--
		e.afterMove()
		return true
	case tea.KeyDelete:
		if e.cursor >= len(e.buffer) {
			return false
		}
		e.buffer = append(e.buffer[:e.cursor], e.buffer[e.cursor+1:]...)
		e.afterMove()
		return true
	case tea.KeyLeft:
		if e.cursor > 0 {
			e.cursor--
		}
		e.afterMove()
	case tea.KeyRight:
		if e.cursor < len(e.buffer) {
			e.cursor++
		}
		e.afterMove()
	case tea.KeyHome, tea.KeyCtrlA:
		e.cursor = e.lineStart(e.cursor)
		e.afterMove()
	case tea.KeyEnd, tea.KeyCtrlE:
		e.cursor = e.lineEnd(e.cursor)
		e.afterMove()
	case tea.KeyUp:
		e.moveRows(-1)
	case tea.KeyDown:
		e.moveRows(1)
	case tea.KeyPgUp:
		e.moveRows(-e.Height)
	case tea.KeyPgDown:
		e.moveRows(e.Height)
	}
	return false
}

func (e *HighlightedEditor) insert(runes []rune) {
	clean := []rune(Sanitize(string(runes)))
	if !e.Multiline {
		for i, r := range clean {
			if r == '\n' {
				clean[i] = ' '
			}
		}
	}
	if len(clean) == 0 {
		return
	}
	next := make([]rune, 0, len(e.buffer)+len(clean))
	next = append(next, e.buffer[:e.cursor]...)
	next = append(next, clean...)
	next = append(next, e.buffer[e.cursor:]...)
	e.buffer = next
	e.cursor += len(clean)
	e.afterMove()
}

func (e *HighlightedEditor) afterMove() {
	e.goalCol = -1
	e.ensureVisible()
}

func (e *HighlightedEditor) moveRows(delta int) {
	row, col := e.CursorPosition()
	if e.goalCol < 0 {
		e.goalCol = col
	}
	lines := e.lines()
	target := clampInt(row+delta, 0, len(lines)-1)

	index := 0
	for i := 0; i < target; i++ {
		index += len(lines[i]) + 1
	}
	width := 0
	for _, r := range lines[target] {
		w := cellWidth(r)
		if width+w > e.goalCol {
			break
		}
		width += w
		index++
	}
	e.cursor = index
	e.ensureVisible()
}

func (e *HighlightedEditor) lineStart(i int) int {
	for i > 0 && e.buffer[i-1] != '\n' {
		i--
	}
	return i
}

func (e *HighlightedEditor) lineEnd(i int) int {
	for i < len(e.buffer) && e.buffer[i] != '\n' {
		i++
	}
	return i
}

func (e *HighlightedEditor) lines() [][]rune {
	var lines [][]rune
	start := 0
	for i, r := range e.buffer {
		if r == '\n' {
			lines = append(lines, e.buffer[start:i])
			start = i + 1
		}
	}
	return append(lines, e.buffer[start:])
}

func (e *HighlightedEditor) ensureVisible() {
	row, col := e.CursorPosition()
	if row < e.input.Top {
		e.input.Top = row
	}
	if row >= e.input.Top+e.Height {
		e.input.Top = row - e.Height + 1
	}
	if col < e.input.Left {
		e.input.Left = col
	}
	if col >= e.input.Left+e.Width {
		e.input.Left = col - e.Width + 1
	}
	e.clampScroll()
	e.syncScroll()
}

func (e *HighlightedEditor) clampScroll() {
	lines := e.lines()
	maxTop := len(lines) - e.Height
	widest := 0
	for _, line := range lines {
		if w := runesWidth(line); w > widest {
			widest = w
		}
	}
	// One extra cell keeps room for the caret after the last character.
	maxLeft := widest + 1 - e.Width
	e.input.Top = clampInt(e.input.Top, 0, maxInt(maxTop, 0))
	e.input.Left = clampInt(e.input.Left, 0, maxInt(maxLeft, 0))
}

func (e *HighlightedEditor) syncScroll() {
	e.display = e.input
}

type editorCell struct {
	text  string
	width int
	style lipgloss.Style
}

// View renders the display surface: highlighted content, the caret when
// focused, clipped to the shared scroll window and padded to Width x Height.
func (e *HighlightedEditor) View(styleSet styles.Styles) string {
	if len(e.buffer) == 0 && !e.focused && e.Placeholder != "" {
		lines := make([]string, e.Height)
		lines[0] = styleSet.Muted.Render(padCells(truncateCells(e.Placeholder, e.Width), e.Width))
		for i := 1; i < e.Height; i++ {
			lines[i] = strings.Repeat(" ", e.Width)
		}
		return strings.Join(lines, "\n")
	}

	rows := e.layout(styleSet)
	out := make([]string, 0, e.Height)
	for r := e.display.Top; r < e.display.Top+e.Height; r++ {
		if r < len(rows) {
			out = append(out, renderRow(rows[r], e.display.Left, e.Width))
		} else {
			out = append(out, strings.Repeat(" ", e.Width))
		}
	}
	return strings.Join(out, "\n")
}

func (e *HighlightedEditor) layout(styleSet styles.Styles) [][]editorCell {
	text := string(e.buffer)
	var segments []highlight.Segment
	if e.Highlighter != nil {
		segments = e.Highlighter(text)
	} else if text != "" {
		segments = []highlight.Segment{{Kind: highlight.KindPlain, Text: text}}
	}

	rows := [][]editorCell{nil}
	index := 0
	caret := func(row int) {
		rows[row] = append(rows[row], editorCell{text: " ", width: 1, style: styleSet.Caret})
	}
	for _, seg := range segments {
		style := styleSet.Text
		if seg.IsVariable() {
			style = styleSet.Variable(seg.Color)
		}
		for _, r := range seg.Text {
			row := len(rows) - 1
			atCaret := e.focused && index == e.cursor
			index++
			if r == '\n' {
				if atCaret {
					caret(row)
				}
				rows = append(rows, nil)
				continue
			}
			cellStyle := style
			if atCaret {
				cellStyle = styleSet.Caret.Inherit(style)
			}
			w := cellWidth(r)
			glyph := string(r)
			if r == '\t' {
				glyph = " "
			}
			if w == 0 && len(rows[row]) > 0 {
				// A combining mark joins the previous cell; the caret stays visible on it.
				prev := &rows[row][len(rows[row])-1]
				prev.text += glyph
				if atCaret {
					prev.style = styleSet.Caret.Inherit(prev.style)
				}
				continue
			}
			rows[row] = append(rows[row], editorCell{text: glyph, width: w, style: cellStyle})
		}
	}
	if e.focused && e.cursor == len(e.buffer) {
		caret(len(rows) - 1)
	}
	return rows
}

func renderRow(cells []editorCell, left, width int) string {
	var b strings.Builder
	col := 0
	used := 0
	for _, cell := range cells {
		start := col
		col += cell.width
		if col <= left {
			continue
		}
		if start < left {
			// A wide glyph cut by the left edge leaves blank cells.
			blank := minInt(col-left, width-used)
			b.WriteString(strings.Repeat(" ", blank))
			used += blank
			continue
		}
		if used+cell.width > width {
			break
		}
		b.WriteString(cell.style.Render(cell.text))
		used += cell.width
	}
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}

// Sanitize makes text safe to draw: escape sequences are removed, CRLF becomes
// LF, and other control characters except tab and newline become U+FFFD.
func Sanitize(text string) string {
	text = ansi.Strip(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return '�'
		}
		return r
	}, text)
}

func cellWidth(r rune) int {
	if r == '\t' {
		return 1
	}
	return runewidth.RuneWidth(r)
}

func runesWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		w += cellWidth(r)
	}
	return w
}

func truncateCells(s string, width int) string {
	return runewidth.Truncate(s, width, "")
}

func padCells(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
