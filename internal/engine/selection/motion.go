package selection

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/textcore/internal/engine/rope"
)

// DefaultTabWidth is the tab stop interval used when none is configured.
const DefaultTabWidth = 4

// Mover computes cursor motions over a rope. Horizontal motion steps over
// whole grapheme clusters; vertical motion keeps a display column measured
// in terminal cells, with tabs advancing to the next tab stop.
type Mover struct {
	text     rope.Rope
	tabWidth int
}

// NewMover returns a Mover over text. A tabWidth below 1 uses
// DefaultTabWidth.
func NewMover(text rope.Rope, tabWidth int) Mover {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return Mover{text: text, tabWidth: tabWidth}
}

// Left moves the cursor one grapheme cluster back. Without extend, a
// non-empty selection collapses to its start instead.
func (m Mover) Left(s Sel, extend bool) Sel {
	if !extend && !s.IsEmpty() {
		return Point(s.Start())
	}
	pos := m.text.ClampToCharBoundary(s.Cursor)
	if pos > 0 {
		c := m.text.CursorAt(pos)
		c.MovePrevGrapheme()
		pos = c.BytePosition()
	}
	return s.MoveTo(pos, extend)
}

// Right moves the cursor one grapheme cluster forward. Without extend, a
// non-empty selection collapses to its end instead.
func (m Mover) Right(s Sel, extend bool) Sel {
	if !extend && !s.IsEmpty() {
		return Point(s.End())
	}
	pos := m.text.ClampToCharBoundary(s.Cursor)
	if pos < m.text.Len() {
		c := m.text.CursorAt(pos)
		c.MoveNextGrapheme()
		pos = c.BytePosition()
	}
	return s.MoveTo(pos, extend)
}

// Up moves the cursor to the previous line at the remembered display
// column. On the first line it moves to the start of the document.
func (m Mover) Up(s Sel, extend bool) Sel {
	return m.vertical(s, -1, extend)
}

// Down moves the cursor to the next line at the remembered display column.
// On the last line it moves to the end of the document.
func (m Mover) Down(s Sel, extend bool) Sel {
	return m.vertical(s, 1, extend)
}

func (m Mover) vertical(s Sel, delta int, extend bool) Sel {
	pos := m.text.ClampToCharBoundary(s.Cursor)
	p := m.text.OffsetToPoint(pos)
	goal := s.Column
	if goal == NoColumn {
		goal = m.DisplayColumn(pos)
	}
	line := p.Line + delta
	switch {
	case line < 0:
		pos = 0
	case line >= m.text.LineCount():
		pos = m.text.Len()
	default:
		start := m.text.LineStartOffset(line)
		pos = start + offsetAtColumn(m.text.LineText(line), goal, m.tabWidth)
	}
	return s.MoveTo(pos, extend).WithColumn(goal)
}

// LineStart moves the cursor to the start of its line.
func (m Mover) LineStart(s Sel, extend bool) Sel {
	line := m.text.OffsetToPoint(m.text.ClampToCharBoundary(s.Cursor)).Line
	return s.MoveTo(m.text.LineStartOffset(line), extend)
}

// LineEnd moves the cursor to the end of its line, before the newline.
func (m Mover) LineEnd(s Sel, extend bool) Sel {
	line := m.text.OffsetToPoint(m.text.ClampToCharBoundary(s.Cursor)).Line
	return s.MoveTo(m.text.LineEndOffset(line), extend)
}

// DocStart moves the cursor to the start of the text.
func (m Mover) DocStart(s Sel, extend bool) Sel {
	return s.MoveTo(0, extend)
}

// DocEnd moves the cursor to the end of the text.
func (m Mover) DocEnd(s Sel, extend bool) Sel {
	return s.MoveTo(m.text.Len(), extend)
}

// SelectAll returns a selection covering the whole text with the cursor at
// the end.
func (m Mover) SelectAll() Sel {
	return New(0, m.text.Len())
}

// DisplayColumn returns the terminal cell column of pos within its line.
func (m Mover) DisplayColumn(pos int) int {
	p := m.text.OffsetToPoint(pos)
	start := m.text.LineStartOffset(p.Line)
	return displayWidth(m.text.Text(start, pos), m.tabWidth)
}

func displayWidth(text string, tabWidth int) int {
	col := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		col += cellWidth(g.Str(), col, tabWidth)
	}
	return col
}

// offsetAtColumn returns the byte offset in line of the grapheme cluster
// covering display column goal. A goal inside a wide cluster lands before it.
func offsetAtColumn(line string, goal, tabWidth int) int {
	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		next := col + cellWidth(g.Str(), col, tabWidth)
		if next > goal {
			start, _ := g.Positions()
			return start
		}
		col = next
	}
	return len(line)
}

func cellWidth(cluster string, col, tabWidth int) int {
	if cluster == "\t" {
		return tabWidth - col%tabWidth
	}
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = max(uniseg.StringWidth(cluster), 0)
	}
	return w
}
