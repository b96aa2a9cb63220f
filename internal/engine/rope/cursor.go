package rope

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/textcore/internal/engine/btree"
)

// Cursor is a byte position in a rope or slice that moves by bytes,
// characters, grapheme clusters, chunks, or lines.
//
// Moving to an adjacent position is amortized O(1). Positions are
// relative to the start of the slice the cursor was created from. A
// cursor never rests at the end of a chunk other than the last one.
//
// Moving past the front or back panics; check IsAtFront and IsAtBack
// first. Byte moves may leave the cursor inside a character, character
// moves started on a boundary always end on one.
type Cursor struct {
	chunks *btree.Cursor[Chunk, TextSummary]
	chunk  string // visible part of the current chunk
	base   int    // position of chunk[0]
	index  int
}

func newCursor(chunks *btree.Cursor[Chunk, TextSummary], pos int) *Cursor {
	c := &Cursor{chunks: chunks}
	c.load()
	c.index = pos - c.base
	c.settle()
	return c
}

func (c *Cursor) load() {
	lo, hi := c.chunks.Range()
	c.chunk = c.chunks.Leaf().data[lo:hi]
	c.base = c.chunks.Position()
}

func (c *Cursor) settle() {
	for c.index == len(c.chunk) && !c.chunks.IsAtBack() {
		c.chunks.MoveNext()
		c.load()
		c.index = 0
	}
}

// Clone returns an independent copy of c.
func (c *Cursor) Clone() *Cursor {
	out := *c
	out.chunks = c.chunks.Clone()
	return &out
}

// Slice returns the slice the cursor moves over.
func (c *Cursor) Slice() Slice {
	return Slice{s: c.chunks.Slice()}
}

// BytePosition returns the current position.
func (c *Cursor) BytePosition() int {
	return c.base + c.index
}

// Point returns the line and byte column of the current position.
func (c *Cursor) Point() Point {
	info := c.chunks.Slice().Subslice(0, c.BytePosition()).Info()
	return Point{Line: info.Lines, Column: info.LastLineLen}
}

// IsAtFront reports whether the cursor is at the start.
func (c *Cursor) IsAtFront() bool {
	return c.index == 0 && c.chunks.IsAtFront()
}

// IsAtBack reports whether the cursor is at the end.
func (c *Cursor) IsAtBack() bool {
	return c.index == len(c.chunk) && c.chunks.IsAtBack()
}

// IsAtCharBoundary reports whether the cursor is between two characters.
func (c *Cursor) IsAtCharBoundary() bool {
	return c.index == len(c.chunk) || isCharStart(c.chunk[c.index])
}

// CurrentChunk returns the visible text of the current chunk and the
// cursor's index in it.
func (c *Cursor) CurrentChunk() (string, int) {
	return c.chunk, c.index
}

// CurrentByte returns the byte after the cursor. It panics at the back.
func (c *Cursor) CurrentByte() byte {
	if c.IsAtBack() {
		panic("rope: no byte at the back of the cursor")
	}
	return c.chunk[c.index]
}

// CurrentRune decodes the character after the cursor and returns it with
// its width in bytes. It panics at the back.
func (c *Cursor) CurrentRune() (rune, int) {
	if c.IsAtBack() {
		panic("rope: no character at the back of the cursor")
	}
	if rest := c.chunk[c.index:]; utf8.FullRuneInString(rest) {
		return utf8.DecodeRuneInString(rest)
	}
	var buf [utf8.UTFMax]byte
	n := 0
	p := c.Clone()
	for n < len(buf) && !p.IsAtBack() {
		buf[n] = p.CurrentByte()
		n++
		p.MoveNextByte()
	}
	return utf8.DecodeRune(buf[:n])
}

// MoveNextByte moves forward one byte.
func (c *Cursor) MoveNextByte() {
	if c.IsAtBack() {
		panic("rope: cursor moved past the back")
	}
	c.index++
	c.settle()
}

// MovePrevByte moves back one byte.
func (c *Cursor) MovePrevByte() {
	if c.IsAtFront() {
		panic("rope: cursor moved past the front")
	}
	if c.index == 0 {
		c.chunks.MovePrev()
		c.load()
		c.index = len(c.chunk)
	}
	c.index--
}

// MoveNextChar moves forward over one character, whose width is read
// from its leading byte.
func (c *Cursor) MoveNextChar() {
	if c.IsAtBack() {
		panic("rope: cursor moved past the back")
	}
	w := utf8Width(c.chunk[c.index])
	if c.index+w < len(c.chunk) {
		c.index += w
		return
	}
	for ; w > 0 && !c.IsAtBack(); w-- {
		c.MoveNextByte()
	}
}

// MovePrevChar moves back to the start of the previous character.
func (c *Cursor) MovePrevChar() {
	c.MovePrevByte()
	for !c.IsAtCharBoundary() && !c.IsAtFront() {
		c.MovePrevByte()
	}
}

// MoveNextChunk moves to the start of the next chunk. At the last chunk
// it moves to the back and returns false.
func (c *Cursor) MoveNextChunk() bool {
	if c.chunks.IsAtBack() {
		c.index = len(c.chunk)
		return false
	}
	c.chunks.MoveNext()
	c.load()
	c.index = 0
	return true
}

// MovePrevChunk moves to the start of the previous chunk. At the first
// chunk it moves to the front and returns false.
func (c *Cursor) MovePrevChunk() bool {
	if c.chunks.IsAtFront() {
		c.index = 0
		return false
	}
	c.chunks.MovePrev()
	c.load()
	c.index = 0
	return true
}

// MoveTo seeks to pos. It panics if pos is out of range.
func (c *Cursor) MoveTo(pos int) {
	*c = *newCursor(c.chunks.Slice().CursorAt(pos), pos)
}

// SeekLine moves to the start of line, counted from the start of the
// slice. Lines past the last one resolve to the last line.
func (c *Cursor) SeekLine(line int) {
	line = max(0, min(line, c.chunks.Slice().Info().Lines))
	cur := c.Point().Line
	if line > cur {
		for cur < line {
			i := strings.IndexByte(c.chunk[c.index:], '\n')
			if i < 0 {
				c.chunks.MoveNext()
				c.load()
				c.index = 0
				continue
			}
			c.index += i + 1
			cur++
		}
		c.settle()
		return
	}
	need := cur - line + 1
	for {
		if i := strings.LastIndexByte(c.chunk[:c.index], '\n'); i >= 0 {
			if need--; need == 0 {
				c.index = i + 1
				c.settle()
				return
			}
			c.index = i
			continue
		}
		if c.chunks.IsAtFront() {
			c.index = 0
			return
		}
		c.chunks.MovePrev()
		c.load()
		c.index = len(c.chunk)
	}
}

// graphemeWindow is the number of bytes examined per attempt when looking
// for a grapheme cluster boundary.
const graphemeWindow = 32

// MoveNextGrapheme moves forward over one grapheme cluster.
func (c *Cursor) MoveNextGrapheme() {
	if c.IsAtBack() {
		panic("rope: cursor moved past the back")
	}
	s := c.Slice()
	pos := c.BytePosition()
	for window := graphemeWindow; ; window *= 2 {
		end := min(pos+window, s.Len())
		text := s.Slice(pos, end).String()
		g := uniseg.NewGraphemes(text)
		g.Next()
		_, to := g.Positions()
		if to < len(text) || end == s.Len() {
			c.advance(to)
			return
		}
	}
}

// MovePrevGrapheme moves back to the start of the previous grapheme
// cluster.
func (c *Cursor) MovePrevGrapheme() {
	if c.IsAtFront() {
		panic("rope: cursor moved past the front")
	}
	s := c.Slice()
	pos := c.BytePosition()
	for window := graphemeWindow; ; window *= 2 {
		start := max(pos-window, 0)
		text := s.Slice(start, pos).String()
		skip := 0
		for skip < len(text) && !isCharStart(text[skip]) {
			skip++
		}
		last := -1
		g := uniseg.NewGraphemes(text[skip:])
		for g.Next() {
			last, _ = g.Positions()
		}
		if last < 0 && start == 0 {
			c.retreat(len(text))
			return
		}
		if last > 0 || start == 0 {
			c.retreat(len(text) - skip - last)
			return
		}
	}
}

func (c *Cursor) advance(n int) {
	if c.index+n < len(c.chunk) {
		c.index += n
		return
	}
	for ; n > 0; n-- {
		c.MoveNextByte()
	}
}

func (c *Cursor) retreat(n int) {
	if n <= c.index {
		c.index -= n
		return
	}
	for ; n > 0; n-- {
		c.MovePrevByte()
	}
}
