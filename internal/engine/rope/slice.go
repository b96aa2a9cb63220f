package rope

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/textcore/internal/engine/btree"
)

// Slice is a read-only view of a byte range of a rope. Creating a slice
// copies no text.
type Slice struct {
	s btree.Slice[Chunk, TextSummary]
}

// Len returns the length of the slice in bytes.
func (s Slice) Len() int {
	return s.s.Len()
}

// IsEmpty reports whether the slice has length zero.
func (s Slice) IsEmpty() bool {
	return s.s.IsEmpty()
}

// Start returns the offset of the slice in its rope.
func (s Slice) Start() int {
	return s.s.Start()
}

// Summary returns the metrics of the text in the slice.
func (s Slice) Summary() TextSummary {
	return s.s.Info()
}

// CharCount returns the number of characters in the slice.
func (s Slice) CharCount() int {
	return s.Summary().Chars
}

// LineCount returns the number of lines the slice touches.
func (s Slice) LineCount() int {
	return s.Summary().Lines + 1
}

// GraphemeCount returns the number of user-perceived characters.
func (s Slice) GraphemeCount() int {
	return uniseg.GraphemeClusterCount(s.String())
}

// Slice returns the view of [start, end) relative to s.
func (s Slice) Slice(start, end int) Slice {
	return Slice{s: s.s.Subslice(start, end)}
}

// String materializes the text of the slice.
func (s Slice) String() string {
	var sb strings.Builder
	sb.Grow(s.Len())
	it := s.Chunks()
	for it.Next() {
		sb.WriteString(it.Chunk())
	}
	return sb.String()
}

// CursorFront returns a cursor at the start of the slice.
func (s Slice) CursorFront() *Cursor {
	return newCursor(s.s.CursorFront(), 0)
}

// CursorBack returns a cursor at the end of the slice.
func (s Slice) CursorBack() *Cursor {
	return newCursor(s.s.CursorBack(), s.Len())
}

// CursorAt returns a cursor at pos, relative to the start of the slice.
// It panics if pos is out of range.
func (s Slice) CursorAt(pos int) *Cursor {
	return newCursor(s.s.CursorAt(pos), pos)
}

// Chunks returns an iterator over the text of the slice, chunk by chunk.
func (s Slice) Chunks() *ChunkIterator {
	return newChunkIterator(s.s)
}

// Bytes returns an iterator over the bytes of the slice.
func (s Slice) Bytes() *ByteIterator {
	return &ByteIterator{chunks: s.Chunks(), index: -1}
}

// Runes returns an iterator over the characters of the slice.
func (s Slice) Runes() *RuneIterator {
	return &RuneIterator{cursor: s.CursorFront()}
}

// RunesReverse returns an iterator over the characters of the slice from
// the end.
func (s Slice) RunesReverse() *ReverseRuneIterator {
	return &ReverseRuneIterator{cursor: s.CursorBack()}
}

// whole returns a slice covering r.
func (r Rope) whole() Slice {
	return r.Slice(0, r.Len())
}

// CursorFront returns a cursor at the start of r.
func (r Rope) CursorFront() *Cursor {
	return r.whole().CursorFront()
}

// CursorBack returns a cursor at the end of r.
func (r Rope) CursorBack() *Cursor {
	return r.whole().CursorBack()
}

// CursorAt returns a cursor at offset.
func (r Rope) CursorAt(offset int) *Cursor {
	return r.whole().CursorAt(offset)
}

// Chunks returns an iterator over the chunks of r.
func (r Rope) Chunks() *ChunkIterator {
	return r.whole().Chunks()
}

// Bytes returns an iterator over the bytes of r.
func (r Rope) Bytes() *ByteIterator {
	return r.whole().Bytes()
}

// Runes returns an iterator over the characters of r.
func (r Rope) Runes() *RuneIterator {
	return r.whole().Runes()
}

// RunesReverse returns an iterator over the characters of r from the end.
func (r Rope) RunesReverse() *ReverseRuneIterator {
	return r.whole().RunesReverse()
}
