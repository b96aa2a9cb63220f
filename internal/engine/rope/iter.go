package rope

import "github.com/dshills/textcore/internal/engine/btree"

// ChunkIterator walks the text of a rope or slice chunk by chunk.
//
//	it := r.Chunks()
//	for it.Next() {
//		process(it.Chunk())
//	}
type ChunkIterator struct {
	cursor  *btree.Cursor[Chunk, TextSummary]
	chunk   string
	offset  int
	started bool
	done    bool
}

func newChunkIterator(s btree.Slice[Chunk, TextSummary]) *ChunkIterator {
	if s.IsEmpty() {
		return &ChunkIterator{done: true}
	}
	return &ChunkIterator{cursor: s.CursorFront()}
}

// Next advances to the next chunk and reports whether there is one.
func (it *ChunkIterator) Next() bool {
	if it.done {
		return false
	}
	if it.started {
		if it.cursor.IsAtBack() {
			it.done = true
			it.chunk = ""
			return false
		}
		it.offset += len(it.chunk)
		it.cursor.MoveNext()
	}
	it.started = true
	lo, hi := it.cursor.Range()
	it.chunk = it.cursor.Leaf().data[lo:hi]
	return true
}

// Chunk returns the current chunk's text.
func (it *ChunkIterator) Chunk() string {
	return it.chunk
}

// Offset returns the position of the current chunk.
func (it *ChunkIterator) Offset() int {
	return it.offset
}

// ByteIterator walks the bytes of a rope or slice.
type ByteIterator struct {
	chunks *ChunkIterator
	chunk  string
	index  int
}

// Next advances to the next byte and reports whether there is one.
func (it *ByteIterator) Next() bool {
	it.index++
	for it.index >= len(it.chunk) {
		if !it.chunks.Next() {
			it.chunk = ""
			return false
		}
		it.chunk = it.chunks.Chunk()
		it.index = 0
	}
	return true
}

// Byte returns the current byte.
func (it *ByteIterator) Byte() byte {
	return it.chunk[it.index]
}

// Offset returns the position of the current byte.
func (it *ByteIterator) Offset() int {
	return it.chunks.Offset() + it.index
}

// RuneIterator walks the characters of a rope or slice. Invalid UTF-8
// decodes as utf8.RuneError with size 1.
type RuneIterator struct {
	cursor *Cursor
	r      rune
	size   int
	offset int
}

// Next advances to the next character and reports whether there is one.
func (it *RuneIterator) Next() bool {
	for ; it.size > 0 && !it.cursor.IsAtBack(); it.size-- {
		it.cursor.MoveNextByte()
	}
	if it.cursor.IsAtBack() {
		return false
	}
	it.offset = it.cursor.BytePosition()
	it.r, it.size = it.cursor.CurrentRune()
	return true
}

// Rune returns the current character.
func (it *RuneIterator) Rune() rune {
	return it.r
}

// Size returns the width of the current character in bytes.
func (it *RuneIterator) Size() int {
	return it.size
}

// Offset returns the position of the current character.
func (it *RuneIterator) Offset() int {
	return it.offset
}

// ReverseRuneIterator walks the characters of a rope or slice from the
// end.
type ReverseRuneIterator struct {
	cursor *Cursor
	r      rune
	size   int
}

// Next moves to the previous character and reports whether there is one.
func (it *ReverseRuneIterator) Next() bool {
	if it.cursor.IsAtFront() {
		return false
	}
	end := it.cursor.BytePosition()
	it.cursor.MovePrevChar()
	it.r, _ = it.cursor.CurrentRune()
	it.size = end - it.cursor.BytePosition()
	return true
}

// Rune returns the current character.
func (it *ReverseRuneIterator) Rune() rune {
	return it.r
}

// Size returns the width of the current character in bytes.
func (it *ReverseRuneIterator) Size() int {
	return it.size
}

// Offset returns the position of the current character.
func (it *ReverseRuneIterator) Offset() int {
	return it.cursor.BytePosition()
}

// LineIterator walks the lines of a rope. Line text excludes the newline.
type LineIterator struct {
	rope  Rope
	line  int
	count int
	start int
	end   int
}

// Lines returns an iterator over the lines of r.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r, line: -1, count: r.LineCount()}
}

// Next advances to the next line and reports whether there is one.
func (it *LineIterator) Next() bool {
	if it.line+1 >= it.count {
		return false
	}
	it.line++
	it.start = it.rope.LineStartOffset(it.line)
	it.end = it.rope.LineEndOffset(it.line)
	return true
}

// Line returns the index of the current line.
func (it *LineIterator) Line() int {
	return it.line
}

// Text returns the current line's text.
func (it *LineIterator) Text() string {
	return it.rope.Text(it.start, it.end)
}

// StartOffset returns the position of the current line's first byte.
func (it *LineIterator) StartOffset() int {
	return it.start
}

// EndOffset returns the position just past the current line's last byte,
// before its newline.
func (it *LineIterator) EndOffset() int {
	return it.end
}
