package rope

import (
	"io"
	"strings"

	"github.com/dshills/textcore/internal/engine/btree"
)

type chunkTree = btree.Tree[Chunk, TextSummary]

// nodes recycles tree nodes released by in-place edits.
var nodes = btree.NewNodePool[Chunk, TextSummary]()

// Rope is an immutable UTF-8 text buffer.
//
// Every edit returns a new Rope that shares unchanged chunks with the
// original, so old versions stay valid and cheap to keep. The zero value
// is an empty rope. A Rope is safe for concurrent reads.
type Rope struct {
	tree chunkTree
}

// New returns an empty rope.
func New() Rope {
	return Rope{tree: btree.NewWithPool(nodes)}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	b := NewBuilder()
	_, _ = b.WriteString(s)
	return b.Build()
}

// FromReader creates a rope from everything r yields.
func FromReader(r io.Reader) (Rope, error) {
	b := NewBuilder()
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// Len returns the length in bytes.
func (r Rope) Len() int {
	return r.tree.Len()
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.tree.IsEmpty()
}

// Summary returns the metrics of the whole text.
func (r Rope) Summary() TextSummary {
	return r.tree.Info()
}

// CharCount returns the number of characters.
func (r Rope) CharCount() int {
	return r.Summary().Chars
}

// LineCount returns the number of lines. An empty rope has one line, and
// a trailing newline starts a final empty line.
func (r Rope) LineCount() int {
	return r.Summary().Lines + 1
}

// UTF16Len returns the length in UTF-16 code units.
func (r Rope) UTF16Len() int {
	return r.Summary().UTF16Units
}

// Height returns the number of branch levels above the chunks.
func (r Rope) Height() int {
	return r.tree.Height()
}

// ChunkCount returns the number of chunks.
func (r Rope) ChunkCount() int {
	n := 0
	r.tree.Leaves(func(c Chunk) bool {
		if !c.IsEmpty() {
			n++
		}
		return true
	})
	return n
}

// Validate checks the structural invariants of the underlying tree.
func (r Rope) Validate() error {
	return r.tree.Validate()
}

// String returns the whole text.
func (r Rope) String() string {
	var sb strings.Builder
	sb.Grow(r.Len())
	r.tree.Leaves(func(c Chunk) bool {
		sb.WriteString(c.data)
		return true
	})
	return sb.String()
}

// Slice returns a view of [start, end). It panics if the range is
// invalid.
func (r Rope) Slice(start, end int) Slice {
	return Slice{s: r.tree.Slice(start, end)}
}

// Text returns the text in [start, end). An empty or inverted range
// yields "". It panics if either end lies outside the rope.
func (r Rope) Text(start, end int) string {
	if start >= end {
		return ""
	}
	return r.Slice(start, end).String()
}

// ByteAt returns the byte at offset.
func (r Rope) ByteAt(offset int) (byte, bool) {
	if offset < 0 || offset >= r.Len() {
		return 0, false
	}
	c := r.tree.CursorAt(offset)
	return c.Leaf().data[offset-c.Position()], true
}

// IsCharBoundary reports whether offset falls between two characters.
// The ends of the rope are boundaries; offsets outside it are not.
func (r Rope) IsCharBoundary(offset int) bool {
	if offset == 0 || offset == r.Len() {
		return true
	}
	b, ok := r.ByteAt(offset)
	return ok && isCharStart(b)
}

// ClampToCharBoundary moves offset into the rope and back to the start
// of the character containing it.
func (r Rope) ClampToCharBoundary(offset int) int {
	offset = max(0, min(offset, r.Len()))
	for offset > 0 && !r.IsCharBoundary(offset) {
		offset--
	}
	return offset
}

// Insert returns a rope with text inserted at offset. It panics if offset
// is out of range or inside a character.
func (r Rope) Insert(offset int, text string) Rope {
	r.mustOffset(offset)
	if text == "" {
		return r
	}
	t := r.tree.Fork()
	insertText(&t, offset, text)
	return Rope{tree: t}
}

// Delete returns a rope without [start, end). It panics if the range is
// invalid or either end splits a character.
func (r Rope) Delete(start, end int) Rope {
	r.mustRange(start, end)
	if start == end {
		return r
	}
	t := r.tree.Fork()
	deleteRange(&t, start, end)
	return Rope{tree: t}
}

// Replace returns a rope with [start, end) replaced by text.
func (r Rope) Replace(start, end int, text string) Rope {
	r.mustRange(start, end)
	t := r.tree.Fork()
	if start < end {
		deleteRange(&t, start, end)
	}
	if text != "" {
		insertText(&t, start, text)
	}
	return Rope{tree: t}
}

// Split returns the text before and after offset as two ropes. offset
// must be a character boundary.
func (r Rope) Split(offset int) (Rope, Rope) {
	r.mustOffset(offset)
	left := r.tree.Fork()
	right := left.SplitOff(offset)
	return Rope{tree: left}, Rope{tree: right}
}

// Concat returns r followed by other.
func (r Rope) Concat(other Rope) Rope {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	t := r.tree.Fork()
	o := other.tree.Fork()
	t.Append(&o)
	return Rope{tree: t}
}

// Equals reports whether r and other hold the same text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.tree.Root() == other.tree.Root() {
		return true
	}
	a, b := r.Chunks(), other.Chunks()
	var sa, sb string
	for {
		for sa == "" && a.Next() {
			sa = a.Chunk()
		}
		for sb == "" && b.Next() {
			sb = b.Chunk()
		}
		if sa == "" || sb == "" {
			return sa == sb
		}
		n := min(len(sa), len(sb))
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
}

// insertText inserts text into t in place. Short insertions that fit the
// chunk at offset rewrite that chunk only.
func insertText(t *chunkTree, offset int, text string) {
	if len(text) <= MaxChunkSize {
		if c := t.CursorAt(offset); c.Leaf().Len()+len(text) <= MaxChunkSize {
			t.UpdateAt(offset, func(c Chunk, i int) Chunk {
				return NewChunk(c.data[:i] + text + c.data[i:])
			})
			return
		}
	}
	right := t.SplitOff(offset)
	mid := buildTree(text)
	t.Append(&mid)
	t.Append(&right)
}

// deleteRange removes [start, end) from t in place. A range inside one
// chunk that leaves the chunk non-empty rewrites that chunk only.
func deleteRange(t *chunkTree, start, end int) {
	c := t.CursorAt(start)
	leaf, at := c.Leaf(), c.Position()
	if end-at <= leaf.Len() && (leaf.Len() > end-start || t.Height() == 0) {
		t.UpdateAt(start, func(c Chunk, i int) Chunk {
			return NewChunk(c.data[:i] + c.data[i+end-start:])
		})
		return
	}
	right := t.SplitOff(end)
	t.TruncateBack(start)
	t.Append(&right)
}

func buildTree(text string) chunkTree {
	b := btree.NewBuilder(nodes)
	for _, c := range splitText(text) {
		b.Push(c)
	}
	return b.Build()
}

func (r Rope) mustOffset(offset int) {
	if err := r.CheckOffset(offset); err != nil {
		panic("rope: " + err.Error())
	}
}

func (r Rope) mustRange(start, end int) {
	if err := r.CheckRange(start, end); err != nil {
		panic("rope: " + err.Error())
	}
}
