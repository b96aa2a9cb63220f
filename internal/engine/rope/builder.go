package rope

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/btree"
)

// Builder assembles a rope from text written in order. It fills each
// chunk to MaxChunkSize before starting the next, so building is linear
// in the size of the text.
//
// The zero value is not usable; call NewBuilder.
type Builder struct {
	tree    *btree.Builder[Chunk, TextSummary]
	pending Chunk
	n       int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{tree: btree.NewBuilder(nodes)}
}

// WriteString appends s. It never returns an error.
func (b *Builder) WriteString(s string) (int, error) {
	b.n += len(s)
	written := len(s)
	for s != "" {
		next, err := b.pending.TryAppend(s)
		if err == nil {
			b.pending = next
			break
		}
		var full *ChunkFullError
		if !errors.As(err, &full) {
			return written - len(s), err
		}
		fits := full.Fits
		if fits == 0 && b.pending.IsEmpty() {
			// s starts with a run of continuation bytes longer than a chunk.
			fits = min(len(s), MaxChunkSize)
		}
		b.tree.Push(NewChunk(b.pending.data + s[:fits]))
		b.pending = Chunk{}
		s = s[fits:]
	}
	return written, nil
}

// Write appends p. It never returns an error.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// WriteByte appends c.
func (b *Builder) WriteByte(c byte) error {
	_, err := b.WriteString(string([]byte{c}))
	return err
}

// WriteRune appends the UTF-8 encoding of r.
func (b *Builder) WriteRune(r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return b.WriteString(string(buf[:n]))
}

// ReadFrom appends everything read from r. A character split across two
// reads is held back until it is complete, so chunks stay cut on
// character boundaries.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	held := 0
	for {
		n, err := r.Read(buf[held:])
		total += int64(n)
		end := held + n
		held = partialRuneLen(buf[:end])
		_, _ = b.Write(buf[:end-held])
		copy(buf, buf[end-held:end])
		if err != nil {
			_, _ = b.Write(buf[:held])
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}

// partialRuneLen returns the length of the incomplete UTF-8 sequence at
// the end of p, or 0.
func partialRuneLen(p []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(p); i++ {
		if utf8.RuneStart(p[len(p)-i]) {
			if utf8.FullRune(p[len(p)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

// Len returns the number of bytes written since the last Build.
func (b *Builder) Len() int {
	return b.n
}

// Build returns the rope and resets the builder.
func (b *Builder) Build() Rope {
	b.tree.Push(b.pending)
	b.pending = Chunk{}
	b.n = 0
	return Rope{tree: b.tree.Build()}
}

// FromLines joins lines with newlines into a rope.
func FromLines(lines []string) Rope {
	b := NewBuilder()
	for i, line := range lines {
		if i > 0 {
			_ = b.WriteByte('\n')
		}
		_, _ = b.WriteString(line)
	}
	return b.Build()
}

// Join concatenates ropes with sep between them.
func Join(ropes []Rope, sep string) Rope {
	var out Rope
	for i, r := range ropes {
		if i > 0 && sep != "" {
			out = out.Concat(FromString(sep))
		}
		out = out.Concat(r)
	}
	return out
}

// Repeat returns a rope holding count copies of s.
func Repeat(s string, count int) Rope {
	if count <= 0 || s == "" {
		return New()
	}
	if len(s)*count <= 64*1024 {
		return FromString(strings.Repeat(s, count))
	}
	b := NewBuilder()
	for range count {
		_, _ = b.WriteString(s)
	}
	return b.Build()
}
