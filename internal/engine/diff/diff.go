package diff

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLengthMismatch indicates a diff applied to, composed with, or
// transformed against text or another diff of the wrong length.
var ErrLengthMismatch = errors.New("diff length mismatch")

// OpKind is the kind of a diff operation.
type OpKind uint8

const (
	// Retain keeps Len bytes of the base text.
	Retain OpKind = iota

	// Insert adds Text, which is Len bytes long.
	Insert

	// Delete drops Len bytes of the base text.
	Delete
)

// String returns a human-readable representation of the kind.
func (k OpKind) String() string {
	switch k {
	case Retain:
		return "retain"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is one step of a diff.
type Op struct {
	Kind OpKind
	Len  int
	Text string // inserted text, only for Insert
}

// rest returns the part of op after its first n bytes.
func (op Op) rest(n int) Op {
	out := Op{Kind: op.Kind, Len: op.Len - n}
	if op.Kind == Insert {
		out.Text = op.Text[n:]
	}
	return out
}

func (op Op) String() string {
	switch op.Kind {
	case Insert:
		return fmt.Sprintf("I%q", op.Text)
	case Delete:
		return fmt.Sprintf("D%d", op.Len)
	default:
		return fmt.Sprintf("R%d", op.Len)
	}
}

// Diff is an ordered sequence of retain, insert, and delete operations
// that covers its base text exactly once.
//
// Diffs built with Builder are canonical: no two adjacent operations
// have the same kind, an insert never follows a delete directly, and no
// operation is empty. The zero value is the identity diff of empty text.
// Diffs are immutable and safe to share.
type Diff struct {
	ops       []Op
	baseLen   int
	targetLen int
}

// Ops returns a copy of the operations.
func (d Diff) Ops() []Op {
	return append([]Op(nil), d.ops...)
}

// Each calls f for every operation in order.
func (d Diff) Each(f func(Op)) {
	for _, op := range d.ops {
		f(op)
	}
}

// BaseLen returns the length of the text the diff applies to.
func (d Diff) BaseLen() int {
	return d.baseLen
}

// TargetLen returns the length of the text the diff produces.
func (d Diff) TargetLen() int {
	return d.targetLen
}

// IsIdentity reports whether the diff changes nothing.
func (d Diff) IsIdentity() bool {
	for _, op := range d.ops {
		if op.Kind != Retain {
			return false
		}
	}
	return true
}

func (d Diff) String() string {
	parts := make([]string, len(d.ops))
	for i, op := range d.ops {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Builder accumulates operations into a canonical Diff. The zero value is
// ready to use.
type Builder struct {
	ops       []Op
	baseLen   int
	targetLen int
}

// Retain appends a retain of n bytes.
func (b *Builder) Retain(n int) *Builder {
	if n <= 0 {
		return b
	}
	b.baseLen += n
	b.targetLen += n
	if last := b.last(); last != nil && last.Kind == Retain {
		last.Len += n
		return b
	}
	b.ops = append(b.ops, Op{Kind: Retain, Len: n})
	return b
}

// Insert appends an insertion of s. An insertion directly after a delete
// is placed before it.
func (b *Builder) Insert(s string) *Builder {
	if s == "" {
		return b
	}
	b.targetLen += len(s)
	last := b.last()
	if last != nil && last.Kind == Insert {
		last.Text += s
		last.Len += len(s)
		return b
	}
	if last != nil && last.Kind == Delete {
		if n := len(b.ops); n >= 2 && b.ops[n-2].Kind == Insert {
			b.ops[n-2].Text += s
			b.ops[n-2].Len += len(s)
			return b
		}
		del := *last
		*last = Op{Kind: Insert, Len: len(s), Text: s}
		b.ops = append(b.ops, del)
		return b
	}
	b.ops = append(b.ops, Op{Kind: Insert, Len: len(s), Text: s})
	return b
}

// Delete appends a deletion of n bytes.
func (b *Builder) Delete(n int) *Builder {
	if n <= 0 {
		return b
	}
	b.baseLen += n
	if last := b.last(); last != nil && last.Kind == Delete {
		last.Len += n
		return b
	}
	b.ops = append(b.ops, Op{Kind: Delete, Len: n})
	return b
}

// Add appends op.
func (b *Builder) Add(op Op) *Builder {
	switch op.Kind {
	case Retain:
		return b.Retain(op.Len)
	case Insert:
		return b.Insert(op.Text)
	default:
		return b.Delete(op.Len)
	}
}

// BaseLen returns the base length covered so far.
func (b *Builder) BaseLen() int {
	return b.baseLen
}

// Build returns the diff and resets the builder.
func (b *Builder) Build() Diff {
	d := Diff{ops: b.ops, baseLen: b.baseLen, targetLen: b.targetLen}
	*b = Builder{}
	return d
}

func (b *Builder) last() *Op {
	if len(b.ops) == 0 {
		return nil
	}
	return &b.ops[len(b.ops)-1]
}

// Identity returns the diff that keeps all n bytes of its base.
func Identity(n int) Diff {
	var b Builder
	return b.Retain(n).Build()
}

// Replace returns the diff that replaces [start, end) of a base of
// length baseLen with text. It panics if the range is invalid.
func Replace(baseLen, start, end int, text string) Diff {
	if start < 0 || start > end || end > baseLen {
		panic(fmt.Sprintf("diff: range [%d, %d) out of range [0, %d]", start, end, baseLen))
	}
	var b Builder
	return b.Retain(start).Insert(text).Delete(end - start).Retain(baseLen - end).Build()
}

// Insertion returns the diff that inserts text at offset.
func Insertion(baseLen, offset int, text string) Diff {
	return Replace(baseLen, offset, offset, text)
}

// Deletion returns the diff that removes [start, end).
func Deletion(baseLen, start, end int) Diff {
	return Replace(baseLen, start, end, "")
}
