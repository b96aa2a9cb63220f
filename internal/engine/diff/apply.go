package diff

import (
	"fmt"
	"strings"
)

// Source is read access to the text a diff applies to.
type Source interface {
	Text(start, end int) string
}

// StringSource adapts a string to Source.
type StringSource string

// Text returns s[start:end].
func (s StringSource) Text(start, end int) string {
	return string(s)[start:end]
}

// Apply returns s with the diff applied.
func (d Diff) Apply(s string) (string, error) {
	if len(s) != d.baseLen {
		return "", fmt.Errorf("%w: base is %d bytes, text is %d", ErrLengthMismatch, d.baseLen, len(s))
	}
	var sb strings.Builder
	sb.Grow(d.targetLen)
	pos := 0
	for _, op := range d.ops {
		switch op.Kind {
		case Retain:
			sb.WriteString(s[pos : pos+op.Len])
			pos += op.Len
		case Insert:
			sb.WriteString(op.Text)
		case Delete:
			pos += op.Len
		}
	}
	return sb.String(), nil
}

// Invert returns the diff that undoes d. base is the text d applies to.
func (d Diff) Invert(base Source) Diff {
	var b Builder
	pos := 0
	for _, op := range d.ops {
		switch op.Kind {
		case Retain:
			b.Retain(op.Len)
			pos += op.Len
		case Insert:
			b.Delete(op.Len)
		case Delete:
			b.Insert(base.Text(pos, pos+op.Len))
			pos += op.Len
		}
	}
	return b.Build()
}

// Bias decides where a position lands when text is inserted exactly at
// it.
type Bias uint8

const (
	// BiasBefore keeps the position before the inserted text, so the text
	// before it is unaffected.
	BiasBefore Bias = iota

	// BiasAfter moves the position past the inserted text.
	BiasAfter
)

// String returns a human-readable representation of the bias.
func (b Bias) String() string {
	if b == BiasAfter {
		return "after"
	}
	return "before"
}

// MapPosition maps a position in the base text to the target text.
// Positions inside deleted text collapse to the start of the deletion.
// Positions past the base map past the target by the same distance.
func (d Diff) MapPosition(pos int, bias Bias) int {
	old, cur := 0, 0
	for _, op := range d.ops {
		switch op.Kind {
		case Retain:
			if pos < old+op.Len {
				return cur + pos - old
			}
			old += op.Len
			cur += op.Len
		case Insert:
			if pos == old && bias == BiasBefore {
				return cur
			}
			cur += op.Len
		case Delete:
			if pos < old+op.Len {
				return cur
			}
			old += op.Len
		}
	}
	return cur + pos - old
}

// ChangedRange returns the smallest range of the target text that holds
// every inserted byte and every point where text was deleted. ok is false
// for an identity diff.
func (d Diff) ChangedRange() (start, end int, ok bool) {
	cur := 0
	for _, op := range d.ops {
		switch op.Kind {
		case Retain:
			cur += op.Len
		case Insert:
			if !ok {
				start, ok = cur, true
			}
			cur += op.Len
			end = cur
		case Delete:
			if !ok {
				start, ok = cur, true
			}
			end = cur
		}
	}
	return start, end, ok
}
