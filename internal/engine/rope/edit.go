package rope

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/diff"
)

// CheckDiff returns an error unless d applies to r: its base length must
// match and every operation must start and end on a character boundary.
func (r Rope) CheckDiff(d diff.Diff) error {
	if d.BaseLen() != r.Len() {
		return fmt.Errorf("%w: diff base length %d, rope length %d", diff.ErrLengthMismatch, d.BaseLen(), r.Len())
	}
	offset := 0
	for _, op := range d.Ops() {
		if err := r.CheckOffset(offset); err != nil {
			return err
		}
		if op.Kind != diff.Insert {
			offset += op.Len
		}
	}
	return r.CheckOffset(offset)
}

// ApplyDiff returns the rope produced by d. It panics if CheckDiff fails.
func (r Rope) ApplyDiff(d diff.Diff) Rope {
	if err := r.CheckDiff(d); err != nil {
		panic("rope: " + err.Error())
	}
	if d.IsIdentity() {
		return r
	}
	t := r.tree.Fork()
	offset := 0
	d.Each(func(op diff.Op) {
		switch op.Kind {
		case diff.Retain:
			offset += op.Len
		case diff.Insert:
			insertText(&t, offset, op.Text)
			offset += op.Len
		case diff.Delete:
			deleteRange(&t, offset, offset+op.Len)
		}
	})
	return Rope{tree: t}
}

// DiffTo returns a line-granular diff turning r into other.
func (r Rope) DiffTo(other Rope) diff.Diff {
	if r.Equals(other) {
		return diff.Identity(r.Len())
	}
	return diff.Compute(r.String(), other.String())
}
