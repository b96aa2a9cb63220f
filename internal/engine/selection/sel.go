package selection

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/diff"
)

// NoColumn marks a selection without a remembered display column.
const NoColumn = -1

// Sel is one cursor/anchor pair. Cursor is where typing occurs; Anchor is
// where the selection started. When Cursor == Anchor the selection is a
// plain insertion point.
//
// Column remembers the display column vertical motion aims for, so moving
// through a short line does not lose the original column. Any horizontal
// motion or edit resets it to NoColumn.
//
// Sel is an immutable value type.
type Sel struct {
	Cursor int
	Anchor int
	Column int
}

// Point returns an empty selection at pos.
func Point(pos int) Sel {
	return Sel{Cursor: pos, Anchor: pos, Column: NoColumn}
}

// New returns a selection from anchor to cursor.
func New(anchor, cursor int) Sel {
	return Sel{Cursor: cursor, Anchor: anchor, Column: NoColumn}
}

// Start returns the lower bound of the selection.
func (s Sel) Start() int {
	return min(s.Cursor, s.Anchor)
}

// End returns the upper bound of the selection.
func (s Sel) End() int {
	return max(s.Cursor, s.Anchor)
}

// Range returns the selection bounds with start <= end.
func (s Sel) Range() (start, end int) {
	return s.Start(), s.End()
}

// Len returns the number of selected bytes.
func (s Sel) Len() int {
	return s.End() - s.Start()
}

// IsEmpty reports whether the selection is an insertion point.
func (s Sel) IsEmpty() bool {
	return s.Cursor == s.Anchor
}

// IsReversed reports whether the cursor precedes the anchor.
func (s Sel) IsReversed() bool {
	return s.Cursor < s.Anchor
}

// Contains reports whether pos lies inside [Start, End).
func (s Sel) Contains(pos int) bool {
	return pos >= s.Start() && pos < s.End()
}

// Extend moves the cursor to pos and keeps the anchor.
func (s Sel) Extend(pos int) Sel {
	return Sel{Cursor: pos, Anchor: s.Anchor, Column: NoColumn}
}

// MoveTo moves the cursor to pos. The anchor follows unless extend is set.
func (s Sel) MoveTo(pos int, extend bool) Sel {
	if extend {
		return s.Extend(pos)
	}
	return Point(pos)
}

// Collapse returns an insertion point at the cursor.
func (s Sel) Collapse() Sel {
	return Sel{Cursor: s.Cursor, Anchor: s.Cursor, Column: s.Column}
}

// Reversed swaps cursor and anchor.
func (s Sel) Reversed() Sel {
	return Sel{Cursor: s.Anchor, Anchor: s.Cursor, Column: NoColumn}
}

// Clamp limits both ends to [0, maxPos].
func (s Sel) Clamp(maxPos int) Sel {
	clamp := func(p int) int { return max(0, min(p, maxPos)) }
	c, a := clamp(s.Cursor), clamp(s.Anchor)
	if c == s.Cursor && a == s.Anchor {
		return s
	}
	return Sel{Cursor: c, Anchor: a, Column: NoColumn}
}

// WithColumn returns s with the remembered column set.
func (s Sel) WithColumn(col int) Sel {
	s.Column = col
	return s
}

// TryMerge merges s with other when they overlap, or when an insertion
// point sits at the start, inside, or at the end of the other selection.
// Non-empty selections that merely touch stay separate.
func (s Sel) TryMerge(other Sel) (Sel, bool) {
	first, second := s, other
	if second.Start() < first.Start() {
		first, second = second, first
	}
	switch {
	case first.IsEmpty() && second.IsEmpty():
		if first.Cursor == second.Cursor {
			return s, true
		}
	case first.IsEmpty():
		// An empty first can only share the start of second.
		if first.Cursor == second.Start() {
			return second, true
		}
	case second.IsEmpty():
		if second.Cursor <= first.End() {
			return first, true
		}
	case first.End() > second.Start():
		start, end := first.Start(), max(first.End(), second.End())
		if s.IsReversed() {
			return Sel{Cursor: start, Anchor: end, Column: NoColumn}, true
		}
		return Sel{Cursor: end, Anchor: start, Column: NoColumn}, true
	}
	return Sel{}, false
}

// ApplyDiff maps the selection through an edit.
//
// A local edit is one made through this selection, so the result is always
// an insertion point at the mapped cursor. A remote edit preserves extent
// and direction, growing to cover text inserted at either end. A remote
// insertion at an insertion point lands after it.
func (s Sel) ApplyDiff(d diff.Diff, local bool) Sel {
	if local {
		return Point(d.MapPosition(s.Cursor, diff.BiasAfter))
	}
	if s.IsEmpty() {
		return Point(d.MapPosition(s.Cursor, diff.BiasBefore))
	}
	if s.IsReversed() {
		return New(d.MapPosition(s.Anchor, diff.BiasAfter), d.MapPosition(s.Cursor, diff.BiasBefore))
	}
	return New(d.MapPosition(s.Anchor, diff.BiasBefore), d.MapPosition(s.Cursor, diff.BiasAfter))
}

// String returns a string representation of the selection.
func (s Sel) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Sel(%d)", s.Cursor)
	}
	dir := "→"
	if s.IsReversed() {
		dir = "←"
	}
	return fmt.Sprintf("Sel(%d%s%d)", s.Anchor, dir, s.Cursor)
}
