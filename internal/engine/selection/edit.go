package selection

import (
	"github.com/dshills/textcore/internal/engine/diff"
)

// EditFunc returns the byte range [start, end) of the base text to replace
// for one selection, and the replacement text.
type EditFunc func(s Sel) (start, end int, text string)

// EditDiff builds a single diff over a base of baseLen bytes that applies
// f to every selection of set in order. Ranges that reach back into the
// previous edit are cut at its end, so adjacent cursors never edit the same
// bytes twice.
func EditDiff(set *SelSet, baseLen int, f EditFunc) diff.Diff {
	var b diff.Builder
	prev := 0
	for s := range set.Iter() {
		start, end, text := f(s)
		start = min(max(start, prev), baseLen)
		end = min(max(end, start), baseLen)
		b.Retain(start - prev)
		b.Delete(end - start)
		b.Insert(text)
		prev = end
	}
	b.Retain(baseLen - prev)
	return b.Build()
}

// ReplaceDiff returns a diff replacing every selection with text. Empty
// selections insert text at the cursor.
func ReplaceDiff(set *SelSet, baseLen int, text string) diff.Diff {
	return EditDiff(set, baseLen, func(s Sel) (int, int, string) {
		start, end := s.Range()
		return start, end, text
	})
}

// DeleteBackwardDiff deletes every non-empty selection and, for insertion
// points, the grapheme cluster before the cursor.
func (m Mover) DeleteBackwardDiff(set *SelSet) diff.Diff {
	return EditDiff(set, m.text.Len(), func(s Sel) (int, int, string) {
		if !s.IsEmpty() {
			return s.Start(), s.End(), ""
		}
		return m.Left(s, false).Cursor, s.Cursor, ""
	})
}

// DeleteForwardDiff deletes every non-empty selection and, for insertion
// points, the grapheme cluster after the cursor.
func (m Mover) DeleteForwardDiff(set *SelSet) diff.Diff {
	return EditDiff(set, m.text.Len(), func(s Sel) (int, int, string) {
		if !s.IsEmpty() {
			return s.Start(), s.End(), ""
		}
		return s.Cursor, m.Right(s, false).Cursor, ""
	})
}
