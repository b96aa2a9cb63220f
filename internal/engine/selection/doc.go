// Package selection provides the multi-cursor selection model.
//
// A Sel is a cursor/anchor pair over byte offsets of a rope. A SelSet holds
// every active selection of a session, one of them distinguished as the
// latest, and keeps them normalized: sorted by start and never overlapping.
// Selections that overlap after a motion or an edit are merged with
// Sel.TryMerge.
//
// Edits reach selections as diffs. A local edit, made through the
// selections themselves, collapses each selection to an insertion point after
// the inserted text. A remote edit, made by another site, keeps extent and
// direction:
//
//	set := selection.NewSet(selection.New(1, 4))
//	set.ApplyDiff(diff.Insertion(10, 0, "ab"), true) // set holds Sel(3)
//
// Mover computes grapheme-aware horizontal motion and column-preserving
// vertical motion over a rope, and builds the deletion diffs for backspace
// and forward delete. EditDiff and ReplaceDiff build one diff that edits
// every selection at once.
package selection
