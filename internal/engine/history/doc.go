// Package history provides undo/redo for the text engine.
//
// # Entries
//
// An Entry records one applied edit as a pair of diffs: Forward turns the
// text before the edit into the text after it, Inverse turns it back. The
// selections before and after the edit travel with it so undo and redo put
// the cursors back where they were.
//
// # History Stack
//
// History holds the undo and redo stacks. It does not apply anything
// itself; Undo and Redo hand back the entry whose diff the caller applies:
//
//	h := history.NewHistory(1000)
//	h.Push(history.NewEntry("insert", d, text, before, after))
//
//	e, err := h.Undo()
//	text = text.ApplyDiff(e.Inverse)
//
// # Grouping
//
// Entries pushed between BeginGroup and EndGroup are composed into one
// entry, so a multi-step command undoes with a single Undo.
//
// # Remote edits
//
// When another site edits the text, Rebase transforms every entry against
// the remote diff. Undo then reverts only local work and leaves the remote
// change in place.
package history
