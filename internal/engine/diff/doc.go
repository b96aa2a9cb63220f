// Package diff describes edits as sequences of retain, insert, and delete
// operations over a base text.
//
// A Diff covers its base exactly once: the retained and deleted lengths
// sum to BaseLen, the retained and inserted lengths to TargetLen. Lengths
// are in bytes.
//
//	var b diff.Builder
//	d := b.Retain(5).Insert(", world").Delete(3).Build()
//	out, err := d.Apply("hello???")  // "hello, world"
//
// Besides applying a diff, the package maps positions through it
// (MapPosition), inverts it for undo (Invert), and combines diffs the way
// operational transformation does: Compose chains sequential edits and
// Transform rebases concurrent ones. Compute derives a line-granular diff
// between two texts, using diffmatchpatch over lines encoded as runes.
package diff
