// Package engine provides the textcore editing Session.
//
// A Session combines a rope, a multi-selection set, undo history and
// revision tracking into one thread-safe API.
//
// # Architecture
//
// The session is built on several sub-packages:
//
//   - btree: generic persistent B-tree with copy-on-write nodes
//   - rope: immutable UTF-8 text on the B-tree (O(log n) edits)
//   - diff: Retain/Insert/Delete diffs with compose and transform
//   - selection: multi-cursor selection sets and rope-aware motion
//   - history: undo/redo of inverse diffs with grouping and rebasing
//   - tracking: revision ring, named snapshots and unified diffs
//
// Every edit is a diff. The session applies it to the rope, maps the
// selections through it, pushes an undo entry and records a revision, all
// under one write lock.
//
// # Basic Usage
//
//	s := engine.New(engine.WithContent("Hello, World!"))
//
//	s.SetSelection(7, 12)
//	s.Insert("Go") // "Hello, Go!"
//
//	s.Undo() // "Hello, World!"
//
// # Multi-Cursor Editing
//
//	s := engine.New(engine.WithContent("foo bar foo"))
//	s.SetCursor(0)
//	s.AddCursor(8)
//	s.Insert("X") // "Xfoo bar Xfoo"
//
// Motions apply to every selection:
//
//	s.Move(engine.MoveLineEnd, false)
//	s.Move(engine.MoveLeft, true) // extend
//
// # Undo Groups
//
//	s.BeginGroup("format")
//	s.Insert("a")
//	s.Insert("b")
//	s.EndGroup()
//
//	s.Undo() // removes both
//
// # Collaboration
//
// ApplyRemote applies a diff from another site. Selections shift without
// absorbing the remote insertion, and undo entries are rebased with
// diff.Transform so that undo reverts only local work.
//
// # Snapshots
//
//	snap, _ := s.Snapshot("before-script")
//	// ... edits ...
//	d, _ := s.DiffSinceSnapshot(snap.ID)
//	patch, _ := s.UnifiedSinceSnapshot(snap.ID, tracking.UnifiedOptions{})
//	s.RestoreSnapshot(snap.ID)
//
// # Line Endings
//
// Text is held with "\n" line endings. The ending found in the initial
// content, or the one configured, is restored by WriteTo.
//
// # Error Handling
//
//   - ErrNothingToUndo, ErrNothingToRedo: empty history stack
//   - ErrSnapshotNotFound, ErrRevisionNotFound: unknown or evicted ids
//   - ErrReadOnly: edit on a read-only session
//   - ErrClosed: edit after Close
//   - diff.ErrLengthMismatch: diff built for a different text length
//   - rope.ErrOffsetOutOfRange, rope.ErrInvalidRange: bad positions
//   - rope.ErrNotCharBoundary: position or diff edge inside a character
package engine
