// Package tracking records the text's revisions and named snapshots.
//
// Every edit produces a Revision holding the diff that made it and the
// resulting rope. Ropes are immutable and share unchanged chunks, so a
// revision costs only the chunks the edit touched. Revisions live in a
// bounded ring; the oldest fall off as new ones arrive.
//
// # Usage
//
//	t := tracking.NewTracker(text)
//	d := diff.Insertion(text.Len(), 0, "hello ")
//	text = text.ApplyDiff(d)
//	rev := t.Record(d, text, site)
//
//	// One diff covering everything since rev.
//	d, err := t.DiffSince(rev)
//
// # Snapshots
//
// A snapshot pins a revision's text under a name and a UUID. It outlives
// the ring: once its revision has been evicted, DiffSinceSnapshot compares
// the pinned text with the current text instead of composing diffs.
//
//	snap := t.CreateSnapshot("before-format")
//	out, err := t.UnifiedSinceSnapshot(snap.ID, tracking.UnifiedOptions{})
//
// # Thread Safety
//
// All Tracker operations are thread-safe. Revisions and snapshots are
// immutable and can be shared across goroutines.
package tracking
