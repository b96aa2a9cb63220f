package tracking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/diff"
)

// ChangeSummary aggregates a run of revisions.
type ChangeSummary struct {
	// StartRevision is the revision before any of the changes.
	StartRevision RevisionID

	// EndRevision is the revision after all of them.
	EndRevision RevisionID

	// Edits counts revisions that changed the text.
	Edits int

	// InsertedBytes and DeletedBytes total the inserted and deleted text.
	InsertedBytes int
	DeletedBytes  int

	// Sites counts distinct editing sites, the local one included.
	Sites int
}

// Summarize builds a summary of revs, which follow start in order.
func Summarize(start RevisionID, revs []*Revision) ChangeSummary {
	s := ChangeSummary{StartRevision: start, EndRevision: start}
	sites := make(map[uuid.UUID]struct{})
	for _, rev := range revs {
		s.EndRevision = rev.ID
		if rev.Diff.IsIdentity() {
			continue
		}
		s.Edits++
		sites[rev.Site] = struct{}{}
		rev.Diff.Each(func(op diff.Op) {
			switch op.Kind {
			case diff.Insert:
				s.InsertedBytes += op.Len
			case diff.Delete:
				s.DeletedBytes += op.Len
			}
		})
	}
	s.Sites = len(sites)
	return s
}

// IsEmpty returns true if nothing changed.
func (s ChangeSummary) IsEmpty() bool {
	return s.Edits == 0
}

// Delta returns the net byte change.
// Positive means the text grew, negative means it shrank.
func (s ChangeSummary) Delta() int {
	return s.InsertedBytes - s.DeletedBytes
}

// String returns a human-readable summary of the changes.
func (s ChangeSummary) String() string {
	if s.IsEmpty() {
		return "no changes"
	}
	edits := "edits"
	if s.Edits == 1 {
		edits = "edit"
	}
	return fmt.Sprintf("%d %s (+%d bytes, -%d bytes)", s.Edits, edits, s.InsertedBytes, s.DeletedBytes)
}
