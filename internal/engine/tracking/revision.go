package tracking

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/diff"
	"github.com/dshills/textcore/internal/engine/rope"
)

// RevisionID identifies a text state. IDs increase by one per recorded edit.
type RevisionID uint64

// Revision captures the text after one edit. It stores a reference to the
// immutable rope, so keeping many revisions costs only the chunks that
// differ between them.
type Revision struct {
	// ID uniquely identifies this revision.
	ID RevisionID

	// Site identifies who made the edit; uuid.Nil for the initial text.
	Site uuid.UUID

	// Diff turns the previous revision's text into this one.
	Diff diff.Diff

	// Timestamp when this revision was created.
	Timestamp time.Time

	rope rope.Rope
}

// Rope returns the text at this revision.
func (r *Revision) Rope() rope.Rope {
	return r.rope
}

// Text returns the full text content at this revision.
// Use sparingly for large texts.
func (r *Revision) Text() string {
	return r.rope.String()
}

// Len returns the byte length at this revision.
func (r *Revision) Len() int {
	return r.rope.Len()
}

// LineCount returns the number of lines at this revision.
func (r *Revision) LineCount() int {
	return r.rope.LineCount()
}

// revisionRing holds the most recent revisions, oldest first.
type revisionRing struct {
	buf   []*Revision
	head  int // Index of oldest entry
	count int
}

func newRevisionRing(size int) *revisionRing {
	if size <= 0 {
		size = DefaultMaxRevisions
	}
	return &revisionRing{buf: make([]*Revision, size)}
}

// add stores rev, evicting the oldest revision when full.
func (rr *revisionRing) add(rev *Revision) {
	idx := (rr.head + rr.count) % len(rr.buf)
	if rr.count < len(rr.buf) {
		rr.count++
	} else {
		rr.head = (rr.head + 1) % len(rr.buf)
	}
	rr.buf[idx] = rev
}

// at returns the i-th stored revision, oldest first.
func (rr *revisionRing) at(i int) *Revision {
	return rr.buf[(rr.head+i)%len(rr.buf)]
}

func (rr *revisionRing) latest() *Revision {
	if rr.count == 0 {
		return nil
	}
	return rr.at(rr.count - 1)
}

// index returns the position of id in the ring. IDs are consecutive, so
// the position follows from the oldest ID.
func (rr *revisionRing) index(id RevisionID) (int, bool) {
	if rr.count == 0 {
		return 0, false
	}
	oldest := rr.at(0).ID
	if id < oldest || id > oldest+RevisionID(rr.count-1) {
		return 0, false
	}
	return int(id - oldest), true
}

func (rr *revisionRing) get(id RevisionID) (*Revision, bool) {
	i, ok := rr.index(id)
	if !ok {
		return nil, false
	}
	return rr.at(i), true
}

// resize changes the capacity, keeping the newest revisions.
func (rr *revisionRing) resize(size int) {
	if size <= 0 {
		size = DefaultMaxRevisions
	}
	keep := min(rr.count, size)
	buf := make([]*Revision, size)
	for i := range keep {
		buf[i] = rr.at(rr.count - keep + i)
	}
	rr.buf, rr.head, rr.count = buf, 0, keep
}

func (rr *revisionRing) clear() {
	clear(rr.buf)
	rr.head, rr.count = 0, 0
}
