package tracking

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/diff"
	"github.com/dshills/textcore/internal/engine/rope"
)

// DefaultMaxRevisions is the default maximum number of revisions to store.
const DefaultMaxRevisions = 100

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxRevisions sets the maximum number of revisions to store.
func WithMaxRevisions(maxRevisions int) TrackerOption {
	return func(t *Tracker) {
		t.revisions = newRevisionRing(maxRevisions)
	}
}

// Tracker records the text after every edit in a bounded ring of
// revisions and keeps named snapshots. All operations are thread-safe.
type Tracker struct {
	mu sync.RWMutex

	revisions *revisionRing
	next      RevisionID

	snapshots *SnapshotManager
}

// NewTracker creates a tracker whose first revision is initial.
func NewTracker(initial rope.Rope, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		revisions: newRevisionRing(DefaultMaxRevisions),
		snapshots: NewSnapshotManager(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.addLocked(diff.Identity(initial.Len()), initial, uuid.Nil)
	return t
}

// Record stores the text produced by applying d to the current revision
// and returns the new revision's ID. The caller guarantees that after is
// the current text with d applied.
func (t *Tracker) Record(d diff.Diff, after rope.Rope, site uuid.UUID) RevisionID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur := t.revisions.latest(); d.BaseLen() != cur.Len() {
		panic(fmt.Sprintf("tracking: diff base length %d does not match revision length %d", d.BaseLen(), cur.Len()))
	}
	return t.addLocked(d, after, site)
}

// Reset discards stored revisions and starts over from text. Revision IDs
// keep increasing so IDs handed out earlier never refer to the new text.
// Snapshots are kept.
func (t *Tracker) Reset(text rope.Rope) RevisionID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revisions.clear()
	return t.addLocked(diff.Identity(text.Len()), text, uuid.Nil)
}

func (t *Tracker) addLocked(d diff.Diff, after rope.Rope, site uuid.UUID) RevisionID {
	id := t.next
	t.next++
	t.revisions.add(&Revision{
		ID:        id,
		Site:      site,
		Diff:      d,
		Timestamp: time.Now(),
		rope:      after,
	})
	return id
}

// Current returns the latest revision.
func (t *Tracker) Current() *Revision {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions.latest()
}

// CurrentID returns the ID of the latest revision.
func (t *Tracker) CurrentID() RevisionID {
	return t.Current().ID
}

// Revision retrieves a stored revision.
func (t *Tracker) Revision(id RevisionID) (*Revision, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions.get(id)
}

// RevisionCount returns the number of stored revisions.
func (t *Tracker) RevisionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions.count
}

// MaxRevisions returns the ring capacity.
func (t *Tracker) MaxRevisions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.revisions.buf)
}

// SetMaxRevisions changes the ring capacity, dropping the oldest
// revisions if needed. Values <= 0 select DefaultMaxRevisions.
func (t *Tracker) SetMaxRevisions(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revisions.resize(n)
}

// ChangesSince returns the revisions recorded after id, oldest first.
func (t *Tracker) ChangesSince(id RevisionID) ([]*Revision, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.changesSinceLocked(id)
}

func (t *Tracker) changesSinceLocked(id RevisionID) ([]*Revision, error) {
	i, ok := t.revisions.index(id)
	if !ok {
		return nil, fmt.Errorf("revision %d: %w", id, ErrRevisionNotFound)
	}
	out := make([]*Revision, 0, t.revisions.count-i-1)
	for j := i + 1; j < t.revisions.count; j++ {
		out = append(out, t.revisions.at(j))
	}
	return out, nil
}

// DiffSince returns one diff turning the text at revision id into the
// current text. It fails with ErrRevisionNotFound once id has left the
// ring.
func (t *Tracker) DiffSince(id RevisionID) (diff.Diff, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.diffSinceLocked(id)
}

func (t *Tracker) diffSinceLocked(id RevisionID) (diff.Diff, error) {
	base, ok := t.revisions.get(id)
	if !ok {
		return diff.Diff{}, fmt.Errorf("revision %d: %w", id, ErrRevisionNotFound)
	}
	revs, err := t.changesSinceLocked(id)
	if err != nil {
		return diff.Diff{}, err
	}
	out := diff.Identity(base.Len())
	for _, rev := range revs {
		out, err = out.Compose(rev.Diff)
		if err != nil {
			return diff.Diff{}, fmt.Errorf("compose revision %d: %w", rev.ID, err)
		}
	}
	return out, nil
}

// Summary summarizes the revisions recorded after id.
func (t *Tracker) Summary(id RevisionID) (ChangeSummary, error) {
	revs, err := t.ChangesSince(id)
	if err != nil {
		return ChangeSummary{}, err
	}
	return Summarize(id, revs), nil
}

// Snapshot Operations

// CreateSnapshot creates a named snapshot of the current revision.
func (t *Tracker) CreateSnapshot(name string) *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.revisions.latest()
	return t.snapshots.Create(name, cur.rope, cur.ID)
}

// GetSnapshot retrieves a snapshot by ID.
func (t *Tracker) GetSnapshot(id SnapshotID) (*Snapshot, error) {
	snap, ok := t.snapshots.Get(id)
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	return snap, nil
}

// GetSnapshotByName retrieves a snapshot by name.
func (t *Tracker) GetSnapshotByName(name string) (*Snapshot, error) {
	snap, ok := t.snapshots.GetByName(name)
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	return snap, nil
}

// DeleteSnapshot removes a snapshot.
func (t *Tracker) DeleteSnapshot(id SnapshotID) {
	t.snapshots.Delete(id)
}

// ListSnapshots returns all snapshots, oldest first.
func (t *Tracker) ListSnapshots() []*Snapshot {
	return t.snapshots.List()
}

// SnapshotCount returns the number of snapshots.
func (t *Tracker) SnapshotCount() int {
	return t.snapshots.Count()
}

// PruneSnapshots keeps only the n most recent snapshots and returns how
// many were removed.
func (t *Tracker) PruneSnapshots(n int) int {
	return t.snapshots.PruneKeepN(n)
}

// DiffSinceSnapshot returns a diff turning the snapshot's text into the
// current text. While the snapshot's revision is still in the ring the
// recorded diffs are composed; otherwise the two texts are compared.
func (t *Tracker) DiffSinceSnapshot(id SnapshotID) (diff.Diff, error) {
	snap, err := t.GetSnapshot(id)
	if err != nil {
		return diff.Diff{}, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.revisions.get(snap.Revision); ok {
		return t.diffSinceLocked(snap.Revision)
	}
	return snap.rope.DiffTo(t.revisions.latest().rope), nil
}

// UnifiedSinceSnapshot renders the changes since a snapshot as a unified
// diff.
func (t *Tracker) UnifiedSinceSnapshot(id SnapshotID, opts UnifiedOptions) (string, error) {
	snap, err := t.GetSnapshot(id)
	if err != nil {
		return "", err
	}
	d, err := t.DiffSinceSnapshot(id)
	if err != nil {
		return "", err
	}
	return Unified(snap.rope, d, opts), nil
}

// Clear removes all revisions except the current one, and all snapshots.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.revisions.latest()
	t.revisions.clear()
	t.revisions.add(cur)
	t.snapshots.Clear()
}
