package tracking

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/rope"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrRevisionNotFound = errors.New("revision not found")
)

// SnapshotID names a snapshot independently of its (reusable) name.
type SnapshotID = uuid.UUID

// Snapshot pins the text at one revision. It never changes after
// creation and the rope shares structure with the live text.
type Snapshot struct {
	ID        SnapshotID
	Name      string
	Timestamp time.Time
	Revision  RevisionID

	rope rope.Rope
}

// NewSnapshot pins rp under a fresh random ID.
func NewSnapshot(name string, rp rope.Rope, revision RevisionID) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		Name:      name,
		Timestamp: time.Now(),
		Revision:  revision,
		rope:      rp,
	}
}

func (s *Snapshot) Rope() rope.Rope { return s.rope }
func (s *Snapshot) Text() string    { return s.rope.String() }
func (s *Snapshot) Len() int        { return s.rope.Len() }

// SnapshotManager holds snapshots in creation order. Names are unique
// when non-empty: creating a snapshot under a taken name drops the old
// one. Safe for concurrent use.
type SnapshotManager struct {
	mu    sync.RWMutex
	order []*Snapshot
}

func NewSnapshotManager() *SnapshotManager {
	return &SnapshotManager{}
}

// Create pins rp as the newest snapshot.
func (sm *SnapshotManager) Create(name string, rp rope.Rope, revision RevisionID) *Snapshot {
	snap := NewSnapshot(name, rp, revision)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if name != "" {
		sm.order = slices.DeleteFunc(sm.order, func(s *Snapshot) bool { return s.Name == name })
	}
	sm.order = append(sm.order, snap)
	return snap
}

func (sm *SnapshotManager) find(match func(*Snapshot) bool) (*Snapshot, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if i := slices.IndexFunc(sm.order, match); i >= 0 {
		return sm.order[i], true
	}
	return nil, false
}

func (sm *SnapshotManager) Get(id SnapshotID) (*Snapshot, bool) {
	return sm.find(func(s *Snapshot) bool { return s.ID == id })
}

func (sm *SnapshotManager) GetByName(name string) (*Snapshot, bool) {
	if name == "" {
		return nil, false
	}
	return sm.find(func(s *Snapshot) bool { return s.Name == name })
}

// remove drops every snapshot matching f and reports how many went.
func (sm *SnapshotManager) remove(f func(*Snapshot) bool) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	n := len(sm.order)
	sm.order = slices.DeleteFunc(sm.order, f)
	return n - len(sm.order)
}

func (sm *SnapshotManager) Delete(id SnapshotID) {
	sm.remove(func(s *Snapshot) bool { return s.ID == id })
}

func (sm *SnapshotManager) DeleteByName(name string) {
	if name == "" {
		return
	}
	sm.remove(func(s *Snapshot) bool { return s.Name == name })
}

// List returns the snapshots oldest first.
func (sm *SnapshotManager) List() []*Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.order)
}

func (sm *SnapshotManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.order)
}

func (sm *SnapshotManager) Clear() {
	sm.mu.Lock()
	sm.order = nil
	sm.mu.Unlock()
}

// Names lists the non-empty names, oldest first.
func (sm *SnapshotManager) Names() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	var names []string
	for _, s := range sm.order {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}

// Prune drops snapshots older than maxAge.
func (sm *SnapshotManager) Prune(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	return sm.remove(func(s *Snapshot) bool { return s.Timestamp.Before(cutoff) })
}

// PruneKeepN drops the oldest snapshots until at most n remain.
func (sm *SnapshotManager) PruneKeepN(n int) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	excess := len(sm.order) - max(n, 0)
	if excess <= 0 {
		return 0
	}
	clear(sm.order[:excess])
	sm.order = slices.Clone(sm.order[excess:])
	return excess
}
