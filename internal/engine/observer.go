package engine

import (
	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/diff"
	"github.com/dshills/textcore/internal/engine/rope"
	"github.com/dshills/textcore/internal/engine/tracking"
)

// ChangeKind says where a change came from.
type ChangeKind uint8

const (
	ChangeLocal ChangeKind = iota
	ChangeRemote
	ChangeUndo
	ChangeRedo
	ChangeRestore
)

// String returns the name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeLocal:
		return "local"
	case ChangeRemote:
		return "remote"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	case ChangeRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Change describes one applied edit.
type Change struct {
	Kind     ChangeKind
	Revision tracking.RevisionID
	Site     uuid.UUID

	// Diff turns the previous text into Text.
	Diff diff.Diff
	Text rope.Rope
}

// Observer is notified after each change on the goroutine that made it,
// outside the session lock. Observers may call back into the session.
type Observer func(Change)

type observerEntry struct {
	id uint64
	fn Observer
}

// Subscribe registers fn and returns a function that removes it.
func (s *Session) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) notify(changes []Change) {
	if len(changes) == 0 {
		return
	}
	s.obsMu.Lock()
	observers := s.observers
	s.obsMu.Unlock()

	for _, c := range changes {
		for _, o := range observers {
			o.fn(c)
		}
	}
}
