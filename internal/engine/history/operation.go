package history

import (
	"fmt"
	"slices"
	"time"

	"github.com/dshills/textcore/internal/engine/diff"
	"github.com/dshills/textcore/internal/engine/selection"
)

// Entry is one undoable edit. Forward turns the text before the edit into
// the text after it; Inverse undoes it.
type Entry struct {
	Name    string
	Forward diff.Diff
	Inverse diff.Diff

	// Selections to restore on undo and redo.
	Before []selection.Sel
	After  []selection.Sel

	Timestamp time.Time
}

// NewEntry returns an entry for forward applied to base. The inverse is
// derived from base.
func NewEntry(name string, forward diff.Diff, base diff.Source, before, after []selection.Sel) Entry {
	return Entry{
		Name:      name,
		Forward:   forward,
		Inverse:   forward.Invert(base),
		Before:    slices.Clone(before),
		After:     slices.Clone(after),
		Timestamp: time.Now(),
	}
}

// BytesDelta returns the change in text length made by the entry.
func (e Entry) BytesDelta() int {
	return e.Forward.TargetLen() - e.Forward.BaseLen()
}

// Invert returns the entry that undoes e.
func (e Entry) Invert() Entry {
	return Entry{
		Name:      e.Name,
		Forward:   e.Inverse,
		Inverse:   e.Forward,
		Before:    slices.Clone(e.After),
		After:     slices.Clone(e.Before),
		Timestamp: e.Timestamp,
	}
}

// Then returns an entry that performs e followed by next. The selections
// before e and after next are kept.
func (e Entry) Then(next Entry) (Entry, error) {
	forward, err := e.Forward.Compose(next.Forward)
	if err != nil {
		return Entry{}, fmt.Errorf("compose %q with %q: %w", e.Name, next.Name, err)
	}
	inverse, err := next.Inverse.Compose(e.Inverse)
	if err != nil {
		return Entry{}, fmt.Errorf("compose inverse of %q with %q: %w", next.Name, e.Name, err)
	}
	return Entry{
		Name:      e.Name,
		Forward:   forward,
		Inverse:   inverse,
		Before:    e.Before,
		After:     slices.Clone(next.After),
		Timestamp: next.Timestamp,
	}, nil
}

// Info describes an entry without its diffs.
type Info struct {
	Name       string
	BytesDelta int
	Timestamp  time.Time
}

func (e *Entry) info() Info {
	return Info{Name: e.Name, BytesDelta: e.BytesDelta(), Timestamp: e.Timestamp}
}

// mapSels maps selections through a remote diff.
func mapSels(sels []selection.Sel, d diff.Diff) []selection.Sel {
	out := make([]selection.Sel, len(sels))
	for i, s := range sels {
		out[i] = s.ApplyDiff(d, false)
	}
	return out
}
