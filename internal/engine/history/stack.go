package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/textcore/internal/engine/diff"
)

// DefaultMaxEntries is the undo limit used when none is given.
const DefaultMaxEntries = 1000

// Errors returned by Undo and Redo.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History keeps the undo and redo stacks for one text. It only records
// diffs; the caller applies what Undo and Redo hand back.
type History struct {
	mu   sync.Mutex
	undo []*Entry
	redo []*Entry
	open *pendingGroup
	max  int
}

// NewHistory keeps at most maxEntries undo entries, or DefaultMaxEntries
// when maxEntries is not positive.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{max: maxEntries}
}

// Push records an applied edit and drops the redo stack. Inside a group
// the edit is composed into the group entry.
func (h *History) Push(e Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.open != nil {
		h.redo = nil
		return h.open.add(e)
	}
	h.pushLocked(&e)
	return nil
}

func (h *History) pushLocked(e *Entry) {
	h.undo = append(h.undo, e)
	h.redo = nil
	h.trimLocked()
}

func (h *History) trimLocked() {
	if n := len(h.undo) - h.max; n > 0 {
		clear(h.undo[:n])
		h.undo = h.undo[n:]
	}
}

func pop(stack *[]*Entry) (*Entry, bool) {
	s := *stack
	if len(s) == 0 {
		return nil, false
	}
	e := s[len(s)-1]
	*stack = s[:len(s)-1]
	return e, true
}

func peek(stack []*Entry) (Info, bool) {
	if len(stack) == 0 {
		return Info{}, false
	}
	return stack[len(stack)-1].info(), true
}

// Undo moves the newest entry to the redo stack and returns it. The caller
// applies e.Inverse and restores e.Before. An open group is closed first.
func (h *History) Undo() (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeGroupLocked()
	e, ok := pop(&h.undo)
	if !ok {
		return Entry{}, ErrNothingToUndo
	}
	h.redo = append(h.redo, e)
	return *e, nil
}

// Redo moves the newest undone entry back. The caller applies e.Forward
// and restores e.After.
func (h *History) Redo() (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := pop(&h.redo)
	if !ok {
		return Entry{}, ErrNothingToRedo
	}
	h.undo = append(h.undo, e)
	return *e, nil
}

// CanUndo reports whether Undo has something to revert. An open group
// with edits in it counts.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0 || (h.open != nil && h.open.entry != nil)
}

// CanRedo reports whether there is an undone entry to redo.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoCount returns the number of undo entries, not counting an open
// group.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoCount returns the number of entries Redo can reapply.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// Clear forgets everything, including an open group.
func (h *History) Clear() {
	h.mu.Lock()
	h.undo, h.redo, h.open = nil, nil, nil
	h.mu.Unlock()
}

// UndoInfo describes the undo stack, oldest first.
func (h *History) UndoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undo)
}

// RedoInfo describes the redo stack, oldest first.
func (h *History) RedoInfo() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redo)
}

func infos(stack []*Entry) []Info {
	out := make([]Info, len(stack))
	for i, e := range stack {
		out[i] = e.info()
	}
	return out
}

// PeekUndo describes the entry Undo would return, without popping it.
func (h *History) PeekUndo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return peek(h.undo)
}

// PeekRedo describes the entry Redo would return, without popping it.
func (h *History) PeekRedo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return peek(h.redo)
}

// SetMaxEntries changes the undo limit, dropping the oldest entries if the
// stack is now too deep.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.max = n
	h.trimLocked()
}

// MaxEntries returns the undo limit.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.max
}

// Rebase adjusts every entry for a remote edit applied to the current text,
// so undo and redo keep working on the edited text and never revert the
// remote change. If rebasing fails the history is cleared and the error
// returned.
func (h *History) Rebase(remote diff.Diff) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	undo := h.undo
	if h.open != nil && h.open.entry != nil {
		undo = append(undo[:len(undo):len(undo)], h.open.entry)
	}
	err := rebaseUndo(undo, remote)
	if err == nil {
		err = rebaseRedo(h.redo, remote)
	}
	if err != nil {
		h.undo, h.redo, h.open = nil, nil, nil
		return fmt.Errorf("rebase history: %w", err)
	}
	return nil
}

// rebaseUndo walks undo entries from the newest. Each entry's Inverse is
// based on the text after it, where the remote diff applies.
func rebaseUndo(stack []*Entry, remote diff.Diff) error {
	for i := len(stack) - 1; i >= 0; i-- {
		e := stack[i]
		inverse, before, err := diff.Transform(e.Inverse, remote)
		if err != nil {
			return err
		}
		forward, _, err := diff.Transform(e.Forward, before)
		if err != nil {
			return err
		}
		e.Before = mapSels(e.Before, before)
		e.After = mapSels(e.After, remote)
		e.Forward, e.Inverse = forward, inverse
		remote = before
	}
	return nil
}

// rebaseRedo walks redo entries from the next one to redo. Each entry's
// Forward is based on the text before it.
func rebaseRedo(stack []*Entry, remote diff.Diff) error {
	for i := len(stack) - 1; i >= 0; i-- {
		e := stack[i]
		forward, after, err := diff.Transform(e.Forward, remote)
		if err != nil {
			return err
		}
		inverse, _, err := diff.Transform(e.Inverse, after)
		if err != nil {
			return err
		}
		e.Before = mapSels(e.Before, remote)
		e.After = mapSels(e.After, after)
		e.Forward, e.Inverse = forward, inverse
		remote = after
	}
	return nil
}
