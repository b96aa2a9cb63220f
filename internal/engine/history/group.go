package history

// pendingGroup collects the entries pushed between BeginGroup and EndGroup.
// entry is nil until the first push.
type pendingGroup struct {
	name  string
	entry *Entry
}

// add composes e onto the group.
func (g *pendingGroup) add(e Entry) error {
	if g.entry == nil {
		e.Name = g.name
		g.entry = &e
		return nil
	}
	merged, err := g.entry.Then(e)
	if err != nil {
		return err
	}
	g.entry = &merged
	return nil
}

// BeginGroup opens a group named name. Edits pushed until EndGroup undo as
// one entry. Nested calls are no-ops; the outer name wins.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	if h.open == nil {
		h.open = &pendingGroup{name: name}
	}
	h.mu.Unlock()
}

// EndGroup closes the open group. A group that recorded nothing leaves no
// entry behind.
func (h *History) EndGroup() {
	h.mu.Lock()
	h.closeGroupLocked()
	h.mu.Unlock()
}

func (h *History) closeGroupLocked() {
	g := h.open
	h.open = nil
	if g != nil && g.entry != nil {
		h.pushLocked(g.entry)
	}
}

// CancelGroup discards the open group and hands back what it recorded so
// the caller can apply e.Inverse. ok is false if there was nothing.
func (h *History) CancelGroup() (e Entry, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g := h.open
	h.open = nil
	if g == nil || g.entry == nil {
		return Entry{}, false
	}
	return *g.entry, true
}

// IsGrouping reports whether a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.open != nil
}

// GroupScope pairs BeginGroup with a deferrable End:
//
//	defer h.GroupScope("reindent").End()
type GroupScope struct {
	h    *History
	done bool
}

// GroupScope opens a group named name and returns its scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{h: h}
}

// End closes the group once; later calls do nothing.
func (g *GroupScope) End() {
	if g.done {
		return
	}
	g.done = true
	g.h.EndGroup()
}

// Checkpoint marks an undo depth to return to.
type Checkpoint int

// CreateCheckpoint marks the current undo depth. An open group is not
// counted.
func (h *History) CreateCheckpoint() Checkpoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Checkpoint(len(h.undo))
}

// UndoToCheckpoint moves every entry above cp to the redo stack in one
// step and returns them newest first, the order their inverses apply in.
// An open group is closed first.
func (h *History) UndoToCheckpoint(cp Checkpoint) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeGroupLocked()
	var out []Entry
	for len(h.undo) > int(cp) {
		e := h.undo[len(h.undo)-1]
		h.undo = h.undo[:len(h.undo)-1]
		h.redo = append(h.redo, e)
		out = append(out, *e)
	}
	return out
}
