package history

import (
	"errors"
	"slices"
	"testing"

	"github.com/dshills/textcore/internal/engine/diff"
	"github.com/dshills/textcore/internal/engine/selection"
)

func apply(t *testing.T, text string, d diff.Diff) string {
	t.Helper()
	out, err := d.Apply(text)
	if err != nil {
		t.Fatalf("apply %v to %q: %v", d, text, err)
	}
	return out
}

// insertEntry returns the entry for inserting s at offset into text, with
// the cursor moving from offset to the end of s.
func insertEntry(text string, offset int, s string) Entry {
	d := diff.Insertion(len(text), offset, s)
	return NewEntry("insert", d, diff.StringSource(text),
		[]selection.Sel{selection.Point(offset)},
		[]selection.Sel{selection.Point(offset + len(s))})
}

func TestEntryInvert(t *testing.T) {
	base := "hello world"
	e := NewEntry("replace", diff.Replace(len(base), 0, 5, "howdy"), diff.StringSource(base),
		[]selection.Sel{selection.New(0, 5)}, []selection.Sel{selection.Point(5)})
	after := apply(t, base, e.Forward)
	if after != "howdy world" {
		t.Fatalf("forward = %q", after)
	}
	if got := apply(t, after, e.Inverse); got != base {
		t.Errorf("inverse = %q, want %q", got, base)
	}
	inv := e.Invert()
	if got := apply(t, base, inv.Inverse); got != after {
		t.Errorf("inverted entry inverse = %q", got)
	}
	if inv.Before[0] != selection.Point(5) || inv.After[0] != selection.New(0, 5) {
		t.Errorf("inverted selections = %v, %v", inv.Before, inv.After)
	}
	if e.BytesDelta() != 0 || insertEntry("ab", 1, "xyz").BytesDelta() != 3 {
		t.Error("BytesDelta wrong")
	}
}

func TestEntryThen(t *testing.T) {
	text := "ab"
	first := insertEntry(text, 1, "X")
	mid := apply(t, text, first.Forward)
	second := insertEntry(mid, 3, "Y")
	both, err := first.Then(second)
	if err != nil {
		t.Fatal(err)
	}
	end := apply(t, text, both.Forward)
	if end != "aXbY" {
		t.Fatalf("composed forward = %q", end)
	}
	if got := apply(t, end, both.Inverse); got != text {
		t.Errorf("composed inverse = %q", got)
	}
	if both.Before[0] != selection.Point(1) || both.After[0] != selection.Point(4) {
		t.Errorf("selections = %v, %v", both.Before, both.After)
	}
	if _, err := first.Then(first); !errors.Is(err, diff.ErrLengthMismatch) {
		t.Errorf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestHistoryPushAndUndo(t *testing.T) {
	h := NewHistory(100)
	text := "abc"
	e := insertEntry(text, 3, "x")
	if err := h.Push(e); err != nil {
		t.Fatal(err)
	}
	text = apply(t, text, e.Forward)

	got, err := h.Undo()
	if err != nil {
		t.Fatal(err)
	}
	text = apply(t, text, got.Inverse)
	if text != "abc" {
		t.Errorf("after undo = %q", text)
	}
	if h.CanUndo() || !h.CanRedo() {
		t.Error("stacks wrong after undo")
	}

	got, err = h.Redo()
	if err != nil {
		t.Fatal(err)
	}
	if text = apply(t, text, got.Forward); text != "abcx" {
		t.Errorf("after redo = %q", text)
	}
	if !h.CanUndo() || h.CanRedo() {
		t.Error("stacks wrong after redo")
	}
}

func TestHistoryRedoClearedOnPush(t *testing.T) {
	h := NewHistory(100)
	_ = h.Push(insertEntry("", 0, "a"))
	_, _ = h.Undo()
	if h.RedoCount() != 1 {
		t.Fatal("redo not available")
	}
	_ = h.Push(insertEntry("", 0, "b"))
	if h.RedoCount() != 0 {
		t.Error("redo stack survived a push")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := NewHistory(3)
	text := ""
	for range 5 {
		e := insertEntry(text, len(text), "x")
		_ = h.Push(e)
		text += "x"
	}
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", h.UndoCount())
	}
	h.SetMaxEntries(1)
	if h.UndoCount() != 1 || h.MaxEntries() != 1 {
		t.Errorf("after SetMaxEntries: %d entries, max %d", h.UndoCount(), h.MaxEntries())
	}
	if NewHistory(0).MaxEntries() != DefaultMaxEntries {
		t.Error("default limit not applied")
	}
}

func TestHistoryErrors(t *testing.T) {
	h := NewHistory(10)
	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo err = %v", err)
	}
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo err = %v", err)
	}
}

func TestHistoryGrouping(t *testing.T) {
	h := NewHistory(100)
	text := "go"
	h.BeginGroup("typing")
	h.BeginGroup("nested")
	for _, s := range []string{"p", "h", "e", "r"} {
		e := insertEntry(text, len(text), s)
		if err := h.Push(e); err != nil {
			t.Fatal(err)
		}
		text = apply(t, text, e.Forward)
	}
	if !h.IsGrouping() || h.UndoCount() != 0 || !h.CanUndo() {
		t.Fatal("group state wrong while open")
	}
	h.EndGroup()
	if h.IsGrouping() || h.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", h.UndoCount())
	}
	e, err := h.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if e.Name != "typing" {
		t.Errorf("group name = %q", e.Name)
	}
	if got := apply(t, text, e.Inverse); got != "go" {
		t.Errorf("group undo = %q", got)
	}
	if e.Before[0] != selection.Point(2) || e.After[0] != selection.Point(6) {
		t.Errorf("group selections = %v, %v", e.Before, e.After)
	}
}

func TestHistoryEmptyGroup(t *testing.T) {
	h := NewHistory(100)
	h.BeginGroup("nothing")
	h.EndGroup()
	if h.UndoCount() != 0 {
		t.Error("empty group recorded")
	}
}

func TestHistoryCancelGroup(t *testing.T) {
	h := NewHistory(100)
	h.BeginGroup("draft")
	_ = h.Push(insertEntry("abc", 0, "x"))
	e, ok := h.CancelGroup()
	if !ok || apply(t, "xabc", e.Inverse) != "abc" {
		t.Errorf("cancelled entry = %+v, %v", e, ok)
	}
	if h.CanUndo() || h.IsGrouping() {
		t.Error("cancelled group recorded")
	}
	if _, ok := h.CancelGroup(); ok {
		t.Error("second cancel returned an entry")
	}
}

func TestUndoClosesGroup(t *testing.T) {
	h := NewHistory(100)
	h.BeginGroup("open")
	_ = h.Push(insertEntry("", 0, "a"))
	e, err := h.Undo()
	if err != nil || e.Name != "open" {
		t.Fatalf("Undo = %+v, %v", e, err)
	}
	if h.IsGrouping() {
		t.Error("group still open")
	}
}

func TestHistoryGroupScope(t *testing.T) {
	h := NewHistory(100)
	func() {
		scope := h.GroupScope("scoped")
		defer scope.End()
		_ = h.Push(insertEntry("", 0, "a"))
		_ = h.Push(insertEntry("a", 1, "b"))
	}()
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", h.UndoCount())
	}
}

func TestHistoryInfo(t *testing.T) {
	h := NewHistory(100)
	_ = h.Push(insertEntry("", 0, "ab"))
	_ = h.Push(insertEntry("ab", 2, "c"))
	info := h.UndoInfo()
	if len(info) != 2 || info[0].BytesDelta != 2 || info[1].BytesDelta != 1 {
		t.Errorf("UndoInfo = %+v", info)
	}
	if top, ok := h.PeekUndo(); !ok || top.BytesDelta != 1 {
		t.Errorf("PeekUndo = %+v, %v", top, ok)
	}
	_, _ = h.Undo()
	if top, ok := h.PeekRedo(); !ok || top.BytesDelta != 1 || len(h.RedoInfo()) != 1 {
		t.Errorf("PeekRedo = %+v, %v", top, ok)
	}
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear left entries")
	}
	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo on empty history")
	}
}

func TestHistoryCheckpoint(t *testing.T) {
	h := NewHistory(100)
	text := "base"
	_ = h.Push(insertEntry(text, 0, "1"))
	text = "1base"
	cp := h.CreateCheckpoint()
	for _, s := range []string{"2", "3"} {
		e := insertEntry(text, 0, s)
		_ = h.Push(e)
		text = apply(t, text, e.Forward)
	}
	undone := h.UndoToCheckpoint(cp)
	if len(undone) != 2 {
		t.Fatalf("undid %d entries, want 2", len(undone))
	}
	for _, e := range undone {
		text = apply(t, text, e.Inverse)
	}
	if text != "1base" {
		t.Errorf("text = %q, want 1base", text)
	}
}

func TestRebaseUndo(t *testing.T) {
	h := NewHistory(100)
	text := "hello"
	local := insertEntry(text, 5, " world")
	_ = h.Push(local)
	text = apply(t, text, local.Forward)

	remote := diff.Insertion(len(text), 0, ">> ")
	text = apply(t, text, remote)
	if err := h.Rebase(remote); err != nil {
		t.Fatal(err)
	}

	e, err := h.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if text = apply(t, text, e.Inverse); text != ">> hello" {
		t.Errorf("undo after remote = %q, want %q", text, ">> hello")
	}
	if !slices.Equal(e.Before, []selection.Sel{selection.Point(8)}) {
		t.Errorf("Before = %v, want [Sel(8)]", e.Before)
	}
	if !slices.Equal(e.After, []selection.Sel{selection.Point(14)}) {
		t.Errorf("After = %v, want [Sel(14)]", e.After)
	}
	e, err = h.Redo()
	if err != nil {
		t.Fatal(err)
	}
	if text = apply(t, text, e.Forward); text != ">> hello world" {
		t.Errorf("redo after remote = %q", text)
	}
}

func TestRebaseRedo(t *testing.T) {
	h := NewHistory(100)
	text := "abc"
	_ = h.Push(insertEntry(text, 1, "X"))
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}

	remote := diff.Insertion(len(text), 3, "Z")
	text = apply(t, text, remote)
	if err := h.Rebase(remote); err != nil {
		t.Fatal(err)
	}
	e, err := h.Redo()
	if err != nil {
		t.Fatal(err)
	}
	if text = apply(t, text, e.Forward); text != "aXbcZ" {
		t.Errorf("redo = %q, want aXbcZ", text)
	}
	if text = apply(t, text, e.Inverse); text != "abcZ" {
		t.Errorf("undo = %q, want abcZ", text)
	}
}

func TestRebaseOpenGroup(t *testing.T) {
	h := NewHistory(100)
	text := "ab"
	h.BeginGroup("typing")
	e := insertEntry(text, 2, "c")
	_ = h.Push(e)
	text = apply(t, text, e.Forward)

	remote := diff.Insertion(len(text), 0, "_")
	text = apply(t, text, remote)
	if err := h.Rebase(remote); err != nil {
		t.Fatal(err)
	}
	e = insertEntry(text, 4, "d")
	if err := h.Push(e); err != nil {
		t.Fatal(err)
	}
	text = apply(t, text, e.Forward)
	h.EndGroup()

	undo, err := h.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if text = apply(t, text, undo.Inverse); text != "_ab" {
		t.Errorf("undo = %q, want _ab", text)
	}
}

func TestRebaseMismatchClears(t *testing.T) {
	h := NewHistory(100)
	_ = h.Push(insertEntry("abc", 0, "x"))
	if err := h.Rebase(diff.Identity(99)); !errors.Is(err, diff.ErrLengthMismatch) {
		t.Errorf("err = %v, want ErrLengthMismatch", err)
	}
	if h.CanUndo() {
		t.Error("history kept after failed rebase")
	}
}

func TestGroupPushClearsRedo(t *testing.T) {
	h := NewHistory(100)
	_ = h.Push(insertEntry("", 0, "a"))
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	h.BeginGroup("typing")
	_ = h.Push(insertEntry("", 0, "b"))
	if h.CanRedo() {
		t.Error("an edit inside a group should clear redo")
	}
	h.EndGroup()
}
