package selection

import (
	"slices"
	"strings"
	"testing"

	"github.com/dshills/textcore/internal/engine/rope"
)

// motionText lines: "abcdef", "ab", "abcdefgh", "\tx", "日本語".
const motionText = "abcdef\nab\nabcdefgh\n\tx\n日本語"

func TestVerticalMotionKeepsColumn(t *testing.T) {
	m := NewMover(rope.FromString(motionText), 4)
	s := Point(5)
	for _, want := range []int{9, 15, 21, 28, len(motionText)} {
		s = m.Down(s, false)
		if s.Cursor != want || !s.IsEmpty() {
			t.Fatalf("Down = %v, want Sel(%d)", s, want)
		}
		if s.Column != 5 {
			t.Fatalf("column = %d, want 5", s.Column)
		}
	}
	s = m.Up(Point(28).WithColumn(5), false)
	if s.Cursor != 21 {
		t.Errorf("Up from 28 = %v, want Sel(21)", s)
	}
	if s = m.Up(Point(2), true); s.Cursor != 0 || s.Anchor != 2 {
		t.Errorf("Up on first line = %v", s)
	}
}

func TestHorizontalMotion(t *testing.T) {
	m := NewMover(rope.FromString("ae\u0301b"), 0)
	if s := m.Right(Point(1), false); s != Point(4) {
		t.Errorf("Right over cluster = %v, want Sel(4)", s)
	}
	if s := m.Left(Point(4), false); s != Point(1) {
		t.Errorf("Left over cluster = %v, want Sel(1)", s)
	}
	if s := m.Left(Point(0), false); s != Point(0) {
		t.Errorf("Left at front = %v", s)
	}
	if s := m.Right(Point(5), false); s != Point(5) {
		t.Errorf("Right at back = %v", s)
	}
	if s := m.Left(New(1, 4), false); s != Point(1) {
		t.Errorf("Left collapses to start: %v", s)
	}
	if s := m.Right(New(4, 1), false); s != Point(4) {
		t.Errorf("Right collapses to end: %v", s)
	}
	if s := m.Left(New(0, 4), true); s != New(0, 1) {
		t.Errorf("Left extending = %v", s)
	}
}

func TestLineAndDocMotion(t *testing.T) {
	m := NewMover(rope.FromString(motionText), 4)
	if s := m.LineStart(Point(12), false); s != Point(10) {
		t.Errorf("LineStart = %v", s)
	}
	if s := m.LineEnd(Point(12), true); s != New(12, 18) {
		t.Errorf("LineEnd = %v", s)
	}
	if s := m.DocEnd(Point(3), false); s != Point(len(motionText)) {
		t.Errorf("DocEnd = %v", s)
	}
	if s := m.DocStart(Point(3), true); s != New(3, 0) {
		t.Errorf("DocStart = %v", s)
	}
	if s := m.SelectAll(); s != New(0, len(motionText)) {
		t.Errorf("SelectAll = %v", s)
	}
}

func TestDisplayColumn(t *testing.T) {
	m := NewMover(rope.FromString(motionText), 4)
	tests := []struct {
		pos  int
		want int
	}{
		{3, 3},
		{19, 0},
		{20, 4},
		{21, 5},
		{25, 2},
		{31, 6},
	}
	for _, tt := range tests {
		if got := m.DisplayColumn(tt.pos); got != tt.want {
			t.Errorf("DisplayColumn(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestOffsetAtColumn(t *testing.T) {
	tests := []struct {
		line string
		goal int
		want int
	}{
		{"abc", 2, 2},
		{"abc", 9, 3},
		{"\tx", 2, 0},
		{"\tx", 4, 1},
		{"日本", 1, 0},
		{"日本", 2, 3},
	}
	for _, tt := range tests {
		if got := offsetAtColumn(tt.line, tt.goal, 4); got != tt.want {
			t.Errorf("offsetAtColumn(%q, %d) = %d, want %d", tt.line, tt.goal, got, tt.want)
		}
	}
}

func TestDeleteDiffs(t *testing.T) {
	text := "abc"
	m := NewMover(rope.FromString(text), 4)

	set := NewSetFrom([]Sel{Point(1), Point(2)})
	d := m.DeleteBackwardDiff(set)
	if out, _ := d.Apply(text); out != "c" {
		t.Errorf("backspace = %q, want c", out)
	}
	set.ApplyDiff(d, true)
	if got := set.All(); !slices.Equal(got, []Sel{Point(0)}) {
		t.Errorf("selections after backspace = %v", got)
	}

	if d := m.DeleteBackwardDiff(NewSet(Point(0))); !d.IsIdentity() {
		t.Errorf("backspace at front = %v", d)
	}

	cluster := "ae\u0301b"
	m = NewMover(rope.FromString(cluster), 4)
	d = m.DeleteForwardDiff(NewSet(Point(1)))
	if out, _ := d.Apply(cluster); out != "ab" {
		t.Errorf("delete = %q, want ab", out)
	}
	d = m.DeleteForwardDiff(NewSet(New(0, 2)))
	if out, _ := d.Apply(cluster); out != "\u0301b" {
		t.Errorf("delete selection = %q", out)
	}
}

func TestReplaceDiffMixedSelections(t *testing.T) {
	text := strings.Repeat("word ", 4)
	set := NewSetFrom([]Sel{New(0, 4), Point(10), New(19, 15)})
	d := ReplaceDiff(set, len(text), "X")
	out, err := d.Apply(text)
	if err != nil {
		t.Fatal(err)
	}
	if out != "X word Xword X " {
		t.Errorf("replaced = %q", out)
	}
	set.ApplyDiff(d, true)
	if got := set.All(); !slices.Equal(got, []Sel{Point(1), Point(8), Point(14)}) {
		t.Errorf("selections = %v", got)
	}
}
