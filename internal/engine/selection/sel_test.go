package selection

import (
	"testing"

	"github.com/dshills/textcore/internal/engine/diff"
)

func TestSelBounds(t *testing.T) {
	s := New(7, 3)
	if s.Start() != 3 || s.End() != 7 || s.Len() != 4 {
		t.Errorf("bounds = %d..%d len %d", s.Start(), s.End(), s.Len())
	}
	if !s.IsReversed() || s.IsEmpty() {
		t.Error("direction wrong")
	}
	if !s.Contains(3) || s.Contains(7) {
		t.Error("Contains wrong at the ends")
	}
	if r := s.Reversed(); r.Cursor != 7 || r.Anchor != 3 {
		t.Errorf("Reversed = %v", r)
	}
	if c := s.Collapse(); c != Point(3) {
		t.Errorf("Collapse = %v", c)
	}
	if e := s.Extend(10); e != New(7, 10) {
		t.Errorf("Extend = %v", e)
	}
	if c := New(2, 50).Clamp(20); c != New(2, 20) {
		t.Errorf("Clamp = %v", c)
	}
	if c := Point(4).WithColumn(9); c.Column != 9 || c.Clamp(10).Column != 9 {
		t.Error("column lost by an unchanged Clamp")
	}
}

func TestTryMerge(t *testing.T) {
	tests := []struct {
		name  string
		self  Sel
		other Sel
		want  Sel
		ok    bool
	}{
		{"same point", Point(3), Point(3), Point(3), true},
		{"different points", Point(3), Point(4), Sel{}, false},
		{"point inside", Point(5), New(7, 3), New(7, 3), true},
		{"point at end", Point(7), New(3, 7), New(3, 7), true},
		{"point at start", Point(3), New(3, 7), New(3, 7), true},
		{"selection absorbs point at start", New(3, 7), Point(3), New(3, 7), true},
		{"point before", Point(2), New(3, 7), Sel{}, false},
		{"point after", Point(8), New(3, 7), Sel{}, false},
		{"overlap", New(0, 3), New(2, 5), New(0, 5), true},
		{"overlap self later", New(2, 5), New(0, 3), New(0, 5), true},
		{"overlap reversed self", New(3, 0), New(2, 5), New(5, 0), true},
		{"containment", New(0, 10), New(2, 4), New(0, 10), true},
		{"touching", New(0, 3), New(3, 5), Sel{}, false},
		{"disjoint", New(0, 3), New(4, 5), Sel{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.self.TryMerge(tt.other)
			if ok != tt.ok || got != tt.want {
				t.Errorf("TryMerge = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSelApplyDiff(t *testing.T) {
	tests := []struct {
		name  string
		sel   Sel
		d     diff.Diff
		local bool
		want  Sel
	}{
		{"local collapses", New(4, 1), diff.Insertion(10, 0, "ab"), true, Point(3)},
		{"local follows own insert", Point(5), diff.Insertion(10, 5, "xyz"), true, Point(8)},
		{"remote insert at start is covered", New(2, 5), diff.Insertion(10, 2, "xy"), false, New(2, 7)},
		{"remote insert at end is followed", New(2, 5), diff.Insertion(10, 5, "xy"), false, New(2, 7)},
		{"remote reversed", New(5, 2), diff.Insertion(10, 2, "xy"), false, New(7, 2)},
		{"remote point keeps position", Point(4), diff.Insertion(10, 4, "xy"), false, Point(4)},
		{"remote deletion overlapping", New(2, 8), diff.Deletion(10, 1, 6), false, New(1, 3)},
		{"remote insert before", New(2, 5), diff.Insertion(10, 0, "xy"), false, New(4, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.ApplyDiff(tt.d, tt.local); got != tt.want {
				t.Errorf("ApplyDiff = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelString(t *testing.T) {
	tests := map[Sel]string{
		Point(4):  "Sel(4)",
		New(1, 5): "Sel(1→5)",
		New(5, 1): "Sel(5←1)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String = %q, want %q", got, want)
		}
	}
}

func FuzzTryMerge(f *testing.F) {
	f.Add(uint8(0), uint8(3), uint8(2), uint8(5))
	f.Add(uint8(5), uint8(5), uint8(3), uint8(7))
	f.Add(uint8(4), uint8(4), uint8(4), uint8(4))
	f.Fuzz(func(t *testing.T, a1, c1, a2, c2 uint8) {
		s, o := New(int(a1), int(c1)), New(int(a2), int(c2))
		m, ok := s.TryMerge(o)
		if _, back := o.TryMerge(s); back != ok {
			t.Fatalf("merge of %v and %v not symmetric", s, o)
		}
		if !ok {
			if s.Start() < o.End() && o.Start() < s.End() {
				t.Fatalf("overlapping %v and %v not merged", s, o)
			}
			return
		}
		if m.Start() != min(s.Start(), o.Start()) || m.End() != max(s.End(), o.End()) {
			t.Fatalf("merge of %v and %v = %v does not cover both", s, o, m)
		}
	})
}
