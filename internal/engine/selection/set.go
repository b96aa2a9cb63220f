package selection

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/dshills/textcore/internal/engine/diff"
)

// SelSet is the normalized set of active selections of one editing session.
//
// One selection is distinguished as the latest: the one most recently added
// or moved, which scrolling and single-cursor commands follow. The others are
// kept in earlier, sorted by Start. After every exported method returns, no
// two selections overlap and iteration yields strictly increasing starts.
//
// SelSet is not safe for concurrent use.
type SelSet struct {
	latest  Sel
	earlier []Sel
}

// NewSet returns a set holding a single selection.
func NewSet(sel Sel) *SelSet {
	return &SelSet{latest: sel}
}

// NewSetFrom returns a set holding sels, with the last one as latest.
// An empty input yields an insertion point at 0.
func NewSetFrom(sels []Sel) *SelSet {
	if len(sels) == 0 {
		return NewSet(Point(0))
	}
	set := &SelSet{
		latest:  sels[len(sels)-1],
		earlier: slices.Clone(sels[:len(sels)-1]),
	}
	set.normalizeEarlier()
	set.normalizeLatest()
	return set
}

// Latest returns the most recently added or moved selection.
func (set *SelSet) Latest() Sel {
	return set.latest
}

// LatestIndex returns the position of the latest selection in iteration order.
func (set *SelSet) LatestIndex() int {
	return set.insertionPoint(set.latest)
}

// Len returns the number of selections.
func (set *SelSet) Len() int {
	return len(set.earlier) + 1
}

// IsMulti reports whether more than one selection is active.
func (set *SelSet) IsMulti() bool {
	return len(set.earlier) > 0
}

// HasSelection reports whether any selection is non-empty.
func (set *SelSet) HasSelection() bool {
	for s := range set.Iter() {
		if !s.IsEmpty() {
			return true
		}
	}
	return false
}

// Iter yields every selection in increasing Start order, interleaving
// latest into earlier.
func (set *SelSet) Iter() iter.Seq[Sel] {
	return func(yield func(Sel) bool) {
		latestDone := false
		for _, s := range set.earlier {
			if !latestDone && set.latest.Start() < s.Start() {
				latestDone = true
				if !yield(set.latest) {
					return
				}
			}
			if !yield(s) {
				return
			}
		}
		if !latestDone {
			yield(set.latest)
		}
	}
}

// All returns a copy of every selection in increasing Start order.
func (set *SelSet) All() []Sel {
	out := make([]Sel, 0, set.Len())
	for s := range set.Iter() {
		out = append(out, s)
	}
	return out
}

// State returns the selections with the latest one last, so that
// NewSetFrom(set.State()) rebuilds an equal set.
func (set *SelSet) State() []Sel {
	out := make([]Sel, 0, set.Len())
	out = append(out, set.earlier...)
	return append(out, set.latest)
}

// Get returns the i-th selection in iteration order.
func (set *SelSet) Get(i int) Sel {
	li := set.LatestIndex()
	switch {
	case i == li:
		return set.latest
	case i < li:
		return set.earlier[i]
	default:
		return set.earlier[i-1]
	}
}

// UpdateLatest replaces the latest selection with f(latest) and merges it
// with any neighbour it now touches.
func (set *SelSet) UpdateLatest(f func(Sel) Sel) {
	set.latest = f(set.latest)
	set.normalizeLatest()
}

// UpdateAll applies f to every selection and restores the ordering.
func (set *SelSet) UpdateAll(f func(Sel) Sel) {
	for i, s := range set.earlier {
		set.earlier[i] = f(s)
	}
	set.normalizeEarlier()
	set.UpdateLatest(f)
}

// Push adds sel as the new latest selection.
func (set *SelSet) Push(sel Sel) {
	at := set.insertionPoint(set.latest)
	set.earlier = slices.Insert(set.earlier, at, set.latest)
	set.latest = sel
	set.normalizeLatest()
}

// Set replaces every selection with sel.
func (set *SelSet) Set(sel Sel) {
	set.earlier = set.earlier[:0]
	set.latest = sel
}

// ApplyDiff maps every selection through d. See Sel.ApplyDiff for the
// meaning of local.
func (set *SelSet) ApplyDiff(d diff.Diff, local bool) {
	set.UpdateAll(func(s Sel) Sel { return s.ApplyDiff(d, local) })
}

// Collapse drops every selection except the latest.
func (set *SelSet) Collapse() {
	set.earlier = set.earlier[:0]
}

// CollapseAll turns every selection into an insertion point at its cursor.
func (set *SelSet) CollapseAll() {
	set.UpdateAll(Sel.Collapse)
}

// Clamp limits every selection to [0, maxPos].
func (set *SelSet) Clamp(maxPos int) {
	set.UpdateAll(func(s Sel) Sel { return s.Clamp(maxPos) })
}

// Remove deletes the i-th selection in iteration order. Removing the latest
// promotes the selection before it, or after it when it was first. The last
// remaining selection cannot be removed; Remove reports whether it removed
// anything.
func (set *SelSet) Remove(i int) bool {
	if i < 0 || i >= set.Len() || set.Len() == 1 {
		return false
	}
	li := set.LatestIndex()
	switch {
	case i < li:
		set.earlier = slices.Delete(set.earlier, i, i+1)
	case i > li:
		set.earlier = slices.Delete(set.earlier, i-1, i)
	default:
		at := max(li-1, 0)
		set.latest = set.earlier[at]
		set.earlier = slices.Delete(set.earlier, at, at+1)
	}
	return true
}

// Clone returns an independent copy of the set.
func (set *SelSet) Clone() *SelSet {
	return &SelSet{latest: set.latest, earlier: slices.Clone(set.earlier)}
}

// Equals reports whether both sets hold the same selections with the same
// latest.
func (set *SelSet) Equals(other *SelSet) bool {
	if other == nil {
		return false
	}
	return set.latest == other.latest && slices.Equal(set.earlier, other.earlier)
}

// String returns a string representation of the set.
func (set *SelSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	n := 0
	for s := range set.Iter() {
		if n > 0 {
			sb.WriteByte(' ')
		}
		if s == set.latest {
			sb.WriteByte('*')
		}
		sb.WriteString(s.String())
		n++
	}
	sb.WriteByte(']')
	return sb.String()
}

// insertionPoint returns the index in earlier before which s belongs.
func (set *SelSet) insertionPoint(s Sel) int {
	start := s.Start()
	return sort.Search(len(set.earlier), func(i int) bool {
		return set.earlier[i].Start() > start
	})
}

// normalizeLatest merges latest with its neighbours in earlier until
// neither side merges.
func (set *SelSet) normalizeLatest() {
	at := set.insertionPoint(set.latest)
	for merged := true; merged; {
		merged = false
		for at > 0 {
			m, ok := set.latest.TryMerge(set.earlier[at-1])
			if !ok {
				break
			}
			set.latest = m
			set.earlier = slices.Delete(set.earlier, at-1, at)
			at--
			merged = true
		}
		for at < len(set.earlier) {
			m, ok := set.latest.TryMerge(set.earlier[at])
			if !ok {
				break
			}
			set.latest = m
			set.earlier = slices.Delete(set.earlier, at, at+1)
			merged = true
		}
	}
}

// normalizeEarlier sorts earlier by Start and merges adjacent pairs.
func (set *SelSet) normalizeEarlier() {
	if len(set.earlier) <= 1 {
		return
	}
	sort.SliceStable(set.earlier, func(i, j int) bool {
		return set.earlier[i].Start() < set.earlier[j].Start()
	})
	merged := set.earlier[:1]
	for _, s := range set.earlier[1:] {
		last := &merged[len(merged)-1]
		if m, ok := last.TryMerge(s); ok {
			*last = m
		} else {
			merged = append(merged, s)
		}
	}
	set.earlier = merged
}
