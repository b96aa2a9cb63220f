package btree

import "fmt"

// Slice is a read-only view of the range [start, end) of a tree. Creating
// a slice copies nothing.
type Slice[L Leaf[L, I], I Info[I]] struct {
	root  *Node[L, I]
	start int
	end   int
}

// Slice returns a view of [start, end). It panics if the range is invalid.
func (t Tree[L, I]) Slice(start, end int) Slice[L, I] {
	if start < 0 || start > end || end > t.Len() {
		panic(fmt.Sprintf("btree: slice [%d, %d) out of range [0, %d]", start, end, t.Len()))
	}
	t.init()
	return Slice[L, I]{root: t.root, start: start, end: end}
}

// Start returns the offset of the slice in its tree.
func (s Slice[L, I]) Start() int {
	return s.start
}

// Len returns the length of the slice.
func (s Slice[L, I]) Len() int {
	return s.end - s.start
}

// IsEmpty reports whether the slice has length zero.
func (s Slice[L, I]) IsEmpty() bool {
	return s.start == s.end
}

// Info returns the combined Info of the leaf content inside the slice.
func (s Slice[L, I]) Info() I {
	return rangeInfo(s.root, s.start, s.end)
}

// Subslice returns the view of [start, end) relative to s.
func (s Slice[L, I]) Subslice(start, end int) Slice[L, I] {
	if start < 0 || start > end || end > s.Len() {
		panic(fmt.Sprintf("btree: subslice [%d, %d) out of range [0, %d]", start, end, s.Len()))
	}
	return Slice[L, I]{root: s.root, start: s.start + start, end: s.start + end}
}

func rangeInfo[L Leaf[L, I], I Info[I]](n *Node[L, I], start, end int) I {
	if start >= end {
		return emptyInfo[I]()
	}
	if start == 0 && end == n.SummedLen() {
		return n.SummedInfo()
	}
	if !n.isBranch {
		_, tail := n.leaf.SplitAt(start)
		mid, _ := tail.SplitAt(end - start)
		return mid.Info()
	}
	info := emptyInfo[I]()
	offset := 0
	for i, child := range n.branch.nodes {
		l := n.branch.lens[i]
		lo, hi := max(start-offset, 0), min(end-offset, l)
		if lo < hi {
			info = info.Combine(rangeInfo(child, lo, hi))
		}
		offset += l
		if offset >= end {
			break
		}
	}
	return info
}

// CursorFront returns a cursor on the first leaf of the slice.
func (s Slice[L, I]) CursorFront() *Cursor[L, I] {
	c := newCursor(s)
	c.descendTo(s.start)
	return c
}

// CursorBack returns a cursor on the last leaf of the slice.
func (s Slice[L, I]) CursorBack() *Cursor[L, I] {
	c := newCursor(s)
	c.descendTo(s.end)
	return c
}

// CursorAt returns a cursor on the leaf containing the position pos,
// relative to the start of the slice. A position on a leaf boundary
// resolves to the leaf that starts there, except at the end of the slice.
func (s Slice[L, I]) CursorAt(pos int) *Cursor[L, I] {
	if pos < 0 || pos > s.Len() {
		panic(fmt.Sprintf("btree: cursor position %d out of range [0, %d]", pos, s.Len()))
	}
	c := newCursor(s)
	c.descendTo(s.start + pos)
	return c
}

// CursorFront returns a cursor on the first leaf of t.
func (t Tree[L, I]) CursorFront() *Cursor[L, I] {
	return t.Slice(0, t.Len()).CursorFront()
}

// CursorBack returns a cursor on the last leaf of t.
func (t Tree[L, I]) CursorBack() *Cursor[L, I] {
	return t.Slice(0, t.Len()).CursorBack()
}

// CursorAt returns a cursor on the leaf containing pos.
func (t Tree[L, I]) CursorAt(pos int) *Cursor[L, I] {
	return t.Slice(0, t.Len()).CursorAt(pos)
}

// SearchBy descends to the first leaf for which pred holds on the Info of
// everything up to and including that leaf. It returns a cursor on that
// leaf and the Info of everything before it. When pred holds nowhere, the
// cursor is on the last leaf and found is false.
func (t Tree[L, I]) SearchBy(pred func(total I) bool) (c *Cursor[L, I], before I, found bool) {
	c = newCursor(t.Slice(0, t.Len()))
	before = emptyInfo[I]()
	n := c.root
	for n.isBranch {
		index, lenBefore, infoBefore := n.branch.SearchBy(before, pred)
		c.position += lenBefore
		before = infoBefore
		c.path = append(c.path, frame[L, I]{branch: &n.branch, index: index})
		n = n.branch.nodes[index]
	}
	return c, before, pred(before.Combine(n.leaf.Info()))
}

type frame[L Leaf[L, I], I Info[I]] struct {
	branch *Branch[L, I]
	index  int
}

// Cursor is a position on one leaf of a tree or slice. It is cheap to
// move to adjacent leaves and is rebuilt for each traversal.
type Cursor[L Leaf[L, I], I Info[I]] struct {
	root     *Node[L, I]
	start    int
	end      int
	position int
	path     []frame[L, I]
}

func newCursor[L Leaf[L, I], I Info[I]](s Slice[L, I]) *Cursor[L, I] {
	return &Cursor[L, I]{
		root:  s.root,
		start: s.start,
		end:   s.end,
		path:  make([]frame[L, I], 0, 8),
	}
}

// Clone returns an independent copy of c.
func (c *Cursor[L, I]) Clone() *Cursor[L, I] {
	out := *c
	out.path = append(make([]frame[L, I], 0, cap(c.path)), c.path...)
	return &out
}

// Slice returns the slice c walks.
func (c *Cursor[L, I]) Slice() Slice[L, I] {
	return Slice[L, I]{root: c.root, start: c.start, end: c.end}
}

// IsAtFront reports whether the current leaf is the first leaf of the
// slice.
func (c *Cursor[L, I]) IsAtFront() bool {
	return c.position <= c.start
}

// IsAtBack reports whether the current leaf is the last leaf of the slice.
func (c *Cursor[L, I]) IsAtBack() bool {
	return c.position+c.node().SummedLen() >= c.end
}

// Position returns the offset of the current leaf relative to the start
// of the slice. For the first leaf, which may begin before the slice, it
// is zero.
func (c *Cursor[L, I]) Position() int {
	return max(c.position-c.start, 0)
}

// Leaf returns the current leaf.
func (c *Cursor[L, I]) Leaf() L {
	return c.node().leaf
}

// Range returns the part of the current leaf inside the slice.
func (c *Cursor[L, I]) Range() (start, end int) {
	l := c.node().SummedLen()
	return max(c.start-c.position, 0), l - max(c.position+l-c.end, 0)
}

// MoveNext moves to the next leaf. It panics at the back.
func (c *Cursor[L, I]) MoveNext() {
	if c.IsAtBack() {
		panic("btree: cursor moved past the back")
	}
	c.position += c.node().SummedLen()
	for len(c.path) > 0 {
		top := &c.path[len(c.path)-1]
		if top.index < top.branch.Len()-1 {
			top.index++
			break
		}
		c.path = c.path[:len(c.path)-1]
	}
	c.descendLeft()
}

// MovePrev moves to the previous leaf. It panics at the front.
func (c *Cursor[L, I]) MovePrev() {
	if c.IsAtFront() {
		panic("btree: cursor moved past the front")
	}
	for len(c.path) > 0 {
		top := &c.path[len(c.path)-1]
		if top.index > 0 {
			top.index--
			c.position -= top.branch.lens[top.index]
			break
		}
		c.path = c.path[:len(c.path)-1]
	}
	c.descendRight()
}

func (c *Cursor[L, I]) node() *Node[L, I] {
	if len(c.path) == 0 {
		return c.root
	}
	top := c.path[len(c.path)-1]
	return top.branch.nodes[top.index]
}

func (c *Cursor[L, I]) descendLeft() {
	for n := c.node(); n.isBranch; n = c.node() {
		c.path = append(c.path, frame[L, I]{branch: &n.branch, index: 0})
	}
}

func (c *Cursor[L, I]) descendRight() {
	for n := c.node(); n.isBranch; n = c.node() {
		last := n.branch.Len() - 1
		c.position += n.branch.summedLen - n.branch.lens[last]
		c.path = append(c.path, frame[L, I]{branch: &n.branch, index: last})
	}
}

func (c *Cursor[L, I]) descendTo(pos int) {
	c.path = c.path[:0]
	c.position = 0
	for n := c.root; n.isBranch; n = c.node() {
		index, before := n.branch.SearchByIndex(pos - c.position)
		c.position += before
		c.path = append(c.path, frame[L, I]{branch: &n.branch, index: index})
	}
	if c.position == c.end && c.position > c.start {
		c.MovePrev()
	}
}
