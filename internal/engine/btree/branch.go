package btree

const (
	// MaxLen is the maximum number of children of a branch.
	MaxLen = 8

	// MinLen is the minimum number of children of a non-root branch.
	MinLen = MaxLen / 2
)

// Branch is an ordered run of up to MaxLen child nodes with the length and
// Info of each child cached alongside it.
//
// Branch methods mutate the branch in place; callers must own the node
// holding it. Children are cloned before they are written unless they
// belong to the same write context as the branch.
type Branch[L Leaf[L, I], I Info[I]] struct {
	ctx        *writeContext[L, I]
	nodes      []*Node[L, I]
	lens       []int
	infos      []I
	summedLen  int
	summedInfo I
}

// Len returns the number of children.
func (b *Branch[L, I]) Len() int {
	return len(b.nodes)
}

// IsEmpty reports whether the branch has no children.
func (b *Branch[L, I]) IsEmpty() bool {
	return len(b.nodes) == 0
}

// IsFull reports whether the branch holds MaxLen children.
func (b *Branch[L, I]) IsFull() bool {
	return len(b.nodes) >= MaxLen
}

// Child returns the i-th child.
func (b *Branch[L, I]) Child(i int) *Node[L, I] {
	return b.nodes[i]
}

// ChildLen returns the cached length of the i-th child.
func (b *Branch[L, I]) ChildLen(i int) int {
	return b.lens[i]
}

// ChildInfo returns the cached Info of the i-th child.
func (b *Branch[L, I]) ChildInfo(i int) I {
	return b.infos[i]
}

// SummedLen returns the total length of all children.
func (b *Branch[L, I]) SummedLen() int {
	return b.summedLen
}

// SummedInfo returns the combined Info of all children.
func (b *Branch[L, I]) SummedInfo() I {
	return b.summedInfo
}

// PushFrontSplit inserts node as the first child. If the branch is full it
// is split at its midpoint first: the front half moves to a new sibling
// that receives node and is returned. The caller inserts the sibling before
// this branch one level up. The result is nil when no split happened.
func (b *Branch[L, I]) PushFrontSplit(node *Node[L, I]) *Node[L, I] {
	if !b.IsFull() {
		b.pushFront(node)
		return nil
	}
	other := b.ctx.newBranch()
	other.branch.moveLeft(b, b.Len()/2)
	other.branch.pushFront(node)
	return other
}

// PushBackSplit inserts node as the last child. If the branch is full its
// back half moves to a new sibling that receives node and is returned for
// insertion after this branch.
func (b *Branch[L, I]) PushBackSplit(node *Node[L, I]) *Node[L, I] {
	if !b.IsFull() {
		b.pushBack(node)
		return nil
	}
	other := b.ctx.newBranch()
	b.moveRight(&other.branch, b.Len()/2)
	other.branch.pushBack(node)
	return other
}

// PopFront removes and returns the first child, or nil if the branch is
// empty. The branch is not rebalanced.
func (b *Branch[L, I]) PopFront() *Node[L, I] {
	if b.IsEmpty() {
		return nil
	}
	node := b.nodes[0]
	b.removeRange(0, 1)
	return node
}

// PopBack removes and returns the last child, or nil if the branch is
// empty.
func (b *Branch[L, I]) PopBack() *Node[L, I] {
	if b.IsEmpty() {
		return nil
	}
	n := len(b.nodes) - 1
	node := b.nodes[n]
	b.removeRange(n, n+1)
	return node
}

// Prepend moves every child of other in front of the children of b.
// The combined length must not exceed MaxLen.
func (b *Branch[L, I]) Prepend(other *Branch[L, I]) {
	if b.Len()+other.Len() > MaxLen {
		panic("btree: prepend overflows branch")
	}
	other.moveRight(b, 0)
}

// Append moves every child of other behind the children of b.
// The combined length must not exceed MaxLen.
func (b *Branch[L, I]) Append(other *Branch[L, I]) {
	if b.Len()+other.Len() > MaxLen {
		panic("btree: append overflows branch")
	}
	b.moveLeft(other, other.Len())
}

// Distribute rebalances b and the branch other that follows it so that
// their lengths differ by at most one. Children keep their relative order.
func (b *Branch[L, I]) Distribute(other *Branch[L, I]) {
	switch la, lb := b.Len(), other.Len(); {
	case la < lb:
		b.moveLeft(other, (lb-la)/2)
	case la > lb:
		b.moveRight(other, (la+lb)/2)
	}
}

// PrependDistribute merges other, which precedes b, into b when the result
// fits. Otherwise the two are distributed and other stays a separate
// sibling. It reports whether the merge happened, leaving other empty.
func (b *Branch[L, I]) PrependDistribute(other *Branch[L, I]) bool {
	if b.Len()+other.Len() <= MaxLen {
		b.Prepend(other)
		return true
	}
	other.Distribute(b)
	return false
}

// AppendDistribute merges other, which follows b, into b when the result
// fits and otherwise distributes the two. It reports whether the merge
// happened.
func (b *Branch[L, I]) AppendDistribute(other *Branch[L, I]) bool {
	if b.Len()+other.Len() <= MaxLen {
		b.Append(other)
		return true
	}
	b.Distribute(other)
	return false
}

// SearchBy scans the children accumulating their Info on top of start and
// returns the index of the first child for which pred holds on the running
// total including that child, together with the length and Info of the
// children before it. If pred never holds the last child is returned.
func (b *Branch[L, I]) SearchBy(start I, pred func(total I) bool) (index, lenBefore int, infoBefore I) {
	infoBefore = start
	last := len(b.nodes) - 1
	for i := range b.nodes {
		total := infoBefore.Combine(b.infos[i])
		if i == last || pred(total) {
			return i, lenBefore, infoBefore
		}
		lenBefore += b.lens[i]
		infoBefore = total
	}
	return 0, 0, infoBefore
}

// SearchByIndex returns the index of the child containing position and the
// summed length of the children before it. A position at or past the end
// resolves to the last child.
func (b *Branch[L, I]) SearchByIndex(position int) (index, lenBefore int) {
	last := len(b.nodes) - 1
	for i, l := range b.lens {
		if i == last || position < lenBefore+l {
			return i, lenBefore
		}
		lenBefore += l
	}
	return 0, 0
}

// UpdateFront applies f to the first child, cloning the child first unless
// it belongs to this branch's write context, and refreshes the cached
// summary.
func (b *Branch[L, I]) UpdateFront(f func(*Node[L, I])) {
	b.update(0, f)
}

// UpdateBack is UpdateFront for the last child.
func (b *Branch[L, I]) UpdateBack(f func(*Node[L, I])) {
	b.update(len(b.nodes)-1, f)
}

func (b *Branch[L, I]) update(i int, f func(*Node[L, I])) {
	child := b.nodes[i].mutableFor(b.ctx)
	b.nodes[i] = child
	f(child)
	b.lens[i] = child.SummedLen()
	b.infos[i] = child.SummedInfo()
	b.resum()
}

func (b *Branch[L, I]) pushFront(node *Node[L, I]) {
	if b.IsFull() {
		panic("btree: push into full branch")
	}
	var zero I
	b.nodes = append(b.nodes, nil)
	b.lens = append(b.lens, 0)
	b.infos = append(b.infos, zero)
	copy(b.nodes[1:], b.nodes)
	copy(b.lens[1:], b.lens)
	copy(b.infos[1:], b.infos)
	b.nodes[0] = node
	b.lens[0] = node.SummedLen()
	b.infos[0] = node.SummedInfo()
	b.resum()
}

func (b *Branch[L, I]) pushBack(node *Node[L, I]) {
	if b.IsFull() {
		panic("btree: push into full branch")
	}
	b.nodes = append(b.nodes, node)
	b.lens = append(b.lens, node.SummedLen())
	b.infos = append(b.infos, node.SummedInfo())
	b.resum()
}

// moveLeft moves the first end children of other to the back of b.
func (b *Branch[L, I]) moveLeft(other *Branch[L, I], end int) {
	b.nodes = append(b.nodes, other.nodes[:end]...)
	b.lens = append(b.lens, other.lens[:end]...)
	b.infos = append(b.infos, other.infos[:end]...)
	other.removeRange(0, end)
	b.resum()
}

// moveRight moves the children of b from start on to the front of other.
func (b *Branch[L, I]) moveRight(other *Branch[L, I], start int) {
	n := len(b.nodes) - start
	if n == 0 {
		return
	}
	other.nodes = append(other.nodes, b.nodes[start:]...)
	other.lens = append(other.lens, b.lens[start:]...)
	other.infos = append(other.infos, b.infos[start:]...)
	if len(other.nodes) > n {
		rotateRight(other.nodes, n)
		rotateRight(other.lens, n)
		rotateRight(other.infos, n)
	}
	b.removeRange(start, len(b.nodes))
	other.resum()
}

func (b *Branch[L, I]) dropFront(end int) {
	b.removeRange(0, end)
}

func (b *Branch[L, I]) dropBack(start int) {
	b.removeRange(start, len(b.nodes))
}

func (b *Branch[L, I]) removeRange(start, end int) {
	if start == end {
		return
	}
	var zero I
	n := copy(b.nodes[start:], b.nodes[end:])
	copy(b.lens[start:], b.lens[end:])
	copy(b.infos[start:], b.infos[end:])
	newLen := start + n
	for i := newLen; i < len(b.nodes); i++ {
		b.nodes[i] = nil
		b.infos[i] = zero
	}
	b.nodes = b.nodes[:newLen]
	b.lens = b.lens[:newLen]
	b.infos = b.infos[:newLen]
	b.resum()
}

func (b *Branch[L, I]) resum() {
	b.summedLen = 0
	b.summedInfo = emptyInfo[I]()
	for i := range b.nodes {
		b.summedLen += b.lens[i]
		b.summedInfo = b.summedInfo.Combine(b.infos[i])
	}
}

func (b *Branch[L, I]) reset() {
	b.removeRange(0, len(b.nodes))
	b.ctx = nil
}

// rotateRight moves the last n elements of s to its front.
func rotateRight[T any](s []T, n int) {
	reverse(s)
	reverse(s[:n])
	reverse(s[n:])
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
