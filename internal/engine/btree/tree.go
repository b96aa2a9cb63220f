package btree

import "fmt"

// Tree is a persistent B-tree of leaves.
//
// The zero value is an empty tree. Methods with pointer receivers mutate
// the tree in place, copying only nodes shared with other versions. A Tree
// must not be mutated concurrently; distinct versions may be used from
// different goroutines once the Clone or Fork that separated them returns.
type Tree[L Leaf[L, I], I Info[I]] struct {
	root   *Node[L, I]
	height int
	ctx    *writeContext[L, I]
}

// New returns an empty tree.
func New[L Leaf[L, I], I Info[I]]() Tree[L, I] {
	return NewWithPool[L, I](nil)
}

// NewWithPool returns an empty tree whose nodes are recycled through pool.
// A nil pool disables recycling.
func NewWithPool[L Leaf[L, I], I Info[I]](pool *NodePool[L, I]) Tree[L, I] {
	ctx := newWriteContext(pool)
	var zero L
	return Tree[L, I]{root: ctx.newLeaf(zero), ctx: ctx}
}

// FromLeaves builds a balanced tree holding leaves in order.
func FromLeaves[L Leaf[L, I], I Info[I]](leaves ...L) Tree[L, I] {
	b := NewBuilder[L, I](nil)
	for _, leaf := range leaves {
		b.Push(leaf)
	}
	return b.Build()
}

func (t *Tree[L, I]) init() {
	if t.ctx == nil {
		t.ctx = newWriteContext[L, I](nil)
	}
	if t.root == nil {
		var zero L
		t.root = t.ctx.newLeaf(zero)
		t.height = 0
	}
}

func (t Tree[L, I]) pool() *NodePool[L, I] {
	if t.ctx == nil {
		return nil
	}
	return t.ctx.pool
}

// Len returns the total length of all leaves.
func (t Tree[L, I]) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.SummedLen()
}

// IsEmpty reports whether the tree has length zero.
func (t Tree[L, I]) IsEmpty() bool {
	return t.Len() == 0
}

// Info returns the combined Info of all leaves.
func (t Tree[L, I]) Info() I {
	if t.root == nil {
		return emptyInfo[I]()
	}
	return t.root.SummedInfo()
}

// Height returns the number of branch levels above the leaves.
func (t Tree[L, I]) Height() int {
	return t.height
}

// Root returns the root node. It is nil for the zero Tree.
func (t Tree[L, I]) Root() *Node[L, I] {
	return t.root
}

// Clone returns a tree sharing all nodes with t. Both trees receive fresh
// write contexts, so neither can mutate the nodes they now share.
func (t *Tree[L, I]) Clone() Tree[L, I] {
	t.init()
	pool := t.ctx.pool
	out := *t
	t.ctx = newWriteContext(pool)
	out.ctx = newWriteContext(pool)
	return out
}

// Fork returns a tree sharing all nodes with t under a fresh write
// context. The receiver keeps its context and must not be mutated in
// place while the fork is alive.
func (t Tree[L, I]) Fork() Tree[L, I] {
	t.init()
	t.ctx = newWriteContext(t.ctx.pool)
	return t
}

// take moves the contents of t out, leaving t empty.
func (t *Tree[L, I]) take() Tree[L, I] {
	t.init()
	out := *t
	*t = NewWithPool(t.ctx.pool)
	return out
}

// Append moves the leaves of other behind the leaves of t and leaves
// other empty.
func (t *Tree[L, I]) Append(other *Tree[L, I]) {
	t.init()
	o := other.take()
	if o.IsEmpty() {
		return
	}
	if t.IsEmpty() {
		t.root, t.height = o.root, o.height
		return
	}
	if o.height > 0 {
		first := o.firstLeaf()
		if t.lastLeaf().CanMergeWith(first) {
			rest := o.SplitOff(first.Len())
			t.appendInternal(o.root, o.height)
			o = rest
		}
	}
	t.appendInternal(o.root, o.height)
}

// Prepend moves the leaves of other in front of the leaves of t and
// leaves other empty.
func (t *Tree[L, I]) Prepend(other *Tree[L, I]) {
	t.init()
	o := other.take()
	if o.IsEmpty() {
		return
	}
	if t.IsEmpty() {
		t.root, t.height = o.root, o.height
		return
	}
	t.prependInternal(o.root, o.height)
}

func (t *Tree[L, I]) appendInternal(root *Node[L, I], height int) {
	if t.height < height {
		root = root.mutableFor(t.ctx)
		if spill := root.prependAtDepth(t.root, height-t.height); spill != nil {
			root = t.ctx.newBranchOf(spill, root)
			height++
		}
		t.root, t.height = root, height
		return
	}
	t.root = t.root.mutableFor(t.ctx)
	if spill := t.root.appendAtDepth(root, t.height-height); spill != nil {
		t.root = t.ctx.newBranchOf(t.root, spill)
		t.height++
	}
}

func (t *Tree[L, I]) prependInternal(root *Node[L, I], height int) {
	if t.height < height {
		root = root.mutableFor(t.ctx)
		if spill := root.appendAtDepth(t.root, height-t.height); spill != nil {
			root = t.ctx.newBranchOf(root, spill)
			height++
		}
		t.root, t.height = root, height
		return
	}
	t.root = t.root.mutableFor(t.ctx)
	if spill := t.root.prependAtDepth(root, t.height-height); spill != nil {
		t.root = t.ctx.newBranchOf(spill, t.root)
		t.height++
	}
}

// SplitOff truncates t to [0, at) and returns a tree holding [at, Len()).
// It panics if at is out of range.
func (t *Tree[L, I]) SplitOff(at int) Tree[L, I] {
	t.init()
	n := t.Len()
	if at < 0 || at > n {
		panic(fmt.Sprintf("btree: split position %d out of range [0, %d]", at, n))
	}
	if at == 0 {
		return t.take()
	}
	if at == n {
		return NewWithPool(t.ctx.pool)
	}
	t.root = t.root.mutableFor(t.ctx)
	otherRoot := t.root.splitOff(at)
	otherRoot, pulled := otherRoot.pullUpSingular(t.ctx)
	other := Tree[L, I]{
		root:   otherRoot,
		height: t.height - pulled,
		ctx:    newWriteContext(t.ctx.pool),
	}
	t.root, pulled = t.root.pullUpSingular(t.ctx)
	t.height -= pulled
	return other
}

// TruncateFront removes [0, end) from t.
func (t *Tree[L, I]) TruncateFront(end int) {
	t.init()
	n := t.Len()
	if end < 0 || end > n {
		panic(fmt.Sprintf("btree: truncate position %d out of range [0, %d]", end, n))
	}
	if end == 0 {
		return
	}
	if end == n {
		t.take()
		return
	}
	t.root = t.root.mutableFor(t.ctx)
	t.root.truncateFront(end)
	var pulled int
	t.root, pulled = t.root.pullUpSingular(t.ctx)
	t.height -= pulled
}

// TruncateBack removes [start, Len()) from t.
func (t *Tree[L, I]) TruncateBack(start int) {
	t.init()
	n := t.Len()
	if start < 0 || start > n {
		panic(fmt.Sprintf("btree: truncate position %d out of range [0, %d]", start, n))
	}
	if start == n {
		return
	}
	if start == 0 {
		t.take()
		return
	}
	t.root = t.root.mutableFor(t.ctx)
	t.root.truncateBack(start)
	var pulled int
	t.root, pulled = t.root.pullUpSingular(t.ctx)
	t.height -= pulled
}

// UpdateFront replaces the first leaf with f applied to it, copying only
// the nodes on the path to that leaf. f must not return an empty leaf
// unless the tree holds a single leaf.
func (t *Tree[L, I]) UpdateFront(f func(L) L) {
	t.init()
	t.root = t.root.mutableFor(t.ctx)
	updateEdge(t.root, f, true)
}

// UpdateBack is UpdateFront for the last leaf.
func (t *Tree[L, I]) UpdateBack(f func(L) L) {
	t.init()
	t.root = t.root.mutableFor(t.ctx)
	updateEdge(t.root, f, false)
}

// UpdateAt replaces the leaf containing pos with f applied to it and to
// pos relative to the leaf. A position on a leaf boundary resolves to the
// leaf that starts there, and the end of the tree to the last leaf. The
// leaf returned by f must not be empty unless it is the only leaf.
func (t *Tree[L, I]) UpdateAt(pos int, f func(leaf L, offset int) L) {
	t.init()
	if pos < 0 || pos > t.Len() {
		panic(fmt.Sprintf("btree: update position %d out of range [0, %d]", pos, t.Len()))
	}
	t.root = t.root.mutableFor(t.ctx)
	updateAt(t.root, pos, f)
}

func updateAt[L Leaf[L, I], I Info[I]](n *Node[L, I], pos int, f func(L, int) L) {
	if !n.isBranch {
		n.leaf = f(n.leaf, pos)
		return
	}
	index, before := n.branch.SearchByIndex(pos)
	n.branch.update(index, func(child *Node[L, I]) { updateAt(child, pos-before, f) })
}

func updateEdge[L Leaf[L, I], I Info[I]](n *Node[L, I], f func(L) L, front bool) {
	if !n.isBranch {
		n.leaf = f(n.leaf)
		return
	}
	descend := func(child *Node[L, I]) { updateEdge(child, f, front) }
	if front {
		n.branch.UpdateFront(descend)
	} else {
		n.branch.UpdateBack(descend)
	}
}

func (t Tree[L, I]) firstLeaf() L {
	n := t.root
	for n.isBranch {
		n = n.branch.nodes[0]
	}
	return n.leaf
}

func (t Tree[L, I]) lastLeaf() L {
	n := t.root
	for n.isBranch {
		n = n.branch.nodes[len(n.branch.nodes)-1]
	}
	return n.leaf
}

// Leaves calls yield for each leaf in order until yield returns false.
func (t Tree[L, I]) Leaves(yield func(L) bool) {
	if t.root == nil {
		return
	}
	walkLeaves(t.root, yield)
}

func walkLeaves[L Leaf[L, I], I Info[I]](n *Node[L, I], yield func(L) bool) bool {
	if !n.isBranch {
		return yield(n.leaf)
	}
	for _, child := range n.branch.nodes {
		if !walkLeaves(child, yield) {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants of t: every non-root branch
// holds between MinLen and MaxLen children, all leaves are at the same
// depth, cached child lengths are accurate, and only a single-leaf tree
// holds an empty leaf.
func (t Tree[L, I]) Validate() error {
	if t.root == nil {
		return nil
	}
	if t.root.isBranch && t.root.branch.Len() < 2 {
		return fmt.Errorf("btree: root branch has %d children", t.root.branch.Len())
	}
	return validateNode(t.root, t.height, true)
}

func validateNode[L Leaf[L, I], I Info[I]](n *Node[L, I], height int, isRoot bool) error {
	if !n.isBranch {
		if height != 0 {
			return fmt.Errorf("btree: leaf found %d levels above the bottom", height)
		}
		if !isRoot && n.leaf.IsEmpty() {
			return fmt.Errorf("btree: empty leaf below a branch")
		}
		return nil
	}
	if height == 0 {
		return fmt.Errorf("btree: branch found at leaf level")
	}
	b := &n.branch
	if b.Len() > MaxLen || (!isRoot && b.Len() < MinLen) {
		return fmt.Errorf("btree: branch at height %d has %d children", height, b.Len())
	}
	sum := 0
	for i, child := range b.nodes {
		if got := child.SummedLen(); got != b.lens[i] {
			return fmt.Errorf("btree: cached length %d of child %d, want %d", b.lens[i], i, got)
		}
		sum += b.lens[i]
		if err := validateNode(child, height-1, false); err != nil {
			return err
		}
	}
	if sum != b.summedLen {
		return fmt.Errorf("btree: summed length %d, want %d", b.summedLen, sum)
	}
	return nil
}
