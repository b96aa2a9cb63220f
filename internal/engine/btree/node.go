package btree

// writeContext identifies the tree allowed to mutate a node in place.
// A tree may write to a node only if the node carries the tree's context;
// every other node is cloned first.
type writeContext[L Leaf[L, I], I Info[I]] struct {
	pool *NodePool[L, I]
}

func newWriteContext[L Leaf[L, I], I Info[I]](pool *NodePool[L, I]) *writeContext[L, I] {
	return &writeContext[L, I]{pool: pool}
}

func (c *writeContext[L, I]) newLeaf(leaf L) *Node[L, I] {
	n := c.pool.get()
	n.ctx = c
	n.leaf = leaf
	n.isBranch = false
	return n
}

func (c *writeContext[L, I]) newBranch() *Node[L, I] {
	n := c.pool.get()
	n.ctx = c
	n.isBranch = true
	n.branch.ctx = c
	if n.branch.nodes == nil {
		n.branch.nodes = make([]*Node[L, I], 0, MaxLen)
		n.branch.lens = make([]int, 0, MaxLen)
		n.branch.infos = make([]I, 0, MaxLen)
	}
	n.branch.summedInfo = emptyInfo[I]()
	return n
}

// newBranchOf returns a branch node holding children in order.
func (c *writeContext[L, I]) newBranchOf(children ...*Node[L, I]) *Node[L, I] {
	n := c.newBranch()
	for _, child := range children {
		n.branch.pushBack(child)
	}
	return n
}

// free returns n to the pool when n belongs to c. Nodes owned by other
// contexts may still be referenced elsewhere and are left alone.
func (c *writeContext[L, I]) free(n *Node[L, I]) {
	if n != nil && n.ctx == c {
		c.pool.put(n)
	}
}

// Node is either a leaf holding one L or a branch of child nodes.
type Node[L Leaf[L, I], I Info[I]] struct {
	ctx      *writeContext[L, I]
	leaf     L
	branch   Branch[L, I]
	isBranch bool
}

// IsLeaf reports whether n holds a leaf.
func (n *Node[L, I]) IsLeaf() bool {
	return !n.isBranch
}

// Leaf returns the leaf held by n. It is the zero L for branch nodes.
func (n *Node[L, I]) Leaf() L {
	return n.leaf
}

// Branch returns the branch held by n, or nil for a leaf node.
func (n *Node[L, I]) Branch() *Branch[L, I] {
	if !n.isBranch {
		return nil
	}
	return &n.branch
}

// SummedLen returns the total length of the leaves below n.
func (n *Node[L, I]) SummedLen() int {
	if n.isBranch {
		return n.branch.summedLen
	}
	return n.leaf.Len()
}

// SummedInfo returns the combined Info of the leaves below n.
func (n *Node[L, I]) SummedInfo() I {
	if n.isBranch {
		return n.branch.summedInfo
	}
	return n.leaf.Info()
}

// mutableFor returns n if c owns it, or a shallow copy owned by c.
// Children of the copy are still shared.
func (n *Node[L, I]) mutableFor(c *writeContext[L, I]) *Node[L, I] {
	if n.ctx == c {
		return n
	}
	if !n.isBranch {
		return c.newLeaf(n.leaf)
	}
	out := c.newBranch()
	out.branch.nodes = append(out.branch.nodes[:0], n.branch.nodes...)
	out.branch.lens = append(out.branch.lens[:0], n.branch.lens...)
	out.branch.infos = append(out.branch.infos[:0], n.branch.infos...)
	out.branch.summedLen = n.branch.summedLen
	out.branch.summedInfo = n.branch.summedInfo
	return out
}

// pullUpSingular replaces a chain of single-child branches by the node at
// its bottom and returns that node with the number of levels removed.
func (n *Node[L, I]) pullUpSingular(c *writeContext[L, I]) (*Node[L, I], int) {
	count := 0
	for n.isBranch && n.branch.Len() == 1 {
		child := n.branch.nodes[0]
		c.free(n)
		n = child
		count++
	}
	return n, count
}

// splitOff truncates n to [0, at) and returns a node holding the rest.
// n must be owned by its tree and 0 < at < n.SummedLen().
func (n *Node[L, I]) splitOff(at int) *Node[L, I] {
	c := n.ctx
	if !n.isBranch {
		left, right := n.leaf.SplitAt(at)
		n.leaf = left
		return c.newLeaf(right)
	}
	b := &n.branch
	index, before := b.SearchByIndex(at)
	if at == before {
		other := c.newBranch()
		b.moveRight(&other.branch, index)
		return other
	}
	other := c.newBranch()
	b.moveRight(&other.branch, index+1)
	node := b.PopBack().mutableFor(c)
	otherNode := node.splitOff(at - before)
	if b.IsEmpty() {
		b.pushBack(node)
	} else {
		node, count := node.pullUpSingular(c)
		mustNotSpill(n.appendAtDepth(node, count+1))
	}
	if other.branch.IsEmpty() {
		other.branch.pushFront(otherNode)
		return other
	}
	otherNode, count := otherNode.pullUpSingular(c)
	mustNotSpill(other.prependAtDepth(otherNode, count+1))
	return other
}

// truncateFront drops [0, end) from n. n must be owned by its tree and
// 0 < end < n.SummedLen().
func (n *Node[L, I]) truncateFront(end int) {
	c := n.ctx
	if !n.isBranch {
		_, n.leaf = n.leaf.SplitAt(end)
		return
	}
	b := &n.branch
	index, before := b.SearchByIndex(end)
	b.dropFront(index)
	if end == before {
		return
	}
	node := b.PopFront().mutableFor(c)
	node.truncateFront(end - before)
	if b.IsEmpty() {
		b.pushFront(node)
		return
	}
	node, count := node.pullUpSingular(c)
	mustNotSpill(n.prependAtDepth(node, count+1))
}

// truncateBack drops [start, len) from n. n must be owned by its tree and
// 0 < start < n.SummedLen().
func (n *Node[L, I]) truncateBack(start int) {
	c := n.ctx
	if !n.isBranch {
		n.leaf, _ = n.leaf.SplitAt(start)
		return
	}
	b := &n.branch
	index, before := b.SearchByIndex(start)
	if start == before {
		b.dropBack(index)
		return
	}
	b.dropBack(index + 1)
	node := b.PopBack().mutableFor(c)
	node.truncateBack(start - before)
	if b.IsEmpty() {
		b.pushBack(node)
		return
	}
	node, count := node.pullUpSingular(c)
	mustNotSpill(n.appendAtDepth(node, count+1))
}

// prependAtDepth inserts other in front of the leftmost node depth levels
// below n. other must have the height of that node. If the insertion
// overflows n, the spilled sibling that belongs before n is returned.
func (n *Node[L, I]) prependAtDepth(other *Node[L, I], depth int) *Node[L, I] {
	c := n.ctx
	if depth == 0 {
		if !n.isBranch {
			return n.prependLeaf(other)
		}
		other = other.mutableFor(c)
		if n.branch.PrependDistribute(&other.branch) {
			c.free(other)
			return nil
		}
		return other
	}
	b := &n.branch
	child := b.PopFront().mutableFor(c)
	spill := child.prependAtDepth(other, depth-1)
	b.pushFront(child)
	if spill == nil {
		return nil
	}
	return b.PushFrontSplit(spill)
}

// appendAtDepth is the mirror image of prependAtDepth. The spilled
// sibling, if any, belongs after n.
func (n *Node[L, I]) appendAtDepth(other *Node[L, I], depth int) *Node[L, I] {
	c := n.ctx
	if depth == 0 {
		if !n.isBranch {
			return n.appendLeaf(other)
		}
		other = other.mutableFor(c)
		if n.branch.AppendDistribute(&other.branch) {
			c.free(other)
			return nil
		}
		return other
	}
	b := &n.branch
	child := b.PopBack().mutableFor(c)
	spill := child.appendAtDepth(other, depth-1)
	b.pushBack(child)
	if spill == nil {
		return nil
	}
	return b.PushBackSplit(spill)
}

// prependLeaf merges the leaf node other in front of leaf node n, or
// rebalances the two and returns other when they do not fit in one leaf.
func (n *Node[L, I]) prependLeaf(other *Node[L, I]) *Node[L, I] {
	if other.leaf.CanMergeWith(n.leaf) {
		n.leaf = other.leaf.MergeWith(n.leaf)
		n.ctx.free(other)
		return nil
	}
	other = other.mutableFor(n.ctx)
	distributeLeaves(&other.leaf, &n.leaf)
	return other
}

func (n *Node[L, I]) appendLeaf(other *Node[L, I]) *Node[L, I] {
	if n.leaf.CanMergeWith(other.leaf) {
		n.leaf = n.leaf.MergeWith(other.leaf)
		n.ctx.free(other)
		return nil
	}
	other = other.mutableFor(n.ctx)
	distributeLeaves(&n.leaf, &other.leaf)
	return other
}

// distributeLeaves moves content between adjacent leaves a and b until
// their lengths are as close as their split boundaries allow.
func distributeLeaves[L Leaf[L, I], I Info[I]](a, b *L) {
	la, lb := (*a).Len(), (*b).Len()
	switch {
	case la < lb:
		end := (lb - la) / 2
		for end > 0 && !(*b).IsBoundary(end) {
			end--
		}
		if end == 0 {
			return
		}
		head, tail := (*b).SplitAt(end)
		*a = (*a).MergeWith(head)
		*b = tail
	case la > lb:
		start := (la + lb) / 2
		for start < la && !(*a).IsBoundary(start) {
			start++
		}
		if start == la {
			return
		}
		head, tail := (*a).SplitAt(start)
		*a = head
		*b = tail.MergeWith(*b)
	}
}

func mustNotSpill[L Leaf[L, I], I Info[I]](spill *Node[L, I]) {
	if spill != nil {
		panic("btree: unexpected branch overflow")
	}
}
