package btree

// Builder assembles a tree from leaves pushed in order. Full groups of
// MaxLen nodes are packed into branches as they arrive, so building is
// linear in the number of leaves.
type Builder[L Leaf[L, I], I Info[I]] struct {
	ctx   *writeContext[L, I]
	stack []builderLevel[L, I]
}

type builderLevel[L Leaf[L, I], I Info[I]] struct {
	height int
	nodes  []*Node[L, I]
}

// NewBuilder returns a builder whose tree recycles nodes through pool.
func NewBuilder[L Leaf[L, I], I Info[I]](pool *NodePool[L, I]) *Builder[L, I] {
	return &Builder[L, I]{ctx: newWriteContext(pool)}
}

// Push appends leaf. Empty leaves are ignored.
func (b *Builder[L, I]) Push(leaf L) {
	if leaf.IsEmpty() {
		return
	}
	height := 0
	node := b.ctx.newLeaf(leaf)
	for {
		if len(b.stack) == 0 || b.stack[len(b.stack)-1].height != height {
			b.stack = append(b.stack, builderLevel[L, I]{height: height})
		}
		top := &b.stack[len(b.stack)-1]
		top.nodes = append(top.nodes, node)
		if len(top.nodes) < MaxLen {
			return
		}
		node = b.ctx.newBranchOf(top.nodes...)
		b.stack = b.stack[:len(b.stack)-1]
		height++
	}
}

// Build returns the tree and resets the builder.
func (b *Builder[L, I]) Build() Tree[L, I] {
	t := Tree[L, I]{ctx: b.ctx}
	t.init()
	for len(b.stack) > 0 {
		level := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		for i := len(level.nodes) - 1; i >= 0; i-- {
			if t.IsEmpty() {
				t.root, t.height = level.nodes[i], level.height
				continue
			}
			t.prependInternal(level.nodes[i], level.height)
		}
	}
	b.ctx = newWriteContext(b.ctx.pool)
	return t
}
