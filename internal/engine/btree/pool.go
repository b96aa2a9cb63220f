package btree

import "sync"

// NodePool recycles nodes released by tree operations.
//
// Only nodes owned by the mutating tree are ever returned to the pool, so
// nodes shared with other versions are left to the garbage collector.
// A pool is safe for concurrent use by multiple trees.
type NodePool[L Leaf[L, I], I Info[I]] struct {
	pool sync.Pool
}

// NewNodePool creates an empty pool.
func NewNodePool[L Leaf[L, I], I Info[I]]() *NodePool[L, I] {
	return &NodePool[L, I]{
		pool: sync.Pool{
			New: func() any {
				return &Node[L, I]{
					branch: Branch[L, I]{
						nodes: make([]*Node[L, I], 0, MaxLen),
						lens:  make([]int, 0, MaxLen),
						infos: make([]I, 0, MaxLen),
					},
				}
			},
		},
	}
}

// get returns a reset node.
func (p *NodePool[L, I]) get() *Node[L, I] {
	if p == nil {
		return &Node[L, I]{}
	}
	return p.pool.Get().(*Node[L, I])
}

// put clears n and stores it for reuse.
func (p *NodePool[L, I]) put(n *Node[L, I]) {
	if p == nil || n == nil {
		return
	}
	var zero L
	n.ctx = nil
	n.leaf = zero
	n.isBranch = false
	n.branch.reset()
	p.pool.Put(n)
}
