// Package btree provides a generic, persistent B-tree over sequences of
// leaves.
//
// The tree stores an ordered sequence of Leaf values. Every branch caches
// the length and the aggregated Info of each of its children, so the tree
// supports positional and metric-based search, split, and concatenation in
// O(log n). A branch holds at most MaxLen children and every non-root
// branch holds at least MinLen.
//
// # Sharing
//
// Trees share structure. Each node is stamped with the write context of
// the tree that created it, and a tree only mutates nodes carrying its own
// context. Any other node is cloned before it is written (copy-on-write),
// so mutating one version of a tree never affects another:
//
//	a := btree.FromLeaves(leaves...)
//	b := a.Clone()       // O(1), a and b share every node
//	b.TruncateBack(10)   // copies only the nodes on the mutated path
//
// Clone gives both trees fresh contexts. Fork returns a new tree with a
// fresh context and leaves the receiver untouched; it is the building
// block for immutable wrappers such as the rope.
//
// # Cursors
//
// A Cursor walks the leaves of a tree or of a Slice in order. Moving to the
// next or previous leaf is amortized O(1); seeking is O(log n). A cursor is
// only valid while the version it was created from is not mutated in place.
//
// # Contract violations
//
// Capacity violations and cursor moves past either end are programming
// errors and panic.
package btree
