package btree

// Info is an associative summary of a run of leaves. Order matters:
// a.Combine(b) summarizes a followed by b.
type Info[I any] interface {
	// Empty returns the identity element of Combine.
	Empty() I

	// Combine returns the summary of the receiver followed by other.
	Combine(other I) I
}

// Leaf is a payload stored at the bottom of the tree.
//
// The zero value of a Leaf type must be a valid empty leaf. Leaves are
// treated as values: SplitAt and MergeWith return new leaves and never
// modify the receiver.
type Leaf[L any, I Info[I]] interface {
	// Len returns the length of the leaf in positions.
	Len() int

	// IsEmpty reports whether Len is zero.
	IsEmpty() bool

	// Info returns the summary of the whole leaf.
	Info() I

	// IsBoundary reports whether the leaf may be split at index.
	// It must hold for 0 and Len().
	IsBoundary(index int) bool

	// SplitAt returns the leaf's contents before and after index.
	SplitAt(index int) (L, L)

	// CanMergeWith reports whether the receiver followed by other fits in
	// a single leaf.
	CanMergeWith(other L) bool

	// MergeWith returns the receiver followed by other. It does not check
	// capacity.
	MergeWith(other L) L
}

func emptyInfo[I Info[I]]() I {
	var zero I
	return zero.Empty()
}
