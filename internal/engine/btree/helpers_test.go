package btree

import "strings"

// testInfo counts positions and upper-case letters.
type testInfo struct {
	n     int
	upper int
}

func (testInfo) Empty() testInfo { return testInfo{} }

func (a testInfo) Combine(b testInfo) testInfo {
	return testInfo{n: a.n + b.n, upper: a.upper + b.upper}
}

const testLeafMax = 4

// testLeaf is a short string that may be split anywhere.
type testLeaf string

func (l testLeaf) Len() int      { return len(l) }
func (l testLeaf) IsEmpty() bool { return len(l) == 0 }

func (l testLeaf) Info() testInfo {
	info := testInfo{n: len(l)}
	for i := 0; i < len(l); i++ {
		if l[i] >= 'A' && l[i] <= 'Z' {
			info.upper++
		}
	}
	return info
}

func (l testLeaf) IsBoundary(index int) bool { return index >= 0 && index <= len(l) }

func (l testLeaf) SplitAt(index int) (testLeaf, testLeaf) { return l[:index], l[index:] }

func (l testLeaf) CanMergeWith(other testLeaf) bool { return len(l)+len(other) <= testLeafMax }

func (l testLeaf) MergeWith(other testLeaf) testLeaf { return l + other }

type testTree = Tree[testLeaf, testInfo]

func buildTree(s string) testTree {
	b := NewBuilder[testLeaf, testInfo](nil)
	for len(s) > 0 {
		n := min(testLeafMax, len(s))
		b.Push(testLeaf(s[:n]))
		s = s[n:]
	}
	return b.Build()
}

func treeString(t testTree) string {
	var sb strings.Builder
	t.Leaves(func(l testLeaf) bool {
		sb.WriteString(string(l))
		return true
	})
	return sb.String()
}

func insertString(t *testTree, at int, s string) {
	right := t.SplitOff(at)
	mid := buildTree(s)
	t.Append(&mid)
	t.Append(&right)
}

func deleteRange(t *testTree, start, end int) {
	right := t.SplitOff(end)
	t.TruncateBack(start)
	t.Append(&right)
}

func leafNodes(ctx *writeContext[testLeaf, testInfo], names ...string) []*Node[testLeaf, testInfo] {
	nodes := make([]*Node[testLeaf, testInfo], len(names))
	for i, name := range names {
		nodes[i] = ctx.newLeaf(testLeaf(name))
	}
	return nodes
}

func branchLeaves(b *Branch[testLeaf, testInfo]) []string {
	out := make([]string, b.Len())
	for i := range out {
		out[i] = string(b.Child(i).Leaf())
	}
	return out
}
