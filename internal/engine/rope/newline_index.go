package rope

import "sort"

// maxInlineNewlines is the number of newline positions a chunk stores
// without allocating.
const maxInlineNewlines = 4

// newlineIndex records the positions of the '\n' bytes of one chunk.
// Positions fit in a byte because chunks never exceed MaxChunkSize.
type newlineIndex struct {
	inline [maxInlineNewlines]uint8
	count  uint16
	spill  []uint8 // all positions, only when count > maxInlineNewlines
}

func computeNewlineIndex(s string) newlineIndex {
	var idx newlineIndex
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		if idx.count < maxInlineNewlines {
			idx.inline[idx.count] = uint8(i)
		} else {
			if idx.spill == nil {
				idx.spill = make([]uint8, maxInlineNewlines, maxInlineNewlines*4)
				copy(idx.spill, idx.inline[:])
			}
			idx.spill = append(idx.spill, uint8(i))
		}
		idx.count++
	}
	return idx
}

// Count returns the number of newlines.
func (idx *newlineIndex) Count() int {
	return int(idx.count)
}

// Position returns the byte offset of the n-th newline, counting from 0.
func (idx *newlineIndex) Position(n int) int {
	return int(idx.positions()[n])
}

// LineStart returns the offset at which line starts, counting the chunk's
// first line as 0. line must not exceed Count.
func (idx *newlineIndex) LineStart(line int) int {
	if line == 0 {
		return 0
	}
	return idx.Position(line-1) + 1
}

// CountBefore returns the number of newlines in [0, offset).
func (idx *newlineIndex) CountBefore(offset int) int {
	p := idx.positions()
	return sort.Search(len(p), func(i int) bool { return int(p[i]) >= offset })
}

// NewlineBefore returns the position of the last newline before offset,
// or -1 if there is none.
func (idx *newlineIndex) NewlineBefore(offset int) int {
	n := idx.CountBefore(offset)
	if n == 0 {
		return -1
	}
	return idx.Position(n - 1)
}

// NewlineAfter returns the position of the first newline at or after
// offset, or -1 if there is none.
func (idx *newlineIndex) NewlineAfter(offset int) int {
	n := idx.CountBefore(offset)
	if n == int(idx.count) {
		return -1
	}
	return idx.Position(n)
}

func (idx *newlineIndex) positions() []uint8 {
	if idx.count <= maxInlineNewlines {
		return idx.inline[:idx.count]
	}
	return idx.spill
}
