package rope

import "strings"

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the size the builder aims not to go below, except
	// for the last chunk.
	MinChunkSize = 128

	// MaxChunkSize is the maximum number of bytes in a chunk.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is an immutable run of text stored at a leaf of the rope.
type Chunk struct {
	data     string
	summary  TextSummary
	newlines newlineIndex
}

// NewChunk creates a chunk from s. s should not exceed MaxChunkSize.
func NewChunk(s string) Chunk {
	return Chunk{
		data:     s,
		summary:  ComputeSummary(s),
		newlines: computeNewlineIndex(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	if c.data == "" {
		return c.summary.Empty()
	}
	return c.summary
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Info returns the chunk's summary.
func (c Chunk) Info() TextSummary {
	return c.Summary()
}

// IsBoundary reports whether index falls between two characters.
func (c Chunk) IsBoundary(index int) bool {
	if index <= 0 || index >= len(c.data) {
		return index == 0 || index == len(c.data)
	}
	return isCharStart(c.data[index])
}

// SplitAt returns the text before and after offset.
func (c Chunk) SplitAt(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// CanMergeWith reports whether c followed by other fits in one chunk.
func (c Chunk) CanMergeWith(other Chunk) bool {
	return len(c.data)+len(other.data) <= MaxChunkSize
}

// MergeWith returns c followed by other without checking the size.
func (c Chunk) MergeWith(other Chunk) Chunk {
	if c.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return c
	}
	return NewChunk(c.data + other.data)
}

// TryAppend returns c followed by s, or a *ChunkFullError if the result
// would exceed MaxChunkSize.
func (c Chunk) TryAppend(s string) (Chunk, error) {
	if len(c.data)+len(s) > MaxChunkSize {
		fits := MaxChunkSize - len(c.data)
		for fits > 0 && fits < len(s) && !isCharStart(s[fits]) {
			fits--
		}
		return c, &ChunkFullError{Len: len(c.data), Add: len(s), Fits: fits}
	}
	return NewChunk(c.data + s), nil
}

// lineStart returns the offset of the start of the chunk-relative line.
func (c Chunk) lineStart(line int) int {
	return c.newlines.LineStart(line)
}

// charToOffset returns the byte offset of the n-th character of the chunk.
func (c Chunk) charToOffset(n int) int {
	if c.summary.Flags&FlagASCII != 0 {
		return min(n, len(c.data))
	}
	for i := 0; i < len(c.data); i++ {
		if isCharStart(c.data[i]) {
			if n == 0 {
				return i
			}
			n--
		}
	}
	return len(c.data)
}

// utf16ToOffset returns the byte offset at which n UTF-16 code units of
// the chunk have been consumed.
func (c Chunk) utf16ToOffset(n int) int {
	if c.summary.Flags&FlagASCII != 0 {
		return min(n, len(c.data))
	}
	for i := 0; i < len(c.data); {
		if n <= 0 {
			return i
		}
		w := 1
		if isCharStart(c.data[i]) {
			n -= utf16Width(c.data[i])
			w = utf8Width(c.data[i])
		}
		i += w
	}
	return len(c.data)
}

// splitText cuts s into chunk-sized pieces on character boundaries,
// preferring to cut after a newline close to TargetChunkSize.
func splitText(s string) []Chunk {
	if s == "" {
		return nil
	}
	chunks := make([]Chunk, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		cut := findSplitPoint(s, TargetChunkSize)
		chunks = append(chunks, NewChunk(s[:cut]))
		s = s[cut:]
	}
	return append(chunks, NewChunk(s))
}

// findSplitPoint returns a cut position near target that lies on a
// character boundary and, if possible, just after a newline.
func findSplitPoint(s string, target int) int {
	window := MinChunkSize / 4
	if i := strings.IndexByte(s[target:min(target+window, len(s))], '\n'); i >= 0 {
		return target + i + 1
	}
	if i := strings.LastIndexByte(s[target-window:target], '\n'); i >= 0 {
		return target - window + i + 1
	}
	pos := target
	for pos > 0 && !isCharStart(s[pos]) {
		pos--
	}
	if pos == 0 {
		pos = target
	}
	return pos
}
