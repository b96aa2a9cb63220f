// Package rope stores UTF-8 text as an immutable balanced tree of chunks.
//
// Chunks hold at most MaxChunkSize bytes and are always cut on character
// boundaries. Every level of the tree caches a TextSummary (bytes,
// characters, UTF-16 units, newlines, line lengths), so conversions
// between byte offsets, characters, UTF-16 positions, and line/column
// points take O(log n).
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")   // "hello, world"
//	r = r.Delete(0, 7)     // "world"
//
// Edits return a new Rope and leave the receiver untouched; versions share
// every chunk the edit did not reach. A Slice is a view of a byte range
// that copies nothing. A Cursor walks a rope or slice by byte, character,
// grapheme cluster, chunk, or line with amortized O(1) steps.
//
// Offsets outside the rope, offsets inside a character and inverted
// ranges are programming errors and panic. Callers holding untrusted
// positions check them first with CheckOffset and CheckRange, and
// untrusted diffs with CheckDiff.
package rope
