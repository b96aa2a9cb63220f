package rope

// LineStartOffset returns the offset of the first byte of line. Lines
// before the first resolve to 0 and lines past the last to Len.
func (r Rope) LineStartOffset(line int) int {
	if line <= 0 {
		return 0
	}
	if line > r.Summary().Lines {
		return r.Len()
	}
	c, before, _ := r.tree.SearchBy(func(total TextSummary) bool {
		return total.Lines >= line
	})
	return c.Position() + c.Leaf().lineStart(line-before.Lines)
}

// LineEndOffset returns the offset just past the last byte of line,
// excluding its newline.
func (r Rope) LineEndOffset(line int) int {
	if line < 0 {
		return 0
	}
	if line >= r.Summary().Lines {
		return r.Len()
	}
	return r.LineStartOffset(line+1) - 1
}

// LineLen returns the byte length of line without its newline.
func (r Rope) LineLen(line int) int {
	return r.LineEndOffset(line) - r.LineStartOffset(line)
}

// LineText returns the text of line without its newline.
func (r Rope) LineText(line int) string {
	return r.Text(r.LineStartOffset(line), r.LineEndOffset(line))
}

// CursorAtLine returns a cursor at the start of line.
func (r Rope) CursorAtLine(line int) *Cursor {
	return r.CursorAt(r.LineStartOffset(line))
}

// OffsetToPoint converts a byte offset to a line and byte column. The
// offset is clamped to the rope.
func (r Rope) OffsetToPoint(offset int) Point {
	offset = max(0, min(offset, r.Len()))
	info := r.tree.Slice(0, offset).Info()
	return Point{Line: info.Lines, Column: info.LastLineLen}
}

// PointToOffset converts a line and byte column to an offset. The column
// is clamped to the line's length.
func (r Rope) PointToOffset(p Point) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line > r.Summary().Lines {
		return r.Len()
	}
	start := r.LineStartOffset(p.Line)
	return start + max(0, min(p.Column, r.LineEndOffset(p.Line)-start))
}

// CharToOffset returns the offset of the n-th character. Counts past the
// end resolve to Len.
func (r Rope) CharToOffset(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= r.CharCount() {
		return r.Len()
	}
	c, before, _ := r.tree.SearchBy(func(total TextSummary) bool {
		return total.Chars > n
	})
	return c.Position() + c.Leaf().charToOffset(n-before.Chars)
}

// OffsetToChar returns the number of characters before offset.
func (r Rope) OffsetToChar(offset int) int {
	offset = max(0, min(offset, r.Len()))
	return r.tree.Slice(0, offset).Info().Chars
}

// OffsetToUTF16 returns the number of UTF-16 code units before offset.
func (r Rope) OffsetToUTF16(offset int) int {
	offset = max(0, min(offset, r.Len()))
	return r.tree.Slice(0, offset).Info().UTF16Units
}

// UTF16ToOffset returns the offset at which n UTF-16 code units have
// been consumed. A count inside a surrogate pair resolves to the end of
// that character.
func (r Rope) UTF16ToOffset(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= r.UTF16Len() {
		return r.Len()
	}
	c, before, _ := r.tree.SearchBy(func(total TextSummary) bool {
		return total.UTF16Units > n
	})
	return c.Position() + c.Leaf().utf16ToOffset(n-before.UTF16Units)
}

// PointToUTF16 converts a line and byte column to a line and UTF-16
// column, the position encoding used by language servers.
func (r Rope) PointToUTF16(p Point) Point {
	offset := r.PointToOffset(p)
	start := r.LineStartOffset(p.Line)
	return Point{Line: p.Line, Column: r.OffsetToUTF16(offset) - r.OffsetToUTF16(start)}
}
