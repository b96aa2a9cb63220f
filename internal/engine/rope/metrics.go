package rope

// Point is a zero-based line and byte column.
type Point struct {
	Line   int
	Column int
}

// TextSummary holds aggregated metrics for a span of text. It is the Info
// cached at every level of the rope's tree: each field composes
// associatively, so the summary of a concatenation is the Combine of the
// parts.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of characters, counted as bytes that are not
	// UTF-8 continuation bytes.
	Chars int

	// UTF16Units is the UTF-16 code unit count (for LSP positions).
	UTF16Units int

	// Lines is the number of '\n' bytes.
	Lines int

	// LongestLine is the byte length of the longest line.
	LongestLine int

	// FirstLineLen is the byte length of the first line (excluding newline).
	FirstLineLen int

	// LastLineLen is the byte length of the last line.
	LastLineLen int

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all bytes are ASCII (< 128).
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines

	// FlagHasTabs indicates the text contains tab characters.
	FlagHasTabs
)

// Empty returns the identity summary.
func (TextSummary) Empty() TextSummary {
	return TextSummary{Flags: FlagASCII}
}

// Combine returns the summary of s followed by other.
func (s TextSummary) Combine(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes:      s.Bytes + other.Bytes,
		Chars:      s.Chars + other.Chars,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		Lines:      s.Lines + other.Lines,
		Flags:      s.Flags & other.Flags & FlagASCII,
	}
	result.Flags |= (s.Flags | other.Flags) &^ FlagASCII

	// The last line of s and the first line of other join into one line.
	joined := s.LastLineLen + other.FirstLineLen
	result.LongestLine = max(s.LongestLine, other.LongestLine, joined)
	if s.Lines == 0 {
		result.FirstLineLen = joined
	} else {
		result.FirstLineLen = s.FirstLineLen
	}
	if other.Lines == 0 {
		result.LastLineLen = joined
	} else {
		result.LastLineLen = other.LastLineLen
	}
	return result
}

// IsZero reports whether the summary describes empty text.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates the metrics of s.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: len(s), Flags: FlagASCII}
	lineLen := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x80 {
			sum.Flags &^= FlagASCII
		}
		if isCharStart(b) {
			sum.Chars++
			sum.UTF16Units += utf16Width(b)
		}
		switch b {
		case '\n':
			if sum.Lines == 0 {
				sum.FirstLineLen = lineLen
			}
			sum.LongestLine = max(sum.LongestLine, lineLen)
			sum.Lines++
			sum.Flags |= FlagHasNewlines
			lineLen = 0
			continue
		case '\t':
			sum.Flags |= FlagHasTabs
		}
		lineLen++
	}
	sum.LastLineLen = lineLen
	sum.LongestLine = max(sum.LongestLine, lineLen)
	if sum.Lines == 0 {
		sum.FirstLineLen = lineLen
	}
	return sum
}

// isCharStart reports whether b begins a UTF-8 sequence, i.e. is not a
// continuation byte.
func isCharStart(b byte) bool {
	return b&0xC0 != 0x80
}

// utf8Width returns the length of the UTF-8 sequence led by b.
func utf8Width(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// utf16Width returns the number of UTF-16 code units of the character led
// by b.
func utf16Width(b byte) int {
	if b >= 0xF0 {
		return 2
	}
	return 1
}
