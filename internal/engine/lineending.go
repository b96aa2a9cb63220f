package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/textcore/internal/config"
)

// LineEnding is the line terminator a session writes. Session text always
// holds "\n"; other endings are restored on output.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the configuration name of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return config.LineEndingCRLF
	case LineEndingCR:
		return config.LineEndingCR
	default:
		return config.LineEndingLF
	}
}

// Sequence returns the actual line ending character sequence.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding parses a configuration value. "auto" reports auto as
// true and leaves detection to the caller.
func ParseLineEnding(s string) (le LineEnding, auto bool, err error) {
	switch strings.ToLower(s) {
	case config.LineEndingAuto, "":
		return LineEndingLF, true, nil
	case config.LineEndingLF:
		return LineEndingLF, false, nil
	case config.LineEndingCRLF:
		return LineEndingCRLF, false, nil
	case config.LineEndingCR:
		return LineEndingCR, false, nil
	}
	return LineEndingLF, false, fmt.Errorf("unknown line ending %q", s)
}

// DetectLineEnding returns the ending of the first line break in s, or LF
// when s has none.
func DetectLineEnding(s string) LineEnding {
	i := strings.IndexAny(s, "\r\n")
	switch {
	case i < 0 || s[i] == '\n':
		return LineEndingLF
	case i+1 < len(s) && s[i+1] == '\n':
		return LineEndingCRLF
	default:
		return LineEndingCR
	}
}

// normalizeLineEndings converts every CRLF and lone CR to LF.
func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// denormalizeLineEndings converts LF-only text to le.
func denormalizeLineEndings(s string, le LineEnding) string {
	if le == LineEndingLF {
		return s
	}
	return strings.ReplaceAll(s, "\n", le.Sequence())
}
