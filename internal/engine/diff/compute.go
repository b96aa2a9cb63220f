package diff

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultMaxLines is the line count above which Compute stops searching
// for a minimal line diff and replaces the differing middle wholesale.
const DefaultMaxLines = 10000

// DefaultTimeout bounds the search for a minimal diff. When it expires
// the result is still correct, only less minimal.
const DefaultTimeout = time.Second

// Options configures Compute.
type Options struct {
	// MaxLines bounds the number of differing lines searched. Zero means
	// DefaultMaxLines; negative disables the limit.
	MaxLines int

	// Timeout bounds the search. Zero means DefaultTimeout; negative
	// disables the limit.
	Timeout time.Duration
}

// Compute returns a diff turning oldText into newText. Lines, including
// their newline, are the unit of comparison.
func Compute(oldText, newText string) Diff {
	return ComputeWith(oldText, newText, Options{})
}

// ComputeWith is Compute with options.
func ComputeWith(oldText, newText string, opts Options) Diff {
	var b Builder
	prefix := commonPrefix(oldText, newText)
	suffix := commonSuffix(oldText[prefix:], newText[prefix:])
	b.Retain(prefix)
	oldMid := oldText[prefix : len(oldText)-suffix]
	newMid := newText[prefix : len(newText)-suffix]

	maxLines := opts.MaxLines
	if maxLines == 0 {
		maxLines = DefaultMaxLines
	}
	if maxLines > 0 && (countLines(oldMid) > maxLines || countLines(newMid) > maxLines) {
		b.Insert(newMid).Delete(len(oldMid))
	} else {
		lineDiff(&b, oldMid, newMid, opts.Timeout)
	}
	b.Retain(suffix)
	return b.Build()
}

// lineDiff appends a line-granular diff of oldText to newText to b.
func lineDiff(b *Builder, oldText, newText string, timeout time.Duration) {
	if oldText == "" && newText == "" {
		return
	}
	dmp := diffmatchpatch.New()
	switch {
	case timeout == 0:
		dmp.DiffTimeout = DefaultTimeout
	case timeout < 0:
		dmp.DiffTimeout = 0
	default:
		dmp.DiffTimeout = timeout
	}

	var enc lineEncoder
	oldRunes, ok1 := enc.encode(oldText)
	newRunes, ok2 := enc.encode(newText)
	if !ok1 || !ok2 {
		b.Insert(newText).Delete(len(oldText))
		return
	}

	for _, d := range dmp.DiffMainRunes(oldRunes, newRunes, false) {
		for _, r := range d.Text {
			line := enc.lines[enc.index(r)]
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				b.Retain(len(line))
			case diffmatchpatch.DiffDelete:
				b.Delete(len(line))
			case diffmatchpatch.DiffInsert:
				b.Insert(line)
			}
		}
	}
}

// lineEncoder maps each distinct line to one rune so the character diff
// becomes a line diff. Surrogate code points are skipped because they do
// not survive conversion to string.
type lineEncoder struct {
	lines []string
	ids   map[string]rune
}

const (
	surrogateMin = 0xD800
	surrogateLen = 0x800
)

func (e *lineEncoder) encode(text string) ([]rune, bool) {
	if e.ids == nil {
		e.ids = make(map[string]rune)
	}
	var out []rune
	for len(text) > 0 {
		n := strings.IndexByte(text, '\n') + 1
		if n == 0 {
			n = len(text)
		}
		line := text[:n]
		text = text[n:]

		r, ok := e.ids[line]
		if !ok {
			r = rune(len(e.lines))
			if r >= surrogateMin {
				r += surrogateLen
			}
			if r > utf8.MaxRune {
				return nil, false
			}
			e.ids[line] = r
			e.lines = append(e.lines, line)
		}
		out = append(out, r)
	}
	return out, true
}

func (e *lineEncoder) index(r rune) int {
	if r >= surrogateMin+surrogateLen {
		r -= surrogateLen
	}
	return int(r)
}

func countLines(s string) int {
	return strings.Count(s, "\n") + 1
}

// commonPrefix returns the length of the longest common prefix of a and
// b, backed up to the start of a line.
func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return strings.LastIndexByte(a[:n], '\n') + 1
}

// commonSuffix returns the length of the longest common suffix of a and
// b that starts right after a newline or at the start of both.
func commonSuffix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	for n > 0 {
		ia, ib := len(a)-n, len(b)-n
		if (ia == 0 || a[ia-1] == '\n') && (ib == 0 || b[ib-1] == '\n') {
			break
		}
		n--
	}
	return n
}
