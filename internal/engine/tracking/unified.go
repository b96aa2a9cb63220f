package tracking

import (
	"strconv"
	"strings"

	"github.com/dshills/textcore/internal/engine/diff"
	"github.com/dshills/textcore/internal/engine/rope"
)

// DefaultContextLines is the number of unchanged lines shown around each
// change in a unified diff.
const DefaultContextLines = 3

// UnifiedOptions configures Unified.
type UnifiedOptions struct {
	// ContextLines is the number of unchanged lines to include around
	// each change. Zero means DefaultContextLines; negative means none.
	ContextLines int

	// OldName and NewName label the two texts in the header.
	OldName string
	NewName string
}

func (o UnifiedOptions) context() int {
	switch {
	case o.ContextLines == 0:
		return DefaultContextLines
	case o.ContextLines < 0:
		return 0
	default:
		return o.ContextLines
	}
}

// Hunk is a run of changed lines plus surrounding context. Line numbers
// are 0-indexed.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int

	// Lines are prefixed with ' ', '-' or '+'.
	Lines []string
}

// lineRegion is a changed range of whole lines in both texts; ends are
// exclusive.
type lineRegion struct {
	oldStart, oldEnd int
	newStart, newEnd int
}

// Hunks converts d, applied to old, into line hunks with context.
func Hunks(old rope.Rope, d diff.Diff, contextLines int) []Hunk {
	if d.IsIdentity() {
		return nil
	}
	updated := old.ApplyDiff(d)
	regions := changedLines(old, updated, d)
	if len(regions) == 0 {
		return nil
	}
	oldTotal, newTotal := lineTotal(old), lineTotal(updated)

	var hunks []Hunk
	i := 0
	for i < len(regions) {
		j := i
		for j+1 < len(regions) && regions[j+1].oldStart-regions[j].oldEnd <= 2*contextLines {
			j++
		}
		first, last := regions[i], regions[j]

		oldStart := max(first.oldStart-contextLines, 0)
		oldEnd := min(last.oldEnd+contextLines, oldTotal)
		newStart := first.newStart - (first.oldStart - oldStart)
		newEnd := min(last.newEnd+(oldEnd-last.oldEnd), newTotal)

		h := Hunk{
			OldStart: oldStart,
			OldCount: oldEnd - oldStart,
			NewStart: newStart,
			NewCount: newEnd - newStart,
		}
		at := oldStart
		for _, r := range regions[i : j+1] {
			h.Lines = appendLines(h.Lines, ' ', old, at, r.oldStart)
			h.Lines = appendLines(h.Lines, '-', old, r.oldStart, r.oldEnd)
			h.Lines = appendLines(h.Lines, '+', updated, r.newStart, r.newEnd)
			at = r.oldEnd
		}
		h.Lines = appendLines(h.Lines, ' ', old, at, oldEnd)
		hunks = append(hunks, h)
		i = j + 1
	}
	return hunks
}

// Unified renders d, applied to old, in unified diff format. It returns
// the empty string when d changes nothing.
func Unified(old rope.Rope, d diff.Diff, opts UnifiedOptions) string {
	hunks := Hunks(old, d, opts.context())
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- ")
	sb.WriteString(opts.OldName)
	sb.WriteString("\n")
	sb.WriteString("+++ ")
	sb.WriteString(opts.NewName)
	sb.WriteString("\n")

	for _, h := range hunks {
		sb.WriteString("@@ -")
		writeRange(&sb, h.OldStart, h.OldCount)
		sb.WriteString(" +")
		writeRange(&sb, h.NewStart, h.NewCount)
		sb.WriteString(" @@\n")
		for _, line := range h.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// writeRange writes a 1-indexed hunk range. An empty range names the
// line before it.
func writeRange(sb *strings.Builder, start, count int) {
	if count == 0 {
		sb.WriteString(strconv.Itoa(start))
	} else {
		sb.WriteString(strconv.Itoa(start + 1))
	}
	sb.WriteString(",")
	sb.WriteString(strconv.Itoa(count))
}

func appendLines(lines []string, prefix byte, r rope.Rope, from, to int) []string {
	for line := from; line < to; line++ {
		lines = append(lines, string(prefix)+r.LineText(line))
	}
	return lines
}

// changedLines maps every non-retain run of d to the lines it touches in
// old and updated, coalescing runs that share a line.
func changedLines(old, updated rope.Rope, d diff.Diff) []lineRegion {
	var regions []lineRegion
	oldPos, newPos := 0, 0
	inChange := false
	var oldFrom, newFrom int

	flush := func() {
		if !inChange {
			return
		}
		inChange = false
		r := toLineRegion(old, updated, oldFrom, oldPos, newFrom, newPos)
		if n := len(regions); n > 0 && (r.oldStart < regions[n-1].oldEnd || r.newStart < regions[n-1].newEnd) {
			regions[n-1].oldEnd = max(regions[n-1].oldEnd, r.oldEnd)
			regions[n-1].newEnd = max(regions[n-1].newEnd, r.newEnd)
			return
		}
		regions = append(regions, r)
	}

	d.Each(func(op diff.Op) {
		switch op.Kind {
		case diff.Retain:
			flush()
			oldPos += op.Len
			newPos += op.Len
		case diff.Insert:
			if !inChange {
				inChange, oldFrom, newFrom = true, oldPos, newPos
			}
			newPos += op.Len
		case diff.Delete:
			if !inChange {
				inChange, oldFrom, newFrom = true, oldPos, newPos
			}
			oldPos += op.Len
		}
	})
	flush()
	return regions
}

// toLineRegion widens a byte change to whole lines. When the change
// starts and ends on line starts in both texts it covers exactly the
// lines between; otherwise the line holding the end is included too.
func toLineRegion(old, updated rope.Rope, oldFrom, oldTo, newFrom, newTo int) lineRegion {
	r := lineRegion{
		oldStart: old.OffsetToPoint(oldFrom).Line,
		oldEnd:   old.OffsetToPoint(oldTo).Line,
		newStart: updated.OffsetToPoint(newFrom).Line,
		newEnd:   updated.OffsetToPoint(newTo).Line,
	}
	whole := isLineStart(old, oldFrom) && isLineStart(old, oldTo) &&
		isLineStart(updated, newFrom) && isLineStart(updated, newTo)
	if !whole {
		r.oldEnd++
		r.newEnd++
	}
	r.oldEnd = min(r.oldEnd, lineTotal(old))
	r.newEnd = min(r.newEnd, lineTotal(updated))
	return r
}

func isLineStart(r rope.Rope, offset int) bool {
	return offset == 0 || r.OffsetToPoint(offset).Column == 0
}

// lineTotal counts lines the way a unified diff does: a trailing newline
// ends the last line instead of starting an empty one.
func lineTotal(r rope.Rope) int {
	n := r.LineCount()
	if r.LineLen(n-1) == 0 {
		n--
	}
	return n
}
