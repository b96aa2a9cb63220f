package diff

import "fmt"

// opReader steps through the operations of a diff, handing out parts of
// an operation when the other side consumes less than all of it.
type opReader struct {
	ops []Op
	cur Op
	ok  bool
}

func newOpReader(ops []Op) *opReader {
	r := &opReader{ops: ops}
	r.next()
	return r
}

func (r *opReader) next() {
	if len(r.ops) == 0 {
		r.ok = false
		return
	}
	r.cur, r.ops, r.ok = r.ops[0], r.ops[1:], true
}

// take consumes n bytes of the current operation.
func (r *opReader) take(n int) {
	if n >= r.cur.Len {
		r.next()
		return
	}
	r.cur = r.cur.rest(n)
}

// Compose returns the diff equivalent to applying d and then other.
func (d Diff) Compose(other Diff) (Diff, error) {
	if d.targetLen != other.baseLen {
		return Diff{}, fmt.Errorf("%w: first produces %d bytes, second expects %d",
			ErrLengthMismatch, d.targetLen, other.baseLen)
	}
	var b Builder
	a, o := newOpReader(d.ops), newOpReader(other.ops)
	for a.ok || o.ok {
		if a.ok && a.cur.Kind == Delete {
			b.Delete(a.cur.Len)
			a.next()
			continue
		}
		if o.ok && o.cur.Kind == Insert {
			b.Insert(o.cur.Text)
			o.next()
			continue
		}
		if !a.ok || !o.ok {
			return Diff{}, fmt.Errorf("%w: operations do not line up", ErrLengthMismatch)
		}
		n := min(a.cur.Len, o.cur.Len)
		switch {
		case a.cur.Kind == Retain && o.cur.Kind == Retain:
			b.Retain(n)
		case a.cur.Kind == Retain && o.cur.Kind == Delete:
			b.Delete(n)
		case a.cur.Kind == Insert && o.cur.Kind == Retain:
			b.Insert(a.cur.Text[:n])
		case a.cur.Kind == Insert && o.cur.Kind == Delete:
			// inserted then deleted
		}
		a.take(n)
		o.take(n)
	}
	return b.Build(), nil
}

// Transform rebases two diffs made concurrently against the same base.
// It returns a2 and b2 such that a followed by b2 and b followed by a2
// produce the same text. Where both insert at the same position, the
// text from a comes first.
func Transform(a, b Diff) (a2, b2 Diff, err error) {
	if a.baseLen != b.baseLen {
		return Diff{}, Diff{}, fmt.Errorf("%w: bases are %d and %d bytes",
			ErrLengthMismatch, a.baseLen, b.baseLen)
	}
	var ab, bb Builder
	ra, rb := newOpReader(a.ops), newOpReader(b.ops)
	for ra.ok || rb.ok {
		if ra.ok && ra.cur.Kind == Insert {
			ab.Insert(ra.cur.Text)
			bb.Retain(ra.cur.Len)
			ra.next()
			continue
		}
		if rb.ok && rb.cur.Kind == Insert {
			ab.Retain(rb.cur.Len)
			bb.Insert(rb.cur.Text)
			rb.next()
			continue
		}
		if !ra.ok || !rb.ok {
			return Diff{}, Diff{}, fmt.Errorf("%w: operations do not line up", ErrLengthMismatch)
		}
		n := min(ra.cur.Len, rb.cur.Len)
		switch {
		case ra.cur.Kind == Retain && rb.cur.Kind == Retain:
			ab.Retain(n)
			bb.Retain(n)
		case ra.cur.Kind == Delete && rb.cur.Kind == Retain:
			ab.Delete(n)
		case ra.cur.Kind == Retain && rb.cur.Kind == Delete:
			bb.Delete(n)
		case ra.cur.Kind == Delete && rb.cur.Kind == Delete:
			// deleted on both sides
		}
		ra.take(n)
		rb.take(n)
	}
	return ab.Build(), bb.Build(), nil
}
