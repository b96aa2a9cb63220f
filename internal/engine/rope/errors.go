package rope

import (
	"errors"
	"fmt"
)

// Sentinel errors for rope operations.
var (
	// ErrOffsetOutOfRange indicates an offset beyond the rope's length.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNotCharBoundary indicates an offset inside a UTF-8 sequence.
	ErrNotCharBoundary = errors.New("offset is not on a character boundary")

	// ErrChunkFull indicates that appended text does not fit in a chunk.
	ErrChunkFull = errors.New("chunk full")
)

// ChunkFullError reports a bulk append that would exceed MaxChunkSize.
// Fits is the number of bytes of the appended text that would have fit,
// rounded down to a character boundary.
type ChunkFullError struct {
	Len  int
	Add  int
	Fits int
}

func (e *ChunkFullError) Error() string {
	return fmt.Sprintf("chunk full: %d + %d bytes exceeds %d (%d fit)", e.Len, e.Add, MaxChunkSize, e.Fits)
}

// Unwrap returns ErrChunkFull.
func (e *ChunkFullError) Unwrap() error {
	return ErrChunkFull
}

// CheckOffset returns an error if offset is not a valid position in r.
func (r Rope) CheckOffset(offset int) error {
	if offset < 0 || offset > r.Len() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, r.Len())
	}
	if !r.IsCharBoundary(offset) {
		return fmt.Errorf("%w: %d", ErrNotCharBoundary, offset)
	}
	return nil
}

// CheckRange returns an error if [start, end) is not a valid range of r.
func (r Rope) CheckRange(start, end int) error {
	if start > end {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	if err := r.CheckOffset(start); err != nil {
		return err
	}
	return r.CheckOffset(end)
}
