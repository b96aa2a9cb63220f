package engine

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/tracking"
)

// Errors returned by session operations.
var (
	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrSnapshotNotFound indicates a snapshot was not found.
	ErrSnapshotNotFound = tracking.ErrSnapshotNotFound

	// ErrRevisionNotFound indicates a revision is no longer retained.
	ErrRevisionNotFound = tracking.ErrRevisionNotFound

	// ErrReadOnly indicates an edit was attempted on a read-only session.
	ErrReadOnly = errors.New("session is read-only")

	// ErrClosed indicates the session has been closed.
	ErrClosed = errors.New("session is closed")
)
