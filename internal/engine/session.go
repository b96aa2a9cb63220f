package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/diff"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/rope"
	"github.com/dshills/textcore/internal/engine/selection"
	"github.com/dshills/textcore/internal/engine/tracking"
)

// Re-export commonly used types for convenience.
type (
	// Point is a line/column position.
	Point = rope.Point

	// Sel is one selection.
	Sel = selection.Sel

	// RevisionID identifies a recorded revision.
	RevisionID = tracking.RevisionID

	// SnapshotID uniquely identifies a named snapshot.
	SnapshotID = tracking.SnapshotID
)

// Session is one editing session over a single text: the rope, its
// selections, undo history and revision tracking behind one lock.
//
// All methods are safe for concurrent use. Edits are serialized; each one
// produces a new immutable rope, so ropes returned by Rope stay valid and
// unchanged.
type Session struct {
	mu sync.RWMutex

	id   uuid.UUID
	text rope.Rope
	sels *selection.SelSet

	history *history.History
	tracker *tracking.Tracker
	log     *zap.Logger

	// Configuration
	tabWidth       int
	lineEnding     LineEnding
	detectEnding   bool
	maxUndoEntries int
	maxRevisions   int
	maxSnapshots   int
	readOnly       bool
	closed         bool

	// Initialization
	initContent string

	obsMu        sync.Mutex
	observers    []observerEntry
	nextObserver uint64
}

// New creates a new Session with the given options.
func New(opts ...Option) *Session {
	s := &Session{
		id:             uuid.New(),
		tabWidth:       DefaultTabWidth,
		lineEnding:     LineEndingLF,
		detectEnding:   true,
		maxUndoEntries: DefaultMaxUndoEntries,
		maxRevisions:   DefaultMaxRevisions,
		maxSnapshots:   DefaultMaxSnapshots,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.detectEnding {
		s.lineEnding = DetectLineEnding(s.initContent)
	}
	s.text = rope.FromString(normalizeLineEndings(s.initContent))
	s.initContent = ""

	s.sels = selection.NewSet(selection.Point(0))
	s.history = history.NewHistory(s.maxUndoEntries)
	s.tracker = tracking.NewTracker(s.text, tracking.WithMaxRevisions(s.maxRevisions))
	s.log = s.log.With(zap.Stringer("session", s.id))

	s.log.Debug("session opened",
		zap.Int("bytes", s.text.Len()),
		zap.Int("lines", s.text.LineCount()),
		zap.Stringer("line_ending", s.lineEnding),
	)
	return s
}

// NewFromReader creates a Session holding everything read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithContent(string(data))}, opts...)...), nil
}

// ============================================================================
// Read Operations
// ============================================================================

// ID returns the session ID. Local edits are recorded with it as site.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Rope returns the current text. The rope is immutable.
func (s *Session) Rope() rope.Rope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// Text returns the full content with "\n" line endings.
// For large texts, prefer Rope and its iterators.
func (s *Session) Text() string {
	return s.Rope().String()
}

// TextRange returns the text in [start, end).
func (s *Session) TextRange(start, end int) (string, error) {
	text := s.Rope()
	if err := text.CheckRange(start, end); err != nil {
		return "", err
	}
	return text.Text(start, end), nil
}

// Len returns the total byte length of the text.
func (s *Session) Len() int {
	return s.Rope().Len()
}

// LineCount returns the number of lines.
func (s *Session) LineCount() int {
	return s.Rope().LineCount()
}

// LineText returns the text of a line without its newline.
func (s *Session) LineText(line int) (string, error) {
	text := s.Rope()
	if line < 0 || line >= text.LineCount() {
		return "", fmt.Errorf("%w: line %d not in [0, %d)", rope.ErrOffsetOutOfRange, line, text.LineCount())
	}
	return text.LineText(line), nil
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Session) OffsetToPoint(offset int) (Point, error) {
	text := s.Rope()
	if err := text.CheckOffset(offset); err != nil {
		return Point{}, err
	}
	return text.OffsetToPoint(offset), nil
}

// PointToOffset converts line/column to a byte offset. Columns past the end
// of the line are clamped to it.
func (s *Session) PointToOffset(p Point) (int, error) {
	text := s.Rope()
	if p.Line < 0 || p.Line >= text.LineCount() || p.Column < 0 {
		return 0, fmt.Errorf("%w: point %d:%d", rope.ErrOffsetOutOfRange, p.Line, p.Column)
	}
	return text.PointToOffset(p), nil
}

// WriteTo writes the content with the session's line ending.
func (s *Session) WriteTo(w io.Writer) (int64, error) {
	s.mu.RLock()
	text, le := s.text, s.lineEnding
	s.mu.RUnlock()

	var n int64
	for it := text.Chunks(); it.Next(); {
		m, err := io.WriteString(w, denormalizeLineEndings(it.Chunk(), le))
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ============================================================================
// Selections
// ============================================================================

// Selections returns every selection in document order.
func (s *Session) Selections() []Sel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sels.All()
}

// Latest returns the most recently added or moved selection.
func (s *Session) Latest() Sel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sels.Latest()
}

// SelectionSet returns a copy of the selection set.
func (s *Session) SelectionSet() *selection.SelSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sels.Clone()
}

// SetCursor replaces every selection with an insertion point at offset.
func (s *Session) SetCursor(offset int) error {
	return s.SetSelection(offset, offset)
}

// SetSelection replaces every selection with anchor..cursor.
func (s *Session) SetSelection(anchor, cursor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkSelLocked(anchor, cursor); err != nil {
		return err
	}
	s.sels.Set(selection.New(anchor, cursor))
	return nil
}

// AddCursor adds an insertion point at offset as the latest selection.
func (s *Session) AddCursor(offset int) error {
	return s.AddSelection(offset, offset)
}

// AddSelection adds anchor..cursor as the latest selection. It merges with
// any selection it overlaps.
func (s *Session) AddSelection(anchor, cursor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkSelLocked(anchor, cursor); err != nil {
		return err
	}
	s.sels.Push(selection.New(anchor, cursor))
	return nil
}

// ClearSecondary drops every selection except the latest.
func (s *Session) ClearSecondary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sels.Collapse()
}

// CollapseSelections turns every selection into an insertion point at its
// cursor.
func (s *Session) CollapseSelections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sels.CollapseAll()
}

// SelectAll replaces every selection with one covering the whole text.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sels.Set(s.moverLocked().SelectAll())
}

func (s *Session) checkSelLocked(anchor, cursor int) error {
	if err := s.text.CheckOffset(anchor); err != nil {
		return err
	}
	return s.text.CheckOffset(cursor)
}

func (s *Session) moverLocked() selection.Mover {
	return selection.NewMover(s.text, s.tabWidth)
}

// ============================================================================
// Motion
// ============================================================================

// Motion names a cursor movement.
type Motion uint8

const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MoveDocStart
	MoveDocEnd
)

var motionNames = [...]string{
	MoveLeft:      "left",
	MoveRight:     "right",
	MoveUp:        "up",
	MoveDown:      "down",
	MoveLineStart: "line_start",
	MoveLineEnd:   "line_end",
	MoveDocStart:  "doc_start",
	MoveDocEnd:    "doc_end",
}

// String returns the motion name.
func (m Motion) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return "unknown"
}

// ParseMotion parses a motion name such as "left" or "line_end".
func ParseMotion(name string) (Motion, error) {
	for i, n := range motionNames {
		if n == name {
			return Motion(i), nil
		}
	}
	return 0, fmt.Errorf("unknown motion %q", name)
}

// Move applies m to every selection. With extend the anchors stay put.
func (s *Session) Move(m Motion, extend bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mv := s.moverLocked()
	var f func(selection.Sel, bool) selection.Sel
	switch m {
	case MoveLeft:
		f = mv.Left
	case MoveRight:
		f = mv.Right
	case MoveUp:
		f = mv.Up
	case MoveDown:
		f = mv.Down
	case MoveLineStart:
		f = mv.LineStart
	case MoveLineEnd:
		f = mv.LineEnd
	case MoveDocStart:
		f = mv.DocStart
	case MoveDocEnd:
		f = mv.DocEnd
	default:
		panic(fmt.Sprintf("engine: invalid motion %d", m))
	}
	s.sels.UpdateAll(func(sel selection.Sel) selection.Sel { return f(sel, extend) })
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert replaces every selection with text, leaving insertion points after
// each inserted copy.
func (s *Session) Insert(text string) error {
	text = normalizeLineEndings(text)
	return s.edit("insert", func() diff.Diff {
		return selection.ReplaceDiff(s.sels, s.text.Len(), text)
	})
}

// Backspace deletes every non-empty selection, or the character before
// each insertion point.
func (s *Session) Backspace() error {
	return s.edit("backspace", func() diff.Diff {
		return s.moverLocked().DeleteBackwardDiff(s.sels)
	})
}

// DeleteForward deletes every non-empty selection, or the character after
// each insertion point.
func (s *Session) DeleteForward() error {
	return s.edit("delete", func() diff.Diff {
		return s.moverLocked().DeleteForwardDiff(s.sels)
	})
}

// Replace replaces the bytes in [start, end) with text.
func (s *Session) Replace(start, end int, text string) error {
	text = normalizeLineEndings(text)
	var rangeErr error
	err := s.edit("replace", func() diff.Diff {
		if rangeErr = s.text.CheckRange(start, end); rangeErr != nil {
			return diff.Identity(s.text.Len())
		}
		return diff.Replace(s.text.Len(), start, end, text)
	})
	if rangeErr != nil {
		return rangeErr
	}
	return err
}

// ApplyLocal applies a diff made by this session's user. It is recorded
// for undo and moves selections past inserted text.
func (s *Session) ApplyLocal(d diff.Diff) error {
	return s.edit("edit", func() diff.Diff { return d })
}

// edit builds a diff under the lock and applies it as a local edit.
func (s *Session) edit(name string, build func() diff.Diff) error {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	c, err := s.applyLocalLocked(name, build(), ChangeLocal)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if c != nil {
		s.notify([]Change{*c})
	}
	return nil
}

// applyLocalLocked applies d to the text and selections and records it in
// history and tracking. An identity diff changes nothing and returns a nil
// change.
func (s *Session) applyLocalLocked(name string, d diff.Diff, kind ChangeKind) (*Change, error) {
	if err := s.checkDiffLocked(d); err != nil {
		s.log.Warn("rejected edit", zap.String("op", name), zap.Error(err))
		return nil, err
	}
	if d.IsIdentity() {
		return nil, nil
	}

	old := s.text
	before := s.sels.State()
	s.text = old.ApplyDiff(d)
	s.sels.ApplyDiff(d, true)

	entry := history.NewEntry(name, d, old, before, s.sels.State())
	if err := s.history.Push(entry); err != nil {
		// The open group no longer composes; keep the edit as its own entry.
		s.log.Warn("history group broken", zap.String("op", name), zap.Error(err))
		s.history.EndGroup()
		_ = s.history.Push(entry)
	}

	rev := s.tracker.Record(d, s.text, s.id)
	s.log.Debug("edit applied",
		zap.String("op", name),
		zap.Uint64("revision", uint64(rev)),
		zap.Int("bytes", s.text.Len()),
	)
	return &Change{Kind: kind, Revision: rev, Site: s.id, Diff: d, Text: s.text}, nil
}

// ApplyRemote applies a diff made by another site against the current
// text. Selections are mapped without favoring inserted text, and pending
// undo entries are rebased so undo never reverts the remote edit.
func (s *Session) ApplyRemote(d diff.Diff, site uuid.UUID) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := s.checkDiffLocked(d); err != nil {
		s.mu.Unlock()
		s.log.Warn("rejected remote edit", zap.Stringer("site", site), zap.Error(err))
		return err
	}
	if d.IsIdentity() {
		s.mu.Unlock()
		return nil
	}

	s.text = s.text.ApplyDiff(d)
	s.sels.ApplyDiff(d, false)
	if err := s.history.Rebase(d); err != nil {
		s.log.Warn("history cleared after remote edit", zap.Stringer("site", site), zap.Error(err))
	}
	rev := s.tracker.Record(d, s.text, site)
	c := Change{Kind: ChangeRemote, Revision: rev, Site: site, Diff: d, Text: s.text}
	s.mu.Unlock()

	s.log.Debug("remote edit applied", zap.Stringer("site", site), zap.Uint64("revision", uint64(rev)))
	s.notify([]Change{c})
	return nil
}

func (s *Session) writableLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.readOnly {
		return ErrReadOnly
	}
	return nil
}

// checkDiffLocked rejects diffs built for another text or cutting through
// a character.
func (s *Session) checkDiffLocked(d diff.Diff) error {
	return s.text.CheckDiff(d)
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo reverts the last edit or group and restores the selections it
// started from.
func (s *Session) Undo() error {
	return s.step(ChangeUndo)
}

// Redo reapplies the last undone edit or group.
func (s *Session) Redo() error {
	return s.step(ChangeRedo)
}

func (s *Session) step(kind ChangeKind) error {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	var e history.Entry
	var err error
	if kind == ChangeUndo {
		e, err = s.history.Undo()
	} else {
		e, err = s.history.Redo()
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}

	d, sels := e.Forward, e.After
	if kind == ChangeUndo {
		d, sels = e.Inverse, e.Before
	}
	c, err := s.restoreLocked(d, sels, kind)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.log.Info(kind.String(), zap.String("entry", e.Name), zap.Uint64("revision", uint64(c.Revision)))
	s.notify([]Change{c})
	return nil
}

// restoreLocked applies a history diff and replaces the selections.
func (s *Session) restoreLocked(d diff.Diff, sels []selection.Sel, kind ChangeKind) (Change, error) {
	if err := s.checkDiffLocked(d); err != nil {
		s.history.Clear()
		s.log.Error("history out of sync with text; cleared", zap.Error(err))
		return Change{}, err
	}
	s.text = s.text.ApplyDiff(d)
	s.sels = selection.NewSetFrom(sels)
	s.sels.Clamp(s.text.Len())
	rev := s.tracker.Record(d, s.text, s.id)
	return Change{Kind: kind, Revision: rev, Site: s.id, Diff: d, Text: s.text}, nil
}

// CanUndo returns true if undo is available.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (s *Session) UndoCount() int {
	return s.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (s *Session) RedoCount() int {
	return s.history.RedoCount()
}

// UndoInfo describes the undo stack, oldest first.
func (s *Session) UndoInfo() []history.Info {
	return s.history.UndoInfo()
}

// BeginGroup starts an undo group.
// All edits until EndGroup are undone as a single unit.
func (s *Session) BeginGroup(name string) {
	s.history.BeginGroup(name)
}

// EndGroup ends the current undo group.
func (s *Session) EndGroup() {
	s.history.EndGroup()
}

// CancelGroup ends the current group and reverts every edit made in it.
// The revert is not undoable.
func (s *Session) CancelGroup() error {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	e, ok := s.history.CancelGroup()
	if !ok {
		s.mu.Unlock()
		return nil
	}
	c, err := s.restoreLocked(e.Inverse, e.Before, ChangeUndo)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.log.Info("group cancelled", zap.String("group", e.Name))
	s.notify([]Change{c})
	return nil
}

// ClearHistory removes all undo/redo history.
func (s *Session) ClearHistory() {
	s.history.Clear()
}

// ============================================================================
// Snapshot and Tracking Operations
// ============================================================================

// RevisionID returns the current revision.
func (s *Session) RevisionID() RevisionID {
	return s.tracker.CurrentID()
}

// ChangesSince returns the revisions recorded after id, oldest first.
func (s *Session) ChangesSince(id RevisionID) ([]*tracking.Revision, error) {
	return s.tracker.ChangesSince(id)
}

// DiffSince returns one diff turning revision id's text into the current
// text.
func (s *Session) DiffSince(id RevisionID) (diff.Diff, error) {
	return s.tracker.DiffSince(id)
}

// Summary summarizes the changes made since revision id.
func (s *Session) Summary(id RevisionID) (tracking.ChangeSummary, error) {
	return s.tracker.Summary(id)
}

// Snapshot records the current text under name, replacing any snapshot
// with that name. The oldest snapshots beyond the configured limit are
// pruned.
func (s *Session) Snapshot(name string) (*tracking.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	snap := s.tracker.CreateSnapshot(name)
	pruned := 0
	if s.maxSnapshots > 0 {
		pruned = s.tracker.PruneSnapshots(s.maxSnapshots)
	}
	s.log.Info("snapshot created",
		zap.String("name", name),
		zap.Stringer("id", snap.ID),
		zap.Uint64("revision", uint64(snap.Revision)),
		zap.Int("pruned", pruned),
	)
	return snap, nil
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Session) GetSnapshot(id SnapshotID) (*tracking.Snapshot, error) {
	return s.tracker.GetSnapshot(id)
}

// GetSnapshotByName retrieves a snapshot by name.
func (s *Session) GetSnapshotByName(name string) (*tracking.Snapshot, error) {
	return s.tracker.GetSnapshotByName(name)
}

// ListSnapshots returns all snapshots, oldest first.
func (s *Session) ListSnapshots() []*tracking.Snapshot {
	return s.tracker.ListSnapshots()
}

// DeleteSnapshot removes a snapshot.
func (s *Session) DeleteSnapshot(id SnapshotID) {
	s.tracker.DeleteSnapshot(id)
}

// DiffSinceSnapshot returns a diff turning the snapshot's text into the
// current text.
func (s *Session) DiffSinceSnapshot(id SnapshotID) (diff.Diff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.DiffSinceSnapshot(id)
}

// UnifiedSinceSnapshot renders the changes since a snapshot as a unified
// diff.
func (s *Session) UnifiedSinceSnapshot(id SnapshotID, opts tracking.UnifiedOptions) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.UnifiedSinceSnapshot(id, opts)
}

// RestoreSnapshot replaces the text with the snapshot's as one undoable
// edit.
func (s *Session) RestoreSnapshot(id SnapshotID) error {
	snap, err := s.tracker.GetSnapshot(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	c, err := s.applyLocalLocked("restore "+snap.Name, s.text.DiffTo(snap.Rope()), ChangeRestore)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.log.Info("snapshot restored", zap.String("name", snap.Name), zap.Stringer("id", snap.ID))
	if c != nil {
		s.notify([]Change{*c})
	}
	return nil
}

// ============================================================================
// Configuration
// ============================================================================

// TabWidth returns the tab width.
func (s *Session) TabWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tabWidth
}

// SetTabWidth sets the tab width. Non-positive widths are ignored.
func (s *Session) SetTabWidth(width int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width > 0 {
		s.tabWidth = width
	}
}

// LineEnding returns the line ending used by WriteTo.
func (s *Session) LineEnding() LineEnding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lineEnding
}

// SetLineEnding sets the line ending used by WriteTo.
func (s *Session) SetLineEnding(ending LineEnding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineEnding = ending
}

// IsReadOnly returns true if the session rejects edits.
func (s *Session) IsReadOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readOnly
}

// ApplyConfig applies engine settings to a live session: tab width, undo
// limit, revision ring size, snapshot limit, read-only flag, and a fixed
// line ending. "auto" keeps the current line ending.
func (s *Session) ApplyConfig(cfg config.EngineConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.TabWidth > 0 {
		s.tabWidth = cfg.TabWidth
	}
	if cfg.MaxUndo > 0 {
		s.maxUndoEntries = cfg.MaxUndo
		s.history.SetMaxEntries(cfg.MaxUndo)
	}
	if cfg.MaxRevisions > 0 {
		s.maxRevisions = cfg.MaxRevisions
		s.tracker.SetMaxRevisions(cfg.MaxRevisions)
	}
	if cfg.MaxSnapshots >= 0 {
		s.maxSnapshots = cfg.MaxSnapshots
		if s.maxSnapshots > 0 {
			s.tracker.PruneSnapshots(s.maxSnapshots)
		}
	}
	if le, auto, err := ParseLineEnding(cfg.LineEnding); err == nil && !auto {
		s.lineEnding = le
	}
	s.readOnly = cfg.ReadOnly

	s.log.Info("config applied",
		zap.Int("tab_width", s.tabWidth),
		zap.Int("max_undo", s.maxUndoEntries),
		zap.Int("max_revisions", s.maxRevisions),
		zap.Int("max_snapshots", s.maxSnapshots),
		zap.Bool("read_only", s.readOnly),
	)
}

// ============================================================================
// Reset and Close
// ============================================================================

// SetContent replaces all content, resetting selections and history. The
// revision numbering continues; snapshots are kept.
func (s *Session) SetContent(content string) error {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.detectEnding {
		s.lineEnding = DetectLineEnding(content)
	}
	s.text = rope.FromString(normalizeLineEndings(content))
	s.sels = selection.NewSet(selection.Point(0))
	s.history.Clear()
	rev := s.tracker.Reset(s.text)
	n := s.text.Len()
	s.mu.Unlock()

	s.log.Info("content replaced", zap.Int("bytes", n), zap.Uint64("revision", uint64(rev)))
	return nil
}

// Close releases history and snapshots. Reads keep working; edits return
// ErrClosed. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.history.Clear()
	s.tracker.Clear()
	s.log.Debug("session closed")
	return nil
}

// String returns a short description for logs and debugging.
func (s *Session) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("session %s: %d bytes, %d lines, %d selections", s.id, s.text.Len(), s.text.LineCount(), s.sels.Len())
}
