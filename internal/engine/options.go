package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/tracking"
)

// Default configuration values.
const (
	DefaultTabWidth       = config.DefaultTabWidth
	DefaultMaxUndoEntries = history.DefaultMaxEntries
	DefaultMaxRevisions   = tracking.DefaultMaxRevisions
	DefaultMaxSnapshots   = config.DefaultMaxSnapshots
)

// Option configures a Session during creation.
type Option func(*Session)

// WithContent sets the initial content. Line endings are normalized to
// "\n"; unless WithLineEnding is given, the output ending is detected
// from content.
func WithContent(content string) Option {
	return func(s *Session) {
		s.initContent = content
	}
}

// WithTabWidth sets the tab width used for display columns.
func WithTabWidth(width int) Option {
	return func(s *Session) {
		if width > 0 {
			s.tabWidth = width
		}
	}
}

// WithLineEnding fixes the line ending used on output.
func WithLineEnding(ending LineEnding) Option {
	return func(s *Session) {
		s.lineEnding = ending
		s.detectEnding = false
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(s *Session) {
		if max > 0 {
			s.maxUndoEntries = max
		}
	}
}

// WithMaxRevisions sets the maximum number of stored revisions.
func WithMaxRevisions(max int) Option {
	return func(s *Session) {
		if max > 0 {
			s.maxRevisions = max
		}
	}
}

// WithMaxSnapshots bounds the number of named snapshots. Zero means
// unlimited.
func WithMaxSnapshots(max int) Option {
	return func(s *Session) {
		if max >= 0 {
			s.maxSnapshots = max
		}
	}
}

// WithReadOnly creates a read-only session.
// Edits will return ErrReadOnly.
func WithReadOnly() Option {
	return func(s *Session) {
		s.readOnly = true
	}
}

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithID sets the session ID, which is also the site recorded for local
// edits.
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithConfig applies engine settings from a configuration file. Options
// after it override individual settings. An invalid line ending is
// ignored; config.Validate reports it.
func WithConfig(cfg config.EngineConfig) Option {
	return func(s *Session) {
		WithTabWidth(cfg.TabWidth)(s)
		WithMaxUndoEntries(cfg.MaxUndo)(s)
		WithMaxRevisions(cfg.MaxRevisions)(s)
		WithMaxSnapshots(cfg.MaxSnapshots)(s)
		if le, auto, err := ParseLineEnding(cfg.LineEnding); err == nil {
			s.lineEnding, s.detectEnding = le, auto
		}
		if cfg.ReadOnly {
			s.readOnly = true
		}
	}
}
