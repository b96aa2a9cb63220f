package config

import (
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Upper bounds for numeric settings.
const (
	maxTabWidth      = 32
	maxCallStackSize = 1 << 16
)

var lineEndings = []string{LineEndingAuto, LineEndingLF, LineEndingCRLF, LineEndingCR}

// Validate checks every setting and returns all failures joined.
// Each failure is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if c.Engine.TabWidth < 1 || c.Engine.TabWidth > maxTabWidth {
		add("engine.tab_width", "must be between 1 and 32", c.Engine.TabWidth, ErrCodeOutOfRange)
	}
	if c.Engine.MaxUndo < 1 {
		add("engine.max_undo", "must be positive", c.Engine.MaxUndo, ErrCodeOutOfRange)
	}
	if c.Engine.MaxRevisions < 1 {
		add("engine.max_revisions", "must be positive", c.Engine.MaxRevisions, ErrCodeOutOfRange)
	}
	if c.Engine.MaxSnapshots < 0 {
		add("engine.max_snapshots", "must not be negative", c.Engine.MaxSnapshots, ErrCodeOutOfRange)
	}
	if !slices.Contains(lineEndings, strings.ToLower(c.Engine.LineEnding)) {
		add("engine.line_ending", "must be one of "+strings.Join(lineEndings, ", "), c.Engine.LineEnding, ErrCodeInvalidEnum)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "must be one of debug, info, warn, error", c.Logging.Level, ErrCodeInvalidEnum)
	}
	if c.Script.TimeoutMS < 0 {
		add("script.timeout_ms", "must not be negative", c.Script.TimeoutMS, ErrCodeOutOfRange)
	}
	if c.Script.CallStackSize < 1 || c.Script.CallStackSize > maxCallStackSize {
		add("script.call_stack_size", "must be between 1 and 65536", c.Script.CallStackSize, ErrCodeOutOfRange)
	}
	return errors.Join(errs...)
}
