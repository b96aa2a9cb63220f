package script

import (
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

var (
	// ErrClosed is returned when running a script on a closed Runner.
	ErrClosed = errors.New("script runner is closed")

	// ErrTimeout is returned when a script exceeds its time limit.
	ErrTimeout = errors.New("script timed out")
)

// ErrorKind classifies a ScriptError.
type ErrorKind string

const (
	KindSyntax  ErrorKind = "syntax"
	KindRuntime ErrorKind = "runtime"
	KindFile    ErrorKind = "file"
	KindTimeout ErrorKind = "timeout"
	KindPanic   ErrorKind = "panic"
)

// ScriptError reports a failed script.
//
// Err is the underlying cause. When an editor call failed inside the
// script, Err is the engine error, so errors.Is(err, engine.ErrReadOnly)
// works through a ScriptError.
type ScriptError struct {
	Script  string
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %s error: %s", e.Script, e.Kind, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// newScriptError classifies err returned by gopher-lua. cause is the last
// Go error raised by an editor function, if any.
func newScriptError(name string, err error, cause error) *ScriptError {
	se := &ScriptError{Script: name, Kind: KindRuntime, Message: err.Error(), Err: err}

	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		if apiErr.Object != nil {
			se.Message = apiErr.Object.String()
		}
		switch apiErr.Type {
		case lua.ApiErrorSyntax:
			se.Kind = KindSyntax
		case lua.ApiErrorFile:
			se.Kind = KindFile
		case lua.ApiErrorPanic:
			se.Kind = KindPanic
		}
		if apiErr.Cause != nil {
			se.Err = apiErr.Cause
		}
	}

	if cause != nil && strings.Contains(se.Message, cause.Error()) {
		se.Err = cause
	}
	return se
}
