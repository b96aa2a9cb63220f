package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSettingNotFound   = errors.New("unknown setting")
	ErrTypeMismatch      = errors.New("wrong value type")
	ErrValidationFailed  = errors.New("invalid setting")
	ErrFileNotFound      = errors.New("no such config file")
	ErrInvalidPath       = errors.New("malformed setting assignment")
	ErrUnsupportedFormat = errors.New("config format must be toml or yaml")
)

// ParseError locates a syntax or schema problem in a config file. Line
// and Column are 1-based; zero means unknown.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ":%d", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationErrorCode says which rule a setting broke.
type ValidationErrorCode uint8

const (
	ErrCodeOutOfRange ValidationErrorCode = iota
	ErrCodeInvalidEnum
)

func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// ValidationError reports one setting that failed Validate. It matches
// ErrValidationFailed under errors.Is.
type ValidationError struct {
	Path    string
	Message string
	Value   any
	Code    ValidationErrorCode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Path, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// TypeError reports a string that could not be parsed as the setting's
// type. It matches ErrTypeMismatch under errors.Is.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: want %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool { return target == ErrTypeMismatch }
