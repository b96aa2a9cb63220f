package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Line ending settings accepted by EngineConfig.LineEnding.
const (
	LineEndingAuto = "auto"
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
	LineEndingCR   = "cr"
)

// Default configuration values.
const (
	DefaultTabWidth      = 4
	DefaultMaxUndo       = 1000
	DefaultMaxRevisions  = 100
	DefaultMaxSnapshots  = 32
	DefaultLogLevel      = "info"
	DefaultScriptTimeout = 5000
	DefaultCallStackSize = 256
)

// Config is the complete textcore configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
}

// EngineConfig holds settings applied to editing sessions.
type EngineConfig struct {
	// TabWidth is the display width of a tab stop.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// MaxUndo bounds the undo stack.
	MaxUndo int `toml:"max_undo" yaml:"max_undo"`

	// MaxRevisions bounds the revision ring.
	MaxRevisions int `toml:"max_revisions" yaml:"max_revisions"`

	// MaxSnapshots bounds the number of named snapshots; the oldest are
	// pruned first. Zero means unlimited.
	MaxSnapshots int `toml:"max_snapshots" yaml:"max_snapshots"`

	// LineEnding selects how loaded text is normalized: "auto" detects
	// it from the content, or one of "lf", "crlf", "cr".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`

	// ReadOnly rejects every edit.
	ReadOnly bool `toml:"read_only" yaml:"read_only"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// File receives the log; empty means stderr.
	File string `toml:"file" yaml:"file"`

	// Development enables caller annotations and stack traces on warn.
	Development bool `toml:"development" yaml:"development"`
}

// ScriptConfig limits Lua edit scripts.
type ScriptConfig struct {
	// TimeoutMS cancels a script that runs longer. Zero disables the limit.
	TimeoutMS int `toml:"timeout_ms" yaml:"timeout_ms"`

	// CallStackSize bounds Lua call depth.
	CallStackSize int `toml:"call_stack_size" yaml:"call_stack_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TabWidth:     DefaultTabWidth,
			MaxUndo:      DefaultMaxUndo,
			MaxRevisions: DefaultMaxRevisions,
			MaxSnapshots: DefaultMaxSnapshots,
			LineEnding:   LineEndingAuto,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Script: ScriptConfig{
			TimeoutMS:     DefaultScriptTimeout,
			CallStackSize: DefaultCallStackSize,
		},
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// settings maps every dotted setting path to a pointer into c.
func (c *Config) settings() map[string]any {
	return map[string]any{
		"engine.tab_width":       &c.Engine.TabWidth,
		"engine.max_undo":        &c.Engine.MaxUndo,
		"engine.max_revisions":   &c.Engine.MaxRevisions,
		"engine.max_snapshots":   &c.Engine.MaxSnapshots,
		"engine.line_ending":     &c.Engine.LineEnding,
		"engine.read_only":       &c.Engine.ReadOnly,
		"logging.level":          &c.Logging.Level,
		"logging.file":           &c.Logging.File,
		"logging.development":    &c.Logging.Development,
		"script.timeout_ms":      &c.Script.TimeoutMS,
		"script.call_stack_size": &c.Script.CallStackSize,
	}
}

// Paths returns every setting path, sorted.
func (c *Config) Paths() []string {
	settings := c.settings()
	paths := make([]string, 0, len(settings))
	for path := range settings {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Get returns the value at a dotted setting path such as
// "engine.tab_width".
func (c *Config) Get(path string) (any, error) {
	ptr, ok := c.settings()[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrSettingNotFound)
	}
	switch p := ptr.(type) {
	case *int:
		return *p, nil
	case *bool:
		return *p, nil
	case *string:
		return *p, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrSettingNotFound)
}

// Set parses value and stores it at path.
func (c *Config) Set(path, value string) error {
	ptr, ok := c.settings()[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrSettingNotFound)
	}
	switch p := ptr.(type) {
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return &TypeError{Path: path, Expected: "int", Actual: strconv.Quote(value)}
		}
		*p = n
	case *bool:
		b, err := parseBool(value)
		if err != nil {
			return &TypeError{Path: path, Expected: "bool", Actual: strconv.Quote(value)}
		}
		*p = b
	case *string:
		*p = value
	}
	return nil
}

// SetAll applies "path=value" assignments in order.
func (c *Config) SetAll(assignments []string) error {
	for _, a := range assignments {
		path, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("%q: %w", a, ErrInvalidPath)
		}
		if err := c.Set(strings.TrimSpace(path), value); err != nil {
			return err
		}
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool %q", s)
}
