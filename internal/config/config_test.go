package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "textcore.toml", `
[engine]
tab_width = 8
max_undo = 50
line_ending = "crlf"

[logging]
level = "debug"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Engine.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", cfg.Engine.TabWidth)
	}
	if cfg.Engine.MaxUndo != 50 {
		t.Errorf("MaxUndo = %d, want 50", cfg.Engine.MaxUndo)
	}
	if cfg.Engine.LineEnding != LineEndingCRLF {
		t.Errorf("LineEnding = %q, want crlf", cfg.Engine.LineEnding)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched keys keep defaults.
	if cfg.Engine.MaxRevisions != DefaultMaxRevisions {
		t.Errorf("MaxRevisions = %d, want default", cfg.Engine.MaxRevisions)
	}
	if cfg.Script.CallStackSize != DefaultCallStackSize {
		t.Errorf("CallStackSize = %d, want default", cfg.Script.CallStackSize)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "textcore.yaml", `
engine:
  tab_width: 2
  read_only: true
script:
  timeout_ms: 250
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Engine.TabWidth != 2 || !cfg.Engine.ReadOnly {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Script.TimeoutMS != 250 {
		t.Errorf("TimeoutMS = %d, want 250", cfg.Script.TimeoutMS)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, "empty.yml", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("empty file should yield defaults, got %+v", cfg)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantLine int
	}{
		{"toml", "bad.toml", "[engine]\ntab_width = 4\nbogus = 1\n", 3},
		{"yaml", "bad.yaml", "engine:\n  tab_width: 4\n  bogus: 1\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.content))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d (%v)", pe.Line, tt.wantLine, err)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing file: err = %v, want ErrFileNotFound", err)
	}
	if _, err := LoadFile(writeFile(t, "cfg.json", "{}")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("json: err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := LoadFile(writeFile(t, "bad.toml", "[engine\n")); err == nil {
		t.Error("malformed toml should fail")
	}
}

func TestLoadValidates(t *testing.T) {
	path := writeFile(t, "textcore.toml", "[engine]\ntab_width = 0\n")
	_, err := Load(path)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := EnvMap(map[string]string{
		"TEXTCORE_ENGINE_MAX_UNDO":    "7",
		"TEXTCORE_ENGINE_READ_ONLY":   "yes",
		"TEXTCORE_LOGGING_LEVEL":      "warn",
		"TEXTCORE_UNRELATED_VARIABLE": "x",
	})
	if err := cfg.ApplyEnv(EnvPrefix, env); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Engine.MaxUndo != 7 {
		t.Errorf("MaxUndo = %d, want 7", cfg.Engine.MaxUndo)
	}
	if !cfg.Engine.ReadOnly {
		t.Error("ReadOnly should be true")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}

	bad := EnvMap(map[string]string{"TEXTCORE_ENGINE_TAB_WIDTH": "wide"})
	err := Default().ApplyEnv(EnvPrefix, bad)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
	if !strings.Contains(err.Error(), "TEXTCORE_ENGINE_TAB_WIDTH") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName(EnvPrefix, "script.call_stack_size"); got != "TEXTCORE_SCRIPT_CALL_STACK_SIZE" {
		t.Errorf("EnvName = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
		code   ValidationErrorCode
	}{
		{"tab width zero", func(c *Config) { c.Engine.TabWidth = 0 }, "engine.tab_width", ErrCodeOutOfRange},
		{"tab width huge", func(c *Config) { c.Engine.TabWidth = 33 }, "engine.tab_width", ErrCodeOutOfRange},
		{"max undo", func(c *Config) { c.Engine.MaxUndo = 0 }, "engine.max_undo", ErrCodeOutOfRange},
		{"max revisions", func(c *Config) { c.Engine.MaxRevisions = -1 }, "engine.max_revisions", ErrCodeOutOfRange},
		{"max snapshots", func(c *Config) { c.Engine.MaxSnapshots = -1 }, "engine.max_snapshots", ErrCodeOutOfRange},
		{"line ending", func(c *Config) { c.Engine.LineEnding = "nel" }, "engine.line_ending", ErrCodeInvalidEnum},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level", ErrCodeInvalidEnum},
		{"timeout", func(c *Config) { c.Script.TimeoutMS = -5 }, "script.timeout_ms", ErrCodeOutOfRange},
		{"call stack", func(c *Config) { c.Script.CallStackSize = 0 }, "script.call_stack_size", ErrCodeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Path != tt.path || ve.Code != tt.code {
				t.Errorf("got %s/%s, want %s/%s", ve.Path, ve.Code, tt.path, tt.code)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Engine.TabWidth = 0
	cfg.Script.CallStackSize = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("err %T does not wrap multiple errors", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("got %d errors, want 2", n)
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()
	if err := cfg.Set("engine.tab_width", " 8 "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := cfg.Get("engine.tab_width")
	if err != nil || v != 8 {
		t.Errorf("Get = %v, %v; want 8", v, err)
	}
	if err := cfg.Set("engine.read_only", "on"); err != nil || !cfg.Engine.ReadOnly {
		t.Errorf("Set bool: %v, ReadOnly=%v", err, cfg.Engine.ReadOnly)
	}
	if err := cfg.Set("engine.read_only", "maybe"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("bad bool err = %v", err)
	}
	if _, err := cfg.Get("engine.nope"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("Get unknown err = %v", err)
	}
	if err := cfg.Set("nope", "1"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("Set unknown err = %v", err)
	}
}

func TestSetAll(t *testing.T) {
	cfg := Default()
	err := cfg.SetAll([]string{"engine.max_undo=3", "logging.file=/tmp/x.log"})
	if err != nil {
		t.Fatalf("SetAll: %v", err)
	}
	if cfg.Engine.MaxUndo != 3 || cfg.Logging.File != "/tmp/x.log" {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.SetAll([]string{"engine.max_undo"}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("missing '=' err = %v", err)
	}
}

func TestPathsSorted(t *testing.T) {
	paths := Default().Paths()
	if len(paths) != 11 {
		t.Fatalf("len(Paths) = %d, want 11", len(paths))
	}
	for i := 1; i < len(paths); i++ {
		if paths[i-1] >= paths[i] {
			t.Fatalf("paths not sorted: %v", paths)
		}
	}
}

func TestClone(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.Engine.TabWidth = 2
	if a.Engine.TabWidth != DefaultTabWidth {
		t.Error("Clone shares state with original")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			cfg := Default()
			cfg.Engine.TabWidth = 3
			cfg.Logging.Development = true

			var buf bytes.Buffer
			if err := cfg.Encode(&buf, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got := Default()
			if err := Decode(&buf, format, "buffer", got); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if *got != *cfg {
				t.Errorf("round trip = %+v, want %+v", got, cfg)
			}
		})
	}
}

func TestWatcherReloads(t *testing.T) {
	path := writeFile(t, "textcore.toml", "[engine]\ntab_width = 4\n")

	reloads := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config, err error) {
		if err == nil {
			reloads <- cfg
		}
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		// Rewrite until the watcher has started and sees the change.
		if err := os.WriteFile(path, []byte("[engine]\ntab_width = 6\n"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		select {
		case cfg := <-reloads:
			if cfg.Engine.TabWidth != 6 {
				t.Errorf("reloaded TabWidth = %d, want 6", cfg.Engine.TabWidth)
			}
			return
		case <-tick.C:
		case <-deadline:
			t.Fatal("watcher never reloaded")
		}
	}
}

func TestWatcherRelevant(t *testing.T) {
	path := writeFile(t, "textcore.toml", "")
	w, err := NewWatcher(path, func(*Config, error) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	sibling := filepath.Join(filepath.Dir(path), "other.toml")
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: sibling, Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := w.relevant(tt.ev); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}
