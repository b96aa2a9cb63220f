package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
)

func newRunner(t *testing.T, content string, opts ...Option) (*Runner, *engine.Session) {
	t.Helper()
	s := engine.New(engine.WithContent(content))
	r := NewRunner(s, opts...)
	t.Cleanup(func() {
		r.Close()
		s.Close()
	})
	return r, s
}

func run(t *testing.T, r *Runner, code string) {
	t.Helper()
	if err := r.DoString(context.Background(), "test", code); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
}

func TestInsertAndMove(t *testing.T) {
	r, s := newRunner(t, "world")
	run(t, r, `
		editor.insert("hello ")
		editor.move("doc_end")
		editor.insert("!")
	`)
	if got := s.Text(); got != "hello world!" {
		t.Errorf("Text() = %q, want %q", got, "hello world!")
	}
}

func TestMoveExtend(t *testing.T) {
	r, s := newRunner(t, "abc\ndef")
	run(t, r, `
		editor.move("line_end", true)
		editor.insert("X")
	`)
	if got := s.Text(); got != "X\ndef" {
		t.Errorf("Text() = %q, want %q", got, "X\ndef")
	}
}

func TestMoveUnknownMotion(t *testing.T) {
	r, _ := newRunner(t, "abc")
	err := r.DoString(context.Background(), "bad", `editor.move("sideways")`)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("DoString() error = %v, want *ScriptError", err)
	}
	if se.Kind != KindRuntime {
		t.Errorf("Kind = %q, want %q", se.Kind, KindRuntime)
	}
}

func TestBackspaceDelete(t *testing.T) {
	r, s := newRunner(t, "abcd")
	run(t, r, `
		editor.set_cursor(2)
		editor.backspace()
		editor.delete()
	`)
	if got := s.Text(); got != "ad" {
		t.Errorf("Text() = %q, want %q", got, "ad")
	}
}

func TestReplaceAndRead(t *testing.T) {
	r, _ := newRunner(t, "one\ntwo\nthree")
	run(t, r, `
		editor.replace(4, 7, "TWO")
		assert(editor.text() == "one\nTWO\nthree")
		assert(editor.text(4, 7) == "TWO")
		assert(editor.len() == 13)
		assert(editor.line_count() == 3)
		assert(editor.line(2) == "three")
	`)
}

func TestMultiCursor(t *testing.T) {
	r, s := newRunner(t, "a\nb\nc")
	run(t, r, `
		editor.set_cursor(0)
		editor.add_cursor(2)
		editor.add_cursor(4)
		assert(#editor.selections() == 3)
		editor.insert("- ")
	`)
	if got := s.Text(); got != "- a\n- b\n- c" {
		t.Errorf("Text() = %q", got)
	}
	run(t, r, `
		editor.collapse()
		assert(#editor.selections() == 1)
	`)
}

func TestSelections(t *testing.T) {
	r, _ := newRunner(t, "hello")
	run(t, r, `
		editor.select(1, 4)
		local sels = editor.selections()
		assert(#sels == 1)
		assert(sels[1].anchor == 1)
		assert(sels[1].cursor == 4)
		editor.add_cursor(0, 0)
		sels = editor.selections()
		assert(sels[1].cursor == 0)
	`)
}

func TestSelectAll(t *testing.T) {
	r, s := newRunner(t, "old text")
	run(t, r, `
		editor.select_all()
		editor.insert("new")
	`)
	if got := s.Text(); got != "new" {
		t.Errorf("Text() = %q, want %q", got, "new")
	}
}

func TestUndoRedo(t *testing.T) {
	r, s := newRunner(t, "")
	run(t, r, `
		assert(editor.undo() == false)
		editor.insert("a")
		editor.insert("b")
		assert(editor.undo() == true)
		assert(editor.text() == "a")
		assert(editor.redo() == true)
		assert(editor.redo() == false)
	`)
	if got := s.Text(); got != "ab" {
		t.Errorf("Text() = %q, want %q", got, "ab")
	}
}

func TestGroup(t *testing.T) {
	r, s := newRunner(t, "")
	run(t, r, `
		editor.begin_group("typing")
		editor.insert("a")
		editor.insert("b")
		editor.end_group()
	`)
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := s.Text(); got != "" {
		t.Errorf("Text() after undo = %q, want empty", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	r, s := newRunner(t, "base")
	run(t, r, `
		local id = editor.snapshot("start")
		editor.select_all()
		editor.insert("changed")
		editor.restore(id)
		assert(editor.text() == "base")
		editor.insert("x")
		editor.restore("start")
	`)
	if got := s.Text(); got != "base" {
		t.Errorf("Text() = %q, want %q", got, "base")
	}
	if len(s.ListSnapshots()) != 1 {
		t.Errorf("ListSnapshots() len = %d, want 1", len(s.ListSnapshots()))
	}
}

func TestRestoreUnknownSnapshot(t *testing.T) {
	r, _ := newRunner(t, "")
	err := r.DoString(context.Background(), "restore", `editor.restore("nope")`)
	if !errors.Is(err, engine.ErrSnapshotNotFound) {
		t.Errorf("DoString() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestEngineErrorUnwraps(t *testing.T) {
	s := engine.New(engine.WithContent("locked"), engine.WithReadOnly())
	r := NewRunner(s)
	defer r.Close()

	err := r.DoString(context.Background(), "ro", `editor.insert("x")`)
	if !errors.Is(err, engine.ErrReadOnly) {
		t.Fatalf("DoString() error = %v, want ErrReadOnly", err)
	}
	var se *ScriptError
	if !errors.As(err, &se) || se.Script != "ro" {
		t.Errorf("error = %#v, want *ScriptError for script ro", err)
	}
}

func TestOffsetOutOfRange(t *testing.T) {
	r, _ := newRunner(t, "abc")
	err := r.DoString(context.Background(), "range", `editor.set_cursor(99)`)
	if err == nil {
		t.Fatal("DoString() error = nil, want error")
	}
}

func TestPcallCatchesEditorError(t *testing.T) {
	r, s := newRunner(t, "abc")
	run(t, r, `
		local ok = pcall(editor.set_cursor, 99)
		assert(not ok)
		editor.insert(">")
	`)
	if got := s.Text(); got != ">abc" {
		t.Errorf("Text() = %q, want %q", got, ">abc")
	}
}

func TestSyntaxError(t *testing.T) {
	r, _ := newRunner(t, "")
	err := r.DoString(context.Background(), "syntax", `editor.insert(`)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("DoString() error = %v, want *ScriptError", err)
	}
	if se.Kind != KindSyntax {
		t.Errorf("Kind = %q, want %q", se.Kind, KindSyntax)
	}
}

func TestSandbox(t *testing.T) {
	r, _ := newRunner(t, "")

	tests := []string{"io", "os", "debug", "package", "dofile", "loadfile", "load", "loadstring", "require"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			run(t, r, `assert(`+name+` == nil, "`+name+` is reachable")`)
		})
	}

	run(t, r, `
		assert(string.upper("a") == "A")
		assert(math.max(1, 2) == 2)
		assert(table.concat({"a", "b"}, ",") == "a,b")
	`)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	r, _ := newRunner(t, "xyz", WithOutput(&buf))
	run(t, r, `print("len", editor.len())`)
	if got := buf.String(); got != "len\t3\n" {
		t.Errorf("output = %q, want %q", got, "len\t3\n")
	}
}

func TestTimeout(t *testing.T) {
	r, _ := newRunner(t, "", WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := r.DoString(context.Background(), "loop", `while true do end`)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("DoString() error = %v, want ErrTimeout", err)
	}
	var se *ScriptError
	if errors.As(err, &se) && se.Kind != KindTimeout {
		t.Errorf("Kind = %q, want %q", se.Kind, KindTimeout)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("script was not interrupted")
	}

	// The runner stays usable.
	run(t, r, `editor.insert("ok")`)
}

func TestCancel(t *testing.T) {
	r, _ := newRunner(t, "", WithTimeout(0))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := r.DoString(ctx, "loop", `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("DoString() error = %v, want context.Canceled", err)
	}
}

func TestCallStackLimit(t *testing.T) {
	r, _ := newRunner(t, "", WithCallStackSize(32))
	err := r.DoString(context.Background(), "deep", `
		local function f(n) return 1 + f(n + 1) end
		f(0)
	`)
	if err == nil {
		t.Fatal("DoString() error = nil, want stack overflow")
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default().Script
	cfg.TimeoutMS = 1500
	cfg.CallStackSize = 64
	r, _ := newRunner(t, "", WithConfig(cfg))
	if r.timeout != 1500*time.Millisecond {
		t.Errorf("timeout = %v, want 1.5s", r.timeout)
	}
	if r.callStackSize != 64 {
		t.Errorf("callStackSize = %d, want 64", r.callStackSize)
	}
}

func TestDoFile(t *testing.T) {
	r, s := newRunner(t, "")
	path := filepath.Join(t.TempDir(), "edit.lua")
	if err := os.WriteFile(path, []byte(`editor.insert("from file")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if got := s.Text(); got != "from file" {
		t.Errorf("Text() = %q", got)
	}

	err := r.DoFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	var se *ScriptError
	if !errors.As(err, &se) || se.Kind != KindFile {
		t.Errorf("DoFile(missing) error = %v, want file ScriptError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("DoFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestClose(t *testing.T) {
	r, _ := newRunner(t, "")
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := r.DoString(context.Background(), "x", "x = 1"); !errors.Is(err, ErrClosed) {
		t.Errorf("DoString() after Close error = %v, want ErrClosed", err)
	}
}
