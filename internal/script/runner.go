package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
)

// Default limits.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultCallStackSize = 256
)

// Runner executes Lua scripts against a Session.
//
// gopher-lua's LState is not goroutine-safe; Runner serializes every
// script behind a mutex. Scripts see a global "editor" table bound to
// the session and a sandboxed standard library.
type Runner struct {
	mu sync.Mutex
	L  *lua.LState

	session *engine.Session
	log     *zap.Logger
	out     io.Writer

	timeout       time.Duration
	callStackSize int

	// lastErr is the last engine error raised into Lua.
	lastErr error
	closed  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each script's run time. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithCallStackSize bounds Lua call depth.
func WithCallStackSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.callStackSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithOutput sets where print writes. The default discards output.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithConfig applies script limits from a loaded configuration.
func WithConfig(cfg config.ScriptConfig) Option {
	return func(r *Runner) {
		r.timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
		if cfg.CallStackSize > 0 {
			r.callStackSize = cfg.CallStackSize
		}
	}
}

// NewRunner creates a sandboxed Lua state bound to session.
func NewRunner(session *engine.Session, opts ...Option) *Runner {
	r := &Runner{
		session:       session,
		log:           zap.NewNop(),
		out:           io.Discard,
		timeout:       DefaultTimeout,
		callStackSize: DefaultCallStackSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: r.callStackSize,
	})
	openSafeLibraries(r.L)
	installSandbox(r.L)
	r.installPrint()
	r.L.SetGlobal("editor", r.editorModule())
	return r
}

// Session returns the session scripts edit.
func (r *Runner) Session() *engine.Session {
	return r.session
}

// DoString runs code. name identifies the chunk in error messages.
func (r *Runner) DoString(ctx context.Context, name, code string) error {
	return r.run(ctx, name, func() (*lua.LFunction, error) {
		return r.L.Load(strings.NewReader(code), name)
	})
}

// DoFile runs the script at path.
func (r *Runner) DoFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func() (*lua.LFunction, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, &lua.ApiError{Type: lua.ApiErrorFile, Object: lua.LString(err.Error()), Cause: err}
		}
		defer f.Close()
		return r.L.Load(f, path)
	})
}

func (r *Runner) run(ctx context.Context, name string, load func() (*lua.LFunction, error)) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.lastErr = nil

	fn, err := load()
	if err != nil {
		se := newScriptError(name, err, nil)
		r.log.Warn("script failed to load", zap.String("script", name), zap.Error(se))
		return se
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(runCtx)
	defer r.L.RemoveContext()

	start := time.Now()
	r.log.Debug("script start", zap.String("script", name))

	defer func() {
		if p := recover(); p != nil {
			err = &ScriptError{Script: name, Kind: KindPanic, Message: fmt.Sprint(p)}
			r.log.Error("script panicked", zap.String("script", name), zap.Any("panic", p))
		}
	}()

	r.L.Push(fn)
	if callErr := r.L.PCall(0, lua.MultRet, nil); callErr != nil {
		se := newScriptError(name, callErr, r.lastErr)
		if ctxErr := runCtx.Err(); ctxErr != nil {
			se.Err = ctxErr
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				se.Kind = KindTimeout
				if ctx.Err() == nil {
					se.Err = ErrTimeout
				}
			}
		}
		r.L.SetTop(0)
		r.log.Warn("script failed", zap.String("script", name), zap.Error(se))
		return se
	}
	r.L.SetTop(0)

	r.log.Debug("script done",
		zap.String("script", name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Close releases the Lua state. Close is idempotent.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}
