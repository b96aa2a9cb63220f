// Package main is the entry point for the textcore command.
//
// textcore loads a file into an editing session, runs Lua edit scripts
// against it and writes the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/engine/tracking"
	"github.com/dshills/textcore/internal/logger"
	"github.com/dshills/textcore/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	configPath  string
	scripts     stringList
	exprs       stringList
	sets        stringList
	output      string
	logLevel    string
	debug       bool
	showDiff    bool
	printConfig string
	showVersion bool
	file        string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var opts options
	fs := flag.NewFlagSet("textcore", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.Var(&opts.scripts, "script", "Lua edit script to run (repeatable)")
	fs.Var(&opts.scripts, "s", "Lua edit script to run (shorthand)")
	fs.Var(&opts.exprs, "e", "Inline Lua to run before scripts (repeatable)")
	fs.Var(&opts.sets, "set", "Override a setting, e.g. engine.tab_width=8 (repeatable)")
	fs.StringVar(&opts.output, "o", "", "Write the result to this file instead of stdout")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.debug, "debug", false, "Enable development logging")
	fs.BoolVar(&opts.showDiff, "diff", false, "Print a unified diff instead of the edited text")
	fs.StringVar(&opts.printConfig, "print-config", "", "Print the effective configuration as toml or yaml and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "textcore - scriptable text editing core\n\n")
		fmt.Fprintf(stderr, "Usage: textcore [options] [file]\n\n")
		fmt.Fprintf(stderr, "Reads file (or stdin when file is absent or -), runs the given\n")
		fmt.Fprintf(stderr, "Lua scripts against it and writes the result.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  textcore -e 'editor.select_all() editor.insert(\"x\")' in.txt\n")
		fmt.Fprintf(stderr, "  textcore -s fix.lua -o out.txt in.txt\n")
		fmt.Fprintf(stderr, "  textcore -s fix.lua -diff in.txt\n")
		fmt.Fprintf(stderr, "  textcore -set engine.line_ending=crlf -print-config toml\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.file = fs.Arg(0)
	default:
		fs.Usage()
		return nil, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}
	return &opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "textcore %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if opts.printConfig != "" {
		if err := cfg.Encode(stdout, config.Format(opts.printConfig)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		return exitOK
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logging: %v\n", err)
		return exitError
	}
	defer logger.Close()

	if err := edit(ctx, opts, cfg, stdin, stdout, stderr); err != nil {
		logger.Error("edit failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// loadConfig layers defaults, the config file, the environment and -set
// overrides, then the logging flags.
func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
		if err := cfg.ApplyEnv(config.EnvPrefix, os.LookupEnv); err != nil {
			return nil, err
		}
	}

	if err := cfg.SetAll(opts.sets); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.debug {
		cfg.Logging.Development = true
		if opts.logLevel == "" {
			cfg.Logging.Level = "debug"
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func edit(ctx context.Context, opts *options, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	in := stdin
	name := "stdin"
	if opts.file != "" && opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()
		in, name = f, opts.file
	}

	session, err := engine.NewFromReader(in,
		engine.WithConfig(cfg.Engine),
		engine.WithLogger(logger.Named("engine")),
	)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	defer session.Close()

	if opts.configPath != "" {
		stop, err := watchConfig(ctx, opts, session)
		if err != nil {
			return err
		}
		defer stop()
	}

	original, err := session.Snapshot("original")
	if err != nil {
		return err
	}

	runner := script.NewRunner(session,
		script.WithConfig(cfg.Script),
		script.WithLogger(logger.Named("script")),
		script.WithOutput(stderr),
	)
	defer runner.Close()

	for i, code := range opts.exprs {
		if err := runner.DoString(ctx, fmt.Sprintf("-e #%d", i+1), code); err != nil {
			return err
		}
	}
	for _, path := range opts.scripts {
		if err := runner.DoFile(ctx, path); err != nil {
			return err
		}
	}

	logger.Info("edits applied",
		"file", name,
		"revision", uint64(session.RevisionID()),
		"bytes", session.Len(),
	)

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if opts.showDiff {
		text, err := session.UnifiedSinceSnapshot(original.ID, tracking.UnifiedOptions{
			OldName: "a/" + name,
			NewName: "b/" + name,
		})
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, text)
		return err
	}

	if _, err := session.WriteTo(out); err != nil {
		logger.L.Error("write failed", zap.String("file", opts.output), zap.Error(err))
		return err
	}
	return nil
}

// watchConfig reapplies the engine settings whenever the config file
// changes while scripts run. The -set overrides are layered on again. The
// returned func stops the watcher and waits for it.
func watchConfig(ctx context.Context, opts *options, session *engine.Session) (func(), error) {
	w, err := config.NewWatcher(opts.configPath, func(cfg *config.Config, err error) {
		if err == nil {
			err = cfg.SetAll(opts.sets)
		}
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			logger.Warn("config reload failed", "file", opts.configPath, "error", err)
			return
		}
		session.ApplyConfig(cfg.Engine)
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			logger.Warn("config watcher stopped", "file", w.Path(), "error", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}
