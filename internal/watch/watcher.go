package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a regeneration.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the outcome of a single pipeline execution.
type RunResult struct {
	// Summary is printed on the status line after OK.
	Summary string

	// Problems are failures that did not stop the run, such as a template
	// that could not be written.
	Problems error
}

// Options configures the watch behaviour.
type Options struct {
	// DataDir holds the CSV source. It is watched non-recursively.
	DataDir string

	// TemplateDir holds the userscript templates. It is watched
	// non-recursively.
	TemplateDir string

	// CSVExt selects data files; a change to one in either directory
	// triggers a run.
	CSVExt string

	// ScriptExt selects templates; only changes inside TemplateDir count.
	ScriptExt string

	// Interval is the minimum time between two triggers for the same path.
	Interval time.Duration

	// InitialRun runs the pipeline once before waiting for events.
	InitialRun bool

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status lines.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		DataDir:     "generator_stuff",
		TemplateDir: "userscripts_base",
		CSVExt:      ".csv",
		ScriptExt:   ".js",
		Interval:    500 * time.Millisecond,
		InitialRun:  true,
		Logger:      slog.Default(),
		Out:         os.Stdout,
	}
}

// Watcher re-runs a RunFunc when relevant files change. A Watcher owns its
// throttle state; create one per watch session.
type Watcher struct {
	opts     Options
	runFn    RunFunc
	throttle *Throttle
}

// New creates a watcher. Nothing is observed until Run is called.
func New(opts Options, runFn RunFunc) *Watcher {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	return &Watcher{
		opts:     opts,
		runFn:    runFn,
		throttle: NewThrottle(opts.Interval),
	}
}

// Run starts observing both directories and blocks until the context is
// cancelled or a SIGINT/SIGTERM signal is received. The file system
// watcher is closed before Run returns. Pipeline errors are printed and do
// not stop the watcher; failing to set up observation does.
func (w *Watcher) Run(ctx context.Context) error {
	templateDir, err := filepath.Abs(w.opts.TemplateDir)
	if err != nil {
		return fmt.Errorf("resolving template directory %q: %w", w.opts.TemplateDir, err)
	}

	dataDir, err := filepath.Abs(w.opts.DataDir)
	if err != nil {
		return fmt.Errorf("resolving data directory %q: %w", w.opts.DataDir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range uniqueDirs(dataDir, templateDir) {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	defer w.throttle.Reset()

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(w.opts.Out, "watching %s and %s (interval=%s)\n",
		w.opts.DataDir, w.opts.TemplateDir, w.opts.Interval)

	if w.opts.InitialRun {
		w.run(sigCtx, "(initial)")
	}

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(w.opts.Out, "shutting down watcher")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if !IsRelevant(event, templateDir, w.opts.CSVExt, w.opts.ScriptExt) {
				continue
			}

			if !w.throttle.Allow(event.Name, time.Now()) {
				w.opts.Logger.Debug("change throttled", slog.String("path", event.Name))
				continue
			}

			w.run(sigCtx, event.Name)

		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			w.opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// run executes a single pipeline run and prints the status line.
func (w *Watcher) run(ctx context.Context, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := w.runFn(ctx)
	if err != nil {
		fmt.Fprintf(w.opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	if result == nil {
		result = &RunResult{}
	}

	if result.Summary != "" {
		fmt.Fprintf(w.opts.Out, "[%s] %s → OK (%s)\n", now, trigger, result.Summary)
	} else {
		fmt.Fprintf(w.opts.Out, "[%s] %s → OK\n", now, trigger)
	}

	if result.Problems != nil {
		for _, line := range strings.Split(result.Problems.Error(), "\n") {
			fmt.Fprintf(w.opts.Out, "  warning: %s\n", line)
		}
	}
}

// IsRelevant reports whether event should trigger a run: a write or
// create of a CSV file, or of a script directly inside templateDir.
func IsRelevant(event fsnotify.Event, templateDir, csvExt, scriptExt string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	name := filepath.Base(event.Name)

	// Ignore editor temporary files and hidden files.
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	if csvExt != "" && strings.HasSuffix(event.Name, csvExt) {
		return true
	}

	return scriptExt != "" && strings.HasSuffix(event.Name, scriptExt) &&
		filepath.Dir(event.Name) == filepath.Clean(templateDir)
}

func uniqueDirs(dirs ...string) []string {
	out := make([]string, 0, len(dirs))

	for _, d := range dirs {
		dup := false

		for _, o := range out {
			if o == d {
				dup = true
				break
			}
		}

		if !dup {
			out = append(out, d)
		}
	}

	return out
}
