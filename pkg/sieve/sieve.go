// Package sieve implements the watcher-filter loop: it observes a raw
// directory for newly created log files, retains only the lines matching the
// configured marker keywords, writes the result to a processed directory
// under the same name, and removes the raw file.
package sieve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"github.com/logsieve/logsieve/pkg/filter"
	"github.com/logsieve/logsieve/pkg/log"
)

// ErrNotDirectory is returned when a configured directory path exists but is
// not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Runner owns the directory watch and processes created files strictly
// sequentially: at most one source and one destination handle are open at any
// time, regardless of how many files arrive in a notification batch.
type Runner struct {
	watcher      *fsnotify.Watcher
	proc         *Processor
	rawDir       string
	processedDir string
	include      []string
	listeners    []chan<- FileEvent

	processExisting bool
}

// NewRunner creates a [Runner] for the given config. Both directories must
// already exist; the runner never creates them. The directory watch is
// registered here, so a returned error is fatal for the caller.
func NewRunner(cfg *Config) (*Runner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.EnsureDefaults()
	}

	rawDir, err := resolveDir(cfg.RawDir)
	if err != nil {
		return nil, fmt.Errorf("raw directory: %w", err)
	}

	processedDir, err := resolveDir(cfg.ProcessedDir)
	if err != nil {
		return nil, fmt.Errorf("processed directory: %w", err)
	}

	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("include pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	f := filter.Default()
	if cfg.Keywords != nil {
		f = filter.New(cfg.Keywords...)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(rawDir); err != nil {
		_ = watcher.Close()

		return nil, fmt.Errorf("watch %q: %w", rawDir, err)
	}

	return &Runner{
		watcher:         watcher,
		proc:            NewProcessor(f),
		rawDir:          rawDir,
		processedDir:    processedDir,
		include:         cfg.Include,
		processExisting: cfg.ProcessExisting,
	}, nil
}

// RawDir returns the absolute path of the watched directory.
func (r *Runner) RawDir() string { return r.rawDir }

// ProcessedDir returns the absolute path of the output directory.
func (r *Runner) ProcessedDir() string { return r.processedDir }

// Filter returns the active line filter.
func (r *Runner) Filter() *filter.Filter { return r.proc.filter }

// Subscribe registers a channel receiving a [FileEvent] per processed file.
// Subscribers must be registered before [Runner.Run] and should use a
// buffered channel; broadcasting blocks the loop.
func (r *Runner) Subscribe(ch chan<- FileEvent) {
	r.listeners = append(r.listeners, ch)
}

// Run blocks until ctx is cancelled, processing each file created in the raw
// directory. A failure on one file never terminates the loop: the error is
// logged, the source file is kept, and the runner resumes waiting.
func (r *Runner) Run(ctx context.Context) error {
	logger := log.WithContext(ctx)

	if r.processExisting {
		r.sweep(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if !evt.Has(fsnotify.Create) {
				continue
			}

			r.handle(ctx, filepath.Base(evt.Name))

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch error", slog.Any("err", err))
		}
	}
}

// Close releases the directory watch.
func (r *Runner) Close() {
	if err := r.watcher.Close(); err != nil {
		slog.Error("close watcher", slog.Any("err", err))
	}
}

// sweep processes files already present in the raw directory, in name order.
func (r *Runner) sweep(ctx context.Context) {
	entries, err := os.ReadDir(r.rawDir)
	if err != nil {
		log.WithContext(ctx).ErrorContext(ctx, "sweep raw directory", slog.Any("err", err))

		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		r.handle(ctx, entry.Name())
	}
}

// handle runs one read-filter-write-delete sequence for a created entry.
func (r *Runner) handle(ctx context.Context, name string) {
	logger := log.WithContext(ctx)

	if !r.included(name) {
		logger.DebugContext(ctx, "skipping file, no include pattern matched",
			slog.String("name", name),
		)

		return
	}

	src := filepath.Join(r.rawDir, name)
	dst := filepath.Join(r.processedDir, name)

	fi, err := os.Lstat(src)
	if err != nil {
		// The file disappeared between the event and processing.
		logger.DebugContext(ctx, "skipping file", slog.String("name", name), slog.Any("err", err))

		return
	}
	if fi.IsDir() {
		return
	}

	logger.InfoContext(ctx, "processing new log file", slog.String("name", name))

	res, err := r.proc.Process(ctx, src, dst)
	if err != nil {
		// Keep the source file: processing did not complete, deleting it
		// would silently lose data.
		logger.ErrorContext(ctx, "process file",
			slog.String("name", name),
			slog.Any("err", err),
		)
		r.broadcast(FileEvent{Path: src, Name: name, Result: res, Err: err})

		return
	}

	if err := os.Remove(src); err != nil {
		// Non-fatal: the raw file stays behind as evidence of the
		// unfinished cleanup.
		logger.WarnContext(ctx, "remove source file",
			slog.String("name", name),
			slog.Any("err", err),
		)
	}

	logger.InfoContext(ctx, "processed log file",
		slog.String("name", name),
		slog.Int("lines", res.Lines),
		slog.Int("kept", res.Kept),
		slog.String("written", humanize.Bytes(uint64(res.Bytes))),
	)

	r.broadcast(FileEvent{Path: src, Name: name, Result: res})
}

func (r *Runner) included(name string) bool {
	if len(r.include) == 0 {
		return true
	}

	for _, pattern := range r.include {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}

	return false
}

func (r *Runner) broadcast(evt FileEvent) {
	for _, ch := range r.listeners {
		ch <- evt
	}
}

// resolveDir verifies that path exists and is a directory, returning its
// absolute form.
func resolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", err //nolint:wrapcheck // *fs.PathError already names the path.
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%q: %w", abs, ErrNotDirectory)
	}

	return abs, nil
}
