// Package watcher reports debounced changes to asset documents under a set
// of directory trees.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gdasset/internal/logging"
	"github.com/yaklabco/gdasset/pkg/fsutil"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Change is one settled file change.
type Change struct {
	Path string

	// Removed is set when the file no longer exists at flush time.
	Removed bool
}

// Options configures a Watcher.
type Options struct {
	// Debounce is how long events must be quiet before a flush.
	Debounce time.Duration

	// Extensions limits reported files by extension (with leading dot).
	// Empty reports every file.
	Extensions []string

	// BaseDir is the directory Excludes are matched relative to.
	BaseDir string

	// Excludes skips matching files and directory trees.
	Excludes *fsutil.GlobSet

	// OnChange receives each flushed batch, sorted by path.
	// Calls never overlap.
	OnChange func(ctx context.Context, changes []Change)
}

// Watcher watches directory trees with fsnotify.
type Watcher struct {
	opts      Options
	fsWatcher *fsnotify.Watcher
	logger    *log.Logger

	callbackMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]struct{}
	timer     *time.Timer
}

// New creates a Watcher. Call Add for each root, then Run.
func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, errors.New("watcher: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		opts:      opts,
		fsWatcher: fsw,
		logger:    logging.Default(),
		pending:   make(map[string]struct{}),
	}, nil
}

// Add watches root and every non-excluded directory below it.
func (w *Watcher) Add(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger = logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", logging.FieldError, err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if w.skipDir(event.Name) {
				return
			}
			if err := w.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory",
					logging.FieldPath, event.Name,
					logging.FieldError, err,
				)
				return
			}
			w.enqueueExisting(ctx, event.Name)
			return
		}
	}

	if !w.wantFile(event.Name) {
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.schedule(ctx, event.Name)
	}
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		w.flush(ctx)
	})
}

func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 || ctx.Err() != nil {
		return
	}
	sort.Strings(paths)

	changes := make([]Change, 0, len(paths))
	for _, path := range paths {
		_, err := os.Stat(path)
		changes = append(changes, Change{Path: path, Removed: errors.Is(err, fs.ErrNotExist)})
	}

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.opts.OnChange(ctx, changes)
}

func (w *Watcher) stopTimer() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) rel(path string) string {
	if w.opts.BaseDir == "" {
		return path
	}
	rel, err := filepath.Rel(w.opts.BaseDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (w *Watcher) skipDir(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".") || w.opts.Excludes.MatchDir(w.rel(path))
}

func (w *Watcher) wantFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || w.opts.Excludes.Match(w.rel(path)) {
		return false
	}
	if len(w.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range w.opts.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func (w *Watcher) enqueueExisting(ctx context.Context, root string) {
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if w.wantFile(path) {
			w.schedule(ctx, path)
		}
		return nil
	})
}

// Close stops the pending flush and releases the fsnotify watcher.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.fsWatcher.Close()
}
