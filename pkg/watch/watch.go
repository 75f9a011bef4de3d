// Package watch re-runs a callback when watched files change on disk.
package watch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is empty or invalid.
const DefaultDebounce = 300 * time.Millisecond

// Config configures file watching.
type Config struct {
	// Debounce is how long to wait for more changes before firing, as a
	// duration string such as "300ms".
	Debounce string `yaml:"debounce,omitempty"`
}

// DebounceDelay returns the debounce delay as a duration.
func (c Config) DebounceDelay() time.Duration {
	if c.Debounce == "" {
		return DefaultDebounce
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// Func is invoked with the sorted set of files that changed in one burst.
type Func func(ctx context.Context, changed []string) error

// Watcher watches a fixed set of files.
type Watcher struct {
	config Config
	logger *slog.Logger

	mu     sync.Mutex
	hashes map[string][32]byte
}

// New creates a Watcher. A nil logger falls back to slog.Default.
func New(config Config, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		config: config,
		logger: logger,
		hashes: make(map[string][32]byte),
	}
}

// Run blocks until ctx is cancelled, calling fn once per debounced burst of
// changes. fn calls never overlap. Errors returned by fn are logged and the
// loop continues.
func (w *Watcher) Run(ctx context.Context, paths []string, fn Func) error {
	if len(paths) == 0 {
		return errors.New("watch: no paths to watch")
	}
	if fn == nil {
		return errors.New("watch: callback is nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("watch: resolve %s: %w", path, err)
		}
		watched[abs] = true
		w.remember(abs)
		dirs[filepath.Dir(abs)] = true
	}
	// Editors replace files by rename, so the parent directory is watched.
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", "path", dir)
	}

	delay := w.config.DebounceDelay()
	timer := time.NewTimer(delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !watched[name] {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			pending[name] = true
			timer.Reset(delay)
			w.logger.Debug("change detected", "path", name, "op", event.Op.String())

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-timer.C:
			changed := w.flush(pending)
			pending = make(map[string]bool)
			if len(changed) == 0 {
				continue
			}
			if err := fn(ctx, changed); err != nil {
				w.logger.Error("watch callback failed", "error", err)
			}
		}
	}
}

// flush drops files whose content is unchanged since the last run.
func (w *Watcher) flush(pending map[string]bool) []string {
	var changed []string
	for path := range pending {
		if w.remember(path) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// remember records the content hash of path and reports whether it differs
// from the previous one. Removed files count as changed.
func (w *Watcher) remember(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		_, had := w.hashes[path]
		delete(w.hashes, path)
		return had
	}
	sum := sha256.Sum256(content)
	old, had := w.hashes[path]
	w.hashes[path] = sum
	return !had || old != sum
}
