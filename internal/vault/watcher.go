package vault

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/codespace/internal/config"
)

// DefaultWatchDebounce is the quiet period before a batch of changes is reported.
const DefaultWatchDebounce = 200 * time.Millisecond

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	Extensions config.ExtensionSet // only these extensions are reported; empty reports all
	Debounce   time.Duration       // quiet period before firing callback
	Logger     *slog.Logger
}

// Watcher reports debounced file changes inside a vault as vault paths.
type Watcher struct {
	vault         *Vault
	watcher       *fsnotify.Watcher
	extensions    config.ExtensionSet
	extensionsMu  sync.RWMutex
	debounceTime  time.Duration
	logger        *slog.Logger
	callback      func(paths []string)
	cancel        context.CancelFunc
	accumulated   map[string]bool // pending vault paths
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// NewWatcher creates a watcher for every non-ignored folder of the vault.
func NewWatcher(v *Vault, opts WatcherOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultWatchDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	w := &Watcher{
		vault:        v,
		watcher:      fsw,
		extensions:   opts.Extensions,
		debounceTime: opts.Debounce,
		logger:       opts.Logger,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(v.Root()); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// SetExtensions replaces the extension filter. Events already batched are
// still reported.
func (w *Watcher) SetExtensions(extensions config.ExtensionSet) {
	w.extensionsMu.Lock()
	defer w.extensionsMu.Unlock()
	w.extensions = extensions
}

// Start begins watching. callback receives sorted vault paths of files
// that were written, created, removed or renamed.
func (w *Watcher) Start(ctx context.Context, callback func(paths []string)) error {
	if callback == nil {
		return nil
	}

	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)

	go w.watch(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	flushCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopDebounceTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}

			rel, ok := w.shouldProcessEvent(event)
			if !ok {
				continue
			}

			w.accumulatedMu.Lock()
			w.accumulated[rel] = true
			w.accumulatedMu.Unlock()

			w.resetDebounceTimer(flushCh)

		case <-flushCh:
			w.flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) flush() {
	w.accumulatedMu.Lock()
	if len(w.accumulated) == 0 {
		w.accumulatedMu.Unlock()
		return
	}

	paths := make([]string, 0, len(w.accumulated))
	for p := range w.accumulated {
		paths = append(paths, p)
	}
	w.accumulated = make(map[string]bool)
	w.accumulatedMu.Unlock()

	sort.Strings(paths)
	w.logger.Debug("vault files changed", "count", len(paths))
	w.callback(paths)
}

// resetDebounceTimer restarts the quiet period.
func (w *Watcher) resetDebounceTimer(flushCh chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		select {
		case flushCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

// shouldProcessEvent filters by operation, ignore rules and extension and
// returns the vault path of the event.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	rel, ok := w.vault.Rel(event.Name)
	if !ok || rel == "" || w.vault.Ignore().Ignored(rel) {
		return "", false
	}

	w.extensionsMu.RLock()
	extensions := w.extensions
	w.extensionsMu.RUnlock()
	if len(extensions) > 0 && !extensions.Contains(filepath.Ext(rel)) {
		return "", false
	}
	return rel, true
}

// addDirectoriesRecursively adds all non-ignored folders in the tree.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			w.logger.Warn("error accessing path", "path", path, "error", err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if rel, ok := w.vault.Rel(path); ok && rel != "" && w.vault.Ignore().Match(rel) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
}
