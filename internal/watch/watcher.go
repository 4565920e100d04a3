package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"codescope/internal/engine/scan"
	"codescope/internal/shared/observability"
)

// Watcher batches filesystem changes under a project root. Events for
// directories the scanner never descends into, or files it would skip, do
// not surface. A batch is delivered once the debounce window goes quiet.
type Watcher struct {
	fsw      *fsnotify.Watcher
	filter   *scan.Filter
	debounce time.Duration
	onBatch  func([]string)
	batchMu  sync.Mutex

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

func NewWatcher(filter *scan.Filter, debounce time.Duration, onBatch func([]string)) (*Watcher, error) {
	if filter == nil || onBatch == nil {
		return nil, os.ErrInvalid
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsw:      fsw,
		filter:   filter,
		debounce: debounce,
		onBatch:  onBatch,
		pending:  make(map[string]struct{}),
	}, nil
}

// Watch registers root recursively and starts the event loop.
func (w *Watcher) Watch(root string) error {
	if err := w.addRecursive(root); err != nil {
		return err
	}

	go w.run()
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if !w.filter.Descend(filepath.Base(path)) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if w.filter.Descend(filepath.Base(event.Name)) {
						if err := w.addRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						} else {
							w.enqueueExisting(event.Name)
						}
					}
					continue
				}
			}

			if w.skip(event.Name) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Remove == fsnotify.Remove ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				w.schedule(event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// skip classifies by base name only. Removed files no longer stat, so the
// decision cannot depend on content.
func (w *Watcher) skip(path string) bool {
	return w.filter.File(filepath.Base(path)) == scan.FileSkip
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	w.onBatch(paths)
}

// enqueueExisting schedules files that landed before the directory watch
// was in place, such as an unpacked tree.
func (w *Watcher) enqueueExisting(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if w.skip(path) {
			return nil
		}
		w.schedule(path)
		return nil
	})
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
