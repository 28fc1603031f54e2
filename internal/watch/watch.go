// Package watch implements a debounced fsnotify watch loop over a single
// basic-action-theory file, so "limbo watch" can reload and re-validate a
// theory as it's edited. Grounded on internal/core/mangle_watcher.go's
// debounce-map/start-stop-channel watcher shape, narrowed from a directory
// of *.mg files with a repair interceptor down to one BAT file with a
// plain reload callback (this engine has no repair/learning loop to drive).
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a single file for writes, debouncing rapid successive
// writes (an editor's atomic save is often a sequence of rename/create
// events) before invoking onReload once per settled batch.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	path        string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	log         *zap.Logger
	onReload    func()
}

// New builds a Watcher over path, debouncing writes within debounce of
// each other. onReload is called (synchronously, from the watcher's own
// goroutine) once a burst of writes to path has settled. log may be nil.
func New(path string, debounce time.Duration, onReload func(), log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		fsw:         fsw,
		path:        abs,
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		log:         log,
		onReload:    onReload,
	}, nil
}

// Start begins watching path's containing directory (fsnotify doesn't
// reliably track a single file across editor atomic-save rename/create
// sequences, so the directory is watched and events are filtered to
// path's own absolute path) in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.log.Info("watching directory", zap.String("dir", dir), zap.String("file", filepath.Base(w.path)))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounceDur / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.processDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || abs != w.path {
		return
	}
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
	default:
		return
	}
	w.mu.Lock()
	w.debounceMap[abs] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, t := range w.debounceMap {
		if now.Sub(t) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for range settled {
		w.log.Info("theory file changed, reloading", zap.String("path", w.path))
		if _, err := os.Stat(w.path); err != nil {
			w.log.Warn("theory file unreadable after change", zap.Error(err))
			continue
		}
		w.onReload()
	}
}
