package dictionary

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"baakh/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads a Store whenever its backing file changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors and the Exporter, which replace the file by rename, keep working.
type Watcher struct {
	store    *Store
	log      *logger.Logger
	debounce time.Duration
	target   string

	// OnReload, when set, is called after every debounced reload attempt.
	OnReload func(Stats, error)

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for store. A non-positive debounce uses 500ms.
func NewWatcher(store *Store, debounce time.Duration, log *logger.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Watcher{
		store:    store,
		log:      log.WithComponent("dictionary_watcher"),
		debounce: debounce,
		target:   filepath.Clean(store.Path()),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins watching. It returns once the watch is registered; events are
// handled on a background goroutine until ctx is cancelled or Stop is called.
// A Watcher is single use: calls after the first are no-ops.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil
	}
	if w.store.Path() == "" {
		return ErrNoPath
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(w.target)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.watcher = fsw
	w.started = true
	w.log.Info("Watching dictionary file", "path", w.target, "debounce", w.debounce.String())

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return
	}

	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

// Done is closed when the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if err := w.watcher.Close(); err != nil {
			w.log.Error("Error closing dictionary watcher", "error", err)
		}
		close(w.doneCh)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("Dictionary file event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("Dictionary watcher error", "error", err)

		case <-timerC:
			timerC = nil
			w.reload()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *Watcher) reload() {
	start := time.Now()
	stats, err := w.store.Reload()
	w.log.DictionaryLogger("reload", stats.Path, stats.Entries, err)
	w.log.PerformanceLogger("dictionary_reload", time.Since(start), err == nil)
	if w.OnReload != nil {
		w.OnReload(stats, err)
	}
}
