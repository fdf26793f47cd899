package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

const defaultDebounce = 150 * time.Millisecond

// Watcher reports edits made to conf.json by anything other than its Store.
// The directory is watched rather than the file, since the store replaces the file on every save.
type Watcher struct {
	store    *Store
	notifier Notifier
	debounce time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the document of store. It must be started with Start.
func NewWatcher(store *Store, notifier Notifier) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		store:    store,
		notifier: notifier,
		debounce: defaultDebounce,
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch conf directory %s: %w", dir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop blocks until the event loop has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()
	return nil
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	target := filepath.Clean(w.store.Path())
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// editors emit several events per save
			pending = time.After(w.debounce)

		case <-pending:
			pending = nil
			w.check()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			tool.DefaultLogger.Warnf("[Conf] watcher error: %v", err)
		}
	}
}

func (w *Watcher) check() {
	data, err := os.ReadFile(w.store.Path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			tool.DefaultLogger.Warnf("[Conf] failed to read conf after change: %v", err)
		}
		return
	}
	if w.store.isOwnWrite(data) {
		return
	}

	w.store.setDigest(tool.Digest(data))
	tool.DefaultLogger.Infof("[Conf] conf changed outside the app")
	if w.notifier != nil {
		w.notifier.Broadcast(&types.Notification{
			Type:    types.NotifyTypeConfChanged,
			Title:   "Configuration changed",
			Message: "conf.json was modified outside the app",
		})
	}
}
