package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports rewrites of specific configuration files on a
// channel. Editors usually replace a file by writing a temporary and
// renaming it over the target, so the parent directory of each watched
// file is registered with fsnotify and events are filtered back to the
// files themselves. Rapid successive events for one file are debounced
// into a single notification.
//
// The watcher never reloads anything itself. The thread owning the
// binding store receives the path and applies the reload at a point of
// its choosing.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	reloads chan string
	errs    chan error

	mu      sync.Mutex
	files   map[string]bool
	pending map[string]*time.Timer

	closeOnce sync.Once
	closeCh   chan struct{}
	doneWg    sync.WaitGroup
}

// NewWatcher creates a watcher with the given debounce window. A
// non-positive debounce selects a default.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		reloads:  make(chan string, 16),
		errs:     make(chan error, 16),
		files:    make(map[string]bool),
		pending:  make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
	}
	w.doneWg.Add(1)
	go w.loop()
	return w, nil
}

// Watch adds path to the watched set. The file itself does not need to
// exist yet; its directory does.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[abs] {
		return nil
	}
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.files[abs] = true
	return nil
}

// Reloads returns the channel carrying the paths of settled changes.
// It is never closed; after Close it simply goes quiet.
func (w *Watcher) Reloads() <-chan string {
	return w.reloads
}

// Errors returns the channel carrying watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher. Pending debounce timers are cancelled.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.doneWg.Wait()

		w.mu.Lock()
		for path, timer := range w.pending {
			timer.Stop()
			delete(w.pending, path)
		}
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.doneWg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[path] {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

// fire delivers one settled change. Delivery is best-effort: a full
// channel drops the notification rather than stalling the timer
// goroutine, and the next rewrite will notify again.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case <-w.closeCh:
	case w.reloads <- path:
	default:
	}
}
