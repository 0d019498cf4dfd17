// Package hotreload watches source files and queues reload callbacks for the render thread.
//
// File events arrive on a background goroutine and only mark a path as pending. Callbacks run
// on the goroutine that calls Drain, so a reload can touch the GPU context safely. Several
// writes to one path between drains collapse into a single reload.
package hotreload

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/fsnotify/fsnotify"
)

var log = logger.New("hotreload")

// Watcher queues reloads for watched files.
type Watcher interface {
	// Watch registers reload to run after path changes. Registering a path again replaces its
	// callback.
	//
	// Parameters:
	//   - path: the file to watch
	//   - reload: called from Drain after the file was written, created or renamed into place
	//
	// Returns:
	//   - error: an error if the file's directory cannot be watched
	Watch(path string, reload func()) error

	// Drain runs the callbacks of every path changed since the last Drain, in path order. A
	// panicking callback is logged at Warning and does not stop the others.
	//
	// Returns:
	//   - int: the number of callbacks run
	Drain() int

	// Pending returns the changed paths not yet drained.
	Pending() []string

	// Close stops watching. Pending reloads are discarded.
	Close() error
}

type watcher struct {
	mu *sync.Mutex

	fs      *fsnotify.Watcher
	dirs    map[string]bool
	reloads map[string]func()
	pending map[string]bool
	done    chan struct{}
	closed  sync.Once
}

var _ Watcher = &watcher{}

// NewWatcher starts a Watcher.
//
// Returns:
//   - Watcher: the watcher
//   - error: an error if the platform watcher cannot be created
func NewWatcher() (Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &watcher{
		mu:      &sync.Mutex{},
		fs:      fs,
		dirs:    map[string]bool{},
		reloads: map[string]func(){},
		pending: map[string]bool{},
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *watcher) Watch(path string, reload func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	// editors replace files on save, so the directory is watched instead of the file
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.reloads[abs] = reload
	log.Debugf("watching %s", abs)
	return nil
}

func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.mark(filepath.Clean(event.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warningf("watch error: %v", err)
		}
	}
}

func (w *watcher) mark(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.reloads[path]; ok {
		w.pending[path] = true
	}
}

func (w *watcher) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (w *watcher) Drain() int {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	calls := make([]func(), len(paths))
	for i, p := range paths {
		calls[i] = w.reloads[p]
	}
	clear(w.pending)
	w.mu.Unlock()

	for i, reload := range calls {
		w.invoke(paths[i], reload)
	}
	return len(calls)
}

func (w *watcher) invoke(path string, reload func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Warningf("reload of %s failed: %v", path, r)
		}
	}()
	reload()
	log.Noticef("reloaded %s", path)
}

func (w *watcher) Close() error {
	var err error
	w.closed.Do(func() {
		close(w.done)
		err = w.fs.Close()

		w.mu.Lock()
		clear(w.pending)
		w.mu.Unlock()
	})
	return err
}
