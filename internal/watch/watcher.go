// Package watch monitors a mission file for edits so the optimizer can
// re-run automatically in watch mode.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a single mission file for changes using fsnotify. The
// containing directory is watched rather than the file itself: editors that
// save via rename-and-replace would otherwise drop the watch.
type Watcher struct {
	Path    string
	Changes <-chan string // read-only external channel; emits Path after debounce

	changes chan string
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for the mission file at path.
func New(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 4)
	w := &Watcher{
		Path:    path,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the mission file's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: editors often emit a burst of events per save.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.changes <- w.Path
				}
				return
			}

			if !w.isMissionFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if !pending.IsZero() && time.Since(pending) >= debounce {
				w.changes <- w.Path
				pending = time.Time{}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) isMissionFile(name string) bool {
	return filepath.Base(name) == filepath.Base(w.Path)
}
