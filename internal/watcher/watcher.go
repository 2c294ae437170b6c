// Package watcher reloads the bootstrap seed file when it changes on
// disk, so an operator can edit the seed graph without restarting the
// client.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches a seed file and invokes the reload callback after
// writes settle.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
}

// New creates a watcher for the given file
func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: defaultDebounce,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until the context is cancelled or the underlying
// notifier fails. The containing directory is watched rather than the
// file itself, so editors that replace the file atomically still
// trigger a reload.
func (w *Watcher) Watch(ctx context.Context) error {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notify.Close()

	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := notify.Add(dir); err != nil {
		return err
	}

	log.Printf("Watching %s for changes", w.path)

	// Rapid write bursts collapse into one reload after the debounce
	// window goes quiet.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			log.Printf("Seed file changed: %s", w.path)
			w.onChange()

		case err, ok := <-notify.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
