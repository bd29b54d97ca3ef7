// Package watch reports when a file is saved. Editors often save through
// a rename or several writes, so events are coalesced over a short quiet
// period before being delivered.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuiet is the default coalescing window.
const DefaultQuiet = 150 * time.Millisecond

// FileWatcher watches a single file through its parent directory, so the
// file may be replaced or created after the watch starts.
type FileWatcher struct {
	path    string
	quiet   time.Duration
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	closed  bool
}

// New creates a FileWatcher for path. A quiet of zero uses DefaultQuiet.
func New(path string, quiet time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{path: abs, quiet: quiet, watcher: watcher}, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string { return w.path }

// Changes delivers one value per burst of writes to the file. The channel
// is closed when ctx is done, Close is called or the watcher fails; the
// failure, if any, is sent on errs first.
func (w *FileWatcher) Changes(ctx context.Context) (<-chan struct{}, <-chan error) {
	changes := make(chan struct{}, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(changes)
		defer close(errs)

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.relevant(event) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(w.quiet)
				} else {
					timer.Reset(w.quiet)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				select {
				case changes <- struct{}{}:
				default:
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				errs <- fmt.Errorf("watcher error: %w", err)
				return
			}
		}
	}()

	return changes, errs
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops the watcher. It is safe to call more than once.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
