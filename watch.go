package main

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce folds the burst of events an editor's save produces into
// one reload.
const watchDebounce = 200 * time.Millisecond

// FileWatcher calls onChange after the watched file is written or
// replaced. It watches the parent directory so that editors saving through
// a rename are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	onError  func(error)

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

func NewFileWatcher(path string, onChange func(), onError func(error)) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &FileWatcher{
		watcher:  fsWatcher,
		path:     abs,
		onChange: onChange,
		onError:  onError,
		done:     make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

func (w *FileWatcher) watch() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// schedule restarts the debounce timer.
func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, func() {
		select {
		case <-w.done:
		default:
			w.onChange()
		}
	})
}

// Close stops watching. It may be called more than once.
func (w *FileWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
