package assets

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/stlview/internal/logger"
)

// Watcher calls a function when a watched file changes on disk. Bursts of
// events (editors often write, truncate and rename) collapse into one call
// after the debounce interval.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)
	log      *zap.Logger

	mu     sync.Mutex
	files  map[string]bool // absolute paths being watched
	dirs   map[string]int  // watched directory -> file count
	timers map[string]*time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher. onChange runs on a timer goroutine.
func NewWatcher(debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fw:       fw,
		debounce: debounce,
		onChange: onChange,
		log:      logger.Named("watcher"),
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Watch starts watching path. The parent directory is watched rather than
// the file so replacements by rename are still seen.
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

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true

	w.log.Debug("watching model file", zap.String("path", abs))
	return nil
}

// Unwatch stops watching path.
func (w *Watcher) Unwatch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return
	}
	delete(w.files, abs)
	if t := w.timers[abs]; t != nil {
		t.Stop()
		delete(w.timers, abs)
	}

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		_ = w.fw.Remove(dir)
	}
}

// Close stops the watcher and pending callbacks.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()

	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(filepath.Clean(event.Name))
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scheduleLocked(path)
}

// scheduleLocked (re)starts the debounce timer for path. A timer that already
// fired is replaced rather than reset; its pending callback then finds it is
// no longer current and does nothing.
func (w *Watcher) scheduleLocked(path string) {
	if !w.files[path] {
		return
	}
	if t := w.timers[path]; t != nil && t.Stop() {
		t.Reset(w.debounce)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := w.timers[path] == t
		if current {
			delete(w.timers, path)
		}
		w.mu.Unlock()

		if current {
			w.fire(path)
		}
	})
	w.timers[path] = t
}

func (w *Watcher) fire(path string) {
	select {
	case <-w.done:
		return
	default:
	}
	w.log.Info("model file changed", zap.String("path", path))
	w.onChange(path)
}
