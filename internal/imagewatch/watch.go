// Package imagewatch reports camera images that change on disk so their
// textures can be dropped and reloaded.
package imagewatch

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/logger"
)

// Waker is notified when changes are pending.
type Waker interface {
	Wake()
}

// Watcher collects changed camera images. Directories are watched rather
// than files, so images replaced by rename are noticed too.
type Watcher struct {
	fs     *fsnotify.Watcher
	waker  Waker
	log    *zap.Logger
	byPath map[string][]int

	mu      sync.Mutex
	changed map[int]struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

// New watches the image of every camera in paths (camera index to file).
// waker may be nil.
func New(paths map[int]string, waker Waker) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:      fw,
		waker:   waker,
		log:     logger.Named("imagewatch"),
		byPath:  make(map[string][]int),
		changed: make(map[int]struct{}),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for cam, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.byPath[abs] = append(w.byPath[abs], cam)
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			w.log.Warn("cannot watch image directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mark(filepath.Clean(event.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) mark(path string) {
	cams, ok := w.byPath[path]
	if !ok {
		return
	}
	w.mu.Lock()
	for _, c := range cams {
		w.changed[c] = struct{}{}
	}
	w.mu.Unlock()
	w.log.Debug("image changed", zap.String("path", path), zap.Ints("cameras", cams))
	if w.waker != nil {
		w.waker.Wake()
	}
}

// Drain returns and forgets the cameras whose image changed, in ascending
// order.
func (w *Watcher) Drain() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.changed) == 0 {
		return nil
	}
	out := slices.Sorted(maps.Keys(w.changed))
	clear(w.changed)
	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
