package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher calls onChange with the path of a watched file after it is
// written, created or renamed into place. Parent directories are watched so
// that editors which replace files atomically are still seen. Bursts of
// events for one path within Debounce collapse into a single call.
type Watcher struct {
	Paths    []string
	Debounce time.Duration
	onChange func(string)
	logger   *zap.Logger
}

// NewWatcher creates a watcher for the given files.
func NewWatcher(paths []string, debounce time.Duration, onChange func(string), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{Paths: paths, Debounce: debounce, onChange: onChange, logger: logger}
}

// Run blocks until ctx is cancelled. onChange is only called from Run's own
// goroutine, so no call happens after Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	wanted := make(map[string]string, len(w.Paths)) // cleaned abs → as configured
	dirs := make(map[string]bool)
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		wanted[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	// Debounce timers hand their path back to this loop.
	fire := make(chan string)
	stop := make(chan struct{})
	timers := make(map[string]*time.Timer)
	defer func() {
		close(stop)
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			path, ok := wanted[abs]
			if !ok {
				continue
			}
			w.logger.Debug("source changed", zap.String("path", path), zap.String("op", ev.Op.String()))
			if w.Debounce <= 0 {
				w.onChange(path)
				continue
			}
			if t, ok := timers[path]; ok {
				t.Reset(w.Debounce)
				continue
			}
			timers[path] = time.AfterFunc(w.Debounce, func() {
				select {
				case fire <- path:
				case <-stop:
				}
			})
		case path := <-fire:
			w.onChange(path)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
