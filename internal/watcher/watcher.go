// Package watcher notices changes to a single file by polling its size and
// modification time.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

type Watcher interface {
	Watch(ctx context.Context, path string) error
	Stop() error
	OnChange(callback func(path string, event EventType))
}

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

// PollingWatcher is a Watcher that stats the path every interval.
type PollingWatcher struct {
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	callback func(path string, event EventType)
	stop     chan struct{}
	done     chan struct{}
}

var _ Watcher = (*PollingWatcher)(nil)

func NewPollingWatcher(interval time.Duration, logger *slog.Logger) *PollingWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &PollingWatcher{interval: interval, logger: logger}
}

// Watch records the current state of path and starts polling it in the
// background. It returns an error if already watching or if path cannot be
// inspected for a reason other than not existing.
func (w *PollingWatcher) Watch(ctx context.Context, path string) error {
	initial, err := statFile(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.stop != nil {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stop, w.done
	w.mu.Unlock()

	w.logger.Info("watching file", "path", path, "interval", w.interval)
	go w.poll(ctx, path, initial, stop, done)
	return nil
}

// Stop ends polling and waits for the loop to exit. It is safe to call more
// than once.
func (w *PollingWatcher) Stop() error {
	w.mu.Lock()
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-done
	w.logger.Info("watcher stopped")
	return nil
}

func (w *PollingWatcher) OnChange(callback func(path string, event EventType)) {
	w.mu.Lock()
	w.callback = callback
	w.mu.Unlock()
}

func (w *PollingWatcher) poll(ctx context.Context, path string, last fileState, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			cur, err := statFile(path)
			if err != nil {
				w.logger.Warn("watcher stat failed", "path", path, "error", err)
				continue
			}

			event, changed := diff(last, cur)
			last = cur
			if !changed {
				continue
			}

			w.mu.Lock()
			cb := w.callback
			w.mu.Unlock()
			if cb != nil {
				cb(path, event)
			}
		}
	}
}

func statFile(path string) (fileState, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileState{}, nil
	}
	if err != nil {
		return fileState{}, err
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}, nil
}

func diff(prev, cur fileState) (EventType, bool) {
	switch {
	case !prev.exists && cur.exists:
		return EventCreate, true
	case prev.exists && !cur.exists:
		return EventDelete, true
	case cur.exists && (cur.size != prev.size || !cur.modTime.Equal(prev.modTime)):
		return EventModify, true
	default:
		return 0, false
	}
}
