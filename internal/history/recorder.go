package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrQueueFull is returned when the async recorder cannot accept more work.
	ErrQueueFull = errors.New("history queue full")
	// ErrRecorderStopped is returned by Record once Start has begun shutting down.
	ErrRecorderStopped = errors.New("history recorder stopped")
)

const defaultQueueSize = 256

// AsyncRecorder moves usage-log writes off the request path. Generations are
// queued by Record and written by the loop in Start.
type AsyncRecorder struct {
	target  Recorder
	queue   chan *Generation
	logger  *slog.Logger
	timeout time.Duration

	// mu orders Record's enqueue against the stop in Start, so nothing is
	// queued after the final drain.
	mu      sync.RWMutex
	stopped bool

	running atomic.Bool
	dropped atomic.Int64
	done    chan struct{}
}

func NewAsyncRecorder(target Recorder, queueSize int, logger *slog.Logger) *AsyncRecorder {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &AsyncRecorder{
		target:  target,
		queue:   make(chan *Generation, queueSize),
		logger:  logger,
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Record enqueues g without blocking. After the recorder stops it returns
// ErrRecorderStopped and counts g as dropped.
func (r *AsyncRecorder) Record(ctx context.Context, g *Generation) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.dropped.Add(1)
		return ErrRecorderStopped
	}
	select {
	case r.queue <- g:
		return nil
	default:
		r.dropped.Add(1)
		return ErrQueueFull
	}
}

// Start writes queued generations until ctx is cancelled, then refuses new
// records, drains what is left in the queue and returns. Cancel ctx only once
// producers are done, e.g. after the HTTP server has shut down.
func (r *AsyncRecorder) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}
	defer close(r.done)

	r.logger.Info("history recorder started")

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.stopped = true
			r.mu.Unlock()

			r.drain()
			r.logger.Info("history recorder stopping", "dropped", r.dropped.Load())
			r.running.Store(false)
			return
		case g := <-r.queue:
			r.write(g)
		}
	}
}

// Done is closed once Start has returned.
func (r *AsyncRecorder) Done() <-chan struct{} {
	return r.done
}

func (r *AsyncRecorder) IsRunning() bool {
	return r.running.Load()
}

func (r *AsyncRecorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *AsyncRecorder) drain() {
	for {
		select {
		case g := <-r.queue:
			r.write(g)
		default:
			return
		}
	}
}

func (r *AsyncRecorder) write(g *Generation) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.target.Record(ctx, g); err != nil {
		r.logger.Error("failed to record generation", "error", err)
	}
}
