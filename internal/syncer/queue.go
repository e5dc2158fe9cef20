package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is the write-coalescing window: a cell edited repeatedly
// is persisted once, with the last value, after this much inactivity.
const DefaultDebounce = 500 * time.Millisecond

// FlushOp persists one coalesced write.
type FlushOp func(ctx context.Context) error

// WriteQueue batches rapid edits. Writes enqueued under the same key
// coalesce — only the latest survives — and the debounce timer restarts on
// every enqueue, so a superseded write simply never fires. Flush errors are
// logged and reported to onError; the queue does not retry, the change feed
// and consolidation reloads reconcile divergence.
type WriteQueue struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]FlushOp
	timer   *time.Timer
	logger  *slog.Logger
	onError func(key string, err error)
	closed  bool
}

// NewWriteQueue creates a queue with the given debounce window (DefaultDebounce
// when zero or negative). onError may be nil.
func NewWriteQueue(window time.Duration, logger *slog.Logger, onError func(key string, err error)) *WriteQueue {
	if window <= 0 {
		window = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteQueue{
		window:  window,
		pending: make(map[string]FlushOp),
		logger:  logger,
		onError: onError,
	}
}

// Enqueue schedules op under key, replacing any pending op for the same key,
// and restarts the debounce timer.
func (q *WriteQueue) Enqueue(key string, op FlushOp) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.pending[key] = op
	if q.timer == nil {
		q.timer = time.AfterFunc(q.window, q.fire)
		return
	}
	q.timer.Reset(q.window)
}

func (q *WriteQueue) fire() {
	q.Flush(context.Background())
}

// Flush synchronously persists everything pending. It is also the shutdown
// path: callers flush before closing so no staged edit is lost.
func (q *WriteQueue) Flush(ctx context.Context) {
	q.mu.Lock()
	batch := q.pending
	q.pending = make(map[string]FlushOp)
	if q.timer != nil {
		q.timer.Stop()
	}
	q.mu.Unlock()

	for key, op := range batch {
		if err := op(ctx); err != nil {
			q.logger.Warn("debounced write failed", "key", key, "error", err)
			if q.onError != nil {
				q.onError(key, err)
			}
		}
	}
}

// Close flushes pending writes and stops the queue. Enqueues after Close are
// dropped.
func (q *WriteQueue) Close(ctx context.Context) {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.Flush(ctx)
}

// PendingLen reports how many coalesced writes are waiting.
func (q *WriteQueue) PendingLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
