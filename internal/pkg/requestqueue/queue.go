// Package requestqueue provides a scheduler that bounds global concurrency
// and serializes operations sharing the same key. It exists to keep rapid
// repeat requests from one user (for example a double-tapped refresh button)
// from racing redundant calls against a rate-limited upstream.
//
// The queue is a pure scheduler: it never retries and never transforms the
// operation's error. Retry and backoff policy belong to the operation closure.
package requestqueue

import (
	"context"
	"errors"
	"sync"
)

const defaultMaxConcurrent = 3

var (
	// ErrQueueClosed is returned for operations submitted to, or still
	// pending in, a queue that has been closed.
	ErrQueueClosed = errors.New("request queue closed")

	// ErrQueueCleared is returned to waiters whose pending operations were
	// removed by ClearKey before they started executing.
	ErrQueueCleared = errors.New("request queue cleared for key")
)

// item is a single scheduled operation waiting for, or holding, a slot.
type item[K comparable] struct {
	key      K
	priority int
	seq      uint64
	ctx      context.Context
	op       func(context.Context) error
	done     chan error // buffered; receives exactly one result
}

// config holds construction-time settings for a Queue.
type config struct {
	maxConcurrent int
}

// Option configures a Queue before construction.
type Option func(*config)

// WithMaxConcurrent bounds how many operations may execute simultaneously
// across all keys. Default: 3.
func WithMaxConcurrent(n int) Option {
	return func(c *config) {
		c.maxConcurrent = n
	}
}

// Queue schedules operations with two guarantees: at most maxConcurrent
// operations run at once globally, and at most one operation runs at a time
// per key. Pending operations are served highest priority first, FIFO within
// the same priority.
//
// Two operations enqueued for the same key are not coalesced: the second
// waits for the first to finish and then executes in full. Callers that want
// to avoid the redundant upstream hit should re-check their cache inside the
// operation closure.
type Queue[K comparable] struct {
	mu      sync.Mutex
	pending []*item[K]
	running map[K]*item[K]
	active  int
	nextSeq uint64
	closed  bool

	maxConcurrent int
}

// New creates a Queue configured with the provided options.
func New[K comparable](opts ...Option) *Queue[K] {
	cfg := config{maxConcurrent: defaultMaxConcurrent}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Queue[K]{
		running:       make(map[K]*item[K]),
		maxConcurrent: cfg.maxConcurrent,
	}
}

// Do schedules op under the given key and priority and blocks until it has
// executed, returning the operation's error verbatim. If ctx is canceled
// while the operation is still pending, it is removed from the queue and
// ctx.Err() is returned; an operation that already started is never canceled.
func (q *Queue[K]) Do(ctx context.Context, key K, priority int, op func(context.Context) error) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	it := &item[K]{
		key:      key,
		priority: priority,
		seq:      q.nextSeq,
		ctx:      ctx,
		op:       op,
		done:     make(chan error, 1),
	}
	q.nextSeq++

	q.pending = append(q.pending, it)
	q.dispatchLocked()
	q.mu.Unlock()

	select {
	case err := <-it.done:
		return err
	case <-ctx.Done():
		q.abandon(it)
		return ctx.Err()
	}
}

// ClearKey removes every not-yet-started operation for the given key, failing
// its waiters with ErrQueueCleared, and drops the key's running marker. An
// operation already executing is not canceled; it simply can no longer block
// a later operation for the same key once the marker is gone.
func (q *Queue[K]) ClearKey(key K) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.pending[:0]
	for _, it := range q.pending {
		if it.key == key {
			it.done <- ErrQueueCleared
			continue
		}
		kept = append(kept, it)
	}
	q.pending = kept

	delete(q.running, key)
	q.dispatchLocked()
}

// Close rejects all pending operations with ErrQueueClosed and causes any
// subsequent Do call to fail immediately. Running operations finish normally.
func (q *Queue[K]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true

	for _, it := range q.pending {
		it.done <- ErrQueueClosed
	}
	q.pending = nil
}

// Running reports how many operations are currently executing.
func (q *Queue[K]) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.active
}

// dispatchLocked starts eligible pending operations until either the global
// concurrency cap is reached or no eligible item remains. An item is eligible
// when its key has no running operation. Must be called with q.mu held.
func (q *Queue[K]) dispatchLocked() {
	for q.active < q.maxConcurrent {
		idx := q.pickLocked()
		if idx < 0 {
			return
		}

		it := q.pending[idx]
		q.pending = append(q.pending[:idx], q.pending[idx+1:]...)

		q.running[it.key] = it
		q.active++

		go q.run(it)
	}
}

// pickLocked returns the index of the next item to execute: the eligible item
// with the highest priority, breaking ties by enqueue order. Returns -1 when
// nothing is eligible. Must be called with q.mu held.
func (q *Queue[K]) pickLocked() int {
	best := -1
	for i, it := range q.pending {
		if _, busy := q.running[it.key]; busy {
			continue
		}

		if best < 0 {
			best = i
			continue
		}

		if it.priority > q.pending[best].priority ||
			(it.priority == q.pending[best].priority && it.seq < q.pending[best].seq) {
			best = i
		}
	}
	return best
}

// run executes a single item, releases its slot, and redrives scheduling.
func (q *Queue[K]) run(it *item[K]) {
	err := it.op(it.ctx)

	q.mu.Lock()
	// ClearKey may have dropped the marker and a later operation for the
	// same key may already own it; only release our own marker.
	if cur, ok := q.running[it.key]; ok && cur == it {
		delete(q.running, it.key)
	}
	q.active--
	q.dispatchLocked()
	q.mu.Unlock()

	it.done <- err
}

// abandon removes a still-pending item after its caller gave up waiting.
// If the item already started (or finished), it is left alone.
func (q *Queue[K]) abandon(target *item[K]) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, it := range q.pending {
		if it == target {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}
