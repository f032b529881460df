package container

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// Result is the outcome of a queued dispatch.
type Result struct {
	Handled bool
	Err     error
}

type queuedAction struct {
	ctx    context.Context
	run    func(ctx context.Context) (bool, error)
	result chan Result
}

// Queue applies actions to a container one at a time from a single
// goroutine, in the order they were enqueued. Other tree operations can
// join the same line with [Queue.Do] so they never race a dispatch for the
// transaction guard.
type Queue struct {
	c       *Container
	queue   chan queuedAction
	running *atomic.Bool
	mu      sync.Mutex // guards closing queue
	wg      sync.WaitGroup

	processed *atomic.Uint64
}

// DefaultQueueSize is the buffer used when NewQueue gets a non-positive size.
const DefaultQueueSize = 64

// NewQueue starts a serial dispatcher for c with a buffer of size actions.
func (c *Container) NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		c:         c,
		queue:     make(chan queuedAction, size),
		running:   atomic.NewBool(true),
		processed: atomic.NewUint64(0),
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// Dispatch enqueues action and waits for its result. It blocks while the
// buffer is full and returns early when ctx is done.
func (q *Queue) Dispatch(ctx context.Context, action nav.Action) (bool, error) {
	return q.wait(ctx, q.dispatcher(action))
}

// Post enqueues action without waiting for it to be applied.
func (q *Queue) Post(ctx context.Context, action nav.Action) error {
	_, err := q.enqueue(ctx, q.dispatcher(action))
	return err
}

// Do runs fn on the queue goroutine and waits for its error.
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := q.wait(ctx, func(ctx context.Context) (bool, error) {
		return false, fn(ctx)
	})
	return err
}

func (q *Queue) dispatcher(action nav.Action) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return q.c.Dispatch(ctx, action)
	}
}

func (q *Queue) wait(ctx context.Context, run func(context.Context) (bool, error)) (bool, error) {
	ch, err := q.enqueue(ctx, run)
	if err != nil {
		return false, err
	}
	select {
	case r := <-ch:
		return r.Handled, r.Err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (q *Queue) enqueue(ctx context.Context, run func(context.Context) (bool, error)) (<-chan Result, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running.Load() {
		return nil, errors.New(errors.ErrCodeUnsupported, "dispatch queue is closed")
	}
	item := queuedAction{ctx: ctx, run: run, result: make(chan Result, 1)}
	select {
	case q.queue <- item:
		return item.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Processed returns the number of queued operations run so far.
func (q *Queue) Processed() uint64 {
	return q.processed.Load()
}

// Close stops accepting actions and waits until the queued ones are applied
// or ctx is done.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.running.CompareAndSwap(true, false) {
		close(q.queue)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for item := range q.queue {
		if err := item.ctx.Err(); err != nil {
			item.result <- Result{Err: err}
			continue
		}
		handled, err := item.run(item.ctx)
		q.processed.Inc()
		item.result <- Result{Handled: handled, Err: err}
	}
}
