package session

import (
	"sync"
	"time"
)

// serialQueue runs submitted functions one at a time, in submission order,
// on a single goroutine. Submission never blocks.
type serialQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []func()
	closed  bool
	done    chan struct{}
}

func newSerialQueue() *serialQueue {
	q := &serialQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

func (q *serialQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
	}
}

// Async queues fn. It reports false once the queue is closed.
func (q *serialQueue) Async(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, fn)
	q.cond.Signal()
	return true
}

// Sync queues fn and waits for it to run. Never call it from the queue.
func (q *serialQueue) Sync(fn func()) bool {
	ran := make(chan struct{})
	if !q.Async(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	<-ran
	return true
}

// After queues fn once d has elapsed. The returned timer can cancel it
// before it is queued.
func (q *serialQueue) After(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() {
		q.Async(fn)
	})
}

// Close drains what is already queued and stops the goroutine.
func (q *serialQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()
	<-q.done
}
