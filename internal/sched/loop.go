package sched

import (
	"context"
	"sync"
	"time"
)

// Loop is the production scheduler: a single goroutine draining an unbounded
// task queue. Tasks may submit further tasks without blocking.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop creates a stopped loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Execute queues task for the next pass of the loop.
func (l *Loop) Execute(task func()) {
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// ExecuteAfter queues task once delay has elapsed.
func (l *Loop) ExecuteAfter(task func(), delay time.Duration) {
	time.AfterFunc(delay, func() {
		l.Execute(task)
	})
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Run processes tasks until the context is cancelled. It must be called from
// exactly one goroutine; that goroutine becomes the logical UI thread.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			l.drain()
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, task := range batch {
			task()
		}
	}
}
