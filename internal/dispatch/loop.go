// Package dispatch runs view updates on a single goroutine, the way a GUI
// toolkit confines widget mutation to its main thread.
package dispatch

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/hanamizuki10/get-color-for-windows/internal/logging"
)

var log = logging.L("dispatch")

// Loop executes posted tasks one at a time, in order, on its own goroutine.
type Loop struct {
	queue     chan func()
	mu        sync.RWMutex // guards accepting against a concurrent close
	accepting bool
	pending   sync.WaitGroup
	exited    chan struct{}
	closeOnce sync.Once
}

// New starts a loop with a queue of queueSize tasks.
func New(queueSize int) *Loop {
	if queueSize < 1 {
		queueSize = 1
	}
	l := &Loop{
		queue:  make(chan func(), queueSize),
		exited: make(chan struct{}),
	}
	l.accepting = true
	go l.run()
	return l
}

// Post enqueues task without blocking. It returns false once the loop is
// shutting down or when the queue is full; a sampler simply drops that frame.
func (l *Loop) Post(task func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.accepting {
		return false
	}

	l.pending.Add(1)
	select {
	case l.queue <- task:
		return true
	default:
		l.pending.Done()
		log.Debug("dispatch queue full, task dropped")
		return false
	}
}

// Call posts task and waits until it has run on the loop.
func (l *Loop) Call(ctx context.Context, task func()) bool {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		task()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// Shutdown stops accepting tasks, waits for queued ones up to the context
// deadline, then lets the loop goroutine exit.
func (l *Loop) Shutdown(ctx context.Context) {
	l.mu.Lock()
	l.accepting = false
	l.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		log.Warn("dispatch loop drain timed out")
	}

	l.closeOnce.Do(func() { close(l.queue) })
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.exited
}

func (l *Loop) run() {
	defer close(l.exited)
	for task := range l.queue {
		l.runTask(task)
	}
}

func (l *Loop) runTask(task func()) {
	defer l.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error("dispatched task panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}
