package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// task is one unit of deferred work with a name for the log line.
type task struct {
	name string
	run  func(ctx context.Context) error
}

// TaskQueue is a bounded queue with a fixed worker pool for the side
// effects that must not block an intake response: aggregate recompute and
// notification email. Failures are logged rather than surfaced, so
// best-effort work stays observable instead of vanishing inside detached
// goroutines.
type TaskQueue struct {
	tasks   chan task
	wg      sync.WaitGroup
	timeout time.Duration

	closeOnce sync.Once
}

// NewTaskQueue starts workers draining a queue of the given capacity.
func NewTaskQueue(workers, capacity int) *TaskQueue {
	if workers <= 0 {
		workers = 2
	}
	if capacity <= 0 {
		capacity = 64
	}
	q := &TaskQueue{
		tasks:   make(chan task, capacity),
		timeout: time.Minute,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *TaskQueue) worker() {
	defer q.wg.Done()
	for t := range q.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		if err := t.run(ctx); err != nil {
			log.Printf("Background task %q failed: %v", t.name, err)
		}
		cancel()
	}
}

// Enqueue submits work without blocking. A full queue drops the task and
// logs the drop; callers on the intake path must never wait here.
func (q *TaskQueue) Enqueue(name string, run func(ctx context.Context) error) bool {
	select {
	case q.tasks <- task{name: name, run: run}:
		return true
	default:
		log.Printf("Background queue full, dropping task %q", name)
		return false
	}
}

// Shutdown stops accepting work and waits for the workers to drain, up to
// the context deadline.
func (q *TaskQueue) Shutdown(ctx context.Context) {
	q.closeOnce.Do(func() {
		close(q.tasks)
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("Background queue shutdown timed out: %v", ctx.Err())
	}
}
