package stream

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

// BuildFunc produces a chunk mesh. It should return early when ctx is done.
type BuildFunc func(ctx context.Context) *terrain.Mesh

// Pool runs mesh builds on a bounded number of goroutines. Submit never
// blocks the caller; excess tasks wait for a free slot.
type Pool struct {
	sem    chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a pool with the given concurrency.
// workers <= 0 uses runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:    make(chan struct{}, workers),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Workers returns the pool's concurrency.
func (p *Pool) Workers() int {
	return cap(p.sem)
}

// Submit schedules fn and returns its task handle.
func (p *Pool) Submit(fn BuildFunc) *Task {
	ctx, cancel := context.WithCancel(p.ctx)
	task := &Task{done: make(chan struct{}), cancel: cancel}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(task.done)
		defer cancel()

		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-p.sem }()

		// Cancelled while queued for a slot.
		if ctx.Err() != nil {
			return
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("mesh build panicked", zap.Any("panic", r))
				task.result = nil
			}
		}()
		task.result = fn(ctx)
	}()

	return task
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close cancels all outstanding tasks and waits for them.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
}

// Task is the owned handle of one submitted build.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	result *terrain.Mesh
}

// Poll reports whether the task has finished without blocking. A finished
// task that was cancelled before it started, or that panicked, yields nil.
func (t *Task) Poll() (*terrain.Mesh, bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return nil, false
	}
}

// Cancel asks the task to stop. A build that has already started runs to
// completion; its result is simply never collected.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the task has finished.
func (t *Task) Wait() {
	<-t.done
}
