package jobs

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/invariant"
	"github.com/Faultbox/reconview/internal/logger"
)

// ErrClosed is returned by Enqueue once the pipeline is shutting down.
var ErrClosed = errors.New("jobs: pipeline closed")

// Executor performs the work of each job. Its methods run on the worker
// goroutine only, one at a time.
type Executor interface {
	LoadImage(job LoadImage) error
	RebuildIndex() error
}

// Waker asks the interactive goroutine to redraw.
type Waker interface {
	Wake()
}

// Pipeline owns the queue and the worker goroutine.
type Pipeline struct {
	queue *Queue
	exec  Executor
	waker Waker
	log   *zap.Logger

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
}

// NewPipeline creates a stopped pipeline. waker may be nil.
func NewPipeline(exec Executor, waker Waker) *Pipeline {
	return &Pipeline{
		queue: NewQueue(),
		exec:  exec,
		waker: waker,
		log:   logger.Named("worker"),
		done:  make(chan struct{}),
	}
}

// Start launches the worker. Calling it again has no effect. A pipeline
// closed before Start still runs the jobs queued ahead of Shutdown.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	go p.run()
}

// Enqueue queues job without blocking. Enqueuing Shutdown closes the
// pipeline for further jobs.
func (p *Pipeline) Enqueue(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if _, ok := job.(Shutdown); ok {
		p.closed = true
	}
	p.queue.Push(job)
	return nil
}

// Pending returns the number of jobs waiting to run.
func (p *Pipeline) Pending() int {
	return p.queue.Len()
}

// Close queues Shutdown behind the pending jobs and, once the worker is
// started, waits for it to exit. It is safe to call more than once.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		p.queue.Push(Shutdown{})
	}
	started := p.started
	p.mu.Unlock()

	if started {
		<-p.done
	}
	return nil
}

func (p *Pipeline) run() {
	defer close(p.done)
	p.log.Debug("worker started")
	for {
		job := p.queue.Pop()
		if _, ok := job.(Shutdown); ok {
			p.log.Debug("worker stopped", zap.Int("dropped", p.queue.Len()))
			return
		}
		if p.execute(job) && p.waker != nil {
			p.waker.Wake()
		}
	}
}

// execute runs one job and reports whether it succeeded. A panicking job
// is logged and treated as failed.
func (p *Pipeline) execute(job Job) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("job panicked",
				zap.Stringer("job", job),
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()))
			ok = false
		}
	}()

	var err error
	switch j := job.(type) {
	case LoadImage:
		err = p.exec.LoadImage(j)
	case RebuildIndex:
		err = p.exec.RebuildIndex()
	default:
		invariant.Check(false, "unknown job type", zap.String("type", fmt.Sprintf("%T", job)))
		return false
	}
	if err != nil {
		p.log.Warn("job failed", zap.Stringer("job", job), zap.Error(err))
		return false
	}
	return true
}
