package jobs

import "sync"

// Queue is an unbounded FIFO of jobs. Push never blocks; Pop blocks while
// the queue is empty.
type Queue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []Job
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends job.
func (q *Queue) Push(job Job) {
	q.mu.Lock()
	q.items = append(q.items, job)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pop removes and returns the oldest job, waiting for one if necessary.
func (q *Queue) Pop() Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.cond.Wait()
	}
	job := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return job
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
