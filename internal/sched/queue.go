// Package `sched` implements the ready queue of a pairq server: jobs
// ordered by priority on a pairing heap, with an index from job IDs to
// their heap handles so cancellation and reprioritization hit the right
// element directly.
package sched

import (
	"errors"
	"sync"
	"time"

	"github.com/lambdcalculus/pairq/pkg/pairheap"
)

var (
	ErrFull      = errors.New("sched: queue is full")
	ErrDuplicate = errors.New("sched: a job with this ID is already queued")
	ErrUnknown   = errors.New("sched: no queued job with this ID")
)

// A Job is one queued unit of work. Lower priority values run first.
type Job struct {
	ID        string
	Priority  int64
	Payload   string
	Submitted time.Time
}

// The Queue holds the jobs waiting to be taken.
// Its methods can be called from multiple goroutines.
type Queue struct {
	mu    sync.Mutex
	heap  *pairheap.Heap[int64, *Job]
	byID  map[string]*pairheap.Element[int64, *Job]
	taken uint64
	max   int
}

// NewQueue makes an empty queue that holds at most `max` jobs (0 means
// unbounded).
func NewQueue(max int) *Queue {
	return &Queue{
		heap: pairheap.New[int64, *Job](),
		byID: make(map[string]*pairheap.Element[int64, *Job]),
		max:  max,
	}
}

// Submit queues a job. Fails with [ErrFull] on a full queue and with
// [ErrDuplicate] if a job with the same ID is already waiting.
func (q *Queue) Submit(job *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.max > 0 && q.heap.Len() >= q.max {
		return ErrFull
	}
	if _, ok := q.byID[job.ID]; ok {
		return ErrDuplicate
	}
	if job.Submitted.IsZero() {
		job.Submitted = time.Now()
	}
	q.byID[job.ID] = q.heap.Insert(job.Priority, job)
	return nil
}

// Take removes and returns the highest-priority (lowest value) job.
// Returns false on an empty queue.
func (q *Queue) Take() (*Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, err := q.heap.DeleteMin()
	if err != nil {
		return nil, false
	}
	job := e.Value()
	delete(q.byID, job.ID)
	q.taken++
	return job, true
}

// Peek returns the highest-priority job without removing it.
func (q *Queue) Peek() (*Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.heap.Min()
	if !ok {
		return nil, false
	}
	return e.Value(), true
}

// Cancel drops a queued job by ID and returns it.
func (q *Queue) Cancel(id string) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.byID[id]
	if !ok {
		return nil, ErrUnknown
	}
	q.heap.Delete(e)
	delete(q.byID, id)
	return e.Value(), nil
}

// Reprioritize changes a queued job's priority and returns the old one.
// A lowered priority takes the cheap decrease-key path; a raised one pays
// for the full change.
func (q *Queue) Reprioritize(id string, priority int64) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.byID[id]
	if !ok {
		return 0, ErrUnknown
	}
	var old int64
	if priority <= e.Key() {
		old, _ = q.heap.DecreaseKey(e, priority)
	} else {
		old = q.heap.ChangeKey(e, priority)
	}
	e.Value().Priority = priority
	return old, nil
}

// Absorb moves every job of `other` into q in constant time, leaving
// `other` empty. Jobs whose IDs collide with already-queued ones are NOT
// detected; callers merge queues with disjoint ID spaces.
func (q *Queue) Absorb(other *Queue) error {
	if other == q {
		return pairheap.ErrSelfMerge
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	other.mu.Lock()
	defer other.mu.Unlock()

	if err := q.heap.Merge(other.heap); err != nil {
		return err
	}
	for id, e := range other.byID {
		q.byID[id] = e
	}
	other.byID = make(map[string]*pairheap.Element[int64, *Job])
	return nil
}

// Drain drops every queued job and returns how many were dropped.
func (q *Queue) Drain() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.heap.Len()
	q.heap.Clear()
	q.byID = make(map[string]*pairheap.Element[int64, *Job])
	return n
}

// Snapshot returns the queued jobs, best-priority first.
func (q *Queue) Snapshot() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs := make([]*Job, 0, q.heap.Len())
	it := q.heap.SortedIterator()
	for it.HasNext() {
		e, err := it.Next()
		if err != nil {
			break
		}
		jobs = append(jobs, e.Value())
	}
	return jobs
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// Taken returns how many jobs have been taken from the queue so far.
func (q *Queue) Taken() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.taken
}

// MinPriority returns the best queued priority. The bool is false on an
// empty queue.
func (q *Queue) MinPriority() (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.heap.Min()
	if !ok {
		return 0, false
	}
	return e.Key(), true
}
