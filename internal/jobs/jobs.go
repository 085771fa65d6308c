package jobs

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/alitto/pond/v2"
)

// ErrStopped is reported by a Handle whose work could not run because the
// scheduler was shut down first.
var ErrStopped = errors.New("jobs: scheduler stopped")

// Handle is the completion handle of a scheduled job. A job launched with a
// Handle as dependency does not start until that Handle has completed, so
// every write made by the dependency is visible to it.
//
// The zero Handle is already complete.
type Handle struct {
	done <-chan struct{}
	err  *error
}

// Completed is a Handle that is already satisfied.
var Completed = Handle{}

// Complete blocks until the job and everything it depends on have finished.
func (h Handle) Complete() error {
	if h.done == nil {
		return nil
	}
	<-h.done
	if h.err != nil {
		return *h.err
	}
	return nil
}

// IsCompleted reports whether Complete would return without blocking.
func (h Handle) IsCompleted() bool {
	if h.done == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done exposes the completion channel (nil for an already completed Handle).
func (h Handle) Done() <-chan struct{} {
	return h.done
}

// Failed returns an already completed Handle that reports err.
func Failed(err error) Handle {
	done := make(chan struct{})
	close(done)
	return Handle{done: done, err: &err}
}

// Combine returns a Handle that completes once all of hs have completed.
// The first error among them is kept.
func Combine(hs ...Handle) Handle {
	done := make(chan struct{})
	var err error
	go func() {
		for _, h := range hs {
			if e := h.Complete(); e != nil && err == nil {
				err = e
			}
		}
		close(done)
	}()
	return Handle{done: done, err: &err}
}

// Scheduler fans data-parallel jobs out over a bounded worker pool.
type Scheduler struct {
	pool      pond.Pool
	ctx       context.Context
	cancel    context.CancelFunc
	batchSize int
	launched  atomic.Int64
}

// NewScheduler creates a scheduler with the given number of workers
// (0 means one per CPU). batchSize is the number of indices a single pool
// task processes; values below 1 are treated as 1.
func NewScheduler(parent context.Context, workers, batchSize int) *Scheduler {
	if parent == nil {
		parent = context.Background()
	}
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		pool:      pond.NewPool(workers, pond.WithContext(ctx)),
		ctx:       ctx,
		cancel:    cancel,
		batchSize: max(batchSize, 1),
	}
}

// Schedule runs fn(i) for every i in [0, length) once dependsOn has
// completed. There is no ordering between indices; the returned Handle
// completes after the last index has run.
func (s *Scheduler) Schedule(length int, fn func(i int), dependsOn Handle) Handle {
	done := make(chan struct{})
	var err error
	s.launched.Add(1)

	go func() {
		defer close(done)
		if err = dependsOn.Complete(); err != nil {
			return
		}
		if s.ctx.Err() != nil || s.pool.Stopped() {
			err = ErrStopped
			return
		}
		if length <= 0 {
			return
		}

		group := s.pool.NewGroup()
		for start := 0; start < length; start += s.batchSize {
			start := start
			end := min(start+s.batchSize, length)
			group.Submit(func() {
				for i := start; i < end; i++ {
					fn(i)
				}
			})
		}
		if werr := group.Wait(); werr != nil {
			err = errors.Join(ErrStopped, werr)
		}
	}()

	return Handle{done: done, err: &err}
}

// Run executes fn on the pool once dependsOn has completed.
func (s *Scheduler) Run(fn func(), dependsOn Handle) Handle {
	return s.Schedule(1, func(int) { fn() }, dependsOn)
}

// BatchSize returns the number of indices handled per pool task.
func (s *Scheduler) BatchSize() int {
	return s.batchSize
}

// Workers returns the pool's concurrency limit.
func (s *Scheduler) Workers() int {
	return s.pool.MaxConcurrency()
}

// Launched returns the number of jobs scheduled so far.
func (s *Scheduler) Launched() int64 {
	return s.launched.Load()
}

// Shutdown stops accepting work and waits for running tasks to drain.
func (s *Scheduler) Shutdown() {
	s.cancel()
	s.pool.StopAndWait()
}
