package worker

import (
	"context"
	"sync"
)

// Job is a unit of work bound to a fixed slot in the result set.
type Job interface {
	// Index is the job's position in the input; its result lands in the
	// same position of the output.
	Index() int

	Execute(ctx context.Context) Result
}

// Result is the outcome of a job execution.
type Result interface {
	GetError() error
}

// Pool executes jobs over a bounded number of workers while preserving
// input order in the result slice. Pricing depends on this ordering
// guarantee: the cache fingerprint covers full-list content, so results
// must be reassembled in input order regardless of completion order.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes all jobs and returns their results indexed by Job.Index.
// A cancelled context stops dispatching new jobs; already-dispatched
// jobs observe cancellation through their own context handling.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.workers)

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[j.Index()] = j.Execute(ctx)
		}(job)
	}

	wg.Wait()
	return results
}
