package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

type testJob struct {
	index int
	delay time.Duration
	fail  bool
}

type testResult struct {
	index int
	err   error
}

func (r *testResult) GetError() error { return r.err }

func (j *testJob) Index() int { return j.index }

func (j *testJob) Execute(ctx context.Context) Result {
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return &testResult{index: j.index, err: ctx.Err()}
		}
	}
	if j.fail {
		return &testResult{index: j.index, err: fmt.Errorf("job %d failed", j.index)}
	}
	return &testResult{index: j.index}
}

func TestPool_PreservesInputOrder(t *testing.T) {
	// Later jobs finish first; results must still land by index.
	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = &testJob{index: i, delay: time.Duration(10-i) * time.Millisecond}
	}

	pool := NewPool(4)
	results := pool.Run(context.Background(), jobs)

	if len(results) != 10 {
		t.Fatalf("got %d results, want 10", len(results))
	}
	for i, res := range results {
		tr := res.(*testResult)
		if tr.index != i {
			t.Errorf("slot %d holds result for job %d", i, tr.index)
		}
	}
}

func TestPool_FailuresStayInPlace(t *testing.T) {
	jobs := []Job{
		&testJob{index: 0},
		&testJob{index: 1, fail: true},
		&testJob{index: 2},
	}

	pool := NewPool(2)
	results := pool.Run(context.Background(), jobs)

	if results[0].GetError() != nil || results[2].GetError() != nil {
		t.Error("healthy jobs reported errors")
	}
	if results[1].GetError() == nil {
		t.Error("failed job reported no error")
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var active, peak int32

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = &trackingJob{index: i, active: &active, peak: &peak}
	}

	pool := NewPool(3)
	pool.Run(context.Background(), jobs)

	if p := atomic.LoadInt32(&peak); p > 3 {
		t.Errorf("peak concurrency %d exceeds pool size 3", p)
	}
}

type trackingJob struct {
	index  int
	active *int32
	peak   *int32
}

func (j *trackingJob) Index() int { return j.index }

func (j *trackingJob) Execute(ctx context.Context) Result {
	n := atomic.AddInt32(j.active, 1)
	for {
		p := atomic.LoadInt32(j.peak)
		if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(j.active, -1)
	return &testResult{index: j.index}
}

func TestPool_CancelledContextStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = &testJob{index: i, delay: 50 * time.Millisecond}
	}

	pool := NewPool(1)
	done := make(chan []Result, 1)
	go func() { done <- pool.Run(ctx, jobs) }()

	select {
	case results := <-done:
		if len(results) != 5 {
			t.Fatalf("result slice length %d, want 5", len(results))
		}
		// Dispatched jobs observe cancellation; undispatched slots are nil.
		for i, res := range results {
			if res != nil && res.GetError() == nil {
				t.Errorf("job %d completed normally under a cancelled context", i)
			}
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return under a cancelled context")
	}
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	if got := NewPool(0).Workers(); got != 1 {
		t.Errorf("NewPool(0) workers = %d, want 1", got)
	}
	if got := NewPool(-3).Workers(); got != 1 {
		t.Errorf("NewPool(-3) workers = %d, want 1", got)
	}
}
