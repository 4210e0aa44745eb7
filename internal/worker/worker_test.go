package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPool(t *testing.T) {
	pool := NewPool(2, 10, zap.NewNop())
	pool.Start()
	defer pool.Stop()

	var results sync.Map
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		jobID := i

		job := Job{
			UpdateID: jobID,
			ChatID:   int64(jobID),
			Kind:     "announcement",
			Handler: func(ctx context.Context) error {
				defer wg.Done()
				results.Store(jobID, true)
				return nil
			},
		}

		if err := pool.Submit(job); err != nil {
			t.Errorf("Failed to submit job %d: %v", jobID, err)
		}
	}

	wg.Wait()

	for i := 0; i < 5; i++ {
		if _, ok := results.Load(i); !ok {
			t.Errorf("Job %d was not processed", i)
		}
	}

	waitFor(t, func() bool { return pool.Stats().ProcessedJobs == 5 })
}

func TestPoolWithErrorsAndPanics(t *testing.T) {
	pool := NewPool(1, 5, zap.NewNop())
	pool.Start()
	defer pool.Stop()

	if err := pool.Submit(Job{UpdateID: 1, Handler: func(ctx context.Context) error {
		return errors.New("test error")
	}}); err != nil {
		t.Errorf("Failed to submit job: %v", err)
	}
	if err := pool.Submit(Job{UpdateID: 2, Handler: func(ctx context.Context) error {
		panic("boom")
	}}); err != nil {
		t.Errorf("Failed to submit job: %v", err)
	}

	waitFor(t, func() bool { return pool.Stats().FailedJobs == 2 })

	done := make(chan struct{})
	if err := pool.Submit(Job{UpdateID: 3, Handler: func(ctx context.Context) error {
		close(done)
		return nil
	}}); err != nil {
		t.Errorf("Failed to submit job: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking job")
	}
}

func TestPoolSubmitAfterStop(t *testing.T) {
	pool := NewPool(1, 5, zap.NewNop())
	pool.Start()
	pool.Stop()
	pool.Stop()

	err := pool.Submit(Job{Handler: func(ctx context.Context) error { return nil }})
	if !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped, got %v", err)
	}
}

func TestPoolQueueFull(t *testing.T) {
	pool := NewPool(1, 1, zap.NewNop())
	pool.Start()
	defer pool.Stop()

	jobStarted := make(chan struct{})
	release := make(chan struct{})
	blocking := Job{UpdateID: 1, Handler: func(ctx context.Context) error {
		close(jobStarted)
		<-release
		return nil
	}}
	noop := Job{Handler: func(ctx context.Context) error { return nil }}

	if err := pool.Submit(blocking); err != nil {
		t.Fatalf("Failed to submit first job: %v", err)
	}
	<-jobStarted

	// воркер занят, в очереди одно место
	if err := pool.Submit(noop); err != nil {
		t.Fatalf("Failed to submit second job: %v", err)
	}
	if err := pool.Submit(noop); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}

	stats := pool.Stats()
	if stats.DroppedJobs != 1 {
		t.Errorf("Expected 1 dropped job, got %d", stats.DroppedJobs)
	}
	if stats.QueueLength != 1 {
		t.Errorf("Expected queue length 1, got %d", stats.QueueLength)
	}

	close(release)
}

func TestPoolStopCancelsRunningJobs(t *testing.T) {
	pool := NewPool(1, 1, zap.NewNop())
	pool.Start()

	started := make(chan struct{})
	var cancelled bool
	if err := pool.Submit(Job{Handler: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled = true
		return ctx.Err()
	}}); err != nil {
		t.Fatalf("Failed to submit job: %v", err)
	}

	<-started
	pool.Stop()

	if !cancelled {
		t.Error("Expected running job to observe cancellation")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
