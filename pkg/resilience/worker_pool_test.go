package resilience

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolExecutesJobs(t *testing.T) {
	pool := NewWorkerPool(3, 6)

	var count int32
	for i := 0; i < 10; i++ {
		if err := pool.Submit(context.Background(), func() {
			atomic.AddInt32(&count, 1)
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	pool.Close()
	pool.Wait()

	if got := atomic.LoadInt32(&count); got != 10 {
		t.Fatalf("expected 10 jobs executed, got %d", got)
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.Close()
	pool.Close()
	if err := pool.Submit(context.Background(), func() {}); err != ErrWorkerPoolClosed {
		t.Fatalf("expected ErrWorkerPoolClosed, got %v", err)
	}
}

func TestWorkerPoolSubmitCanceled(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	pool := NewWorkerPool(1, 1)
	defer func() {
		close(block)
		pool.Close()
		pool.Wait()
	}()

	// One job occupies the worker, one fills the queue.
	_ = pool.Submit(context.Background(), func() {
		close(started)
		<-block
	})
	<-started
	_ = pool.Submit(context.Background(), func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.Submit(ctx, func() {}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	results := make([]int32, 50)
	if err := ForEach(context.Background(), 4, len(results), func(i int) {
		atomic.AddInt32(&results[i], int32(i))
	}); err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}

	for i, got := range results {
		if got != int32(i) {
			t.Fatalf("index %d: expected %d, got %d", i, i, got)
		}
	}

	if err := ForEach(context.Background(), 4, 0, func(int) { t.Fatal("unexpected call") }); err != nil {
		t.Fatalf("ForEach on empty input failed: %v", err)
	}
}
