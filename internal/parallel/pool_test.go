package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsAllSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	var completed int64
	var wg sync.WaitGroup
	ctx := context.Background()

	const numOffspring = 20
	for i := 0; i < numOffspring; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			atomic.AddInt64(&completed, 1)
		}
		if err := pool.Submit(ctx, task); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	wg.Wait()

	if got := atomic.LoadInt64(&completed); got != numOffspring {
		t.Errorf("expected %d scored offspring, got %d", numOffspring, got)
	}
}

func TestNewWorkerPool_NonPositiveDefaultsToNumCPU(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()

	done := make(chan struct{})
	if err := pool.Submit(context.Background(), func() { close(done) }); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

func TestWorkerPool_SubmitPanicDoesNotStopOtherTasks(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Shutdown()

	ctx := context.Background()
	if err := pool.Submit(ctx, func() { panic("simulated bad fitness evaluation") }); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	done := make(chan struct{})
	if err := pool.Submit(ctx, func() { close(done) }); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool stopped processing tasks after a panicking task")
	}
}

func TestWorkerPool_SubmitAfterCancelledContext(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	blocking := make(chan struct{})
	started := make(chan struct{})
	if err := pool.Submit(context.Background(), func() {
		close(started)
		<-blocking
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	<-started // the sole worker is now occupied and won't drain the queue
	defer close(blocking)

	// Fill the queue (capacity maxWorkers*4 = 4) so the next Submit would
	// otherwise block, then confirm a cancelled context unblocks it instead.
	for i := 0; i < 4; i++ {
		if err := pool.Submit(context.Background(), func() { <-blocking }); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.Submit(ctx, func() {}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWorkerPool_ShutdownIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Shutdown()
	pool.Shutdown() // must not panic or double-close a channel
}

func BenchmarkWorkerPool_ScoreOffspring(b *testing.B) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			done := make(chan struct{})
			_ = pool.Submit(ctx, func() { close(done) })
			<-done
		}
	})
}
