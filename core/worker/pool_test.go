package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolConcurrencyLimit(t *testing.T) {
	pool := New(2)
	defer func() {
		_ = pool.Shutdown(context.Background())
	}()

	var current int32
	var max int32

	work := func() {
		val := atomic.AddInt32(&current, 1)
		for {
			prev := atomic.LoadInt32(&max)
			if val <= prev {
				break
			}
			if atomic.CompareAndSwapInt32(&max, prev, val) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&current, -1)
	}

	for i := 0; i < 4; i++ {
		if err := pool.Submit(work); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	_ = pool.Shutdown(context.Background())
	if max > 2 {
		t.Fatalf("expected max concurrency <= 2, got %d", max)
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	pool := New(1)
	_ = pool.Shutdown(context.Background())
	if err := pool.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPoolSubmitWait(t *testing.T) {
	pool := New(1)
	defer func() {
		_ = pool.Shutdown(context.Background())
	}()

	wantErr := errors.New("task failed")
	if err := pool.SubmitWait(func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected task error, got %v", err)
	}
	if err := pool.SubmitWait(func() error { return nil }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestPoolConcurrentSubmitAndShutdown(t *testing.T) {
	// Submissions racing a shutdown must either run or report
	// ErrPoolClosed, never panic on a closed channel.
	for i := 0; i < 20; i++ {
		pool := New(2)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 50; j++ {
				if err := pool.Submit(func() {}); err != nil {
					if !errors.Is(err, ErrPoolClosed) {
						t.Errorf("unexpected submit error: %v", err)
					}
					return
				}
			}
		}()

		_ = pool.Shutdown(context.Background())
		<-done
	}
}

func TestPoolMinimumSize(t *testing.T) {
	pool := New(0)
	defer func() {
		_ = pool.Shutdown(context.Background())
	}()
	if pool.Size() != 1 {
		t.Fatalf("expected size 1, got %d", pool.Size())
	}
}
