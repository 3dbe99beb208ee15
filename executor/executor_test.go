package executor

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	teaerrors "github.com/wippyai/teajs/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		threads int
		pool    bool
		degree  int
	}{
		{-1, false, 1},
		{1, false, 1},
		{2, true, 2},
		{8, true, 8},
	}
	for _, tt := range tests {
		e := New(tt.threads)
		_, isPool := e.(*Pool)
		if isPool != tt.pool {
			t.Fatalf("threads %d: expected pool=%v, got %T", tt.threads, tt.pool, e)
		}
		if Degree(e) != tt.degree {
			t.Fatalf("threads %d: expected degree %d, got %d", tt.threads, tt.degree, Degree(e))
		}
	}
	want := runtime.NumCPU()
	if want < 2 {
		want = 1
	}
	if got := Degree(New(0)); got != want {
		t.Fatalf("expected degree %d for zero threads, got %d", want, got)
	}
}

func TestBarrierVisibility(t *testing.T) {
	const tasks = 100
	for threads := 1; threads <= 8; threads++ {
		e := New(threads)
		var counter atomic.Int64
		// Plain writes; only the barrier orders them before phase two.
		written := make([]int, tasks)
		for i := 0; i < tasks; i++ {
			e.Submit(func() error {
				counter.Add(1)
				written[i] = i + 1
				return nil
			})
		}
		if err := e.Complete(); err != nil {
			t.Fatalf("threads %d: %v", threads, err)
		}

		var mismatches atomic.Int64
		for i := 0; i < tasks; i++ {
			e.Submit(func() error {
				if counter.Load() != tasks {
					mismatches.Add(1)
				}
				sum := 0
				for _, w := range written {
					sum += w
				}
				if sum != tasks*(tasks+1)/2 {
					mismatches.Add(1)
				}
				return nil
			})
		}
		if err := e.Complete(); err != nil {
			t.Fatalf("threads %d: %v", threads, err)
		}
		if n := mismatches.Load(); n != 0 {
			t.Fatalf("threads %d: %d tasks saw partial effects of the previous phase", threads, n)
		}
	}
}

func TestSequential_RunsInline(t *testing.T) {
	e := NewSequential()
	ran := false
	e.Submit(func() error {
		ran = true
		return nil
	})
	if !ran {
		t.Fatal("sequential executor should run task inside Submit")
	}
	if err := e.Complete(); err != nil {
		t.Fatal(err)
	}
}

func TestSequential_FailFast(t *testing.T) {
	e := NewSequential()
	first := errors.New("first")
	var after int
	e.Submit(func() error { return first })
	e.Submit(func() error { after++; return errors.New("second") })

	if err := e.Complete(); err != first {
		t.Fatalf("expected first error, got %v", err)
	}
	if after != 0 {
		t.Fatal("tasks after a failure should be skipped")
	}

	e.Submit(func() error { after++; return nil })
	if err := e.Complete(); err != nil {
		t.Fatalf("expected executor reset after Complete, got %v", err)
	}
	if after != 1 {
		t.Fatal("expected next phase to run")
	}
}

func TestPool_FailFast(t *testing.T) {
	e := NewPool(4)
	boom := errors.New("boom")
	for i := 0; i < 20; i++ {
		e.Submit(func() error {
			if i == 3 {
				return boom
			}
			return nil
		})
	}
	if err := e.Complete(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		e.Submit(func() error { ran.Add(1); return nil })
	}
	if err := e.Complete(); err != nil {
		t.Fatalf("next phase should start clean, got %v", err)
	}
	if ran.Load() != 5 {
		t.Fatalf("expected 5 tasks, got %d", ran.Load())
	}
}

func TestPool_Bounded(t *testing.T) {
	const size = 3
	e := NewPool(size)
	var running, peak atomic.Int32
	for i := 0; i < 30; i++ {
		e.Submit(func() error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return nil
		})
	}
	if err := e.Complete(); err != nil {
		t.Fatal(err)
	}
	if p := peak.Load(); p > size {
		t.Fatalf("expected at most %d concurrent tasks, got %d", size, p)
	}
}

func TestPool_SubmitDuringComplete(t *testing.T) {
	e := NewPool(2)
	gate := make(chan struct{})
	var firstDone atomic.Bool
	e.Submit(func() error {
		<-gate
		firstDone.Store(true)
		return nil
	})

	completed := make(chan error, 1)
	go func() { completed <- e.Complete() }()
	for {
		e.mu.Lock()
		waiting := e.completing
		e.mu.Unlock()
		if waiting {
			break
		}
		runtime.Gosched()
	}

	var sawFirst atomic.Bool
	var ran atomic.Bool
	e.Submit(func() error {
		ran.Store(true)
		sawFirst.Store(firstDone.Load())
		return nil
	})
	if ran.Load() {
		t.Fatal("task submitted during Complete must not run before the barrier")
	}
	close(gate)
	if err := <-completed; err != nil {
		t.Fatal(err)
	}
	if err := e.Complete(); err != nil {
		t.Fatal(err)
	}
	if !ran.Load() || !sawFirst.Load() {
		t.Fatal("deferred task should run after the barrier and observe the earlier phase")
	}
}

func TestPool_PanicBecomesError(t *testing.T) {
	e := NewPool(2)
	e.Submit(func() error { panic("kaboom") })
	err := e.Complete()
	if !errors.Is(err, teaerrors.ErrComputation) {
		t.Fatalf("expected computation error, got %v", err)
	}
}

func TestPool_SubmitFromTask(t *testing.T) {
	e := NewPool(1)
	var inner atomic.Bool
	e.Submit(func() error {
		e.Submit(func() error {
			inner.Store(true)
			return nil
		})
		return nil
	})
	if err := e.Complete(); err != nil {
		t.Fatal(err)
	}
	// The nested task was submitted either before Complete began waiting,
	// joining this phase, or during the wait, joining the next one.
	if err := e.Complete(); err != nil {
		t.Fatal(err)
	}
	if !inner.Load() {
		t.Fatal("nested task should have run")
	}
}
