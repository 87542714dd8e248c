package remote

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	inUse  *int32
	peak   *int32
	closed *int32
}

func (c *countingRunner) Run(ctx context.Context, command string, timeout time.Duration) CommandResult {
	n := atomic.AddInt32(c.inUse, 1)
	for {
		p := atomic.LoadInt32(c.peak)
		if n <= p || atomic.CompareAndSwapInt32(c.peak, p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(c.inUse, -1)
	return CommandResult{Success: true}
}

func (c *countingRunner) CopyFile(localPath, remotePath string) CopyResult {
	return CopyResult{Success: true}
}

func (c *countingRunner) TestConnection() bool { return true }

func (c *countingRunner) Close() error {
	atomic.AddInt32(c.closed, 1)
	return nil
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var inUse, peak, closed int32
	pool, err := NewPool(2, func() (CommandRunner, error) {
		return &countingRunner{inUse: &inUse, peak: &peak, closed: &closed}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := pool.Acquire()
			defer pool.Release(r)
			r.Run(context.Background(), "true", time.Second)
		}()
	}
	wg.Wait()

	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("expected at most 2 concurrent runners, observed %d", p)
	}

	pool.CloseAll()
	if c := atomic.LoadInt32(&closed); c != 2 {
		t.Errorf("expected 2 closed runners, got %d", c)
	}
}

func TestPool_SizeFixed(t *testing.T) {
	pool, err := NewPool(3, func() (CommandRunner, error) {
		return NewLocalRunner("", time.Second), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer pool.CloseAll()

	if pool.Size() != 3 {
		t.Errorf("expected size 3, got %d", pool.Size())
	}

	// Acquire everything; the pool must not mint extra runners.
	r1 := pool.Acquire()
	r2 := pool.Acquire()
	r3 := pool.Acquire()

	acquired := make(chan CommandRunner)
	go func() { acquired <- pool.Acquire() }()

	select {
	case <-acquired:
		t.Fatal("acquire should block when the pool is exhausted")
	case <-time.After(20 * time.Millisecond):
	}

	pool.Release(r1)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquire should unblock after a release")
	}
	pool.Release(r2)
	pool.Release(r3)
}

func TestLocalRunner_Run(t *testing.T) {
	runner := NewLocalRunner(t.TempDir(), 10*time.Second)

	t.Run("successful command", func(t *testing.T) {
		result := runner.Run(context.Background(), "echo hello", 0)
		if !result.Success {
			t.Fatalf("expected success, got %+v", result)
		}
		if result.ReturnCode != 0 {
			t.Errorf("expected return code 0, got %d", result.ReturnCode)
		}
		if result.Stdout != "hello\n" {
			t.Errorf("expected stdout 'hello', got %q", result.Stdout)
		}
	})

	t.Run("failing command", func(t *testing.T) {
		result := runner.Run(context.Background(), "exit 3", 0)
		if result.Success {
			t.Error("expected failure")
		}
		if result.ReturnCode != 3 {
			t.Errorf("expected return code 3, got %d", result.ReturnCode)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		result := runner.Run(context.Background(), "sleep 5", 50*time.Millisecond)
		if result.Success {
			t.Error("expected timeout failure")
		}
	})

	t.Run("combined output order", func(t *testing.T) {
		result := runner.Run(context.Background(), "echo out; echo err 1>&2", 0)
		combined := result.Combined()
		if combined == "" {
			t.Fatal("expected combined output")
		}
	})
}

func TestLocalRunner_CopyFile(t *testing.T) {
	dir := t.TempDir()
	src := dir + "/src.txt"
	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	runner := NewLocalRunner(dir, time.Second)
	result := runner.CopyFile(src, dir+"/nested/dst.txt")
	if !result.Success {
		t.Fatalf("expected copy success, got %+v", result)
	}

	missing := runner.CopyFile(dir+"/does-not-exist", dir+"/dst2.txt")
	if missing.Success {
		t.Error("expected copy failure for missing source")
	}
	if missing.Stderr == "" {
		t.Error("expected stderr describing the failure")
	}
}
