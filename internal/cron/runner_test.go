package cronrunner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunnerRunsJobs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := New(zap.New(core), context.Background())

	var ok, bad int32
	if _, err := r.Add("ok", "@every 1s", func(ctx context.Context) error {
		atomic.AddInt32(&ok, 1)
		return nil
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Add("bad", "@every 1s", func(ctx context.Context) error {
		atomic.AddInt32(&bad, 1)
		return errors.New("nope")
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Entries() != 2 {
		t.Fatalf("entries=%d want 2", r.Entries())
	}

	r.Start()
	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&ok) == 0 || atomic.LoadInt32(&bad) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("jobs did not run: ok=%d bad=%d", atomic.LoadInt32(&ok), atomic.LoadInt32(&bad))
		}
		time.Sleep(20 * time.Millisecond)
	}
	r.Stop()

	if logs.FilterMessage("cron job failed").Len() == 0 {
		t.Fatalf("expected failure to be logged")
	}
}

func TestRunnerRejectsBadSpec(t *testing.T) {
	r := New(nil, nil)
	if _, err := r.Add("x", "not a spec", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunnerSkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(nil, ctx)
	var runs int32
	if _, err := r.Add("x", "@every 1s", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.Start()
	time.Sleep(1200 * time.Millisecond)
	r.Stop()
	if atomic.LoadInt32(&runs) != 0 {
		t.Fatalf("job ran %d times after cancel", atomic.LoadInt32(&runs))
	}
}
