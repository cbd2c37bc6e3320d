package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func newBatchFactory() func() *Pipeline {
	checker := newTestChecker()
	return func() *Pipeline {
		p := New(WithLogger(discardLogger()))
		p.AddSteps(NewValidateStep(checker), NewEvaluateStep(checker))
		return p
	}
}

func TestProcessBatchPreservesOrder(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(newBatchFactory(),
		WithBatchLogger(discardLogger()),
		WithConcurrency(4),
	)

	targets := []Target{
		{Type: "domain", Value: "example.com"},
		{Type: "email", Value: "user@mailinator.com"},
		{Type: "phone", Value: "+380501234567"},
		{Type: "wallet", Value: "abc"}, // invalid, still gets a run
	}

	runs, err := bp.ProcessBatch(context.Background(), targets)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if len(runs) != len(targets) {
		t.Fatalf("got %d runs, want %d", len(runs), len(targets))
	}
	for i, run := range runs {
		if run == nil {
			t.Fatalf("run %d is nil", i)
		}
		if run.Target != targets[i].Value {
			t.Errorf("run %d target = %q, want %q", i, run.Target, targets[i].Value)
		}
	}
	if runs[3].Err == nil {
		t.Error("invalid wallet run has no error")
	}
	if runs[1].Result == nil {
		t.Error("valid email run has no result")
	}
}

func TestProcessBatchRespectsCancellation(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(newBatchFactory(), WithBatchLogger(discardLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []Target{{Type: "domain", Value: "example.com"}}
	if _, err := bp.ProcessBatch(ctx, targets); err == nil {
		t.Error("ProcessBatch() with cancelled context: want error, got nil")
	}
}

func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(newBatchFactory(),
		WithBatchLogger(discardLogger()),
		WithConcurrency(2),
	)

	targets := []Target{
		{Type: "domain", Value: "example.com"},
		{Type: "domain", Value: "paypal-login.com"},
		{Type: "domain", Value: "shop.example.org"},
	}

	var mu sync.Mutex
	seen := make(map[int]string)
	var calls atomic.Int64

	err := bp.ProcessBatchWithCallback(context.Background(), targets, func(run *Run, index int) {
		calls.Add(1)
		mu.Lock()
		seen[index] = run.Target
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("ProcessBatchWithCallback() error = %v", err)
	}
	if calls.Load() != int64(len(targets)) {
		t.Errorf("callback called %d times, want %d", calls.Load(), len(targets))
	}
	for i, target := range targets {
		if seen[i] != target.Value {
			t.Errorf("index %d saw %q, want %q", i, seen[i], target.Value)
		}
	}
}

func TestWithConcurrencyIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(newBatchFactory(), WithConcurrency(0))
	if bp.concurrency != 10 {
		t.Errorf("concurrency = %d, want default 10", bp.concurrency)
	}
}
