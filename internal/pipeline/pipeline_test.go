package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordStep appends its name to a shared slice so tests can assert
// execution order.
type recordStep struct {
	name  string
	order *[]string
	err   error
}

func (s *recordStep) Name() string { return s.name }

func (s *recordStep) Do(_ context.Context, _ *Run) error {
	*s.order = append(*s.order, s.name)
	return s.err
}

func TestPipelineExecutesStepsInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	p := New(WithLogger(discardLogger()))
	p.AddSteps(
		&recordStep{name: "first", order: &order},
		&recordStep{name: "second", order: &order},
		&recordStep{name: "third", order: &order},
	)

	run := NewRun("domain", "example.com")
	if err := p.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("executed %d steps, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, order[i], want[i])
		}
	}
	if len(run.PerformedSteps) != 3 {
		t.Errorf("PerformedSteps = %v, want 3 entries", run.PerformedSteps)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	var order []string
	stepErr := errors.New("boom")
	p := New(WithLogger(discardLogger()))
	p.AddSteps(
		&recordStep{name: "first", order: &order, err: stepErr},
		&recordStep{name: "second", order: &order},
	)

	run := NewRun("domain", "example.com")
	if err := p.Execute(context.Background(), run); !errors.Is(err, stepErr) {
		t.Errorf("Execute() error = %v, want %v", err, stepErr)
	}
	if len(order) != 1 {
		t.Errorf("executed %d steps, want 1", len(order))
	}
	if !errors.Is(run.Err, stepErr) {
		t.Errorf("run.Err = %v, want %v", run.Err, stepErr)
	}
	if run.ErrMessage != "boom" {
		t.Errorf("run.ErrMessage = %q, want %q", run.ErrMessage, "boom")
	}
}

func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	var order []string
	p := New(WithLogger(discardLogger()), WithContinueOnError(true))
	p.AddSteps(
		&recordStep{name: "first", order: &order, err: errors.New("boom")},
		&recordStep{name: "second", order: &order},
	)

	if err := p.Execute(context.Background(), NewRun("ip", "8.8.8.8")); err != nil {
		t.Errorf("Execute() error = %v, want nil", err)
	}
	if len(order) != 2 {
		t.Errorf("executed %d steps, want 2", len(order))
	}
}

func TestPipelineRespectsCancellation(t *testing.T) {
	t.Parallel()

	var order []string
	p := New(WithLogger(discardLogger()))
	p.AddStep(&recordStep{name: "never", order: &order})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Execute(ctx, NewRun("ip", "8.8.8.8")); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if len(order) != 0 {
		t.Errorf("executed %d steps after cancellation, want 0", len(order))
	}
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var order []string
	p := New(WithLogger(discardLogger()))
	p.AddSteps(
		&recordStep{name: "validate", order: &order},
		&recordStep{name: "evaluate", order: &order},
	)

	if got := p.StepCount(); got != 2 {
		t.Errorf("StepCount() = %d, want 2", got)
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "validate" || names[1] != "evaluate" {
		t.Errorf("StepNames() = %v, want [validate evaluate]", names)
	}
}
