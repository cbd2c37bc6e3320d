package pipeline

import (
	"context"
	"fmt"

	"github.com/darkshare/darkshare/internal/check"
	"github.com/darkshare/darkshare/internal/database"
)

// ValidateStep runs the syntactic pre-check on the run's input.
// It fails the run with a localized, user-correctable message so that
// the evaluators downstream never see malformed input.
type ValidateStep struct {
	checker *check.Service
}

// NewValidateStep creates a ValidateStep backed by the given check service.
func NewValidateStep(checker *check.Service) *ValidateStep {
	return &ValidateStep{checker: checker}
}

// Name returns the step name for logging.
func (s *ValidateStep) Name() string { return "validate" }

// Do validates the run's input.
func (s *ValidateStep) Do(_ context.Context, run *Run) error {
	if v := s.checker.ValidateInput(run.Type, run.Target); !v.Valid {
		return fmt.Errorf("invalid input: %s", v.Error)
	}
	return nil
}

// EvaluateStep performs the actual risk evaluation and stores the
// result on the run.
type EvaluateStep struct {
	checker *check.Service
}

// NewEvaluateStep creates an EvaluateStep backed by the given check service.
func NewEvaluateStep(checker *check.Service) *EvaluateStep {
	return &EvaluateStep{checker: checker}
}

// Name returns the step name for logging.
func (s *EvaluateStep) Name() string { return "evaluate" }

// Do evaluates the run's target.
func (s *EvaluateStep) Do(ctx context.Context, run *Run) error {
	result, err := s.checker.PerformCheck(ctx, run.Type, run.Target)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	run.Result = result
	return nil
}

// PersistStep saves the run's result to the store and records the
// assigned report ID. It must be ordered after EvaluateStep.
type PersistStep struct {
	store  *database.Store
	userID int64
}

// NewPersistStep creates a PersistStep saving results for the given user
// (zero for anonymous checks).
func NewPersistStep(store *database.Store, userID int64) *PersistStep {
	return &PersistStep{store: store, userID: userID}
}

// Name returns the step name for logging.
func (s *PersistStep) Name() string { return "persist" }

// Do saves the run's result.
func (s *PersistStep) Do(ctx context.Context, run *Run) error {
	if run.Result == nil {
		return fmt.Errorf("persist: no result to save for %q", run.Type)
	}
	id, err := s.store.SaveReport(ctx, s.userID, run.Result)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	run.ReportID = id
	return nil
}
