package board

import (
	"errors"
	"fmt"
	"testing"
)

func TestEvaluateMoveRuleTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src, dst Stage
		count    int
		want     Rule
	}{
		{StageToDo, StageToDo, 0, RuleNone},
		{StageToDo, StageInProgress, 0, RuleNone},
		{StageToDo, StageInProgress, 4, RuleNone},
		{StageToDo, StageInProgress, 5, RuleWIPLimit},
		{StageToDo, StageDone, 0, RuleSkipInProgress},
		{StageInProgress, StageToDo, 0, RuleNone},
		{StageInProgress, StageInProgress, 4, RuleNone},
		{StageInProgress, StageInProgress, 5, RuleWIPLimit},
		{StageInProgress, StageDone, 0, RuleNone},
		{StageDone, StageToDo, 0, RuleRevertDone},
		{StageDone, StageInProgress, 0, RuleReopenDone},
		{StageDone, StageInProgress, 5, RuleWIPLimit},
		{StageDone, StageDone, 3, RuleNone},
	}

	for _, testCase := range tests {
		testCase := testCase
		name := fmt.Sprintf("%s->%s/%d", testCase.src, testCase.dst, testCase.count)
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := EvaluateMove(testCase.src, testCase.dst, testCase.count)

			if got.Rule != testCase.want {
				t.Errorf("rule = %d, want %d (reason %q)", got.Rule, testCase.want, got.Reason)
			}

			if got.Allowed != (testCase.want == RuleNone) {
				t.Errorf("allowed = %v, want %v", got.Allowed, testCase.want == RuleNone)
			}
		})
	}
}

func TestEvaluateMoveForbiddenPairsIgnoreOccupancy(t *testing.T) {
	t.Parallel()

	pairs := [][2]Stage{
		{StageToDo, StageDone},
		{StageDone, StageToDo},
		{StageDone, StageInProgress},
	}

	for _, pair := range pairs {
		for count := 0; count < 12; count++ {
			got := EvaluateMove(pair[0], pair[1], count)
			if got.Allowed {
				t.Errorf("%s->%s with count %d allowed, want denied", pair[0], pair[1], count)
			}
		}
	}
}

func TestEvaluateMoveWIPLimitBoundary(t *testing.T) {
	t.Parallel()

	for count := 0; count < 20; count++ {
		for _, src := range []Stage{StageToDo, StageInProgress} {
			got := EvaluateMove(src, StageInProgress, count)

			wantAllowed := count < DefaultWIPLimit
			if got.Allowed != wantAllowed {
				t.Errorf("%s->inprogress with %d tickets: allowed = %v, want %v", src, count, got.Allowed, wantAllowed)
			}
		}
	}
}

func TestRulesCustomLimit(t *testing.T) {
	t.Parallel()

	rules := Rules{MaxInProgress: 2}

	if v := rules.Evaluate(StageToDo, StageInProgress, 1); !v.Allowed {
		t.Errorf("count 1 under limit 2 denied: %q", v.Reason)
	}

	if v := rules.Evaluate(StageToDo, StageInProgress, 2); v.Allowed {
		t.Error("count 2 under limit 2 allowed, want denied")
	}

	// A zero limit falls back to the default.
	if v := (Rules{}).Evaluate(StageToDo, StageInProgress, 4); !v.Allowed {
		t.Errorf("zero-value rules denied count 4: %q", v.Reason)
	}
}

func TestVerdictErr(t *testing.T) {
	t.Parallel()

	if err := EvaluateMove(StageToDo, StageInProgress, 0).Err(); err != nil {
		t.Errorf("allowed verdict Err() = %v, want nil", err)
	}

	err := EvaluateMove(StageDone, StageToDo, 0).Err()
	if !errors.Is(err, ErrRuleViolation) {
		t.Errorf("revert Err() = %v, want ErrRuleViolation", err)
	}

	err = EvaluateMove(StageToDo, StageInProgress, 5).Err()
	if !errors.Is(err, ErrCapacityExceeded) || errors.Is(err, ErrRuleViolation) {
		t.Errorf("limit Err() = %v, want only ErrCapacityExceeded", err)
	}
}

func TestEvaluateMoveUnknownStage(t *testing.T) {
	t.Parallel()

	got := EvaluateMove("backlog", StageToDo, 0)
	if got.Allowed || got.Rule != RuleUnknownStage {
		t.Errorf("unknown stage verdict = %+v, want RuleUnknownStage denial", got)
	}
}
