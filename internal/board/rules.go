package board

import "fmt"

// DefaultWIPLimit is the default maximum number of tickets in In Progress.
const DefaultWIPLimit = 5

// Rule identifies which transition rule decided a move.
type Rule int

// Rule constants, in evaluation order.
const (
	RuleNone Rule = iota
	RuleSkipInProgress
	RuleRevertDone
	RuleWIPLimit
	RuleReopenDone
	RuleUnknownStage
)

// Denial reasons shown to the user.
const (
	ReasonSkipInProgress = "must pass through In Progress"
	ReasonRevertDone     = "cannot revert a finished ticket to To Do"
	ReasonWIPLimit       = "work-in-progress limit reached"
	ReasonReopenDone     = "cannot reopen a finished ticket"
	ReasonUnknownStage   = "unknown stage"
)

// Verdict is the outcome of evaluating a proposed move.
type Verdict struct {
	Allowed bool
	Rule    Rule
	Reason  string
}

// Err returns nil for allowed moves. Denials wrap [ErrCapacityExceeded] for
// the WIP limit and [ErrRuleViolation] for everything else.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}

	if v.Rule == RuleWIPLimit {
		return fmt.Errorf("%w: %s", ErrCapacityExceeded, v.Reason)
	}

	return fmt.Errorf("%w: %s", ErrRuleViolation, v.Reason)
}

// Rules holds the transition rule parameters.
type Rules struct {
	MaxInProgress int
}

// DefaultRules returns rules with the default WIP limit.
func DefaultRules() Rules {
	return Rules{MaxInProgress: DefaultWIPLimit}
}

// EvaluateMove decides a move with the default rules.
func EvaluateMove(src, dst Stage, dstCount int) Verdict {
	return DefaultRules().Evaluate(src, dst, dstCount)
}

// Evaluate decides whether a ticket may move from src to dst, where dstCount is
// the number of tickets already in dst. The first matching rule wins, so a
// drop back onto a full In Progress column is denied like any other move into
// it. Other same-stage moves are allowed.
func (r Rules) Evaluate(src, dst Stage, dstCount int) Verdict {
	if !src.Valid() || !dst.Valid() {
		return deny(RuleUnknownStage, ReasonUnknownStage)
	}

	switch {
	case src == StageToDo && dst == StageDone:
		return deny(RuleSkipInProgress, ReasonSkipInProgress)
	case src == StageDone && dst == StageToDo:
		return deny(RuleRevertDone, ReasonRevertDone)
	case dst == StageInProgress && dstCount >= r.limit():
		return deny(RuleWIPLimit, ReasonWIPLimit)
	case src == StageDone && dst == StageInProgress:
		return deny(RuleReopenDone, ReasonReopenDone)
	}

	return Verdict{Allowed: true}
}

func (r Rules) limit() int {
	if r.MaxInProgress <= 0 {
		return DefaultWIPLimit
	}

	return r.MaxInProgress
}

func deny(rule Rule, reason string) Verdict {
	return Verdict{Rule: rule, Reason: reason}
}
