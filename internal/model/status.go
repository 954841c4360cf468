package model

import "fmt"

type CriterionStatus string

const (
	CriterionPending    CriterionStatus = "pending"
	CriterionInProgress CriterionStatus = "in_progress"
	CriterionCompleted  CriterionStatus = "completed"
)

// completed is the only terminal criterion status; the backlog never
// walks a criterion backwards once it lands there.
var terminalCriterionStatuses = map[CriterionStatus]bool{
	CriterionCompleted: true,
}

var validCriterionTransitions = map[CriterionStatus]map[CriterionStatus]bool{
	CriterionPending: {
		CriterionInProgress: true,
		CriterionCompleted:  true,
	},
	CriterionInProgress: {
		CriterionPending:   true, // iteration failed → back to pending
		CriterionCompleted: true,
	},
}

func IsCriterionTerminal(s CriterionStatus) bool {
	return terminalCriterionStatuses[s]
}

func ValidateCriterionTransition(from, to CriterionStatus) error {
	if from == to {
		return nil
	}
	if IsCriterionTerminal(from) {
		return fmt.Errorf("cannot transition from terminal criterion status %q", from)
	}
	allowed, ok := validCriterionTransitions[from]
	if !ok {
		return fmt.Errorf("unknown criterion status %q", from)
	}
	if !allowed[to] {
		return fmt.Errorf("invalid criterion transition: %q → %q", from, to)
	}
	return nil
}

// Outcome is the engine's verdict for a single iteration.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeFailure         Outcome = "failure"
	OutcomeTimeout         Outcome = "timeout"
	OutcomeOutputOverflow  Outcome = "output_overflow"
	OutcomeConnectionError Outcome = "connection_error"
	OutcomeCompleted       Outcome = "completed"
	OutcomeSkipped         Outcome = "skipped"
)

var validOutcomes = map[Outcome]bool{
	OutcomeSuccess:         true,
	OutcomeFailure:         true,
	OutcomeTimeout:         true,
	OutcomeOutputOverflow:  true,
	OutcomeConnectionError: true,
	OutcomeCompleted:       true,
	OutcomeSkipped:         true,
}

func ValidateOutcome(o Outcome) error {
	if !validOutcomes[o] {
		return fmt.Errorf("unknown outcome %q", o)
	}
	return nil
}

// Failed reports whether the outcome counts against the task for
// stagnation purposes. Connection errors do not; they say nothing about
// the task itself.
func (o Outcome) Failed() bool {
	switch o {
	case OutcomeFailure, OutcomeTimeout, OutcomeOutputOverflow:
		return true
	}
	return false
}

// PauseReason records why a run stopped with work remaining.
type PauseReason string

const (
	PauseError             PauseReason = "error"
	PauseUserRequested     PauseReason = "user_requested"
	PauseGuidanceNeeded    PauseReason = "guidance_needed"
	PauseIterationBoundary PauseReason = "iteration_boundary"
)

var validPauseReasons = map[PauseReason]bool{
	PauseError:             true,
	PauseUserRequested:     true,
	PauseGuidanceNeeded:    true,
	PauseIterationBoundary: true,
}

func ValidatePauseReason(r PauseReason) error {
	if !validPauseReasons[r] {
		return fmt.Errorf("unknown pause reason %q", r)
	}
	return nil
}
