package backlog

import (
	"fmt"
	"strings"
)

// ParseError means the backlog file could not be read as a valid
// document. The run must stop; grind never guesses at a repaired
// backlog.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse backlog %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DeadlockError means incomplete work remains but no task is eligible,
// either because of a dependency cycle or because every remaining task
// waits on a failed or skipped dependency.
type DeadlockError struct {
	Remaining []string
	Cycle     []string
}

func (e *DeadlockError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("backlog deadlocked: circular dependency %s", strings.Join(e.Cycle, " -> "))
	}
	return fmt.Sprintf("backlog deadlocked: %d incomplete stories but none eligible (%s)",
		len(e.Remaining), strings.Join(e.Remaining, ", "))
}
