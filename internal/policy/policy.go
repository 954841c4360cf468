// Package policy implements the between-iteration failure policies: the
// per-task attempt circuit breaker, connection-error backoff, and
// stagnation detection.
package policy

import (
	"time"

	"github.com/grindloop/grind/internal/model"
)

// AttemptTracker counts consecutive selections of the same task. The
// count increments each time the same task is selected back to back and
// resets to 1 when selection moves to a different task, so A-B-A counts
// as one attempt on each selection of A.
type AttemptTracker struct {
	maxAttempts int
	taskID      string
	attempts    int
}

func NewAttemptTracker(maxAttempts int) *AttemptTracker {
	return &AttemptTracker{maxAttempts: maxAttempts}
}

// Observe records that taskID was selected and returns the attempt
// count this selection represents.
func (t *AttemptTracker) Observe(taskID string) int {
	if taskID == t.taskID {
		t.attempts++
	} else {
		t.taskID = taskID
		t.attempts = 1
	}
	return t.attempts
}

// Seed restores the counter from a checkpoint so a restart does not
// reset the circuit breaker.
func (t *AttemptTracker) Seed(taskID string, attempts int) {
	t.taskID = taskID
	t.attempts = attempts
}

func (t *AttemptTracker) Attempts() int { return t.attempts }

// Exhausted reports whether the current task has hit the breaker limit.
func (t *AttemptTracker) Exhausted() bool {
	return t.attempts >= t.maxAttempts
}

func (t *AttemptTracker) Max() int { return t.maxAttempts }

// Backoff tracks consecutive connection errors. Delay grows linearly
// with the consecutive count; at maxConsecutive the run aborts as an
// infrastructure failure.
type Backoff struct {
	baseDelay      time.Duration
	maxConsecutive int
	consecutive    int
}

func NewBackoff(baseDelay time.Duration, maxConsecutive int) *Backoff {
	return &Backoff{baseDelay: baseDelay, maxConsecutive: maxConsecutive}
}

// OnConnectionError records one more consecutive connection error and
// returns the delay to sleep before the next try. aborted is true when
// the cap is reached and the run must stop.
func (b *Backoff) OnConnectionError() (delay time.Duration, aborted bool) {
	b.consecutive++
	if b.consecutive >= b.maxConsecutive {
		return 0, true
	}
	return b.baseDelay * time.Duration(b.consecutive), false
}

// Reset clears the consecutive counter after any non-connection outcome.
func (b *Backoff) Reset() { b.consecutive = 0 }

func (b *Backoff) Consecutive() int { return b.consecutive }

// StagnationDetector keeps the recent outcome signatures for the task
// currently being worked. threshold identical consecutive signatures
// mean the loop is grinding without progress and the operator should be
// consulted.
type StagnationDetector struct {
	window    int
	threshold int
	taskID    string
	sigs      []string
}

func NewStagnationDetector(window, threshold int) *StagnationDetector {
	if window < threshold {
		window = threshold
	}
	return &StagnationDetector{window: window, threshold: threshold}
}

// Observe records the signature of a failed iteration and reports
// whether the task has stagnated. Switching tasks clears the history.
func (d *StagnationDetector) Observe(taskID, signature string) bool {
	if taskID != d.taskID {
		d.taskID = taskID
		d.sigs = d.sigs[:0]
	}
	d.sigs = append(d.sigs, signature)
	if len(d.sigs) > d.window {
		d.sigs = d.sigs[len(d.sigs)-d.window:]
	}
	if len(d.sigs) < d.threshold {
		return false
	}
	last := d.sigs[len(d.sigs)-1]
	for i := len(d.sigs) - d.threshold; i < len(d.sigs); i++ {
		if d.sigs[i] != last {
			return false
		}
	}
	return true
}

// Reset drops the history for the current task. Called after guidance
// is injected so the same signature must repeat again before the next
// prompt.
func (d *StagnationDetector) Reset() {
	d.sigs = d.sigs[:0]
}

// Engine bundles the three policies with their configured limits.
type Engine struct {
	Attempts   *AttemptTracker
	Backoff    *Backoff
	Stagnation *StagnationDetector
}

func NewEngine(cfg model.Config) *Engine {
	return &Engine{
		Attempts:   NewAttemptTracker(cfg.Run.MaxAttemptsPerTask),
		Backoff:    NewBackoff(time.Duration(cfg.Backoff.BaseDelaySec)*time.Second, cfg.Backoff.MaxConsecutive),
		Stagnation: NewStagnationDetector(cfg.Stagnation.Window, cfg.Stagnation.Threshold),
	}
}
