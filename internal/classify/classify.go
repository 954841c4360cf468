// Package classify turns raw worker output into an iteration verdict.
// It never interprets the output semantically; it only looks for the
// completion marker, known transient infrastructure errors, and the
// exit code paired with whether the backlog actually changed.
package classify

import (
	"regexp"
	"strings"

	"github.com/grindloop/grind/internal/model"
)

// Verdict is the classifier's reading of one iteration.
type Verdict struct {
	Outcome model.Outcome
	Detail  string

	// CompletionClaimed is set when the output carries the completion
	// marker, regardless of the final outcome. The engine corroborates
	// the claim against the backlog before trusting it.
	CompletionClaimed bool
}

type connectionPattern struct {
	regex  *regexp.Regexp
	detail string
}

// Transient infrastructure patterns, checked in order. A match means
// the iteration says nothing about the task itself.
var connectionPatterns = []connectionPattern{
	{regexp.MustCompile(`(?i)connection\s*(refused|reset|timed?\s*out)`), "connection error"},
	{regexp.MustCompile(`(?i)\bECONN(REFUSED|RESET|ABORTED)\b`), "connection error"},
	{regexp.MustCompile(`(?i)\bETIMEDOUT\b`), "connection timeout"},
	{regexp.MustCompile(`(?i)network\s*(error|failure)`), "network error"},
	{regexp.MustCompile(`(?i)service\s*unavailable`), "service unavailable"},
	{regexp.MustCompile(`(?i)\b503\b`), "HTTP 503"},
	{regexp.MustCompile(`(?i)\b429\b`), "HTTP 429"},
	{regexp.MustCompile(`(?i)rate[\s\-]?limit`), "rate limited"},
	{regexp.MustCompile(`(?i)too\s+many\s+requests`), "rate limited"},
	{regexp.MustCompile(`(?i)overloaded`), "upstream overloaded"},
	{regexp.MustCompile(`(?i)stream\s+error`), "stream error"},
	{regexp.MustCompile(`(?i)\b5[0-9]{2}\b.*(error|status)`), "HTTP 5xx"},
}

// Classify inspects one iteration's output. backlogUpdated reports
// whether the on-disk backlog changed during the iteration.
func Classify(output string, exitCode int, backlogUpdated bool) Verdict {
	claimed := strings.Contains(output, model.CompletionMarker)

	if p := matchConnection(output); p != nil {
		return Verdict{
			Outcome:           model.OutcomeConnectionError,
			Detail:            p.detail,
			CompletionClaimed: claimed,
		}
	}

	if exitCode != 0 {
		return Verdict{
			Outcome:           model.OutcomeFailure,
			Detail:            lastLine(output),
			CompletionClaimed: claimed,
		}
	}

	if claimed {
		return Verdict{Outcome: model.OutcomeCompleted, CompletionClaimed: true}
	}

	if backlogUpdated {
		return Verdict{Outcome: model.OutcomeSuccess}
	}
	return Verdict{Outcome: model.OutcomeFailure, Detail: "no backlog progress"}
}

func matchConnection(output string) *connectionPattern {
	for i := range connectionPatterns {
		if connectionPatterns[i].regex.MatchString(output) {
			return &connectionPatterns[i]
		}
	}
	return nil
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			if len(l) > 200 {
				l = l[:200]
			}
			return l
		}
	}
	return ""
}

var volatileDigits = regexp.MustCompile(`[0-9]+`)
var runsOfSpace = regexp.MustCompile(`\s+`)

// Signature normalizes a verdict for stagnation comparison: two
// iterations that failed the same way produce the same signature even
// when timestamps or counters in the detail differ.
func Signature(taskID string, v Verdict) string {
	detail := strings.ToLower(strings.TrimSpace(v.Detail))
	detail = volatileDigits.ReplaceAllString(detail, "#")
	detail = runsOfSpace.ReplaceAllString(detail, " ")
	return taskID + "|" + string(v.Outcome) + "|" + detail
}
