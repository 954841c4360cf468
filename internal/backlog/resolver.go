package backlog

import (
	"sort"
	"strings"

	"github.com/grindloop/grind/internal/model"
)

// Task is one unit of dispatchable work: a whole story, or a single
// criterion of a story that tracks acceptance criteria.
type Task struct {
	Story     *model.Story
	Criterion *model.Criterion
}

// ID is the stable identity used by the attempt tracker, checkpoint,
// and journal.
func (t Task) ID() string {
	if t.Criterion != nil {
		return t.Story.ID + "/" + t.Criterion.ID
	}
	return t.Story.ID
}

// Category groups used to infer execution order when a story declares
// no explicit dependencies: schema work before backend work, backend
// work before UI work.
var (
	schemaCategories = map[string]bool{"schema": true, "migration": true, "db": true, "database": true}
	apiCategories    = map[string]bool{"api": true, "backend": true, "server": true, "service": true}
	uiCategories     = map[string]bool{"ui": true, "frontend": true, "web": true}
)

// EffectiveDeps returns the stories s must wait on. An explicit
// depends_on list always wins; otherwise dependencies are inferred
// from categories.
func EffectiveDeps(b *model.Backlog, s *model.Story) []string {
	if len(s.DependsOn) > 0 {
		return s.DependsOn
	}

	cat := strings.ToLower(s.Category)
	var wantSchema, wantAPI bool
	switch {
	case apiCategories[cat]:
		wantSchema = true
	case uiCategories[cat]:
		wantSchema = true
		wantAPI = true
	default:
		return nil
	}

	var deps []string
	for i := range b.Stories {
		o := &b.Stories[i]
		if o.ID == s.ID {
			continue
		}
		ocat := strings.ToLower(o.Category)
		if (wantSchema && schemaCategories[ocat]) || (wantAPI && apiCategories[ocat]) {
			deps = append(deps, o.ID)
		}
	}
	return deps
}

// NextReady selects the next dispatchable task: the lowest-priority
// number among incomplete, unskipped stories whose dependencies all
// pass, ties broken by declared order. Returns (nil, nil) when no
// unskipped work remains, and *DeadlockError when incomplete work
// exists but nothing is eligible.
func NextReady(b *model.Backlog) (*Task, error) {
	// An externally edited backlog can complete every criterion without
	// flipping passes; promote those stories before selection so their
	// dependents see them as done.
	for i := range b.Stories {
		s := &b.Stories[i]
		if !s.Passes && len(s.Criteria) > 0 && s.CriteriaComplete() {
			s.Passes = true
		}
	}

	var remaining []string
	var best *model.Story

	for i := range b.Stories {
		s := &b.Stories[i]
		if s.Passes || s.Skipped() {
			continue
		}
		remaining = append(remaining, s.ID)

		if !depsSatisfied(b, s) {
			continue
		}
		if len(s.Criteria) > 0 && nextCriterion(s) == nil {
			// all remaining criteria blocked on each other
			continue
		}
		if best == nil || s.Priority < best.Priority {
			best = s
		}
	}

	if best != nil {
		t := &Task{Story: best}
		if len(best.Criteria) > 0 {
			t.Criterion = nextCriterion(best)
		}
		return t, nil
	}

	if len(remaining) == 0 {
		return nil, nil
	}

	edges := make(map[string][]string, len(b.Stories))
	names := make([]string, 0, len(b.Stories))
	for i := range b.Stories {
		s := &b.Stories[i]
		names = append(names, s.ID)
		edges[s.ID] = EffectiveDeps(b, s)
	}
	_, cycle := validateDAG(names, edges)
	return nil, &DeadlockError{Remaining: remaining, Cycle: cycle}
}

func depsSatisfied(b *model.Backlog, s *model.Story) bool {
	for _, dep := range EffectiveDeps(b, s) {
		d := b.FindStory(dep)
		if d == nil || !d.Passes {
			return false
		}
	}
	return true
}

// nextCriterion picks the lowest-ID incomplete criterion whose
// blocked_by list is fully completed.
func nextCriterion(s *model.Story) *model.Criterion {
	byID := make(map[string]*model.Criterion, len(s.Criteria))
	for i := range s.Criteria {
		byID[s.Criteria[i].ID] = &s.Criteria[i]
	}

	ids := make([]string, 0, len(s.Criteria))
	for i := range s.Criteria {
		ids = append(ids, s.Criteria[i].ID)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := byID[id]
		if c.Status == model.CriterionCompleted {
			continue
		}
		ready := true
		for _, dep := range c.BlockedBy {
			if d, ok := byID[dep]; !ok || d.Status != model.CriterionCompleted {
				ready = false
				break
			}
		}
		if ready {
			return c
		}
	}
	return nil
}

// AllComplete reports whether every story passes. This is the only
// ground truth for run completion; a worker's completion marker is
// checked against it.
func AllComplete(b *model.Backlog) bool {
	for i := range b.Stories {
		if !b.Stories[i].Passes {
			return false
		}
	}
	return true
}

// Summary counts stories by state for status output and the terminal
// run summary.
type Summary struct {
	Total    int
	Complete int
	Skipped  int
	Pending  int
}

func Summarize(b *model.Backlog) Summary {
	var sum Summary
	sum.Total = len(b.Stories)
	for i := range b.Stories {
		s := &b.Stories[i]
		switch {
		case s.Passes:
			sum.Complete++
		case s.Skipped():
			sum.Skipped++
		default:
			sum.Pending++
		}
	}
	return sum
}
