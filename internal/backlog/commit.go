package backlog

import (
	"fmt"

	"github.com/grindloop/grind/internal/model"
)

// Progressed reports whether cur contains completion progress over
// prev: a story newly passing or a criterion newly completed. Edits to
// titles, notes, or attempts do not count.
func Progressed(prev, cur *model.Backlog) bool {
	for i := range cur.Stories {
		cs := &cur.Stories[i]
		ps := prev.FindStory(cs.ID)
		if ps == nil {
			continue
		}
		if cs.Passes && !ps.Passes {
			return true
		}
		for j := range cs.Criteria {
			cc := &cs.Criteria[j]
			pc := findCriterion(ps, cc.ID)
			if pc == nil {
				continue
			}
			if cc.Status == model.CriterionCompleted && pc.Status != model.CriterionCompleted {
				return true
			}
		}
	}
	return false
}

// Reconcile enforces monotonic completion after a worker edited the
// backlog: a passing story never regresses, a criterion only moves
// along a legal transition (completed is terminal), and a story whose
// criteria are all completed is marked passing. Returns descriptions
// of any edits it reverted.
func Reconcile(prev, cur *model.Backlog) []string {
	var violations []string
	for i := range cur.Stories {
		cs := &cur.Stories[i]
		ps := prev.FindStory(cs.ID)
		if ps == nil {
			continue
		}
		if ps.Passes && !cs.Passes {
			cs.Passes = true
			violations = append(violations, fmt.Sprintf("story %s: passes regressed, restored", cs.ID))
		}
		for j := range cs.Criteria {
			cc := &cs.Criteria[j]
			pc := findCriterion(ps, cc.ID)
			if pc == nil {
				continue
			}
			if err := model.ValidateCriterionTransition(pc.Status, cc.Status); err != nil {
				violations = append(violations, fmt.Sprintf("story %s criterion %s: %v, restored %q", cs.ID, cc.ID, err, pc.Status))
				cc.Status = pc.Status
			}
		}
		if len(cs.Criteria) > 0 && cs.CriteriaComplete() && !cs.Passes {
			cs.Passes = true
		}
	}
	return violations
}

// RecordAttempt persists the tracker's count on the story so a resumed
// run sees how much has already been tried.
func RecordAttempt(s *model.Story, attempts int) {
	if attempts > s.Attempts {
		s.Attempts = attempts
	}
}

// MarkSkipped takes a story out of rotation with the given note.
func MarkSkipped(s *model.Story, note string) {
	s.Notes = note
}

func findCriterion(s *model.Story, id string) *model.Criterion {
	for i := range s.Criteria {
		if s.Criteria[i].ID == id {
			return &s.Criteria[i]
		}
	}
	return nil
}
