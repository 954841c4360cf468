// Package model defines the data structures for grind's backlog, configuration,
// checkpoint, and iteration records.
package model

import "fmt"

const BacklogSchemaVersion = 1

// CompletionMarker is the literal a worker emits when it believes every
// story is done. It is never trusted on its own; the backlog is the
// source of truth (see backlog.AllComplete).
const CompletionMarker = "<promise>COMPLETE</promise>"

type Backlog struct {
	SchemaVersion int     `yaml:"schema_version"`
	Project       string  `yaml:"project"`
	Generation    string  `yaml:"generation"`
	Description   string  `yaml:"description,omitempty"`
	Stories       []Story `yaml:"stories"`
}

type Story struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description,omitempty"`
	Priority    int         `yaml:"priority"`
	Category    string      `yaml:"category,omitempty"`
	DependsOn   []string    `yaml:"depends_on,omitempty"`
	Criteria    []Criterion `yaml:"criteria,omitempty"`
	Passes      bool        `yaml:"passes"`
	Attempts    int         `yaml:"attempts,omitempty"`
	Notes       string      `yaml:"notes,omitempty"`
}

type Criterion struct {
	ID          string          `yaml:"id"`
	Description string          `yaml:"description"`
	Status      CriterionStatus `yaml:"status"`
	BlockedBy   []string        `yaml:"blocked_by,omitempty"`
}

// Skipped reports whether the story was taken out of rotation, either by
// the circuit breaker or by an operator during a guidance prompt.
func (s *Story) Skipped() bool {
	return len(s.Notes) >= len(skipNotePrefix) && s.Notes[:len(skipNotePrefix)] == skipNotePrefix
}

const skipNotePrefix = "skipped:"

// SkipNote builds the breaker's note for a story that exceeded the
// attempt limit.
func SkipNote(attempts int) string {
	return fmt.Sprintf("skipped: exceeded %d attempts", attempts)
}

// SkipNoteOperator builds the note for an operator-initiated skip.
func SkipNoteOperator() string {
	return "skipped: by operator during guidance"
}

// CriteriaComplete reports whether every criterion of the story is
// completed. Stories without criteria report false; their completion is
// the passes flag alone.
func (s *Story) CriteriaComplete() bool {
	if len(s.Criteria) == 0 {
		return false
	}
	for i := range s.Criteria {
		if s.Criteria[i].Status != CriterionCompleted {
			return false
		}
	}
	return true
}

// Validate checks structural integrity: schema version, unique story and
// criterion IDs, and dependency references that resolve.
func (b *Backlog) Validate() error {
	if b.SchemaVersion != BacklogSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (want %d)", b.SchemaVersion, BacklogSchemaVersion)
	}
	if b.Generation == "" {
		return fmt.Errorf("backlog generation is empty")
	}
	ids := make(map[string]bool, len(b.Stories))
	for i := range b.Stories {
		s := &b.Stories[i]
		if s.ID == "" {
			return fmt.Errorf("story at index %d has empty id", i)
		}
		if ids[s.ID] {
			return fmt.Errorf("duplicate story id %q", s.ID)
		}
		ids[s.ID] = true
	}
	for i := range b.Stories {
		s := &b.Stories[i]
		for _, dep := range s.DependsOn {
			if !ids[dep] {
				return fmt.Errorf("story %q depends on unknown story %q", s.ID, dep)
			}
			if dep == s.ID {
				return fmt.Errorf("story %q depends on itself", s.ID)
			}
		}
		cids := make(map[string]bool, len(s.Criteria))
		for j := range s.Criteria {
			c := &s.Criteria[j]
			if c.ID == "" {
				return fmt.Errorf("story %q criterion at index %d has empty id", s.ID, j)
			}
			if cids[c.ID] {
				return fmt.Errorf("story %q has duplicate criterion id %q", s.ID, c.ID)
			}
			cids[c.ID] = true
		}
		for j := range s.Criteria {
			c := &s.Criteria[j]
			for _, dep := range c.BlockedBy {
				if !cids[dep] {
					return fmt.Errorf("story %q criterion %q blocked by unknown criterion %q", s.ID, c.ID, dep)
				}
			}
		}
	}
	return nil
}

// FindStory returns a pointer into the backlog's story slice, or nil.
func (b *Backlog) FindStory(id string) *Story {
	for i := range b.Stories {
		if b.Stories[i].ID == id {
			return &b.Stories[i]
		}
	}
	return nil
}
