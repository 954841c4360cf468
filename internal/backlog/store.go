// Package backlog loads, interprets, and persists the backlog file:
// task selection, dependency resolution, and outcome reconciliation.
package backlog

import (
	"fmt"
	"os"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/grindloop/grind/internal/model"
	"github.com/grindloop/grind/internal/yamlfile"
)

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads and validates the backlog. A missing file is an error.
// Malformed content is retried once from the .bak the atomic writer
// leaves behind; if the backup cannot serve either, the original
// failure comes back as *ParseError.
func (s *Store) Load() (*model.Backlog, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read backlog: %w", err)
	}

	b, err := decode(content)
	if err != nil {
		cause := &ParseError{Path: s.path, Err: err}
		if restoreErr := yamlfile.RestoreFromBackup(s.path); restoreErr != nil {
			return nil, cause
		}
		restored, readErr := os.ReadFile(s.path)
		if readErr != nil {
			return nil, cause
		}
		if b, err = decode(restored); err != nil {
			return nil, cause
		}
	}
	return b, nil
}

func decode(content []byte) (*model.Backlog, error) {
	var b model.Backlog
	if err := yamlv3.Unmarshal(content, &b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	// passes is derived state; a hand-edited backlog may complete every
	// criterion without flipping it
	for i := range b.Stories {
		s := &b.Stories[i]
		if !s.Passes && len(s.Criteria) > 0 && s.CriteriaComplete() {
			s.Passes = true
		}
	}
	return &b, nil
}

// Save writes the backlog with atomic replace so a crash mid-write
// never leaves a truncated file.
func (s *Store) Save(b *model.Backlog) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid backlog: %w", err)
	}
	return yamlfile.AtomicWrite(s.path, b)
}
