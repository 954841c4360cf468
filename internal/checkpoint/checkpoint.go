// Package checkpoint persists the single-slot resume state under
// .grind/checkpoint.yaml.
package checkpoint

import (
	"fmt"
	"os"
	"time"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/grindloop/grind/internal/model"
	"github.com/grindloop/grind/internal/yamlfile"
)

type Manager struct {
	stateDir string
	path     string
}

func NewManager(stateDir, path string) *Manager {
	return &Manager{stateDir: stateDir, path: path}
}

// Save overwrites the slot atomically. There is never more than one
// checkpoint per working directory.
func (m *Manager) Save(cp *model.Checkpoint) error {
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid checkpoint: %w", err)
	}
	cp.SavedAt = time.Now().UTC().Format(time.RFC3339)
	return yamlfile.AtomicWrite(m.path, cp)
}

// Load returns the checkpoint, or nil when none exists. A corrupt
// checkpoint is quarantined for inspection and reported as (nil,
// quarantinedPath, nil): startup continues fresh rather than aborting.
func (m *Manager) Load() (*model.Checkpoint, string, error) {
	content, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("read checkpoint: %w", err)
	}

	var cp model.Checkpoint
	if err := yamlv3.Unmarshal(content, &cp); err != nil {
		return m.quarantine()
	}
	if err := cp.Validate(); err != nil {
		return m.quarantine()
	}
	return &cp, "", nil
}

func (m *Manager) quarantine() (*model.Checkpoint, string, error) {
	qPath, qErr := yamlfile.Quarantine(m.stateDir, m.path)
	if qErr != nil {
		return nil, "", fmt.Errorf("quarantine corrupt checkpoint: %w", qErr)
	}
	return nil, qPath, nil
}

// Clear removes the slot. Called when a run finishes a task cleanly or
// completes the backlog.
func (m *Manager) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	os.Remove(m.path + ".bak")
	return nil
}
