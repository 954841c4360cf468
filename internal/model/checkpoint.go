package model

import "fmt"

// Checkpoint is the single-slot resume state written when a run stops
// with work remaining. At most one exists per working directory.
type Checkpoint struct {
	TaskID         string      `yaml:"task_id"`
	IterationsUsed int         `yaml:"iterations_used"`
	MaxIterations  int         `yaml:"max_iterations"`
	Attempts       int         `yaml:"attempts"`
	Reason         PauseReason `yaml:"reason"`
	SavedAt        string      `yaml:"saved_at"`
}

func (c *Checkpoint) Validate() error {
	if err := ValidatePauseReason(c.Reason); err != nil {
		return err
	}
	if c.IterationsUsed < 0 {
		return fmt.Errorf("negative iterations_used %d", c.IterationsUsed)
	}
	if c.Attempts < 0 {
		return fmt.Errorf("negative attempts %d", c.Attempts)
	}
	return nil
}
