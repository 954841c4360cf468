// Package worker spawns the coding tool subprocess for one iteration
// and captures its output. grind treats the tool as opaque: a prompt
// goes in, text and an exit code come out.
package worker

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/grindloop/grind/internal/model"
)

// Invocation is one iteration's input to the tool.
type Invocation struct {
	Prompt  string
	WorkDir string
}

// Result carries the captured subprocess outcome. TimedOut and
// Truncated are set by the shared runner; the engine maps them to
// iteration outcomes.
type Result struct {
	Output    string
	ExitCode  int
	TimedOut  bool
	Truncated bool
}

// Worker runs one tool invocation to completion or timeout.
type Worker interface {
	Name() string
	Invoke(ctx context.Context, inv Invocation) (Result, error)
}

// New returns the worker for a configured tool name.
func New(cfg model.WorkerConfig, outputLimit int) (Worker, error) {
	switch cfg.Name {
	case "claude":
		return newClaude(cfg, outputLimit), nil
	case "amp":
		return newAmp(cfg, outputLimit), nil
	case "codex":
		return newCodex(cfg, outputLimit), nil
	default:
		return nil, fmt.Errorf("unknown worker %q (want claude, amp, or codex)", cfg.Name)
	}
}

// Detect returns the first supported tool found on PATH.
func Detect() (string, error) {
	for _, name := range []string{"claude", "amp", "codex"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no supported worker on PATH (looked for claude, amp, codex)")
}
