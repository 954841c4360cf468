// Package gates runs the configured quality gate commands after a
// successful iteration. Gates are opaque shell commands; grind only
// looks at their exit codes.
package gates

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/grindloop/grind/internal/model"
)

// Result is the outcome of one gate command.
type Result struct {
	Name     string
	Passed   bool
	Duration time.Duration
	Output   string
}

type Runner struct {
	cfg     model.GatesConfig
	workDir string
}

func NewRunner(cfg model.GatesConfig, workDir string) *Runner {
	return &Runner{cfg: cfg, workDir: workDir}
}

// Enabled reports whether any gates are configured to run.
func (r *Runner) Enabled() bool {
	return r.cfg.Enabled && len(r.cfg.Gates) > 0
}

// Run executes the gates in order and stops at the first failure. The
// failed gate's name feeds the iteration's failure signature, so two
// iterations tripping the same gate stagnate together.
func (r *Runner) Run(ctx context.Context) ([]Result, *Result) {
	var results []Result
	for _, gate := range r.cfg.Gates {
		res := r.runOne(ctx, gate)
		results = append(results, res)
		if !res.Passed {
			failed := res
			return results, &failed
		}
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, gate model.GateCommand) Result {
	timeout := time.Duration(r.cfg.TimeoutSec) * time.Second
	gateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(gateCtx, "sh", "-c", gate.Command)
	cmd.Dir = r.workDir
	out, err := cmd.CombinedOutput()

	res := Result{
		Name:     gate.Name,
		Passed:   err == nil,
		Duration: time.Since(start),
		Output:   tail(string(out), 2000),
	}
	if gateCtx.Err() == context.DeadlineExceeded {
		res.Passed = false
		res.Output = fmt.Sprintf("gate timed out after %s", timeout)
	}
	return res
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
