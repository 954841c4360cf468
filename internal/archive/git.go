package archive

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git wraps the handful of git operations the generation switch needs.
// Every method degrades gracefully when the working directory is not a
// repository.
type Git struct {
	workDir string
}

func NewGit(workDir string) *Git {
	return &Git{workDir: workDir}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workDir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

// IsRepository reports whether workDir sits inside a git work tree.
func (g *Git) IsRepository(ctx context.Context) bool {
	out, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// CurrentBranch returns the checked-out branch name, empty when
// detached or not a repository.
func (g *Git) CurrentBranch(ctx context.Context) string {
	out, err := g.run(ctx, "branch", "--show-current")
	if err != nil {
		return ""
	}
	return out
}

// HasUncommittedChanges reports whether the work tree is dirty.
func (g *Git) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return out != "", nil
}

// SwitchToBranch checks out the named branch, creating it from the
// current head when it does not exist yet. Uncommitted edits are
// stashed before the switch; the caller restores them with
// RestoreStash afterwards.
func (g *Git) SwitchToBranch(ctx context.Context, branch string) (stashed bool, err error) {
	if g.CurrentBranch(ctx) == branch {
		return false, nil
	}

	dirty, err := g.HasUncommittedChanges(ctx)
	if err != nil {
		return false, err
	}
	if dirty {
		if out, err := g.run(ctx, "stash", "push", "-u", "-m", "grind: generation switch"); err != nil {
			return false, fmt.Errorf("git stash: %s: %w", out, err)
		}
		stashed = true
	}

	if _, err := g.run(ctx, "rev-parse", "--verify", "refs/heads/"+branch); err == nil {
		if out, err := g.run(ctx, "checkout", branch); err != nil {
			return stashed, fmt.Errorf("git checkout %s: %s: %w", branch, out, err)
		}
		return stashed, nil
	}
	if out, err := g.run(ctx, "checkout", "-b", branch); err != nil {
		return stashed, fmt.Errorf("git checkout -b %s: %s: %w", branch, out, err)
	}
	return stashed, nil
}

// RestoreStash pops the stash created by SwitchToBranch. A pop
// conflict comes back as an error for the operator to resolve; the
// stash entry is kept so nothing is lost.
func (g *Git) RestoreStash(ctx context.Context) error {
	if out, err := g.run(ctx, "stash", "pop"); err != nil {
		return fmt.Errorf("git stash pop conflict, resolve manually (stash preserved): %s: %w", out, err)
	}
	return nil
}
