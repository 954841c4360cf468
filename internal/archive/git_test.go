package archive

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *Git {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	g := NewGit(dir)
	ctx := context.Background()
	mustRun := func(args ...string) {
		t.Helper()
		if out, err := g.run(ctx, args...); err != nil {
			t.Fatalf("git %v failed: %s: %v", args, out, err)
		}
	}
	mustRun("init", "-b", "main")
	mustRun("config", "user.email", "test@example.com")
	mustRun("config", "user.name", "test")
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("seed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mustRun("add", ".")
	mustRun("commit", "-m", "seed")
	return g
}

func TestIsRepositoryOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	g := NewGit(t.TempDir())
	if g.IsRepository(context.Background()) {
		t.Error("empty temp dir reported as a repository")
	}
}

func TestCurrentBranch(t *testing.T) {
	g := newTestRepo(t)
	if got := g.CurrentBranch(context.Background()); got != "main" {
		t.Errorf("expected main, got %q", got)
	}
}

func TestSwitchToBranchCreatesAndReuses(t *testing.T) {
	g := newTestRepo(t)
	ctx := context.Background()

	stashed, err := g.SwitchToBranch(ctx, "gen-2")
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if stashed {
		t.Error("clean tree should not stash")
	}
	if got := g.CurrentBranch(ctx); got != "gen-2" {
		t.Errorf("expected gen-2, got %q", got)
	}

	// Switching back and forth reuses the existing branch.
	if _, err := g.SwitchToBranch(ctx, "main"); err != nil {
		t.Fatalf("switch back failed: %v", err)
	}
	if _, err := g.SwitchToBranch(ctx, "gen-2"); err != nil {
		t.Fatalf("reused switch failed: %v", err)
	}
	if got := g.CurrentBranch(ctx); got != "gen-2" {
		t.Errorf("expected gen-2 after reuse, got %q", got)
	}
}

func TestSwitchToBranchStashesDirtyTree(t *testing.T) {
	g := newTestRepo(t)
	ctx := context.Background()
	if err := os.WriteFile(filepath.Join(g.workDir, "README"), []byte("edited\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stashed, err := g.SwitchToBranch(ctx, "gen-2")
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if !stashed {
		t.Fatal("dirty tree should have been stashed")
	}
	if err := g.RestoreStash(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(g.workDir, "README"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "edited\n" {
		t.Errorf("edit lost after stash restore: %q", content)
	}
}

func TestSwitchToSameBranchIsNoop(t *testing.T) {
	g := newTestRepo(t)
	stashed, err := g.SwitchToBranch(context.Background(), "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stashed {
		t.Error("no-op switch should not stash")
	}
}
