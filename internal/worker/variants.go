package worker

import (
	"context"

	"github.com/grindloop/grind/internal/model"
)

type claudeWorker struct {
	cfg         model.WorkerConfig
	outputLimit int
}

func newClaude(cfg model.WorkerConfig, outputLimit int) *claudeWorker {
	return &claudeWorker{cfg: cfg, outputLimit: outputLimit}
}

func (w *claudeWorker) Name() string { return "claude" }

// claude reads the prompt on stdin and prints the final response.
func (w *claudeWorker) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	argv := []string{command(w.cfg, "claude")}
	if w.cfg.Model != "" {
		argv = append(argv, "--model", w.cfg.Model)
	}
	argv = append(argv, "--dangerously-skip-permissions", "--print")
	argv = append(argv, w.cfg.ExtraArgs...)
	return run(ctx, argv, inv.WorkDir, inv.Prompt, w.outputLimit)
}

type ampWorker struct {
	cfg         model.WorkerConfig
	outputLimit int
}

func newAmp(cfg model.WorkerConfig, outputLimit int) *ampWorker {
	return &ampWorker{cfg: cfg, outputLimit: outputLimit}
}

func (w *ampWorker) Name() string { return "amp" }

func (w *ampWorker) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	argv := []string{command(w.cfg, "amp"), "--dangerously-allow-all"}
	argv = append(argv, w.cfg.ExtraArgs...)
	return run(ctx, argv, inv.WorkDir, inv.Prompt, w.outputLimit)
}

type codexWorker struct {
	cfg         model.WorkerConfig
	outputLimit int
}

func newCodex(cfg model.WorkerConfig, outputLimit int) *codexWorker {
	return &codexWorker{cfg: cfg, outputLimit: outputLimit}
}

func (w *codexWorker) Name() string { return "codex" }

// codex takes the prompt as an argument to `exec`; stdin stays closed.
func (w *codexWorker) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	argv := []string{command(w.cfg, "codex"), "exec"}
	if w.cfg.Model != "" {
		argv = append(argv, "-m", w.cfg.Model)
	}
	argv = append(argv,
		"--sandbox", "workspace-write",
		"--dangerously-bypass-approvals-and-sandbox",
		"--cd", inv.WorkDir,
	)
	argv = append(argv, w.cfg.ExtraArgs...)
	argv = append(argv, inv.Prompt)
	return run(ctx, argv, inv.WorkDir, "", w.outputLimit)
}

// command honors an explicit binary path from config, falling back to
// the tool's default name.
func command(cfg model.WorkerConfig, fallback string) string {
	if cfg.Command != "" {
		return cfg.Command
	}
	return fallback
}
