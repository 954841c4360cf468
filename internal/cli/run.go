package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grindloop/grind/internal/loop"
)

var runFlags struct {
	dir           string
	workerName    string
	maxIterations int
	timeoutSec    int
	resume        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the iteration loop until the backlog completes",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.dir, "dir", ".", "working directory containing backlog.yaml")
	runCmd.Flags().StringVar(&runFlags.workerName, "worker", "", "worker tool (claude, amp, codex); auto-detected when empty")
	runCmd.Flags().IntVar(&runFlags.maxIterations, "max-iterations", 0, "iteration budget for this run (overrides config)")
	runCmd.Flags().IntVar(&runFlags.timeoutSec, "timeout", 0, "per-iteration timeout in seconds (overrides config)")
	runCmd.Flags().BoolVar(&runFlags.resume, "resume", true, "resume from a saved checkpoint when one exists")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	workDir, err := resolveDir(runFlags.dir)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(workDir)
	if err != nil {
		return err
	}
	if runFlags.workerName != "" {
		cfg.Worker.Name = runFlags.workerName
	}
	if runFlags.maxIterations > 0 {
		cfg.Run.MaxIterations = runFlags.maxIterations
	}
	if runFlags.timeoutSec > 0 {
		cfg.Run.TimeoutSec = runFlags.timeoutSec
	}

	engine, err := loop.NewEngine(workDir, cfg, runFlags.resume)
	if err != nil {
		return err
	}
	defer engine.Close()

	// SIGINT/SIGTERM cancel the worker; the engine checkpoints on the
	// way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := engine.Run(ctx)
	exitCode = code
	return err
}
