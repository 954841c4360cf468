// Package cli wires the grind commands: run, stop, init, status, version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "grind",
	Short: "Autonomous backlog-driven iteration loop",
	Long: `Grind runs a coding agent in a loop against a backlog of user
stories. Each iteration dispatches one task to the agent, verifies
progress against backlog.yaml, and applies failure policies: a per-task
circuit breaker, connection-error backoff, and stagnation detection
with operator guidance.`,
	SilenceUsage: true,
}

// exitCode carries the run loop's exit code (0 complete, 1 error,
// 2 stopped) out to main.
var exitCode int

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if exitCode == 0 {
			return 1
		}
	}
	return exitCode
}
