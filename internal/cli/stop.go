package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var stopDir string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Request a graceful stop of the running loop",
	Long: `Creates the stop sentinel. The running loop honors it at its next
suspension point, saves a checkpoint, and exits with code 2.`,
	RunE: runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopDir, "dir", ".", "working directory of the run to stop")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	workDir, err := resolveDir(stopDir)
	if err != nil {
		return err
	}

	stateDir := filepath.Join(workDir, ".grind")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	sentinel := filepath.Join(stateDir, "stop")
	if err := os.WriteFile(sentinel, nil, 0644); err != nil {
		return fmt.Errorf("write stop sentinel: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "stop requested; the loop will halt at its next suspension point")
	return nil
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
