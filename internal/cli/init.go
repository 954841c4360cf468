package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var initDir string

const backlogTemplate = `schema_version: 1
project: my-project
generation: gen-1
description: |
  One paragraph describing what this project should become.
stories:
  - id: US-001
    title: Set up the project skeleton
    description: Create the build configuration and a hello-world entry point.
    priority: 1
    category: backend
    passes: false
  - id: US-002
    title: First user-facing feature
    description: Describe the feature in enough detail for an agent to build it.
    priority: 2
    category: backend
    depends_on: [US-001]
    passes: false
    criteria:
      - id: C1
        description: The happy path works end to end.
        status: pending
      - id: C2
        description: Errors are reported, not swallowed.
        status: pending
        blocked_by: [C1]
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a template backlog.yaml",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initDir, "dir", ".", "directory to initialize")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	workDir, err := resolveDir(initDir)
	if err != nil {
		return err
	}

	path := filepath.Join(workDir, "backlog.yaml")
	if _, err := os.Stat(path); err == nil {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("%s exists, overwrite", path),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted, existing backlog kept")
			return nil
		}
	}

	if err := os.WriteFile(path, []byte(backlogTemplate), 0644); err != nil {
		return fmt.Errorf("write backlog template: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "edit the stories, then start the loop with: grind run")
	return nil
}
