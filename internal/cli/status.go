package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/grindloop/grind/internal/backlog"
	"github.com/grindloop/grind/internal/journal"
	"github.com/grindloop/grind/internal/model"
)

var statusFlags struct {
	dir  string
	last int
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backlog completion and recent iterations",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFlags.dir, "dir", ".", "working directory containing backlog.yaml")
	statusCmd.Flags().IntVar(&statusFlags.last, "last", 5, "number of recent iterations to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	workDir, err := resolveDir(statusFlags.dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	store := backlog.NewStore(filepath.Join(workDir, "backlog.yaml"))
	b, err := store.Load()
	if err != nil {
		return err
	}

	sum := backlog.Summarize(b)
	fmt.Fprintf(out, "project:    %s\n", b.Project)
	fmt.Fprintf(out, "generation: %s\n", b.Generation)
	fmt.Fprintf(out, "stories:    %d complete, %d skipped, %d pending (of %d)\n",
		sum.Complete, sum.Skipped, sum.Pending, sum.Total)

	for i := range b.Stories {
		s := &b.Stories[i]
		state := "pending"
		switch {
		case s.Passes:
			state = "complete"
		case s.Skipped():
			state = "skipped"
		}
		fmt.Fprintf(out, "  [%-8s] %s: %s", state, s.ID, s.Title)
		if s.Attempts > 0 {
			fmt.Fprintf(out, " (attempts: %d)", s.Attempts)
		}
		fmt.Fprintln(out)
	}

	recs, err := journal.Tail(filepath.Join(workDir, ".grind", "logs", "journal.jsonl"), statusFlags.last)
	if err != nil {
		return err
	}
	if len(recs) > 0 {
		last := recs[len(recs)-1]
		if model.ValidateID(last.RunID) {
			if started, err := model.ParseIDTimestamp(last.RunID); err == nil {
				fmt.Fprintf(out, "\nlast run:   %s (started %s)\n", last.RunID, started.UTC().Format(time.RFC3339))
			}
		}
		fmt.Fprintf(out, "\nlast %d iterations:\n", len(recs))
		for _, r := range recs {
			fmt.Fprintf(out, "  #%d %s %s", r.Index, r.TaskID, r.Outcome)
			if r.Detail != "" {
				fmt.Fprintf(out, " (%s)", r.Detail)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
