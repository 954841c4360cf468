package loop

import (
	"fmt"
	"strings"

	"github.com/grindloop/grind/internal/backlog"
	"github.com/grindloop/grind/internal/model"
)

// buildPrompt assembles one iteration's instructions for the worker:
// the task, its acceptance criteria, the accumulated patterns, and any
// one-shot operator guidance.
func buildPrompt(b *model.Backlog, task *backlog.Task, patterns, guidance string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are working on the project %q.\n", b.Project)
	if b.Description != "" {
		fmt.Fprintf(&sb, "%s\n", strings.TrimSpace(b.Description))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Work on exactly one task this session: %s\n", task.ID())
	fmt.Fprintf(&sb, "Title: %s\n", task.Story.Title)
	if task.Story.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", strings.TrimSpace(task.Story.Description))
	}

	if task.Criterion != nil {
		fmt.Fprintf(&sb, "\nFocus on acceptance criterion %s: %s\n",
			task.Criterion.ID, task.Criterion.Description)
	}
	if len(task.Story.Criteria) > 0 {
		sb.WriteString("\nAcceptance criteria:\n")
		for _, c := range task.Story.Criteria {
			fmt.Fprintf(&sb, "  [%s] %s: %s\n", c.Status, c.ID, c.Description)
		}
	}

	if guidance != "" {
		sb.WriteString("\nOperator guidance for this attempt:\n")
		sb.WriteString(strings.TrimSpace(guidance))
		sb.WriteString("\n")
	}

	if patterns != "" {
		sb.WriteString("\nLearnings from earlier iterations:\n")
		sb.WriteString(patterns)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRules:\n")
	sb.WriteString("- When the task is done, update backlog.yaml: set the criterion status to completed, and set passes: true once every criterion of the story is completed.\n")
	sb.WriteString("- Append what you did, which files you touched, and what you learned to progress.txt. Put reusable insights under the '## Patterns' section near the top.\n")
	sb.WriteString("- Do not start other tasks.\n")
	fmt.Fprintf(&sb, "- Only if EVERY story in backlog.yaml has passes: true, output %s on its own line.\n", model.CompletionMarker)

	return sb.String()
}
