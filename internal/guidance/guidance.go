// Package guidance handles the operator conversation when a task stops
// making progress: show what keeps failing, then let the operator steer,
// skip, or abort.
package guidance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

type Decision string

const (
	DecisionGuide Decision = "guide"
	DecisionSkip  Decision = "skip"
	DecisionAbort Decision = "abort"
)

// Outcome is what the coordinator hands back to the run loop.
type Outcome struct {
	Decision Decision
	// Text is the operator's guidance, set only for DecisionGuide.
	Text string
}

// Request describes the stalled task for the operator.
type Request struct {
	TaskID      string
	Attempts    int
	Signature   string
	LastDetails []string
}

const textTerminator = "END"

type Coordinator struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	// choose is swapped out in tests; the default runs promptui.
	choose func(label string, items []string) (int, error)
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		in:          os.Stdin,
		out:         os.Stderr,
		interactive: isTerminal(os.Stdin),
		choose:      promptChoose,
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func promptChoose(label string, items []string) (int, error) {
	prompt := promptui.Select{Label: label, Items: items}
	idx, _, err := prompt.Run()
	return idx, err
}

// Resolve presents the stalled task and collects the operator's
// decision. Sessions without a terminal never block: they skip the
// task and say so.
func (c *Coordinator) Resolve(req Request) (Outcome, error) {
	if !c.interactive {
		fmt.Fprintf(c.out, "task %s stalled after %d attempts; no terminal attached, skipping\n",
			req.TaskID, req.Attempts)
		return Outcome{Decision: DecisionSkip}, nil
	}

	c.printSummary(req)

	idx, err := c.choose(
		fmt.Sprintf("Task %s is not making progress", req.TaskID),
		[]string{
			"Provide guidance for the next attempt",
			"Skip this task for the rest of the run",
			"Abort the run and save a checkpoint",
		})
	if err != nil {
		if err == promptui.ErrInterrupt {
			return Outcome{Decision: DecisionAbort}, nil
		}
		return Outcome{}, fmt.Errorf("guidance prompt: %w", err)
	}

	switch idx {
	case 0:
		text, err := c.readGuidanceText()
		if err != nil {
			return Outcome{}, err
		}
		if text == "" {
			return Outcome{Decision: DecisionSkip}, nil
		}
		return Outcome{Decision: DecisionGuide, Text: text}, nil
	case 1:
		return Outcome{Decision: DecisionSkip}, nil
	default:
		return Outcome{Decision: DecisionAbort}, nil
	}
}

func (c *Coordinator) printSummary(req Request) {
	fmt.Fprintf(c.out, "\n--- stalled task: %s ---\n", req.TaskID)
	fmt.Fprintf(c.out, "attempts: %d\n", req.Attempts)
	fmt.Fprintf(c.out, "repeated failure: %s\n", req.Signature)
	for _, d := range req.LastDetails {
		fmt.Fprintf(c.out, "  recent: %s\n", d)
	}
	if hint := Analyze(req.LastDetails); hint != "" {
		fmt.Fprintf(c.out, "analysis: %s\n", hint)
	}
	fmt.Fprintln(c.out)
}

// readGuidanceText collects lines until a lone END or EOF.
func (c *Coordinator) readGuidanceText() (string, error) {
	fmt.Fprintf(c.out, "Enter guidance, finish with a line containing only %s:\n", textTerminator)
	scanner := bufio.NewScanner(c.in)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == textTerminator {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read guidance: %w", err)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// Analyze distinguishes a task that oscillates between two failures
// from one stuck on a single failure.
func Analyze(details []string) string {
	if len(details) < 2 {
		return ""
	}
	distinct := map[string]bool{}
	for _, d := range details {
		distinct[d] = true
	}
	switch len(distinct) {
	case 1:
		return "the same failure repeats unchanged; the worker is likely missing context the task description does not give it"
	case 2:
		if len(details) >= 3 && details[len(details)-1] != details[len(details)-2] {
			return "failures alternate between two states; each attempt may be undoing the previous one"
		}
	}
	return ""
}
