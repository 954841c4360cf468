// Package progress manages the append-only progress log workers read
// and write across iterations: a header, a curated Patterns section,
// and chronological per-task entries.
package progress

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	headerTitle     = "# Progress Log"
	patternsHeading = "## Patterns"
	sectionBreak    = "---"
)

type Log struct {
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

func (l *Log) Path() string { return l.path }

// Ensure creates the log with a fresh header if it does not exist yet.
func (l *Log) Ensure() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	}
	return l.Reset()
}

// Reset overwrites the log with a fresh header. Only the archive
// manager calls this, and only after the old log is safely archived.
func (l *Log) Reset() error {
	content := fmt.Sprintf("%s\nStarted: %s\n%s\n%s\n\n%s\n",
		headerTitle,
		time.Now().Format(time.RFC3339),
		sectionBreak,
		patternsHeading,
		sectionBreak)
	if err := os.WriteFile(l.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("reset progress log: %w", err)
	}
	return nil
}

// Append adds one chronological entry for a finished iteration.
func (l *Log) Append(taskID, summary string) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open progress log: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("\n[%s] %s\n%s\n",
		time.Now().Format(time.RFC3339), taskID, strings.TrimSpace(summary))
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("append progress entry: %w", err)
	}
	return nil
}

// PatternsExcerpt returns the Patterns section body for prompt
// assembly: everything between the Patterns heading and the next
// section break. Missing file or section yields an empty string.
func (l *Log) PatternsExcerpt() string {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return ""
	}

	lines := strings.Split(string(content), "\n")
	var body []string
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == patternsHeading {
			inSection = true
			continue
		}
		if inSection {
			if trimmed == sectionBreak || strings.HasPrefix(trimmed, "## ") {
				break
			}
			body = append(body, line)
		}
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
