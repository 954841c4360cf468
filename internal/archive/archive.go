// Package archive preserves a finished generation's backlog and
// progress log before a new generation takes over the working
// directory.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grindloop/grind/internal/progress"
)

type Manager struct {
	workDir    string
	markerPath string
	archiveDir string
}

func NewManager(workDir, markerPath string) *Manager {
	return &Manager{
		workDir:    workDir,
		markerPath: markerPath,
		archiveDir: filepath.Join(workDir, "archive"),
	}
}

// LastGeneration reads the marker left by the previous run. Empty
// string means no previous generation is recorded.
func (m *Manager) LastGeneration() string {
	content, err := os.ReadFile(m.markerPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// RecordGeneration updates the marker after the backlog is known good.
func (m *Manager) RecordGeneration(generation string) error {
	if err := os.MkdirAll(filepath.Dir(m.markerPath), 0755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}
	if err := os.WriteFile(m.markerPath, []byte(generation+"\n"), 0644); err != nil {
		return fmt.Errorf("write generation marker: %w", err)
	}
	return nil
}

// ArchiveIfGenerationChanged archives the old generation's files and
// resets the progress log when the backlog's generation differs from
// the marker. The progress log is reset only after every archived copy
// verifies byte-for-byte; on verification failure the live files stay
// untouched and an error comes back for the caller to surface.
func (m *Manager) ArchiveIfGenerationChanged(generation, backlogPath string, progLog *progress.Log) (string, error) {
	last := m.LastGeneration()
	if last == "" || last == generation {
		return "", m.RecordGeneration(generation)
	}

	dest, err := m.newArchiveFolder(last)
	if err != nil {
		return "", err
	}

	for _, src := range []string{backlogPath, progLog.Path()} {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(dest, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("archive %s: %w", filepath.Base(src), err)
		}
		same, err := filesIdentical(src, dst)
		if err != nil {
			return "", fmt.Errorf("verify %s: %w", filepath.Base(src), err)
		}
		if !same {
			return "", fmt.Errorf("archive verification failed for %s: copy differs from original", filepath.Base(src))
		}
	}

	if err := progLog.Reset(); err != nil {
		return "", err
	}
	if err := m.RecordGeneration(generation); err != nil {
		return "", err
	}
	return dest, nil
}

// newArchiveFolder builds archive/<date>-<label>, adding a counter
// suffix when the folder already exists.
func (m *Manager) newArchiveFolder(generation string) (string, error) {
	if err := os.MkdirAll(m.archiveDir, 0755); err != nil {
		return "", fmt.Errorf("create archive root: %w", err)
	}

	label := sanitizeLabel(generation)
	base := filepath.Join(m.archiveDir, fmt.Sprintf("%s-%s", time.Now().Format("2006-01-02"), label))

	dest := base
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = fmt.Sprintf("%s-%d", base, counter)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", fmt.Errorf("create archive folder: %w", err)
	}
	return dest, nil
}

func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, string(os.PathSeparator), "-")
	if s == "" {
		s = "unnamed"
	}
	return s
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func filesIdentical(a, b string) (bool, error) {
	ca, err := os.ReadFile(a)
	if err != nil {
		return false, err
	}
	cb, err := os.ReadFile(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}
