package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grindloop/grind/internal/progress"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	marker := filepath.Join(dir, ".grind", ".last-generation")
	return NewManager(dir, marker), dir
}

func TestLastGenerationMissingMarker(t *testing.T) {
	m, _ := newTestManager(t)
	if got := m.LastGeneration(); got != "" {
		t.Errorf("expected empty generation, got %q", got)
	}
}

func TestRecordAndReadGeneration(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.RecordGeneration("gen-2"); err != nil {
		t.Fatalf("RecordGeneration failed: %v", err)
	}
	if got := m.LastGeneration(); got != "gen-2" {
		t.Errorf("expected gen-2, got %q", got)
	}
}

func TestFirstRunRecordsWithoutArchiving(t *testing.T) {
	m, dir := newTestManager(t)
	backlogPath := filepath.Join(dir, "backlog.yaml")
	if err := os.WriteFile(backlogPath, []byte("generation: gen-1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	progLog := progress.NewLog(filepath.Join(dir, "progress.txt"))

	dest, err := m.ArchiveIfGenerationChanged("gen-1", backlogPath, progLog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest != "" {
		t.Errorf("expected no archive on first run, got %q", dest)
	}
	if got := m.LastGeneration(); got != "gen-1" {
		t.Errorf("marker not recorded, got %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "archive")); !os.IsNotExist(err) {
		t.Error("archive directory should not exist on first run")
	}
}

func TestSameGenerationNoArchive(t *testing.T) {
	m, dir := newTestManager(t)
	if err := m.RecordGeneration("gen-1"); err != nil {
		t.Fatal(err)
	}
	backlogPath := filepath.Join(dir, "backlog.yaml")
	if err := os.WriteFile(backlogPath, []byte("generation: gen-1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	progLog := progress.NewLog(filepath.Join(dir, "progress.txt"))
	if err := progLog.Ensure(); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(progLog.Path())

	dest, err := m.ArchiveIfGenerationChanged("gen-1", backlogPath, progLog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest != "" {
		t.Errorf("expected no archive, got %q", dest)
	}
	after, _ := os.ReadFile(progLog.Path())
	if string(before) != string(after) {
		t.Error("progress log changed without a generation change")
	}
}

func TestGenerationChangeArchivesAndResets(t *testing.T) {
	m, dir := newTestManager(t)
	if err := m.RecordGeneration("gen-1"); err != nil {
		t.Fatal(err)
	}

	backlogPath := filepath.Join(dir, "backlog.yaml")
	backlogContent := "generation: gen-1\nstories: []\n"
	if err := os.WriteFile(backlogPath, []byte(backlogContent), 0644); err != nil {
		t.Fatal(err)
	}
	progLog := progress.NewLog(filepath.Join(dir, "progress.txt"))
	if err := progLog.Ensure(); err != nil {
		t.Fatal(err)
	}
	if err := progLog.Append("US-001", "did a thing"); err != nil {
		t.Fatal(err)
	}

	dest, err := m.ArchiveIfGenerationChanged("gen-2", backlogPath, progLog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest == "" {
		t.Fatal("expected an archive folder")
	}

	wantPrefix := filepath.Join(dir, "archive", time.Now().Format("2006-01-02")+"-gen-1")
	if !strings.HasPrefix(dest, wantPrefix) {
		t.Errorf("archive folder %q does not start with %q", dest, wantPrefix)
	}

	archived, err := os.ReadFile(filepath.Join(dest, "backlog.yaml"))
	if err != nil {
		t.Fatalf("archived backlog missing: %v", err)
	}
	if string(archived) != backlogContent {
		t.Error("archived backlog differs from original")
	}

	archivedLog, err := os.ReadFile(filepath.Join(dest, "progress.txt"))
	if err != nil {
		t.Fatalf("archived progress log missing: %v", err)
	}
	if !strings.Contains(string(archivedLog), "US-001") {
		t.Error("archived progress log lost its entries")
	}

	live, _ := os.ReadFile(progLog.Path())
	if strings.Contains(string(live), "US-001") {
		t.Error("live progress log was not reset")
	}
	if got := m.LastGeneration(); got != "gen-2" {
		t.Errorf("marker not updated, got %q", got)
	}
}

func TestArchiveFolderCollisionCounter(t *testing.T) {
	m, dir := newTestManager(t)
	base := filepath.Join(dir, "archive", time.Now().Format("2006-01-02")+"-gen-1")
	if err := os.MkdirAll(base, 0755); err != nil {
		t.Fatal(err)
	}

	dest, err := m.newArchiveFolder("gen-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest != base+"-1" {
		t.Errorf("expected %q, got %q", base+"-1", dest)
	}

	dest2, err := m.newArchiveFolder("gen-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest2 != base+"-2" {
		t.Errorf("expected %q, got %q", base+"-2", dest2)
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"feature/login", "feature-login"},
		{"plain", "plain"},
		{"", "unnamed"},
		{"a/b/c", "a-b-c"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMissingProgressLogStillArchivesBacklog(t *testing.T) {
	m, dir := newTestManager(t)
	if err := m.RecordGeneration("gen-1"); err != nil {
		t.Fatal(err)
	}
	backlogPath := filepath.Join(dir, "backlog.yaml")
	if err := os.WriteFile(backlogPath, []byte("generation: gen-1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	progLog := progress.NewLog(filepath.Join(dir, "progress.txt"))

	dest, err := m.ArchiveIfGenerationChanged("gen-2", backlogPath, progLog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "backlog.yaml")); err != nil {
		t.Errorf("archived backlog missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "progress.txt")); !os.IsNotExist(err) {
		t.Error("progress.txt should not appear in the archive when it never existed")
	}
}
