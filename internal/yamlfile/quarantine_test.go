package yamlfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestQuarantine(t *testing.T) {
	stateDir := t.TempDir()
	filePath := filepath.Join(stateDir, "corrupted.yaml")

	os.WriteFile(filePath, []byte("corrupted: [\n"), 0644)

	qPath, err := Quarantine(stateDir, filePath)
	if err != nil {
		t.Fatalf("Quarantine failed: %v", err)
	}

	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Error("original file should be removed after quarantine")
	}
	if _, err := os.Stat(qPath); err != nil {
		t.Errorf("quarantined file missing: %v", err)
	}

	quarantineDir := filepath.Join(stateDir, "quarantine")
	entries, err := os.ReadDir(quarantineDir)
	if err != nil {
		t.Fatalf("ReadDir quarantine failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 quarantined file, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "corrupted.yaml.") || !strings.HasSuffix(entries[0].Name(), ".corrupt") {
		t.Errorf("unexpected quarantine filename: %s", entries[0].Name())
	}
}

func TestRestoreFromBackup(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "test.yaml")
	bakPath := filePath + ".bak"

	validContent := []byte("schema_version: 1\ngeneration: auth\nstories: []\n")
	os.WriteFile(bakPath, validContent, 0644)

	if err := RestoreFromBackup(filePath); err != nil {
		t.Fatalf("RestoreFromBackup failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != string(validContent) {
		t.Errorf("restored content mismatch: %q", content)
	}
}

func TestRestoreFromBackup_NoBackup(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "test.yaml")

	if err := RestoreFromBackup(filePath); err == nil {
		t.Error("expected error when no backup exists")
	}
}

func TestRestoreFromBackup_CorruptBackup(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "test.yaml")
	bakPath := filePath + ".bak"

	os.WriteFile(bakPath, []byte(":\n  broken: [\n"), 0644)

	if err := RestoreFromBackup(filePath); err == nil {
		t.Error("expected error for corrupt backup")
	}
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Error("file should not be created from a corrupt backup")
	}
}
