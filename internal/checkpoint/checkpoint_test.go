package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grindloop/grind/internal/model"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	return NewManager(dir, filepath.Join(dir, "checkpoint.yaml"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := newManager(t)

	cp := &model.Checkpoint{
		TaskID:         "US-003",
		IterationsUsed: 12,
		MaxIterations:  50,
		Attempts:       4,
		Reason:         model.PauseGuidanceNeeded,
	}
	if err := m.Save(cp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if cp.SavedAt == "" {
		t.Error("Save must stamp SavedAt")
	}

	loaded, qPath, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if qPath != "" {
		t.Errorf("unexpected quarantine: %s", qPath)
	}
	if loaded == nil {
		t.Fatal("expected checkpoint")
	}
	if loaded.TaskID != "US-003" || loaded.Attempts != 4 || loaded.Reason != model.PauseGuidanceNeeded {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoad_Missing(t *testing.T) {
	m := newManager(t)

	cp, qPath, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cp != nil || qPath != "" {
		t.Errorf("expected empty slot, got cp=%v quarantine=%q", cp, qPath)
	}
}

func TestLoad_CorruptQuarantines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.yaml")
	os.WriteFile(path, []byte(":\n  broken: [\n"), 0644)

	m := NewManager(dir, path)
	cp, qPath, err := m.Load()
	if err != nil {
		t.Fatalf("corrupt checkpoint must not abort startup: %v", err)
	}
	if cp != nil {
		t.Errorf("expected nil checkpoint, got %+v", cp)
	}
	if qPath == "" {
		t.Fatal("expected quarantine path")
	}
	if _, err := os.Stat(qPath); err != nil {
		t.Errorf("quarantined file missing: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt file must be moved out of the slot")
	}
}

func TestLoad_InvalidReasonQuarantines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.yaml")
	os.WriteFile(path, []byte("task_id: US-001\nreason: nonsense\n"), 0644)

	m := NewManager(dir, path)
	cp, qPath, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cp != nil || qPath == "" {
		t.Errorf("expected quarantine for invalid reason, got cp=%v q=%q", cp, qPath)
	}
}

func TestSave_Overwrites(t *testing.T) {
	m := newManager(t)

	first := &model.Checkpoint{TaskID: "US-001", Reason: model.PauseError}
	if err := m.Save(first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	second := &model.Checkpoint{TaskID: "US-002", Reason: model.PauseIterationBoundary}
	if err := m.Save(second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, _, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.TaskID != "US-002" {
		t.Errorf("slot must hold only the latest checkpoint, got %q", loaded.TaskID)
	}
}

func TestClear(t *testing.T) {
	m := newManager(t)

	cp := &model.Checkpoint{TaskID: "US-001", Reason: model.PauseUserRequested}
	if err := m.Save(cp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	loaded, _, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Error("expected empty slot after Clear")
	}

	// clearing an empty slot is fine
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear on empty slot failed: %v", err)
	}
}
