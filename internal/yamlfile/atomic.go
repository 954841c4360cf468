// Package yamlfile provides atomic YAML file I/O and quarantine utilities.
package yamlfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yamlv3 "gopkg.in/yaml.v3"
)

// AtomicWrite marshals data and replaces path in one rename. The
// previous content survives as path+".bak", which is what
// RestoreFromBackup reads when a later write is found corrupt.
func AtomicWrite(path string, data any) error {
	content, err := yamlv3.Marshal(data)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return AtomicWriteRaw(path, content)
}

// AtomicWriteRaw publishes pre-rendered YAML. Content that does not
// parse is rejected before anything touches disk; a reader must never
// observe a document this package wrote and fail on it.
func AtomicWriteRaw(path string, content []byte) error {
	if err := validateYAML(content); err != nil {
		return fmt.Errorf("refusing to write invalid yaml: %w", err)
	}
	if err := snapshotExisting(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".grind-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// The rename must publish exactly the bytes handed in.
	onDisk, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("verify temp file: %w", err)
	}
	if !bytes.Equal(onDisk, content) {
		return fmt.Errorf("temp file differs from written content: %s", tmpName)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// snapshotExisting copies the current file to path+".bak" so the write
// about to replace it can be undone. A missing file needs no snapshot.
func snapshotExisting(path string) error {
	prev, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s for backup: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path+".bak", prev, 0644); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	return nil
}

func validateYAML(content []byte) error {
	var v any
	return yamlv3.Unmarshal(content, &v)
}
