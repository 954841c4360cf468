// Package journal keeps the append-only JSONL record of every
// iteration under .grind/logs/journal.jsonl, with size-based rotation
// into an archive directory.
package journal

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/grindloop/grind/internal/model"
)

const (
	// Default maximum journal file size (50MB)
	DefaultMaxSize = 50 * 1024 * 1024
	fileExtension  = ".jsonl"
	archiveDir     = "archive"
)

// Journal is an append-only iteration record writer.
type Journal struct {
	mu          sync.Mutex
	file        *os.File
	currentSize int64
	maxSize     int64
	path        string
	entropy     io.Reader
}

func New(path string, maxSize int64) (*Journal, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	j := &Journal{
		path:    path,
		maxSize: maxSize,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if err := j.openFile(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) openFile() error {
	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat journal: %w", err)
	}

	j.file = file
	j.currentSize = stat.Size()
	return nil
}

// Append assigns the record a ULID and writes it as one JSONL line,
// rotating first if the file would exceed the size limit.
func (j *Journal) Append(rec *model.IterationRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if rec.ID == "" {
		rec.ID = ulid.MustNew(ulid.Timestamp(time.Now()), j.entropy).String()
	}
	if err := model.ValidateOutcome(rec.Outcome); err != nil {
		return fmt.Errorf("refusing to journal invalid record: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	data = append(data, '\n')

	if j.currentSize+int64(len(data)) > j.maxSize {
		if err := j.rotate(); err != nil {
			return fmt.Errorf("rotate journal: %w", err)
		}
	}

	n, err := j.file.Write(data)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}

	j.currentSize += int64(n)
	return nil
}

func (j *Journal) rotate() error {
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("close current journal: %w", err)
	}

	dir := filepath.Join(filepath.Dir(j.path), archiveDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	baseName := filepath.Base(j.path)
	archiveName := fmt.Sprintf("%s.%s%s",
		baseName[:len(baseName)-len(fileExtension)], timestamp, fileExtension)

	if err := os.Rename(j.path, filepath.Join(dir, archiveName)); err != nil {
		return fmt.Errorf("archive journal: %w", err)
	}

	return j.openFile()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		if err := j.file.Sync(); err != nil {
			return err
		}
		return j.file.Close()
	}
	return nil
}

// Tail reads back the last n records of the current journal file. Used
// by the status command; malformed lines are skipped.
func Tail(path string, n int) ([]model.IterationRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var records []model.IterationRecord
	decoder := json.NewDecoder(file)
	for decoder.More() {
		var rec model.IterationRecord
		if err := decoder.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}

	if len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
