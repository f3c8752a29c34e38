// Package dataset persists and serves the canonical event dataset.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"eventpipe/internal/models"
)

// Writer errors.
var (
	ErrRunInProgress = errors.New("another pipeline run holds the dataset lock")
)

// Writer commits a merged event set as the new canonical dataset.
// Commits are atomic: the data is written to a temporary file in the
// target directory and renamed over the previous dataset, so a reader
// never observes a partial write and a failed run leaves the previous
// dataset untouched. A file lock serializes concurrent runs.
type Writer struct {
	path     string
	lock     *flock.Flock
	pretty   bool
	backup   bool
	renameFn func(oldpath, newpath string) error
}

// NewWriter creates a writer for the given dataset path.
func NewWriter(path string, pretty, backup bool, lockPath string) *Writer {
	return &Writer{
		path:     path,
		lock:     flock.New(lockPath),
		pretty:   pretty,
		backup:   backup,
		renameFn: os.Rename,
	}
}

// NewWriterWithDeps creates a writer with an injected commit step.
func NewWriterWithDeps(path string, pretty, backup bool, lockPath string, renameFn func(string, string) error) *Writer {
	w := NewWriter(path, pretty, backup, lockPath)
	w.renameFn = renameFn

	return w
}

// Path returns the canonical dataset path.
func (w *Writer) Path() string {
	return w.path
}

// Write persists the event set. On any failure the previous dataset
// file is left byte-identical to its state before the call.
func (w *Writer) Write(events []models.Event) error {
	locked, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire dataset lock: %w", err)
	}

	if !locked {
		return ErrRunInProgress
	}

	defer func() {
		_ = w.lock.Unlock()
	}()

	if events == nil {
		events = []models.Event{}
	}

	var data []byte

	if w.pretty {
		data, err = json.MarshalIndent(events, "", "  ")
	} else {
		data, err = json.Marshal(events)
	}

	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	if w.backup {
		if err := w.backupExisting(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("write temp dataset: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("sync temp dataset: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("close temp dataset: %w", err)
	}

	if err := w.renameFn(tmpPath, w.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure

		return fmt.Errorf("commit dataset: %w", err)
	}

	return nil
}

// backupExisting copies the current dataset aside before replacement.
// A missing current dataset is not an error (first run).
func (w *Writer) backupExisting() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("read dataset for backup: %w", err)
	}

	if err := os.WriteFile(w.path+".bak", data, 0o644); err != nil {
		return fmt.Errorf("write dataset backup: %w", err)
	}

	return nil
}
