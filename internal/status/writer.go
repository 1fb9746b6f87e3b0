package status

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Writer updates the task records file.
//
// Every change rewrites the whole file through a temp file and a rename, so a
// reader never sees a half-written document.
type Writer struct {
	path string
}

// NewWriter creates a [Writer] for path. An empty path means
// [DefaultRecordsPath].
func NewWriter(path string) *Writer {
	if path == "" {
		path = DefaultRecordsPath
	}
	return &Writer{path: path}
}

// SetCompleted sets the completed flag of every record for taskID.
//
// Returns [ErrRecordNotFound] when the file holds no record for taskID.
func (w *Writer) SetCompleted(taskID string, completed bool) error {
	file, err := w.load(false)
	if err != nil {
		return err
	}

	found := false
	for i := range file.Records {
		if file.Records[i].Task == taskID {
			file.Records[i].Completed = completed
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, taskID)
	}

	return w.save(file)
}

// Add appends rec, creating the file when it does not exist yet. A record
// for the same task is replaced.
func (w *Writer) Add(rec Record) error {
	if rec.Task == "" {
		return fmt.Errorf("task record has no task id")
	}

	file, err := w.load(true)
	if err != nil {
		return err
	}

	replaced := false
	for i := range file.Records {
		if file.Records[i].Task == rec.Task {
			file.Records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		file.Records = append(file.Records, rec)
	}

	return w.save(file)
}

func (w *Writer) load(allowMissing bool) (recordsFile, error) {
	var file recordsFile

	data, err := os.ReadFile(w.path)
	if allowMissing && errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("failed to read task records: %w", err)
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("failed to parse task records: %w", err)
	}
	return file, nil
}

func (w *Writer) save(file recordsFile) error {
	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal task records: %w", err)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to write task records: %w", err)
		}
	}

	// Write to temp, then rename.
	tmpPath := w.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write task records: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write task records: %w", err)
	}
	return nil
}
