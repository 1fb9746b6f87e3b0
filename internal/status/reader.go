// Package status reads and updates the task-instance records that progress
// is computed from.
//
// The records file is YAML:
//
//	records:
//	  - task: t1
//	    workflow: feature
//	    stage: design
//	    completed: true
//
// The workflow key is optional. Records without one apply to every workflow.
package status

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"outlineflow/internal/progress"
)

// DefaultRecordsPath is the records file used when none is configured.
const DefaultRecordsPath = "task-records.yaml"

// ErrRecordNotFound indicates that no record exists for a task id.
var ErrRecordNotFound = errors.New("task record not found")

// Record is one task placed in a workflow stage.
type Record struct {
	Task      string `yaml:"task"`
	Workflow  string `yaml:"workflow,omitempty"`
	Stage     string `yaml:"stage"`
	Completed bool   `yaml:"completed"`
}

// Instance converts r to the form used by [progress.CompletedStages].
func (r Record) Instance() progress.Instance {
	return progress.Instance{
		TaskID:    r.Task,
		StageID:   r.Stage,
		Completed: r.Completed,
	}
}

// recordsFile is the raw YAML layout of the records file.
type recordsFile struct {
	Records []Record `yaml:"records"`
}

// Reader reads task records from a YAML file.
type Reader struct {
	path string
}

// NewReader creates a [Reader] for the records file at path. An empty path
// means [DefaultRecordsPath].
func NewReader(path string) *Reader {
	if path == "" {
		path = DefaultRecordsPath
	}
	return &Reader{path: path}
}

// Path returns the records file the reader uses.
func (r *Reader) Path() string {
	return r.path
}

// Records reads every record in file order.
//
// Returns an error if the file cannot be read or parsed. A missing file is an
// error, not an empty list.
func (r *Reader) Records() ([]Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task records: %w", err)
	}

	var file recordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to read task records: %w", err)
	}

	if file.Records == nil {
		return []Record{}, nil
	}
	return file.Records, nil
}

// Read returns all records as progress instances.
func (r *Reader) Read() ([]progress.Instance, error) {
	return r.ReadWorkflow("")
}

// ReadWorkflow returns the instances recorded for workflowID. Records without
// a workflow are always included. An empty workflowID returns every record.
func (r *Reader) ReadWorkflow(workflowID string) ([]progress.Instance, error) {
	records, err := r.Records()
	if err != nil {
		return nil, err
	}

	instances := make([]progress.Instance, 0, len(records))
	for _, rec := range records {
		if workflowID != "" && rec.Workflow != "" && rec.Workflow != workflowID {
			continue
		}
		instances = append(instances, rec.Instance())
	}
	return instances, nil
}

// Get returns the record for taskID, or [ErrRecordNotFound].
func (r *Reader) Get(taskID string) (Record, error) {
	records, err := r.Records()
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.Task == taskID {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, taskID)
}
