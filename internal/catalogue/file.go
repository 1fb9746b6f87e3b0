package catalogue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"outlineflow/internal/ctxlog"
	"outlineflow/internal/workflow"
)

// catalogueFile is the on-disk layout of a YAML catalogue:
//
//	workflows:
//	  - id: feature
//	    name: Feature Workflow
//	    stages: [...]
type catalogueFile struct {
	Workflows []workflow.Definition `yaml:"workflows"`
}

// FileStore is a [Store] kept in one YAML file.
//
// A missing file reads as an empty catalogue and is created by the first
// [FileStore.Put]. Writes go to a temp file that is renamed over the original.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a [FileStore] for path. The file is not touched until
// the first call.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (catalogueFile, error) {
	var file catalogueFile

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("failed to read catalogue: %w", err)
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	return file, nil
}

// List returns every stored definition in file order.
func (s *FileStore) List(ctx context.Context) ([]workflow.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.read()
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("catalogue loaded", "path", s.path, "workflows", len(file.Workflows))

	if file.Workflows == nil {
		return []workflow.Definition{}, nil
	}
	return file.Workflows, nil
}

// Get returns the definition with id, or [ErrNotFound].
func (s *FileStore) Get(ctx context.Context, id string) (workflow.Definition, error) {
	defs, err := s.List(ctx)
	if err != nil {
		return workflow.Definition{}, err
	}
	for _, d := range defs {
		if d.ID == id {
			return d, nil
		}
	}
	return workflow.Definition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Put stores def, replacing an entry with the same id.
func (s *FileStore) Put(ctx context.Context, def workflow.Definition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if def.ID == "" {
		return fmt.Errorf("workflow has no id")
	}

	file, err := s.read()
	if err != nil {
		return err
	}

	replaced := false
	for i := range file.Workflows {
		if file.Workflows[i].ID == def.ID {
			file.Workflows[i] = def
			replaced = true
			break
		}
	}
	if !replaced {
		file.Workflows = append(file.Workflows, def)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal catalogue: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write catalogue: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("workflow stored", "path", s.path, "id", def.ID, "replaced", replaced)
	return nil
}

// Close is a no-op; the file is opened per call.
func (s *FileStore) Close() error {
	return nil
}

// writeAtomic writes data to a temp file beside path and renames it over path.
func writeAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
