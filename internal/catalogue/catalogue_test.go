package catalogue

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outlineflow/internal/workflow"
)

func sampleDef(id, name string) workflow.Definition {
	return workflow.Definition{
		ID:          id,
		Name:        name,
		Description: workflow.CompiledDescription,
		Stages: []workflow.Stage{
			{ID: "plan", Name: "Plan", Type: workflow.StageLinear, Next: "build"},
			{ID: "build", Name: "Build", Type: workflow.StageCycle, Next: "ship", SubStages: []workflow.SubStage{
				{ID: "code", Name: "Code", Next: "test"},
				{ID: "test", Name: "Test", Next: "code"},
			}},
			{ID: "ship", Name: "Ship", Type: workflow.StageTerminal},
		},
		Metadata: workflow.Metadata{Version: "1.0", Created: "2024-03-10", LastModified: "2024-03-10"},
	}
}

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every pooled connection would get its own in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

// stores runs a test against both backends.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"yaml":   NewFileStore(filepath.Join(t.TempDir(), "workflows.yaml")),
		"sqlite": newMemoryStore(t),
	}
}

func TestStore_EmptyList(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defs, err := s.List(context.Background())

			require.NoError(t, err)
			assert.NotNil(t, defs)
			assert.Empty(t, defs)
		})
	}
}

func TestStore_PutGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			def := sampleDef("release", "Release Workflow")

			require.NoError(t, s.Put(ctx, def))

			got, err := s.Get(ctx, "release")
			require.NoError(t, err)
			assert.Equal(t, def, got)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")

			assert.ErrorIs(t, err, ErrNotFound)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestStore_PutKeepsInsertionOrder(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, sampleDef("b", "B")))
			require.NoError(t, s.Put(ctx, sampleDef("a", "A")))
			require.NoError(t, s.Put(ctx, sampleDef("c", "C")))

			// Replacing keeps the original position.
			require.NoError(t, s.Put(ctx, sampleDef("b", "B v2")))

			defs, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, defs, 3)
			assert.Equal(t, "b", defs[0].ID)
			assert.Equal(t, "B v2", defs[0].Name)
			assert.Equal(t, "a", defs[1].ID)
			assert.Equal(t, "c", defs[2].ID)
		})
	}
}

func TestStore_PutRequiresID(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Put(context.Background(), workflow.Definition{Name: "anonymous"})

			assert.Error(t, err)
		})
	}
}

func TestFindShape(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, sampleDef("release", "Release Workflow")))

			renamed := sampleDef("other", "Other Workflow")
			renamed.Description = workflow.SuggestedDescription

			found, ok, err := FindShape(ctx, s, renamed)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "release", found.ID)

			different := sampleDef("x", "X")
			different.Stages = different.Stages[:2]
			_, ok, err = FindShape(ctx, s, different)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileStore_WritesYAMLLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "workflows.yaml")
	s := NewFileStore(path)

	require.NoError(t, s.Put(context.Background(), sampleDef("release", "Release Workflow")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "workflows:")
	assert.Contains(t, content, "id: release")
	assert.Contains(t, content, "sub_stages:")
	assert.Contains(t, content, "last_modified:")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileStore_ReadsHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflows.yaml")
	content := `workflows:
  - id: review
    name: Review Workflow
    description: hand written
    stages:
      - id: draft
        name: Draft
        type: linear
        can_proceed_to: [publish]
      - id: publish
        name: Publish
        type: terminal
    metadata:
      version: "2.0"
      created: "2024-01-01"
      last_modified: "2024-02-01"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	defs, err := NewFileStore(path).List(context.Background())

	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "Review Workflow", defs[0].Name)
	assert.Equal(t, []string{"publish"}, defs[0].Stages[0].CanProceedTo)
	assert.Equal(t, "2024-02-01", defs[0].Metadata.LastModified)
}

func TestFileStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflows.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workflows: {not: [a list"), 0o644))

	_, err := NewFileStore(path).List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalogue")
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileStore(filepath.Join(t.TempDir(), "w.yaml")).List(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore_IDsByFingerprint(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)
	require.NoError(t, s.Put(ctx, sampleDef("one", "One")))
	require.NoError(t, s.Put(ctx, sampleDef("two", "Two")))

	fp, err := workflow.Fingerprint(sampleDef("any", "Any"))
	require.NoError(t, err)

	ids, err := s.IDsByFingerprint(ctx, fp)

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, ids)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{name: "default is yaml", driver: ""},
		{name: "yaml", driver: DriverYAML},
		{name: "sqlite", driver: DriverSQLite},
		{name: "unknown", driver: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.driver, filepath.Join(dir, tt.name+".db"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Put(context.Background(), sampleDef("x", "X")))
			defs, err := s.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, defs, 1)
		})
	}
}

func TestOpen_SQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.db")

	s, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), sampleDef("kept", "Kept")))
	require.NoError(t, s.Close())

	reopened, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.Name)
}
