package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"outlineflow/internal/catalogue"
	"outlineflow/internal/config"
	"outlineflow/internal/ctxlog"
	"outlineflow/internal/output"
	"outlineflow/internal/progress"
	"outlineflow/internal/status"
	"outlineflow/internal/workflow"
)

// MockCatalogue is an in-memory catalogue.Store.
type MockCatalogue struct {
	Defs []workflow.Definition
	// ListErr is returned by List when set.
	ListErr error
	Closed  bool
}

var _ catalogue.Store = (*MockCatalogue)(nil)

func (m *MockCatalogue) List(ctx context.Context) ([]workflow.Definition, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]workflow.Definition{}, m.Defs...), nil
}

func (m *MockCatalogue) Get(ctx context.Context, id string) (workflow.Definition, error) {
	for _, d := range m.Defs {
		if d.ID == id {
			return d, nil
		}
	}
	return workflow.Definition{}, fmt.Errorf("%w: %s", catalogue.ErrNotFound, id)
}

func (m *MockCatalogue) Put(ctx context.Context, def workflow.Definition) error {
	for i := range m.Defs {
		if m.Defs[i].ID == def.ID {
			m.Defs[i] = def
			return nil
		}
	}
	m.Defs = append(m.Defs, def)
	return nil
}

func (m *MockCatalogue) Close() error {
	m.Closed = true
	return nil
}

// MockRecords is an in-memory RecordsReader and RecordsWriter.
type MockRecords struct {
	Records []status.Record
}

func (m *MockRecords) ReadWorkflow(workflowID string) ([]progress.Instance, error) {
	var out []progress.Instance
	for _, r := range m.Records {
		if workflowID == "" || r.Workflow == "" || r.Workflow == workflowID {
			out = append(out, r.Instance())
		}
	}
	return out, nil
}

func (m *MockRecords) SetCompleted(taskID string, completed bool) error {
	found := false
	for i := range m.Records {
		if m.Records[i].Task == taskID {
			m.Records[i].Completed = completed
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", status.ErrRecordNotFound, taskID)
	}
	return nil
}

func (m *MockRecords) Add(rec status.Record) error {
	m.Records = append(m.Records, rec)
	return nil
}

// fixedNow is the clock used by test compilers.
func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
}

// testApp bundles an App with its mocks and the buffer all output goes to.
type testApp struct {
	app       *App
	out       *bytes.Buffer
	catalogue *MockCatalogue
	records   *MockRecords
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	buf := &bytes.Buffer{}
	cat := &MockCatalogue{}
	recs := &MockRecords{}

	return &testApp{
		app: &App{
			Config:    config.DefaultConfig(),
			Catalogue: cat,
			Records:   recs,
			Writer:    recs,
			Printer:   output.NewPrinterWithWriter(buf, output.WithColor(false), output.WithBarWidth(10)),
			Logger:    ctxlog.New("debug", "text", io.Discard),
			Compiler:  workflow.NewCompiler(workflow.WithClock(fixedNow)),
		},
		out:       buf,
		catalogue: cat,
		records:   recs,
	}
}

// run executes the root command with args and returns the combined output.
func (ta *testApp) run(args ...string) (string, error) {
	rootCmd := NewRootCommand(ta.app)
	rootCmd.SetOut(ta.out)
	rootCmd.SetErr(ta.out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return ta.out.String(), err
}

// writeOutline writes content to a file in a temp dir and returns its path.
func writeOutline(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write outline: %v", err)
	}
	return path
}

// readFile returns the content of path.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
