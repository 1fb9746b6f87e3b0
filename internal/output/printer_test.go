package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outlineflow/internal/outline"
	"outlineflow/internal/progress"
	"outlineflow/internal/workflow"
)

func sampleWorkflow() workflow.Definition {
	return workflow.Definition{
		ID:          "feature",
		Name:        "Feature Workflow",
		Description: workflow.CompiledDescription,
		Stages: []workflow.Stage{
			{ID: "design", Name: "Design", Type: workflow.StageLinear, Next: "build"},
			{ID: "build", Name: "Build", Type: workflow.StageCycle, Next: "release", SubStages: []workflow.SubStage{
				{ID: "write_tests", Name: "Write Tests", Next: "implement"},
				{ID: "implement", Name: "Implement", Next: "write_tests"},
			}},
			{ID: "release", Name: "Release", Type: workflow.StageTerminal},
		},
	}
}

func plainPrinter(buf *bytes.Buffer, opts ...Option) *Printer {
	return NewPrinterWithWriter(buf, append([]Option{WithColor(false)}, opts...)...)
}

func TestPrinter_SuccessError(t *testing.T) {
	tests := []struct {
		name  string
		color bool
		print func(p *Printer)
		want  string
	}{
		{name: "success plain", print: func(p *Printer) { p.Success("saved %s", "x") }, want: "OK saved x\n"},
		{name: "error plain", print: func(p *Printer) { p.Error("no task at line %d", 3) }, want: "ERROR no task at line 3\n"},
		{name: "success unicode", color: true, print: func(p *Printer) { p.Success("done") }, want: "✓ done\n"},
		{name: "error unicode", color: true, print: func(p *Printer) { p.Error("bad") }, want: "✗ bad\n"},
		{name: "info", print: func(p *Printer) { p.Info("%d/%d", 1, 2) }, want: "1/2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(NewPrinterWithWriter(&buf, WithColor(tt.color)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_Tree(t *testing.T) {
	root, ok := outline.Analyze("- [ ] Feature\n  - [x] Design\n  Notes here\n  - [ ] Build", 0)
	require.True(t, ok)

	var buf bytes.Buffer
	plainPrinter(&buf).Tree(root)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[ ] Feature (line 1)", lines[0])
	assert.Equal(t, "  [x] Design (line 2)", lines[1])
	assert.Equal(t, "  [ ] Build (line 4)", lines[2])
}

func TestPrinter_Workflow(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).Workflow(sampleWorkflow())

	out := buf.String()
	assert.Contains(t, out, "Feature Workflow (feature)")
	assert.Contains(t, out, workflow.CompiledDescription)
	assert.Contains(t, out, " 1. -> Design [linear] -> build")
	assert.Contains(t, out, " 2. @ Build [cycle] -> release")
	assert.Contains(t, out, "@ write_tests -> implement -> write_tests")
	assert.Contains(t, out, " 3. # Release [terminal]")
}

func TestPrinter_Workflow_UnicodeRing(t *testing.T) {
	var buf bytes.Buffer
	NewPrinterWithWriter(&buf).Workflow(sampleWorkflow())

	assert.Contains(t, buf.String(), "↻ write_tests → implement → write_tests")
}

func TestPrinter_Workflow_NoStages(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).Workflow(workflow.Definition{ID: "x", Name: "X"})

	assert.Contains(t, buf.String(), "(no stages)")
}

func TestPrinter_WorkflowList(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).WorkflowList([]WorkflowEntry{
		{Definition: sampleWorkflow(), Fingerprint: "0123456789abcdef0123"},
	})

	assert.Equal(t, "feature  Feature Workflow  3 stages  0123456789ab\n", buf.String())
}

func TestPrinter_WorkflowList_Empty(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).WorkflowList(nil)

	assert.Equal(t, "catalogue is empty\n", buf.String())
}

func TestPrinter_Bar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{pct: 0, want: "[----------]"},
		{pct: 50, want: "[#####-----]"},
		{pct: 16.67, want: "[##--------]"},
		{pct: 100, want: "[##########]"},
		{pct: 150, want: "[##########]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.want, plainPrinter(&buf, WithBarWidth(10)).Bar(tt.pct))
		})
	}
}

func TestWithBarWidth_FallsBack(t *testing.T) {
	var buf bytes.Buffer
	p := plainPrinter(&buf, WithBarWidth(0))

	assert.Equal(t, DefaultBarWidth+2, len(p.Bar(0)))
}

func TestPrinter_Progress(t *testing.T) {
	wf := sampleWorkflow()
	summary := progress.Report(wf, progress.NewStageSet("design"), "build")

	var buf bytes.Buffer
	plainPrinter(&buf, WithBarWidth(10)).Progress(summary)

	want := `Feature Workflow  50%  Current: Build
[#####-----]
 [x] 1. Design (Sequential)
 [>] 2. Build (Repeatable)
     - Write Tests
     - Implement
 [ ] 3. Release (Final)
`
	assert.Equal(t, want, buf.String())
}

func TestPrinter_Progress_UnicodeMarkers(t *testing.T) {
	summary := progress.Report(sampleWorkflow(), progress.NewStageSet("design"), "build")

	var buf bytes.Buffer
	NewPrinterWithWriter(&buf).Progress(summary)

	out := buf.String()
	assert.Contains(t, out, "✓ 1. Design")
	assert.Contains(t, out, "▶ 2. Build")
	assert.Contains(t, out, "○ 3. Release")
	assert.Contains(t, out, "█")
}
