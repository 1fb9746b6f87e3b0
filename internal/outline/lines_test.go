package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartingTaskLine(t *testing.T) {
	assert.Equal(t, "- [ ] Test Workflow #workflow/test_workflow", StartingTaskLine("", "Test Workflow", "test_workflow"))
	assert.Equal(t, "  - [ ] Review #workflow/review", StartingTaskLine("  ", "Review", "review"))
}

func TestInsertStartingTask(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		want string
	}{
		{
			name: "blank line is replaced",
			text: "Some existing content\n",
			line: 1,
			want: "Some existing content\n- [ ] Test Workflow #workflow/test_workflow",
		},
		{
			name: "content line keeps indentation and inserts below",
			text: "  Some indented content\n",
			line: 0,
			want: "  Some indented content\n  - [ ] Test Workflow #workflow/test_workflow\n",
		},
		{
			name: "out of range appends",
			text: "a",
			line: 5,
			want: "a\n- [ ] Test Workflow #workflow/test_workflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertStartingTask(tt.text, tt.line, "Test Workflow", "test_workflow"))
		})
	}
}

func TestTagWorkflowRoot(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{name: "task", line: "- [ ] My Task", want: "- [ ] My Task #workflow/my_workflow", wantOK: true},
		{name: "indented task", line: "  - [x] Done", want: "  - [x] Done #workflow/my_workflow", wantOK: true},
		{name: "plain text", line: "Just some text", want: "Just some text", wantOK: false},
		{name: "already tagged", line: "- [ ] My Task #workflow/existing", want: "- [ ] My Task #workflow/existing", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TagWorkflowRoot(tt.line, "my_workflow")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagLine(t *testing.T) {
	text := "intro\n- [ ] Root\n  - [ ] Child"

	got, ok := TagLine(text, 1, "root")
	assert.True(t, ok)
	assert.Equal(t, "intro\n- [ ] Root #workflow/root\n  - [ ] Child", got)

	got, ok = TagLine(text, 0, "root")
	assert.False(t, ok)
	assert.Equal(t, text, got)

	_, ok = TagLine(text, 9, "root")
	assert.False(t, ok)
}
