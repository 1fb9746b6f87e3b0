package outline

import (
	"fmt"
	"strings"
)

// WorkflowTagPrefix marks a task as the root of a workflow instance.
const WorkflowTagPrefix = "#workflow/"

// StartingTaskLine returns the checklist line that starts an instance of the
// workflow identified by id and named name.
func StartingTaskLine(indent, name, id string) string {
	return fmt.Sprintf("%s- [ ] %s %s%s", indent, name, WorkflowTagPrefix, id)
}

// InsertStartingTask places a starting task line at line in text.
//
// A blank line is replaced in place. Otherwise the new line is inserted below
// line, carrying that line's indentation. A line outside the text appends the
// starting task at the end.
func InsertStartingTask(text string, line int, name, id string) string {
	lines := SplitLines(text)
	if line < 0 || line >= len(lines) {
		return strings.Join(append(lines, StartingTaskLine("", name, id)), "\n")
	}

	current := lines[line]
	indent, _ := splitIndent(current)
	starting := StartingTaskLine(indent, name, id)

	if isBlank(current) {
		lines[line] = starting
		return strings.Join(lines, "\n")
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:line+1]...)
	out = append(out, starting)
	out = append(out, lines[line+1:]...)
	return strings.Join(out, "\n")
}

// TagWorkflowRoot appends a workflow tag to a checklist task line. It returns
// the line unchanged and false when line is not a task or is already tagged.
func TagWorkflowRoot(line, workflowID string) (string, bool) {
	_, rest := splitIndent(line)
	m := checklistTask.FindStringSubmatch(rest)
	if m == nil || strings.Contains(m[2], WorkflowTagPrefix) {
		return line, false
	}
	return line + " " + WorkflowTagPrefix + workflowID, true
}

// TagLine applies [TagWorkflowRoot] to one line of text and returns the
// rewritten text.
func TagLine(text string, line int, workflowID string) (string, bool) {
	lines := SplitLines(text)
	if line < 0 || line >= len(lines) {
		return text, false
	}

	tagged, ok := TagWorkflowRoot(lines[line], workflowID)
	if !ok {
		return text, false
	}
	lines[line] = tagged
	return strings.Join(lines, "\n"), true
}
