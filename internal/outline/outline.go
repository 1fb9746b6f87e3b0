// Package outline parses indentation-based checklist outlines into task trees.
//
// A checklist line has the shape
//
//	<indent>[-*+] [<status>]<content>
//
// where <indent> is any run of whitespace (its raw character count becomes the
// task's level; tabs are not expanded), <status> is exactly one character and
// <content> is the rest of the line. Everything else is prose.
//
// Key entry points:
//   - [Analyze] finds the task enclosing a reference line and parses its subtree
//   - [FindEnclosingTask] climbs from a line to its outermost checklist ancestor
//   - [ParseSubtree] builds a [Task] tree rooted at one line
//
// Parsing never fails. Text without a checklist line yields no task, and
// inconsistent indentation yields whatever tree the scan rules produce.
package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// checklistMarker matches the bullet and checkbox that follow the indentation.
var checklistMarker = regexp.MustCompile(`^[-*+] \[(.)\]`)

// checklistTask additionally requires content after the checkbox.
var checklistTask = regexp.MustCompile(`^[-*+] \[(.)\](.+)$`)

// Task is one node of a parsed outline.
//
// Children always have a strictly greater Level than their parent. A Task owns
// its Children; nothing in the tree points back to a parent.
type Task struct {
	// Content is the trimmed text after the checkbox.
	Content string `json:"content" yaml:"content"`

	// Level is the number of leading whitespace characters.
	Level int `json:"level" yaml:"level"`

	// SourceLine is the 0-based line index the task was parsed from.
	SourceLine int `json:"sourceLine" yaml:"source_line"`

	// IsTask is false for the single prose-leaf case of [ParseSubtree].
	IsTask bool `json:"isTask" yaml:"is_task"`

	// Status is the checkbox character, e.g. " " or "x".
	Status string `json:"status" yaml:"status"`

	Children []Task `json:"children" yaml:"children"`
}

// Walk visits t and its descendants in pre-order. depth is 0 for t.
func (t Task) Walk(fn func(task Task, depth int)) {
	t.walk(fn, 0)
}

func (t Task) walk(fn func(Task, int), depth int) {
	fn(t, depth)
	for _, c := range t.Children {
		c.walk(fn, depth+1)
	}
}

// Depth returns the height of the tree: 1 for a leaf.
func (t Task) Depth() int {
	deepest := 0
	for _, c := range t.Children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Analyze splits text into lines, finds the task enclosing referenceLine and
// parses its subtree. The second result is false when no enclosing task exists.
func Analyze(text string, referenceLine int) (Task, bool) {
	lines := SplitLines(text)

	root, ok := FindEnclosingTask(lines, referenceLine)
	if !ok {
		return Task{}, false
	}
	return ParseSubtree(lines, root), true
}

// SplitLines splits text on "\n". A trailing "\r" stays on its line and is
// removed by trimming where it matters.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// FindEnclosingTask walks upward from referenceLine to the nearest checklist
// line that has no less-indented checklist line above it in the same block.
//
// A candidate at zero indentation is accepted immediately. Otherwise the lines
// above it are scanned for a checklist line with strictly less indentation;
// the scan gives up at the first non-blank prose line. A candidate with no such
// parent is the root; a candidate with a parent is skipped and the walk goes on.
// A referenceLine past the end of lines is clamped to the last line.
func FindEnclosingTask(lines []string, referenceLine int) (int, bool) {
	if referenceLine >= len(lines) {
		referenceLine = len(lines) - 1
	}

	for i := referenceLine; i >= 0; i-- {
		indent, ok := checklistIndent(lines[i])
		if !ok {
			continue
		}
		if indent == 0 || !hasShallowerTaskAbove(lines, i, indent) {
			return i, true
		}
	}
	return -1, false
}

func hasShallowerTaskAbove(lines []string, line, indent int) bool {
	for j := line - 1; j >= 0; j-- {
		parentIndent, ok := checklistIndent(lines[j])
		if ok && parentIndent < indent {
			return true
		}
		if !ok && !isBlank(lines[j]) {
			return false
		}
	}
	return false
}

// ParseSubtree builds the task rooted at lines[startLine].
//
// A line that is not a checklist task becomes a prose leaf (IsTask false,
// Level 0, Content the trimmed line). Otherwise following lines are scanned:
// blank lines are skipped, deeper checklist lines become children (their whole
// extent is consumed), deeper prose is skipped, and any non-blank line at the
// same or lower indentation ends the task.
func ParseSubtree(lines []string, startLine int) Task {
	line := lines[startLine]
	indent, rest := splitIndent(line)

	m := checklistTask.FindStringSubmatch(rest)
	if m == nil {
		return Task{
			Content:    strings.TrimSpace(line),
			SourceLine: startLine,
			Children:   []Task{},
		}
	}

	level := utf8.RuneCountInString(indent)
	task := Task{
		Content:    strings.TrimSpace(m[2]),
		Level:      level,
		SourceLine: startLine,
		IsTask:     true,
		Status:     m[1],
		Children:   []Task{},
	}

	for i := startLine + 1; i < len(lines); {
		next := lines[i]
		if isBlank(next) {
			i++
			continue
		}

		if childIndent, ok := checklistIndent(next); ok {
			if childIndent <= level {
				break
			}
			task.Children = append(task.Children, ParseSubtree(lines, i))
			i = subtreeEnd(lines, i, childIndent)
			continue
		}

		if indentWidth(next) <= level {
			break
		}
		i++
	}

	return task
}

// subtreeEnd returns the index of the first non-blank line after start whose
// indentation is at most indent, or len(lines).
func subtreeEnd(lines []string, start, indent int) int {
	for i := start + 1; i < len(lines); i++ {
		if isBlank(lines[i]) {
			continue
		}
		if indentWidth(lines[i]) <= indent {
			return i
		}
	}
	return len(lines)
}

// IsChecklistLine reports whether line has the checklist grammar.
func IsChecklistLine(line string) bool {
	_, ok := checklistIndent(line)
	return ok
}

// checklistIndent returns the indentation width of a checklist line.
func checklistIndent(line string) (int, bool) {
	indent, rest := splitIndent(line)
	if !checklistMarker.MatchString(rest) {
		return 0, false
	}
	return utf8.RuneCountInString(indent), true
}

func splitIndent(line string) (indent, rest string) {
	rest = strings.TrimLeftFunc(line, unicode.IsSpace)
	return line[:len(line)-len(rest)], rest
}

func indentWidth(line string) int {
	indent, _ := splitIndent(line)
	return utf8.RuneCountInString(indent)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
