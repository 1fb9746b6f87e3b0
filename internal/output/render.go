package output

import (
	"fmt"
	"math"
	"strings"

	"outlineflow/internal/outline"
	"outlineflow/internal/progress"
	"outlineflow/internal/workflow"
)

// Tree prints root and its descendants, one per line, indented by depth.
// Source lines are shown 1-based.
func (p *Printer) Tree(root outline.Task) {
	root.Walk(func(task outline.Task, depth int) {
		indent := strings.Repeat("  ", depth)
		line := p.styles.subtle.Render(fmt.Sprintf("(line %d)", task.SourceLine+1))

		if !task.IsTask {
			p.printf("%s%s %s\n", indent, task.Content, line)
			return
		}

		box := "[" + task.Status + "]"
		if task.Status == " " {
			box = p.styles.pending.Render(box)
		} else {
			box = p.styles.done.Render(box)
		}
		p.printf("%s%s %s %s\n", indent, box, task.Content, line)
	})
}

func (p *Printer) typeGlyph(t workflow.StageType) string {
	switch t {
	case workflow.StageLinear:
		return p.glyphs.linear
	case workflow.StageCycle:
		return p.glyphs.cycle
	case workflow.StageTerminal:
		return p.glyphs.final
	default:
		return p.glyphs.other
	}
}

// ring renders the sub-stage ids of a cycle as "a → b → a".
func (p *Printer) ring(stage workflow.Stage) string {
	if len(stage.SubStages) == 0 {
		return ""
	}
	ids := make([]string, 0, len(stage.SubStages)+1)
	for _, sub := range stage.SubStages {
		ids = append(ids, sub.ID)
	}
	ids = append(ids, stage.SubStages[len(stage.SubStages)-1].Next)
	return strings.Join(ids, " "+p.glyphs.arrow+" ")
}

// Workflow prints a definition: header, description and one line per stage.
func (p *Printer) Workflow(def workflow.Definition) {
	p.printf("%s %s\n", p.styles.title.Render(def.Name), p.styles.id.Render("("+def.ID+")"))
	if def.Description != "" {
		p.printf("%s\n", p.styles.subtle.Render(def.Description))
	}

	for i, stage := range def.Stages {
		p.printf("%2d. %s %s [%s]", i+1, p.typeGlyph(stage.Type), stage.Name, stage.Type)
		if stage.Next != "" {
			p.printf(" %s %s", p.glyphs.arrow, p.styles.id.Render(stage.Next))
		}
		p.printf("\n")

		if ring := p.ring(stage); ring != "" {
			p.printf("      %s %s\n", p.glyphs.cycle, ring)
		}
	}

	if len(def.Stages) == 0 {
		p.printf("%s\n", p.styles.subtle.Render("(no stages)"))
	}
}

// WorkflowEntry is one line of [Printer.WorkflowList].
type WorkflowEntry struct {
	Definition  workflow.Definition
	Fingerprint string
}

// WorkflowList prints one line per catalogue entry with its stage count and
// the first 12 characters of its fingerprint.
func (p *Printer) WorkflowList(entries []WorkflowEntry) {
	if len(entries) == 0 {
		p.printf("%s\n", p.styles.subtle.Render("catalogue is empty"))
		return
	}

	for _, e := range entries {
		fp := e.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		p.printf("%s  %s  %d stages  %s\n",
			p.styles.id.Render(e.Definition.ID),
			e.Definition.Name,
			len(e.Definition.Stages),
			p.styles.subtle.Render(fp),
		)
	}
}

// Bar returns a progress bar for pct (0-100) using the printer's width.
func (p *Printer) Bar(pct float64) string {
	filled := int(math.Round(pct / 100 * float64(p.barWidth)))
	if filled < 0 {
		filled = 0
	}
	if filled > p.barWidth {
		filled = p.barWidth
	}
	full := strings.Repeat(p.glyphs.barFull, filled)
	empty := strings.Repeat(p.glyphs.barEmpty, p.barWidth-filled)
	return "[" + p.styles.done.Render(full) + p.styles.pending.Render(empty) + "]"
}

// Progress prints a progress summary: header with percentage and label, the
// bar, and the stage list with state markers. Sub-stages are listed under the
// current stage.
func (p *Printer) Progress(s progress.Summary) {
	p.printf("%s  %d%%  %s\n", p.styles.title.Render(s.Workflow.Name), s.Rounded, s.Label)
	p.printf("%s\n", p.Bar(s.Percentage))

	for _, sp := range s.Stages {
		var marker string
		switch sp.State {
		case progress.StateCompleted:
			marker = p.styles.done.Render(p.glyphs.done)
		case progress.StateCurrent:
			marker = p.styles.current.Render(p.glyphs.current)
		default:
			marker = p.styles.pending.Render(p.glyphs.pending)
		}
		p.printf(" %s %d. %s %s\n", marker, sp.Index, sp.Stage.Name, p.styles.subtle.Render("("+sp.TypeText+")"))

		for _, sub := range sp.SubStages {
			p.printf("     - %s\n", sub.Name)
		}
	}
}
