package workflow

import (
	"time"

	"outlineflow/internal/outline"
	"outlineflow/internal/slug"
)

// dateLayout formats metadata dates.
const dateLayout = "2006-01-02"

// Compiler builds definitions from outlines.
//
// Create with [NewCompiler]. The zero value is not usable. Package-level
// [Compile] and [Suggest] use a default compiler backed by the wall clock.
type Compiler struct {
	now       func() time.Time
	tolerance int
}

// Option configures a [Compiler].
type Option func(*Compiler)

// WithClock sets the time source used for metadata dates.
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) {
		c.now = now
	}
}

// WithTolerance sets how far a catalogue entry's stage count may be from the
// outline's stage count for [Compiler.Suggest] to pick it. Negative values
// are treated as zero.
func WithTolerance(n int) Option {
	return func(c *Compiler) {
		if n < 0 {
			n = 0
		}
		c.tolerance = n
	}
}

// NewCompiler creates a [Compiler] with the wall clock and a suggestion
// tolerance of 1.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		now:       time.Now,
		tolerance: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compiler) metadata() Metadata {
	today := c.now().UTC().Format(dateLayout)
	return Metadata{
		Version:      DefaultVersion,
		Created:      today,
		LastModified: today,
	}
}

// Compile turns root into a definition with the given name and id.
//
// The root task becomes the first stage (linear when it has children,
// terminal otherwise). Each direct child becomes one more stage: terminal when
// it is the last child, linear otherwise, and cycle whenever it has children
// of its own, in which case its children form a closed ring of sub-stages.
// Deeper levels are ignored. Stages are linked in list order.
//
// A root that is not a task produces a definition with no stages.
func (c *Compiler) Compile(root outline.Task, name, id string) Definition {
	def := Definition{
		ID:          id,
		Name:        name,
		Description: CompiledDescription,
		Stages:      []Stage{},
		Metadata:    c.metadata(),
	}
	if !root.IsTask {
		return def
	}

	first := Stage{
		ID:   slug.Slugify(root.Content),
		Name: root.Content,
		Type: StageTerminal,
	}
	if len(root.Children) > 0 {
		first.Type = StageLinear
	}
	def.Stages = append(def.Stages, first)

	for i, child := range root.Children {
		def.Stages = append(def.Stages, childStage(child, i == len(root.Children)-1))
	}

	for i := 0; i < len(def.Stages)-1; i++ {
		def.Stages[i].Next = def.Stages[i+1].ID
	}

	return def
}

// childStage builds the stage for a direct child of the root. Having children
// takes precedence over being last: such a stage is always a cycle.
func childStage(task outline.Task, isLast bool) Stage {
	stage := Stage{
		ID:   slug.Slugify(task.Content),
		Name: task.Content,
		Type: StageLinear,
	}
	if isLast {
		stage.Type = StageTerminal
	}

	if len(task.Children) == 0 {
		return stage
	}

	stage.Type = StageCycle
	stage.SubStages = make([]SubStage, len(task.Children))
	for j, g := range task.Children {
		next := task.Children[0]
		if j < len(task.Children)-1 {
			next = task.Children[j+1]
		}
		stage.SubStages[j] = SubStage{
			ID:   slug.Slugify(g.Content),
			Name: g.Content,
			Next: slug.Slugify(next.Content),
		}
	}
	return stage
}

// Suggest looks for the first catalogue entry whose stage count is within the
// compiler's tolerance of 1 + len(root.Children).
//
// The match's stages are reused as they are, not rebuilt from root: the
// suggestion offers a proven stage shape under a new identity. The result gets
// id slugify(root.Content+"_workflow"), name "<root.Content> Workflow", the
// suggestion description and fresh metadata. The second result is false when
// nothing in the catalogue is close enough.
func (c *Compiler) Suggest(root outline.Task, catalogue []Definition) (Definition, bool) {
	stageCount := 1 + len(root.Children)

	for _, candidate := range catalogue {
		if abs(len(candidate.Stages)-stageCount) > c.tolerance {
			continue
		}

		suggestion := candidate.Clone()
		suggestion.ID = slug.Slugify(root.Content + "_workflow")
		suggestion.Name = root.Content + " Workflow"
		suggestion.Description = SuggestedDescription
		suggestion.Metadata = c.metadata()
		return suggestion, true
	}

	return Definition{}, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// defaultCompiler backs the package-level functions.
var defaultCompiler = NewCompiler()

// Compile compiles root with the default [Compiler].
func Compile(root outline.Task, name, id string) Definition {
	return defaultCompiler.Compile(root, name, id)
}

// Suggest runs [Compiler.Suggest] on the default [Compiler] with the
// standard tolerance of 1.
func Suggest(root outline.Task, catalogue []Definition) (Definition, bool) {
	return defaultCompiler.Suggest(root, catalogue)
}
