// Package workflow defines reusable workflow definitions and compiles them
// from parsed checklist outlines.
//
// A [Definition] is an ordered list of [Stage] values linked through their
// Next fields. Cycle stages additionally carry a closed ring of [SubStage]
// values for steps that repeat, such as write-test/implement iterations.
//
// Key entry points:
//   - [Compile] turns an [outline.Task] tree into a [Definition]
//   - [Suggest] proposes an existing catalogue definition for a new outline
//   - [CheckRing] verifies the sub-stage ring of a cycle stage
//   - [Fingerprint] hashes the stage shape of a definition
//
// Every id in a compiled definition is derived with [slug.Slugify], so two
// tasks with the same text produce the same id. This is relied on by callers
// that re-derive links from task text and is not corrected here.
package workflow

// StageType is the archetype of a stage.
type StageType string

// Stage archetypes. The compiler only produces [StageLinear], [StageCycle]
// and [StageTerminal]; the others appear in hand-authored definitions.
const (
	StageLinear      StageType = "linear"
	StageCycle       StageType = "cycle"
	StageTerminal    StageType = "terminal"
	StageParallel    StageType = "parallel"
	StageConditional StageType = "conditional"
	StageCustom      StageType = "custom"
)

// Valid reports whether t is a known archetype.
func (t StageType) Valid() bool {
	switch t {
	case StageLinear, StageCycle, StageTerminal, StageParallel, StageConditional, StageCustom:
		return true
	}
	return false
}

// DefaultVersion is the metadata version stamped on generated definitions.
const DefaultVersion = "1.0"

// Descriptions stamped on generated definitions.
const (
	CompiledDescription  = "Workflow generated from task structure"
	SuggestedDescription = "Workflow based on existing pattern"
)

// Definition is a named, versioned workflow.
type Definition struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Stages      []Stage  `json:"stages" yaml:"stages"`
	Metadata    Metadata `json:"metadata" yaml:"metadata"`
}

// Metadata carries version and date stamps. Dates use the YYYY-MM-DD form.
type Metadata struct {
	Version      string `json:"version" yaml:"version"`
	Created      string `json:"created" yaml:"created"`
	LastModified string `json:"lastModified" yaml:"last_modified"`
}

// Stage is one step of the top-level progression.
type Stage struct {
	ID   string    `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	Type StageType `json:"type" yaml:"type"`

	// Next is the id of the following stage; empty on the last stage.
	Next string `json:"next,omitempty" yaml:"next,omitempty"`

	// SubStages is only set on cycle stages.
	SubStages []SubStage `json:"subStages,omitempty" yaml:"sub_stages,omitempty"`

	// CanProceedTo lists alternative successors. Hand-authored only.
	CanProceedTo []string `json:"canProceedTo,omitempty" yaml:"can_proceed_to,omitempty"`
}

// SubStage is a step inside a cycle stage. Next names another sub-stage of
// the same stage.
type SubStage struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Next string `json:"next" yaml:"next"`
}

// Stage returns the first stage with the given id.
func (d Definition) Stage(id string) (Stage, bool) {
	for _, s := range d.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// StageIndex returns the position of the first stage with the given id, or -1.
func (d Definition) StageIndex(id string) int {
	for i, s := range d.Stages {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// SubStage returns the first sub-stage with the given id.
func (s Stage) SubStage(id string) (SubStage, bool) {
	for _, sub := range s.SubStages {
		if sub.ID == id {
			return sub, true
		}
	}
	return SubStage{}, false
}

// Clone returns a deep copy of d.
func (d Definition) Clone() Definition {
	out := d
	if d.Stages != nil {
		out.Stages = make([]Stage, len(d.Stages))
		for i, s := range d.Stages {
			out.Stages[i] = s.clone()
		}
	}
	return out
}

func (s Stage) clone() Stage {
	out := s
	if s.SubStages != nil {
		out.SubStages = append([]SubStage(nil), s.SubStages...)
	}
	if s.CanProceedTo != nil {
		out.CanProceedTo = append([]string(nil), s.CanProceedTo...)
	}
	return out
}
