// Package router resolves where a task goes next within a workflow.
//
// The router walks a [workflow.Definition] the way a task instance moves
// through it: linear stages follow their Next link, cycle stages spin around
// their sub-stage ring, and terminal stages end the workflow. It serves as the
// central decision point for "what comes after this stage".
//
// Key types:
//   - [Router] - Next-stage resolution over one definition
//   - [Position] - A stage, and optionally a sub-stage within it
package router

import (
	"errors"

	"outlineflow/internal/workflow"
)

// Sentinel errors for stage routing.
var (
	// ErrWorkflowComplete indicates there is no stage after the given one.
	// Callers should treat the instance as finished rather than failed.
	ErrWorkflowComplete = errors.New("workflow is complete, no next stage")

	// ErrUnknownStage indicates the stage or sub-stage id is not part of the
	// workflow. This usually means the outline was edited after compiling.
	ErrUnknownStage = errors.New("unknown stage")
)

// Position is a place inside a workflow.
type Position struct {
	// StageID is the id of the top-level stage.
	StageID string

	// SubStageID is set while inside a cycle stage.
	SubStageID string
}

// Router resolves transitions for a single [workflow.Definition].
//
// Create with [New]. The router keeps its own copy of the definition.
type Router struct {
	def workflow.Definition
}

// New creates a [Router] for def.
func New(def workflow.Definition) *Router {
	return &Router{def: def.Clone()}
}

// Start returns the position of a fresh instance: the first stage, and its
// first sub-stage when it is a cycle.
func (r *Router) Start() (Position, error) {
	if len(r.def.Stages) == 0 {
		return Position{}, ErrWorkflowComplete
	}
	return enter(r.def.Stages[0]), nil
}

// Next returns the position after (stageID, subStageID).
//
// The rules are:
//   - terminal stage: [ErrWorkflowComplete]
//   - cycle stage with a sub-stage: the sub-stage's Next, staying in the stage
//   - otherwise: the stage's Next, then CanProceedTo[0], then the following
//     stage in list order; [ErrWorkflowComplete] when none exists
//
// Entering a cycle stage lands on its first sub-stage. Unknown ids return
// [ErrUnknownStage].
func (r *Router) Next(stageID, subStageID string) (Position, error) {
	idx := r.def.StageIndex(stageID)
	if idx < 0 {
		return Position{}, ErrUnknownStage
	}
	stage := r.def.Stages[idx]

	if stage.Type == workflow.StageTerminal {
		return Position{}, ErrWorkflowComplete
	}

	if stage.Type == workflow.StageCycle && subStageID != "" {
		sub, ok := stage.SubStage(subStageID)
		if !ok {
			return Position{}, ErrUnknownStage
		}
		if sub.Next != "" {
			return Position{StageID: stage.ID, SubStageID: sub.Next}, nil
		}
	}

	nextID := stage.Next
	if nextID == "" && len(stage.CanProceedTo) > 0 {
		nextID = stage.CanProceedTo[0]
	}
	if nextID == "" && idx < len(r.def.Stages)-1 {
		nextID = r.def.Stages[idx+1].ID
	}
	if nextID == "" {
		return Position{}, ErrWorkflowComplete
	}

	next, ok := r.def.Stage(nextID)
	if !ok {
		return Position{}, ErrUnknownStage
	}
	return enter(next), nil
}

// Leave returns the position after stageID when a cycle stage is exited
// instead of looping again. For non-cycle stages it is the same as [Router.Next]
// without a sub-stage.
func (r *Router) Leave(stageID string) (Position, error) {
	return r.Next(stageID, "")
}

func enter(stage workflow.Stage) Position {
	pos := Position{StageID: stage.ID}
	if stage.Type == workflow.StageCycle && len(stage.SubStages) > 0 {
		pos.SubStageID = stage.SubStages[0].ID
	}
	return pos
}

// Remaining returns the stages from stageID to the end of the workflow in
// top-level order, following Next links. The walk stops at a stage without a
// Next link or at the first repeated id, so colliding ids cannot loop.
func (r *Router) Remaining(stageID string) ([]workflow.Stage, error) {
	stage, ok := r.def.Stage(stageID)
	if !ok {
		return nil, ErrUnknownStage
	}

	seen := map[string]bool{}
	var out []workflow.Stage
	for {
		if seen[stage.ID] {
			break
		}
		seen[stage.ID] = true
		out = append(out, stage)

		if stage.Next == "" {
			break
		}
		if stage, ok = r.def.Stage(stage.Next); !ok {
			break
		}
	}
	return out, nil
}
