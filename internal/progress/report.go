package progress

import (
	"math"

	"outlineflow/internal/workflow"
)

// StageState is the display state of one stage.
type StageState string

const (
	StateCompleted StageState = "completed"
	StateCurrent   StageState = "current"
	StatePending   StageState = "pending"
)

// StageProgress describes one stage within a [Summary].
type StageProgress struct {
	// Index is the 1-based position of the stage.
	Index int

	Stage workflow.Stage
	State StageState

	// TypeText is the human wording of the stage type, see [TypeText].
	TypeText string

	// SubStages is only filled for the current stage.
	SubStages []workflow.SubStage
}

// Summary is everything needed to render the progress of one workflow.
type Summary struct {
	Workflow   workflow.Definition
	Percentage float64

	// Rounded is Percentage rounded to the nearest integer.
	Rounded int

	Label  string
	Stages []StageProgress
}

// Report builds a [Summary] of wf from an already computed completed set.
//
// A completed stage shows as completed even when it is also the current one.
func Report(wf workflow.Definition, completed StageSet, currentStageID string) Summary {
	pct := Percentage(wf, completed, currentStageID)

	summary := Summary{
		Workflow:   wf,
		Percentage: pct,
		Rounded:    int(math.Round(pct)),
		Label:      Label(wf, completed, currentStageID),
		Stages:     make([]StageProgress, len(wf.Stages)),
	}

	for i, stage := range wf.Stages {
		sp := StageProgress{
			Index:    i + 1,
			Stage:    stage,
			State:    StatePending,
			TypeText: TypeText(stage.Type),
		}

		isCurrent := stage.ID == currentStageID
		switch {
		case completed.Has(stage.ID):
			sp.State = StateCompleted
		case isCurrent:
			sp.State = StateCurrent
		}
		if isCurrent && len(stage.SubStages) > 0 {
			sp.SubStages = stage.SubStages
		}

		summary.Stages[i] = sp
	}

	return summary
}

// TypeText returns the wording shown for a stage type.
func TypeText(t workflow.StageType) string {
	switch t {
	case workflow.StageCycle:
		return "Repeatable"
	case workflow.StageTerminal:
		return "Final"
	default:
		return "Sequential"
	}
}
