package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outlineflow/internal/workflow"
)

func threeStages() workflow.Definition {
	return workflow.Definition{
		ID:   "release",
		Name: "Release",
		Stages: []workflow.Stage{
			{ID: "s1", Name: "Plan", Type: workflow.StageLinear, Next: "s2"},
			{ID: "s2", Name: "Build", Type: workflow.StageCycle, Next: "s3", SubStages: []workflow.SubStage{
				{ID: "code", Name: "Code", Next: "test"},
				{ID: "test", Name: "Test", Next: "code"},
			}},
			{ID: "s3", Name: "Ship", Type: workflow.StageTerminal},
		},
	}
}

func TestCompletedStages(t *testing.T) {
	instances := []Instance{
		{StageID: "s1", Completed: true},
		{StageID: "s1", Completed: true},
		{StageID: "s2", Completed: false},
		{StageID: "s3", Completed: false},
	}

	got := CompletedStages(instances, threeStages())

	assert.True(t, got.Has("s1"))
	assert.False(t, got.Has("s2"))
	assert.False(t, got.Has("s3"))
	assert.Equal(t, []string{"s1"}, got.Sorted())
}

func TestCompletedStages_PartialStageExcluded(t *testing.T) {
	instances := []Instance{
		{StageID: "s1", Completed: true},
		{StageID: "s1", Completed: true},
		{StageID: "s1", Completed: true},
		{StageID: "s1", Completed: false},
	}

	got := CompletedStages(instances, threeStages())

	assert.Equal(t, 0, got.Len())
}

func TestCompletedStages_Empty(t *testing.T) {
	assert.Equal(t, 0, CompletedStages(nil, threeStages()).Len())
	assert.Equal(t, 0, CompletedStages([]Instance{}, workflow.Definition{}).Len())
}

func TestCompletedStages_UnknownStageKept(t *testing.T) {
	got := CompletedStages([]Instance{{StageID: "elsewhere", Completed: true}}, threeStages())

	assert.True(t, got.Has("elsewhere"))
}

func TestPercentage(t *testing.T) {
	wf := threeStages()

	tests := []struct {
		name      string
		completed StageSet
		current   string
		want      float64
	}{
		{name: "nothing", completed: NewStageSet(), current: "", want: 0},
		{name: "current only", completed: NewStageSet(), current: "s1", want: 100.0 / 6},
		{name: "one done", completed: NewStageSet("s1"), current: "", want: 100.0 / 3},
		{name: "one done plus current", completed: NewStageSet("s1"), current: "s2", want: 50},
		{name: "current already done", completed: NewStageSet("s1"), current: "s1", want: 100.0 / 3},
		{name: "unknown current ignored", completed: NewStageSet("s1"), current: "nope", want: 100.0 / 3},
		{name: "all done", completed: NewStageSet("s1", "s2", "s3"), current: "", want: 100},
		{name: "clamped", completed: NewStageSet("s1", "s2", "x"), current: "s3", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentage(wf, tt.completed, tt.current), 1e-9)
		})
	}
}

func TestPercentage_NoStages(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(workflow.Definition{}, NewStageSet("a"), "a"))
}

func TestLabel(t *testing.T) {
	wf := threeStages()

	tests := []struct {
		name      string
		completed StageSet
		current   string
		want      string
	}{
		{name: "all completed", completed: NewStageSet("s1", "s2", "s3"), current: "s3", want: "Completed"},
		{name: "current stage", completed: NewStageSet("s1"), current: "s2", want: "Current: Build"},
		{name: "no current", completed: NewStageSet("s1"), current: "", want: "1/3 completed"},
		{name: "unknown current", completed: NewStageSet(), current: "zzz", want: "0/3 completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(wf, tt.completed, tt.current))
		})
	}
}

func TestReport(t *testing.T) {
	wf := threeStages()

	summary := Report(wf, NewStageSet("s1"), "s2")

	assert.Equal(t, 50, summary.Rounded)
	assert.Equal(t, "Current: Build", summary.Label)
	require.Len(t, summary.Stages, 3)

	assert.Equal(t, 1, summary.Stages[0].Index)
	assert.Equal(t, StateCompleted, summary.Stages[0].State)
	assert.Equal(t, "Sequential", summary.Stages[0].TypeText)

	assert.Equal(t, StateCurrent, summary.Stages[1].State)
	assert.Equal(t, "Repeatable", summary.Stages[1].TypeText)
	assert.Len(t, summary.Stages[1].SubStages, 2)

	assert.Equal(t, StatePending, summary.Stages[2].State)
	assert.Equal(t, "Final", summary.Stages[2].TypeText)
	assert.Empty(t, summary.Stages[2].SubStages)
}

func TestReport_RoundsToNearest(t *testing.T) {
	summary := Report(threeStages(), NewStageSet(), "s1")

	assert.Equal(t, 17, summary.Rounded)
}

func TestReport_EndToEnd(t *testing.T) {
	wf := threeStages()
	instances := []Instance{
		{TaskID: "t1", StageID: "s1", Completed: true},
		{TaskID: "t2", StageID: "s2", Completed: true},
		{TaskID: "t3", StageID: "s2", Completed: true},
		{TaskID: "t4", StageID: "s3", Completed: true},
	}

	completed := CompletedStages(instances, wf)
	summary := Report(wf, completed, "s3")

	assert.Equal(t, "Completed", summary.Label)
	assert.Equal(t, 100, summary.Rounded)
	for _, s := range summary.Stages {
		assert.Equal(t, StateCompleted, s.State)
	}
}
