// Package progress measures how far a set of task instances has advanced
// through a workflow.
//
// A stage counts as completed only when every recorded instance in that stage
// is done; a stage with no recorded instances is never completed. On top of
// the completed set, [Percentage] gives half a stage of credit for the current
// stage, and [Label] produces the one-line summary shown next to a workflow.
package progress

import (
	"fmt"
	"sort"

	"outlineflow/internal/workflow"
)

// Instance is one task placed in a workflow stage.
type Instance struct {
	TaskID    string `json:"task" yaml:"task"`
	StageID   string `json:"stage" yaml:"stage"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// StageSet is a set of stage ids.
type StageSet map[string]struct{}

// NewStageSet returns a set holding ids.
func NewStageSet(ids ...string) StageSet {
	s := make(StageSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s StageSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s StageSet) Len() int {
	return len(s)
}

// Sorted returns the ids in lexical order.
func (s StageSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type stageCount struct {
	total     int
	completed int
}

// CompletedStages returns the ids of stages whose recorded instances are all
// completed. Instances are grouped by StageID only; the workflow is not
// consulted, so stage ids unknown to it can appear in the result.
func CompletedStages(instances []Instance, _ workflow.Definition) StageSet {
	counts := make(map[string]*stageCount)
	for _, inst := range instances {
		c, ok := counts[inst.StageID]
		if !ok {
			c = &stageCount{}
			counts[inst.StageID] = c
		}
		c.total++
		if inst.Completed {
			c.completed++
		}
	}

	done := make(StageSet)
	for id, c := range counts {
		if c.total > 0 && c.completed == c.total {
			done[id] = struct{}{}
		}
	}
	return done
}

// Percentage returns the progress through wf in the range [0, 100].
//
// Each completed stage is worth 100/len(stages). A current stage that exists
// in wf and is not yet completed adds half of that. A workflow without stages
// is at 0.
func Percentage(wf workflow.Definition, completed StageSet, currentStageID string) float64 {
	total := len(wf.Stages)
	if total == 0 {
		return 0
	}

	pct := float64(completed.Len()) / float64(total) * 100
	if wf.StageIndex(currentStageID) >= 0 && !completed.Has(currentStageID) {
		pct += 1 / float64(total) * 50
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Label summarises progress: "Completed" when the completed count equals the
// stage count, "Current: <name>" when currentStageID names a stage, and
// "<completed>/<total> completed" otherwise.
func Label(wf workflow.Definition, completed StageSet, currentStageID string) string {
	total := len(wf.Stages)
	if completed.Len() == total {
		return "Completed"
	}
	if stage, ok := wf.Stage(currentStageID); ok {
		return "Current: " + stage.Name
	}
	return fmt.Sprintf("%d/%d completed", completed.Len(), total)
}
