package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"outlineflow/internal/ctxlog"
	"outlineflow/internal/outline"
	"outlineflow/internal/progress"
	"outlineflow/internal/router"
	"outlineflow/internal/status"
	"outlineflow/internal/workflow"
)

func newProgressCommand(app *App) *cobra.Command {
	var (
		recordsPath string
		current     string
	)

	cmd := &cobra.Command{
		Use:   "progress <workflow-id>",
		Short: "Show how far recorded tasks have progressed through a workflow",
		Long: `Read the task records, work out which stages are complete and print the
progress of the workflow. A stage is complete when every task recorded in it
is done. --current marks the stage in progress, which counts for half.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := getWorkflow(cmd, app, args[0])
			if err != nil {
				return err
			}

			reader := app.records()
			if recordsPath != "" {
				reader = status.NewReader(recordsPath)
			}
			instances, err := reader.ReadWorkflow(def.ID)
			if err != nil {
				return err
			}

			completed := progress.CompletedStages(instances, def)
			summary := progress.Report(def, completed, current)
			ctxlog.FromContext(cmd.Context()).Debug("progress computed",
				"workflow", def.ID, "instances", len(instances), "completed", completed.Sorted(), "percentage", summary.Percentage)

			app.printer().Progress(summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "task records file (default from config)")
	cmd.Flags().StringVar(&current, "current", "", "id of the stage in progress")
	return cmd
}

// describe renders a position with stage and sub-stage names.
func describe(def workflow.Definition, pos router.Position) string {
	stage, ok := def.Stage(pos.StageID)
	if !ok {
		return pos.StageID
	}
	if pos.SubStageID == "" {
		return stage.Name + " (" + stage.ID + ")"
	}
	if sub, ok := stage.SubStage(pos.SubStageID); ok {
		return stage.Name + " / " + sub.Name + " (" + stage.ID + "/" + sub.ID + ")"
	}
	return stage.Name + " / " + pos.SubStageID
}

func newNextCommand(app *App) *cobra.Command {
	var (
		sub       string
		leave     bool
		remaining bool
	)

	cmd := &cobra.Command{
		Use:   "next <workflow-id> <stage-id>",
		Short: "Show the stage that follows a stage",
		Long: `Resolve where a task goes after <stage-id>. Inside a cycle stage pass the
current sub-stage with --sub to move around the ring, or --leave to exit the
cycle to the following stage.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := getWorkflow(cmd, app, args[0])
			if err != nil {
				return err
			}
			r := router.New(def)
			stageID := args[1]

			var pos router.Position
			if leave {
				pos, err = r.Leave(stageID)
			} else {
				pos, err = r.Next(stageID, sub)
			}

			switch {
			case errors.Is(err, router.ErrWorkflowComplete):
				app.printer().Success("%s is the last stage of %s", stageID, def.ID)
				return nil
			case errors.Is(err, router.ErrUnknownStage):
				app.printer().Error("%s: %s", err, strings.TrimSpace(stageID+" "+sub))
				return NewExitError(ExitNotFound)
			case err != nil:
				return err
			}

			app.printer().Info("next: %s", describe(def, pos))

			if remaining {
				stages, err := r.Remaining(pos.StageID)
				if err != nil {
					return err
				}
				names := make([]string, len(stages))
				for i, s := range stages {
					names[i] = s.Name
				}
				app.printer().Info("then: %s", strings.Join(names, " → "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "current sub-stage inside a cycle stage")
	cmd.Flags().BoolVar(&leave, "leave", false, "exit the cycle instead of repeating it")
	cmd.Flags().BoolVar(&remaining, "remaining", false, "also list the stages left after the next one")
	cmd.MarkFlagsMutuallyExclusive("sub", "leave")
	return cmd
}

func newStartCommand(app *App) *cobra.Command {
	var (
		line       int
		workflowID string
		taskID     string
	)

	cmd := &cobra.Command{
		Use:   "start <file>",
		Short: "Insert a task that starts a workflow instance",
		Long: `Insert "- [ ] <name> #workflow/<id>" at --line: a blank line is replaced,
otherwise the task goes on the next line with the same indentation. With
--task, a record placing that task in the first stage is added too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			idx, err := lineIndex(line)
			if err != nil {
				return err
			}

			def, err := getWorkflow(cmd, app, workflowID)
			if err != nil {
				return err
			}

			text, err := readDocument(path)
			if err != nil {
				return err
			}
			if err := writeDocument(path, outline.InsertStartingTask(text, idx, def.Name, def.ID)); err != nil {
				return err
			}
			app.printer().Success("started %s at line %d", def.Name, line)

			if taskID == "" {
				return nil
			}

			first, err := router.New(def).Start()
			if err != nil {
				app.printer().Error("workflow %s has no stages to record", def.ID)
				return NewExitError(ExitFailure)
			}
			rec := status.Record{Task: taskID, Workflow: def.ID, Stage: first.StageID}
			if err := app.writer().Add(rec); err != nil {
				return err
			}
			ctxlog.FromContext(cmd.Context()).Debug("task recorded", "task", taskID, "workflow", def.ID, "stage", first.StageID)
			app.printer().Success("recorded %s in stage %s", taskID, first.StageID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 0, "line to insert at (1-based)")
	cmd.Flags().StringVarP(&workflowID, "workflow", "w", "", "workflow id")
	cmd.Flags().StringVar(&taskID, "task", "", "also record this task id in the first stage")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("workflow")
	return cmd
}

func newCompleteCommand(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a recorded task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := args[0]

			err := app.writer().SetCompleted(taskID, !undo)
			if errors.Is(err, status.ErrRecordNotFound) {
				app.printer().Error("no record for task %s", taskID)
				return NewExitError(ExitNotFound)
			}
			if err != nil {
				return err
			}

			if undo {
				app.printer().Success("%s marked not done", taskID)
			} else {
				app.printer().Success("%s marked done", taskID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task as not done")
	return cmd
}
