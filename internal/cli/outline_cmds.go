package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"outlineflow/internal/ctxlog"
	"outlineflow/internal/outline"
)

// readDocument reads an outline file.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read outline: %w", err)
	}
	return string(data), nil
}

// writeDocument replaces path with text, keeping its permissions.
func writeDocument(path, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(text), mode); err != nil {
		return fmt.Errorf("failed to write outline: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write outline: %w", err)
	}
	return nil
}

// lineIndex converts a 1-based --line value to a line index.
func lineIndex(line int) (int, error) {
	if line < 1 {
		return 0, fmt.Errorf("--line must be 1 or greater, got %d", line)
	}
	return line - 1, nil
}

// analyzeFile parses the task enclosing line (1-based) of the file at path.
// When there is none it prints why and returns an [ExitError] with
// [ExitNotFound].
func analyzeFile(cmd *cobra.Command, app *App, path string, line int) (outline.Task, error) {
	idx, err := lineIndex(line)
	if err != nil {
		return outline.Task{}, err
	}

	text, err := readDocument(path)
	if err != nil {
		return outline.Task{}, err
	}

	root, ok := outline.Analyze(text, idx)
	if !ok {
		app.printer().Error("no checklist task encloses line %d of %s", line, path)
		return outline.Task{}, NewExitError(ExitNotFound)
	}

	ctxlog.FromContext(cmd.Context()).Debug("outline analyzed",
		"file", path, "line", line, "root", root.Content, "children", len(root.Children))
	return root, nil
}

func newAnalyzeCommand(app *App) *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Show the task tree enclosing a line",
		Long: `Find the top-level checklist task that encloses --line (1-based) and print
its subtree. Exits with status 2 when no task encloses the line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := analyzeFile(cmd, app, args[0], line)
			if err != nil {
				return err
			}
			app.printer().Tree(root)
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 1, "reference line (1-based)")
	return cmd
}

func newTagCommand(app *App) *cobra.Command {
	var (
		line       int
		workflowID string
	)

	cmd := &cobra.Command{
		Use:   "tag <file>",
		Short: "Mark a checklist line as the root of a workflow",
		Long: `Append #workflow/<id> to the checklist item on --line, rewriting the file in
place. Lines that are not checklist items or already carry a workflow tag
are left alone and the command fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			idx, err := lineIndex(line)
			if err != nil {
				return err
			}

			text, err := readDocument(path)
			if err != nil {
				return err
			}

			tagged, ok := outline.TagLine(text, idx, workflowID)
			if !ok {
				app.printer().Error("line %d of %s is not an untagged checklist item", line, path)
				return NewExitError(ExitFailure)
			}
			if err := writeDocument(path, tagged); err != nil {
				return err
			}

			ctxlog.FromContext(cmd.Context()).Debug("line tagged", "file", path, "line", line, "workflow", workflowID)
			app.printer().Success("tagged line %d with %s%s", line, outline.WorkflowTagPrefix, workflowID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 0, "line to tag (1-based)")
	cmd.Flags().StringVarP(&workflowID, "workflow", "w", "", "workflow id")
	_ = cmd.MarkFlagRequired("line")
	_ = cmd.MarkFlagRequired("workflow")
	return cmd
}
