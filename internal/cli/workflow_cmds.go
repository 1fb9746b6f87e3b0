package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"outlineflow/internal/catalogue"
	"outlineflow/internal/ctxlog"
	"outlineflow/internal/output"
	"outlineflow/internal/slug"
	"outlineflow/internal/workflow"
)

// Output formats for definitions.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatText = "text"
)

// writeDefinition renders def in format to w, or through the printer for
// [FormatText].
func writeDefinition(w io.Writer, p *output.Printer, def workflow.Definition, format string) error {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(&def)
		if err != nil {
			return fmt.Errorf("failed to encode workflow: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(def)
	case FormatText:
		p.Workflow(def)
		return nil
	default:
		return fmt.Errorf("unknown format %q: want yaml, json or text", format)
	}
}

// saveDefinition stores def, noting an existing entry with the same stage
// shape under another id.
func saveDefinition(cmd *cobra.Command, app *App, def workflow.Definition) error {
	store, err := app.catalogue()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if twin, ok, err := catalogue.FindShape(ctx, store, def); err != nil {
		return err
	} else if ok && twin.ID != def.ID {
		app.printer().Info("note: %s has the same stage shape", twin.ID)
	}

	if err := store.Put(ctx, def); err != nil {
		return err
	}
	app.printer().Success("saved workflow %s", def.ID)
	return nil
}

func newCompileCommand(app *App) *cobra.Command {
	var (
		line   int
		name   string
		id     string
		format string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile the task under a line into a workflow",
		Long: `Compile the checklist task enclosing --line into a workflow definition.

The root task becomes the first stage, each direct child a further stage, and
children of a child become a repeating cycle of sub-stages. The name defaults
to "<root> Workflow" and the id to the slug of the name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := analyzeFile(cmd, app, args[0], line)
			if err != nil {
				return err
			}

			if name == "" {
				name = root.Content + " Workflow"
			}
			if id == "" {
				id = slug.Slugify(name)
			}

			def := app.compiler().Compile(root, name, id)
			ctxlog.FromContext(cmd.Context()).Debug("workflow compiled", "id", def.ID, "stages", len(def.Stages))

			if err := writeDefinition(cmd.OutOrStdout(), app.printer(), def, format); err != nil {
				return err
			}
			if save {
				return saveDefinition(cmd, app, def)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 1, "reference line (1-based)")
	cmd.Flags().StringVar(&name, "name", "", "workflow name")
	cmd.Flags().StringVar(&id, "id", "", "workflow id")
	cmd.Flags().StringVarP(&format, "format", "f", FormatYAML, "output format: yaml, json, text")
	cmd.Flags().BoolVar(&save, "save", false, "store the workflow in the catalogue")
	return cmd
}

func newSuggestCommand(app *App) *cobra.Command {
	var (
		line   int
		format string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <file>",
		Short: "Suggest a catalogue workflow for the task under a line",
		Long: `Look for the first catalogue workflow whose stage count is close to the
number of stages the task under --line would compile to, and print it under a
new name. Exits with status 2 when nothing is close enough.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := analyzeFile(cmd, app, args[0], line)
			if err != nil {
				return err
			}

			store, err := app.catalogue()
			if err != nil {
				return err
			}
			defs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			suggestion, ok := app.compiler().Suggest(root, defs)
			if !ok {
				app.printer().Error("no workflow in the catalogue resembles %q", root.Content)
				return NewExitError(ExitNotFound)
			}
			ctxlog.FromContext(cmd.Context()).Debug("workflow suggested", "id", suggestion.ID, "candidates", len(defs))

			if err := writeDefinition(cmd.OutOrStdout(), app.printer(), suggestion, format); err != nil {
				return err
			}
			if save {
				return saveDefinition(cmd, app, suggestion)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 1, "reference line (1-based)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format: yaml, json, text")
	cmd.Flags().BoolVar(&save, "save", false, "store the suggestion in the catalogue")
	return cmd
}

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogue workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.catalogue()
			if err != nil {
				return err
			}
			defs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			entries := make([]output.WorkflowEntry, len(defs))
			for i, def := range defs {
				fp, err := workflow.Fingerprint(def)
				if err != nil {
					return err
				}
				entries[i] = output.WorkflowEntry{Definition: def, Fingerprint: fp}
			}
			app.printer().WorkflowList(entries)
			return nil
		},
	}
}

// getWorkflow loads id from the catalogue, printing a message and returning
// an [ExitError] with [ExitNotFound] when it is not there.
func getWorkflow(cmd *cobra.Command, app *App, id string) (workflow.Definition, error) {
	store, err := app.catalogue()
	if err != nil {
		return workflow.Definition{}, err
	}

	def, err := store.Get(cmd.Context(), id)
	if errors.Is(err, catalogue.ErrNotFound) {
		app.printer().Error("workflow %s is not in the catalogue", id)
		return workflow.Definition{}, NewExitError(ExitNotFound)
	}
	return def, err
}
