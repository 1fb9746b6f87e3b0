// Package cli implements the outlineflow command line.
//
// Every command is a cobra.Command built from an [App], which carries the
// configuration and the collaborators the commands use. Tests build an App
// with in-memory collaborators and drive it through [NewRootCommand].
//
// Key types:
//   - [App] - Dependencies shared by all commands
//   - [ExitError] - A failure with a specific exit code
//   - [ExecuteResult] - Outcome of [RunWithConfig]
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"outlineflow/internal/catalogue"
	"outlineflow/internal/config"
	"outlineflow/internal/ctxlog"
	"outlineflow/internal/output"
	"outlineflow/internal/progress"
	"outlineflow/internal/status"
	"outlineflow/internal/workflow"
)

// RecordsReader reads task-instance records for a workflow.
type RecordsReader interface {
	ReadWorkflow(workflowID string) ([]progress.Instance, error)
}

// RecordsWriter updates task-instance records.
type RecordsWriter interface {
	SetCompleted(taskID string, completed bool) error
	Add(rec status.Record) error
}

// App holds the dependencies of the CLI commands.
//
// Nil collaborators are created from Config on first use, so tests only set
// the ones they care about.
type App struct {
	Config    *config.Config
	Catalogue catalogue.Store
	Records   RecordsReader
	Writer    RecordsWriter
	Printer   *output.Printer
	Logger    *slog.Logger

	// Compiler builds and suggests workflows. Tests set one with a fixed
	// clock.
	Compiler *workflow.Compiler
}

// NewApp creates an [App] for cfg writing to stdout and logging to stderr.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &App{
		Config: cfg,
		Printer: output.NewPrinter(
			output.WithColor(cfg.Output.Color),
			output.WithBarWidth(cfg.Output.BarWidth),
		),
		Logger: ctxlog.New(cfg.Log.Level, cfg.Log.Format, os.Stderr),
	}
}

func (a *App) config() *config.Config {
	if a.Config == nil {
		a.Config = config.DefaultConfig()
	}
	return a.Config
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		cfg := a.config()
		a.Logger = ctxlog.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	}
	return a.Logger
}

func (a *App) printer() *output.Printer {
	if a.Printer == nil {
		cfg := a.config()
		a.Printer = output.NewPrinter(
			output.WithColor(cfg.Output.Color),
			output.WithBarWidth(cfg.Output.BarWidth),
		)
	}
	return a.Printer
}

func (a *App) compiler() *workflow.Compiler {
	if a.Compiler == nil {
		a.Compiler = workflow.NewCompiler(workflow.WithTolerance(a.config().Suggest.Tolerance))
	}
	return a.Compiler
}

func (a *App) catalogue() (catalogue.Store, error) {
	if a.Catalogue == nil {
		cfg := a.config()
		store, err := catalogue.Open(cfg.Catalogue.Driver, cfg.Catalogue.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalogue: %w", err)
		}
		a.Catalogue = store
	}
	return a.Catalogue, nil
}

func (a *App) records() RecordsReader {
	if a.Records == nil {
		a.Records = status.NewReader(a.config().Records.Path)
	}
	return a.Records
}

func (a *App) writer() RecordsWriter {
	if a.Writer == nil {
		a.Writer = status.NewWriter(a.config().Records.Path)
	}
	return a.Writer
}

// Close releases the catalogue when the app opened one.
func (a *App) Close() error {
	if a.Catalogue == nil {
		return nil
	}
	return a.Catalogue.Close()
}
