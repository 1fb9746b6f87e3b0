package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"outlineflow/internal/config"
	"outlineflow/internal/ctxlog"
)

// ExecuteResult is the outcome of running the CLI once.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// NewRootCommand builds the outlineflow command tree around app.
//
// The persistent flags --config, --catalogue and --log-level adjust app
// before any subcommand runs.
func NewRootCommand(app *App) *cobra.Command {
	var (
		configPath    string
		cataloguePath string
		logLevel      string
	)

	rootCmd := &cobra.Command{
		Use:   "outlineflow",
		Short: "Turn checklist outlines into reusable workflows",
		Long: `outlineflow reads Markdown checklists, compiles the task under a line into
a staged workflow, suggests existing workflows with a similar shape, and
reports how far recorded task instances have progressed through one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := config.NewLoader().LoadFromFile(configPath)
				if err != nil {
					return err
				}
				app.Config = cfg
				app.Catalogue = nil
				app.Records = nil
				app.Writer = nil
				app.Compiler = nil
			}
			if cataloguePath != "" {
				app.config().Catalogue.Path = cataloguePath
				app.Catalogue = nil
			}
			if logLevel != "" {
				app.config().Log.Level = logLevel
				app.Logger = nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(ctxlog.WithLogger(ctx, app.logger()))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: standard locations)")
	rootCmd.PersistentFlags().StringVar(&cataloguePath, "catalogue", "", "workflow catalogue file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newAnalyzeCommand(app),
		newCompileCommand(app),
		newSuggestCommand(app),
		newProgressCommand(app),
		newNextCommand(app),
		newTagCommand(app),
		newStartCommand(app),
		newListCommand(app),
		newCompleteCommand(app),
	)

	return rootCmd
}

// RunWithConfig runs the CLI with args against cfg and reports the exit code.
func RunWithConfig(cfg *config.Config, args []string) ExecuteResult {
	app := NewApp(cfg)
	defer app.Close()

	return run(app, args)
}

func run(app *App, args []string) ExecuteResult {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		app.printer().Error("%v", err)
		return ExecuteResult{ExitCode: ExitFailure, Err: err}
	}
	return ExecuteResult{ExitCode: ExitOK}
}

// Execute loads the configuration, runs the CLI with the process arguments
// and exits with the resulting code.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitFailure)
	}

	result := RunWithConfig(cfg, os.Args[1:])
	os.Exit(result.ExitCode)
}
