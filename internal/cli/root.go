// Package cli wires yamori's cobra commands: settings resolution, logging,
// configuration loading and the CLI or dashboard front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nwiizo/yamori/internal/command"
	"github.com/nwiizo/yamori/internal/config"
	"github.com/nwiizo/yamori/internal/engine"
	"github.com/nwiizo/yamori/internal/history"
	"github.com/nwiizo/yamori/internal/logger"
	"github.com/nwiizo/yamori/internal/report"
	"github.com/nwiizo/yamori/internal/tui/dashboard"
	"github.com/nwiizo/yamori/internal/tui/theme"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// App represents the yamori CLI application
type App struct {
	Out     io.Writer
	WorkDir string
	// Runner executes processes; nil uses the real process runner.
	Runner command.Runner

	viper    *viper.Viper
	settings *config.Settings
}

// NewApp creates a new yamori CLI application
func NewApp() *App {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &App{Out: os.Stdout, WorkDir: wd}
}

// CreateRootCommand creates and configures the root command
func (app *App) CreateRootCommand() *cobra.Command {
	app.viper = viper.New()

	rootCmd := &cobra.Command{
		Use:   "yamori",
		Short: "Configuration-driven test runner for command-line programs",
		Long: `yamori runs the commands declared in a TOML or YAML test configuration,
compares their output with the expected output and reports the results,
either in an interactive dashboard or as a plain summary (--cli).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.settings.CLIMode {
				return app.runCLI(cmd.Context(), nil)
			}
			return app.runDashboard()
		},
	}
	rootCmd.SetOut(app.Out)
	config.RegisterFlags(rootCmd)

	app.addRunCommand(rootCmd)
	app.addListCommand(rootCmd)
	app.addVersionCommand(rootCmd)

	return rootCmd
}

// setup resolves settings and configures logging before any command runs.
func (app *App) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(app.viper, cmd.Root()); err != nil {
		return NewRuntimeError(err)
	}
	s, err := config.Resolve(app.viper, app.WorkDir)
	if err != nil {
		return NewRuntimeError(err)
	}
	app.settings = s

	interactive := cmd == cmd.Root() && !s.CLIMode
	if err := logger.Configure(s.LogLevel, s.LogFile, interactive); err != nil {
		return NewRuntimeError(err)
	}
	logger.Debug("settings resolved", "config", s.ConfigPath, "cli", s.CLIMode, "history", s.HistorySize)
	return nil
}

// configPath returns the configuration path, relative paths taken from WorkDir.
func (app *App) configPath() string {
	p := app.settings.ConfigPath
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(app.WorkDir, p)
}

func (app *App) loadDocument() (*yamoritypes.Document, error) {
	doc, err := config.Load(app.configPath())
	if err != nil {
		return nil, NewRuntimeError(fmt.Errorf("failed to load config from `%s`: %w", app.settings.ConfigPath, err))
	}
	return doc, nil
}

func (app *App) newEngine() *engine.Engine {
	runner := app.Runner
	if runner == nil {
		runner = command.NewExecRunner()
	}
	return engine.New(runner, history.NewStore(app.settings.HistorySize), engine.Options{
		BuildTimeout: app.settings.BuildTimeout,
	})
}

// runCLI runs one batch and prints the summary. names restricts the batch
// to the given tests, in the given order.
func (app *App) runCLI(ctx context.Context, names []string) error {
	doc, err := app.loadDocument()
	if err != nil {
		return err
	}

	tests := doc.Tests
	if len(names) > 0 {
		tests = make([]yamoritypes.TestDefinition, 0, len(names))
		for _, n := range names {
			t, ok := doc.Find(n)
			if !ok {
				return NewRuntimeError(fmt.Errorf("unknown test %q in %s", n, app.settings.ConfigPath))
			}
			tests = append(tests, t)
		}
	}

	printer := report.NewPrinter(app.Out)
	printer.Header(app.settings.ConfigPath)

	summary := app.newEngine().RunBatch(ctx, tests, doc.Build, nil)
	result := printer.Print(summary)
	if ctx.Err() != nil {
		return NewRuntimeError(fmt.Errorf("interrupted after %d of %d tests: %w", summary.Total, len(tests), ctx.Err()))
	}
	if !result.AllPassed() {
		return &TestFailureError{Failed: result.Total - result.Passed, Total: result.Total}
	}
	return nil
}

func (app *App) runDashboard() error {
	doc, err := app.loadDocument()
	if err != nil {
		return err
	}
	theme.InitSymbols(app.settings.ASCII)

	model := dashboard.New(dashboard.Deps{
		Engine:      app.newEngine(),
		Tests:       doc.Tests,
		Global:      doc.Build,
		ConfigPath:  app.settings.ConfigPath,
		HistorySize: app.settings.HistorySize,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgramSender(func(msg tea.Msg) { p.Send(msg) })

	_, runErr := p.Run()
	if model.Machine().Running() {
		fmt.Fprintln(app.Out, "waiting for the running test to finish...")
	}
	model.Wait()
	if runErr != nil {
		return NewRuntimeError(fmt.Errorf("terminal unavailable: %w", runErr))
	}
	return nil
}
