package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nwiizo/yamori/internal/report"
	"github.com/nwiizo/yamori/internal/version"
)

// addRunCommand adds the run command
func (app *App) addRunCommand(rootCmd *cobra.Command) {
	runCmd := &cobra.Command{
		Use:   "run [test-name...]",
		Short: "Run tests and print a summary",
		Long: `Run the declared tests in CLI mode and print a summary. When test names are
given only those tests run, in the order given. Exits 1 if any test does not pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runCLI(cmd.Context(), args)
		},
	}
	rootCmd.AddCommand(runCmd)
}

// addListCommand adds the list command
func (app *App) addListCommand(rootCmd *cobra.Command) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List declared tests",
		Long:  `List the declared tests with their timeout and the build configuration each one resolves to.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			doc, err := app.loadDocument()
			if err != nil {
				return err
			}
			report.NewPrinter(app.Out).Tests(doc)
			return nil
		},
	}
	rootCmd.AddCommand(listCmd)
}

// addVersionCommand adds the version command
func (app *App) addVersionCommand(rootCmd *cobra.Command) {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version of yamori with build information.`,
		Args:  cobra.NoArgs,
		// version works without a resolvable configuration
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			detailed, _ := cmd.Flags().GetBool("detailed")
			if detailed {
				fmt.Fprintln(app.Out, version.GetDetailedVersion())
			} else {
				fmt.Fprintln(app.Out, version.GetFormattedVersion())
			}
		},
	}

	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
	rootCmd.AddCommand(versionCmd)
}
