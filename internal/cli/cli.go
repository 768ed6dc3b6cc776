// Package cli wires the Commentify dashboard commands. Presentation
// stays thin: commands construct core components, invoke one operation,
// and let the notification sink render outcomes.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime flags
	configPath string
	verbose    bool

	// Version information
	version string
	commit  string
	date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "commentify",
		Short: "Dashboard client for the Commentify comment-job queue",
		Long: `Commentify submits automated comment jobs, monitors the job
queue, browses job history, and pairs this session with the browser
extension that holds the credential jobs act with.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"Config file (default ~/.commentify.yaml)")
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")

	a.rootCmd.AddCommand(
		a.newLoginCmd(),
		a.newRegisterCmd(),
		a.newWhoamiCmd(),
		a.newLogoutCmd(),
		a.newSubmitCmd(),
		a.newQueueCmd(),
		a.newHistoryCmd(),
		a.newPairCmd(),
		a.newVersionCmd(),
	)
}

// newVersionCmd creates the 'version' command
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("commentify %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
