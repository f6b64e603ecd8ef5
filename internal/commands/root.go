package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbose   bool
	ephemeral bool

	// current is the wiring for the running command
	current *app
)

var rootCmd = &cobra.Command{
	Use:   "healthmate",
	Short: "A personal health companion for the terminal",
	Long: `healthmate tracks medications, moods and vitals against the HealthMate
service and shows a daily dashboard with mood-aware medication reminders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsApp(cmd) {
			return nil
		}
		a, err := newApp(commandContext(cmd), appOptions{verbose: verbose, ephemeral: ephemeral})
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

// needsApp reports whether cmd talks to storage or the service
func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return true
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command; cancelling ctx aborts in-flight
// requests
func ExecuteContext(ctx context.Context) error {
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

func closeApp() {
	if current == nil {
		return
	}
	_ = current.Close()
	current = nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the session in memory only")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(medCmd)
	rootCmd.AddCommand(moodCmd)
	rootCmd.AddCommand(vitalsCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
