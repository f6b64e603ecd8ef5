package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/healthmate/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show today's reminders, medications, mood and vitals",
	Long: `Show the dashboard. Opens an interactive view by default, use --no-ui for plain output.

Keys in the interactive view:
  1/2/3   Log a quick mood (😃 😐 😞)
  r       Refresh
  q/Esc   Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireSession(); err != nil {
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if !noUI {
			return tui.RunDashboardTUI(cmd.Context(), current.aggregator, current.quickMood())
		}

		view, err := current.aggregator.Refresh(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderDashboard(view, time.Now()))
		return nil
	},
}

func init() {
	dashboardCmd.Flags().Bool("no-ui", false, "Print the dashboard without the interactive view")
}
