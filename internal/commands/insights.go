package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/healthmate/internal/tui"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show mood and medication insights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := current.requireSession()
		if err != nil {
			return err
		}

		insights, err := current.client.GetInsights(cmd.Context(), sess.UserID)
		if err != nil {
			return fmt.Errorf("failed to load insights: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderInsights(insights))
		return nil
	},
}
