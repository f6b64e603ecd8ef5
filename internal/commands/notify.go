package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/healthmate/internal/models"
)

var notifyCmd = &cobra.Command{
	Use:   "notify <message>",
	Short: "Send a message to your caregiver",
	Long: `Send a message to the caregiver email on your account.

Example:
  healthmate notify "Feeling dizzy after the new dose" --urgent`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := current.requireSession()
		if err != nil {
			return err
		}

		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			return fmt.Errorf("message cannot be empty")
		}
		urgent, _ := cmd.Flags().GetBool("urgent")

		ack, err := current.client.SendNotification(cmd.Context(), models.Notification{
			UserID:   sess.UserID,
			Message:  message,
			IsUrgent: urgent,
		})
		if err != nil {
			return fmt.Errorf("failed to notify caregiver: %w", err)
		}
		if !ack.Success {
			return fmt.Errorf("caregiver was not notified: %s", ack.Message)
		}

		if ack.Message == "" {
			ack.Message = "Caregiver notified."
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📨 %s\n", ack.Message)
		return nil
	},
}

func init() {
	notifyCmd.Flags().BoolP("urgent", "u", false, "Mark the message as urgent")
}
