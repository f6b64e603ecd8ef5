package commands

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/healthmate/internal/api"
	"github.com/balkashynov/healthmate/internal/forms"
	"github.com/balkashynov/healthmate/internal/session"
	"github.com/balkashynov/healthmate/internal/tui"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create your HealthMate account",
	Long: `Create an account and log into it.

Example:
  healthmate onboard --name Ana --age 70 --caregiver-email carer@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sess, ok := current.sessions.Current(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Already logged in as %s. Run 'healthmate logout' first.\n", sess.Name)
			return nil
		}

		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		email, _ := cmd.Flags().GetString("caregiver-email")

		form := current.onboardingForm()
		user, err := form.SubmitWith(cmd.Context(), forms.OnboardingFields{
			Name:           name,
			Age:            strconv.Itoa(age),
			CaregiverEmail: email,
		})
		if err != nil {
			return fmt.Errorf("%s", form.Status().Message)
		}

		status := form.Status()
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s Your user id is %d.\n", status.Message, user.ID)
		for _, effectErr := range status.SideEffectErrors {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠️  Account created but could not log in: %v\n", effectErr)
		}
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log into an existing account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user-id")
		if userID <= 0 {
			return fmt.Errorf("--user-id is required")
		}

		user, err := current.client.GetUser(cmd.Context(), userID)
		if err != nil {
			if failure, ok := api.IsRemoteFailure(err); ok && failure.StatusCode == http.StatusNotFound {
				return fmt.Errorf("no account with id %d", userID)
			}
			return err
		}

		if err := current.sessions.Login(cmd.Context(), session.FromUser(user)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "👋 Welcome back, %s!\n", user.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.sessions.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sess, ok := current.sessions.Current()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderSession(sess))
	},
}

func init() {
	onboardCmd.Flags().String("name", "", "Your name")
	onboardCmd.Flags().Int("age", 0, "Your age")
	onboardCmd.Flags().String("caregiver-email", "", "Email of the caregiver to notify")

	loginCmd.Flags().Int64("user-id", 0, "Id of the account to log into")
}
