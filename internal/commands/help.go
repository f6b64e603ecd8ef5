package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show comprehensive help for healthmate",
	Long:  `Display detailed help for all healthmate commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			target, _, err := rootCmd.Find(args)
			if err == nil && target != rootCmd {
				_ = target.Help()
				return
			}
		}
		showCustomHelp(cmd)
	},
}

func showCustomHelp(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), `
██╗  ██╗███████╗ █████╗ ██╗  ████████╗██╗  ██╗
██║  ██║██╔════╝██╔══██╗██║  ╚══██╔══╝██║  ██║
███████║█████╗  ███████║██║     ██║   ███████║
██╔══██║██╔══╝  ██╔══██║██║     ██║   ██╔══██║
██║  ██║███████╗██║  ██║███████╗██║   ██║  ██║
╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚══════╝╚═╝   ╚═╝  ╚═╝  mate

healthmate - medications, moods and vitals from your terminal

ACCOUNT:

  onboard                 Create an account and log into it
    --name                Your name
    --age                 Your age (1-130)
    --caregiver-email     Who gets notified
  login --user-id <id>    Log into an existing account
  logout                  Forget the stored session
  whoami                  Show the logged in user

DAILY:

  dashboard               Reminders, medications, mood, vitals and insights
    --no-ui               Plain output

    Keys:
      1/2/3         Quick mood 😃 😐 😞
      r             Refresh
      esc/q         Quit

  med add [text]          Add a medication
    -n, --name            Medication name
    -d, --dosage          Dosage
    --at HH:MM            Reminder time (repeatable)
    -i, --interactive     Step-by-step wizard

    Smart syntax:
      healthmate med add "Metformin 500mg @08:00 @20:00"

  med ls                  List medications

  mood log <text>         Describe how you feel; sentiment is analyzed
  mood quick <mood>       happy | neutral | sad (or the emoji)

  vitals add              Record vitals (at least one)
    --systolic            50-250
    --diastolic           30-150
    --sugar               Blood sugar mg/dL, 50-500
    --sleep               Hours, 0-24
  vitals ls               Recent vitals

  insights                Mood and medication insights
  notify <message>        Message your caregiver
    -u, --urgent          Mark as urgent

GLOBAL FLAGS:

  -v, --verbose           Debug logging on stderr
  --ephemeral             Keep the session in memory only

CONFIGURATION:

  ~/.healthmate/config.yaml, .env, and HEALTHMATE_* environment variables
  (HEALTHMATE_API_URL, HEALTHMATE_SESSION_BACKEND, HEALTHMATE_LOG_LEVEL, ...)

`)
}
