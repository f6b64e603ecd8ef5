package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/healthmate/internal/forms"
	"github.com/balkashynov/healthmate/internal/parser"
	"github.com/balkashynov/healthmate/internal/quickmood"
	"github.com/balkashynov/healthmate/internal/tui"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Log how you feel",
}

var moodLogCmd = &cobra.Command{
	Use:   "log <how you feel>",
	Short: "Describe your mood in your own words",
	Long: `Log a mood in free text. The service analyzes its sentiment, which in
turn adapts your medication reminders.

Example:
  healthmate mood log "Slept badly and feeling a bit low"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireSession(); err != nil {
			return err
		}

		form := current.moodForm()
		mood, err := form.SubmitWith(cmd.Context(), forms.MoodFields{Text: strings.Join(args, " ")})
		if err != nil {
			return fmt.Errorf("%s", form.Status().Message)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ %s\n", form.Status().Message)
		fmt.Fprint(out, tui.RenderMood(mood, time.Now()))
		return nil
	},
}

var moodQuickCmd = &cobra.Command{
	Use:   "quick <happy|neutral|sad>",
	Short: "Log a mood with one emoji",
	Long: `Log a quick mood. Accepts the emoji itself or a word:
  😃 happy, good, great, 1
  😐 neutral, ok, meh, 2
  😞 sad, bad, low, 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireSession(); err != nil {
			return err
		}

		emoji, err := parser.ParseEmoji(args[0])
		if err != nil {
			return err
		}

		res, err := current.quickMood().Log(cmd.Context(), emoji)
		if errors.Is(err, quickmood.ErrInFlight) {
			return errors.New("still saving your last mood")
		}
		if err != nil {
			return fmt.Errorf("failed to log mood: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Mood logged %s\n", emoji)
		fmt.Fprint(out, tui.RenderMood(res.Log, time.Now()))
		if res.RefreshErr != nil {
			fmt.Fprintf(out, "⚠️  Dashboard could not refresh: %v\n", res.RefreshErr)
			return nil
		}
		if reminders := res.View.TopReminders(); len(reminders) > 0 {
			fmt.Fprintln(out, "Your next reminders:")
			for _, r := range reminders {
				line := fmt.Sprintf("  %s %s", r.Time, r.Medication)
				if r.Text != "" {
					line += " · " + r.Text
				}
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

func init() {
	moodCmd.AddCommand(moodLogCmd)
	moodCmd.AddCommand(moodQuickCmd)
}
