package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/healthmate/internal/forms"
	"github.com/balkashynov/healthmate/internal/tui"
)

var vitalsCmd = &cobra.Command{
	Use:     "vitals",
	Aliases: []string{"vital"},
	Short:   "Record and review vital signs",
}

var vitalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record blood pressure, blood sugar or sleep",
	Long: `Record any subset of vital signs. At least one is required.

Example:
  healthmate vitals add --systolic 120 --diastolic 80
  healthmate vitals add --sugar 110.5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireSession(); err != nil {
			return err
		}

		fields := forms.VitalsFields{}
		fields.Systolic, _ = cmd.Flags().GetString("systolic")
		fields.Diastolic, _ = cmd.Flags().GetString("diastolic")
		fields.BloodSugar, _ = cmd.Flags().GetString("sugar")
		fields.SleepHours, _ = cmd.Flags().GetString("sleep")

		form := current.vitalsForm()
		if _, err := form.SubmitWith(cmd.Context(), fields); err != nil {
			return fmt.Errorf("%s", form.Status().Message)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ %s\n", form.Status().Message)
		if recent := form.Recent(); len(recent) > 0 {
			fmt.Fprintln(out, "Recent vitals:")
			fmt.Fprint(out, tui.RenderVitals(recent, time.Now()))
		}
		return nil
	},
}

var vitalsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List recent vitals",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireSession(); err != nil {
			return err
		}

		form := current.vitalsForm()
		if err := form.LoadRecent(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load vitals: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderVitals(form.Recent(), time.Now()))
		return nil
	},
}

func init() {
	vitalsAddCmd.Flags().String("systolic", "", "Systolic blood pressure (50-250)")
	vitalsAddCmd.Flags().String("diastolic", "", "Diastolic blood pressure (30-150)")
	vitalsAddCmd.Flags().String("sugar", "", "Blood sugar in mg/dL (50-500)")
	vitalsAddCmd.Flags().String("sleep", "", "Hours slept (0-24)")

	vitalsCmd.AddCommand(vitalsAddCmd)
	vitalsCmd.AddCommand(vitalsListCmd)
}
