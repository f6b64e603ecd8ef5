package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/healthmate/internal/forms"
	"github.com/balkashynov/healthmate/internal/parser"
	"github.com/balkashynov/healthmate/internal/tui"
)

var medCmd = &cobra.Command{
	Use:     "med",
	Aliases: []string{"meds", "medication"},
	Short:   "Manage medications",
}

var medAddCmd = &cobra.Command{
	Use:   "add [medication]",
	Short: "Add a medication with reminder times",
	Long: `Add a medication with one or more daily reminder times.

Modes:
  Interactive: healthmate med add -i (or just 'healthmate med add' with no arguments)
  Quick: healthmate med add --name Metformin --dosage 500mg --at 08:00 --at 20:00
  Smart parsing: healthmate med add "Metformin 500mg @08:00 @20:00"

Smart parsing syntax:
  @HH:MM      - Reminder time (repeatable)
  500mg       - Dosage (amount with a unit, optionally "twice daily" etc.)
  the rest    - Medication name`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireSession(); err != nil {
			return err
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		name, _ := cmd.Flags().GetString("name")
		dosage, _ := cmd.Flags().GetString("dosage")
		times, _ := cmd.Flags().GetStringSlice("at")

		// If nothing was given, go interactive
		if len(args) == 0 && name == "" && dosage == "" && len(times) == 0 {
			interactive = true
		}

		fields := forms.MedicationFields{}
		if len(args) > 0 {
			parsed := parser.ParseMedication(strings.Join(args, " "))
			if len(parsed.Errors) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
				interactive = true
			}
			fields = forms.MedicationFields{Name: parsed.Name, Dosage: parsed.Dosage, ReminderTimes: parsed.ReminderTimes}
		}

		// Flags take precedence over parsed text
		if name != "" {
			fields.Name = name
		}
		if dosage != "" {
			fields.Dosage = dosage
		}
		for _, raw := range times {
			t, err := parser.ParseReminderTime(raw)
			if err != nil {
				return err
			}
			fields.ReminderTimes = parser.AddReminderTime(fields.ReminderTimes, t)
		}

		form := current.medicationForm()
		if interactive {
			if err := form.Edit(func(f *forms.MedicationFields) { *f = fields }); err != nil {
				return err
			}
			return tui.RunMedicationTUI(cmd.Context(), form)
		}

		med, err := form.SubmitWith(cmd.Context(), fields)
		if err != nil {
			return fmt.Errorf("%s", form.Status().Message)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Added medication #%d: %s\n", med.ID, med.Name)
		fmt.Fprintf(out, "  Dosage: %s\n", med.Dosage)
		fmt.Fprintf(out, "  Reminders: %s\n", strings.Join(med.ReminderTimes, ", "))
		return nil
	},
}

var medListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List medications",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireSession(); err != nil {
			return err
		}

		form := current.medicationForm()
		if err := form.LoadItems(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load medications: %w", err)
		}

		items := form.Items()
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No medications yet. Use 'healthmate med add' to add your first one.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderMedications(items))
		return nil
	},
}

func init() {
	medAddCmd.Flags().BoolP("interactive", "i", false, "Interactive mode with TUI")
	medAddCmd.Flags().StringP("name", "n", "", "Medication name")
	medAddCmd.Flags().StringP("dosage", "d", "", "Dosage, e.g. 500mg twice daily")
	medAddCmd.Flags().StringSlice("at", []string{}, "Reminder time HH:MM (repeatable)")

	medCmd.AddCommand(medAddCmd)
	medCmd.AddCommand(medListCmd)
}
