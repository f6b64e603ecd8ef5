package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/healthmate/internal/forms"
	"github.com/balkashynov/healthmate/internal/models"
)

// Step represents the current step in the wizard
type Step int

const (
	StepName Step = iota
	StepDosage
	StepTimes
	StepSave
)

var stepLabels = []string{"Name", "Dosage", "Reminder times", "Save"}

// MedicationSubmitter is the medication form the wizard drives
type MedicationSubmitter interface {
	Fields() forms.MedicationFields
	Edit(fn func(*forms.MedicationFields)) error
	AddReminderTime(input string) error
	RemoveReminderTime(t string) error
	Submit(ctx context.Context) (models.Medication, error)
	Status() forms.Status
}

type medicationSavedMsg struct {
	med models.Medication
	err error
}

// MedicationModel is the step-by-step medication wizard
type MedicationModel struct {
	ctx  context.Context
	form MedicationSubmitter

	currentStep Step
	inputs      []textinput.Model
	width       int
	height      int

	saving        bool
	completed     bool
	cancelled     bool
	validationErr string
	created       models.Medication

	spinner spinner.Model
}

// NewMedicationModel creates the wizard, starting from the form's current
// fields.
func NewMedicationModel(ctx context.Context, form MedicationSubmitter) MedicationModel {
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 50
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[StepName].Placeholder = "Medication name, e.g. Metformin (required)"
	inputs[StepName].CharLimit = 100
	inputs[StepName].Focus()

	inputs[StepDosage].Placeholder = "Dosage, e.g. 500mg twice daily (required)"
	inputs[StepDosage].CharLimit = 100

	inputs[StepTimes].Placeholder = "Reminder time HH:MM (Enter on empty to continue)"
	inputs[StepTimes].CharLimit = 5

	fields := form.Fields()
	inputs[StepName].SetValue(fields.Name)
	inputs[StepDosage].SetValue(fields.Dosage)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return MedicationModel{
		ctx:     ctx,
		form:    form,
		inputs:  inputs,
		spinner: s,
	}
}

// Init initializes the model
func (m MedicationModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m MedicationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case medicationSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.validationErr = m.form.Status().Message
			return m, nil
		}
		m.created = msg.med
		m.completed = true
		return m, tea.Quit

	case tea.KeyMsg:
		if m.saving {
			if msg.String() == "ctrl+c" {
				m.cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			if err := m.checkStep(); err != "" {
				m.validationErr = err
				return m, nil
			}
			return m.nextStep()

		case "shift+tab", "up":
			return m.prevStep()

		case "ctrl+x":
			// drop the most recently added time
			if m.currentStep == StepTimes {
				times := m.form.Fields().ReminderTimes
				if len(times) > 0 {
					_ = m.form.RemoveReminderTime(times[len(times)-1])
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.currentStep < StepSave {
		m.inputs[m.currentStep], cmd = m.inputs[m.currentStep].Update(msg)
		m.syncFields()
	}
	return m, cmd
}

// syncFields copies the text inputs into the form
func (m MedicationModel) syncFields() {
	name := m.inputs[StepName].Value()
	dosage := m.inputs[StepDosage].Value()
	_ = m.form.Edit(func(f *forms.MedicationFields) {
		f.Name = name
		f.Dosage = dosage
	})
}

func (m MedicationModel) checkStep() string {
	fields := m.form.Fields()
	switch m.currentStep {
	case StepName:
		if strings.TrimSpace(fields.Name) == "" {
			return "Medication name is required"
		}
	case StepDosage:
		if strings.TrimSpace(fields.Dosage) == "" {
			return "Dosage is required"
		}
	case StepTimes:
		if len(fields.ReminderTimes) == 0 {
			return "Add at least one reminder time"
		}
	}
	return ""
}

// handleEnter processes the Enter key
func (m MedicationModel) handleEnter() (MedicationModel, tea.Cmd) {
	m.validationErr = ""

	switch m.currentStep {
	case StepTimes:
		input := strings.TrimSpace(m.inputs[StepTimes].Value())
		if input != "" {
			if err := m.form.AddReminderTime(input); err != nil {
				m.validationErr = err.Error()
				return m, nil
			}
			m.inputs[StepTimes].SetValue("")
			return m, nil
		}

	case StepSave:
		m.saving = true
		return m, tea.Batch(m.spinner.Tick, m.saveCmd())
	}

	if err := m.checkStep(); err != "" {
		m.validationErr = err
		return m, nil
	}
	return m.nextStep()
}

func (m MedicationModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		med, err := m.form.Submit(m.ctx)
		return medicationSavedMsg{med: med, err: err}
	}
}

func (m MedicationModel) nextStep() (MedicationModel, tea.Cmd) {
	if m.currentStep >= StepSave {
		return m, nil
	}
	m.validationErr = ""
	m.inputs[m.currentStep].Blur()
	m.currentStep++
	if m.currentStep < StepSave {
		return m, m.inputs[m.currentStep].Focus()
	}
	return m, nil
}

func (m MedicationModel) prevStep() (MedicationModel, tea.Cmd) {
	if m.currentStep == StepName {
		return m, nil
	}
	m.validationErr = ""
	if m.currentStep < StepSave {
		m.inputs[m.currentStep].Blur()
	}
	m.currentStep--
	return m, m.inputs[m.currentStep].Focus()
}

// View renders the TUI
func (m MedicationModel) View() string {
	if m.cancelled || m.completed {
		return ""
	}

	left := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1).
		Render(m.renderWizard())

	if m.width > 0 && m.width < 85 {
		return left + "\n" + m.renderPreview()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.renderPreview())
}

// renderWizard renders the step list and the current input
func (m MedicationModel) renderWizard() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("💊 Add Medication"))
	b.WriteString("\n\n")

	done := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	current := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	future := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	for i, label := range stepLabels {
		switch {
		case Step(i) == m.currentStep:
			b.WriteString(current.Render("▶ " + label))
		case Step(i) < m.currentStep:
			b.WriteString(done.Render("✓ " + label))
		default:
			b.WriteString(future.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.currentStep {
	case StepName:
		b.WriteString("📋 Medication\n")
		b.WriteString(m.inputs[StepName].View())
	case StepDosage:
		b.WriteString("⚖️ Dosage\n")
		b.WriteString(m.inputs[StepDosage].View())
	case StepTimes:
		b.WriteString("⏰ Reminder times\n")
		if times := m.form.Fields().ReminderTimes; len(times) > 0 {
			b.WriteString(fmt.Sprintf("Added: %s\n", strings.Join(times, ", ")))
		}
		b.WriteString(m.inputs[StepTimes].View())
	case StepSave:
		b.WriteString("💾 Save medication\n")
		if m.saving {
			b.WriteString(m.spinner.View() + " Saving...")
		} else {
			b.WriteString("Press Enter to save")
		}
	}

	if m.validationErr != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			MarginTop(1)
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("❌ " + m.validationErr))
	}
	b.WriteString("\n\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	help := "Enter: Next | Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"
	if m.currentStep == StepTimes {
		help = "Enter: Add time | Ctrl+X: Remove last | Esc: Cancel"
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// renderPreview renders the live medication card
func (m MedicationModel) renderPreview() string {
	fields := m.form.Fields()

	name := strings.TrimSpace(fields.Name)
	if name == "" {
		name = "Unnamed medication"
	}

	var card strings.Builder
	card.WriteString(headerStyle.Render("💊 " + name))
	card.WriteString("\n")
	if dosage := strings.TrimSpace(fields.Dosage); dosage != "" {
		card.WriteString(mutedStyle.Render(dosage))
		card.WriteString("\n")
	}
	card.WriteString("\n")
	if len(fields.ReminderTimes) == 0 {
		card.WriteString(mutedStyle.Render("No reminder times yet"))
	}
	for _, t := range fields.ReminderTimes {
		card.WriteString(badgeStyle.Render("⏰ " + t))
		card.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(36).
		Padding(1).
		Render(card.String())
}
