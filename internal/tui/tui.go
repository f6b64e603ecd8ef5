package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunDashboardTUI starts the interactive dashboard
func RunDashboardTUI(ctx context.Context, loader DashboardLoader, moods QuickMoodLogger) error {
	p := tea.NewProgram(NewDashboardModel(ctx, loader, moods), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// RunMedicationTUI starts the interactive medication wizard
func RunMedicationTUI(ctx context.Context, form MedicationSubmitter) error {
	model := NewMedicationModel(ctx, form)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(MedicationModel); ok {
		if m.cancelled {
			fmt.Println("❌ Medication entry cancelled.")
		} else if m.completed {
			fmt.Printf("✅ Medication \"%s\" added - ID: %d\n", m.created.Name, m.created.ID)
		}
	}

	return nil
}
