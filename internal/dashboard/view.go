package dashboard

import (
	"time"

	"github.com/balkashynov/healthmate/internal/models"
)

// Limits bound how much of each list the dashboard shows
type Limits struct {
	MaxReminders   int
	MaxMedications int
	MaxVitals      int
}

// DefaultLimits matches the dashboard layout: three of everything
var DefaultLimits = Limits{MaxReminders: 3, MaxMedications: 3, MaxVitals: 3}

// View is one immutable dashboard snapshot. Callers get their own copy.
type View struct {
	UserID       int64
	UserName     string
	Medications  []models.Medication
	RecentMood   *models.MoodLog
	RecentVitals []models.Vital
	Insights     *models.Insights
	Reminders    []models.Reminder

	// RemindersDegraded is set when the reminder fetch failed and Reminders
	// was replaced by an empty list.
	RemindersDegraded bool
	LoadedAt          time.Time

	limits Limits
}

// TopReminders returns the first reminders in server order
func (v View) TopReminders() []models.Reminder {
	return head(v.Reminders, v.limits.MaxReminders)
}

// VisibleMedications returns the medications to show and how many are hidden
func (v View) VisibleMedications() ([]models.Medication, int) {
	shown := head(v.Medications, v.limits.MaxMedications)
	return shown, len(v.Medications) - len(shown)
}

// VisibleVitals returns the newest vitals to show
func (v View) VisibleVitals() []models.Vital {
	return head(v.RecentVitals, v.limits.MaxVitals)
}

// StreakCount is zero when the server sent no insights
func (v View) StreakCount() int {
	if v.Insights == nil {
		return 0
	}
	return v.Insights.StreakCount
}

func (v View) clone() View {
	out := v
	out.Medications = cloneMedications(v.Medications)
	out.RecentVitals = append([]models.Vital(nil), v.RecentVitals...)
	out.Reminders = append([]models.Reminder{}, v.Reminders...)
	if v.RecentMood != nil {
		mood := *v.RecentMood
		out.RecentMood = &mood
	}
	if v.Insights != nil {
		insights := *v.Insights
		out.Insights = &insights
	}
	return out
}

func cloneMedications(in []models.Medication) []models.Medication {
	if in == nil {
		return nil
	}
	out := make([]models.Medication, len(in))
	for i, med := range in {
		med.ReminderTimes = append([]string(nil), med.ReminderTimes...)
		out[i] = med
	}
	return out
}

func head[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
